package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/peopleflow-backend-go/internal/config"
	"github.com/jengzang/peopleflow-backend-go/internal/handler"
	"github.com/jengzang/peopleflow-backend-go/internal/metrics"
	"github.com/jengzang/peopleflow-backend-go/internal/middleware"
	"github.com/jengzang/peopleflow-backend-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, logger *zap.Logger, svc *service.QueryService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Middleware())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	flowHandler := handler.NewFlowHandler(svc)
	healthHandler := handler.NewHealthHandler(svc)
	adminHandler := handler.NewAdminHandler(svc)

	// 健康检查
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	))
	{
		flow := api.Group("/flow")
		{
			flow.GET("/context", flowHandler.GetContext)
			flow.GET("/records", flowHandler.GetRecords)
			flow.GET("/keys", flowHandler.GetKeys)
			flow.GET("/heatmap", flowHandler.GetHeatmap)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
		{
			admin.POST("/reload", adminHandler.Reload)
		}
	}

	return r
}
