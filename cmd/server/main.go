package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/jengzang/peopleflow-backend-go/internal/api"
	"github.com/jengzang/peopleflow-backend-go/internal/config"
	"github.com/jengzang/peopleflow-backend-go/internal/logging"
	"github.com/jengzang/peopleflow-backend-go/internal/projection"
	"github.com/jengzang/peopleflow-backend-go/internal/service"
	"github.com/jengzang/peopleflow-backend-go/internal/source"
	"github.com/jengzang/peopleflow-backend-go/internal/spatial"
	"github.com/jengzang/peopleflow-backend-go/internal/store"
)

func main() {
	// 加载配置
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	proj := projection.New(projection.Params{
		SemiMajorAxis:     cfg.Projection.SemiMajorAxis,
		InverseFlattening: cfg.Projection.InverseFlattening,
		CentralMeridian:   cfg.Projection.CentralMeridian,
		LatitudeOrigin:    cfg.Projection.LatitudeOrigin,
		ScaleFactor:       cfg.Projection.ScaleFactor,
		FalseEasting:      cfg.Projection.FalseEasting,
		FalseNorthing:     cfg.Projection.FalseNorthing,
	})
	bounds := spatial.NewBoundingBox(
		cfg.Bounds.MinLat, cfg.Bounds.MinLng,
		cfg.Bounds.MaxLat, cfg.Bounds.MaxLng,
	)

	loader := func() (*store.Store, error) {
		src, err := source.Open(
			cfg.Dataset.Path, cfg.Dataset.Format,
			cfg.Dataset.Table, cfg.Dataset.Columns,
		)
		if err != nil {
			return nil, err
		}
		return store.Load(src, proj, bounds, store.Options{
			PercentTolerance: cfg.Dataset.PercentTolerance,
			DwellSlack:       cfg.Dataset.DwellSlack,
		}, logger)
	}

	svc := service.NewQueryService(loader, logger)

	// 启动前必须完成数据加载
	if _, err := svc.Reload(); err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err),
			zap.String("path", cfg.Dataset.Path))
	}

	if cfg.Dataset.Watch {
		watcher, err := service.Watch(cfg.Dataset.Path, svc, logger)
		if err != nil {
			logger.Warn("dataset watcher unavailable", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	// 初始化路由
	router := api.SetupRouter(cfg, logger, svc)

	// 启动服务器
	logger.Info("Server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
