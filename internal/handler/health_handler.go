package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/peopleflow-backend-go/internal/service"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	svc *service.QueryService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(svc *service.QueryService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// Health handles GET /health. Liveness only; always 200 while the
// process runs.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Peopleflow Backend API is running",
	})
}

// Ready handles GET /ready. Reports 503 until a dataset generation is
// live, then 200 with the load report so operators can see rejection
// counts at a glance.
func (h *HealthHandler) Ready(c *gin.Context) {
	report, err := h.svc.Report()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "loading",
			"message": "dataset is not loaded yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"report": report,
	})
}
