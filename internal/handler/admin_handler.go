package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/peopleflow-backend-go/internal/service"
	"github.com/jengzang/peopleflow-backend-go/pkg/response"
)

// AdminHandler serves the operator-only endpoints
type AdminHandler struct {
	svc *service.QueryService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc *service.QueryService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Reload handles POST /api/v1/admin/reload. It rebuilds the dataset
// from the configured source and swaps it in atomically; in-flight
// queries keep reading the previous generation.
func (h *AdminHandler) Reload(c *gin.Context) {
	report, err := h.svc.Reload()
	if err != nil {
		response.InternalError(c, "reload failed: "+err.Error())
		return
	}

	response.Success(c, report)
}
