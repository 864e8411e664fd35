package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/peopleflow-backend-go/internal/models"
	"github.com/jengzang/peopleflow-backend-go/internal/service"
	"github.com/jengzang/peopleflow-backend-go/pkg/response"
)

// FlowHandler handles HTTP requests for people-flow queries
type FlowHandler struct {
	svc *service.QueryService
}

// NewFlowHandler creates a new flow handler
func NewFlowHandler(svc *service.QueryService) *FlowHandler {
	return &FlowHandler{svc: svc}
}

// GetContext handles GET /api/v1/flow/context
func (h *FlowHandler) GetContext(c *gin.Context) {
	var filter models.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.svc.Context(filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, result)
}

// GetRecords handles GET /api/v1/flow/records
func (h *FlowHandler) GetRecords(c *gin.Context) {
	var filter models.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.svc.Records(filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, result)
}

// GetKeys handles GET /api/v1/flow/keys
func (h *FlowHandler) GetKeys(c *gin.Context) {
	keys, err := h.svc.Keys()
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, keys)
}

// GetHeatmap handles GET /api/v1/flow/heatmap
func (h *FlowHandler) GetHeatmap(c *gin.Context) {
	var filter models.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.svc.Heatmap(filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, result)
}

// fail maps facade errors onto the three-way contract: malformed query
// (400), service warming up (503), anything else (500). A query miss
// never reaches here; it is a 200 with has_data=false.
func (h *FlowHandler) fail(c *gin.Context, err error) {
	var invalid *service.InvalidQueryError
	switch {
	case errors.As(err, &invalid):
		response.BadRequest(c, invalid.Reason)
	case errors.Is(err, service.ErrNotReady):
		response.Unavailable(c, "dataset is not loaded yet")
	default:
		response.InternalError(c, err.Error())
	}
}
