package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nwced/clc-registry-api/internal/service"
	"github.com/nwced/clc-registry-api/pkg/response"
)

// DashboardHandler exposes the aggregated summary endpoint.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Aggregated counts across sites, staff, assets and programs plus recent activity
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
