package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shop/storefront/internal/application/dashboard"
)

// DashboardService aggregates the back-office overview
type DashboardService interface {
	Overview(ctx context.Context) (*dashboard.Overview, error)
}

// DashboardHandler serves the back-office landing page data
type DashboardHandler struct {
	BaseHandler
	dashboard DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: svc}
}

// Overview godoc
// @ID           adminDashboard
// @Summary      Back-office overview
// @Description  Counters, recent orders and products at or below the low-stock threshold
// @Tags         admin-dashboard
// @Produce      json
// @Success      200 {object} APIResponse[dashboard.Overview]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	view, err := h.dashboard.Overview(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}
