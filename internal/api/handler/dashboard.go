package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/internal/pkg/response"
	"github.com/dogacademy/academy_go_server/internal/service"
)

type DashboardHandler struct {
	dashboardSvc *service.DashboardService
}

func NewDashboardHandler(dashboardSvc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Metrics 套餐看板指标
func (h *DashboardHandler) Metrics(c *gin.Context) {
	metrics, err := h.dashboardSvc.Metrics()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, metrics)
}
