package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/internal/pkg/response"
	"github.com/dogacademy/academy_go_server/internal/service"
)

type AlertHandler struct {
	alertSvc *service.AlertService
}

func NewAlertHandler(alertSvc *service.AlertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

// ListPending 全部未读提醒（管理看板）
func (h *AlertHandler) ListPending(c *gin.Context) {
	alerts, err := h.alertSvc.ListPending()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, alerts)
}

// ListByClient 某客户的未读提醒
func (h *AlertHandler) ListByClient(c *gin.Context) {
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		response.ParamError(c, "")
		return
	}

	alerts, err := h.alertSvc.ListUnreadByClient(clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, alerts)
}

// ListByPackage 某套餐的提醒历史
func (h *AlertHandler) ListByPackage(c *gin.Context) {
	packageID := parseIDParam(c, "id")
	if packageID == 0 {
		response.ParamError(c, "")
		return
	}

	alerts, err := h.alertSvc.ListByPackage(packageID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, alerts)
}

// MarkRead 单条标记已读
func (h *AlertHandler) MarkRead(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	alert, err := h.alertSvc.MarkRead(id)
	if err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, alert)
}

// MarkAllReadByClient 按客户批量已读
func (h *AlertHandler) MarkAllReadByClient(c *gin.Context) {
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		response.ParamError(c, "")
		return
	}

	updated, err := h.alertSvc.MarkAllReadByClient(clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"updated": updated})
}
