package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/internal/api/middleware"
	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/pkg/response"
	"github.com/dogacademy/academy_go_server/internal/service"
)

// PortalHandler 客户门户。所有接口只返回当前登录账号绑定的客户数据，
// 客户之间相互不可见。
type PortalHandler struct {
	clientSvc  *service.ClientService
	packageSvc *service.PackageService
	apptSvc    *service.AppointmentService
	billingSvc *service.BillingService
	alertSvc   *service.AlertService
}

func NewPortalHandler(
	clientSvc *service.ClientService,
	packageSvc *service.PackageService,
	apptSvc *service.AppointmentService,
	billingSvc *service.BillingService,
	alertSvc *service.AlertService,
) *PortalHandler {
	return &PortalHandler{
		clientSvc:  clientSvc,
		packageSvc: packageSvc,
		apptSvc:    apptSvc,
		billingSvc: billingSvc,
		alertSvc:   alertSvc,
	}
}

// me 解析当前登录账号绑定的客户档案
func (h *PortalHandler) me(c *gin.Context) (*model.Client, bool) {
	client, err := h.clientSvc.GetByUserID(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, "当前账号未绑定客户档案")
			return nil, false
		}
		response.ServerError(c, "")
		return nil, false
	}
	return client, true
}

// Me 当前客户档案
func (h *PortalHandler) Me(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}
	response.Success(c, client)
}

// MyDogs 名下犬只
func (h *PortalHandler) MyDogs(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}

	dogs, err := h.clientSvc.ListDogs(client.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, dogs)
}

// MyPackages 名下套餐，active_only=true 时只返回可消耗的
func (h *PortalHandler) MyPackages(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}

	var pkgs interface{}
	var err error
	if c.Query("active_only") == "true" {
		pkgs, err = h.packageSvc.ListActiveByClient(client.ID)
	} else {
		pkgs, err = h.packageSvc.ListByClient(client.ID)
	}
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, pkgs)
}

// MyPackageSessions 自己某个套餐的课时记录
func (h *PortalHandler) MyPackageSessions(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}

	packageID := parseIDParam(c, "id")
	if packageID == 0 {
		response.ParamError(c, "")
		return
	}

	pkg, err := h.packageSvc.Get(packageID)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	if pkg.ClientID != client.ID {
		response.PermissionError(c, "")
		return
	}

	sessions, err := h.packageSvc.ListSessions(packageID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, sessions)
}

// MyAppointments 名下预约
func (h *PortalHandler) MyAppointments(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}

	appts, err := h.apptSvc.ListByClient(client.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, appts)
}

// MyInvoices 名下账单
func (h *PortalHandler) MyInvoices(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}

	invoices, err := h.billingSvc.ListInvoicesByClient(client.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, invoices)
}

// MyAlerts 未读提醒
func (h *PortalHandler) MyAlerts(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}

	alerts, err := h.alertSvc.ListUnreadByClient(client.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, alerts)
}

// ReadMyAlerts 全部标记已读
func (h *PortalHandler) ReadMyAlerts(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}

	updated, err := h.alertSvc.MarkAllReadByClient(client.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"updated": updated})
}
