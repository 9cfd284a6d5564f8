package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/internal/api/middleware"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/pkg/response"
	"github.com/dogacademy/academy_go_server/internal/service"
)

type PackageHandler struct {
	packageSvc *service.PackageService
}

func NewPackageHandler(packageSvc *service.PackageService) *PackageHandler {
	return &PackageHandler{packageSvc: packageSvc}
}

// Create 创建套餐
func (h *PackageHandler) Create(c *gin.Context) {
	var req dto.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	pkg, err := h.packageSvc.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidExpiryDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, pkg)
}

// List 套餐列表，支持按状态过滤
func (h *PackageHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	status := c.Query("status")

	pkgs, total, err := h.packageSvc.List(page, pageSize, status)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, pkgs)
}

// ListAlertable 看板视图：可消耗套餐按剩余课时升序
func (h *PackageHandler) ListAlertable(c *gin.Context) {
	pkgs, err := h.packageSvc.ListWithAlertableStatus()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, pkgs)
}

// ListByClient 某客户的全部套餐
func (h *PackageHandler) ListByClient(c *gin.Context) {
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		response.ParamError(c, "")
		return
	}

	var pkgs interface{}
	var err error
	if c.Query("active_only") == "true" {
		pkgs, err = h.packageSvc.ListActiveByClient(clientID)
	} else {
		pkgs, err = h.packageSvc.ListByClient(clientID)
	}
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, pkgs)
}

// Get 套餐详情
func (h *PackageHandler) Get(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	pkg, err := h.packageSvc.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, pkg)
}

// Update 更新套餐属性
func (h *PackageHandler) Update(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	pkg, err := h.packageSvc.Update(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidExpiryDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, pkg)
}

// Delete 删除套餐
func (h *PackageHandler) Delete(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	if err := h.packageSvc.Delete(id); err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Consume 扣减一次课时
func (h *PackageHandler) Consume(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.ConsumeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	resp, err := h.packageSvc.Consume(id, middleware.GetUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidSessionDate):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrNoSessionsLeft),
			errors.Is(err, service.ErrPackageExpired),
			errors.Is(err, service.ErrPackageCompleted):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// ListSessions 套餐的课时消耗记录
func (h *PackageHandler) ListSessions(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	sessions, err := h.packageSvc.ListSessions(id)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, sessions)
}

// Recompute 手工触发单个套餐状态重算
func (h *PackageHandler) Recompute(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	pkg, err := h.packageSvc.Recompute(id)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, pkg)
}

// RecomputeAll 手工触发全量状态重算
func (h *PackageHandler) RecomputeAll(c *gin.Context) {
	changed, err := h.packageSvc.RecomputeAll(time.Now())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"changed": changed})
}
