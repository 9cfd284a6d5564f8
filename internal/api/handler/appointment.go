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

type AppointmentHandler struct {
	apptSvc    *service.AppointmentService
	catalogSvc *service.CatalogService
}

func NewAppointmentHandler(apptSvc *service.AppointmentService, catalogSvc *service.CatalogService) *AppointmentHandler {
	return &AppointmentHandler{apptSvc: apptSvc, catalogSvc: catalogSvc}
}

// Create 创建预约
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	appt, err := h.apptSvc.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound),
			errors.Is(err, service.ErrTeacherNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrTeacherConflict):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, appt)
}

// List 预约列表，支持按状态过滤或按日期查询排课
func (h *AppointmentHandler) List(c *gin.Context) {
	if day := c.Query("day"); day != "" {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			response.ParamError(c, "日期格式无效")
			return
		}
		appts, err := h.apptSvc.ListByDay(parsed)
		if err != nil {
			response.ServerError(c, "")
			return
		}
		response.Success(c, appts)
		return
	}

	page, pageSize := parsePagination(c)
	appts, total, err := h.apptSvc.List(page, pageSize, c.Query("status"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, appts)
}

// ListByTeacher 某训导师的预约
func (h *AppointmentHandler) ListByTeacher(c *gin.Context) {
	teacherID := parseIDParam(c, "id")
	if teacherID == 0 {
		response.ParamError(c, "")
		return
	}

	appts, err := h.apptSvc.ListByTeacher(teacherID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, appts)
}

// ListByClient 某客户的预约
func (h *AppointmentHandler) ListByClient(c *gin.Context) {
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		response.ParamError(c, "")
		return
	}

	appts, err := h.apptSvc.ListByClient(clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, appts)
}

// Get 预约详情
func (h *AppointmentHandler) Get(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	appt, err := h.apptSvc.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, appt)
}

// Update 修改预约
func (h *AppointmentHandler) Update(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	appt, err := h.apptSvc.Update(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrTeacherConflict),
			errors.Is(err, service.ErrAppointmentFinished):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, appt)
}

// UpdateStatus 预约状态流转，完成时联动扣减套餐课时
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	appt, err := h.apptSvc.UpdateStatus(id, middleware.GetUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound),
			errors.Is(err, service.ErrPackageNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNoSessionsLeft),
			errors.Is(err, service.ErrPackageExpired),
			errors.Is(err, service.ErrPackageCompleted):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, appt)
}

// Delete 删除预约
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	if err := h.apptSvc.Delete(id); err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// CreateService 创建训练服务项目
func (h *AppointmentHandler) CreateService(c *gin.Context) {
	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	svc, err := h.catalogSvc.Create(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, svc)
}

// ListServices 服务项目列表
func (h *AppointmentHandler) ListServices(c *gin.Context) {
	services, err := h.catalogSvc.List(c.Query("active_only") == "true")
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, services)
}

// GetService 服务项目详情
func (h *AppointmentHandler) GetService(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	svc, err := h.catalogSvc.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, svc)
}

// UpdateService 更新服务项目
func (h *AppointmentHandler) UpdateService(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	svc, err := h.catalogSvc.Update(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, svc)
}

// DeleteService 删除服务项目
func (h *AppointmentHandler) DeleteService(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	if err := h.catalogSvc.Delete(id); err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
