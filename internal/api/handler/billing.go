package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/internal/api/middleware"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/pkg/response"
	"github.com/dogacademy/academy_go_server/internal/service"
)

type BillingHandler struct {
	billingSvc *service.BillingService
}

func NewBillingHandler(billingSvc *service.BillingService) *BillingHandler {
	return &BillingHandler{billingSvc: billingSvc}
}

// CreateInvoice 创建账单
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	invoice, err := h.billingSvc.CreateInvoice(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDueDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, invoice)
}

// ListInvoices 账单列表
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	page, pageSize := parsePagination(c)

	invoices, total, err := h.billingSvc.ListInvoices(page, pageSize, c.Query("status"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, invoices)
}

// ListInvoicesByClient 某客户的账单
func (h *BillingHandler) ListInvoicesByClient(c *gin.Context) {
	clientID := parseIDParam(c, "id")
	if clientID == 0 {
		response.ParamError(c, "")
		return
	}

	invoices, err := h.billingSvc.ListInvoicesByClient(clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, invoices)
}

// GetInvoice 账单详情（含支付记录）
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	invoice, err := h.billingSvc.GetInvoice(id)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	payments, err := h.billingSvc.ListPaymentsByInvoice(id)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"invoice":  invoice,
		"payments": payments,
	})
}

// UpdateInvoice 更新账单
func (h *BillingHandler) UpdateInvoice(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	invoice, err := h.billingSvc.UpdateInvoice(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDueDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, invoice)
}

// DeleteInvoice 删除账单
func (h *BillingHandler) DeleteInvoice(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	if err := h.billingSvc.DeleteInvoice(id); err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// RecordPayment 登记支付，收据图片可选
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	invoiceID := parseIDParam(c, "id")
	if invoiceID == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	var receipt []byte
	var ext string
	if file, header, err := c.Request.FormFile("receipt"); err == nil {
		defer file.Close()

		if header.Size > 10<<20 {
			response.ParamError(c, "文件超过大小限制")
			return
		}
		ext = strings.ToLower(filepath.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp", ".pdf":
		default:
			response.ParamError(c, "不支持的收据格式")
			return
		}

		receipt, err = io.ReadAll(file)
		if err != nil {
			response.ServerError(c, "")
			return
		}
	}

	payment, err := h.billingSvc.RecordPayment(invoiceID, &req, receipt, ext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvoiceCancelled),
			errors.Is(err, service.ErrInvoiceAlreadyPaid):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, payment)
}

// ListPendingPayments 待核验支付队列
func (h *BillingHandler) ListPendingPayments(c *gin.Context) {
	payments, err := h.billingSvc.ListPendingPayments()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, payments)
}

// VerifyPayment 核验通过
func (h *BillingHandler) VerifyPayment(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	payment, err := h.billingSvc.VerifyPayment(id, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPaymentNotPending):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, payment)
}

// RejectPayment 驳回支付
func (h *BillingHandler) RejectPayment(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		response.ParamError(c, "")
		return
	}

	var req dto.RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	payment, err := h.billingSvc.RejectPayment(id, middleware.GetUserID(c), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPaymentNotPending):
			response.BusinessError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, payment)
}
