package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/pkg/email"
	"github.com/dogacademy/academy_go_server/internal/pkg/oss"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

var (
	ErrInvoiceNotFound    = errors.New("账单不存在")
	ErrInvoiceCancelled   = errors.New("账单已取消，不可登记支付")
	ErrInvoiceAlreadyPaid = errors.New("账单已支付")
	ErrPaymentNotFound    = errors.New("支付记录不存在")
	ErrPaymentNotPending  = errors.New("支付记录不在待核验状态")
	ErrInvalidDueDate     = errors.New("到期日期格式无效")
)

type BillingService struct {
	db          *gorm.DB
	invoiceRepo *repository.InvoiceRepository
	paymentRepo *repository.PaymentRepository
	clientRepo  *repository.ClientRepository
	ossClient   *oss.Client    // 可为空，为空时不支持收据上传
	emailSvc    *email.Service // 可为空，为空时跳过邮件通知
}

func NewBillingService(
	db *gorm.DB,
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentRepository,
	clientRepo *repository.ClientRepository,
	ossClient *oss.Client,
	emailSvc *email.Service,
) *BillingService {
	return &BillingService{
		db:          db,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		ossClient:   ossClient,
		emailSvc:    emailSvc,
	}
}

func (s *BillingService) CreateInvoice(req *dto.CreateInvoiceRequest) (*model.Invoice, error) {
	if _, err := s.clientRepo.GetByID(req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		dueDate = &parsed
	}

	invoice := &model.Invoice{
		ClientID:  req.ClientID,
		PackageID: req.PackageID,
		Concept:   req.Concept,
		Amount:    req.Amount,
		IssuedAt:  time.Now(),
		DueDate:   dueDate,
		Status:    model.InvoicePending,
		Notes:     req.Notes,
	}
	if err := s.invoiceRepo.Create(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *BillingService) GetInvoice(id int64) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (s *BillingService) UpdateInvoice(id int64, req *dto.UpdateInvoiceRequest) (*model.Invoice, error) {
	if _, err := s.GetInvoice(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Concept != nil {
		fields["concept"] = *req.Concept
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			fields["due_date"] = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.DueDate)
			if err != nil {
				return nil, ErrInvalidDueDate
			}
			fields["due_date"] = parsed
		}
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) > 0 {
		if err := s.invoiceRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.invoiceRepo.GetByID(id)
}

func (s *BillingService) DeleteInvoice(id int64) error {
	if _, err := s.GetInvoice(id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(id)
}

func (s *BillingService) ListInvoices(page, pageSize int, status string) ([]*model.Invoice, int64, error) {
	return s.invoiceRepo.List(page, pageSize, status)
}

func (s *BillingService) ListInvoicesByClient(clientID int64) ([]*model.Invoice, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.invoiceRepo.ListByClient(clientID)
}

// RecordPayment 登记一笔支付，收据图片上传至 OSS，状态为待核验
func (s *BillingService) RecordPayment(invoiceID int64, req *dto.RecordPaymentRequest, receipt []byte, ext string) (*model.Payment, error) {
	invoice, err := s.GetInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == model.InvoiceCancelled {
		return nil, ErrInvoiceCancelled
	}
	if invoice.Status == model.InvoicePaid {
		return nil, ErrInvoiceAlreadyPaid
	}

	receiptURL := ""
	if len(receipt) > 0 {
		if s.ossClient == nil {
			return nil, errors.New("对象存储未配置")
		}
		receiptURL, err = s.ossClient.UploadReceipt(invoiceID, receipt, ext)
		if err != nil {
			return nil, err
		}
	}

	payment := &model.Payment{
		InvoiceID:  invoiceID,
		ClientID:   invoice.ClientID,
		Amount:     req.Amount,
		Method:     req.Method,
		ReceiptURL: receiptURL,
		Status:     model.PaymentPending,
		Notes:      req.Notes,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *BillingService) GetPayment(id int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *BillingService) ListPaymentsByInvoice(invoiceID int64) ([]*model.Payment, error) {
	if _, err := s.GetInvoice(invoiceID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByInvoice(invoiceID)
}

func (s *BillingService) ListPendingPayments() ([]*model.Payment, error) {
	return s.paymentRepo.ListPending()
}

// VerifyPayment 核验通过：支付标记 verified，账单标记 paid，事务内完成
func (s *BillingService) VerifyPayment(paymentID, adminID int64) (*model.Payment, error) {
	payment, err := s.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPaymentRepository(tx).UpdateFields(paymentID, map[string]interface{}{
			"status":      model.PaymentVerified,
			"verified_by": adminID,
			"verified_at": now,
		}); err != nil {
			return err
		}
		return repository.NewInvoiceRepository(tx).UpdateFields(payment.InvoiceID, map[string]interface{}{
			"status": model.InvoicePaid,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyPaymentVerified(payment)

	return s.paymentRepo.GetByID(paymentID)
}

// RejectPayment 驳回支付，账单保持原状态
func (s *BillingService) RejectPayment(paymentID, adminID int64, reason string) (*model.Payment, error) {
	payment, err := s.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":      model.PaymentRejected,
		"verified_by": adminID,
		"verified_at": now,
	}
	if reason != "" {
		fields["notes"] = reason
	}
	if err := s.paymentRepo.UpdateFields(paymentID, fields); err != nil {
		return nil, err
	}

	return s.paymentRepo.GetByID(paymentID)
}

func (s *BillingService) notifyPaymentVerified(payment *model.Payment) {
	if s.emailSvc == nil {
		return
	}

	client, err := s.clientRepo.GetByID(payment.ClientID)
	if err != nil || client.Email == "" {
		return
	}

	invoice, err := s.invoiceRepo.GetByID(payment.InvoiceID)
	if err != nil {
		return
	}

	// 邮件失败不影响核验结果
	if err := s.emailSvc.SendPaymentVerified(client.Email, invoice.Concept, payment.Amount); err != nil {
		log.Printf("Failed to send payment verified email to %s: %v", client.Email, err)
	}
}
