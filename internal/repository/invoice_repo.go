package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(invoice *model.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(id int64) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.Where("id = ?", id).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Invoice{}).Where("id = ?", id).Updates(fields).Error
}

func (r *InvoiceRepository) Delete(id int64) error {
	return r.db.Delete(&model.Invoice{}, id).Error
}

func (r *InvoiceRepository) List(page, pageSize int, status string) ([]*model.Invoice, int64, error) {
	var invoices []*model.Invoice
	var total int64

	query := r.db.Model(&model.Invoice{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("issued_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *InvoiceRepository) ListByClient(clientID int64) ([]*model.Invoice, error) {
	var invoices []*model.Invoice
	err := r.db.Where("client_id = ?", clientID).
		Order("issued_at DESC").Find(&invoices).Error
	return invoices, err
}

// MarkOverdueBefore 将到期未支付的账单批量标记为逾期，返回更新行数
func (r *InvoiceRepository) MarkOverdueBefore(now time.Time) (int64, error) {
	result := r.db.Model(&model.Invoice{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", model.InvoicePending, now).
		Update("status", model.InvoiceOverdue)
	return result.RowsAffected, result.Error
}
