package repository

import (
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Payment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PaymentRepository) ListByInvoice(invoiceID int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").Find(&payments).Error
	return payments, err
}

// ListPending 待核验支付列表（管理端审核队列）
func (r *PaymentRepository) ListPending() ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("status = ?", model.PaymentPending).
		Order("created_at ASC").Find(&payments).Error
	return payments, err
}
