package model

import (
	"time"
)

// 支付核验状态
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

type Payment struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	InvoiceID  int64      `gorm:"not null;index" json:"invoice_id"`
	ClientID   int64      `gorm:"not null;index" json:"client_id"`
	Amount     float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method     string     `gorm:"size:30" json:"method"` // cash, transfer, card
	ReceiptURL string     `gorm:"size:500" json:"receipt_url,omitempty"`
	Status     string     `gorm:"size:20;default:pending;index" json:"status"` // pending, verified, rejected
	VerifiedBy *int64     `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
