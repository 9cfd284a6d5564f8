package model

import (
	"time"
)

// 账单状态
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

type Invoice struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	ClientID  int64      `gorm:"not null;index" json:"client_id"`
	PackageID *int64     `gorm:"index" json:"package_id,omitempty"` // 套餐购买产生的账单
	Concept   string     `gorm:"size:200;not null" json:"concept"`
	Amount    float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	IssuedAt  time.Time  `gorm:"not null" json:"issued_at"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Status    string     `gorm:"size:20;default:pending;index" json:"status"` // pending, paid, overdue, cancelled
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}
