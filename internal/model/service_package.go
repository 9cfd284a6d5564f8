package model

import (
	"time"
)

// 套餐状态
const (
	PackageActive    = "active"
	PackageFinishing = "finishing"
	PackageCompleted = "completed"
	PackageExpired   = "expired"
)

// FinishingThreshold 剩余课时小于等于该值时套餐进入 finishing 状态
const FinishingThreshold = 3

type ServicePackage struct {
	ID                int64      `gorm:"primaryKey" json:"id"`
	ClientID          int64      `gorm:"not null;index" json:"client_id"`
	DogID             *int64     `gorm:"index" json:"dog_id,omitempty"`
	ServiceID         *int64     `json:"service_id,omitempty"`
	Name              string     `gorm:"size:100;not null" json:"name"`
	TotalSessions     int        `gorm:"not null" json:"total_sessions"`
	UsedSessions      int        `gorm:"default:0" json:"used_sessions"`
	RemainingSessions int        `gorm:"not null" json:"remaining_sessions"`
	PurchaseDate      time.Time  `gorm:"not null" json:"purchase_date"`
	ExpiryDate        *time.Time `gorm:"index" json:"expiry_date,omitempty"`
	Price             *float64   `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	Status            string     `gorm:"size:20;default:active;index" json:"status"` // active, finishing, completed, expired
	Notes             string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (ServicePackage) TableName() string {
	return "service_packages"
}

// DerivePackageStatus 根据剩余课时和有效期推导套餐状态（完整规则，含过期判断）。
// 优先级：过期 > 用完 > 即将用完 > 正常。
func DerivePackageStatus(remaining int, expiryDate *time.Time, now time.Time) string {
	if expiryDate != nil && now.After(*expiryDate) {
		return PackageExpired
	}
	return PartialPackageStatus(remaining)
}

// PartialPackageStatus 仅根据剩余课时推导状态，扣课时不重新判断过期。
func PartialPackageStatus(remaining int) string {
	switch {
	case remaining <= 0:
		return PackageCompleted
	case remaining <= FinishingThreshold:
		return PackageFinishing
	default:
		return PackageActive
	}
}
