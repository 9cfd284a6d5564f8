package model

import (
	"time"
)

// PackageSession 套餐的一次课时消耗记录，创建后不可修改
type PackageSession struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	PackageID     int64     `gorm:"not null;index" json:"package_id"`
	ClientID      int64     `gorm:"not null;index" json:"client_id"`
	DogID         *int64    `json:"dog_id,omitempty"`
	AppointmentID *int64    `gorm:"index" json:"appointment_id,omitempty"`
	SessionDate   time.Time `gorm:"not null" json:"session_date"`
	SessionType   string    `gorm:"size:50" json:"session_type,omitempty"`
	Status        string    `gorm:"size:20;default:attended" json:"status"`
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`
	RegisteredBy  int64     `gorm:"not null" json:"registered_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (PackageSession) TableName() string {
	return "package_sessions"
}
