package model

import (
	"time"
)

// 预约状态
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

type Appointment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ClientID  int64     `gorm:"not null;index" json:"client_id"`
	DogID     *int64    `gorm:"index" json:"dog_id,omitempty"`
	ServiceID *int64    `json:"service_id,omitempty"`
	TeacherID int64     `gorm:"not null;index" json:"teacher_id"`
	PackageID *int64    `gorm:"index" json:"package_id,omitempty"` // 关联套餐，完成时扣减课时
	StartsAt  time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null" json:"ends_at"`
	Status    string    `gorm:"size:20;default:scheduled;index" json:"status"` // scheduled, completed, cancelled, no_show
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}
