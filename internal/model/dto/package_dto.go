package dto

import (
	"github.com/dogacademy/academy_go_server/internal/model"
)

// CreatePackageRequest 创建套餐请求
type CreatePackageRequest struct {
	ClientID      int64    `json:"client_id" binding:"required"`
	DogID         *int64   `json:"dog_id,omitempty"`
	ServiceID     *int64   `json:"service_id,omitempty"`
	Name          string   `json:"name" binding:"required,max=100"`
	TotalSessions int      `json:"total_sessions" binding:"required,gt=0"`
	ExpiryDate    string   `json:"expiry_date" binding:"omitempty"` // YYYY-MM-DD
	Price         *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Notes         string   `json:"notes" binding:"omitempty,max=2000"`
}

// UpdatePackageRequest 更新套餐请求，不触发状态重算
type UpdatePackageRequest struct {
	Name       *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	DogID      *int64   `json:"dog_id,omitempty"`
	ServiceID  *int64   `json:"service_id,omitempty"`
	ExpiryDate *string  `json:"expiry_date,omitempty"`
	Price      *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Notes      *string  `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// ConsumeSessionRequest 扣减课时请求。登记人取自登录态，不由客户端提交。
type ConsumeSessionRequest struct {
	SessionDate   string `json:"session_date" binding:"required"` // RFC3339
	SessionType   string `json:"session_type" binding:"omitempty,max=50"`
	AppointmentID *int64 `json:"appointment_id,omitempty"`
	Notes         string `json:"notes" binding:"omitempty,max=2000"`
}

// ConsumeSessionResponse 扣减课时响应
type ConsumeSessionResponse struct {
	Session *model.PackageSession `json:"session"`
	Package *model.ServicePackage `json:"package"`
}
