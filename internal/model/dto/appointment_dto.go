package dto

// CreateAppointmentRequest 创建预约请求
type CreateAppointmentRequest struct {
	ClientID  int64  `json:"client_id" binding:"required"`
	DogID     *int64 `json:"dog_id,omitempty"`
	ServiceID *int64 `json:"service_id,omitempty"`
	TeacherID int64  `json:"teacher_id" binding:"required"`
	PackageID *int64 `json:"package_id,omitempty"`
	StartsAt  string `json:"starts_at" binding:"required"` // RFC3339
	EndsAt    string `json:"ends_at" binding:"required"`
	Notes     string `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateAppointmentRequest 更新预约请求
type UpdateAppointmentRequest struct {
	DogID     *int64  `json:"dog_id,omitempty"`
	ServiceID *int64  `json:"service_id,omitempty"`
	TeacherID *int64  `json:"teacher_id,omitempty"`
	PackageID *int64  `json:"package_id,omitempty"`
	StartsAt  *string `json:"starts_at,omitempty"`
	EndsAt    *string `json:"ends_at,omitempty"`
	Notes     *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// UpdateAppointmentStatusRequest 预约状态流转请求
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled completed cancelled no_show"`
	Notes  string `json:"notes" binding:"omitempty,max=2000"`
}

// CreateServiceRequest 创建服务项目请求
type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	Description     string  `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes int     `json:"duration_minutes" binding:"omitempty,min=1"`
	Price           float64 `json:"price" binding:"omitempty,min=0"`
}

// UpdateServiceRequest 更新服务项目请求
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Description     *string  `json:"description,omitempty" binding:"omitempty,max=2000"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" binding:"omitempty,min=1"`
	Price           *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Active          *bool    `json:"active,omitempty"`
}
