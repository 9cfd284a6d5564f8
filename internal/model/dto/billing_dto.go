package dto

// CreateInvoiceRequest 创建账单请求
type CreateInvoiceRequest struct {
	ClientID  int64   `json:"client_id" binding:"required"`
	PackageID *int64  `json:"package_id,omitempty"`
	Concept   string  `json:"concept" binding:"required,max=200"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	DueDate   string  `json:"due_date" binding:"omitempty"` // YYYY-MM-DD
	Notes     string  `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateInvoiceRequest 更新账单请求
type UpdateInvoiceRequest struct {
	Concept *string  `json:"concept,omitempty" binding:"omitempty,max=200"`
	Amount  *float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
	DueDate *string  `json:"due_date,omitempty"`
	Status  *string  `json:"status,omitempty" binding:"omitempty,oneof=pending paid overdue cancelled"`
	Notes   *string  `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// RecordPaymentRequest 登记支付请求（收据图片经 multipart 上传）
type RecordPaymentRequest struct {
	Amount float64 `form:"amount" binding:"required,gt=0"`
	Method string  `form:"method" binding:"required,oneof=cash transfer card"`
	Notes  string  `form:"notes" binding:"omitempty,max=2000"`
}

// RejectPaymentRequest 驳回支付请求
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}
