package dto

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address" binding:"omitempty,max=255"`
	Notes    string `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateClientRequest 更新客户请求，所有字段可选
type UpdateClientRequest struct {
	FullName *string `json:"full_name,omitempty" binding:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=30"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Address  *string `json:"address,omitempty" binding:"omitempty,max=255"`
	Notes    *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// CreateDogRequest 登记犬只请求
type CreateDogRequest struct {
	Name      string `json:"name" binding:"required,max=50"`
	Breed     string `json:"breed" binding:"omitempty,max=80"`
	BirthDate string `json:"birth_date" binding:"omitempty"` // YYYY-MM-DD
	Notes     string `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateDogRequest 更新犬只请求
type UpdateDogRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,max=50"`
	Breed     *string `json:"breed,omitempty" binding:"omitempty,max=80"`
	BirthDate *string `json:"birth_date,omitempty"`
	Notes     *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}
