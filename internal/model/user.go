package model

import (
	"time"
)

// 用户角色
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleClient  = "client"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	FullName     string    `gorm:"size:100" json:"full_name"`
	Phone        string    `gorm:"size:30" json:"phone"`
	AvatarURL    string    `gorm:"size:500" json:"avatar_url"`
	Role         string    `gorm:"size:20;default:client;index" json:"role"` // admin, teacher, client
	GoogleID     *string   `gorm:"column:google_id;size:100;uniqueIndex" json:"-"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
