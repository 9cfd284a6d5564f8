package model

import (
	"time"
)

// TrainingService 机构提供的训练服务项目
type TrainingService struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	Price           float64   `gorm:"type:decimal(10,2)" json:"price"`
	Active          bool      `gorm:"default:true;index" json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (TrainingService) TableName() string {
	return "training_services"
}
