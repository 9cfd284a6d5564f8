package model

import (
	"time"
)

type Dog struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	ClientID  int64      `gorm:"not null;index" json:"client_id"`
	Name      string     `gorm:"size:50;not null" json:"name"`
	Breed     string     `gorm:"size:80" json:"breed"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	PhotoURL  string     `gorm:"size:500" json:"photo_url"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Dog) TableName() string {
	return "dogs"
}
