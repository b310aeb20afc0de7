package models

import (
	"time"
)

type Feedback struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null;size:100"`
	Email   string `json:"email" gorm:"not null;size:255"`
	Subject string `json:"subject" gorm:"not null;size:200"`
	Message string `json:"message" gorm:"not null;type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
