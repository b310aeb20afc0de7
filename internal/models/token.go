package models

import (
	"time"
)

// PasswordResetToken is a single-use, TTL-bound token handed to the mail
// collaborator. Consuming it sets UsedAt.
type PasswordResetToken struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Token  string `json:"token" gorm:"uniqueIndex;not null;size:64"`
	UserID uint   `json:"user_id" gorm:"not null;index"`

	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Usable reports whether the token can still redeem a password reset.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
