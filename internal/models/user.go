package models

import (
	"time"
)

// User is an authenticable account: credential, email and staff flags.
// Person-facing attributes live on the linked Profile.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:150"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null;size:128"`
	FirstName    string `json:"first_name" gorm:"size:100"`
	LastName     string `json:"last_name" gorm:"size:100"`

	// Elevated privileges: either flag makes the linked profile an admin.
	IsStaff     bool `json:"is_staff" gorm:"default:false"`
	IsSuperuser bool `json:"is_superuser" gorm:"default:false"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

// Elevated reports whether the account carries staff-level privileges.
func (u *User) Elevated() bool {
	return u.IsStaff || u.IsSuperuser
}
