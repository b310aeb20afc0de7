package models

import (
	"time"
)

type ProfileRole string

const (
	RoleStudent ProfileRole = "STUDENT"
	RoleTeacher ProfileRole = "TEACHER"
	RoleAdmin   ProfileRole = "ADMIN"
)

type Faculty string

const (
	FacultyCyberSecurity Faculty = "CS"
	FacultySoftwareEng   Faculty = "SE"
	FacultyInfoTech      Faculty = "IT"
	FacultyDataScience   Faculty = "DS"
	FacultyWebTech       Faculty = "WEB"
)

var facultyNames = map[Faculty]string{
	FacultyCyberSecurity: "Кибербезопасность",
	FacultySoftwareEng:   "Программная инженерия",
	FacultyInfoTech:      "Информационные технологии",
	FacultyDataScience:   "Наука о данных",
	FacultyWebTech:       "Веб-технологии",
}

// Profile is a role-tagged person record linked to at most one User.
// Legacy/seeded profiles may have no account (UserID nil); new accounts
// always get exactly one profile, created in the same transaction.
type Profile struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	UserID *uint `json:"user_id" gorm:"uniqueIndex"`

	FirstName string      `json:"first_name" gorm:"not null;size:100"`
	LastName  string      `json:"last_name" gorm:"not null;size:100"`
	Email     string      `json:"email" gorm:"uniqueIndex;not null;size:255"`
	BirthDate *time.Time  `json:"birth_date"`
	Faculty   Faculty     `json:"faculty" gorm:"default:CS;size:3" validate:"omitempty,oneof=CS SE IT DS WEB"`
	Role      ProfileRole `json:"role" gorm:"default:STUDENT;size:10;index" validate:"omitempty,oneof=STUDENT TEACHER ADMIN"`
	Phone     string      `json:"phone" gorm:"size:20"`
	Bio       string      `json:"bio" gorm:"type:text"`
	IsActive  bool        `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User        *User        `json:"-" gorm:"foreignKey:UserID"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

func (p *Profile) IsTeacher() bool {
	return p.Role == RoleTeacher
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// FacultyDisplayName returns the human-readable faculty name.
func (p *Profile) FacultyDisplayName() string {
	if name, ok := facultyNames[p.Faculty]; ok {
		return name
	}
	return "Неизвестно"
}
