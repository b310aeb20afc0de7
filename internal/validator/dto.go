package validator

import (
	"time"

	"github.com/fefu-lab/course-service/internal/models"
)

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Email           string `json:"email" form:"email" validate:"required,email,max=255"`
	Password        string `json:"password" form:"password" validate:"required,password_strength"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" form:"last_name" validate:"required,max=100"`
}

// LoginRequest accepts email or legacy username as the identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required,max=255"`
	Password   string `json:"password" form:"password" validate:"required"`
	Next       string `json:"next" form:"next" validate:"omitempty,max=500"`
}

type ProfileUpdateRequest struct {
	FirstName *string         `json:"first_name" form:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string         `json:"last_name" form:"last_name" validate:"omitempty,min=1,max=100"`
	Email     *string         `json:"email" form:"email" validate:"omitempty,email,max=255"`
	BirthDate *time.Time      `json:"birth_date" form:"birth_date"`
	Faculty   *models.Faculty `json:"faculty" form:"faculty" validate:"omitempty,oneof=CS SE IT DS WEB"`
	Phone     *string         `json:"phone" form:"phone" validate:"omitempty,max=20"`
	Bio       *string         `json:"bio" form:"bio" validate:"omitempty,max=2000"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,password_strength"`
}

type PasswordResetRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token" form:"token" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,password_strength"`
}

// FeedbackRequest mirrors the public feedback form rules.
type FeedbackRequest struct {
	Name    string `json:"name" form:"name" validate:"required,trimmed_min=2,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required,trimmed_min=10"`
}

type CourseCreateRequest struct {
	Title        string             `json:"title" validate:"required,min=1,max=200"`
	Description  string             `json:"description" validate:"required"`
	Duration     int                `json:"duration" validate:"required,gt=0"`
	Level        models.CourseLevel `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	MaxStudents  int                `json:"max_students" validate:"omitempty,gt=0"`
	Price        string             `json:"price" validate:"omitempty,max=13"`
	InstructorID *uint              `json:"instructor_id"`
}

// CourseUpdateRequest never carries a slug: slugs are immutable after create.
type CourseUpdateRequest struct {
	Title        *string             `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string             `json:"description"`
	Duration     *int                `json:"duration" validate:"omitempty,gt=0"`
	Level        *models.CourseLevel `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	MaxStudents  *int                `json:"max_students" validate:"omitempty,gt=0"`
	Price        *string             `json:"price" validate:"omitempty,max=13"`
	InstructorID *uint               `json:"instructor_id"`
	IsActive     *bool               `json:"is_active"`
}

type InstructorCreateRequest struct {
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Specialization string `json:"specialization" validate:"required,max=200"`
	Degree         string `json:"degree" validate:"omitempty,max=100"`
	ProfileID      *uint  `json:"profile_id"`
}

type InstructorUpdateRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email          *string `json:"email" validate:"omitempty,email,max=255"`
	Specialization *string `json:"specialization" validate:"omitempty,max=200"`
	Degree         *string `json:"degree" validate:"omitempty,max=100"`
	ProfileID      *uint   `json:"profile_id"`
	IsActive       *bool   `json:"is_active"`
}
