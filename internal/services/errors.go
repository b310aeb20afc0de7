package services

import (
	"errors"
	"fmt"

	"github.com/fefu-lab/course-service/internal/validator"
)

// ValidationErrors re-exported so handlers can match with errors.As without
// importing the validator package.
type ValidationErrors = validator.ValidationErrors

// Not-found outcomes, mapped to 404.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// Conflict outcomes, surfaced as user-visible messages, never retried.
var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateTitle    = errors.New("course title already exists")
	ErrDuplicateSlug     = errors.New("course slug already exists")
	ErrAlreadyEnrolled   = errors.New("already enrolled in this course")
	ErrCourseFull        = errors.New("course has no free seats")
	ErrCourseInactive    = errors.New("course is not open for enrollment")
	ErrEnrollmentClosed  = errors.New("enrollment is not active")
	ErrBadCredential     = errors.New("invalid credentials")
	ErrResetTokenInvalid = errors.New("password reset token is invalid or expired")
)

// IsConflict reports whether err is one of the conflict outcomes.
func IsConflict(err error) bool {
	switch {
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrDuplicateTitle),
		errors.Is(err, ErrDuplicateSlug),
		errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrCourseFull),
		errors.Is(err, ErrCourseInactive),
		errors.Is(err, ErrEnrollmentClosed):
		return true
	}
	return false
}

// IsNotFound reports whether err is one of the not-found outcomes.
func IsNotFound(err error) bool {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrInstructorNotFound),
		errors.Is(err, ErrEnrollmentNotFound):
		return true
	}
	return false
}

// PermissionError carries who tried what on which resource.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}
