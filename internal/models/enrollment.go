package models

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
)

// Enrollment associates a Profile with a Course. The (profile, course) pair
// is unique at the database level, so re-enrolling after a cancellation
// reactivates the existing row instead of inserting a new one.
type Enrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ProfileID uint `json:"profile_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`

	Status EnrollmentStatus `json:"status" gorm:"default:ACTIVE;size:10;index" validate:"omitempty,oneof=ACTIVE COMPLETED CANCELLED"`

	// Immutable creation timestamp.
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime;<-:create"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:ProfileID"`
	Course  *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// OccupiesPair reports whether the row blocks a new enrollment for its pair.
func (e *Enrollment) OccupiesPair() bool {
	return e.Status != EnrollmentCancelled
}
