package models

import (
	"time"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "BEGINNER"
	LevelIntermediate CourseLevel = "INTERMEDIATE"
	LevelAdvanced     CourseLevel = "ADVANCED"
)

// Instructor is a catalog-only record naming who teaches a course. It is
// distinct from a teacher-role Profile; ProfileID is an optional bridge for
// instructors who also hold an account.
type Instructor struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	FirstName      string `json:"first_name" gorm:"not null;size:100"`
	LastName       string `json:"last_name" gorm:"not null;size:100"`
	Email          string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Specialization string `json:"specialization" gorm:"not null;size:200"`
	Degree         string `json:"degree" gorm:"size:100"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`

	ProfileID *uint `json:"profile_id"`

	CreatedAt time.Time `json:"created_at"`

	Profile *Profile `json:"-" gorm:"foreignKey:ProfileID"`
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:InstructorID;constraint:OnDelete:SET NULL"`
}

func (Instructor) TableName() string {
	return "instructors"
}

func (i *Instructor) FullName() string {
	return i.FirstName + " " + i.LastName
}

// Course is a catalog entry. Slug is derived from the title exactly once at
// creation and never re-derived, so URLs stay stable across title edits.
type Course struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Title       string      `json:"title" gorm:"uniqueIndex;not null;size:200"`
	Slug        string      `json:"slug" gorm:"uniqueIndex;not null;size:200"`
	Description string      `json:"description" gorm:"type:text"`
	Duration    int         `json:"duration" gorm:"not null"` // hours
	Level       CourseLevel `json:"level" gorm:"default:BEGINNER;size:12" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	MaxStudents int         `json:"max_students" gorm:"default:30"`
	Price       string      `json:"price" gorm:"type:numeric(10,2);default:0"`

	InstructorID *uint `json:"instructor_id"`
	IsActive     bool  `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time `json:"created_at"`

	Instructor  *Instructor  `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	// Computed, not stored
	ActiveEnrollments int64 `json:"active_enrollments" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}
