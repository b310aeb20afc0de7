package repositories

import (
	"context"
	"time"

	"github.com/fefu-lab/course-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ProfileFilters struct {
	Role     *models.ProfileRole `json:"role"`
	Faculty  *models.Faculty     `json:"faculty"`
	IsActive *bool               `json:"is_active"`
	Query    string              `json:"query"` // name or email substring
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
}

type CourseFilters struct {
	Level        *models.CourseLevel `json:"level"`
	InstructorID *uint               `json:"instructor_id"`
	IsActive     *bool               `json:"is_active"`
	Query        string              `json:"query"` // title or description substring
	Limit        int                 `json:"limit"`
	Offset       int                 `json:"offset"`
}

type InstructorFilters struct {
	IsActive  *bool  `json:"is_active"`
	ProfileID *uint  `json:"profile_id"`
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

type EnrollmentFilters struct {
	Status    *models.EnrollmentStatus `json:"status"`
	ProfileID *uint                    `json:"profile_id"`
	CourseID  *uint                    `json:"course_id"`
	DateFrom  *time.Time               `json:"date_from"`
	DateTo    *time.Time               `json:"date_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

type FeedbackFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ===== PER-ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByIdentifier matches email or legacy username case-insensitively.
	// When legacy data yields several matches it returns the earliest-created
	// account.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)

	// ExistsByID reads the database directly, never the cache; transactional
	// checks rely on it seeing the current row state.
	ExistsByID(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filters ProfileFilters) ([]*models.Profile, int64, error)
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id uint) error

	// DeleteAll clears the table; used by the demo-data seeder.
	DeleteAll(ctx context.Context) error
}

type InstructorRepository interface {
	Create(ctx context.Context, instructor *models.Instructor) error
	GetByID(ctx context.Context, id uint) (*models.Instructor, error)
	List(ctx context.Context, filters InstructorFilters) ([]*models.Instructor, int64, error)
	Update(ctx context.Context, instructor *models.Instructor) error

	// Delete SET NULLs the instructor reference on courses before removing
	// the row, so courses survive instructor deletion.
	Delete(ctx context.Context, id uint) error

	DeleteAll(ctx context.Context) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)

	// GetByIDForUpdate locks the course row for the enrolling transaction.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Course, error)

	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	DeleteAll(ctx context.Context) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByPair(ctx context.Context, profileID, courseID uint) (*models.Enrollment, error)
	CountActiveByCourse(ctx context.Context, courseID uint) (int64, error)
	List(ctx context.Context, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.EnrollmentStatus) error

	DeleteAll(ctx context.Context) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context, filters FeedbackFilters) ([]*models.Feedback, int64, error)
}

type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uint, usedAt time.Time) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *models.OutboxEvent) error
	ListUnpublished(ctx context.Context, limit int) ([]*models.OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []uint, publishedAt time.Time) error
}
