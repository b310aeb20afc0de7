package services

import (
	"context"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request types live with their validation rules.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type PasswordChangeRequest = validator.PasswordChangeRequest
type PasswordResetRequest = validator.PasswordResetRequest
type PasswordResetConfirmRequest = validator.PasswordResetConfirmRequest
type FeedbackRequest = validator.FeedbackRequest
type CourseCreateRequest = validator.CourseCreateRequest
type CourseUpdateRequest = validator.CourseUpdateRequest
type InstructorCreateRequest = validator.InstructorCreateRequest
type InstructorUpdateRequest = validator.InstructorUpdateRequest

// Role is the authorization role derived from the linked profile.
// RoleAnonymous is never stored; it only exists as a predicate result.
type Role string

const (
	RoleStudent   Role = Role(models.RoleStudent)
	RoleTeacher   Role = Role(models.RoleTeacher)
	RoleAdmin     Role = Role(models.RoleAdmin)
	RoleAnonymous Role = "ANONYMOUS"
)

type CourseResponse struct {
	*models.Course
	FreeSeats int64 `json:"free_seats"`
	CanEnroll bool  `json:"can_enroll"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Size        int                  `json:"size"`
}

type CatalogSummary struct {
	ActiveCourses     int64               `json:"active_courses"`
	ActiveInstructors int64               `json:"active_instructors"`
	Courses           []*CourseResponse   `json:"courses"`
	Instructors       []*models.Instructor `json:"instructors"`
}

type TeacherDashboard struct {
	Profile           *models.Profile      `json:"profile"`
	Courses           []*CourseResponse    `json:"courses"`
	RecentEnrollments []*models.Enrollment `json:"recent_enrollments"`
}

type AdminDashboard struct {
	Students          int64                `json:"students"`
	Teachers          int64                `json:"teachers"`
	Courses           int64                `json:"courses"`
	ActiveEnrollments int64                `json:"active_enrollments"`
	RecentFeedback    []*models.Feedback   `json:"recent_feedback"`
	RecentEnrollments []*models.Enrollment `json:"recent_enrollments"`
}

// ===== SERVICE INTERFACES =====

// IdentityService owns accounts, credentials and the authorization
// predicate.
type IdentityService interface {
	// Register creates the account and its profile in one transaction; the
	// caller never observes an account without a profile.
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)

	// Authenticate accepts email or legacy username, case-insensitively.
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)

	GetByID(ctx context.Context, id uint) (*models.User, error)

	ChangePassword(ctx context.Context, userID uint, req *PasswordChangeRequest) error
	RequestPasswordReset(ctx context.Context, req *PasswordResetRequest) error
	ConfirmPasswordReset(ctx context.Context, req *PasswordResetConfirmRequest) error

	// RoleOf derives the authorization role. Unknown user ⇒ RoleAnonymous;
	// account without profile ⇒ RoleStudent. Never an error in either case.
	RoleOf(ctx context.Context, userID uint) (Role, error)
}

type ProfileService interface {
	// GetPublic returns the profile for the public page; missing and
	// inactive both come back as ErrProfileNotFound.
	GetPublic(ctx context.Context, id uint) (*models.Profile, error)

	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)

	// UpdateSelf writes display fields through the profile and its account
	// in one transaction so the two records never diverge.
	UpdateSelf(ctx context.Context, userID uint, req *ProfileUpdateRequest) (*models.Profile, error)

	List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error)
	Delete(ctx context.Context, id uint) error
}

type CatalogService interface {
	Summary(ctx context.Context) (*CatalogSummary, error)
	ListCourses(ctx context.Context, filters repositories.CourseFilters, includeInactive bool) (*CourseListResponse, error)

	// GetCourseBySlug hides inactive courses unless includeInactive is set
	// (administrative callers).
	GetCourseBySlug(ctx context.Context, slug string, includeInactive bool) (*CourseResponse, error)
	GetCourseByID(ctx context.Context, id uint) (*CourseResponse, error)

	CreateCourse(ctx context.Context, req *CourseCreateRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uint) error

	GetInstructor(ctx context.Context, id uint) (*models.Instructor, error)
	ListInstructors(ctx context.Context, filters repositories.InstructorFilters) ([]*models.Instructor, int64, error)
	CreateInstructor(ctx context.Context, req *InstructorCreateRequest) (*models.Instructor, error)
	UpdateInstructor(ctx context.Context, id uint, req *InstructorUpdateRequest) (*models.Instructor, error)
	DeleteInstructor(ctx context.Context, id uint) error
}

type EnrollmentService interface {
	// Enroll creates an ACTIVE enrollment or persists nothing. Capacity and
	// pair-uniqueness checks run inside one transaction against a locked
	// course row.
	Enroll(ctx context.Context, profileID, courseID uint) (*models.Enrollment, error)

	// Cancel frees the seat. Only the owner may cancel their enrollment.
	Cancel(ctx context.Context, enrollmentID, profileID uint) error

	// Complete marks the enrollment finished (administrative).
	Complete(ctx context.Context, enrollmentID uint) error

	ListForProfile(ctx context.Context, profileID uint) ([]*models.Enrollment, error)
	List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error)
}

type FeedbackService interface {
	Create(ctx context.Context, req *FeedbackRequest) (*models.Feedback, error)
	List(ctx context.Context, filters repositories.FeedbackFilters) ([]*models.Feedback, int64, error)
}

type DashboardService interface {
	TeacherDashboard(ctx context.Context, userID uint) (*TeacherDashboard, error)
	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
}

type ExportService interface {
	// CourseRoster renders the enrollment roster as an xlsx workbook.
	CourseRoster(ctx context.Context, courseID uint) ([]byte, error)
}

type SeedService interface {
	// Run wipes and repopulates demo data through the repositories.
	Run(ctx context.Context) error
}

// ServiceManager wires the services and manages their lifecycle.
type ServiceManager interface {
	Identity() IdentityService
	Profile() ProfileService
	Catalog() CatalogService
	Enrollment() EnrollmentService
	Feedback() FeedbackService
	Dashboard() DashboardService
	Export() ExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
