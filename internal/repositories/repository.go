package repositories

import "context"

// Repository aggregates the per-entity repositories. WithTransaction yields a
// Repository bound to one database transaction; every call made through it
// commits or rolls back together.
type Repository interface {
	User() UserRepository
	Profile() ProfileRepository
	Instructor() InstructorRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository
	Feedback() FeedbackRepository
	PasswordResetToken() PasswordResetTokenRepository
	Outbox() OutboxRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
