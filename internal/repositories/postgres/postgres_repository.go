package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fefu-lab/course-service/internal/cache"
	"github.com/fefu-lab/course-service/internal/repositories"
)

// RepositoryConfig holds the external connections the repositories need.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

type repository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager

	user       repositories.UserRepository
	profile    repositories.ProfileRepository
	instructor repositories.InstructorRepository
	course     repositories.CourseRepository
	enrollment repositories.EnrollmentRepository
	feedback   repositories.FeedbackRepository
	resetToken repositories.PasswordResetTokenRepository
	outbox     repositories.OutboxRepository
}

func newRepository(db *gorm.DB, cacheManager *cache.CacheManager) *repository {
	return &repository{
		db:           db,
		cacheManager: cacheManager,
		user:         NewUserPostgreSQL(db),
		profile:      NewProfilePostgreSQL(db, cacheManager),
		instructor:   NewInstructorPostgreSQL(db),
		course:       NewCoursePostgreSQL(db, cacheManager),
		enrollment:   NewEnrollmentPostgreSQL(db),
		feedback:     NewFeedbackPostgreSQL(db),
		resetToken:   NewPasswordResetTokenPostgreSQL(db),
		outbox:       NewOutboxPostgreSQL(db),
	}
}

func (r *repository) User() repositories.UserRepository             { return r.user }
func (r *repository) Profile() repositories.ProfileRepository       { return r.profile }
func (r *repository) Instructor() repositories.InstructorRepository { return r.instructor }
func (r *repository) Course() repositories.CourseRepository         { return r.course }
func (r *repository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }
func (r *repository) Feedback() repositories.FeedbackRepository     { return r.feedback }
func (r *repository) PasswordResetToken() repositories.PasswordResetTokenRepository {
	return r.resetToken
}
func (r *repository) Outbox() repositories.OutboxRepository { return r.outbox }

// WithTransaction runs fn against a Repository bound to one transaction.
func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepository(tx, r.cacheManager))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// repositoryManager implements repositories.RepositoryManager.
type repositoryManager struct {
	config RepositoryConfig
	repo   *repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	m.repo = newRepository(m.config.DB, cache.NewCacheManager(m.config.RedisClient))
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
