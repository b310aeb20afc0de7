package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/validator"
)

// ServiceManagerConfig holds configuration shared by the services.
type ServiceManagerConfig struct {
	LogLevel slog.Level

	BcryptCost    int
	ResetTokenTTL time.Duration

	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager
type serviceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	identityService   IdentityService
	profileService    ProfileService
	catalogService    CatalogService
	enrollmentService EnrollmentService
	feedbackService   FeedbackService
	dashboardService  DashboardService
	exportService     ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with explicit configuration.
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration.
func NewDefaultServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ServiceManager {
	return NewServiceManager(repo, logger, validator, ServiceManagerConfig{
		LogLevel:       slog.LevelInfo,
		BcryptCost:     10,
		ResetTokenTTL:  time.Hour,
		DefaultTimeout: 30 * time.Second,
	})
}

// Initialize wires all services.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.identityService = NewIdentityService(sm.repo, sm.validator, sm.logger, sm.config.BcryptCost, sm.config.ResetTokenTTL)
	sm.profileService = NewProfileService(sm.repo, sm.validator, sm.logger)
	sm.catalogService = NewCatalogService(sm.repo, sm.validator, sm.logger)
	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.logger)
	sm.feedbackService = NewFeedbackService(sm.repo, sm.validator, sm.logger)
	sm.dashboardService = NewDashboardService(sm.repo, sm.catalogService, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.logger)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true
	sm.logger.Info("Service manager shut down")
	return nil
}

func (sm *serviceManager) get() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

func (sm *serviceManager) Identity() IdentityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.identityService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.profileService
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.catalogService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.enrollmentService
}

func (sm *serviceManager) Feedback() FeedbackService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.feedbackService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.dashboardService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get()
	return sm.exportService
}
