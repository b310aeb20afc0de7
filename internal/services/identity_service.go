package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fefu-lab/course-service/internal/events"
	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/utils"
	"github.com/fefu-lab/course-service/internal/validator"
	"gorm.io/datatypes"
)

type identityService struct {
	repo          repositories.Repository
	validator     *validator.Validator
	logger        *slog.Logger
	bcryptCost    int
	resetTokenTTL time.Duration
}

func NewIdentityService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger, bcryptCost int, resetTokenTTL time.Duration) IdentityService {
	return &identityService{
		repo:          repo,
		validator:     v,
		logger:        logger,
		bcryptCost:    bcryptCost,
		resetTokenTTL: resetTokenTTL,
	}
}

// Register creates the account together with its student profile. Both rows
// are written in one transaction so no account ever exists without a profile.
func (s *identityService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	email := normalizeEmail(req.Email)
	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		IsActive:     true,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		profile := profileFor(user)
		if err := tx.Profile().Create(ctx, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// profileFor builds the profile that must accompany every account. Elevated
// accounts get the admin role, everyone else starts as a student.
func profileFor(user *models.User) *models.Profile {
	role := models.RoleStudent
	if user.Elevated() {
		role = models.RoleAdmin
	}
	return &models.Profile{
		UserID:    &user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      role,
		IsActive:  true,
	}
}

func (s *identityService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrBadCredential
	}

	user, err := s.repo.User().FindByIdentifier(ctx, identifier)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Burn a hash comparison so missing accounts are not
			// distinguishable by response time.
			utils.CheckPassword(password, dummyHash)
			return nil, ErrBadCredential
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive || !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrBadCredential
	}
	return user, nil
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used to keep
// the failure path timing-uniform.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *identityService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *identityService) ChangePassword(ctx context.Context, userID uint, req *PasswordChangeRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !utils.CheckPassword(req.OldPassword, user.PasswordHash) {
		return ErrBadCredential
	}
	hash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.logger.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

// RequestPasswordReset issues a single-use token and records the reset event
// for the mail collaborator. An unknown email succeeds silently so the
// endpoint cannot be used to probe which addresses are registered.
func (s *identityService) RequestPasswordReset(ctx context.Context, req *PasswordResetRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	user, err := s.repo.User().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := &models.PasswordResetToken{
		Token:     hex.EncodeToString(raw),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
	}

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.PasswordResetToken().Create(ctx, token); err != nil {
			return fmt.Errorf("failed to store reset token: %w", err)
		}
		event := events.NewEvent(events.TypePasswordResetRequested, events.PasswordResetEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Token:     token.Token,
			ExpiresAt: token.ExpiresAt,
		})
		return appendOutbox(ctx, tx, event)
	})
}

func (s *identityService) ConfirmPasswordReset(ctx context.Context, req *PasswordResetConfirmRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	token, err := s.repo.PasswordResetToken().GetByToken(ctx, req.Token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if !token.Usable(time.Now()) {
		return ErrResetTokenInvalid
	}

	hash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByID(ctx, token.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrResetTokenInvalid
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		user.PasswordHash = hash
		if err := tx.User().Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := tx.PasswordResetToken().MarkUsed(ctx, token.ID, time.Now()); err != nil {
			if repositories.IsNotFoundError(err) {
				// Another confirmation won the race.
				return ErrResetTokenInvalid
			}
			return fmt.Errorf("failed to mark token used: %w", err)
		}
		s.logger.InfoContext(ctx, "password reset confirmed", "user_id", user.ID)
		return nil
	})
}

// RoleOf is the authorization predicate. Unknown or inactive users are
// anonymous; a linked profile supplies the role; an account that somehow lacks
// a profile falls back to student, the least privileged authenticated role.
func (s *identityService) RoleOf(ctx context.Context, userID uint) (Role, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return RoleAnonymous, nil
		}
		return RoleAnonymous, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return RoleAnonymous, nil
	}
	if user.Elevated() {
		return RoleAdmin, nil
	}
	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return RoleStudent, nil
		}
		return RoleAnonymous, fmt.Errorf("failed to get profile: %w", err)
	}
	return Role(profile.Role), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// appendOutbox stages an event in the same transaction as the state change
// that caused it; the outbox worker publishes it after commit.
func appendOutbox(ctx context.Context, repo repositories.Repository, event *events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	row := &models.OutboxEvent{
		EventID: event.ID,
		Type:    event.Type,
		Payload: datatypes.JSON(payload),
	}
	if err := repo.Outbox().Create(ctx, row); err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}
	return nil
}
