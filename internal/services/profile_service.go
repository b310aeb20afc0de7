package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewProfileService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) ProfileService {
	return &profileService{repo: repo, validator: v, logger: logger}
}

// GetPublic serves the public profile page. Inactive profiles are invisible,
// not forbidden, so the response does not reveal that the profile exists.
func (s *profileService) GetPublic(ctx context.Context, id uint) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !profile.IsActive {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *profileService) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpdateSelf applies the edit to the profile and mirrors the shared display
// fields onto the account in the same transaction, so name and email never
// diverge between the two records.
func (s *profileService) UpdateSelf(ctx context.Context, userID uint, req *ProfileUpdateRequest) (*models.Profile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var updated *models.Profile
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		profile, err := tx.Profile().GetByUserID(ctx, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to get profile: %w", err)
		}
		user, err := tx.User().GetByID(ctx, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if req.FirstName != nil {
			profile.FirstName = *req.FirstName
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			profile.LastName = *req.LastName
			user.LastName = *req.LastName
		}
		if req.Email != nil {
			email := normalizeEmail(*req.Email)
			if email != normalizeEmail(user.Email) {
				exists, err := tx.User().ExistsByEmail(ctx, email)
				if err != nil {
					return fmt.Errorf("failed to check email: %w", err)
				}
				if exists {
					return ErrDuplicateEmail
				}
			}
			profile.Email = email
			user.Email = email
		}
		if req.BirthDate != nil {
			profile.BirthDate = req.BirthDate
		}
		if req.Faculty != nil {
			profile.Faculty = *req.Faculty
		}
		if req.Phone != nil {
			profile.Phone = *req.Phone
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}

		if err := tx.User().Update(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := tx.Profile().Update(ctx, profile); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to update profile: %w", err)
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile updated", "user_id", userID, "profile_id", updated.ID)
	return updated, nil
}

func (s *profileService) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	profiles, total, err := s.repo.Profile().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, total, nil
}

func (s *profileService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Profile().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if err := s.repo.Profile().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	s.logger.InfoContext(ctx, "profile deleted", "profile_id", id)
	return nil
}
