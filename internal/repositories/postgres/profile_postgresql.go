package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fefu-lab/course-service/internal/cache"
	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
)

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *ProfilePostgreSQL) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID serves the public profile page, so it reads through the cache.
func (r *ProfilePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var profile models.Profile

	err := r.cacheManager.Profile.CacheOrExecute(ctx, cacheKey, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.Profile
		if err := r.db.WithContext(ctx).First(&dbProfile, id).Error; err != nil {
			return nil, err
		}
		return &dbProfile, nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfilePostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return count > 0, nil
}

func (r *ProfilePostgreSQL) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfilePostgreSQL) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})
	query = applyProfileFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	var profiles []*models.Profile
	err := applyPagination(query, filters.Limit, filters.Offset).
		Order("last_name ASC, first_name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, total, nil
}

func (r *ProfilePostgreSQL) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	cache.InvalidateProfileCache(ctx, r.cacheManager, profile.ID)
	return nil
}

// Delete removes the profile; enrollments cascade at the database level.
func (r *ProfilePostgreSQL) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		if err := tx.Delete(&models.Profile{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateProfileCache(ctx, r.cacheManager, id)
	return nil
}

func (r *ProfilePostgreSQL) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Profile{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete profiles: %w", err)
	}
	// The helper prepends its own "profile:" prefix.
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Profile, "id:*")
	return nil
}
