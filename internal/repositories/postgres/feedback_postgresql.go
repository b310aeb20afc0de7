package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
)

type FeedbackPostgreSQL struct {
	db *gorm.DB
}

func NewFeedbackPostgreSQL(db *gorm.DB) repositories.FeedbackRepository {
	return &FeedbackPostgreSQL{db: db}
}

func (r *FeedbackPostgreSQL) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *FeedbackPostgreSQL) List(ctx context.Context, filters repositories.FeedbackFilters) ([]*models.Feedback, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Feedback{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feedback: %w", err)
	}

	var items []*models.Feedback
	err := applyPagination(query, filters.Limit, filters.Offset).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, total, nil
}

type PasswordResetTokenPostgreSQL struct {
	db *gorm.DB
}

func NewPasswordResetTokenPostgreSQL(db *gorm.DB) repositories.PasswordResetTokenRepository {
	return &PasswordResetTokenPostgreSQL{db: db}
}

func (r *PasswordResetTokenPostgreSQL) Create(ctx context.Context, token *models.PasswordResetToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *PasswordResetTokenPostgreSQL) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var row models.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *PasswordResetTokenPostgreSQL) MarkUsed(ctx context.Context, id uint, usedAt time.Time) error {
	// Guard on used_at so a token can be redeemed at most once even under
	// concurrent confirms.
	result := r.db.WithContext(ctx).
		Model(&models.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", usedAt)
	if result.Error != nil {
		return fmt.Errorf("failed to mark token used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
