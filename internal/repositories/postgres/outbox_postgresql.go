package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
)

type OutboxPostgreSQL struct {
	db *gorm.DB
}

func NewOutboxPostgreSQL(db *gorm.DB) repositories.OutboxRepository {
	return &OutboxPostgreSQL{db: db}
}

func (r *OutboxPostgreSQL) Create(ctx context.Context, event *models.OutboxEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *OutboxPostgreSQL) ListUnpublished(ctx context.Context, limit int) ([]*models.OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []*models.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unpublished events: %w", err)
	}
	return events, nil
}

func (r *OutboxPostgreSQL) MarkPublished(ctx context.Context, ids []uint, publishedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id IN ?", ids).
		Update("published_at", publishedAt).Error
	if err != nil {
		return fmt.Errorf("failed to mark events published: %w", err)
	}
	return nil
}
