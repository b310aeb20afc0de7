package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fefu-lab/course-service/internal/events"
	"github.com/fefu-lab/course-service/internal/repositories"
)

const (
	outboxBatchSize = 100
	outboxInterval  = 5 * time.Second
)

// OutboxWorker drains staged events to the publisher. Rows are only marked
// published after the publisher accepts them, so delivery is at-least-once.
type OutboxWorker struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	interval  time.Duration
	done      chan struct{}
}

func NewOutboxWorker(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		interval:  outboxInterval,
		done:      make(chan struct{}),
	}
}

// Start runs the drain loop until the context is cancelled.
func (w *OutboxWorker) Start(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.DrainOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// Wait blocks until the drain loop has exited.
func (w *OutboxWorker) Wait() {
	<-w.done
}

// DrainOnce publishes one batch of unpublished events.
func (w *OutboxWorker) DrainOnce(ctx context.Context) error {
	rows, err := w.repo.Outbox().ListUnpublished(ctx, outboxBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list outbox events: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	published := make([]uint, 0, len(rows))
	for _, row := range rows {
		var event events.Event
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			// Poison row: log and mark published so it stops blocking the
			// batch.
			w.logger.ErrorContext(ctx, "undecodable outbox event", "outbox_id", row.ID, "error", err)
			published = append(published, row.ID)
			continue
		}
		if err := w.publisher.Publish(ctx, &event); err != nil {
			w.logger.ErrorContext(ctx, "failed to publish event",
				"outbox_id", row.ID, "event_type", row.Type, "error", err)
			break
		}
		published = append(published, row.ID)
	}

	if len(published) == 0 {
		return nil
	}
	if err := w.repo.Outbox().MarkPublished(ctx, published, time.Now()); err != nil {
		return fmt.Errorf("failed to mark events published: %w", err)
	}
	w.logger.DebugContext(ctx, "outbox drained", "published", len(published))
	return nil
}
