package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fefu-lab/course-service/internal/events"
	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/validator"
)

type feedbackService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewFeedbackService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) FeedbackService {
	return &feedbackService{repo: repo, validator: v, logger: logger}
}

func (s *feedbackService) Create(ctx context.Context, req *FeedbackRequest) (*models.Feedback, error) {
	if errs := s.validator.GetBusinessValidator().ValidateFeedback(req); len(errs) > 0 {
		return nil, errs
	}

	feedback := &models.Feedback{
		Name:    strings.TrimSpace(req.Name),
		Email:   normalizeEmail(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Feedback().Create(ctx, feedback); err != nil {
			return fmt.Errorf("failed to create feedback: %w", err)
		}
		event := events.NewEvent(events.TypeFeedbackReceived, events.FeedbackEvent{
			FeedbackID: feedback.ID,
			Email:      feedback.Email,
			Subject:    feedback.Subject,
		})
		return appendOutbox(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "feedback received", "feedback_id", feedback.ID)
	return feedback, nil
}

func (s *feedbackService) List(ctx context.Context, filters repositories.FeedbackFilters) ([]*models.Feedback, int64, error) {
	feedback, total, err := s.repo.Feedback().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, total, nil
}
