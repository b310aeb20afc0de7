package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fefu-lab/course-service/internal/events"
	"github.com/fefu-lab/course-service/internal/validator"
)

func TestFeedbackCreate(t *testing.T) {
	repo := newMemRepo()
	svc := NewFeedbackService(repo, validator.New(), testLogger())
	ctx := context.Background()

	feedback, err := svc.Create(ctx, &FeedbackRequest{
		Name:    "  Иван Новиков  ",
		Email:   "I.Novikov@fefu.ru",
		Subject: "Вопрос по расписанию",
		Message: "Когда начинается курс по машинному обучению?",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if feedback.Name != "Иван Новиков" {
		t.Errorf("name = %q, want trimmed", feedback.Name)
	}
	if feedback.Email != "i.novikov@fefu.ru" {
		t.Errorf("email = %q, want lowercased", feedback.Email)
	}

	staged, _ := repo.Outbox().ListUnpublished(ctx, 10)
	if len(staged) != 1 || staged[0].Type != events.TypeFeedbackReceived {
		t.Errorf("outbox rows = %+v, want one feedback.received event", staged)
	}
}

func TestFeedbackCreate_RejectsPaddedBlanks(t *testing.T) {
	repo := newMemRepo()
	svc := NewFeedbackService(repo, validator.New(), testLogger())

	// Whitespace padding fails the trimmed-length rules even when the raw
	// values are long enough.
	_, err := svc.Create(context.Background(), &FeedbackRequest{
		Name:    "И ",
		Email:   "i.novikov@fefu.ru",
		Subject: "Вопрос",
		Message: "коротко   ",
	})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Create() error = %v, want ValidationErrors", err)
	}
}
