package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(TypeEnrollmentCreated, &EnrollmentEvent{
		EnrollmentID: 1,
		ProfileID:    2,
		CourseID:     3,
		CourseTitle:  "Python Basics",
		Status:       "ACTIVE",
	})

	if event.ID == "" {
		t.Error("event ID should not be empty")
	}
	if event.Type != TypeEnrollmentCreated {
		t.Errorf("expected type %q, got %q", TypeEnrollmentCreated, event.Type)
	}
	if event.Source != "course-service" {
		t.Errorf("expected source 'course-service', got %q", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("expected version '1.0', got %q", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("event timestamp should not be zero")
	}
}

func TestGoChannelPublisher_Publish(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewGoChannelPublisher("course-service.events", logger)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := NewEvent(TypeFeedbackReceived, &FeedbackEvent{
		FeedbackID: 7,
		Email:      "anna.ivanova@fefu.ru",
		Subject:    "Question",
	})
	if err := publisher.Publish(ctx, event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestEventRoundTrip(t *testing.T) {
	event := NewEvent(TypePasswordResetRequested, &PasswordResetEvent{
		UserID: 5,
		Email:  "a@fefu.ru",
		Token:  "tok",
	})

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != TypePasswordResetRequested || decoded.ID != event.ID {
		t.Errorf("round trip lost fields: %+v", decoded)
	}
}
