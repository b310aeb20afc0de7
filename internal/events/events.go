package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	source  = "course-service"
	version = "1.0"
)

// Event types emitted by the service.
const (
	TypeEnrollmentCreated      = "enrollment.created"
	TypeEnrollmentCancelled    = "enrollment.cancelled"
	TypePasswordResetRequested = "identity.password_reset_requested"
	TypeFeedbackReceived       = "feedback.received"
)

// Event is the envelope every published message carries.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope around a payload.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Version:   version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EnrollmentEvent is the payload for enrollment lifecycle events.
type EnrollmentEvent struct {
	EnrollmentID uint   `json:"enrollment_id"`
	ProfileID    uint   `json:"profile_id"`
	CourseID     uint   `json:"course_id"`
	CourseTitle  string `json:"course_title"`
	Status       string `json:"status"`
}

// PasswordResetEvent is consumed by the mail collaborator, which owns
// delivery of the reset link.
type PasswordResetEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FeedbackEvent is the payload for submitted feedback forms.
type FeedbackEvent struct {
	FeedbackID uint   `json:"feedback_id"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
}
