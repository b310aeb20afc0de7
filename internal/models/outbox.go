package models

import (
	"time"

	"gorm.io/datatypes"
)

// OutboxEvent is written in the same transaction as the domain change and
// drained to the event publisher afterwards, giving at-least-once delivery.
type OutboxEvent struct {
	ID      uint           `json:"id" gorm:"primaryKey"`
	EventID string         `json:"event_id" gorm:"uniqueIndex;not null;size:36"`
	Type    string         `json:"type" gorm:"not null;size:100;index"`
	Payload datatypes.JSON `json:"payload" gorm:"not null"`

	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}
