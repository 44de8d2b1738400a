package models

import "time"

// Position event types published to Kafka
const (
	EventPositionOpened  = "POSITION_OPENED"
	EventPositionUpdated = "POSITION_UPDATED"
	EventPositionDeleted = "POSITION_DELETED"
)

// PositionEvent represents a Kafka event for position lifecycle changes
type PositionEvent struct {
	EventType  string    `json:"event_type"`
	Position   *Position `json:"position,omitempty"`
	PositionID string    `json:"position_id"`
	Ticker     string    `json:"ticker,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
