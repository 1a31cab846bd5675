package entity

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is an object-created notification waiting to be relayed to the broker.
type OutboxEvent struct {
	ID          uuid.UUID    `json:"id"`
	AggregateID string       `json:"aggregate_id"` // PhotoRecord.ID
	Payload     []byte       `json:"payload"`
	Status      OutboxStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty"`
	RetryCount  int          `json:"retry_count"`
}
