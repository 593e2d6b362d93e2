package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// OutboxEvent stores a domain event in the same transaction as the write that
// produced it. A separate publisher drains unpublished rows to Pub/Sub.
type OutboxEvent struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventType     enums.OrderEventType      `gorm:"column:event_type;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID                 `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	Attempts      int                       `gorm:"column:attempts;not null;default:0"`
	PublishedAt   *time.Time                `gorm:"column:published_at"`
	LastError     *string                   `gorm:"column:last_error"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
}
