package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// OutboxEntryModel maps the outbox_events table. The payload is the JSON
// produced by event.EventSerializer.
type OutboxEntryModel struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	EventID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string              `gorm:"type:varchar(255);not null"`
	AggregateID   uuid.UUID           `gorm:"type:uuid;not null"`
	AggregateType string              `gorm:"type:varchar(255);not null"`
	Payload       []byte              `gorm:"type:jsonb;not null"`
	Status        shared.OutboxStatus `gorm:"type:varchar(20);not null;default:PENDING;index:idx_outbox_status_created,priority:1"`
	RetryCount    int                 `gorm:"default:0"`
	MaxRetries    int                 `gorm:"default:5"`
	LastError     string              `gorm:"type:text"`
	NextRetryAt   *time.Time          `gorm:"index:idx_outbox_next_retry"`
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null;index:idx_outbox_status_created,priority:2"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (OutboxEntryModel) TableName() string { return "outbox_events" }

// NewOutboxEntryModel builds the row for a new outbox entry
func NewOutboxEntryModel(e *shared.OutboxEntry) *OutboxEntryModel {
	return &OutboxEntryModel{
		ID: e.ID, UserID: e.UserID, EventID: e.EventID,
		EventType: e.EventType, AggregateID: e.AggregateID, AggregateType: e.AggregateType,
		Payload: e.Payload, Status: e.Status,
		RetryCount: e.RetryCount, MaxRetries: e.MaxRetries, LastError: e.LastError,
		NextRetryAt: e.NextRetryAt, ProcessedAt: e.ProcessedAt,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

// ToDomain rebuilds the domain entry
func (m *OutboxEntryModel) ToDomain() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID: m.ID, UserID: m.UserID, EventID: m.EventID,
		EventType: m.EventType, AggregateID: m.AggregateID, AggregateType: m.AggregateType,
		Payload: m.Payload, Status: m.Status,
		RetryCount: m.RetryCount, MaxRetries: m.MaxRetries, LastError: m.LastError,
		NextRetryAt: m.NextRetryAt, ProcessedAt: m.ProcessedAt,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

// DeliveryState holds the columns a delivery attempt changes
func DeliveryState(e *shared.OutboxEntry) map[string]any {
	return map[string]any{
		"status":        e.Status,
		"retry_count":   e.RetryCount,
		"last_error":    e.LastError,
		"next_retry_at": e.NextRetryAt,
		"processed_at":  e.ProcessedAt,
		"updated_at":    e.UpdatedAt,
	}
}
