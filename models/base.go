package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/markahope-aag/hazardos-sub001/config"
	"github.com/markahope-aag/hazardos-sub001/utils"
	"gorm.io/gorm"
)

// Outbox publish statuses for CompletionEventRecord.PublishStatus.
const (
	OutboxPublishStatusPending    = "PENDING"
	OutboxPublishStatusProcessing = "PROCESSING"
	OutboxPublishStatusSent       = "SENT"
	OutboxPublishStatusFailed     = "FAILED"
	OutboxPublishStatusDead       = "DEAD"
)

// CompletionEventRecord is the transactional outbox row for completion
// lifecycle events. The row is written inside the caller's DB transaction;
// publishing to Pub/Sub happens asynchronously after commit via the
// dispatcher in workflow/outboxDispatcher.go.
type CompletionEventRecord struct {
	ID         int                 `gorm:"primary_key;index:idx_outbox_dispatch,priority:3" json:"id"`
	OrgId      string              `gorm:"size:64;not null;index" json:"org_id"`
	JobId      int                 `gorm:"index;not null" json:"job_id"`
	EventType  CompletionEventType `gorm:"size:40;not null" json:"event_type"`
	OccurredAt time.Time           `gorm:"index;not null" json:"occurred_at"`
	Payload    []byte              `gorm:"type:blob" json:"payload"`

	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"publish_status"`
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	PubSubMessageId  *string    `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`

	CorrelationId string    `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PublishCompletionEvent writes the event record inside the caller's DB
// transaction but does NOT publish to Pub/Sub.
func PublishCompletionEvent(ctx context.Context, tx *gorm.DB, orgId string, jobId int, eventType CompletionEventType, obj interface{}) error {
	payload, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	record := CompletionEventRecord{
		OrgId:         orgId,
		JobId:         jobId,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
		PublishStatus: OutboxPublishStatusPending,
		CorrelationId: correlationIdFromContextOrNew(ctx),
	}
	return tx.WithContext(ctx).Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

func ConvertToCompletionEventMessage(record CompletionEventRecord) config.CompletionEventMessage {
	return config.CompletionEventMessage{
		ID:            record.ID,
		OrgId:         record.OrgId,
		JobId:         record.JobId,
		EventType:     string(record.EventType),
		OccurredAt:    record.OccurredAt,
		Payload:       record.Payload,
		CorrelationId: record.CorrelationId,
	}
}
