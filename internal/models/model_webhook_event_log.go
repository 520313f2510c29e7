package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
)

// WebhookEventLog is a best-effort audit row per webhook delivery. It is not
// part of the reconciliation state machine; the idempotency stamp on the
// donation row is what guards against redelivery.
type WebhookEventLog struct {
	ID         string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProviderID string                `gorm:"column:provider_id;type:varchar(64);not null" json:"provider_id"`
	TraceID    string                `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	EventID    string                `gorm:"column:event_id;type:varchar(255);index" json:"event_id"`
	EventType  string                `gorm:"column:event_type;type:varchar(128)" json:"event_type"`
	Data       datatypes.JSON        `gorm:"column:data;type:jsonb" json:"data"`
	Result     *datatypes.JSON       `gorm:"column:result;type:jsonb" json:"result"`
	Status     WebhookEventLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func (WebhookEventLog) TableName() string { return "webhook_event_log" }
