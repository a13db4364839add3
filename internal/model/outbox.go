package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Domain event types written to the outbox.
const (
	EventInvoiceSent          = "invoice.sent"
	EventInvoicePaid          = "invoice.paid"
	EventInvoiceOverdue       = "invoice.overdue"
	EventInvoiceCancelled     = "invoice.cancelled"
	EventPaymentRecorded      = "payment.recorded"
	EventPaymentRefunded      = "payment.refunded"
	EventLeaseCreated         = "lease.created"
	EventLeaseTerminated      = "lease.terminated"
	EventApplicationSubmitted = "application.submitted"
	EventApplicationApproved  = "application.approved"
	EventMaintenanceCompleted = "maintenance.completed"
)

type OutboxEvent struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	OrganizationID uuid.UUID       `db:"organization_id" json:"organization_id"`
	EventType      string          `db:"event_type" json:"event_type"`
	AggregateID    uuid.UUID       `db:"aggregate_id" json:"aggregate_id"`
	Payload        json.RawMessage `db:"payload" json:"payload"`
	Status         OutboxStatus    `db:"status" json:"status"`
	ErrorMessage   *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt    *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
	RetryCount     int             `db:"retry_count" json:"retry_count"`
}

func (e *OutboxEvent) Key() uuid.UUID     { return e.ID }
func (e *OutboxEvent) Created() time.Time { return e.CreatedAt }

// NewOutboxEvent marshals payload into a pending event.
func NewOutboxEvent(orgID uuid.UUID, eventType string, aggregateID uuid.UUID, payload interface{}) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &OutboxEvent{
		ID:             uuid.New(),
		OrganizationID: orgID,
		EventType:      eventType,
		AggregateID:    aggregateID,
		Payload:        data,
		Status:         OutboxStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
