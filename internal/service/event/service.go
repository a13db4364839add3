package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

// Emitter appends domain events to the outbox. Call it with the ctx of the
// surrounding transaction so the event commits with the change it describes.
type Emitter struct {
	outbox repository.OutboxRepository
}

func NewEmitter(outbox repository.OutboxRepository) *Emitter {
	return &Emitter{outbox: outbox}
}

func (e *Emitter) Emit(ctx context.Context, orgID uuid.UUID, eventType string, aggregateID uuid.UUID, payload interface{}) error {
	event, err := model.NewOutboxEvent(orgID, eventType, aggregateID, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	if err := e.outbox.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}
