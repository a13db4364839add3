package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository/memory"
)

func TestEmitter_Emit(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	orgID, leaseID := uuid.New(), uuid.New()

	e := NewEmitter(store.Outbox)
	require.NoError(t, e.Emit(ctx, orgID, model.EventLeaseCreated, leaseID, map[string]string{"unit": "4B"}))

	events, err := store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, orgID, events[0].OrganizationID)
	assert.Equal(t, leaseID, events[0].AggregateID)
	assert.JSONEq(t, `{"unit":"4B"}`, string(events[0].Payload))
}
