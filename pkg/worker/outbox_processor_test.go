package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository/memory"
	"github.com/jwalitptl/property-api/pkg/logger"
	"github.com/jwalitptl/property-api/pkg/metrics"
)

type published struct {
	channel string
	body    []byte
}

type recordingBroker struct {
	sent     []published
	failures int
}

func (b *recordingBroker) Publish(_ context.Context, channel string, payload []byte) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("redis down")
	}
	b.sent = append(b.sent, published{channel: channel, body: payload})
	return nil
}

func (b *recordingBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (b *recordingBroker) Close() error                                             { return nil }

func newEvent(t *testing.T, eventType string) *model.OutboxEvent {
	t.Helper()
	e, err := model.NewOutboxEvent(uuid.New(), eventType, uuid.New(), map[string]int64{"amount": 1200})
	require.NoError(t, err)
	return e
}

func TestOutboxProcessor_PublishesPendingEvents(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	paid := newEvent(t, model.EventInvoicePaid)
	require.NoError(t, store.Outbox.Create(ctx, paid))

	broker := &recordingBroker{}
	p := NewOutboxProcessor(store.Tx, store.Outbox, broker, OutboxProcessorConfig{
		BatchSize: 10, PollInterval: time.Second, RetryAttempts: 3,
	}, logger.Nop(), metrics.NewNop())

	n, err := p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, broker.sent, 1)
	assert.Equal(t, "property.invoice.paid", broker.sent[0].channel)

	var env Envelope
	require.NoError(t, json.Unmarshal(broker.sent[0].body, &env))
	assert.Equal(t, paid.ID.String(), env.ID)
	assert.JSONEq(t, `{"amount":1200}`, string(env.Payload))

	pending, err := store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxProcessor_RetriesThenSucceeds(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Outbox.Create(ctx, newEvent(t, model.EventLeaseCreated)))

	broker := &recordingBroker{failures: 2}
	p := NewOutboxProcessor(store.Tx, store.Outbox, broker, OutboxProcessorConfig{
		BatchSize: 10, PollInterval: time.Second, RetryAttempts: 3,
	}, logger.Nop(), metrics.NewNop())

	n, err := p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, broker.sent, 1)
}

func TestOutboxProcessor_MarksFailedAfterRetries(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Outbox.Create(ctx, newEvent(t, model.EventPaymentRecorded)))

	broker := &recordingBroker{failures: 5}
	p := NewOutboxProcessor(store.Tx, store.Outbox, broker, OutboxProcessorConfig{
		BatchSize: 10, PollInterval: time.Second, RetryAttempts: 2,
	}, logger.Nop(), metrics.NewNop())

	n, err := p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	pending, err := store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "failed events leave the pending queue")
}

func TestNewOutboxProcessor_RejectsBadConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewOutboxProcessor(nil, nil, nil, OutboxProcessorConfig{}, logger.Nop(), metrics.NewNop())
	})
}
