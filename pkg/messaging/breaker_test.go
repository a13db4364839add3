package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/pkg/logger"
)

type flakyBroker struct {
	calls int
	err   error
}

func (f *flakyBroker) Publish(context.Context, string, []byte) error {
	f.calls++
	return f.err
}

func (f *flakyBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (f *flakyBroker) Close() error                                             { return nil }

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyBroker{err: errors.New("connection refused")}
	b := WithBreaker(inner, BreakerSettings{Name: "test", Timeout: time.Minute, ConsecutiveFails: 2}, logger.Nop())

	for i := 0; i < 2; i++ {
		require.Error(t, b.Publish(context.Background(), "property.x", []byte("{}")))
	}

	err := b.Publish(context.Background(), "property.x", []byte("{}"))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.calls)
}

func TestWithBreaker_PassesThrough(t *testing.T) {
	inner := &flakyBroker{}
	b := WithBreaker(inner, BreakerSettings{Name: "ok"}, logger.Nop())

	require.NoError(t, b.Publish(context.Background(), Channel("invoice.paid"), []byte("{}")))
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "property.invoice.paid", Channel("invoice.paid"))
}
