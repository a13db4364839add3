package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jwalitptl/property-api/pkg/logger"
)

type BreakerSettings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ConsecutiveFails uint32
}

// breakerBroker guards Publish with a circuit breaker. Subscribe and Close
// pass straight through.
type breakerBroker struct {
	Broker
	cb *gobreaker.CircuitBreaker
}

// WithBreaker wraps b so that repeated publish failures open the circuit and
// fail fast until Timeout elapses.
func WithBreaker(b Broker, s BreakerSettings, log *logger.Logger) Broker {
	if s.ConsecutiveFails == 0 {
		s.ConsecutiveFails = 5
	}
	threshold := s.ConsecutiveFails
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &breakerBroker{Broker: b, cb: cb}
}

func (b *breakerBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.Broker.Publish(ctx, channel, payload)
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}
