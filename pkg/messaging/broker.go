package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// ChannelPrefix namespaces every domain event channel.
const ChannelPrefix = "property."

// Channel maps an event type onto its pub/sub channel.
func Channel(eventType string) string {
	return ChannelPrefix + eventType
}
