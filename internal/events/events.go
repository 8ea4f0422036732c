// Package events publishes domain events such as captured leads and completed orders.
package events

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// Event types.
const (
	TypeLeadCaptured    = "lead.captured"
	TypeOrderCompleted  = "order.completed"
	TypeCreditsConsumed = "credits.consumed"
)

// Envelope is the wire format of every published event.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// Publisher defines the interface for publishing domain events.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
	Close() error
}

// Encode marshals an event envelope.
func Encode(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(Envelope{Type: eventType, OccurredAt: time.Now().UTC(), Data: data})
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }
