package mq

import (
	"context"
	"encoding/json"
	"log"

	"mawid/rdx"
)

const channel = "booking-events"

// Message is a domain notification published to the booking-events channel.
// Consumers (mail sender, dashboards) subscribe out of process.
type Message struct {
	Event      string `json:"event"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	UserID     string `json:"user_id,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
}

// Emit publishes a notification to Redis. Failures are logged, never fatal;
// notifications are best-effort.
func Emit(event string, m Message) {
	m.Event = event
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("mq: marshal %s: %v", event, err)
		return
	}
	if err := rdx.Conn.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("mq: publish %s: %v", event, err)
	}
}
