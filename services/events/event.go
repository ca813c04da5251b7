// Package events carries realtime booking-status and chat updates to the
// parties involved. Delivery is at-most-once; clients reload after reconnecting.
package events

import (
	"context"
	"time"

	"pijatku/models"
)

type Type string

const (
	BookingStatusChanged Type = "booking.status"
	ChatMessageSent      Type = "chat.message"
	ChatMessageRead      Type = "chat.read"
)

// Event is addressed to a single recipient.
type Event struct {
	Type      Type                 `json:"type"`
	Recipient string               `json:"recipient"`
	BookingID string               `json:"bookingId,omitempty"`
	Status    models.BookingStatus `json:"status,omitempty"`
	Message   *models.ChatMessage  `json:"message,omitempty"`
	At        time.Time            `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Subscriber streams events for one user until ctx ends, then closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan Event, error)
}

type Broker interface {
	Publisher
	Subscriber
}

func channelFor(userID string) string {
	return "events:" + userID
}
