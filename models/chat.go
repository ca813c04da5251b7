package models

import (
	"strings"
	"time"
)

// ChatMessage between a client and a therapist. Read is only flipped by the receiver.
type ChatMessage struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	SenderID   string    `bson:"senderId" json:"senderId"`
	ReceiverID string    `bson:"receiverId" json:"receiverId"`
	Message    string    `bson:"message" json:"message"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	Read       bool      `bson:"read" json:"read"`
}

const MaxMessageLength = 2000

func (m *ChatMessage) Validate() error {
	if m.SenderID == "" || m.ReceiverID == "" {
		return NewValidationError("participants", "sender and receiver are required")
	}
	if m.SenderID == m.ReceiverID {
		return NewValidationError("receiverId", "must differ from the sender")
	}
	text := strings.TrimSpace(m.Message)
	if text == "" {
		return NewValidationError("message", "is required")
	}
	if len(text) > MaxMessageLength {
		return NewValidationError("message", "is too long")
	}
	return nil
}

// ChatPreview summarises the latest message exchanged with one counterpart.
type ChatPreview struct {
	CounterpartID   string    `json:"counterpartId"`
	CounterpartName string    `json:"counterpartName"`
	Avatar          string    `json:"avatar,omitempty"`
	LastMessage     string    `json:"lastMessage"`
	Timestamp       time.Time `json:"timestamp"`
	Unread          bool      `json:"unread"`
}
