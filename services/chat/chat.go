package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pijatku/database"
	"pijatku/database/repository"
	"pijatku/models"
	bookingService "pijatku/services/booking"
	"pijatku/services/events"
	"pijatku/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SendMessageRequest struct {
	BookingID string `json:"-"`
	SenderID  string `json:"-"`
	Message   string `json:"message" binding:"required"`
}

type ChatService interface {
	Send(ctx context.Context, req SendMessageRequest) (*models.ChatMessage, error)
	MarkRead(ctx context.Context, messageID, readerID string) (*models.ChatMessage, error)
	Conversation(ctx context.Context, userID, otherID string) ([]models.ChatMessage, error)
	Previews(ctx context.Context, userID string) ([]models.ChatPreview, error)
}

type DefaultChatService struct {
	messages repository.MessageRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	events   events.Publisher
	notifier notification.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewChatService(messages repository.MessageRepository, bookings repository.BookingRepository, users repository.UserRepository, publisher events.Publisher, notifier notification.Notifier, logger *zap.Logger) *DefaultChatService {
	return &DefaultChatService{
		messages: messages,
		bookings: bookings,
		users:    users,
		events:   publisher,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Send posts a message from one booking party to the other. Messaging closes
// once the booking is cancelled.
func (s *DefaultChatService) Send(ctx context.Context, req SendMessageRequest) (*models.ChatMessage, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("booking", req.BookingID)
		}
		return nil, err
	}
	if !b.HasParty(req.SenderID) {
		return nil, fmt.Errorf("sender is not a party of booking %s: %w", b.ID, models.ErrForbidden)
	}
	if !bookingService.CanMessage(b) {
		return nil, models.NewValidationError("bookingId", "messaging is closed for "+string(b.Status)+" bookings")
	}

	m := &models.ChatMessage{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		SenderID:   req.SenderID,
		ReceiverID: b.Counterpart(req.SenderID),
		Message:    strings.TrimSpace(req.Message),
		Timestamp:  s.now(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	s.publish(ctx, events.ChatMessageSent, m.ReceiverID, m)
	if s.notifier != nil {
		title := "Pesan baru"
		if sender, err := s.users.GetByID(ctx, m.SenderID); err == nil {
			title = sender.Identity().Name
		}
		data := map[string]string{"type": "chat_message", "bookingId": b.ID, "senderId": m.SenderID}
		if err := s.notifier.Notify(ctx, m.ReceiverID, title, m.Message, data); err != nil {
			s.logger.Warn("Failed to push chat notification", zap.String("message", m.ID), zap.Error(err))
		}
	}
	return m, nil
}

// MarkRead flips the read flag. Only the receiver may do it.
func (s *DefaultChatService) MarkRead(ctx context.Context, messageID, readerID string) (*models.ChatMessage, error) {
	m, err := s.messages.MarkRead(ctx, messageID, readerID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, models.NewNotFoundError("message", messageID)
		case errors.Is(err, database.ErrConflict):
			return nil, fmt.Errorf("only the receiver can mark a message read: %w", models.ErrForbidden)
		}
		return nil, err
	}
	s.publish(ctx, events.ChatMessageRead, m.SenderID, m)
	return m, nil
}

func (s *DefaultChatService) Conversation(ctx context.Context, userID, otherID string) ([]models.ChatMessage, error) {
	if userID == otherID {
		return nil, models.NewValidationError("userId", "must differ from the caller")
	}
	return s.messages.ListBetween(ctx, userID, otherID)
}

// Previews returns one entry per counterpart, most recent conversation first.
func (s *DefaultChatService) Previews(ctx context.Context, userID string) ([]models.ChatPreview, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	previews := BuildPreviews(userID, msgs)
	for i := range previews {
		acc, err := s.users.GetByID(ctx, previews[i].CounterpartID)
		if err != nil {
			s.logger.Debug("Chat counterpart missing", zap.String("user", previews[i].CounterpartID), zap.Error(err))
			continue
		}
		previews[i].CounterpartName = acc.Identity().Name
		previews[i].Avatar = acc.Identity().Avatar
		if t, ok := acc.(*models.Therapist); ok {
			previews[i].Avatar = t.PrimaryPhoto()
		}
	}
	return previews, nil
}

// BuildPreviews folds messages (newest first) into one preview per counterpart.
// Unread is set when any message received from that counterpart is unread.
func BuildPreviews(userID string, newestFirst []models.ChatMessage) []models.ChatPreview {
	out := []models.ChatPreview{}
	index := make(map[string]int)
	for _, m := range newestFirst {
		other := m.ReceiverID
		if m.ReceiverID == userID {
			other = m.SenderID
		}
		i, seen := index[other]
		if !seen {
			i = len(out)
			index[other] = i
			out = append(out, models.ChatPreview{
				CounterpartID: other,
				LastMessage:   m.Message,
				Timestamp:     m.Timestamp,
			})
		}
		if m.ReceiverID == userID && !m.Read {
			out[i].Unread = true
		}
	}
	return out
}

func (s *DefaultChatService) publish(ctx context.Context, typ events.Type, recipient string, m *models.ChatMessage) {
	if s.events == nil {
		return
	}
	evt := events.Event{Type: typ, Recipient: recipient, BookingID: m.BookingID, Message: m, At: s.now()}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("Failed to publish chat event", zap.String("type", string(typ)), zap.Error(err))
	}
}
