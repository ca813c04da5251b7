package chat

import (
	"context"
	"testing"
	"time"

	"pijatku/database/repository"
	"pijatku/models"
	"pijatku/services/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T, status models.BookingStatus) (*DefaultChatService, *events.MemoryBroker) {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Users.Create(ctx, &models.Client{User: models.User{ID: "c1", Email: "andi@pijatku.id", Name: "Andi"}}))
	require.NoError(t, store.Users.Create(ctx, &models.Therapist{
		User: models.User{ID: "t1", Email: "dewi@pijatku.id", Name: "Dewi"}, Gender: models.GenderFemale,
		HourlyRate: 150000, Photos: []string{"https://img/dewi.jpg"},
	}))
	require.NoError(t, store.Bookings.Create(ctx, &models.Booking{
		ID: "b1", ClientID: "c1", TherapistID: "t1", ServiceID: "s1",
		Date: time.Now().Add(24 * time.Hour), Duration: 60, Status: status,
		TotalAmount: 100000, PlatformFee: 10000, PaymentFee: 3000, TherapistEarning: 87000,
		Address: "Jl. Kemang Raya 5",
	}))
	broker := events.NewMemoryBroker()
	svc := NewChatService(store.Messages, store.Bookings, store.Users, broker, nil, zap.NewNop())
	return svc, broker
}

func TestSend_ReachesCounterpart(t *testing.T) {
	svc, broker := setup(t, models.BookingConfirmed)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbox, err := broker.Subscribe(ctx, "t1")
	require.NoError(t, err)

	m, err := svc.Send(ctx, SendMessageRequest{BookingID: "b1", SenderID: "c1", Message: "  Halo, saya sudah di lobi  "})
	require.NoError(t, err)
	assert.Equal(t, "t1", m.ReceiverID)
	assert.Equal(t, "Halo, saya sudah di lobi", m.Message)
	assert.False(t, m.Read)

	select {
	case evt := <-inbox:
		assert.Equal(t, events.ChatMessageSent, evt.Type)
		assert.Equal(t, m.ID, evt.Message.ID)
	case <-time.After(time.Second):
		t.Fatal("receiver got no event")
	}
}

func TestSend_Rejections(t *testing.T) {
	svc, _ := setup(t, models.BookingConfirmed)
	ctx := context.Background()

	_, err := svc.Send(ctx, SendMessageRequest{BookingID: "b1", SenderID: "stranger", Message: "hi"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Send(ctx, SendMessageRequest{BookingID: "b1", SenderID: "c1", Message: "   "})
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.Send(ctx, SendMessageRequest{BookingID: "nope", SenderID: "c1", Message: "hi"})
	assert.True(t, models.IsNotFound(err))

	closed, _ := setup(t, models.BookingCancelled)
	_, err = closed.Send(ctx, SendMessageRequest{BookingID: "b1", SenderID: "c1", Message: "hi"})
	assert.ErrorAs(t, err, &ve, "messaging closes after cancellation")
}

func TestMarkRead_OnlyReceiver(t *testing.T) {
	svc, _ := setup(t, models.BookingPending)
	ctx := context.Background()

	m, err := svc.Send(ctx, SendMessageRequest{BookingID: "b1", SenderID: "c1", Message: "Jam 3 bisa?"})
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, m.ID, "c1")
	assert.ErrorIs(t, err, models.ErrForbidden)

	read, err := svc.MarkRead(ctx, m.ID, "t1")
	require.NoError(t, err)
	assert.True(t, read.Read)

	_, err = svc.MarkRead(ctx, "missing", "t1")
	assert.True(t, models.IsNotFound(err))
}

func TestConversationAndPreviews(t *testing.T) {
	svc, _ := setup(t, models.BookingConfirmed)
	ctx := context.Background()
	base := time.Date(2024, 2, 19, 9, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time { step++; return base.Add(time.Duration(step) * time.Minute) }

	_, err := svc.Send(ctx, SendMessageRequest{BookingID: "b1", SenderID: "c1", Message: "pertama"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendMessageRequest{BookingID: "b1", SenderID: "t1", Message: "kedua"})
	require.NoError(t, err)

	conv, err := svc.Conversation(ctx, "c1", "t1")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "pertama", conv[0].Message)
	assert.Equal(t, "kedua", conv[1].Message)

	previews, err := svc.Previews(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, previews, 1)
	assert.Equal(t, "t1", previews[0].CounterpartID)
	assert.Equal(t, "Dewi", previews[0].CounterpartName)
	assert.Equal(t, "https://img/dewi.jpg", previews[0].Avatar)
	assert.Equal(t, "kedua", previews[0].LastMessage)
	assert.True(t, previews[0].Unread)

	_, err = svc.Conversation(ctx, "c1", "c1")
	assert.Error(t, err)
}

func TestBuildPreviews_OnePerCounterpart(t *testing.T) {
	at := func(m int) time.Time { return time.Date(2024, 1, 1, 10, m, 0, 0, time.UTC) }
	msgs := []models.ChatMessage{
		{SenderID: "u", ReceiverID: "b", Message: "to b", Timestamp: at(5), Read: false},
		{SenderID: "a", ReceiverID: "u", Message: "from a", Timestamp: at(4), Read: true},
		{SenderID: "b", ReceiverID: "u", Message: "old b", Timestamp: at(3), Read: false},
		{SenderID: "a", ReceiverID: "u", Message: "older a", Timestamp: at(1), Read: true},
	}
	got := BuildPreviews("u", msgs)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].CounterpartID)
	assert.Equal(t, "to b", got[0].LastMessage)
	assert.True(t, got[0].Unread, "an unread message from b is still pending")
	assert.Equal(t, "a", got[1].CounterpartID)
	assert.False(t, got[1].Unread)
}
