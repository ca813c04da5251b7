package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderTime(t *testing.T) {
	now := time.Date(2024, 2, 19, 8, 0, 0, 0, time.UTC)
	lead := 2 * time.Hour

	at, ok := ReminderTime(now.Add(5*time.Hour), lead, now)
	require.True(t, ok)
	assert.Equal(t, now.Add(3*time.Hour), at)

	at, ok = ReminderTime(now.Add(30*time.Minute), lead, now)
	require.True(t, ok)
	assert.Equal(t, now, at, "sessions inside the lead are reminded immediately")

	_, ok = ReminderTime(now.Add(-time.Minute), lead, now)
	assert.False(t, ok)
	_, ok = ReminderTime(now, lead, now)
	assert.False(t, ok)
}

func TestNewReminderTask(t *testing.T) {
	session := time.Date(2024, 2, 19, 14, 30, 0, 0, time.UTC)
	task, opts, err := NewReminderTask(ReminderPayload{BookingID: "b1", SessionAt: session}, session.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, TypeBookingReminder, task.Type())
	assert.Len(t, opts, 3)

	var p ReminderPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "b1", p.BookingID)
	assert.True(t, session.Equal(p.SessionAt))
}

func TestNewCreditTask(t *testing.T) {
	task, opts, err := NewCreditTask(CreditPayload{BookingID: "b7"})
	require.NoError(t, err)
	assert.Equal(t, TypeBookingCredit, task.Type())
	assert.Len(t, opts, 3)

	var p CreditPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "b7", p.BookingID)
}

func TestNewReconcileTask(t *testing.T) {
	task, opts := NewReconcileTask(10 * time.Minute)
	assert.Equal(t, TypeReconcile, task.Type())
	assert.Empty(t, task.Payload())
	assert.Len(t, opts, 3)
}
