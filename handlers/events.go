package handlers

import (
	"io"
	"time"

	"pijatku/services/events"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const eventsKeepAlive = 25 * time.Second

type EventsHandler struct {
	Subscriber events.Subscriber
	// Shutdown closes every open stream when the server stops.
	Shutdown <-chan struct{}
}

func NewEventsHandler(sub events.Subscriber, shutdown <-chan struct{}) *EventsHandler {
	return &EventsHandler{Subscriber: sub, Shutdown: shutdown}
}

// Stream pushes the caller's booking and chat events as server-sent events
// until the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	userID := currentUser(c)
	ctx := c.Request.Context()
	ch, err := h.Subscriber.Subscribe(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	zap.L().Debug("Event stream opened", zap.String("user", userID))

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	ticker := time.NewTicker(eventsKeepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case evt, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(evt.Type), evt)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now()})
			return true
		case <-ctx.Done():
			return false
		case <-h.Shutdown:
			return false
		}
	})
	zap.L().Debug("Event stream closed", zap.String("user", userID))
}
