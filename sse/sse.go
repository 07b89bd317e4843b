package sse

import (
	"sync"

	"github.com/garoto002/siku-backend/logger"
	"github.com/garoto002/siku-backend/models"
	"go.uber.org/zap"
)

// Broker fans freshly created alerts out to connected clients, one stream
// per user. Publishing to a user without a stream, or to a full stream
// buffer, drops the alert; the feed is advisory and the alert is already
// persisted.
type Broker struct {
	mu      sync.RWMutex
	streams map[string]chan models.Alert
}

func NewBroker() *Broker {
	return &Broker{streams: make(map[string]chan models.Alert)}
}

// Subscribe registers a stream for the user and returns the channel plus a
// cancel function. A second subscription replaces the first.
func (b *Broker) Subscribe(userID string) (<-chan models.Alert, func()) {
	ch := make(chan models.Alert, 16)

	b.mu.Lock()
	if old, ok := b.streams[userID]; ok {
		close(old)
	}
	b.streams[userID] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if current, ok := b.streams[userID]; ok && current == ch {
			delete(b.streams, userID)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Broker) Publish(userID string, alert models.Alert) {
	b.mu.RLock()
	ch, ok := b.streams[userID]
	b.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case ch <- alert:
	default:
		logger.Get().Debug("alert stream buffer full, dropping",
			zap.String("user_id", userID),
			zap.String("alert_id", alert.ID.Hex()))
	}
}
