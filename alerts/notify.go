package alerts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/garoto002/siku-backend/logger"
	"github.com/garoto002/siku-backend/models"
	"go.uber.org/zap"
)

// PushSender delivers a push notification to one device token. Implemented
// by *push.Client.
type PushSender interface {
	ValidToken(token string) bool
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// EventPublisher fans created alerts out to an event topic. Implemented by
// the kafka package; nil disables it.
type EventPublisher interface {
	Publish(topic string, payload []byte) error
}

// StreamPublisher pushes created alerts to a connected live stream for the
// user, if any. Implemented by the sse package; nil disables it.
type StreamPublisher interface {
	Publish(userID string, alert models.Alert)
}

// AlertEventTopic is the Kafka topic created alerts are published to.
const AlertEventTopic = "alert_events"

// Outcome distinguishes what actually happened to one candidate: the alert
// is always persisted unless suppressed by dedup; delivery is best effort
// on top of that.
type Outcome struct {
	Alert       models.Alert
	Suppressed  bool
	Delivered   bool
	DeliveryErr error
}

// Notifier persists alerts and attempts best-effort side-channel delivery.
// Persistence failures surface to the caller; delivery failures never do.
type Notifier struct {
	Store  Store
	Push   PushSender
	Events EventPublisher
	Stream StreamPublisher

	// Dedup suppresses a candidate when an unread alert with the same
	// dedup key already exists. Off by default: repeated runs create
	// duplicate alerts, which is the documented behavior.
	Dedup bool
}

// CreateAndNotify persists the candidate as an alert, then pushes it if
// the user has a syntactically valid token and has the kind switched on.
// A failed push is logged and the persisted alert is retained.
func (n *Notifier) CreateAndNotify(ctx context.Context, user *models.User, c Candidate) (Outcome, error) {
	alert := models.Alert{
		User:      user.ID,
		Kind:      c.Kind,
		Title:     c.Title,
		Message:   c.Message,
		CreatedAt: time.Now(),
	}
	if c.Meta != nil {
		alert.Meta = c.Meta.Document()
		alert.DedupKey = c.Meta.DedupKey()
	}

	if n.Dedup && alert.DedupKey != "" {
		exists, err := n.Store.HasUnreadAlert(ctx, user.ID, alert.DedupKey)
		if err != nil {
			logger.Get().Warn("dedup check failed, creating alert anyway",
				zap.String("user_id", user.ID.Hex()),
				zap.Error(err))
		} else if exists {
			logger.Get().Debug("alert suppressed by dedup",
				zap.String("user_id", user.ID.Hex()),
				zap.String("dedup_key", alert.DedupKey))
			return Outcome{Suppressed: true}, nil
		}
	}

	if err := n.Store.InsertAlert(ctx, &alert); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Alert: alert}
	n.fanOut(ctx, user, &outcome)
	return outcome, nil
}

func (n *Notifier) fanOut(ctx context.Context, user *models.User, outcome *Outcome) {
	alert := outcome.Alert

	if n.Push != nil && user.ExpoPushToken != "" && n.Push.ValidToken(user.ExpoPushToken) && n.pushEnabled(user, alert.Kind) {
		data := map[string]string{"alert_id": alert.ID.Hex()}
		if err := n.Push.Send(ctx, user.ExpoPushToken, alert.Title, alert.Message, data); err != nil {
			outcome.DeliveryErr = err
			logger.Get().Error("push delivery failed",
				zap.String("user_id", user.ID.Hex()),
				zap.String("alert_id", alert.ID.Hex()),
				zap.String("kind", string(alert.Kind)),
				zap.Error(err))
		} else {
			outcome.Delivered = true
			logger.Get().Debug("push delivered",
				zap.String("user_id", user.ID.Hex()),
				zap.String("alert_id", alert.ID.Hex()))
		}
	}

	if n.Stream != nil {
		n.Stream.Publish(user.ID.Hex(), alert)
	}

	if n.Events != nil {
		payload, err := json.Marshal(alert)
		if err != nil {
			logger.Get().Error("failed to marshal alert event",
				zap.Error(err))
			return
		}
		if err := n.Events.Publish(AlertEventTopic, payload); err != nil {
			logger.Get().Error("failed to publish alert event",
				zap.String("alert_id", alert.ID.Hex()),
				zap.Error(err))
		}
	}
}

// pushEnabled requires the kind to be explicitly switched on; a missing
// map or absent key means no push. Registration defaults enable every
// kind, so only legacy settings documents hit the absent case.
func (n *Notifier) pushEnabled(user *models.User, kind models.AlertKind) bool {
	return user.AlertSettings.Types[kind]
}
