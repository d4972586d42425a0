package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-service/internal/events"
	"github.com/spec-kit/hr-service/internal/observability"
)

// NotificationService forwards change events to the log, the metrics and,
// when configured, a Redis channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	publisher  events.RedisPublisher
	channel    string
}

// NewNotificationService creates the service. publisher may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, publisher events.RedisPublisher, channel string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		publisher:  publisher,
		channel:    channel,
	}
}

// RegisterHandlers subscribes to every change event.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	var redisHandler events.EventHandler
	if n.publisher != nil {
		redisHandler = events.NewRedisHandler(n.publisher, n.channel)
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handleChange)
		if redisHandler != nil {
			n.dispatcher.Subscribe(eventType, redisHandler)
		}
	}
}

func (n *NotificationService) handleChange(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Info("entity changed",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("entity_id", event.EntityID),
		zap.Any("payload", event.Payload))
	return nil
}
