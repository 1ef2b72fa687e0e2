package service

import (
	"context"

	"github.com/Skotchmaster/football_store/pkg/logging"
)

// EventPublisher is satisfied by *mykafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish is best effort: a nil publisher is skipped and failures are only logged.
func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error",
			"topic", topic,
			"type", event["type"],
			"error", err,
		)
	}
}
