package usecase

import (
	"context"
	"time"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/queue"
)

// publishEvent is best effort: the state change is already committed, so a
// broker failure is logged and swallowed.
func publishEvent(ctx context.Context, publisher EventPublisher, log *logger.Logger, event queue.Event) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	log.Info("[EVENT QUEUE] Publishing %s event: customer_id=%s", event.Type, event.CustomerID)
	if err := publisher.Publish(ctx, event); err != nil {
		log.Error("[EVENT QUEUE] Failed to publish %s event: %v", event.Type, err)
		return
	}
	log.Debug("[EVENT QUEUE] Published %s event", event.Type)
}
