package mq

import (
	"context"
	"encoding/json"
	"log"

	"wayfarer/models"
	"wayfarer/rdx"
)

const tripEventsChannel = "trip-events"

// Emit publishes a trip lifecycle event to Redis. Subscribers (activity feed,
// cache invalidation) pick it up asynchronously; a publish failure is logged
// and never blocks the request path.
func Emit(ctx context.Context, event models.TripEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, tripEventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// StartEventLogger drains the trip events channel. Kept minimal: it logs the
// stream so operators can tail trip activity without querying Mongo.
func StartEventLogger() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, tripEventsChannel)
	ch := sub.Channel()

	for msg := range ch {
		var event models.TripEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventLogger] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[EventLogger] trip %s %s by %s", event.ShareID, event.Action, event.OwnerID)
	}
}
