package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mingle/db"
	"mingle/models"
	"mingle/rdx"
)

const activityChannel = "activity-events"

type envelope struct {
	Event     string       `json:"event" bson:"event"`
	Index     models.Index `json:"index" bson:"index"`
	Timestamp time.Time    `json:"timestamp" bson:"timestamp"`
}

// Emit publishes an activity event. Failures are logged and swallowed;
// event delivery never blocks the request path.
func Emit(ctx context.Context, event string, idx models.Index) {
	payload, err := json.Marshal(envelope{Event: event, Index: idx, Timestamp: time.Now()})
	if err != nil {
		log.Printf("mq: failed to encode event %s: %v", event, err)
		return
	}
	if err := rdx.Conn.Publish(ctx, activityChannel, payload).Err(); err != nil {
		log.Printf("mq: failed to publish event %s: %v", event, err)
	}
}

// StartActivityWorker subscribes to the activity channel and persists
// each event. Runs until the context is cancelled.
func StartActivityWorker(ctx context.Context) {
	sub := rdx.Conn.Subscribe(ctx, activityChannel)
	defer sub.Close()

	log.Println("✅ Activity worker listening on", activityChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("mq: dropping malformed event: %v", err)
				continue
			}
			dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if _, err := db.ActivitiesCollection.InsertOne(dbCtx, env); err != nil {
				log.Printf("mq: failed to persist event %s: %v", env.Event, err)
			}
			cancel()
		}
	}
}
