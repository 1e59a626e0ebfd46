package users

import (
	"context"
	"encoding/json"
	"time"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"

	"github.com/northfield/graphweave/graphql"
	"github.com/northfield/graphweave/schemabuilder"
)

// UserEvent is published to the userEvents topic whenever a user is created.
type UserEvent struct {
	UserID schemabuilder.ID `graphql:"userId"`
	Kind   string           `graphql:"kind"`
}

// RegisterSubscription registers subscription fields. Each resolver returns
// a receive-only channel; the executor's subscribe path pushes one event
// per value the channel yields and stops when the channel closes.
func RegisterSubscription(sb *schemabuilder.Schema) {
	s := sb.Subscription()

	// currentTime ticks once a second until the client unsubscribes.
	s.FieldFunc("currentTime", func(ctx context.Context) <-chan time.Time {
		ch := make(chan time.Time)
		go func() {
			defer close(ch)
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case t := <-ticker.C:
					select {
					case ch <- t:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
		return ch
	})

	// counter yields 0..limit-1 and closes, the bounded multi-item stream.
	s.FieldFunc("counter", func(ctx context.Context, args struct{ Limit int32 }) <-chan int32 {
		ch := make(chan int32)
		go func() {
			defer close(ch)
			for i := int32(0); i < args.Limit; i++ {
				select {
				case ch <- i:
				case <-ctx.Done():
					return
				}
			}
		}()
		return ch
	})

	// userEvents streams UserEvent messages off an in-memory gocloud.dev/pubsub
	// topic, the same adapter a SNS/SQS- or Kafka-backed subscription would go
	// through via graphql.PubSubChannel, without requiring a real broker.
	s.FieldFunc("userEvents", func(ctx context.Context) (<-chan UserEvent, error) {
		sub, err := pubsub.OpenSubscription(ctx, "mem://user-events")
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			sub.Shutdown(context.Background())
		}()

		decode := func(body []byte) (UserEvent, error) {
			var evt UserEvent
			err := json.Unmarshal(body, &evt)
			return evt, err
		}
		return graphql.PubSubChannel(ctx, sub, decode), nil
	})
}

// publishUserCreated publishes a userEvents message for a newly created user.
// Failures are ignored: the subscription feed is best-effort and must never
// block or fail a mutation.
func publishUserCreated(ctx context.Context, userID schemabuilder.ID) {
	topic, err := pubsub.OpenTopic(ctx, "mem://user-events")
	if err != nil {
		return
	}
	defer topic.Shutdown(context.Background())

	body, err := json.Marshal(UserEvent{UserID: userID, Kind: "CREATED"})
	if err != nil {
		return
	}
	_ = topic.Send(ctx, &pubsub.Message{Body: body})
}