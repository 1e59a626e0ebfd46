package graphql

import (
	"context"

	"gocloud.dev/pubsub"

	"github.com/northfield/graphweave/jerrors"
)

// PubSubChannel turns a gocloud.dev/pubsub.Subscription into the
// receive-only channel a subscription FieldFunc is expected to return,
// letting an event source backed by SNS/SQS, Kafka, or GCP Pub/Sub (any
// driver gocloud.dev supports) be wired in as-is instead of only a
// synthetic in-process generator. Decode converts the message body into the
// concrete type T the field's selection set expects.
//
// The returned channel is closed once ctx is cancelled or Receive returns a
// non-nil error; a decode error is dropped with the message Nacked rather
// than propagated, since one malformed message should not end the stream.
func PubSubChannel[T any](ctx context.Context, sub *pubsub.Subscription, decode func([]byte) (T, error)) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			msg, err := sub.Receive(ctx)
			if err != nil {
				return
			}

			value, err := decode(msg.Body)
			if err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()

			select {
			case out <- value:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// ErrPubSubClosed is a stream_terminated sentinel for a drained gocloud.dev
// subscription. Nothing in this package returns it: PubSubChannel reports the
// end of its subscription only by closing the channel it returned.
var ErrPubSubClosed = jerrors.New(jerrors.StreamTerminated, "pubsub subscription closed")
