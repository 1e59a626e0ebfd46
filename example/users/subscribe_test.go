package users_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/northfield/graphweave/example/users"
	"github.com/northfield/graphweave/graphql"
	"github.com/northfield/graphweave/schemabuilder"
)

// TestCounterSubscription drives the bounded counter subscription directly
// through Executor.Subscribe (bypassing HTTP/WebSocket transport, which this
// module does not own) and checks it emits exactly Limit events, in order,
// then closes its event channel on its own once the source channel closes.
func TestCounterSubscription(t *testing.T) {
	sb := schemabuilder.NewSchema()
	users.RegisterSchema(sb, users.NewServer())
	schema, err := sb.Build()
	require.NoError(t, err)

	query, err := graphql.Parse(`subscription { counter(limit: 3) }`, nil)
	require.NoError(t, err)
	require.Equal(t, "subscription", query.Kind)
	require.NoError(t, graphql.ValidateQuery(context.Background(), schema.Subscription, query.SelectionSet))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	executor := &graphql.Executor{}
	events, err := executor.Subscribe(ctx, schema.Subscription, query)
	require.NoError(t, err)

	var got []float64
	for event := range events {
		require.NoError(t, event.Err)
		frame, err := graphql.EncodeSubscriptionEvent("1", event)
		require.NoError(t, err)
		require.Contains(t, string(frame), `"type":"next"`)

		raw, err := json.Marshal(event.Data)
		require.NoError(t, err)
		var payload struct {
			Counter float64 `json:"counter"`
		}
		require.NoError(t, json.Unmarshal(raw, &payload))
		got = append(got, payload.Counter)
	}

	require.Equal(t, []float64{0, 1, 2}, got)

	complete, err := graphql.EncodeSubscriptionComplete("1")
	require.NoError(t, err)
	require.Contains(t, string(complete), `"type":"complete"`)
}

// TestZeroItemSubscriptionTerminatesCleanly checks that a subscription whose
// source channel closes without ever sending closes its event channel with
// no events and no error, rather than hanging or surfacing a spurious
// StreamTerminated error for the always-empty case.
func TestZeroItemSubscriptionTerminatesCleanly(t *testing.T) {
	sb := schemabuilder.NewSchema()
	users.RegisterSchema(sb, users.NewServer())
	schema, err := sb.Build()
	require.NoError(t, err)

	query, err := graphql.Parse(`subscription { counter(limit: 0) }`, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	executor := &graphql.Executor{}
	events, err := executor.Subscribe(ctx, schema.Subscription, query)
	require.NoError(t, err)

	count := 0
	for range events {
		count++
	}
	require.Equal(t, 0, count)
	require.NoError(t, ctx.Err())
}
