package graphql

import (
	"context"
	"reflect"

	"github.com/northfield/graphweave/jerrors"
)

// SubscriptionEvent is one item pushed out of a running subscription: either
// a resolved, selection-shaped Data value or an Err describing why no
// further events will follow.
type SubscriptionEvent struct {
	Data interface{}
	Err  error
}

// Subscribe starts a subscription rooted at typ (the schema's Subscription
// type) against query, and returns a channel that receives one
// SubscriptionEvent per item the resolver's source channel produces. The
// returned channel is closed when the source channel closes, ctx is
// cancelled, or right after an event carrying an Err. A root field that
// resolves to something other than a channel makes Subscribe return an
// error and no channel.
//
// Per the GraphQL spec a subscription operation selects exactly one root
// field; Subscribe enforces that rather than silently picking the first one.
func (e *Executor) Subscribe(ctx context.Context, typ Type, query *Query) (<-chan *SubscriptionEvent, error) {
	ss := query.SelectionSet
	if ss == nil || len(ss.Selections) != 1 || len(ss.Fragments) != 0 {
		return nil, jerrors.New(jerrors.SchemaBuild, "a subscription operation must select exactly one root field")
	}

	sel := ss.Selections[0]
	fields, ok := fieldsOf(typ)
	if !ok {
		return nil, jerrors.New(jerrors.SchemaBuild, "subscription root type %s has no selectable fields", typ.String())
	}
	field, ok := fields[sel.Name]
	if !ok {
		return nil, jerrors.New(jerrors.SchemaBuild, "field %q does not exist on %s", sel.Name, typ.String())
	}
	if !field.Stream {
		return nil, jerrors.New(jerrors.SchemaBuild, "field %q is not a subscription field", sel.Name)
	}

	args, err := coerceArgs(field, sel)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.ArgumentCoercion, err)
	}

	source, err := field.Resolve(ctx, nil, args, sel.SelectionSet)
	if err != nil {
		return nil, jerrors.ConvertError(err)
	}

	ch := reflect.ValueOf(source)
	if ch.Kind() != reflect.Chan {
		return nil, jerrors.New(jerrors.TypeMismatch, "subscription field %q resolved to %T, not a channel", sel.Name, source)
	}

	key := sel.Alias
	if key == "" {
		key = sel.Name
	}

	out := make(chan *SubscriptionEvent)
	go func() {
		defer close(out)
		cases := []reflect.SelectCase{
			{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
			{Dir: reflect.SelectRecv, Chan: ch},
		}
		for {
			chosen, value, recvOK := reflect.Select(cases)
			if chosen == 0 {
				return
			}
			if !recvOK {
				// The source channel closing is normal stream completion
				// (e.g. a bounded counter reaching its limit), not a
				// failure: closing out with no further event is what lets
				// EncodeSubscriptionComplete's "complete" frame, not an
				// error frame, be the one a transport sends next.
				return
			}

			item, err := e.resolveValue(ctx, field.Type, value.Interface(), sel.SelectionSet, []interface{}{key})
			var event *SubscriptionEvent
			if err != nil {
				event = &SubscriptionEvent{Err: jerrors.ConvertError(err)}
			} else {
				payload := newOrderedMap()
				payload.set(key, item)
				event = &SubscriptionEvent{Data: payload}
			}
			if !sendEvent(ctx, out, event) {
				return
			}
			if event.Err != nil {
				return
			}
		}
	}()

	return out, nil
}

// sendEvent delivers event on out, returning false without blocking forever
// if ctx is cancelled first.
func sendEvent(ctx context.Context, out chan<- *SubscriptionEvent, event *SubscriptionEvent) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
