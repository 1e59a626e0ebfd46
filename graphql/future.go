package graphql

import "context"

// Future[T] is the value an async resolver returns to tell the executor the
// field's work has started on a goroutine and should be waited on
// separately from the rest of its selection set, instead of being computed
// inline on the fast path. It is the Go analogue of an awaitable the
// source pipeline's host language would hand back from an async resolver;
// the resolver compiler detects the shape purely from the return type, the
// same way it would detect a channel return type for a subscription field.
//
// Go has no implicit coroutine suspension, so there is nothing for the
// resolver compiler to analyze here beyond a single return-type check: a
// resolver whose result type is *Future[T] is async, every other signature
// shape is synchronous and runs inline on the fast path.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go starts fn on its own goroutine and returns a Future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns a Future that is already complete, used when a resolver
// needs to return the Future[T] shape (e.g. to satisfy a field the schema
// compiler classified as async) but had the value in hand all along.
func Resolved[T any](val T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: val, err: err}
	close(f.done)
	return f
}

// Wait blocks until fn's result is available or ctx is cancelled, whichever
// comes first.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Await adapts Wait to the type-erased Awaitable interface, boxing T into
// an interface{} so the executor can wait on a pending field without
// knowing its declared type.
func (f *Future[T]) Await(ctx context.Context) (interface{}, error) {
	v, err := f.Wait(ctx)
	return v, err
}

// Awaitable is implemented by every *Future[T] regardless of T. The
// resolver compiler uses it, via reflect.Type.Implements, to classify a
// resolver as asynchronous without needing to know T at schema-build time;
// the executor uses it at request time to wait on the pending value.
type Awaitable interface {
	Await(ctx context.Context) (interface{}, error)
}

// waitOnFuture is the default LazyResolver installed by the resolver
// compiler for async fields: it adapts whatever Awaitable the field
// resolver returned into its eventual value.
func waitOnFuture(ctx context.Context, fun interface{}) (interface{}, error) {
	awaitable, ok := fun.(Awaitable)
	if !ok {
		return fun, nil
	}
	return awaitable.Await(ctx)
}
