// Package jerrors defines the error shape returned to GraphQL clients and the
// small taxonomy of error kinds produced while compiling and executing a
// schema.
package jerrors

import "fmt"

// Kind identifies which stage of the pipeline produced an Error.
type Kind string

const (
	// SchemaBuild covers failures while turning registered Go types and
	// resolver functions into a graphql.Schema: duplicate fields, unnamed
	// input objects, a union with fewer than two members, and the like. The
	// query parser, validator and Subscribe also use it for a request
	// document that does not parse or does not fit the schema.
	SchemaBuild Kind = "schema_build"

	// ArgumentCoercion covers failures converting a request's JSON variables
	// into the Go values a resolver expects.
	ArgumentCoercion Kind = "argument_coercion"

	// ResolverException wraps an error returned by user resolver code, and is
	// ConvertError's kind for any error not already classified. A panicking
	// resolver is not recovered.
	ResolverException Kind = "resolver_exception"

	// StreamTerminated marks a subscription stream that ended abnormally.
	// Executor.Subscribe does not use it: a source channel that closes or a
	// cancelled context ends the stream by closing the event channel.
	StreamTerminated Kind = "stream_terminated"

	// TypeMismatch covers a resolver returning a Go value that does not fit
	// the GraphQL type the schema compiler computed for that field.
	TypeMismatch Kind = "type_mismatch"

	// AbstractTypeResolution covers a union or interface resolver that
	// returned a concrete type with no matching member in the schema.
	AbstractTypeResolution Kind = "abstract_type_resolution"
)

// Location is a line/column pair into the original query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is the JSON shape GraphQL responses use for the top-level "errors"
// array. Path records the response-field path (e.g. ["user", "friends", 0,
// "name"]) at which the error occurred, per the GraphQL spec.
type Error struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Locations  []Location             `json:"locations,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Message:    fmt.Sprintf(format, args...),
		Extensions: map[string]interface{}{"code": string(kind)},
	}
}

// Wrap attaches a Kind and causing error to produce an Error, preserving the
// original error's message and making it available via errors.Unwrap.
func Wrap(kind Kind, cause error) *Error {
	if cause == nil {
		return nil
	}
	if existing, ok := cause.(*Error); ok {
		return existing
	}
	return &Error{
		Message:    cause.Error(),
		Extensions: map[string]interface{}{"code": string(kind)},
		cause:      cause,
	}
}

// WithPath returns a copy of e with Path set, used by the executor as it
// unwinds back up the selection set after a resolver fails.
func (e *Error) WithPath(path ...interface{}) *Error {
	cp := *e
	cp.Path = append(path, cp.Path...)
	return &cp
}

// ConvertError adapts any error into the wire Error shape. Errors that are
// already *Error pass through unchanged; everything else is classified as a
// resolver_exception, matching the assumption that validation and coercion
// errors are already wrapped with the right Kind by the code that produced
// them.
func ConvertError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return Wrap(ResolverException, err)
}
