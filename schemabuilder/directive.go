package schemabuilder

// FieldOption configures a single field registered through FieldFunc, beyond
// the plain description string accepted for backward compatibility with
// call sites that only ever set a description.
type FieldOption interface {
	apply(*fieldOptions)
}

type fieldOptions struct {
	description       string
	deprecated        bool
	deprecationReason string
}

type fieldOptionFunc func(*fieldOptions)

func (f fieldOptionFunc) apply(o *fieldOptions) { f(o) }

// FieldDesc sets a field's description.
func FieldDesc(description string) FieldOption {
	return fieldOptionFunc(func(o *fieldOptions) {
		o.description = description
	})
}

// Deprecated marks a field as deprecated, recording reason as its
// @deprecated(reason:) argument.
func Deprecated(reason string) FieldOption {
	return fieldOptionFunc(func(o *fieldOptions) {
		o.deprecated = true
		o.deprecationReason = reason
	})
}

// WithDescription is identity sugar for the plain-string description
// variadic accepted by Object, InputObject, and Enum at registration time.
// It exists so call sites can write schemabuilder.WithDescription("...")
// instead of a bare string literal.
func WithDescription(s string) string {
	return s
}

// parseFieldOpts splits a FieldFunc opts variadic into a plain description
// (a bare string, the convention used when a field has nothing else to say)
// and typed FieldOption values (FieldDesc/Deprecated).
func parseFieldOpts(opts []interface{}) fieldOptions {
	var out fieldOptions
	for _, opt := range opts {
		switch v := opt.(type) {
		case string:
			out.description = v
		case FieldOption:
			v.apply(&out)
		default:
			panic("schemabuilder: unsupported FieldFunc option type")
		}
	}
	return out
}
