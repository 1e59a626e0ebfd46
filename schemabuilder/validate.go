package schemabuilder

import (
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/northfield/graphweave/jerrors"
)

// argsValidator runs struct-tag validation (`validate:"required,email,gte=0"`
// and the like) against a resolver's decoded args struct, on top of the
// type-level coercion the executor already performs. A single instance is
// reused across all fields since validator caches struct tag parsing
// per-type internally.
var argsValidator = validator.New()

// validateArgs runs struct validation on args when its type (or the type it
// points to) declares any `validate` tags, converting a failure into an
// argument_coercion error so it surfaces to the client the same way a type
// mismatch would. Args with no validate tags at all are left alone: most
// resolver argument structs have none, and running the validator against
// every field of every request would be pure overhead for no benefit.
func validateArgs(args interface{}) error {
	if args == nil {
		return nil
	}
	v := reflect.ValueOf(args)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	if !hasValidateTag(v.Type()) {
		return nil
	}

	if err := argsValidator.Struct(v.Interface()); err != nil {
		return jerrors.Wrap(jerrors.ArgumentCoercion, err)
	}
	return nil
}

func hasValidateTag(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if _, ok := t.Field(i).Tag.Lookup("validate"); ok {
			return true
		}
	}
	return false
}
