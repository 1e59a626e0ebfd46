package users

import (
	"errors"
	"reflect"
	"time"

	"github.com/northfield/graphweave/schemabuilder"
)

// RegisterScalars registers the DateTime scalar, with a @specifiedBy URL
// exposed via introspection's __Type.specifiedByURL.
func RegisterScalars(sb *schemabuilder.Schema) {
	typ := reflect.TypeOf(time.Time{})
	if err := schemabuilder.RegisterScalar(typ, "DateTime", func(value interface{}, dest reflect.Value) error {
		v, ok := value.(string)
		if !ok {
			return errors.New("invalid type expected string")
		}

		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return err
		}

		dest.Set(reflect.ValueOf(t))

		return nil
	}, "https://tools.ietf.org/html/rfc3339"); err != nil {
		panic(err)
	}
}