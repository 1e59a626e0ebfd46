package schemabuilder

import (
	"errors"
	"math"
	"reflect"

	"github.com/northfield/graphweave/graphql"
)

// argParser knows how to fill a reflect.Value of a fixed Go type from the
// generic interface{} tree produced by decoding a request's JSON variables
// or parsing literal argument values out of the query document.
type argParser struct {
	FromJSON func(value interface{}, dest reflect.Value) error
	Type     reflect.Type
}

// cachedType pairs the compiled graphql.Type and per-field parsers of an
// input Go struct type; generateArgParser records one per args struct in
// schemaBuilder.typeCache.
type cachedType struct {
	argType graphql.Type
	fields  map[string]argField
}

// argField is one field of a compiled input object: which Go struct field it
// fills, how to parse its value, and whether it carries @deprecated.
type argField struct {
	field             reflect.StructField
	parser            *argParser
	DeprecationReason string
}

var scalars = map[reflect.Type]string{}
var scalarArgParsers = map[reflect.Type]*argParser{}

func init() {
	registerBuiltinScalar(reflect.TypeOf(string("")), "String", func(value interface{}, dest reflect.Value) error {
		v, ok := value.(string)
		if !ok {
			return errors.New("not a string")
		}
		dest.SetString(v)
		return nil
	})
	registerBuiltinScalar(reflect.TypeOf(bool(false)), "Boolean", func(value interface{}, dest reflect.Value) error {
		v, ok := value.(bool)
		if !ok {
			return errors.New("not a bool")
		}
		dest.SetBool(v)
		return nil
	})
	registerBuiltinScalar(reflect.TypeOf(float64(0)), "Float", func(value interface{}, dest reflect.Value) error {
		v, ok := toFloat(value)
		if !ok {
			return errors.New("not a float")
		}
		dest.SetFloat(v)
		return nil
	})
	registerBuiltinScalar(reflect.TypeOf(float32(0)), "Float", func(value interface{}, dest reflect.Value) error {
		v, ok := toFloat(value)
		if !ok {
			return errors.New("not a float")
		}
		dest.SetFloat(v)
		return nil
	})
	for _, typ := range []reflect.Type{
		reflect.TypeOf(int(0)), reflect.TypeOf(int8(0)), reflect.TypeOf(int16(0)),
		reflect.TypeOf(int32(0)), reflect.TypeOf(int64(0)),
	} {
		registerBuiltinScalar(typ, "Int", func(value interface{}, dest reflect.Value) error {
			v, ok := toInt(value)
			if !ok {
				return errors.New("not an int")
			}
			dest.SetInt(v)
			return nil
		})
	}
	for _, typ := range []reflect.Type{
		reflect.TypeOf(uint(0)), reflect.TypeOf(uint8(0)), reflect.TypeOf(uint16(0)),
		reflect.TypeOf(uint32(0)), reflect.TypeOf(uint64(0)),
	} {
		registerBuiltinScalar(typ, "Int", func(value interface{}, dest reflect.Value) error {
			v, ok := toInt(value)
			if !ok || v < 0 {
				return errors.New("not an unsigned int")
			}
			dest.SetUint(uint64(v))
			return nil
		})
	}

	idType := reflect.TypeOf(ID{})
	scalars[idType] = "ID"
	scalarArgParsers[idType] = &argParser{
		Type: idType,
		FromJSON: func(value interface{}, dest reflect.Value) error {
			v, ok := value.(string)
			if !ok {
				return errors.New("not a string")
			}
			dest.Set(reflect.ValueOf(ID{Value: v}))
			return nil
		},
	}

	bytesType := reflect.TypeOf(Bytes{})
	scalars[bytesType] = "Bytes"
	scalarArgParsers[bytesType] = &argParser{
		Type: bytesType,
		FromJSON: func(value interface{}, dest reflect.Value) error {
			v, ok := value.(string)
			if !ok {
				return errors.New("not a string")
			}
			dest.Set(reflect.ValueOf(Bytes{Value: []byte(v)}))
			return nil
		},
	}

	mapType := reflect.TypeOf(Map{})
	scalars[mapType] = "Map"
	scalarArgParsers[mapType] = &argParser{
		Type: mapType,
		FromJSON: func(value interface{}, dest reflect.Value) error {
			v, ok := value.(string)
			if !ok {
				return errors.New("not a string")
			}
			dest.Set(reflect.ValueOf(Map{Value: v}))
			return nil
		},
	}
}

func registerBuiltinScalar(typ reflect.Type, name string, uf UnmarshalFunc) {
	scalars[typ] = name
	scalarArgParsers[typ] = &argParser{Type: typ, FromJSON: uf}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// toInt accepts only values that are exactly representable as a signed
// 64-bit integer. A JSON number decodes as float64; one outside the int64
// range or with a fractional part is rejected rather than silently
// truncated or wrapped.
func toInt(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// getScalarArgParser returns the parser registered for a scalar Go type,
// including any aliases of that type's underlying kind (so a named type
// `type UserID string` can reuse the String scalar's parser).
func getScalarArgParser(typ reflect.Type) (*argParser, graphql.Type, bool) {
	if parser, ok := scalarArgParsers[typ]; ok {
		name := scalars[typ]
		return parser, &graphql.Scalar{Type: name, SpecifiedByURL: getScalarSpecifiedByURL(typ)}, true
	}
	for registered, parser := range scalarArgParsers {
		if typesIdenticalOrScalarAliases(typ, registered) {
			name := scalars[registered]
			return &argParser{
					Type: typ,
					FromJSON: func(value interface{}, dest reflect.Value) error {
						tmp := reflect.New(registered).Elem()
						if err := parser.FromJSON(value, tmp); err != nil {
							return err
						}
						dest.Set(tmp.Convert(typ))
						return nil
					},
				}, &graphql.Scalar{Type: name, SpecifiedByURL: getScalarSpecifiedByURL(typ)}, true
		}
	}
	return nil, nil, false
}

// wrapPtrParser adapts a value parser into one for *T: null/missing produces
// a nil pointer, anything else allocates a T and delegates.
func wrapPtrParser(inner *argParser) *argParser {
	return &argParser{
		Type: reflect.PtrTo(inner.Type),
		FromJSON: func(value interface{}, dest reflect.Value) error {
			if value == nil {
				dest.Set(reflect.Zero(dest.Type()))
				return nil
			}
			ptr := reflect.New(dest.Type().Elem())
			if err := inner.FromJSON(value, ptr.Elem()); err != nil {
				return err
			}
			dest.Set(ptr)
			return nil
		},
	}
}

func (sb *schemaBuilder) getEnumArgParser(typ reflect.Type) (*argParser, graphql.Type) {
	mapping := sb.enumMappings[typ]
	enumType := &graphql.Enum{
		Type:        typ.Name(),
		Description: mapping.Description,
		Values:      make([]string, 0, len(mapping.Map)),
		ReverseMap:  mapping.ReverseMap,
	}
	for name := range mapping.Map {
		enumType.Values = append(enumType.Values, name)
	}

	return &argParser{
		Type: typ,
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asString, ok := value.(string)
			if !ok {
				return errors.New("enum value must be a string")
			}
			val, ok := mapping.Map[asString]
			if !ok {
				return errors.New("unknown enum value " + asString)
			}
			dest.Set(reflect.ValueOf(val).Convert(typ))
			return nil
		},
	}, enumType
}

// validateOneOfInput enforces the @oneOf input-object rule: exactly one of
// the map's keys may carry a non-null value.
func validateOneOfInput(name string, asMap map[string]interface{}) error {
	set := 0
	for _, v := range asMap {
		if v != nil {
			set++
		}
	}
	if set != 1 {
		return errors.New(name + ": exactly one field must be set on a oneOf input")
	}
	return nil
}
