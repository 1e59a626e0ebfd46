package schemabuilder

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/golang/protobuf/ptypes/duration"
	"github.com/golang/protobuf/ptypes/timestamp"
)

//Object - an Object represents a Go type and set of methods to be converted into an Object in a GraphQL schema.
type Object struct {
	Name        string // The GraphQL type name passed to Schema.Object.
	Description string
	Type        interface{}
	Methods     Methods // Deprecated, use FieldFunc instead.

	key string
}

// Key registers the key field on an object. The field should be specified by the name of the graphql field.
// For example, for an object User:
//   type struct User {
//	   UserKey int64
//   }
// The key will be registered as:
// object.Key("userKey")
func (s *Object) Key(f string) {
	s.key = f
}

// InputObject represents the input objects passed in queries,mutations and subscriptions.
type InputObject struct {
	Name        string
	Type        interface{}
	Fields      map[string]interface{}
	Description string

	// OneOf marks this input object as a @oneOf input (MarkOneOf); exactly
	// one field must be set on any value parsed against it.
	OneOf bool

	// FieldDeprecations records @deprecated reasons for fields registered
	// via FieldFunc(name, fn, schemabuilder.Deprecated("...")), keyed by
	// graphql field name. Fields declared via a plain struct (Type set,
	// no FieldFunc calls) are deprecated through struct tags instead; see
	// parseGraphQLFieldInfo.
	FieldDeprecations map[string]string

	// FieldDescriptions mirrors FieldDeprecations for FieldDesc(...).
	FieldDescriptions map[string]string
}

// MarkOneOf marks this input object as a @oneOf input object: exactly one
// field may be set (non-null) in any value supplied for it.
func (io *InputObject) MarkOneOf() {
	io.OneOf = true
}

// A Methods map represents the set of methods exposed on a Object.
type Methods map[string]*method

type method struct {
	MarkedNonNullable bool
	Fn                interface{}
	Description       string

	// IsDeprecated/DeprecationReason back @deprecated, set via
	// FieldFunc(name, fn, schemabuilder.Deprecated("...")).
	IsDeprecated      bool
	DeprecationReason string
}

// EnumMapping is a representation of an enum that includes both the mapping and reverse mapping.
type EnumMapping struct {
	Map         map[string]interface{}
	ReverseMap  map[interface{}]string
	Description string
}

// InterfaceObj is a representation of graphql interface
type InterfaceObj struct {
	Struct reflect.Type
	Type   interface{}
}

// Interface is a special marker struct that can be embedded into to denote that a type should be
// treated as a interface type by the schemabuilder
type Interface struct{}

// Union is a special marker struct that can be embedded into to denote
// that a type should be treated as a union type by the schemabuilder.
//
// For example, to denote that a return value that may be a *Asset or
// *Vehicle might look like:
//   type GatewayUnion struct {
//     schemabuilder.Union
//     *Asset
//     *Vehicle
//   }
//
// Fields returning a union type should expect to return this type as a
// one-hot struct, i.e. only Asset or Vehicle should be specified, but not both.
type Union struct{}

// OneOfInput is a special marker struct that can be embedded anonymously into
// an input struct to denote that the type should be treated as a oneOf input
// object (@oneOf directive): exactly one field must be set.
//
// This mirrors schemabuilder.Union for outputs, but applies to inputs.
//
// For example:
//   type ContactInput struct {
//     schemabuilder.OneOfInput
//     Email *string
//     Phone *string
//   }
//
// Then register as usual: schema.InputObject("ContactInput", ContactInput{}).
// Exactly one field must be provided/non-null in queries (validated in coercion;
// see input_object.go). Use pointers for optionals per input patterns.
type OneOfInput struct{}

var unionType = reflect.TypeOf(Union{})

// oneOfInputType is used by hasOneOfMarkerEmbedded in input_object.go to
// detect the @oneOf marker via anonymous embedding, mirroring unionType.
var oneOfInputType = reflect.TypeOf(OneOfInput{})

// scalarSpecifiedByURLs maps a scalar's reflect.Type to its optional
// @specifiedBy URL, set via RegisterScalar. Empty for scalars without one.
var scalarSpecifiedByURLs = map[reflect.Type]string{}

// FieldFunc exposes a field on an object. The function f can take a number of
// optional arguments:
// func([ctx context.Context], [sel *graphql.Lookahead], [o *Type], [args struct {}]) ([Result], [error])
//
// A *graphql.Lookahead parameter, like context.Context, is recognized by
// type regardless of whether ctx is also present; it carries an owned
// snapshot of the selection set requested beneath this field so the
// resolver can decide whether to prefetch a joined relation, e.g.
// sel.Field("comments").Exists().
//
// For example, for an object of type User, a fullName field might take just an
// instance of the object:
//    user.FieldFunc("fullName", func(u *User) string {
//       return u.FirstName + " " + u.LastName
//    })
//
// An addUser mutation field might take both a context and arguments:
//    mutation.FieldFunc("addUser", func(ctx context.Context, args struct{
//        FirstName string
//        LastName  string
//    }) (int, error) {
//        userID, err := db.AddUser(ctx, args.FirstName, args.LastName)
//        return userID, err
//    })
//
// Per descriptions feature extension for FIELD_DEFINITION, optional variadic
// description (last arg) sets desc (e.g., FieldFunc("name", fn, "Field desc") ;
// "" default for BC; parsed to graphql.Field.Description; tag parse for struct
// fields alternative in reflect.go).
// Mirrors Object(name, typ, desc...) and InputObject.
func (s *Object) FieldFunc(name string, f interface{}, opts ...interface{}) {
	if s.Methods == nil {
		s.Methods = make(Methods)
	}

	o := parseFieldOpts(opts)
	m := &method{
		Fn:                f,
		Description:       o.description,
		IsDeprecated:      o.deprecated,
		DeprecationReason: o.deprecationReason,
	}

	if _, ok := s.Methods[name]; ok {
		panic("duplicate method")
	}
	s.Methods[name] = m
}

// FieldFunc is used to expose the fields of an input object and determine the method to fill it
// type ServiceProvider struct {
// 	Id                   string
// 	FirstName            string
// }
// inputObj := schema.InputObject("serviceProvider", ServiceProvider{})
// inputObj.FieldFunc("id", func(target *ServiceProvider, source *schemabuilder.ID) {
// 	target.Id = source.Value
// })
// inputObj.FieldFunc("firstName", func(target *ServiceProvider, source *string) {
// 	target.FirstName = *source
// })
// The target variable of the function should be pointer
func (io *InputObject) FieldFunc(name string, function interface{}, opts ...interface{}) {
	funcTyp := reflect.TypeOf(function)

	if funcTyp.NumIn() != 2 {
		panic(fmt.Errorf("can not register field %v on %v as number of input argument should be 2", name, io.Name))
	}

	sourceTyp := funcTyp.In(0)
	if sourceTyp.Kind() != reflect.Ptr {
		panic(fmt.Errorf("can not register %s on input object %s as the first argument of the function is not a pointer type", name, io.Name))
	}

	if funcTyp.NumOut() > 2 {
		panic(fmt.Errorf("can not register field %v on %v as number of output parameters should be less than 2", name, io.Name))
	}

	io.Fields[name] = function

	o := parseFieldOpts(opts)
	if o.description != "" {
		if io.FieldDescriptions == nil {
			io.FieldDescriptions = map[string]string{}
		}
		io.FieldDescriptions[name] = o.description
	}
	if o.deprecated {
		if io.FieldDeprecations == nil {
			io.FieldDeprecations = map[string]string{}
		}
		io.FieldDeprecations[name] = o.deprecationReason
	}
}

// UnmarshalFunc is used to unmarshal scalar value from JSON
type UnmarshalFunc func(value interface{}, dest reflect.Value) error

// RegisterScalar is used to register custom scalars. The optional specifiedByURL
// param (last arg) sets the @specifiedBy(url: String!) surfaced through
// introspection's __Type.specifiedByURL; omitted it defaults to "".
//
// For example, to register a custom ID type,
// type ID struct {
// 		Value string
// }
//
// Implement JSON Marshalling
// func (id ID) MarshalJSON() ([]byte, error) {
//  return strconv.AppendQuote(nil, string(id.Value)), nil
// }
//
// Register unmarshal func (with optional URL)
// func init() {
//	typ := reflect.TypeOf((*ID)(nil)).Elem()
//	if err := schemabuilder.RegisterScalar(typ, "ID", func(value interface{}, d reflect.Value) error {
//		v, ok := value.(string)
//		if !ok {
//			return errors.New("not a string type")
//		}
//
//		d.Field(0).SetString(v)
//		return nil
//	}, "https://..."); err != nil {
//		panic(err)
//	}
//}
func RegisterScalar(typ reflect.Type, name string, uf UnmarshalFunc, specifiedByURL ...string) error {
	if typ.Kind() == reflect.Ptr {
		return errors.New("type should not be of pointer type")
	}

	if uf == nil {
		// Slow fail safe to avoid reflection code by package users
		if !reflect.PtrTo(typ).Implements(reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()) {
			return errors.New("either UnmarshalFunc should be provided or the provided type should implement json.Unmarshaler interface")
		}

		f, _ := reflect.PtrTo(typ).MethodByName("UnmarshalJSON")

		uf = func(value interface{}, dest reflect.Value) error {
			var x interface{}
			switch v := value.(type) {
			case []byte:
				x = v
			case string:
				x = []byte(v)
			case float64:
				x = []byte(strconv.FormatFloat(v, 'g', -1, 64))
			case int64:
				x = []byte(strconv.FormatInt(v, 10))
			case bool:
				if v {
					x = []byte{'t', 'r', 'u', 'e'}
				} else {
					x = []byte{'f', 'a', 'l', 's', 'e'}
				}
			default:
				return errors.New("unknown type")
			}

			if err := f.Func.Call([]reflect.Value{dest.Addr(), reflect.ValueOf(x)})[0].Interface(); err != nil {
				return err.(error)
			}

			return nil
		}
	}

	// Store scalar name and (optional) @specifiedBy URL. Variadic ensures BC with pre-2018 calls.
	// URL defaults to "" if omitted (null in introspection for built-ins).
	scalars[typ] = name
	if len(specifiedByURL) > 1 {
		return errors.New("at most one specifiedByURL allowed")
	}
	if len(specifiedByURL) == 1 {
		scalarSpecifiedByURLs[typ] = specifiedByURL[0]
	}
	scalarArgParsers[typ] = &argParser{
		FromJSON: uf,
	}

	return nil
}

// ID is the graphql ID scalar
type ID struct {
	Value string
}

// MarshalJSON implements JSON Marshalling used to generate the output
func (id ID) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, string(id.Value)), nil
}

// isScalarType checks whether a reflect.Type is a registered scalar or a
// named alias of one (a non-struct, non-map type of the same Kind).
func isScalarType(t reflect.Type) bool {
	if _, ok := scalars[t]; ok {
		return true
	}
	if t.Kind() == reflect.Struct || t.Kind() == reflect.Map {
		return false
	}
	for registered := range scalars {
		if registered.Kind() == t.Kind() {
			return true
		}
	}
	return false
}

// typesIdenticalOrScalarAliases checks whether a & b are same scalar
func typesIdenticalOrScalarAliases(a, b reflect.Type) bool {
	return a == b || (a.Kind() == b.Kind() && (a.Kind() != reflect.Struct) && (a.Kind() != reflect.Map) && isScalarType(a))
}

// getScalarSpecifiedByURL returns the optional @specifiedBy URL for the scalar type
// (registered via RegisterScalar's variadic arg; post-2018 spec). Returns "" if unset.
// Used by getScalarArgParser in scalars.go to attach it to graphql.Scalar.
// Looks up the exact type only, so a named alias of a scalar gets "".
func getScalarSpecifiedByURL(typ reflect.Type) string {
	if url, ok := scalarSpecifiedByURLs[typ]; ok {
		return url
	}
	return ""
}

//Timestamp handles the time
type Timestamp timestamp.Timestamp

// MarshalJSON implements JSON Marshalling used to generate the output
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, string(time.Unix(t.Seconds, int64(t.Nanos)).Format(time.RFC3339))), nil
}

//Map handles maps
type Map struct {
	Value string
}

// MarshalJSON implements JSON Marshalling used to generate the output
func (m Map) MarshalJSON() ([]byte, error) {
	v := base64.StdEncoding.EncodeToString([]byte(m.Value))
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return d, nil
}

//Duration handles the duration
type Duration duration.Duration

// MarshalJSON implements JSON Marshalling used to generate the output
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(d.Seconds))), nil
}

//Bytes handles byte strings
type Bytes struct {
	Value []byte
}

// MarshalJSON implements JSON Marshalling used to generate the output
func (b Bytes) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(b.Value)
	if err != nil {
		return nil, err
	}
	return data, nil
}
