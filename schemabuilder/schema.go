package schemabuilder

import (
	"fmt"
	"reflect"

	"github.com/northfield/graphweave/graphql"
	"github.com/northfield/graphweave/jerrors"
)

// query, mutation, and subscription are sentinel root types. Nothing ever
// constructs a value of them; they exist only as a reflect.Type key so the
// three root operations can be registered and compiled through the exact
// same Object machinery as every other type.
type query struct{}
type mutation struct{}
type subscription struct{}

// Schema is the entry point for registering a GraphQL schema from Go types
// and functions. Call NewSchema, register every Object/InputObject/Enum the
// schema needs, then Build to compile the registrations into a
// *graphql.Schema ready for an Executor.
type Schema struct {
	objects      map[reflect.Type]*Object
	inputObjects map[reflect.Type]*InputObject
	enums        map[reflect.Type]*EnumMapping

	queryObj        *Object
	mutationObj     *Object
	subscriptionObj *Object
}

// NewSchema creates a new Schema.
func NewSchema() *Schema {
	return &Schema{
		objects:      map[reflect.Type]*Object{},
		inputObjects: map[reflect.Type]*InputObject{},
		enums:        map[reflect.Type]*EnumMapping{},
	}
}

func fieldOptsFrom(opts []interface{}) (string, error) {
	if len(opts) == 0 {
		return "", nil
	}
	if len(opts) > 1 {
		return "", fmt.Errorf("at most one description allowed")
	}
	desc, ok := opts[0].(string)
	if !ok {
		return "", fmt.Errorf("expected a description string")
	}
	return desc, nil
}

// Object registers a struct type as a GraphQL object type. typ is a zero
// value of the Go type the object is compiled from; name is the GraphQL
// type name exposed in the schema. An optional trailing description string
// documents the type for introspection.
func (s *Schema) Object(name string, typ interface{}, desc ...string) *Object {
	goType := reflect.TypeOf(typ)
	if goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}

	if object, ok := s.objects[goType]; ok {
		if object.Name != name {
			panic(fmt.Sprintf("re-registered object %s with different name %s", object.Name, name))
		}
		return object
	}

	description, err := fieldOptsFrom(desc)
	if err != nil {
		panic(err)
	}

	object := &Object{
		Name:        name,
		Type:        typ,
		Description: description,
	}
	s.objects[goType] = object
	return object
}

// InputObject registers a struct type as a GraphQL input object type.
func (s *Schema) InputObject(name string, typ interface{}, desc ...string) *InputObject {
	goType := reflect.TypeOf(typ)
	if goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}

	if input, ok := s.inputObjects[goType]; ok {
		return input
	}

	description, err := fieldOptsFrom(desc)
	if err != nil {
		panic(err)
	}

	input := &InputObject{
		Name:   name,
		Type:   typ,
		Fields: map[string]interface{}{},

		Description: description,
	}
	s.inputObjects[goType] = input
	return input
}

// Enum registers a Go type as a GraphQL enum. val is a zero/sample value of
// the enum's underlying Go type (used only to find its reflect.Type and
// name), and enumMap maps GraphQL enum value names to the corresponding Go
// constants.
func (s *Schema) Enum(val interface{}, enumMap map[string]interface{}, desc ...string) {
	typ := reflect.TypeOf(val)

	description, err := fieldOptsFrom(desc)
	if err != nil {
		panic(err)
	}

	reverseMap := make(map[interface{}]string, len(enumMap))
	for name, v := range enumMap {
		reverseMap[v] = name
	}

	s.enums[typ] = &EnumMapping{
		Map:         enumMap,
		ReverseMap:  reverseMap,
		Description: description,
	}
}

// Query returns the Object used to register fields on the schema's root
// Query type, creating it on first use.
func (s *Schema) Query() *Object {
	if s.queryObj == nil {
		s.queryObj = s.Object("Query", query{})
	}
	return s.queryObj
}

// Mutation returns the Object used to register fields on the schema's root
// Mutation type, creating it on first use. A schema with no mutation fields
// never calls this and the compiled schema has no Mutation type.
func (s *Schema) Mutation() *Object {
	if s.mutationObj == nil {
		s.mutationObj = s.Object("Mutation", mutation{})
	}
	return s.mutationObj
}

// Subscription returns the Object used to register fields on the schema's
// root Subscription type. Every field registered here must resolve to a
// receive-only or bidirectional Go channel; see getField's doc comment in
// build.go.
func (s *Schema) Subscription() *Object {
	if s.subscriptionObj == nil {
		s.subscriptionObj = s.Object("Subscription", subscription{})
	}
	return s.subscriptionObj
}

// Build compiles every registration made on s into a *graphql.Schema. It
// returns a *jerrors.Error of kind schema_build on any inconsistency: no
// Query root, a Go type that is not registered, an unresolvable field
// signature, a union with fewer than two members, and so on.
func (s *Schema) Build() (*graphql.Schema, error) {
	sb := &schemaBuilder{
		types:        map[reflect.Type]graphql.Type{},
		typeCache:    map[reflect.Type]cachedType{},
		objects:      s.objects,
		inputObjects: s.inputObjects,
		enumMappings: s.enums,
	}

	schema := &graphql.Schema{}

	if s.queryObj != nil {
		typ, err := sb.getBareType(reflect.TypeOf(query{}))
		if err != nil {
			return nil, jerrors.Wrap(jerrors.SchemaBuild, err)
		}
		schema.Query = typ
	} else {
		return nil, jerrors.New(jerrors.SchemaBuild, "schema has no Query root: call Schema.Query() and register at least one field")
	}

	if s.mutationObj != nil {
		typ, err := sb.getBareType(reflect.TypeOf(mutation{}))
		if err != nil {
			return nil, jerrors.Wrap(jerrors.SchemaBuild, err)
		}
		schema.Mutation = typ
	}

	if s.subscriptionObj != nil {
		typ, err := sb.getBareType(reflect.TypeOf(subscription{}))
		if err != nil {
			return nil, jerrors.Wrap(jerrors.SchemaBuild, err)
		}
		schema.Subscription = typ
	}

	return schema, nil
}

// MustBuild is Build, panicking on error. It exists for program
// initialization paths (main/init) where a broken schema should fail fast
// and loudly rather than be propagated as an error value nobody checks.
func (s *Schema) MustBuild() *graphql.Schema {
	schema, err := s.Build()
	if err != nil {
		panic(err)
	}
	return schema
}
