package introspection

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/northfield/graphweave/graphql"
	"github.com/northfield/graphweave/schemabuilder"
)

type introspection struct {
	types        map[string]graphql.Type
	query        graphql.Type
	mutation     graphql.Type
	subscription graphql.Type
}

type DirectiveLocation string

// _LOCATION suffixes avoid colliding with TypeKind's own INPUT_OBJECT/SCALAR names.
const (
	QUERY                  DirectiveLocation = "QUERY"
	MUTATION                                 = "MUTATION"
	FIELD                                    = "FIELD"
	FRAGMENT_DEFINITION                      = "FRAGMENT_DEFINITION"
	FRAGMENT_SPREAD                          = "FRAGMENT_SPREAD"
	INLINE_FRAGMENT                          = "INLINE_FRAGMENT"
	SUBSCRIPTION                             = "SUBSCRIPTION"
	SCALAR_LOCATION        DirectiveLocation = "SCALAR"                 // for @specifiedBy
	ARGUMENT_DEFINITION    DirectiveLocation = "ARGUMENT_DEFINITION"    // for input arg deprecation
	INPUT_FIELD_DEFINITION DirectiveLocation = "INPUT_FIELD_DEFINITION" // for input field deprecation
	INPUT_OBJECT_LOCATION  DirectiveLocation = "INPUT_OBJECT"           // for @oneOf input unions
)

type TypeKind string

const (
	SCALAR       TypeKind = "SCALAR"
	OBJECT                = "OBJECT"
	INTERFACE             = "INTERFACE"
	UNION                 = "UNION"
	ENUM                  = "ENUM"
	INPUT_OBJECT          = "INPUT_OBJECT"
	LIST                  = "LIST"
	NON_NULL              = "NON_NULL"
)

type InputValue struct {
	Name         string
	Description  string
	Type         Type
	DefaultValue *string

	IsDeprecated      bool
	DeprecationReason *string `json:"deprecationReason,omitempty"`
}

func (s *introspection) registerInputValue(schema *schemabuilder.Schema) {
	obj := schema.Object("__InputValue", InputValue{})
	obj.FieldFunc("name", func(in InputValue) string {
		return in.Name
	})
	obj.FieldFunc("description", func(in InputValue) string {
		return in.Description
	})
	obj.FieldFunc("type", func(in InputValue) Type {
		return in.Type
	})
	obj.FieldFunc("defaultValue", func(in InputValue) *string {
		return in.DefaultValue
	})
	obj.FieldFunc("isDeprecated", func(in InputValue) bool {
		return in.IsDeprecated
	})
	obj.FieldFunc("deprecationReason", func(in InputValue) *string {
		return in.DeprecationReason
	})
}

type EnumValue struct {
	Name         string
	Description  string
	IsDeprecated bool
	// omitempty-by-convention: nil/empty keeps non-deprecated values from
	// showing up as deprecated in a client's UI.
	DeprecationReason *string
}

func (s *introspection) registerEnumValue(schema *schemabuilder.Schema) {
	obj := schema.Object("__EnumValue", EnumValue{})
	obj.FieldFunc("name", func(in EnumValue) string {
		return in.Name
	})
	obj.FieldFunc("description", func(in EnumValue) string {
		return in.Description
	})
	obj.FieldFunc("isDeprecated", func(in EnumValue) bool {
		return in.IsDeprecated
	})
	obj.FieldFunc("deprecationReason", func(in EnumValue) *string {
		return in.DeprecationReason
	})
}

type Directive struct {
	Name        string
	Description string
	Locations   []DirectiveLocation
	Args        []InputValue
}

func (s *introspection) registerDirective(schema *schemabuilder.Schema) {
	obj := schema.Object("__Directive", Directive{})
	obj.FieldFunc("name", func(in Directive) string {
		return in.Name
	})
	obj.FieldFunc("description", func(in Directive) string {
		return in.Description
	})
	obj.FieldFunc("locations", func(in Directive) []DirectiveLocation {
		return in.Locations
	})
	obj.FieldFunc("args", func(in Directive) []InputValue {
		return in.Args
	})

	schema.Enum(DirectiveLocation("QUERY"), map[string]interface{}{
		"QUERY":               DirectiveLocation("QUERY"),
		"MUTATION":            DirectiveLocation("MUTATION"),
		"FIELD":               DirectiveLocation("FIELD"),
		"FRAGMENT_DEFINITION": DirectiveLocation("FRAGMENT_DEFINITION"),
		"FRAGMENT_SPREAD":     DirectiveLocation("FRAGMENT_SPREAD"),
		"INLINE_FRAGMENT":     DirectiveLocation("INLINE_FRAGMENT"),
		"SUBSCRIPTION":        DirectiveLocation("SUBSCRIPTION"),
		"SCALAR":              DirectiveLocation(SCALAR_LOCATION),
		"ARGUMENT_DEFINITION":    DirectiveLocation(ARGUMENT_DEFINITION),
		"INPUT_FIELD_DEFINITION": DirectiveLocation(INPUT_FIELD_DEFINITION),
		"INPUT_OBJECT":           DirectiveLocation(INPUT_OBJECT_LOCATION), // for @oneOf
	})
}

type Schema struct {
	Types            []Type
	QueryType        *Type
	MutationType     *Type
	SubscriptionType *Type
	Directives       []Directive
}

func (s *introspection) registerSchema(schema *schemabuilder.Schema) {
	obj := schema.Object("__Schema", Schema{})
	obj.FieldFunc("types", func(in Schema) []Type {
		return in.Types
	})
	obj.FieldFunc("queryType", func(in Schema) *Type {
		return in.QueryType
	})
	obj.FieldFunc("mutationType", func(in Schema) *Type {
		return in.MutationType
	})
	obj.FieldFunc("subscriptionType", func(in Schema) *Type {
		return in.SubscriptionType
	})
	obj.FieldFunc("directives", func(in Schema) []Directive {
		return in.Directives
	})

}

type Type struct {
	Inner graphql.Type `json:"-"`
}

// directives returns the type-system directives applied to this __Type.
// Only @oneOf on INPUT_OBJECT is tracked today; @specifiedBy is surfaced
// through the dedicated specifiedByURL field instead.
func (t Type) directives() []Directive {
	switch inner := t.Inner.(type) {
	case *graphql.InputObject:
		if inner.OneOf {
			return []Directive{oneOfDirective}
		}
		return nil
	default:
		return nil
	}
}

func (s *introspection) registerType(schema *schemabuilder.Schema) {
	object := schema.Object("__Type", Type{})
	object.FieldFunc("kind", func(t Type) TypeKind {
		switch t.Inner.(type) {
		case *graphql.Object:
			return OBJECT
		case *graphql.Union:
			return UNION
		case *graphql.Interface:
			return INTERFACE
		case *graphql.Scalar:
			return SCALAR
		case *graphql.Enum:
			return ENUM
		case *graphql.List:
			return LIST
		case *graphql.InputObject:
			return INPUT_OBJECT
		case *graphql.NonNull:
			return NON_NULL
		default:
			return ""
		}
	})

	object.FieldFunc("name", func(t Type) string {
		switch t := t.Inner.(type) {
		case *graphql.Object:
			return t.Name
		case *graphql.Union:
			return t.Name
		case *graphql.Interface:
			return t.Name
		case *graphql.Scalar:
			return t.Type
		case *graphql.Enum:
			return t.Type
		case *graphql.InputObject:
			return t.Name
		default:
			return ""
		}
	})

	object.FieldFunc("description", func(t Type) string {
		switch t := t.Inner.(type) {
		case *graphql.Object:
			return t.Description
		case *graphql.Union:
			return t.Description
		case *graphql.Interface:
			return t.Description
		case *graphql.InputObject:
			return t.Description
		case *graphql.Enum:
			return t.Description
		default:
			return ""
		}
	})

	object.FieldFunc("directives", func(t Type) []Directive {
		return t.directives()
	})

	// isOneOf surfaces the OneOf Input Objects RFC flag directly, alongside
	// the @oneOf directive already exposed by directives() above, so a
	// client can check either without needing to scan the directive list.
	object.FieldFunc("isOneOf", func(t Type) bool {
		input, ok := t.Inner.(*graphql.InputObject)
		return ok && input.OneOf
	})

	object.FieldFunc("interfaces", func(t Type) []Type {
		obj, ok := t.Inner.(*graphql.Object)
		if !ok {
			return nil
		}
		ifaces := make([]graphql.Type, 0, len(obj.Interfaces))
		for _, iface := range obj.Interfaces {
			ifaces = append(ifaces, iface)
		}
		return sortedTypes(ifaces)
	})
	object.FieldFunc("possibleTypes", func(t Type) []Type {
		var members map[string]*graphql.Object
		switch t := t.Inner.(type) {
		case *graphql.Union:
			members = t.Types
		case *graphql.Interface:
			members = t.Types
		default:
			return nil
		}
		objs := make([]graphql.Type, 0, len(members))
		for _, obj := range members {
			objs = append(objs, obj)
		}
		return sortedTypes(objs)
	})

	object.FieldFunc("inputFields", func(t Type) []InputValue {
		var fields []InputValue

		switch t := t.Inner.(type) {
		case *graphql.InputObject:
			for name, f := range t.InputFields {
				isDep := false
				var depReason *string
				if d, ok := t.FieldDeprecations[name]; ok && d != "" {
					isDep = true
					depReason = &d
				}
				fields = append(fields, InputValue{
					Name:              name,
					Type:              Type{Inner: f},
					IsDeprecated:      isDep,
					DeprecationReason: depReason,
				})
			}
		}

		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		return fields
	})

	object.FieldFunc("fields", func(t Type, args struct {
		IncludeDeprecated *bool
	}) []field {
		var graphqlFields map[string]*graphql.Field
		switch t := t.Inner.(type) {
		case *graphql.Object:
			graphqlFields = t.Fields
		case *graphql.Interface:
			graphqlFields = t.Fields
		}
		return fieldsFrom(graphqlFields)
	})

	object.FieldFunc("ofType", func(t Type) *Type {
		switch t := t.Inner.(type) {
		case *graphql.List:
			return &Type{Inner: t.Type}
		case *graphql.NonNull:
			return &Type{Inner: t.Type}
		default:
			return nil
		}
	})

	object.FieldFunc("enumValues", func(t Type, args struct {
		IncludeDeprecated *bool
	}) []EnumValue {

		switch t := t.Inner.(type) {
		case *graphql.Enum:
			var enumVals []EnumValue
			for k, v := range t.ReverseMap {
				val := fmt.Sprintf("%v", k)
				enumVals = append(enumVals,
					EnumValue{Name: v, Description: val, IsDeprecated: false, DeprecationReason: nil})
			}
			sort.Slice(enumVals, func(i, j int) bool { return enumVals[i].Name < enumVals[j].Name })
			return enumVals
		}
		return nil
	})

	object.FieldFunc("specifiedByURL", func(t Type) *string {
		switch t := t.Inner.(type) {
		case *graphql.Scalar:
			if t.SpecifiedByURL != "" {
				return &t.SpecifiedByURL
			}
			return nil
		default:
			return nil
		}
	})
}

type field struct {
	Name              string
	Description       string
	Args              []InputValue
	Type              Type
	IsDeprecated      bool
	DeprecationReason *string `json:"deprecationReason,omitempty"`
}

func (s *introspection) registerField(schema *schemabuilder.Schema) {
	obj := schema.Object("__Field", field{})
	obj.FieldFunc("name", func(in field) string {
		return in.Name
	})
	obj.FieldFunc("description", func(in field) string {
		return in.Description
	})
	obj.FieldFunc("type", func(in field) Type {
		return in.Type
	})
	obj.FieldFunc("args", func(in field) []InputValue {
		return in.Args
	})
	obj.FieldFunc("isDeprecated", func(in field) bool {
		return in.IsDeprecated
	})
	obj.FieldFunc("deprecationReason", func(in field) *string {
		return in.DeprecationReason
	})
}

// sortedTypes wraps each graphql.Type in the introspection Type envelope,
// sorted by its stringified form so interfaces/possibleTypes lists are
// deterministic across builds.
func sortedTypes(types []graphql.Type) []Type {
	out := make([]Type, 0, len(types))
	for _, typ := range types {
		out = append(out, Type{Inner: typ})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Inner.String() < out[j].Inner.String() })
	return out
}

// argsFrom converts a compiled field's coerced-argument input fields into
// sorted introspection InputValues. Arguments never carry deprecation
// themselves today (only the fields and input fields that declare them do).
func argsFrom(graphqlArgs map[string]graphql.Type) []InputValue {
	var args []InputValue
	for name, a := range graphqlArgs {
		args = append(args, InputValue{
			Name: name,
			Type: Type{Inner: a},
		})
	}
	sort.Slice(args, func(i, j int) bool { return args[i].Name < args[j].Name })
	return args
}

// fieldsFrom converts a compiled Object's or Interface's field map into
// sorted introspection fields, shared by both kinds since graphql.Object and
// graphql.Interface expose the same Fields shape.
func fieldsFrom(graphqlFields map[string]*graphql.Field) []field {
	var fields []field
	for name, f := range graphqlFields {
		fields = append(fields, field{
			Name:              name,
			Description:       f.Description,
			Type:              Type{Inner: f.Type},
			Args:              argsFrom(f.Args),
			IsDeprecated:      f.IsDeprecated,
			DeprecationReason: f.DeprecationReason,
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// visitNamed records a named type under key in types and reports whether it
// was newly added (false means it was already visited, so the caller should
// not descend into it again).
func visitNamed(key string, typ graphql.Type, types map[string]graphql.Type) bool {
	if _, ok := types[key]; ok {
		return false
	}
	types[key] = typ
	return true
}

// collectFieldTypes walks a field map's result and argument types, shared by
// Object and Interface since both expose the same Fields shape.
func collectFieldTypes(fields map[string]*graphql.Field, types map[string]graphql.Type) {
	for _, f := range fields {
		collectTypes(f.Type, types)
		for _, arg := range f.Args {
			collectTypes(arg, types)
		}
	}
}

// collectTypes walks typ and every type reachable from it (field results,
// arguments, union/interface members, input fields, list/non-null wrappers),
// recording each named type once under types.
func collectTypes(typ graphql.Type, types map[string]graphql.Type) {
	switch typ := typ.(type) {
	case *graphql.Object:
		if !visitNamed(typ.Name, typ, types) {
			return
		}
		collectFieldTypes(typ.Fields, types)

	case *graphql.Union:
		if !visitNamed(typ.Name, typ, types) {
			return
		}
		for _, member := range typ.Types {
			collectTypes(member, types)
		}

	case *graphql.Interface:
		if !visitNamed(typ.Name, typ, types) {
			return
		}
		collectFieldTypes(typ.Fields, types)
		for _, object := range typ.Types {
			collectTypes(object, types)
		}

	case *graphql.InputObject:
		if !visitNamed(typ.Name, typ, types) {
			return
		}
		for _, field := range typ.InputFields {
			collectTypes(field, types)
		}

	case *graphql.Scalar:
		visitNamed(typ.Type, typ, types)

	case *graphql.Enum:
		visitNamed(typ.Type, typ, types)

	case *graphql.List:
		collectTypes(typ.Type, types)

	case *graphql.NonNull:
		collectTypes(typ.Type, types)
	}
}

var includeDirective = Directive{
	Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
	Locations: []DirectiveLocation{
		FIELD,
		FRAGMENT_SPREAD,
		INLINE_FRAGMENT,
	},
	Name: "include",
	Args: []InputValue{
		InputValue{
			Name:        "if",
			Type:        Type{Inner: &graphql.Scalar{Type: "Boolean"}},
			Description: "Included when true.",
		},
	},
}

var skipDirective = Directive{
	Description: "Directs the executor to skip this field or fragment only when the `if` argument is true.",
	Locations: []DirectiveLocation{
		FIELD,
		FRAGMENT_SPREAD,
		INLINE_FRAGMENT,
	},
	Name: "skip",
	Args: []InputValue{
		InputValue{
			Name:        "if",
			Type:        Type{Inner: &graphql.Scalar{Type: "Boolean"}},
			Description: "Skipped when true.",
		},
	},
}

// specifiedByDirective defines the built-in @specifiedBy directive for SCALAR types.
var specifiedByDirective = Directive{
	Description: "Exposes a URL that specifies the behaviour of this scalar.",
	Locations: []DirectiveLocation{
		SCALAR_LOCATION,
	},
	Name: "specifiedBy",
	Args: []InputValue{
		InputValue{
			Name:        "url",
			Type:        Type{Inner: &graphql.Scalar{Type: "String"}},
			Description: "The URL that specifies the behaviour of this scalar.",
		},
	},
}

// deprecatedDirective defines the built-in @deprecated directive, extended to
// ARGUMENT_DEFINITION/INPUT_FIELD_DEFINITION alongside FIELD.
var deprecatedDirective = Directive{
	Description: "Marks an element of a GraphQL schema as no longer supported.",
	Locations: []DirectiveLocation{
		FIELD,
		ARGUMENT_DEFINITION,
		INPUT_FIELD_DEFINITION,
	},
	Name: "deprecated",
	Args: []InputValue{
		InputValue{
			Name:        "reason",
			Type:        Type{Inner: &graphql.Scalar{Type: "String"}},
			Description:       "Explains why this element was deprecated, usually also including a suggestion for how to access supported similar data.",
			DefaultValue:      func() *string { s := "No longer supported"; return &s }(),
			IsDeprecated:      false,
			DeprecationReason: nil,
		},
	},
}

// oneOfDirective defines the built-in @oneOf directive for INPUT_OBJECT types.
var oneOfDirective = Directive{
	Description: "Indicates that an Input Object is a OneOf Input Object (and thus requires exactly one field to be set in a query or mutation).",
	Locations: []DirectiveLocation{
		INPUT_OBJECT_LOCATION,
	},
	Name: "oneOf",
	Args: []InputValue{},
}

func (s *introspection) registerQuery(schema *schemabuilder.Schema) {
	object := schema.Query()

	object.FieldFunc("__schema", func() *Schema {
		var types []Type

		for _, typ := range s.types {
			types = append(types, Type{Inner: typ})
		}
		sort.Slice(types, func(i, j int) bool { return types[i].Inner.String() < types[j].Inner.String() })

		return &Schema{
			Types:            types,
			QueryType:        &Type{Inner: s.query},
			MutationType:     &Type{Inner: s.mutation},
			SubscriptionType: &Type{Inner: s.subscription},
			// include @specifiedBy, @deprecated (input values), and @oneOf (input unions/INPUT_OBJECT)
			// in directives list (spec-compliant for Sept 2025). Custom scalars w/ URL,
			// deprecated inputs/args, and oneOf inputs reflect in introspection.
			Directives: []Directive{includeDirective, skipDirective, specifiedByDirective, deprecatedDirective, oneOfDirective},
		}
	})

	object.FieldFunc("__type", func(args struct{ Name string }) *Type {
		if typ, ok := s.types[args.Name]; ok {
			return &Type{Inner: typ}
		}
		return nil
	})
}

func (s *introspection) registerMutation(schema *schemabuilder.Schema) {
	schema.Mutation()
}

func (s *introspection) registerSubscription(schema *schemabuilder.Schema) {
	schema.Subscription()
}

func (s *introspection) schema() *graphql.Schema {
	schema := schemabuilder.NewSchema()
	s.registerDirective(schema)
	s.registerEnumValue(schema)
	s.registerField(schema)
	s.registerInputValue(schema)
	s.registerSubscription(schema)
	s.registerMutation(schema)
	s.registerQuery(schema)
	s.registerSchema(schema)
	s.registerType(schema)

	return schema.MustBuild()
}

// AddIntrospectionToSchema adds the introspection fields to existing schema
func AddIntrospectionToSchema(schema *graphql.Schema) {
	types := make(map[string]graphql.Type)
	collectTypes(schema.Query, types)
	collectTypes(schema.Mutation, types)
	collectTypes(schema.Subscription, types)
	is := &introspection{
		types:        types,
		query:        schema.Query,
		mutation:     schema.Mutation,
		subscription: schema.Subscription,
	}
	isSchema := is.schema()

	query := schema.Query.(*graphql.Object)

	isQuery := isSchema.Query.(*graphql.Object)
	for k, v := range query.Fields {
		isQuery.Fields[k] = v
	}

	schema.Query = isQuery
}

// ComputeSchemaJSON returns the result of executing a GraphQL introspection
// query.
func ComputeSchemaJSON(schemaBuilderSchema schemabuilder.Schema) ([]byte, error) {
	schema := schemaBuilderSchema.MustBuild()
	AddIntrospectionToSchema(schema)

	query, err := graphql.Parse(IntrospectionQuery, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	if err := graphql.ValidateQuery(context.Background(), schema.Query, query.SelectionSet); err != nil {
		return nil, err
	}

	executor := graphql.Executor{}
	value, err := executor.Execute(context.Background(), schema.Query, nil, query)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(value, "", "  ")
}
