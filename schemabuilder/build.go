package schemabuilder

import (
	"context"
	"fmt"
	"reflect"

	"github.com/northfield/graphweave/graphql"
	"github.com/northfield/graphweave/jerrors"
)

// schemaBuilder holds the reflect.Type-keyed caches that drive compilation
// of registered Go types into graphql.Type values. One schemaBuilder is
// built fresh per Schema.Build call and discarded once the graphql.Schema
// it produces is returned; nothing about it is safe to reuse across builds.
type schemaBuilder struct {
	// types memoizes the compiled "bare" (not NonNull-wrapped) graphql.Type
	// for every Go type seen so far, keyed by its non-pointer reflect.Type.
	// Populating an Object/Interface/Union's cache entry before compiling
	// its fields is what lets self-referencing or mutually-referencing
	// types terminate instead of recursing forever.
	types map[reflect.Type]graphql.Type

	// typeCache records, keyed the same way, the input objects that
	// generateArgParser compiles off an args struct. Nothing reads it back.
	typeCache map[reflect.Type]cachedType

	objects      map[reflect.Type]*Object
	inputObjects map[reflect.Type]*InputObject
	enumMappings map[reflect.Type]*EnumMapping
}

var interfaceMarkerType = reflect.TypeOf(Interface{})
var awaitableType = reflect.TypeOf((*graphql.Awaitable)(nil)).Elem()

// hasMarkerEmbedded reports whether typ anonymously embeds a field of type
// marker, the convention schemabuilder.Union and schemabuilder.Interface
// both rely on to flag a struct's role without requiring a separate
// registration call.
func hasMarkerEmbedded(typ reflect.Type, marker reflect.Type) bool {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous && field.Type == marker {
			return true
		}
	}
	return false
}

// getType compiles t into the graphql.Type a Go value of that shape should
// be exposed as: a pointer type is nullable, anything else is implicitly
// non-null, matching the convention used throughout the object/input
// compilers ("union of inner type with null" = *T).
func (sb *schemaBuilder) getType(t reflect.Type) (graphql.Type, error) {
	if t.Kind() == reflect.Ptr {
		return sb.getBareType(t.Elem())
	}
	bare, err := sb.getBareType(t)
	if err != nil {
		return nil, err
	}
	if _, ok := bare.(*graphql.NonNull); ok {
		return bare, nil
	}
	return &graphql.NonNull{Type: bare}, nil
}

// getBareType compiles t into its graphql.Type ignoring nullability, caching
// the result so repeated or cyclic references resolve to the same value.
func (sb *schemaBuilder) getBareType(t reflect.Type) (graphql.Type, error) {
	if cached, ok := sb.types[t]; ok {
		return cached, nil
	}

	if sb.enumMappings[t] != nil {
		enum := sb.buildEnumType(t)
		sb.types[t] = enum
		return enum, nil
	}

	if isScalarType(t) {
		_, gqlType, _ := getScalarArgParser(t)
		sb.types[t] = gqlType
		return gqlType, nil
	}

	switch t.Kind() {
	case reflect.Slice:
		elem, err := sb.getType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &graphql.List{Type: elem}, nil

	case reflect.Interface:
		// A FieldFunc or struct field may declare its return/value type as a
		// plain Go interface (e.g. Character) instead of the registered
		// marker struct (characterMarker), so the resolver can return any
		// concrete implementer polymorphically. Find the registered
		// interface whose known member objects satisfy t.
		for markerType, markerObj := range sb.objects {
			if !hasMarkerEmbedded(markerType, interfaceMarkerType) {
				continue
			}
			implemented := false
			for memberType := range sb.objects {
				if memberType == markerType {
					continue
				}
				if hasMarkerEmbedded(memberType, markerType) && reflect.PtrTo(memberType).Implements(t) {
					implemented = true
					break
				}
			}
			if !implemented {
				continue
			}
			iface, err := sb.buildInterfaceType(markerObj)
			if err != nil {
				return nil, err
			}
			sb.types[t] = iface
			return iface, nil
		}
		return nil, jerrors.New(jerrors.SchemaBuild, "%s: no registered interface has a member implementing it", t.String())

	case reflect.Struct:
		if hasMarkerEmbedded(t, unionType) {
			union, err := sb.buildUnionType(t)
			if err != nil {
				return nil, err
			}
			return union, nil
		}
		if hasMarkerEmbedded(t, interfaceMarkerType) {
			obj, ok := sb.objects[t]
			if !ok {
				return nil, jerrors.New(jerrors.SchemaBuild, "%s embeds schemabuilder.Interface but was never registered via Schema.Object", t.Name())
			}
			iface, err := sb.buildInterfaceType(obj)
			if err != nil {
				return nil, err
			}
			return iface, nil
		}
		obj, ok := sb.objects[t]
		if !ok {
			return nil, jerrors.New(jerrors.SchemaBuild, "%s is not registered as an object, input object, enum, union, or interface", t.String())
		}
		object, err := sb.buildObjectType(obj)
		if err != nil {
			return nil, err
		}
		return object, nil

	default:
		return nil, jerrors.New(jerrors.SchemaBuild, "%s cannot be represented as a graphql type; register it with Schema.Object, Schema.InputObject, or Schema.Enum", t.String())
	}
}

func (sb *schemaBuilder) buildEnumType(t reflect.Type) *graphql.Enum {
	mapping := sb.enumMappings[t]
	values := make([]string, 0, len(mapping.Map))
	for name := range mapping.Map {
		values = append(values, name)
	}
	return &graphql.Enum{
		Type:        t.Name(),
		Description: mapping.Description,
		Values:      values,
		ReverseMap:  mapping.ReverseMap,
	}
}

// buildUnionType compiles a struct embedding schemabuilder.Union, whose
// other anonymous fields are pointers to already-registered objects, into
// a graphql.Union. Member order is not preserved (graphql.Union.Types is a
// map), matching the Union's documented one-hot-struct contract.
func (sb *schemaBuilder) buildUnionType(t reflect.Type) (*graphql.Union, error) {
	union := &graphql.Union{Name: t.Name(), Types: map[string]*graphql.Object{}}
	sb.types[t] = union

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type == unionType {
			continue
		}
		if !field.Anonymous || field.Type.Kind() != reflect.Ptr || field.Type.Elem().Kind() != reflect.Struct {
			return nil, jerrors.New(jerrors.SchemaBuild, "union %s: field %s must be an anonymous pointer to a registered object", t.Name(), field.Name)
		}
		member, err := sb.getBareType(field.Type.Elem())
		if err != nil {
			return nil, jerrors.New(jerrors.SchemaBuild, "union %s: %s", t.Name(), err)
		}
		obj, ok := member.(*graphql.Object)
		if !ok {
			return nil, jerrors.New(jerrors.SchemaBuild, "union %s: member %s is not an object type", t.Name(), field.Type.Elem().Name())
		}
		union.Types[obj.Name] = obj
	}

	if len(union.Types) < 2 {
		return nil, jerrors.New(jerrors.SchemaBuild, "union %s must have at least two member types", t.Name())
	}
	return union, nil
}

// buildInterfaceType compiles the Object registered for an
// schemabuilder.Interface marker type into a graphql.Interface. Membership
// is symmetric with Union: a concrete object declares itself an
// implementation by anonymously embedding the interface's own marker
// struct, the same way a union's member fields declare themselves by being
// anonymous pointers to the member object's type.
func (sb *schemaBuilder) buildInterfaceType(obj *Object) (*graphql.Interface, error) {
	markerType := reflect.TypeOf(obj.Type)
	if markerType.Kind() == reflect.Ptr {
		markerType = markerType.Elem()
	}

	iface := &graphql.Interface{
		Name:        obj.Name,
		Description: obj.Description,
		Types:       map[string]*graphql.Object{},
		Fields:      map[string]*graphql.Field{},
	}
	sb.types[markerType] = iface

	for name, m := range obj.Methods {
		field, err := sb.getField(obj, m)
		if err != nil {
			return nil, jerrors.New(jerrors.SchemaBuild, "%s.%s: %s", obj.Name, name, err)
		}
		iface.Fields[name] = field
	}

	for goType, memberObj := range sb.objects {
		if goType == markerType {
			continue
		}
		if !hasMarkerEmbedded(goType, markerType) {
			continue
		}
		compiled, err := sb.getBareType(goType)
		if err != nil {
			return nil, jerrors.New(jerrors.SchemaBuild, "interface %s: implementor %s: %s", obj.Name, memberObj.Name, err)
		}
		concrete, ok := compiled.(*graphql.Object)
		if !ok {
			continue
		}
		iface.Types[concrete.Name] = concrete
		if concrete.Interfaces == nil {
			concrete.Interfaces = map[string]*graphql.Interface{}
		}
		concrete.Interfaces[iface.Name] = iface
	}

	return iface, nil
}

// buildObjectType compiles a registered Object into a graphql.Object: every
// exported struct field not overridden by a FieldFunc gets a generated
// attribute-reading field, and every FieldFunc becomes a compiled resolver
// via getField.
func (sb *schemaBuilder) buildObjectType(obj *Object) (*graphql.Object, error) {
	t := reflect.TypeOf(obj.Type)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	result := &graphql.Object{
		Name:        obj.Name,
		Description: obj.Description,
		Fields:      map[string]*graphql.Field{},
		GoType:      t,
	}
	sb.types[t] = result

	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				if field.Type == unionType || field.Type == interfaceMarkerType || field.Type == oneOfInputType {
					continue
				}
				// A struct embedding schemabuilder.Interface anonymously
				// (e.g. a "characterMarker" embedded into Human/Droid)
				// declares interface membership and carries no field of
				// its own; see buildInterfaceType.
				if field.Type.Kind() == reflect.Struct && hasMarkerEmbedded(field.Type, interfaceMarkerType) {
					continue
				}
			}

			info, err := parseGraphQLFieldInfo(field)
			if err != nil {
				return nil, jerrors.New(jerrors.SchemaBuild, "%s.%s: %s", obj.Name, field.Name, err)
			}
			if info.Skipped {
				continue
			}
			if _, ok := obj.Methods[info.Name]; ok {
				// An explicit FieldFunc takes precedence over the
				// generated attribute reader for the same name.
				continue
			}

			fieldType, err := sb.getType(field.Type)
			if err != nil {
				return nil, jerrors.New(jerrors.SchemaBuild, "%s.%s: %s", obj.Name, info.Name, err)
			}

			index := field.Index
			var deprecationReason *string
			if info.DeprecationReason != "" {
				reason := info.DeprecationReason
				deprecationReason = &reason
			}

			result.Fields[info.Name] = &graphql.Field{
				Type:        fieldType,
				Description: info.Description,
				Resolve: func(ctx context.Context, source, args interface{}, sel *graphql.SelectionSet) (interface{}, error) {
					v := reflect.ValueOf(source)
					for v.Kind() == reflect.Ptr {
						if v.IsNil() {
							return nil, nil
						}
						v = v.Elem()
					}
					return v.FieldByIndex(index).Interface(), nil
				},
				IsDeprecated:      info.DeprecationReason != "",
				DeprecationReason: deprecationReason,
			}
		}
	}

	for name, m := range obj.Methods {
		field, err := sb.getField(obj, m)
		if err != nil {
			return nil, jerrors.New(jerrors.SchemaBuild, "%s.%s: %s", obj.Name, name, err)
		}
		result.Fields[name] = field
	}

	if obj.key != "" {
		keyField, ok := result.Fields[obj.key]
		if !ok {
			return nil, jerrors.New(jerrors.SchemaBuild, "%s: key field %q was not registered", obj.Name, obj.key)
		}
		result.KeyField = keyField
	}

	return result, nil
}

// adaptSource coerces a resolved source value (always handed to Resolve as
// the object's own Go value, usually a pointer) to whichever of T/*T the
// registered field function actually declared as its receiver parameter.
func adaptSource(v reflect.Value, want reflect.Type) reflect.Value {
	for v.Kind() == reflect.Ptr && want.Kind() != reflect.Ptr {
		if v.IsNil() {
			return reflect.Zero(want)
		}
		v = v.Elem()
	}
	if want.Kind() == reflect.Ptr && v.Kind() != reflect.Ptr {
		ptr := reflect.New(want.Elem())
		ptr.Elem().Set(v)
		v = ptr
	}
	return v
}

// getField compiles a single FieldFunc registration into a *graphql.Field.
// It classifies the function's parameters positionally
// ([ctx] [source] [args]) and its results ([value] [error] or any prefix of
// that), then classifies the result itself as synchronous, asynchronous
// (*graphql.Future[T]), or streaming (a receive-only or bidirectional
// channel, legal only on a Subscription field) purely from its static Go
// type, since a plain Go
// function is never implicitly asynchronous.
func (sb *schemaBuilder) getField(obj *Object, m *method) (*graphql.Field, error) {
	fnVal := reflect.ValueOf(m.Fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("expected a function, got %s", fnType)
	}

	type marker int
	const (
		markerContext marker = iota
		markerLookahead
	)

	pos := 0
	var markers []marker
	hasContext := false
	hasLookahead := false
markerLoop:
	for pos < fnType.NumIn() {
		switch fnType.In(pos) {
		case contextType:
			if hasContext {
				break markerLoop
			}
			hasContext = true
			markers = append(markers, markerContext)
			pos++
		case selectionSetType:
			if hasLookahead {
				break markerLoop
			}
			hasLookahead = true
			markers = append(markers, markerLookahead)
			pos++
		default:
			break markerLoop
		}
	}

	hasSource := false
	var sourceParamType reflect.Type
	if fnType.NumIn() > pos {
		param := fnType.In(pos)
		base := param
		if base.Kind() == reflect.Ptr {
			base = base.Elem()
		}
		objType := reflect.TypeOf(obj.Type)
		if objType.Kind() == reflect.Ptr {
			objType = objType.Elem()
		}
		if base == objType {
			hasSource = true
			sourceParamType = param
			pos++
		}
	}

	hasArgs := false
	var argsParamType reflect.Type
	var argParse *argParser
	var argGraphType graphql.Type
	if fnType.NumIn() > pos {
		hasArgs = true
		argsParamType = fnType.In(pos)
		pos++

		parser, gqlType, err := sb.makeInputObjectParser(argsParamType)
		if err != nil {
			return nil, fmt.Errorf("arguments: %w", err)
		}
		argParse = parser
		argGraphType = gqlType
	}

	if pos != fnType.NumIn() {
		return nil, fmt.Errorf("unexpected extra parameter at position %d; expected [context.Context] [*graphql.Lookahead] [*%s] [args struct]", pos, obj.Name)
	}

	numOut := fnType.NumOut()
	hasErr := numOut > 0 && fnType.Out(numOut-1) == errType
	numResults := numOut
	if hasErr {
		numResults--
	}
	if numResults > 1 {
		return nil, fmt.Errorf("must return at most one value plus an optional error")
	}
	if numResults == 0 {
		return nil, fmt.Errorf("must return a value")
	}
	retType := fnType.Out(0)

	field := &graphql.Field{
		Description:  m.Description,
		IsDeprecated: m.IsDeprecated,
	}
	if m.IsDeprecated {
		reason := m.DeprecationReason
		field.DeprecationReason = &reason
	}
	if hasArgs {
		field.Args = argGraphType.(*graphql.InputObject).InputFields
		field.ParseArguments = func(jsonArgs interface{}) (interface{}, error) {
			dest := reflect.New(argsParamType).Elem()
			if err := argParse.FromJSON(jsonArgs, dest); err != nil {
				return nil, jerrors.Wrap(jerrors.ArgumentCoercion, err)
			}
			return dest.Interface(), nil
		}
	}

	buildArgs := func(ctx context.Context, source, args interface{}, sel *graphql.SelectionSet) []reflect.Value {
		var in []reflect.Value
		for _, mk := range markers {
			switch mk {
			case markerContext:
				in = append(in, reflect.ValueOf(ctx))
			case markerLookahead:
				in = append(in, reflect.ValueOf(graphql.NewLookahead(sel)))
			}
		}
		if hasSource {
			in = append(in, adaptSource(reflect.ValueOf(source), sourceParamType))
		}
		if hasArgs {
			if args == nil {
				in = append(in, reflect.Zero(argsParamType))
			} else {
				in = append(in, reflect.ValueOf(args))
			}
		}
		return in
	}

	call := func(ctx context.Context, source, args interface{}, sel *graphql.SelectionSet) (reflect.Value, error) {
		if hasArgs {
			if err := validateArgs(args); err != nil {
				return reflect.Value{}, err
			}
		}
		out := fnVal.Call(buildArgs(ctx, source, args, sel))
		if hasErr {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return reflect.Value{}, jerrors.Wrap(jerrors.ResolverException, errVal.Interface().(error))
			}
		}
		return out[0], nil
	}

	switch {
	case retType.Kind() == reflect.Chan:
		if reflect.TypeOf(obj.Type) != reflect.TypeOf(subscription{}) {
			return nil, fmt.Errorf("a channel return type is only allowed on a Subscription field")
		}
		if retType.ChanDir() == reflect.SendDir {
			return nil, fmt.Errorf("a subscription field's channel must be receive-only or bidirectional")
		}
		fieldType, err := sb.getType(retType.Elem())
		if err != nil {
			return nil, err
		}
		field.Type = fieldType
		field.Stream = true
		field.Resolve = func(ctx context.Context, source, args interface{}, sel *graphql.SelectionSet) (interface{}, error) {
			v, err := call(ctx, source, args, sel)
			if err != nil {
				return nil, err
			}
			return v.Interface(), nil
		}

	case retType.Implements(awaitableType):
		valField, ok := retType.Elem().FieldByName("val")
		if !ok {
			return nil, fmt.Errorf("async return type %s has no inner value", retType)
		}
		fieldType, err := sb.getType(valField.Type)
		if err != nil {
			return nil, err
		}
		field.Type = fieldType
		field.LazyExecution = true
		field.LazyResolver = func(ctx context.Context, fun interface{}) (interface{}, error) {
			awaitable, ok := fun.(graphql.Awaitable)
			if !ok {
				return fun, nil
			}
			value, err := awaitable.Await(ctx)
			if err != nil {
				return nil, jerrors.Wrap(jerrors.ResolverException, err)
			}
			return value, nil
		}
		field.Resolve = func(ctx context.Context, source, args interface{}, sel *graphql.SelectionSet) (interface{}, error) {
			v, err := call(ctx, source, args, sel)
			if err != nil {
				return nil, err
			}
			return v.Interface(), nil
		}

	default:
		fieldType, err := sb.getType(retType)
		if err != nil {
			return nil, err
		}
		field.Type = fieldType
		field.Resolve = func(ctx context.Context, source, args interface{}, sel *graphql.SelectionSet) (interface{}, error) {
			v, err := call(ctx, source, args, sel)
			if err != nil {
				return nil, err
			}
			return v.Interface(), nil
		}
	}

	return field, nil
}
