package graphql

import (
	"context"
	"reflect"

	"github.com/northfield/graphweave/jerrors"
)

// Executor walks a validated Query's selection set against a root value,
// calling each field's Resolver and assembling the JSON-shaped response
// tree. It holds no state between calls, so one Executor can be reused (or
// zero-valued, as introspection.go does) across concurrent requests.
type Executor struct{}

// Execute resolves query against root, starting from source (nil for the
// top-level Query/Mutation root).
func (e *Executor) Execute(ctx context.Context, typ Type, source interface{}, query *Query) (interface{}, error) {
	return e.executeSelectionSet(ctx, typ, source, query.SelectionSet, nil)
}

// pendingField is a field whose Resolver has been called but whose
// LazyResolver (the future-unwrapping step) has not yet run. Collecting a
// whole selection set's pending fields before waiting on any of them is
// what lets independent async fields in the same `{ ... }` block run
// concurrently instead of serially.
type pendingField struct {
	key    string
	sel    *Selection
	field  *Field
	future interface{}
}

func (e *Executor) executeSelectionSet(ctx context.Context, typ Type, source interface{}, ss *SelectionSet, path []interface{}) (interface{}, error) {
	merged := flattenSelections(typ, ss)

	result := newOrderedMap()
	var pending []pendingField

	for _, entry := range merged {
		sel := entry.sel
		key := sel.Alias
		if key == "" {
			key = sel.Name
		}

		if sel.Name == "__typename" {
			result.set(key, typeNameOf(typ, source))
			continue
		}

		field := entry.field
		args, err := coerceArgs(field, sel)
		if err != nil {
			return nil, jerrors.Wrap(jerrors.ArgumentCoercion, err).WithPath(append(path, key)...)
		}

		value, err := field.Resolve(ctx, source, args, sel.SelectionSet)
		if err != nil {
			return nil, jerrors.ConvertError(err).WithPath(append(path, key)...)
		}

		if field.LazyExecution {
			pending = append(pending, pendingField{key: key, sel: sel, field: field, future: value})
			continue
		}

		out, err := e.resolveValue(ctx, field.Type, value, sel.SelectionSet, append(path, key))
		if err != nil {
			return nil, err
		}
		result.set(key, out)
	}

	for _, p := range pending {
		resolver := p.field.LazyResolver
		if resolver == nil {
			resolver = waitOnFuture
		}
		value, err := resolver(ctx, p.future)
		if err != nil {
			return nil, jerrors.ConvertError(err).WithPath(append(path, p.key)...)
		}
		out, err := e.resolveValue(ctx, p.field.Type, value, p.sel.SelectionSet, append(path, p.key))
		if err != nil {
			return nil, err
		}
		result.set(p.key, out)
	}

	return result, nil
}

type mergedSelection struct {
	sel   *Selection
	field *Field
}

// flattenSelections walks fragment spreads and inline fragments (both
// modeled as FragmentSpread with a possibly-empty type condition) and
// returns the flat, ordered list of fields that apply to typ, skipping
// branches whose type condition does not match and branches disabled by
// @skip/@include.
func flattenSelections(typ Type, ss *SelectionSet) []mergedSelection {
	if ss == nil {
		return nil
	}
	fields, _ := fieldsOf(typ)

	var out []mergedSelection
	for _, sel := range ss.Selections {
		if !directivesAllow(sel.Directives) {
			continue
		}
		if sel.Name == "__typename" {
			out = append(out, mergedSelection{sel: sel})
			continue
		}
		field, ok := fields[sel.Name]
		if !ok {
			continue
		}
		out = append(out, mergedSelection{sel: sel, field: field})
	}

	for _, spread := range ss.Fragments {
		if !directivesAllow(spread.Directives) {
			continue
		}
		def := spread.Fragment
		if def == nil || def.SelectionSet == nil {
			continue
		}
		target := typ
		if def.On != "" {
			member, err := typeByName(typ, def.On)
			if err != nil {
				continue
			}
			target = member
		}
		out = append(out, flattenSelections(target, def.SelectionSet)...)
	}

	return out
}

func directivesAllow(directives []*Directive) bool {
	for _, d := range directives {
		args, _ := d.Args.(map[string]interface{})
		want, _ := args["if"].(bool)
		switch d.Name {
		case "skip":
			if want {
				return false
			}
		case "include":
			if !want {
				return false
			}
		}
	}
	return true
}

func coerceArgs(field *Field, sel *Selection) (interface{}, error) {
	if field.ParseArguments == nil {
		return nil, nil
	}
	if sel.Args == nil {
		sel.Args = map[string]interface{}{}
	}
	if !sel.parsed {
		parsed, err := field.ParseArguments(sel.Args)
		if err != nil {
			return nil, err
		}
		sel.Args = parsed
		sel.parsed = true
	}
	return sel.Args, nil
}

// resolveValue walks typ's wrapper chain (NonNull/List) around a resolved
// Go value, recursing into object selection sets and leaving scalar/enum
// leaves for serializeLeaf.
func (e *Executor) resolveValue(ctx context.Context, typ Type, value interface{}, ss *SelectionSet, path []interface{}) (interface{}, error) {
	switch t := typ.(type) {
	case *NonNull:
		if isNil(value) {
			return nil, jerrors.New(jerrors.TypeMismatch, "non-null field at %v resolved to null", path)
		}
		return e.resolveValue(ctx, t.Type, value, ss, path)

	case *List:
		if isNil(value) {
			return nil, nil
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, jerrors.New(jerrors.TypeMismatch, "expected a list at %v, got %T", path, value)
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := e.resolveValue(ctx, t.Type, rv.Index(i).Interface(), ss, append(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil

	case *Object:
		if isNil(value) {
			return nil, nil
		}
		return e.executeSelectionSet(ctx, t, value, ss, path)

	case *Interface, *Union:
		if isNil(value) {
			return nil, nil
		}
		concrete, err := resolveConcreteType(t, value)
		if err != nil {
			return nil, err
		}
		if _, ok := t.(*Union); ok {
			// Member resolvers take the set member, not the one-hot wrapper.
			rv := reflect.Indirect(reflect.ValueOf(value))
			for i := 0; i < rv.NumField(); i++ {
				if f := rv.Field(i); f.Kind() == reflect.Ptr && !f.IsNil() && f.Type().Elem() == concrete.GoType {
					value = f.Interface()
					break
				}
			}
		}
		return e.executeSelectionSet(ctx, concrete, value, ss, path)

	case *Enum:
		name, ok := t.ReverseMap[normalizeEnumKey(value)]
		if !ok {
			return nil, jerrors.New(jerrors.TypeMismatch, "value %v is not a member of enum %s", value, t.Type)
		}
		return name, nil

	case *Scalar:
		if t.Unwrapper != nil {
			return t.Unwrapper(value)
		}
		return value, nil

	default:
		return value, nil
	}
}

func normalizeEnumKey(value interface{}) interface{} {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return value
}

func resolveConcreteType(typ Type, value interface{}) (*Object, error) {
	if union, ok := typ.(*Union); ok {
		return resolveUnionMember(union, value)
	}

	var members map[string]*Object
	if iface, ok := typ.(*Interface); ok {
		members = iface.Types
	}

	goType := reflect.TypeOf(value)
	for goType != nil && goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}

	for _, member := range members {
		memberType := member.GoType
		for memberType != nil && memberType.Kind() == reflect.Ptr {
			memberType = memberType.Elem()
		}
		if memberType == goType {
			return member, nil
		}
	}
	return nil, jerrors.New(jerrors.AbstractTypeResolution, "no type in %s matches resolved value of type %s", typ.String(), goType)
}

// resolveUnionMember picks the member of a one-hot union wrapper struct: the
// resolver returns the union's generated struct with exactly one of its
// anonymous member-pointer fields set, and this walks those fields to find
// which one is non-nil.
func resolveUnionMember(union *Union, value interface{}) (*Object, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, jerrors.New(jerrors.AbstractTypeResolution, "union %s resolved to a nil value", union.Name)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, jerrors.New(jerrors.AbstractTypeResolution, "union %s expects its one-hot wrapper struct, got %s", union.Name, rv.Kind())
	}

	var set *Object
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if field.Kind() != reflect.Ptr || field.IsNil() {
			continue
		}
		member, ok := union.Types[field.Type().Elem().Name()]
		if !ok {
			continue
		}
		if set != nil {
			return nil, jerrors.New(jerrors.AbstractTypeResolution, "union %s resolved to more than one member set", union.Name)
		}
		set = member
	}
	if set == nil {
		return nil, jerrors.New(jerrors.AbstractTypeResolution, "union %s resolved with no member set", union.Name)
	}
	return set, nil
}

func typeNameOf(typ Type, source interface{}) string {
	switch t := unwrap(typ).(type) {
	case *Interface, *Union:
		if concrete, err := resolveConcreteType(t, source); err == nil {
			return concrete.Name
		}
	case *Object:
		return t.Name
	}
	return ""
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
