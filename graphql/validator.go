package graphql

import (
	"context"

	"github.com/northfield/graphweave/jerrors"
)

// ValidateQuery checks that every field a selection set asks for actually
// exists on typ (recursing into sub-selections, fragment spreads, and
// inline fragments), and that every list/object/interface/union field that
// has a sub-selection is given one. It does not validate argument literal
// types against declared variable types; that degree of document validation
// is left to query-parsing layers outside this module's scope, per its
// design notes.
func ValidateQuery(ctx context.Context, typ Type, selectionSet *SelectionSet) error {
	return validateSelectionSet(typ, selectionSet, map[*SelectionSet]bool{})
}

func validateSelectionSet(typ Type, ss *SelectionSet, seen map[*SelectionSet]bool) error {
	if ss == nil {
		return nil
	}
	if seen[ss] {
		return nil
	}
	seen[ss] = true

	fields, ok := fieldsOf(typ)
	if _, isUnion := unwrap(typ).(*Union); !ok && !isUnion {
		return jerrors.New(jerrors.TypeMismatch, "cannot select fields on non-object/interface type %s", typ.String())
	}

	for _, sel := range ss.Selections {
		if sel.Name == "__typename" {
			continue
		}
		field, ok := fields[sel.Name]
		if !ok {
			return jerrors.New(jerrors.SchemaBuild, "field %q does not exist on type %q", sel.Name, typ.String())
		}
		if err := validateSubSelection(field.Type, sel, seen); err != nil {
			return err
		}
	}

	for _, spread := range ss.Fragments {
		def := spread.Fragment
		if def == nil || def.SelectionSet == nil {
			continue
		}
		target := typ
		if def.On != "" {
			member, err := typeByName(typ, def.On)
			if err != nil {
				return err
			}
			target = member
		}
		if err := validateSelectionSet(target, def.SelectionSet, seen); err != nil {
			return err
		}
	}

	return nil
}

func validateSubSelection(typ Type, sel *Selection, seen map[*SelectionSet]bool) error {
	inner := unwrap(typ)
	switch inner.(type) {
	case *Object, *Interface, *Union:
		if sel.SelectionSet == nil {
			return jerrors.New(jerrors.SchemaBuild, "field %q of type %q must have a selection set", sel.Name, inner.String())
		}
		return validateSelectionSet(inner, sel.SelectionSet, seen)
	default:
		if sel.SelectionSet != nil {
			return jerrors.New(jerrors.SchemaBuild, "field %q of scalar/enum type %q cannot have a selection set", sel.Name, inner.String())
		}
		return nil
	}
}

// unwrap strips NonNull and List wrappers to find the underlying selectable
// type, e.g. [User!]! -> User.
func unwrap(typ Type) Type {
	for {
		switch t := typ.(type) {
		case *NonNull:
			typ = t.Type
		case *List:
			typ = t.Type
		default:
			return typ
		}
	}
}

func fieldsOf(typ Type) (map[string]*Field, bool) {
	switch t := unwrap(typ).(type) {
	case *Object:
		return t.Fields, true
	case *Interface:
		return t.Fields, true
	default:
		return nil, false
	}
}

func typeByName(typ Type, name string) (Type, error) {
	switch t := unwrap(typ).(type) {
	case *Union:
		if member, ok := t.Types[name]; ok {
			return member, nil
		}
	case *Interface:
		if member, ok := t.Types[name]; ok {
			return member, nil
		}
		if t.Name == name {
			return t, nil
		}
	case *Object:
		if t.Name == name {
			return t, nil
		}
	}
	return nil, jerrors.New(jerrors.AbstractTypeResolution, "type condition %q is not a member of %s", name, typ.String())
}
