package schemabuilder

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/northfield/graphweave/graphql"
)

// makeInputObjectParser compiles an args struct (the parameter type of a
// FieldFunc, e.g. `func(ctx, args struct{ Name string })`) into an
// argParser plus the graphql.InputObject describing its fields.
func (sb *schemaBuilder) makeInputObjectParser(typ reflect.Type) (*argParser, graphql.Type, error) {
	if typ.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("expected struct but received type %s", typ.Name())
	}

	argType, fields, err := sb.generateArgParser(typ)
	if err != nil {
		return nil, nil, err
	}
	oneOf := argType.OneOf

	return &argParser{
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asMap, ok := value.(map[string]interface{})
			if !ok {
				return errors.New("not an object")
			}
			return fillStructFields(argType.Name, oneOf, asMap, fields, dest)
		},
		Type: typ,
	}, argType, nil
}

// fillStructFields validates @oneOf (if the input requires it), rejects
// unknown argument names, and parses each known field into dest by struct
// index. Shared by arg-struct parsing (makeInputObjectParser) and
// registered-InputObject parsing (generateObjectParserInner), which differ
// only in how they discover their field set.
func fillStructFields(typeName string, oneOf bool, asMap map[string]interface{}, fields map[string]argField, dest reflect.Value) error {
	if oneOf {
		if err := validateOneOfInput(typeName, asMap); err != nil {
			return err
		}
	}

	for name := range asMap {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("unknown arg %s", name)
		}
	}

	for name, field := range fields {
		if err := field.parser.FromJSON(asMap[name], dest.FieldByIndex(field.field.Index)); err != nil {
			return fmt.Errorf("%s: %s", name, err)
		}
	}
	return nil
}

// generateArgParser walks typ's exported fields, compiling a parser and a
// graphql.InputObject field entry for each one.
func (sb *schemaBuilder) generateArgParser(typ reflect.Type) (*graphql.InputObject, map[string]argField, error) {
	fields := make(map[string]argField)
	argType := &graphql.InputObject{
		Name:              typ.Name(),
		InputFields:       make(map[string]graphql.Type),
		FieldDeprecations: make(map[string]string),
		OneOf:             hasOneOfMarkerEmbedded(typ),
	}

	// Record the args struct's input object in typeCache.
	sb.typeCache[typ] = cachedType{argType, fields}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous && field.Type == oneOfInputType {
			continue
		}
		if field.Anonymous {
			return nil, nil, fmt.Errorf("bad arg type %s: anonymous fields not supported", typ)
		}

		fieldInfo, err := parseGraphQLFieldInfo(field)
		if err != nil {
			return nil, nil, fmt.Errorf("bad type %s: %s", typ, err.Error())
		}
		if fieldInfo.Skipped {
			continue
		}
		if _, ok := fields[fieldInfo.Name]; ok {
			return nil, nil, fmt.Errorf("bad arg type %s: duplicate field %s", typ, fieldInfo.Name)
		}

		parser, fieldArgTyp, err := sb.generateObjectParser(field.Type)
		if err != nil {
			return nil, nil, err
		}

		fields[fieldInfo.Name] = argField{
			field:             field,
			parser:            parser,
			DeprecationReason: fieldInfo.DeprecationReason,
		}
		argType.InputFields[fieldInfo.Name] = fieldArgTyp
		if fieldInfo.DeprecationReason != "" {
			argType.FieldDeprecations[fieldInfo.Name] = fieldInfo.DeprecationReason
		}
	}

	return argType, fields, nil
}

// generateObjectParser generates the parser for a field's declared type,
// unwrapping one level of pointer indirection (nullable argument) first.
func (sb *schemaBuilder) generateObjectParser(typ reflect.Type) (*argParser, graphql.Type, error) {
	if typ.Kind() == reflect.Ptr {
		parser, argType, err := sb.generateObjectParserInner(typ.Elem())
		if err != nil {
			return nil, nil, err
		}
		return wrapPtrParser(parser), argType, nil
	}
	return sb.generateObjectParserInner(typ)
}

// generateObjectParserInner compiles the parser for a non-pointer field
// type: enums and scalars resolve directly, slices recurse per-element, and
// struct types must already be registered via Schema.InputObject.
func (sb *schemaBuilder) generateObjectParserInner(typ reflect.Type) (*argParser, graphql.Type, error) {
	if sb.enumMappings[typ] != nil {
		parser, argType := sb.getEnumArgParser(typ)
		return parser, argType, nil
	}
	if isScalarType(typ) {
		return sb.getInputFieldParser(typ)
	}
	if typ.Kind() == reflect.Slice {
		return sb.generateSliceParser(typ)
	}

	obj, ok := sb.inputObjects[typ]
	if !ok {
		return nil, nil, fmt.Errorf("%s not registered as input object", typ.Name())
	}
	return sb.generateRegisteredInputObjectParser(typ, obj)
}

// generateRegisteredInputObjectParser compiles the parser for a struct
// registered via Schema.InputObject, whose fields come from its FieldFunc
// registrations (obj.Fields) rather than direct struct-tag reflection.
func (sb *schemaBuilder) generateRegisteredInputObjectParser(typ reflect.Type, obj *InputObject) (*argParser, graphql.Type, error) {
	fields := make(map[string]argField)
	argType := &graphql.InputObject{
		Name:              obj.Name,
		Description:       obj.Description,
		InputFields:       make(map[string]graphql.Type),
		FieldDeprecations: obj.FieldDeprecations,
		OneOf:             obj.OneOf || (typ.Kind() == reflect.Struct && hasOneOfMarkerEmbedded(typ)),
	}
	if argType.FieldDeprecations == nil {
		argType.FieldDeprecations = map[string]string{}
	}

	for name, function := range obj.Fields {
		sourceTyp := reflect.TypeOf(function).In(1)
		parser, fieldArgTyp, err := sb.getInputFieldParser(sourceTyp)
		if err != nil {
			return nil, nil, err
		}

		fields[name] = argField{field: reflect.StructField{Name: name}, parser: parser}
		argType.InputFields[name] = fieldArgTyp
	}
	oneOf := argType.OneOf

	return &argParser{
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asMap, ok := value.(map[string]interface{})
			if !ok {
				return errors.New("not an object")
			}
			if oneOf {
				if err := validateOneOfInput(argType.Name, asMap); err != nil {
					return err
				}
			}

			target := reflect.New(typ)
			for name, field := range fields {
				value, exists := asMap[name]
				if !exists {
					continue
				}
				function := obj.Fields[name]
				sourceTyp := reflect.TypeOf(function).In(1)
				source := reflect.New(sourceTyp).Elem()
				if err := field.parser.FromJSON(value, source); err != nil {
					return fmt.Errorf("%s : %s", name, err)
				}

				out := reflect.ValueOf(function).Call([]reflect.Value{target, source})
				if len(out) > 0 && !out[0].IsNil() {
					return out[0].Interface().(error)
				}
			}

			dest.Set(target.Elem())
			return nil
		},
		Type: typ,
	}, argType, nil
}

func (sb *schemaBuilder) getInputFieldParser(typ reflect.Type) (*argParser, graphql.Type, error) {
	if sb.enumMappings[typ] != nil {
		parser, argType := sb.getEnumArgParser(typ)
		return parser, argType, nil
	}
	if parser, argType, ok := getScalarArgParser(typ); ok {
		return parser, argType, nil
	}

	switch typ.Kind() {
	case reflect.Struct:
		parser, argType, err := sb.generateObjectParser(typ)
		if err != nil {
			return nil, nil, err
		}
		if argType.(*graphql.InputObject).Name == "" {
			return nil, nil, fmt.Errorf("bad type %s: should have a name", typ)
		}
		return parser, argType, nil
	case reflect.Slice:
		return sb.generateSliceParser(typ)
	case reflect.Ptr:
		parser, argType, err := sb.getInputFieldParser(typ.Elem())
		if err != nil {
			return nil, nil, err
		}
		return wrapPtrParser(parser), argType, nil
	default:
		return nil, nil, fmt.Errorf("bad arg type %s: should be struct, scalar, pointer, or a slice", typ)
	}
}

// generateSliceParser generates the parser for a slice input by generating the parser for underlying object and using it to fill the values in list
func (sb *schemaBuilder) generateSliceParser(typ reflect.Type) (*argParser, graphql.Type, error) {
	inner, argType, err := sb.generateObjectParser(typ.Elem())
	if err != nil {
		return nil, nil, err
	}

	return &argParser{
		FromJSON: func(value interface{}, dest reflect.Value) error {
			asSlice, ok := value.([]interface{})
			if !ok {
				return errors.New("not a list")
			}

			sourceTyp := typ.Elem()
			sourceSlice := reflect.MakeSlice(typ, len(asSlice), len(asSlice))

			for i, value := range asSlice {
				source := reflect.New(sourceTyp).Elem()
				if err := inner.FromJSON(value, source); err != nil {
					return err
				}
				sourceSlice.Index(i).Set(source)
			}

			dest.Set(sourceSlice)

			return nil
		},
		Type: typ,
	}, &graphql.List{Type: argType}, nil
}

// hasOneOfMarkerEmbedded reports whether typ embeds schemabuilder.OneOfInput,
// mirroring hasMarkerEmbedded's anonymous-field convention for outputs.
func hasOneOfMarkerEmbedded(typ reflect.Type) bool {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous && field.Type == oneOfInputType {
			return true
		}
	}
	return false
}
