package schemabuilder

import (
	"context"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/northfield/graphweave/graphql"
)

// graphQLFieldInfo contains basic struct field information related to GraphQL.
type graphQLFieldInfo struct {
	// Skipped indicates that this field should not be included in GraphQL.
	Skipped bool

	// Name is the GraphQL field name that should be exposed for this field.
	Name string

	// KeyField indicates that this field should be treated as a Object Key field.
	KeyField bool

	// OptionalInputField indicates that this field should be treated as an optional
	// field on graphQL input args.
	OptionalInputField bool

	// DeprecationReason, if set, marks the field deprecated (@deprecated(reason: String)).
	// Parsed from graphql tag options, e.g., `graphql:"age,deprecated=Use birthdate"`.
	DeprecationReason string

	// Description is parsed from a tag, e.g. `graphql:"name,description=..."`.
	Description string
}

// parseGraphQLFieldInfo parses a struct field and returns a struct with the parsed information about the field (tag info, name, etc).
func parseGraphQLFieldInfo(field reflect.StructField) (*graphQLFieldInfo, error) {
	if field.PkgPath != "" { //If the field of struct is not exported, then it is not exposed
		return &graphQLFieldInfo{Skipped: true}, nil
	}

	tag := field.Tag.Get("graphql")
	if tag == "" {
		tag = field.Tag.Get("json")
	}
	tags := strings.Split(tag, ",")
	var name string
	if len(tags) > 0 {
		name = strings.TrimSpace(tags[0])
	}
	if name == "-" {
		return &graphQLFieldInfo{Skipped: true}, nil
	}

	if name == "" {
		name = makeGraphql(field.Name)
	}

	var key bool
	var optional bool
	var depReason string
	var description string
	for _, opt := range tags[1:] {
		opt = strings.TrimSpace(opt)
		if strings.HasPrefix(opt, "deprecated=") {
			depReason = strings.TrimPrefix(opt, "deprecated=")
		} else if strings.HasPrefix(opt, "description=") {
			description = strings.TrimPrefix(opt, "description=")
		} else if opt == "optional" {
			optional = true
		}
	}

	return &graphQLFieldInfo{Name: name, KeyField: key, OptionalInputField: optional, DeprecationReason: depReason, Description: description}, nil
}

// makeGraphql converts a Go exported field name ("UserID", "HTMLContent")
// into its conventional GraphQL camelCase field name ("userId", "htmlContent"),
// using strcase's initialism-aware splitter rather than a naive
// lowercase-first-rune transform so acronym-heavy field names read the way a
// hand-authored SDL would spell them.
func makeGraphql(s string) string {
	return strcase.ToLowerCamel(s)
}

// Common Types that we will need to perform type assertions against.
var errType = reflect.TypeOf((*error)(nil)).Elem()
var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
var selectionSetType = reflect.TypeOf(&graphql.Lookahead{})
