package schemabuilder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northfield/graphweave/graphql"
	"github.com/northfield/graphweave/schemabuilder"
)

type widget struct {
	Name string
}

// TestCompileIsIdempotentWithinABuild checks that a Go type referenced from
// more than one place in the same schema compiles to the same CompiledType
// identity, rather than a fresh one per reference.
func TestCompileIsIdempotentWithinABuild(t *testing.T) {
	sb := schemabuilder.NewSchema()
	sb.Object("Widget", widget{})

	sb.Query().FieldFunc("first", func(ctx context.Context) *widget {
		return &widget{Name: "a"}
	})
	sb.Query().FieldFunc("second", func(ctx context.Context) []*widget {
		return []*widget{{Name: "b"}}
	})

	schema, err := sb.Build()
	require.NoError(t, err)

	// "first" returns *widget (pointer = nullable, no NonNull wrapper);
	// "second" returns []*widget (the slice itself is non-pointer = non-null,
	// but its *widget elements are pointer = nullable, so only the outer
	// list gets a NonNull wrapper).
	firstType := schema.Query.(*graphql.Object).Fields["first"].Type
	secondListType := schema.Query.(*graphql.Object).Fields["second"].Type.(*graphql.NonNull).Type.(*graphql.List).Type
	require.Same(t, firstType, secondListType, "the same Go type compiled from two different fields must yield the same CompiledType identity")

	_, err = execWithVariables(t, schema, `{ first { name } second { name } }`, nil)
	require.NoError(t, err)
}

// TestReregisteringSameClassDoesNotMutateCompiledType checks that building a
// second, independent schema from the same Go types does not affect the
// first schema's already-compiled types.
func TestReregisteringSameClassDoesNotMutateCompiledType(t *testing.T) {
	build := func() *schemabuilder.Schema {
		sb := schemabuilder.NewSchema()
		sb.Object("Widget", widget{})
		sb.Query().FieldFunc("first", func(ctx context.Context) *widget {
			return &widget{Name: "a"}
		})
		return sb
	}

	sb1 := build()
	schema1, err := sb1.Build()
	require.NoError(t, err)

	result1, err := execWithVariables(t, schema1, `{ first { name } }`, nil)
	require.NoError(t, err)

	sb2 := build()
	schema2, err := sb2.Build()
	require.NoError(t, err)

	result2, err := execWithVariables(t, schema2, `{ first { name } }`, nil)
	require.NoError(t, err)

	require.Equal(t, result1, result2)

	result1Again, err := execWithVariables(t, schema1, `{ first { name } }`, nil)
	require.NoError(t, err)
	require.Equal(t, result1, result1Again)
}
