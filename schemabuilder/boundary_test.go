package schemabuilder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northfield/graphweave/graphql"
	"github.com/northfield/graphweave/schemabuilder"
)

func buildEchoSchema(t *testing.T) *graphql.Schema {
	t.Helper()
	sb := schemabuilder.NewSchema()
	sb.Query().FieldFunc("echoInt", func(ctx context.Context, args struct{ Value int64 }) int64 {
		return args.Value
	})
	sb.Query().FieldFunc("echoList", func(ctx context.Context, args struct{ Values []int32 }) []int32 {
		return args.Values
	})
	schema, err := sb.Build()
	require.NoError(t, err)
	return schema
}

func execWithVariables(t *testing.T, schema *graphql.Schema, query string, variables map[string]interface{}) (interface{}, error) {
	t.Helper()
	parsed, err := graphql.Parse(query, variables)
	require.NoError(t, err)
	if err := graphql.ValidateQuery(context.Background(), schema.Query, parsed.SelectionSet); err != nil {
		return nil, err
	}
	executor := &graphql.Executor{}
	return executor.Execute(context.Background(), schema.Query, nil, parsed)
}

// TestIntArgumentAcceptsInt64Range checks that an Int argument accepts any
// value representable as a signed 64-bit integer.
func TestIntArgumentAcceptsInt64Range(t *testing.T) {
	schema := buildEchoSchema(t)
	_, err := execWithVariables(t, schema, `query($v: Int!) { echoInt(value: $v) }`, map[string]interface{}{"v": int64(9223372036854775807)})
	require.NoError(t, err)
}

// TestIntArgumentRejectsOutsideInt64Range checks that a value outside the
// signed-64-bit range is rejected with a coercion error rather than
// silently truncated or wrapped.
func TestIntArgumentRejectsOutsideInt64Range(t *testing.T) {
	schema := buildEchoSchema(t)
	_, err := execWithVariables(t, schema, `query($v: Int!) { echoInt(value: $v) }`, map[string]interface{}{"v": 1e19})
	require.Error(t, err)
}

type boundaryA struct{ A int32 }
type boundaryB struct{ B int32 }
type boundaryUnion struct {
	schemabuilder.Union
	*boundaryA
	*boundaryB
}

// TestUnionInInputPositionFailsSchemaBuild checks that a union type used as
// an argument's Go type fails schema build rather than compiling into a
// usable (but spec-invalid) input.
func TestUnionInInputPositionFailsSchemaBuild(t *testing.T) {
	sb := schemabuilder.NewSchema()
	sb.Object("BoundaryA", boundaryA{})
	sb.Object("BoundaryB", boundaryB{})
	sb.Query().FieldFunc("echoUnion", func(ctx context.Context, args struct{ In boundaryUnion }) string {
		return "unreachable"
	})

	_, err := sb.Build()
	require.Error(t, err)
}

// TestListArgumentRejectsNonListHostValue checks that a list argument
// rejects a non-list host value, including a tuple-shaped JSON object
// passed where a list was expected.
func TestListArgumentRejectsNonListHostValue(t *testing.T) {
	schema := buildEchoSchema(t)

	_, err := execWithVariables(t, schema, `query($v: [Int!]!) { echoList(values: $v) }`, map[string]interface{}{
		"v": map[string]interface{}{"0": 1, "1": 2},
	})
	require.Error(t, err)

	_, err = execWithVariables(t, schema, `query($v: [Int!]!) { echoList(values: $v) }`, map[string]interface{}{
		"v": []interface{}{float64(1), float64(2), float64(3)},
	})
	require.NoError(t, err)
}
