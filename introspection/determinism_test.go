package introspection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northfield/graphweave/example/users"
	"github.com/northfield/graphweave/introspection"
	"github.com/northfield/graphweave/schemabuilder"
)

// TestSchemaJSONIsDeterministic checks that compiling the same class graph
// twice produces byte-identical introspection JSON, the stand-in here for
// SDL since this module exposes its schema shape through introspection
// rather than a text SDL printer.
func TestSchemaJSONIsDeterministic(t *testing.T) {
	build := func() schemabuilder.Schema {
		sb := schemabuilder.NewSchema()
		users.RegisterSchema(sb, users.NewServer())
		return *sb
	}

	first, err := introspection.ComputeSchemaJSON(build())
	require.NoError(t, err)
	second, err := introspection.ComputeSchemaJSON(build())
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}
