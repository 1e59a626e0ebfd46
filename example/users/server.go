package users

import (
	"net/http"

	"github.com/northfield/graphweave"
	"github.com/northfield/graphweave/introspection"
	"github.com/northfield/graphweave/schemabuilder"
)

// GetGraphqlServer builds the users schema and returns an http.Handler
// serving it at /graphql, with introspection and the playground UI enabled.
func GetGraphqlServer() (http.Handler, error) {
	sb := schemabuilder.NewSchema()
	server := NewServer()

	RegisterSchema(sb, server)

	schema, err := sb.Build()
	if err != nil {
		return nil, err
	}

	introspection.AddIntrospectionToSchema(schema)

	return graphweave.HTTPHandler(schema), nil
}