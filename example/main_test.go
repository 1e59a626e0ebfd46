package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/northfield/graphweave"
	"github.com/northfield/graphweave/introspection"
	"github.com/northfield/graphweave/schemabuilder"
)

// buildTestServer assembles the same schema main() serves, backed by a
// fresh in-memory Server so tests don't share mutable state.
func buildTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sb := schemabuilder.NewSchema()
	RegisterPayload(sb)
	RegisterInput(sb)
	RegisterEnum(sb)

	s := &Server{
		Characters: []*Character{{
			Id:          "015f13a5-cf9b-49d7-b457-6113bcf8fd56",
			Name:        "Harry Potter",
			Type:        WIZARD,
			DateOfBirth: time.Date(1980, time.July, 31, 0, 0, 0, 0, time.UTC),
		}},
	}
	s.RegisterOperations(sb)

	schema, err := sb.Build()
	require.NoError(t, err)
	introspection.AddIntrospectionToSchema(schema)

	server := httptest.NewServer(graphweave.HTTPHandler(schema))
	t.Cleanup(server.Close)
	return server
}

func postQuery(t *testing.T, server *httptest.Server, query string) map[string]interface{} {
	t.Helper()

	reqBody, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	resp, err := http.Post(server.URL, "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Nil(t, result["errors"], "GraphQL errors: %v", result["errors"])
	data, _ := result["data"].(map[string]interface{})
	require.NotNil(t, data)
	return data
}

func TestQueryCharacterByID(t *testing.T) {
	server := buildTestServer(t)

	data := postQuery(t, server, `{ character(id: "015f13a5-cf9b-49d7-b457-6113bcf8fd56") { id name type } }`)
	character := data["character"].(map[string]interface{})
	require.Equal(t, "Harry Potter", character["name"])
	require.Equal(t, "WIZARD", character["type"])
}

func TestQueryCharactersList(t *testing.T) {
	server := buildTestServer(t)

	data := postQuery(t, server, `{ characters { id name } }`)
	characters := data["characters"].([]interface{})
	require.Len(t, characters, 1)
}

func TestCreateCharacterMutation(t *testing.T) {
	server := buildTestServer(t)

	data := postQuery(t, server, `mutation {
		createCharacter(input: {
			name: "Hermione Granger",
			type: MUGGLE,
			dateOfBirth: "1979-09-19T00:00:00Z",
			metadata: "e30="
		}) { id name type }
	}`)
	created := data["createCharacter"].(map[string]interface{})
	require.Equal(t, "Hermione Granger", created["name"])
	require.Equal(t, "MUGGLE", created["type"])
	require.NotEmpty(t, created["id"])

	listData := postQuery(t, server, `{ characters { name } }`)
	characters := listData["characters"].([]interface{})
	require.Len(t, characters, 2, "mutation must be visible to subsequent queries")
}

// TestIntrospectionExposesDateTimeSpecifiedByURL checks that the custom
// DateTime scalar registered in init() surfaces its @specifiedBy URL
// through the same introspection query a GraphQL client would send.
func TestIntrospectionExposesDateTimeSpecifiedByURL(t *testing.T) {
	server := buildTestServer(t)

	data := postQuery(t, server, introspection.IntrospectionQuery)
	schema := data["__schema"].(map[string]interface{})
	types := schema["types"].([]interface{})

	var found bool
	for _, tIface := range types {
		typ := tIface.(map[string]interface{})
		if typ["name"] != "DateTime" {
			continue
		}
		url, _ := typ["specifiedByURL"].(string)
		require.NotEmpty(t, url)
		found = true
	}
	require.True(t, found, "DateTime scalar must appear in introspection")
}
