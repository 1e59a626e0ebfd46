package users_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/northfield/graphweave/example/users"
	"github.com/northfield/graphweave/introspection"
)

// TestGetGraphqlServer exercises GetGraphqlServer's handler end to end:
// introspection descriptions/directives, then queries and mutations.
func TestGetGraphqlServer(t *testing.T) {
	h, err := users.GetGraphqlServer()
	require.NoError(t, err)
	require.NotNil(t, h)

	server := httptest.NewServer(h)
	defer server.Close()

	postQuery := func(query string) map[string]interface{} {
		reqBody, _ := json.Marshal(map[string]string{"query": query})
		resp, err := http.Post(server.URL, "application/json", bytes.NewReader(reqBody))
		require.NoError(t, err)
		defer resp.Body.Close()

		var result map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		require.Nil(t, result["errors"], "GraphQL errors: %v", result["errors"])
		return result["data"].(map[string]interface{})
	}

	introQuery := introspection.IntrospectionQuery
	data := postQuery(introQuery)
	schema := data["__schema"].(map[string]interface{})

	types := schema["types"].([]interface{})
	hasQueryFieldDesc, hasMutFieldDesc, hasObjDesc, hasInputDesc, hasEnumDesc := false, false, false, false, false
	for _, tIface := range types {
		typ := tIface.(map[string]interface{})
		if fieldsIface, ok := typ["fields"].([]interface{}); ok {
			for _, fIface := range fieldsIface {
				f := fIface.(map[string]interface{})
				if desc, ok := f["description"].(string); ok && desc != "" {
					if typ["name"] == "Query" {
						hasQueryFieldDesc = true
					} else if typ["name"] == "Mutation" {
						hasMutFieldDesc = true
					}
				}
			}
		}
		if desc, ok := typ["description"].(string); ok && desc != "" {
			switch typ["name"] {
			case "User":
				hasObjDesc = true
			case "CreateUserInput", "ContactByInput":
				hasInputDesc = true
			case "Role":
				hasEnumDesc = true
			}
		}
	}
	require.True(t, hasQueryFieldDesc, "descs on queries")
	require.True(t, hasMutFieldDesc, "descs on mutations")
	require.True(t, hasObjDesc, "descs on objects")
	require.True(t, hasInputDesc, "descs on inputs")
	require.True(t, hasEnumDesc, "descs on enums")

	foundSpecifiedBy := false
	for _, tIface := range types {
		typ := tIface.(map[string]interface{})
		if typ["name"] == "DateTime" {
			if url, ok := typ["specifiedByURL"].(string); ok && url != "" {
				foundSpecifiedBy = true
			}
		}
	}
	require.True(t, foundSpecifiedBy, "specifiedBy on scalar")

	foundOneOf := false
	for _, tIface := range types {
		typ := tIface.(map[string]interface{})
		if typ["name"] == "ContactByInput" {
			if dirsIface, ok := typ["directives"].([]interface{}); ok {
				for _, dIface := range dirsIface {
					if dir, ok := dIface.(map[string]interface{}); ok {
						if dir["name"] == "oneOf" {
							foundOneOf = true
						}
					}
				}
			}
		}
	}
	require.True(t, foundOneOf, "oneOf directive on ContactByInput")

	allData := postQuery(`{ allUsers { id name email } }`)
	users := allData["allUsers"].([]interface{})
	require.GreaterOrEqual(t, len(users), 1, "initial user present")
	user0 := users[0].(map[string]interface{})
	require.Equal(t, "u1", user0["id"], "initial user ID")
	require.Equal(t, "John Doe", user0["name"], "initial user name")

	createData := postQuery(`mutation {
		createUser(input: {
			name: "Test User",
			email: "test@example.com",
			reputation: 8.0,
			isActive: true,
			role: MEMBER
		}) { id name email }
	}`)
	newUser := createData["createUser"].(map[string]interface{})
	newID := newUser["id"].(string)
	require.NotEmpty(t, newID, "new user ID")

	userByIdData := postQuery(`{
		user(id: "u1") { id name email }
	}`)
	fetched := userByIdData["user"].(map[string]interface{})
	require.Equal(t, "u1", fetched["id"], "fetched user ID")
	require.Equal(t, "John Doe", fetched["name"], "fetched user name")
}