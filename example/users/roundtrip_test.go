package users_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northfield/graphweave/example/users"
)

// TestCreateUserInputRoundTrips checks that every field of CreateUserInput
// survives coercion into the engine and back out through a query on the
// created User unchanged, including the enum (Role) and float (reputation)
// fields that are easiest to get wrong in a hand-rolled coercer.
func TestCreateUserInputRoundTrips(t *testing.T) {
	h, err := users.GetGraphqlServer()
	require.NoError(t, err)

	server := httptest.NewServer(h)
	defer server.Close()

	post := func(query string) map[string]interface{} {
		body, _ := json.Marshal(map[string]string{"query": query})
		resp, err := http.Post(server.URL, "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()

		var result map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Nil(t, result["errors"], "GraphQL errors: %v", result["errors"])
		return result["data"].(map[string]interface{})
	}

	created := post(`mutation {
		createUser(input: {
			name: "Ada Lovelace",
			email: "ada@example.com",
			age: 36,
			reputation: 9.75,
			isActive: true,
			role: GUEST
		}) { id name email age reputation isActive role }
	}`)["createUser"].(map[string]interface{})

	require.Equal(t, "Ada Lovelace", created["name"])
	require.Equal(t, "ada@example.com", created["email"])
	require.EqualValues(t, 36, created["age"])
	require.EqualValues(t, 9.75, created["reputation"])
	require.Equal(t, true, created["isActive"])
	require.Equal(t, "GUEST", created["role"])

	fetched := post(`{ user(id: "`+created["id"].(string)+`") { id name email age reputation isActive role } }`)["user"].(map[string]interface{})
	require.Equal(t, created, fetched, "the value coerced into the engine and the value read back out must match exactly")
}
