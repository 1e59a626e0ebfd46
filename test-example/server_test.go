package main_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	testex "github.com/northfield/graphweave/test-example"
	"github.com/stretchr/testify/require"
)

// TestFullFeatures exercises the Star Wars example server end to end:
// scalars, @specifiedBy, @oneOf, queries, mutations, and introspection.
func TestFullFeatures(t *testing.T) {
	handler := testex.HTTPHandler()
	ts := httptest.NewServer(handler)
	defer ts.Close()

	client := ts.Client()

	postQuery := func(query string) map[string]interface{} {
		body := map[string]string{"query": query}
		b, err := json.Marshal(body)
		require.NoError(t, err)
		resp, err := client.Post(ts.URL, "application/json", bytes.NewReader(b))
		require.NoError(t, err)
		defer resp.Body.Close()

		var result map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		return result
	}

	t.Run("introspection", func(t *testing.T) {
		q := `query {
			__schema {
				queryType { name }
				mutationType { name }
				directives { name locations }
				types {
					name
					kind
					specifiedByURL
					directives { name }
					isOneOf
				}
			}
		}`
		res := postQuery(q)
		require.Nil(t, res["errors"])
		data := res["data"].(map[string]interface{})
		schema := data["__schema"].(map[string]interface{})
		require.Equal(t, "Query", schema["queryType"].(map[string]interface{})["name"])
		require.Equal(t, "Mutation", schema["mutationType"].(map[string]interface{})["name"])

		directives := schema["directives"].([]interface{})
		var hasSpecifiedBy, hasOneOf bool
		for _, d := range directives {
			dm := d.(map[string]interface{})
			switch dm["name"] {
			case "specifiedBy":
				hasSpecifiedBy = true
				require.Contains(t, dm["locations"], "SCALAR")
			case "oneOf":
				hasOneOf = true
				require.Contains(t, dm["locations"], "INPUT_OBJECT")
			}
		}
		require.True(t, hasSpecifiedBy)
		require.True(t, hasOneOf)

		types := schema["types"].([]interface{})
		var foundCharacter, foundReviewInput, foundDateTime bool
		for _, typ := range types {
			tm := typ.(map[string]interface{})
			switch tm["name"] {
			case "Character":
				foundCharacter = true
				require.Equal(t, "INTERFACE", tm["kind"])
			case "ReviewInput":
				foundReviewInput = true
				require.Equal(t, "INPUT_OBJECT", tm["kind"])
				require.Equal(t, true, tm["isOneOf"])
				var hasOneOfDirective bool
				for _, d := range tm["directives"].([]interface{}) {
					if d.(map[string]interface{})["name"] == "oneOf" {
						hasOneOfDirective = true
					}
				}
				require.True(t, hasOneOfDirective, "ReviewInput carries @oneOf")
			case "DateTime":
				foundDateTime = true
				require.Equal(t, "https://www.rfc-editor.org/rfc/rfc3339", tm["specifiedByURL"])
			}
		}
		require.True(t, foundCharacter, "Character interface present")
		require.True(t, foundReviewInput, "ReviewInput input object present")
		require.True(t, foundDateTime, "DateTime scalar present")
	})

	t.Run("queries", func(t *testing.T) {
		q := `{ hero { id name appearsIn } }`
		res := postQuery(q)
		require.Nil(t, res["errors"])
		data := res["data"].(map[string]interface{})
		hero := data["hero"].(map[string]interface{})
		require.Equal(t, "R2-D2", hero["name"])

		q = `{ droid(id: "d1") { id name } }`
		res = postQuery(q)
		require.Nil(t, res["errors"])
		droid := res["data"].(map[string]interface{})["droid"].(map[string]interface{})
		require.Equal(t, "R2-D2", droid["name"])

		q = `{ human(id: "h1") { id name mass starships { name } } }`
		res = postQuery(q)
		require.Nil(t, res["errors"])
		human := res["data"].(map[string]interface{})["human"].(map[string]interface{})
		require.Equal(t, "Luke Skywalker", human["name"])
		require.Len(t, human["starships"], 1)

		q = `{ droid(id: "does-not-exist") { id } }`
		res = postQuery(q)
		require.Nil(t, res["errors"])
		require.Nil(t, res["data"].(map[string]interface{})["droid"])
	})

	t.Run("interfaceDispatch", func(t *testing.T) {
		q := `{
			character(id: "h1") {
				... on Human { name mass }
				... on Droid { name primaryFunction }
			}
		}`
		res := postQuery(q)
		require.Nil(t, res["errors"])
		character := res["data"].(map[string]interface{})["character"].(map[string]interface{})
		require.Equal(t, "Luke Skywalker", character["name"])
		require.EqualValues(t, 77, character["mass"])
		require.Nil(t, character["primaryFunction"])

		q = `{
			character(id: "d1") {
				... on Human { name mass }
				... on Droid { name primaryFunction }
			}
		}`
		res = postQuery(q)
		require.Nil(t, res["errors"])
		character = res["data"].(map[string]interface{})["character"].(map[string]interface{})
		require.Equal(t, "R2-D2", character["name"])
		require.Equal(t, "Astromech", character["primaryFunction"])
	})

	t.Run("unionSelection", func(t *testing.T) {
		q := `{
			search(name: "Millennium Falcon") {
				... on Starship { name length }
				... on Human { name }
				... on Droid { name }
			}
		}`
		res := postQuery(q)
		require.Nil(t, res["errors"])
		result := res["data"].(map[string]interface{})["search"].(map[string]interface{})
		require.Equal(t, "Millennium Falcon", result["name"])

		q = `{ search(name: "nobody") { ... on Human { name } } }`
		res = postQuery(q)
		require.Nil(t, res["errors"])
		require.Nil(t, res["data"].(map[string]interface{})["search"])
	})

	t.Run("oneOfMutation", func(t *testing.T) {
		q := `mutation {
			createReview(episode: JEDI, review: {stars: "5"}) {
				stars
			}
		}`
		res := postQuery(q)
		require.Nil(t, res["errors"])
		created := res["data"].(map[string]interface{})["createReview"].(map[string]interface{})
		require.EqualValues(t, 5, created["stars"])

		q = `mutation {
			createReview(episode: JEDI, review: {stars: "3"}) {
				stars
			}
		}`
		res = postQuery(q)
		require.Nil(t, res["errors"])
		created = res["data"].(map[string]interface{})["createReview"].(map[string]interface{})
		require.EqualValues(t, 3, created["stars"], "coercion reflects the actual input, not a fixed stub value")

		q = `{ reviews(episode: JEDI) { stars } }`
		res = postQuery(q)
		require.Nil(t, res["errors"])
		reviews := res["data"].(map[string]interface{})["reviews"].([]interface{})
		require.Len(t, reviews, 2)

		q = `mutation {
			createReview(episode: JEDI, review: {stars: "5", commentary: "good"}) {
				stars
			}
		}`
		res = postQuery(q)
		require.NotNil(t, res["errors"], "oneOf violation: both fields set")
	})

	t.Run("errorValidations", func(t *testing.T) {
		q := `{ hero { nonExistentField } }`
		res := postQuery(q)
		require.NotNil(t, res["errors"])
	})
}
