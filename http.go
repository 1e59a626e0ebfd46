package graphweave

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/northfield/graphweave/graphql"
	"github.com/northfield/graphweave/jerrors"
)

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	Middlewares []MiddlewareFunc
}

// HTTPHandler implements the handler required for executing the graphql queries and mutations.
// GET requests to /graphql serve the embedded playground UI; POST requests
// execute a query or mutation. Other methods return an error.
func HTTPHandler(schema *graphql.Schema, opts ...HandlerOption) http.Handler {
	h := &httpHandler{
		handler: handler{
			schema:   schema,
			executor: &graphql.Executor{},
		},
	}

	o := handlerOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	prev := h.execute
	for i := range o.Middlewares {
		prev = o.Middlewares[len(o.Middlewares)-1-i](prev)
	}
	h.exec = prev

	return h
}

type handler struct {
	schema   *graphql.Schema
	executor *graphql.Executor
}

type httpHandler struct {
	handler

	exec HandlerFunc
}

type httpPostBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type httpResponse struct {
	Data   interface{}      `json:"data"`
	Errors []*jerrors.Error `json:"errors"`
}

//go:embed playground
// playgroundFiles embeds the self-contained GraphQL Playground UI
// (playground/index.html) directly into the binary, so the server can serve
// it without any CDN or network dependency.
var playgroundFiles embed.FS

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// GET /graphql serves the playground UI; everything else executes a query.
	if r.Method == http.MethodGet {
		serveEmbeddedPlayground(w, r)
		return
	}

	writeResponse := func(value interface{}, err error) {
		response := httpResponse{}
		if err != nil {
			response.Errors = []*jerrors.Error{jerrors.ConvertError(err)}
		} else {
			response.Data = value
		}

		responseJSON, err := graphql.SerializeResponse(response)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		_, _ = w.Write(responseJSON)
	}

	if r.Method != "POST" {
		writeResponse(nil, errors.New("request must be a POST"))
		return
	}

	if r.Body == nil {
		writeResponse(nil, errors.New("request must include a query"))
		return
	}

	var params httpPostBody
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeResponse(nil, err)
		return
	}

	query, err := graphql.Parse(params.Query, params.Variables)
	if err != nil {
		writeResponse(nil, err)
		return
	}

	root := h.schema.Query
	if query.Kind == "mutation" {
		root = h.schema.Mutation
	}

	if err := graphql.ValidateQuery(r.Context(), root, query.SelectionSet); err != nil {
		writeResponse(nil, err)
		return
	}

	ctx := addVariables(r.Context(), params.Variables)

	output, err := h.exec(ctx, root, query)
	writeResponse(output, err)
}

func (h *httpHandler) execute(ctx context.Context, root graphql.Type, query *graphql.Query) (interface{}, error) {
	return h.executor.Execute(ctx, root, nil, query)
}

type graphqlVariableKeyType int

const graphqlVariableKey graphqlVariableKeyType = 0

// ExtractVariables is used to returns the variables received as part of the graphql request.
// This is intended to be used from within the interceptors.
func ExtractVariables(ctx context.Context) map[string]interface{} {
	if v := ctx.Value(graphqlVariableKey); v != nil {
		return v.(map[string]interface{})
	}

	return nil
}

func addVariables(ctx context.Context, v map[string]interface{}) context.Context {
	return context.WithValue(ctx, graphqlVariableKey, v)
}

// getPlaygroundFS returns a sub-FS rooted at the embedded "playground/" dir.
func getPlaygroundFS() (http.FileSystem, error) {
	fsys, err := fs.Sub(playgroundFiles, "playground")
	if err != nil {
		return nil, fmt.Errorf("graphweave: failed to embed playground assets: %w", err)
	}
	return http.FS(fsys), nil
}

// serveEmbeddedPlayground serves the GraphQL Playground on the same
// /graphql route that handles query execution, so no separate mount or
// redirect is needed.
func serveEmbeddedPlayground(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/graphql" || r.URL.Path == "/graphql/" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		indexBytes, err := fs.ReadFile(playgroundFiles, "playground/index.html")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(indexBytes)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/graphql/static/") || r.URL.Path == "/graphql/favicon.png" {
		fsys, err := getPlaygroundFS()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.StripPrefix("/graphql", http.FileServer(fsys)).ServeHTTP(w, r)
		return
	}

	http.NotFound(w, r)
}
