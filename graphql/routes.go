package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/jobly/jobly-api/auth"
	"github.com/jobly/jobly-api/config"
	"github.com/jobly/jobly-api/db"
	"github.com/jobly/jobly-api/log"
	"github.com/jobly/jobly-api/types"
)

type executeQueryFunc func(ctx context.Context, body RequestBody) *graphql.Result

type RouteGenerator struct {
	tokens    *auth.TokenIssuer
	logger    log.Logger
	schemaGen *SchemaGenerator
}

type RequestBody struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func NewRouteGenerator(store db.Store, cfg config.Config) *RouteGenerator {
	return &RouteGenerator{
		tokens:    auth.NewTokenIssuer(cfg.SecretKey(), cfg.TokenTTL()),
		logger:    cfg.Logger().With("endpoint", "graphql"),
		schemaGen: NewSchemaGenerator(store, cfg),
	}
}

// Routes returns the GET and POST routes serving the queries enabled in ops at pattern
func (rg *RouteGenerator) Routes(pattern string, ops config.Operations) ([]types.Route, error) {
	schema, err := rg.schemaGen.BuildSchema(ops)
	if err != nil {
		return nil, fmt.Errorf("unable to build graphql schema: %s", err)
	}

	return rg.routesForSchema(pattern, func(ctx context.Context, body RequestBody) *graphql.Result {
		return rg.executeQuery(ctx, body, schema)
	}), nil
}

func (rg *RouteGenerator) routesForSchema(pattern string, execute executeQueryFunc) []types.Route {
	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: pattern,
			Handler: rg.withClaims(func(w http.ResponseWriter, r *http.Request) {
				query := r.URL.Query()
				body := RequestBody{
					Query:         query.Get("query"),
					OperationName: query.Get("operationName"),
				}
				if variables := query.Get("variables"); variables != "" {
					if err := json.Unmarshal([]byte(variables), &body.Variables); err != nil {
						http.Error(w, "Variables are invalid", http.StatusBadRequest)
						return
					}
				}
				writeResult(w, execute(r.Context(), body))
			}),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern,
			Handler: rg.withClaims(func(w http.ResponseWriter, r *http.Request) {
				if r.Body == nil {
					http.Error(w, "No request body", http.StatusBadRequest)
					return
				}

				var body RequestBody
				err := json.NewDecoder(r.Body).Decode(&body)
				if err != nil {
					http.Error(w, "Request body is invalid", http.StatusBadRequest)
					return
				}

				writeResult(w, execute(r.Context(), body))
			}),
		},
	}
}

// withClaims makes the caller of a valid bearer token available to the resolvers
func (rg *RouteGenerator) withClaims(handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := rg.tokens.FromRequest(r)
		if err != nil {
			rg.logger.Debug("ignoring invalid token", "error", err)
		}
		if claims != nil {
			r = r.WithContext(auth.WithContextClaims(r.Context(), claims))
		}
		handler(w, r)
	})
}

func writeResult(w http.ResponseWriter, result *graphql.Result) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	err := json.NewEncoder(w).Encode(result)
	if err != nil {
		http.Error(w, "response could not be encoded: "+err.Error(), http.StatusInternalServerError)
	}
}

func (rg *RouteGenerator) executeQuery(ctx context.Context, body RequestBody, schema graphql.Schema) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  body.Query,
		OperationName:  body.OperationName,
		VariableValues: body.Variables,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		rg.logger.Debug("errors processing graphql query", "errors", result.Errors)
	}
	return result
}
