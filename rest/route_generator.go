package rest

import (
	"github.com/jobly/jobly-api/config"
	"github.com/jobly/jobly-api/db"
	restEndpointV1 "github.com/jobly/jobly-api/rest/endpoint/v1"
	"github.com/jobly/jobly-api/types"
)

type RouteGenerator struct {
	store  db.Store
	config config.Config
}

func NewRouteGenerator(
	store db.Store,
	cfg config.Config,
) *RouteGenerator {
	return &RouteGenerator{
		store:  store,
		config: cfg,
	}
}

// Routes returns the REST routes under prefix; the health route reports the service unavailable until ready returns true
func (g *RouteGenerator) Routes(prefix string, ready func() bool) []types.Route {
	return restEndpointV1.Routes(prefix, g.config, g.store, ready)
}
