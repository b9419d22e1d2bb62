package endpoint

import (
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/jobly/jobly-api/config"
	"github.com/jobly/jobly-api/db"
	"github.com/jobly/jobly-api/graphql"
	"github.com/jobly/jobly-api/log"
	"github.com/jobly/jobly-api/rest"
	"github.com/jobly/jobly-api/types"
)

const (
	DefaultTokenTTL  = 24 * time.Hour
	DefaultSecretKey = "secret-dev"
)

type JoblyEndpointConfig struct {
	dbConfig       db.Config
	secretKey      string
	tokenTTL       time.Duration
	naming         config.NamingConventionFn
	supportedOps   config.Operations
	migrateOnStart bool
	logger         log.Logger
}

func (cfg JoblyEndpointConfig) SecretKey() string {
	return cfg.secretKey
}

func (cfg JoblyEndpointConfig) TokenTTL() time.Duration {
	return cfg.tokenTTL
}

func (cfg JoblyEndpointConfig) Naming() config.NamingConventionFn {
	return cfg.naming
}

func (cfg JoblyEndpointConfig) SupportedOperations() config.Operations {
	return cfg.supportedOps
}

func (cfg JoblyEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *JoblyEndpointConfig) WithDbConfig(dbConfig db.Config) *JoblyEndpointConfig {
	cfg.dbConfig = dbConfig
	return cfg
}

func (cfg *JoblyEndpointConfig) WithSecretKey(secretKey string) *JoblyEndpointConfig {
	cfg.secretKey = secretKey
	return cfg
}

func (cfg *JoblyEndpointConfig) WithTokenTTL(tokenTTL time.Duration) *JoblyEndpointConfig {
	cfg.tokenTTL = tokenTTL
	return cfg
}

func (cfg *JoblyEndpointConfig) WithNaming(naming config.NamingConventionFn) *JoblyEndpointConfig {
	cfg.naming = naming
	return cfg
}

func (cfg *JoblyEndpointConfig) WithSupportedOperations(supportedOps config.Operations) *JoblyEndpointConfig {
	cfg.supportedOps = supportedOps
	return cfg
}

// WithMigrateOnStart applies the pending schema migrations when the endpoint is created
func (cfg *JoblyEndpointConfig) WithMigrateOnStart(migrateOnStart bool) *JoblyEndpointConfig {
	cfg.migrateOnStart = migrateOnStart
	return cfg
}

// NewEndpoint opens the database, migrates it when enabled, and marks the endpoint ready.
// Migrations run once the database answers, so they wait for the connection retries of Open.
func (cfg JoblyEndpointConfig) NewEndpoint() (*JoblyEndpoint, error) {
	dbClient, err := db.Open(cfg.dbConfig, cfg.logger)
	if err != nil {
		return nil, err
	}

	if cfg.migrateOnStart {
		if err := db.MigrateUp(cfg.dbConfig, cfg.logger); err != nil {
			_ = dbClient.Close()
			return nil, err
		}
	}

	endpoint := cfg.newEndpointWithStore(dbClient)
	endpoint.closer = dbClient
	endpoint.SetReady(true)
	return endpoint, nil
}

func (cfg JoblyEndpointConfig) newEndpointWithStore(store db.Store) *JoblyEndpoint {
	return &JoblyEndpoint{
		graphQLRouteGen: graphql.NewRouteGenerator(store, cfg),
		restRouteGen:    rest.NewRouteGenerator(store, cfg),
		store:           store,
		supportedOps:    cfg.supportedOps,
		ready:           atomic.NewBool(false),
	}
}

type JoblyEndpoint struct {
	graphQLRouteGen *graphql.RouteGenerator
	restRouteGen    *rest.RouteGenerator
	store           db.Store
	supportedOps    config.Operations
	ready           *atomic.Bool
	closer          interface{ Close() error }
}

func NewEndpointConfig(dbConfig db.Config) (*JoblyEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), dbConfig), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, dbConfig db.Config) *JoblyEndpointConfig {
	return &JoblyEndpointConfig{
		dbConfig:     dbConfig,
		secretKey:    DefaultSecretKey,
		tokenTTL:     DefaultTokenTTL,
		naming:       config.NewDefaultNaming,
		supportedOps: config.AllOperations,
		logger:       logger,
	}
}

// SetReady changes the state reported by the health route
func (e *JoblyEndpoint) SetReady(ready bool) {
	e.ready.Store(ready)
}

func (e *JoblyEndpoint) Ready() bool {
	return e.ready.Load()
}

// Close releases the database connections
func (e *JoblyEndpoint) Close() error {
	e.SetReady(false)
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

func (e *JoblyEndpoint) RoutesRest(prefix string) []types.Route {
	return e.restRouteGen.Routes(prefix, e.Ready)
}

func (e *JoblyEndpoint) RoutesGraphQL(pattern string) ([]types.Route, error) {
	return e.graphQLRouteGen.Routes(pattern, e.supportedOps)
}
