package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobly/jobly-api/config"
	"github.com/jobly/jobly-api/db"
	"github.com/jobly/jobly-api/endpoint"
	"github.com/jobly/jobly-api/graphql"
	"github.com/jobly/jobly-api/log"
)

const defaultGraphQLPath = "/graphql"
const defaultRESTPath = "/"
const defaultGraphQLPlaygroundPath = "/graphql-playground"
const shutdownTimeout = 10 * time.Second

// Environment variables prefixed with "JOBLY_" can override settings e.g. "JOBLY_DATABASE_URL"
const envVarPrefix = "jobly"

var cfgFile string
var logger log.Logger

var rootCmd = &cobra.Command{
	Use:   "jobly",
	Short: "REST and GraphQL API of the jobly job board",
	Args:  cobra.NoArgs,
	Run:   serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST and GraphQL endpoints",
	Args:  cobra.NoArgs,
	Run:   serve,
}

// Execute runs the command selected by the process arguments, serving the API by default
func Execute() {
	// Variables of a .env file do not override the ones already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log2.Fatalf("unable to load .env file: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	logger = log.NewZapLogger(zapLogger)

	flags := rootCmd.PersistentFlags()

	// General flags
	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.String("database-url", db.DefaultDatabaseURL, "database url, postgres:// or sqlite3://")
	flags.Int("db-max-open-conns", 10, "maximum number of open database connections")
	flags.Duration("db-query-timeout", 5*time.Second, "timeout of a single database statement, 0 to disable")
	flags.Duration("db-slow-query-threshold", 500*time.Millisecond, "statements slower than this are logged as warnings")
	flags.Bool("db-log-args", false, "include the bound values in statement logs, which may contain credentials")
	flags.Bool("migrate-on-start", false, "apply the pending database migrations before serving")
	flags.String("secret-key", endpoint.DefaultSecretKey, "key used to sign authentication tokens")
	flags.Duration("token-ttl", endpoint.DefaultTokenTTL, "lifetime of authentication tokens, 0 for tokens that never expire")

	// Server flags, shared by serve and the root command
	serverFlags := pflag.NewFlagSet("server", pflag.ExitOnError)
	serverFlags.Int("port", 3001, "port to bind the endpoints to")
	serverFlags.Bool("request-logging", false, "enable request logging")
	serverFlags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")
	serverFlags.String("rest-path", defaultRESTPath, "REST endpoint path")

	// GraphQL specific flags
	serverFlags.Bool("start-graphql", true, "start the GraphQL endpoint")
	serverFlags.String("graphql-path", defaultGraphQLPath, "GraphQL endpoint path")
	serverFlags.StringSlice("graphql-operations", []string{
		"CompanyQueries",
		"JobQueries",
		"UserQueries",
	}, "list of supported GraphQL queries. options: CompanyQueries,JobQueries,UserQueries")
	serverFlags.Bool("graphql-playground", true, "expose a GraphQL playground route")
	serverFlags.String("graphql-playground-path", defaultGraphQLPlaygroundPath, "path for the GraphQL playground static file")

	rootCmd.Flags().AddFlagSet(serverFlags)
	serveCmd.Flags().AddFlagSet(serverFlags)

	for _, fs := range []*pflag.FlagSet{flags, serverFlags} {
		fs.VisitAll(func(flag *pflag.Flag) {
			if flag.Name != "config" {
				_ = viper.BindPFlag(flag.Name, fs.Lookup(flag.Name))
			}
		})
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)
	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) {
	ep := createEndpoint()
	defer ep.Close()

	router := createRouter()
	addRESTRoutes(router, ep)
	endpointNames := "REST"
	if viper.GetBool("start-graphql") {
		if viper.GetString("graphql-path") == viper.GetString("rest-path") {
			logger.Fatal("graphql and rest paths can not be the same")
		}
		addGraphQLRoutes(router, ep)
		endpointNames += "/GraphQL"
	}

	listenAndServe(router, viper.GetInt("port"), endpointNames)
}

func dbConfig() db.Config {
	cfg, err := db.ConfigFromURL(viper.GetString("database-url"))
	if err != nil {
		logger.Fatal("invalid database url", "error", err)
	}

	cfg.MaxOpenConns = viper.GetInt("db-max-open-conns")
	cfg.MaxIdleConns = cfg.MaxOpenConns
	cfg.QueryTimeout = viper.GetDuration("db-query-timeout")
	cfg.ConnectRetries = 5
	cfg.RetryDelay = time.Second
	cfg.Hooks = []db.Hook{db.NewLogHook(logger.With("component", "db"), db.LogHookConfig{
		SlowQueryThreshold: viper.GetDuration("db-slow-query-threshold"),
		LogArgs:            viper.GetBool("db-log-args"),
	})}
	return cfg
}

func createEndpoint() *endpoint.JoblyEndpoint {
	cfg := endpoint.NewEndpointConfigWithLogger(logger, dbConfig())

	supportedOps := getStringSlice("graphql-operations")
	ops, err := config.Ops(supportedOps...)
	if err != nil {
		logger.Fatal("invalid supported operation", "operations", supportedOps, "error", err)
	}

	secretKey := viper.GetString("secret-key")
	if secretKey == endpoint.DefaultSecretKey {
		logger.Warn("using the development secret key, set --secret-key in production")
	}

	cfg.
		WithSecretKey(secretKey).
		WithTokenTTL(viper.GetDuration("token-ttl")).
		WithSupportedOperations(ops).
		WithMigrateOnStart(viper.GetBool("migrate-on-start"))

	ep, err := cfg.NewEndpoint()
	if err != nil {
		logger.Fatal("unable create new endpoint",
			"error", err)
	}

	return ep
}

func addRESTRoutes(router *httprouter.Router, ep *endpoint.JoblyEndpoint) {
	for _, route := range ep.RoutesRest(viper.GetString("rest-path")) {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
}

func addGraphQLRoutes(router *httprouter.Router, ep *endpoint.JoblyEndpoint) {
	rootPath := viper.GetString("graphql-path")
	routes, err := ep.RoutesGraphQL(rootPath)
	if err != nil {
		logger.Fatal("unable to generate graphql routes",
			"error", err)
	}

	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}

	if viper.GetBool("graphql-playground") {
		playgroundPath := viper.GetString("graphql-playground-path")
		hostAndPort := fmt.Sprintf("http://localhost:%d", viper.GetInt("port"))
		defaultEndpointUrl := fmt.Sprintf("%s%s", hostAndPort, rootPath)
		logger.Info("get started by visiting the GraphQL playground",
			"url", fmt.Sprintf("%s%s", hostAndPort, playgroundPath))
		router.GET(playgroundPath, graphql.GetPlaygroundHandle(defaultEndpointUrl))
	}
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func createRouter() *httprouter.Router {
	router := httprouter.New()
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Access-Control-Request-Method") != "" {
				header := w.Header()
				header.Set("Access-Control-Allow-Methods", r.Header.Get("Access-Control-Request-Method"))
				header.Set("Access-Control-Allow-Headers", r.Header.Get("Access-Control-Request-Headers"))
				header.Set("Access-Control-Allow-Origin", value)
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
	return router
}

// listenAndServe serves handler until the process receives SIGINT or SIGTERM
func listenAndServe(handler http.Handler, port int, endpointNames string) {
	logger.Info("server listening",
		"port", port,
		"type", endpointNames)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: maybeAddCORS(maybeAddRequestLogging(handler)),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("unable to start server",
				"port", port,
				"error", err)
		}
	case sig := <-shutdown:
		logger.Info("shutting down server", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("unable to shut down server gracefully", "error", err)
		}
	}
}

func getStringSlice(key string) []string {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		logger.Fatal("invalid string slice value for setting",
			"error", err,
			"key", key,
			"value", value)
	}
	return slice
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
