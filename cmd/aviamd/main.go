// Package main is the entry point for the authorization service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vyrodovalexey/aviam/internal/authz"
	"github.com/vyrodovalexey/aviam/internal/cache"
	"github.com/vyrodovalexey/aviam/internal/config"
	"github.com/vyrodovalexey/aviam/internal/observability"
	"github.com/vyrodovalexey/aviam/internal/policystore"
	"github.com/vyrodovalexey/aviam/internal/server"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}

	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting aviamd",
		observability.String("version", version),
		observability.String("config", flags.configPath),
	)

	app := initApplication(cfg, logger)
	run(app, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("AVIAM_CONFIG_PATH", "configs/aviam.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", os.Getenv("AVIAM_LOG_LEVEL"),
		"Log level override (debug, info, warn, error)")
	logFormat := flag.String("log-format", os.Getenv("AVIAM_LOG_FORMAT"),
		"Log format override (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("aviamd version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(cfg *config.Config) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// application holds all application components.
type application struct {
	server     *server.Server
	store      *policystore.Store
	watcher    *policystore.Watcher
	authorizer authz.Authorizer
	metrics    *authz.Metrics
	config     *config.Config
}

// initApplication initializes all application components.
func initApplication(cfg *config.Config, logger observability.Logger) *application {
	metrics := authz.NewMetrics("aviam")

	store := policystore.NewStore(cfg.Policy.Path, policystore.WithLogger(logger))
	if err := store.Load(); err != nil {
		logger.Fatal("failed to load policies", observability.Error(err))
	}
	metrics.SetPolicyCount(len(store.Collection()))

	decisionCache := initDecisionCache(cfg, logger, metrics)

	authorizer := authz.New(store,
		authz.WithAuthorizerLogger(logger),
		authz.WithAuthorizerMetrics(metrics),
		authz.WithDecisionCache(decisionCache),
	)

	srv := server.NewServer(cfg.Server, authorizer, store,
		server.WithServerLogger(logger),
	)

	return &application{
		server:     srv,
		store:      store,
		authorizer: authorizer,
		metrics:    metrics,
		config:     cfg,
	}
}

// initDecisionCache builds the decision cache from configuration. Both
// cache types go through the byte-level backend dispatch.
func initDecisionCache(
	cfg *config.Config,
	logger observability.Logger,
	metrics *authz.Metrics,
) authz.DecisionCache {
	if !cfg.Cache.Enabled {
		return authz.NewNoopDecisionCache()
	}

	ttl := cfg.Cache.TTL.Duration()
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	backend, err := cache.New(&cfg.Cache, logger)
	if err != nil {
		logger.Fatal("failed to initialize cache backend", observability.Error(err))
	}

	return authz.NewExternalDecisionCache(backend, ttl,
		authz.WithExternalCacheLogger(logger),
		authz.WithExternalCacheMetrics(metrics),
	)
}

// run starts the service and handles shutdown.
func run(app *application, logger observability.Logger) {
	if app.config.Policy.Watch {
		app.watcher = startPolicyWatcher(app, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	waitForShutdown(app, errCh, logger)
}

// startPolicyWatcher starts the policy file watcher.
func startPolicyWatcher(app *application, logger observability.Logger) *policystore.Watcher {
	opts := []policystore.WatcherOption{
		policystore.WithWatcherLogger(logger),
		policystore.WithReloadCallback(func() {
			app.authorizer.ClearCache(context.Background())
			app.metrics.RecordReload("success")
			app.metrics.SetPolicyCount(len(app.store.Collection()))
		}),
		policystore.WithErrorCallback(func(error) {
			app.metrics.RecordReload("error")
		}),
	}
	if delay := app.config.Policy.DebounceDelay.Duration(); delay > 0 {
		opts = append(opts, policystore.WithDebounceDelay(delay))
	}

	watcher, err := policystore.NewWatcher(app.store, opts...)
	if err != nil {
		logger.Warn("failed to create policy watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start policy watcher", observability.Error(err))
	}

	return watcher
}

// waitForShutdown waits for a signal or server failure, then shuts
// everything down gracefully.
func waitForShutdown(app *application, errCh <-chan error, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", observability.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", observability.Error(err))
		}
	}

	timeout := app.config.Server.ShutdownTimeout.Duration()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if app.watcher != nil {
		_ = app.watcher.Stop()
	}

	if err := app.server.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop server gracefully", observability.Error(err))
	}

	if err := app.authorizer.Close(); err != nil {
		logger.Error("failed to close authorizer", observability.Error(err))
	}

	logger.Info("aviamd stopped")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
