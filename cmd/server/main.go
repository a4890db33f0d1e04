package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vanshika/georoute/backend/internal/config"
	"github.com/vanshika/georoute/backend/internal/graph"
	"github.com/vanshika/georoute/backend/internal/logging"
	"github.com/vanshika/georoute/backend/internal/metrics"
	"github.com/vanshika/georoute/backend/internal/repository"
	"github.com/vanshika/georoute/backend/internal/server"
	"github.com/vanshika/georoute/backend/internal/service"
)

func main() {
	ctx := context.Background()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("ignoring unreadable .env file", "error", envErr)
	}

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	deps := server.RouterDependencies{
		Health: server.GraphHealthService{Client: graphClient},
		CORS:   cfg.HTTP.CORS,
	}

	var routeObserver service.RouteObserver
	if cfg.HTTP.Metrics.Enabled {
		recorder := metrics.New()
		routeObserver = recorder
		deps.Requests = recorder
		deps.Metrics = recorder.Handler()
	}

	repo := repository.New(graphClient)
	networkService := service.NewNetworkService(repo, routeObserver)
	deps.API = server.NewAPIHandlers(logger, networkService)

	srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, deps))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
