package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vanshika/georoute/backend/internal/config"
	"github.com/vanshika/georoute/backend/internal/generator"
	"github.com/vanshika/georoute/backend/internal/graph"
	"github.com/vanshika/georoute/backend/internal/logging"
	"github.com/vanshika/georoute/backend/internal/osmimport"
	"github.com/vanshika/georoute/backend/internal/repository"
	"github.com/vanshika/georoute/backend/internal/service"
)

var (
	errMissingDataset = errors.New("dataset not found")
)

func main() {
	var (
		datasetDir = flag.String("dataset-dir", "./seed-data", "Directory containing nodes.json and edges.json")
		nodesPath  = flag.String("nodes", "", "Path to nodes.json (overrides dataset-dir)")
		edgesPath  = flag.String("edges", "", "Path to edges.json (overrides dataset-dir)")
		osmPath    = flag.String("osm", "", "OpenStreetMap XML extract to import instead of a JSON dataset")
		workers    = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("ignoring unreadable .env file", "error", envErr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var network osmimport.Network
	if *osmPath != "" {
		network, err = loadOSM(ctx, *osmPath)
		if err != nil {
			logger.Error("failed to read osm extract", "error", err, "path", *osmPath)
			os.Exit(1)
		}
	} else {
		network, err = loadDataset(*datasetDir, *nodesPath, *edgesPath)
		if err != nil {
			logger.Error("failed to load dataset", "error", err)
			os.Exit(1)
		}
	}
	if len(network.Nodes) == 0 {
		logger.Error("dataset has no nodes")
		os.Exit(1)
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

	repo := repository.New(graphClient)
	svc := service.NewNetworkService(repo, nil)
	importer := service.NewBulkImporter(svc, *workers)

	start := time.Now()
	logger.Info("importing nodes", "count", len(network.Nodes), "workers", *workers)
	if err := importer.ImportNodes(ctx, network.Nodes); err != nil {
		logger.Error("node import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("importing connections", "count", len(network.Edges))
	if err := importer.ImportEdges(ctx, network.Edges); err != nil {
		logger.Error("connection import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "nodes", len(network.Nodes), "connections", len(network.Edges))
}

func loadOSM(ctx context.Context, path string) (osmimport.Network, error) {
	file, err := os.Open(path)
	if err != nil {
		return osmimport.Network{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return osmimport.Read(ctx, file)
}

func loadDataset(baseDir, nodesPath, edgesPath string) (osmimport.Network, error) {
	nodesFile, edgesFile, err := resolveDatasetPaths(baseDir, nodesPath, edgesPath)
	if err != nil {
		return osmimport.Network{}, err
	}

	var network osmimport.Network
	if err := loadJSON(nodesFile, &network.Nodes); err != nil {
		return osmimport.Network{}, err
	}
	if err := loadJSON(edgesFile, &network.Edges); err != nil {
		return osmimport.Network{}, err
	}
	return network, nil
}

func resolveDatasetPaths(baseDir, nodesPath, edgesPath string) (string, string, error) {
	resolve := func(explicitPath, fallbackFile string) (string, error) {
		if explicitPath != "" {
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, fallbackFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", errMissingDataset, path)
		}
		return path, nil
	}

	nodesFile, err := resolve(nodesPath, generator.NodesFile)
	if err != nil {
		return "", "", err
	}
	edgesFile, err := resolve(edgesPath, generator.EdgesFile)
	if err != nil {
		return "", "", err
	}
	return nodesFile, edgesFile, nil
}

func loadJSON(path string, target any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
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
