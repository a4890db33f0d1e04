package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/georoute/backend/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		rows           = flag.Int("rows", cfg.Rows, "number of grid rows")
		cols           = flag.Int("cols", cfg.Cols, "number of grid columns")
		centerLat      = flag.Float64("center-lat", cfg.CenterLat, "latitude of the grid centre")
		centerLng      = flag.Float64("center-lng", cfg.CenterLng, "longitude of the grid centre")
		spacing        = flag.Float64("spacing", cfg.Spacing, "degrees between neighbouring intersections")
		jitter         = flag.Float64("jitter", cfg.Jitter, "fraction of spacing an intersection may drift")
		shortcutChance = flag.Float64("shortcut-chance", cfg.ShortcutChance, "probability of an extra long-range connection per node")
		oneWayChance   = flag.Float64("one-way-chance", cfg.OneWayChance, "probability that a street only runs one way")
		seed           = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir      = flag.String("output-dir", "seed-data", "directory to write nodes.json and edges.json")
		writeStdout    = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		Rows:           *rows,
		Cols:           *cols,
		CenterLat:      *centerLat,
		CenterLng:      *centerLng,
		Spacing:        *spacing,
		Jitter:         clampProbability(*jitter),
		ShortcutChance: clampProbability(*shortcutChance),
		OneWayChance:   clampProbability(*oneWayChance),
		Seed:           *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes and %d connections into %s\n", len(dataset.Nodes), len(dataset.Edges), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
