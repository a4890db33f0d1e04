package generator

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vanshika/georoute/backend/internal/domain"
	"github.com/vanshika/georoute/backend/internal/pathfinder"
	"github.com/vanshika/georoute/backend/internal/service"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 4, 5
	cfg.OneWayChance = 0
	cfg.Seed = 7
	return cfg
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := New(smallConfig()).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	b, err := New(smallConfig()).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different datasets (-first +second):\n%s", diff)
	}
	if len(a.Nodes) != 20 {
		t.Fatalf("expected 20 nodes, got %d", len(a.Nodes))
	}
}

func TestGenerate_GridIsRoutable(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	snap := domain.NetworkSnapshot{}
	byID := make(map[int64]domain.Node)
	for _, n := range ds.Nodes {
		node := domain.Node{ID: n.ID, Name: n.Name, Lat: n.Lat, Lng: n.Lng}
		byID[n.ID] = node
		snap.Nodes = append(snap.Nodes, node)
	}
	for _, e := range ds.Edges {
		a, b := byID[e.From], byID[e.To]
		if e.Weight < math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)-1e-6 {
			t.Fatalf("edge %d->%d lighter than its length", e.From, e.To)
		}
		snap.Edges = append(snap.Edges, domain.Edge{From: e.From, To: e.To, Weight: e.Weight})
	}

	first, last := ds.Nodes[0].ID, ds.Nodes[len(ds.Nodes)-1].ID
	if _, err := pathfinder.FromSnapshot(snap).ComposeRoute([]int64{first, last}); err != nil {
		t.Fatalf("expected corner-to-corner route, got %v", err)
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(smallConfig()).Generate(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestWriteDataset(t *testing.T) {
	dir := t.TempDir()
	ds := Dataset{
		Nodes: []service.NodeInput{{ID: 1, Name: "A", Lat: 1, Lng: 2}, {ID: 2, Name: "B"}},
		Edges: []service.EdgeInput{{From: 1, To: 2, Weight: 0.5}},
	}
	if err := WriteDataset(ds, dir); err != nil {
		t.Fatalf("WriteDataset() error: %v", err)
	}

	var nodes []service.NodeInput
	readJSON(t, filepath.Join(dir, NodesFile), &nodes)
	if diff := cmp.Diff(ds.Nodes, nodes); diff != "" {
		t.Errorf("nodes round trip mismatch (-want +got):\n%s", diff)
	}
	var edges []service.EdgeInput
	readJSON(t, filepath.Join(dir, EdgesFile), &edges)
	if diff := cmp.Diff(ds.Edges, edges); diff != "" {
		t.Errorf("edges round trip mismatch (-want +got):\n%s", diff)
	}
}

func readJSON(t *testing.T, path string, dst any) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}
