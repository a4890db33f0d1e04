package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vanshika/georoute/backend/internal/domain"
	"github.com/vanshika/georoute/backend/internal/pathfinder"
	"github.com/vanshika/georoute/backend/internal/repository"
)

type stubRepository struct {
	mu          sync.Mutex
	nodes       []domain.Node
	edges       []domain.Edge
	imported    []domain.Node
	snapshotErr error
	edgeErr     error
}

func (s *stubRepository) CreateNode(ctx context.Context, node domain.Node) (domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node.ID = int64(len(s.nodes) + 1)
	s.nodes = append(s.nodes, node)
	return node, nil
}

func (s *stubRepository) ImportNode(ctx context.Context, node domain.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imported = append(s.imported, node)
	return nil
}

func (s *stubRepository) UpdateNode(ctx context.Context, node domain.Node) (domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		if s.nodes[i].ID == node.ID {
			s.nodes[i] = node
			return node, nil
		}
	}
	return domain.Node{}, repository.ErrNotFound
}

func (s *stubRepository) DeleteNode(ctx context.Context, id int64) error {
	return nil
}

func (s *stubRepository) ListNodes(ctx context.Context) ([]domain.Node, error) {
	return s.nodes, nil
}

func (s *stubRepository) CreateEdge(ctx context.Context, edge domain.Edge) (domain.Edge, error) {
	if s.edgeErr != nil {
		return domain.Edge{}, s.edgeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	edge.ID = int64(len(s.edges) + 1)
	s.edges = append(s.edges, edge)
	return edge, nil
}

// ImportEdge keeps at most one connection per endpoints and weight.
func (s *stubRepository) ImportEdge(ctx context.Context, edge domain.Edge) error {
	if s.edgeErr != nil {
		return s.edgeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.edges {
		if e.From == edge.From && e.To == edge.To && e.Weight == edge.Weight {
			return nil
		}
	}
	edge.ID = int64(len(s.edges) + 1)
	s.edges = append(s.edges, edge)
	return nil
}

func (s *stubRepository) ListEdges(ctx context.Context) ([]domain.Edge, error) {
	return s.edges, nil
}

func (s *stubRepository) Snapshot(ctx context.Context) (domain.NetworkSnapshot, error) {
	if s.snapshotErr != nil {
		return domain.NetworkSnapshot{}, s.snapshotErr
	}
	return domain.NetworkSnapshot{Nodes: s.nodes, Edges: s.edges}, nil
}

type observation struct {
	result string
	stops  int
}

type recordingObserver struct {
	seen    []observation
	elapsed []time.Duration
}

func (r *recordingObserver) ObserveRoute(result string, stops int, elapsed time.Duration) {
	r.seen = append(r.seen, observation{result: result, stops: stops})
	r.elapsed = append(r.elapsed, elapsed)
}

// steppingClock advances by step on every reading.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func triangleRepo() *stubRepository {
	return &stubRepository{
		nodes: []domain.Node{
			{ID: 1, Name: "A", Lat: 0, Lng: 0},
			{ID: 2, Name: "B", Lat: 0, Lng: 3},
			{ID: 3, Name: "C", Lat: 4, Lng: 3},
		},
		edges: []domain.Edge{
			{ID: 1, From: 1, To: 2, Weight: 3},
			{ID: 2, From: 2, To: 3, Weight: 4},
			{ID: 3, From: 1, To: 3, Weight: 10},
		},
	}
}

func TestNetworkService_CreateNodeValidation(t *testing.T) {
	svc := NewNetworkService(&stubRepository{}, nil)

	testCases := []struct {
		desc  string
		input NodeInput
	}{
		{desc: "blank name", input: NodeInput{Name: "   ", Lat: 1, Lng: 1}},
		{desc: "latitude out of range", input: NodeInput{Name: "x", Lat: 91, Lng: 0}},
		{desc: "longitude out of range", input: NodeInput{Name: "x", Lat: 0, Lng: -181}},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if _, err := svc.CreateNode(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestNetworkService_CreateNodeSanitizesName(t *testing.T) {
	repo := &stubRepository{}
	svc := NewNetworkService(repo, nil)

	got, err := svc.CreateNode(context.Background(), NodeInput{ID: 99, Name: "  Central   Station ", Lat: 10, Lng: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Node{ID: 1, Name: "Central Station", Lat: 10, Lng: 20}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateNode(): mismatch (-want +got):\n%s", diff)
	}
}

func TestNetworkService_UpdateMissingNode(t *testing.T) {
	svc := NewNetworkService(&stubRepository{}, nil)

	_, err := svc.UpdateNode(context.Background(), 5, NodeInput{Name: "x"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNetworkService_CreateEdgeRejectsNegativeWeight(t *testing.T) {
	repo := &stubRepository{}
	svc := NewNetworkService(repo, nil)

	_, err := svc.CreateEdge(context.Background(), EdgeInput{From: 1, To: 2, Weight: -1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.edges) != 0 {
		t.Fatalf("invalid edge should not be stored")
	}
}

func TestNetworkService_ShortestPath(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewNetworkService(triangleRepo(), obs)

	route, err := svc.ShortestPath(context.Background(), RouteQuery{Origin: 1, Dest: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []int64
	for _, n := range route.Path {
		ids = append(ids, n.ID)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, ids); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if route.Distance != 7.0 {
		t.Errorf("expected distance 7.0, got %v", route.Distance)
	}
	if diff := cmp.Diff([]observation{{RouteResultFound, 2}}, obs.seen, cmp.AllowUnexported(observation{})); diff != "" {
		t.Errorf("observations mismatch (-want +got):\n%s", diff)
	}
}

func TestNetworkService_ShortestPathNoRoute(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewNetworkService(triangleRepo(), obs)

	_, err := svc.ShortestPath(context.Background(), RouteQuery{Origin: 1, Dest: 4})
	if !errors.Is(err, pathfinder.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}

	_, err = svc.ShortestPath(context.Background(), RouteQuery{Origin: 1, Waypoints: []int64{3}, Dest: 2})
	if !errors.Is(err, pathfinder.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute through waypoint, got %v", err)
	}

	want := []observation{{RouteResultNoRoute, 2}, {RouteResultNoRoute, 3}}
	if diff := cmp.Diff(want, obs.seen, cmp.AllowUnexported(observation{})); diff != "" {
		t.Errorf("observations mismatch (-want +got):\n%s", diff)
	}
}

func TestNetworkService_ShortestPathReportsElapsed(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewNetworkService(triangleRepo(), obs)
	svc.WithClock(steppingClock(5 * time.Millisecond))

	if _, err := svc.ShortestPath(context.Background(), RouteQuery{Origin: 1, Dest: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ShortestPath(context.Background(), RouteQuery{Origin: 3, Dest: 1}); !errors.Is(err, pathfinder.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}

	want := []time.Duration{5 * time.Millisecond, 5 * time.Millisecond}
	if diff := cmp.Diff(want, obs.elapsed); diff != "" {
		t.Errorf("elapsed mismatch (-want +got):\n%s", diff)
	}
}

func TestNetworkService_ShortestPathStoreFailure(t *testing.T) {
	repo := triangleRepo()
	repo.snapshotErr = errors.New("store offline")
	svc := NewNetworkService(repo, nil)

	_, err := svc.ShortestPath(context.Background(), RouteQuery{Origin: 1, Dest: 3})
	if err == nil || errors.Is(err, pathfinder.ErrNoRoute) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestRouteQuery_Stops(t *testing.T) {
	q := RouteQuery{Origin: 1, Waypoints: []int64{5, 6}, Dest: 9}
	if diff := cmp.Diff([]int64{1, 5, 6, 9}, q.Stops()); diff != "" {
		t.Errorf("Stops(): mismatch (-want +got):\n%s", diff)
	}
}
