package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vanshika/georoute/backend/internal/domain"
	"github.com/vanshika/georoute/backend/internal/pathfinder"
)

// NetworkRepository is the storage contract required by the network service.
type NetworkRepository interface {
	CreateNode(ctx context.Context, node domain.Node) (domain.Node, error)
	ImportNode(ctx context.Context, node domain.Node) error
	UpdateNode(ctx context.Context, node domain.Node) (domain.Node, error)
	DeleteNode(ctx context.Context, id int64) error
	ListNodes(ctx context.Context) ([]domain.Node, error)
	CreateEdge(ctx context.Context, edge domain.Edge) (domain.Edge, error)
	ImportEdge(ctx context.Context, edge domain.Edge) error
	ListEdges(ctx context.Context) ([]domain.Edge, error)
	Snapshot(ctx context.Context) (domain.NetworkSnapshot, error)
}

// Route query outcomes reported to a RouteObserver.
const (
	RouteResultFound   = "found"
	RouteResultNoRoute = "no_route"
	RouteResultError   = "error"
)

// RouteObserver receives the outcome of every route query.
type RouteObserver interface {
	ObserveRoute(result string, stops int, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveRoute(string, int, time.Duration) {}

// NetworkService validates requests, delegates persistence to the repository
// and answers route queries from a fresh snapshot each time.
type NetworkService struct {
	repo     NetworkRepository
	observer RouteObserver
	nowFn    func() time.Time
}

// NewNetworkService constructs a NetworkService. A nil observer discards
// route outcomes.
func NewNetworkService(repo NetworkRepository, observer RouteObserver) *NetworkService {
	if observer == nil {
		observer = noopObserver{}
	}
	return &NetworkService{
		repo:     repo,
		observer: observer,
		nowFn:    time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *NetworkService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// ListNodes returns every node.
func (s *NetworkService) ListNodes(ctx context.Context) ([]domain.Node, error) {
	return s.repo.ListNodes(ctx)
}

// CreateNode validates and stores a new node.
func (s *NetworkService) CreateNode(ctx context.Context, input NodeInput) (domain.Node, error) {
	if err := validateNode(input); err != nil {
		return domain.Node{}, err
	}
	node := input.toDomain()
	node.ID = 0
	return s.repo.CreateNode(ctx, node)
}

// UpdateNode replaces the name and coordinates of node id.
func (s *NetworkService) UpdateNode(ctx context.Context, id int64, input NodeInput) (domain.Node, error) {
	if id <= 0 {
		return domain.Node{}, invalid("node id must be positive")
	}
	if err := validateNode(input); err != nil {
		return domain.Node{}, err
	}
	node := input.toDomain()
	node.ID = id
	return s.repo.UpdateNode(ctx, node)
}

// DeleteNode removes node id and its connections.
func (s *NetworkService) DeleteNode(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("node id must be positive")
	}
	return s.repo.DeleteNode(ctx, id)
}

// ImportNode stores a node keeping its own id.
func (s *NetworkService) ImportNode(ctx context.Context, input NodeInput) error {
	if input.ID <= 0 {
		return invalid("node id must be positive")
	}
	if err := validateNode(input); err != nil {
		return fmt.Errorf("node %d: %w", input.ID, err)
	}
	return s.repo.ImportNode(ctx, input.toDomain())
}

// ListEdges returns every connection.
func (s *NetworkService) ListEdges(ctx context.Context) ([]domain.Edge, error) {
	return s.repo.ListEdges(ctx)
}

// CreateEdge validates and stores a directed connection.
func (s *NetworkService) CreateEdge(ctx context.Context, input EdgeInput) (domain.Edge, error) {
	if err := validateEdge(input); err != nil {
		return domain.Edge{}, err
	}
	return s.repo.CreateEdge(ctx, input.toDomain())
}

// ImportEdge stores a connection unless an identical one already exists, so
// re-running an import leaves the network unchanged.
func (s *NetworkService) ImportEdge(ctx context.Context, input EdgeInput) error {
	if err := validateEdge(input); err != nil {
		return err
	}
	return s.repo.ImportEdge(ctx, input.toDomain())
}

// Snapshot reads the whole network.
func (s *NetworkService) Snapshot(ctx context.Context) (domain.NetworkSnapshot, error) {
	return s.repo.Snapshot(ctx)
}

// ShortestPath computes the route for q over the current network. It returns
// an error matching pathfinder.ErrNoRoute when any leg is unreachable.
func (s *NetworkService) ShortestPath(ctx context.Context, q RouteQuery) (domain.Route, error) {
	start := s.nowFn()
	stops := q.Stops()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		s.observer.ObserveRoute(RouteResultError, len(stops), s.nowFn().Sub(start))
		return domain.Route{}, fmt.Errorf("load network: %w", err)
	}

	route, err := pathfinder.FromSnapshot(snap).ComposeRoute(stops)
	switch {
	case errors.Is(err, pathfinder.ErrNoRoute):
		s.observer.ObserveRoute(RouteResultNoRoute, len(stops), s.nowFn().Sub(start))
		return domain.Route{}, err
	case err != nil:
		s.observer.ObserveRoute(RouteResultError, len(stops), s.nowFn().Sub(start))
		return domain.Route{}, err
	}

	s.observer.ObserveRoute(RouteResultFound, len(stops), s.nowFn().Sub(start))
	return route, nil
}
