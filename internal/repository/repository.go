package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/georoute/backend/internal/domain"
	"github.com/vanshika/georoute/backend/internal/graph"
)

// ErrNotFound is returned when a statement targets a node that does not exist.
var ErrNotFound = errors.New("not found")

// Repository persists the node network in the graph store. Nodes are :Place
// vertices and connections are :CONNECTS relationships carrying their own id
// and weight.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// CreateNode stores a node under the next id of the node sequence.
func (r *Repository) CreateNode(ctx context.Context, node domain.Node) (domain.Node, error) {
	res, err := r.client.ExecuteWrite(ctx, createNodeCypher, nodeParams(node))
	if err != nil {
		return domain.Node{}, fmt.Errorf("create node: %w", err)
	}
	rec, ok := res.First()
	if !ok {
		return domain.Node{}, errors.New("create node: no record returned")
	}
	return nodeFromRecord(rec), nil
}

// ImportNode stores a node under its own id, replacing any existing node with
// that id. The node sequence is advanced past the id so later creations do not
// collide with it.
func (r *Repository) ImportNode(ctx context.Context, node domain.Node) error {
	if node.ID <= 0 {
		return fmt.Errorf("import node: invalid id %d", node.ID)
	}
	params := nodeParams(node)
	params["id"] = node.ID
	if _, err := r.client.ExecuteWrite(ctx, importNodeCypher, params); err != nil {
		return fmt.Errorf("import node %d: %w", node.ID, err)
	}
	return nil
}

// UpdateNode overwrites the name and coordinates of an existing node.
func (r *Repository) UpdateNode(ctx context.Context, node domain.Node) (domain.Node, error) {
	params := nodeParams(node)
	params["id"] = node.ID
	res, err := r.client.ExecuteWrite(ctx, updateNodeCypher, params)
	if err != nil {
		return domain.Node{}, fmt.Errorf("update node %d: %w", node.ID, err)
	}
	rec, ok := res.First()
	if !ok {
		return domain.Node{}, fmt.Errorf("update node %d: %w", node.ID, ErrNotFound)
	}
	return nodeFromRecord(rec), nil
}

// DeleteNode removes a node together with every connection touching it.
func (r *Repository) DeleteNode(ctx context.Context, id int64) error {
	res, err := r.client.ExecuteWrite(ctx, deleteNodeCypher, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete node %d: %w", id, err)
	}
	rec, ok := res.First()
	if !ok || toInt64(rec["deleted"]) == 0 {
		return fmt.Errorf("delete node %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListNodes returns every node ordered by id.
func (r *Repository) ListNodes(ctx context.Context) ([]domain.Node, error) {
	res, err := r.client.ExecuteRead(ctx, listNodesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list nodes query: %w", err)
	}
	nodes := make([]domain.Node, 0, len(res.Records))
	for _, rec := range res.Records {
		nodes = append(nodes, nodeFromRecord(rec))
	}
	return nodes, nil
}

// CreateEdge connects two existing nodes. It returns ErrNotFound when either
// endpoint is missing.
func (r *Repository) CreateEdge(ctx context.Context, edge domain.Edge) (domain.Edge, error) {
	res, err := r.client.ExecuteWrite(ctx, createEdgeCypher, edgeParams(edge))
	if err != nil {
		return domain.Edge{}, fmt.Errorf("create connection %d->%d: %w", edge.From, edge.To, err)
	}
	rec, ok := res.First()
	if !ok {
		return domain.Edge{}, fmt.Errorf("create connection %d->%d: %w", edge.From, edge.To, ErrNotFound)
	}
	return edgeFromRecord(rec), nil
}

// ImportEdge stores a connection unless one with the same endpoints and weight
// already exists. It returns ErrNotFound when either endpoint is missing.
func (r *Repository) ImportEdge(ctx context.Context, edge domain.Edge) error {
	res, err := r.client.ExecuteWrite(ctx, importEdgeCypher, edgeParams(edge))
	if err != nil {
		return fmt.Errorf("import connection %d->%d: %w", edge.From, edge.To, err)
	}
	if _, ok := res.First(); !ok {
		return fmt.Errorf("import connection %d->%d: %w", edge.From, edge.To, ErrNotFound)
	}
	return nil
}

// ListEdges returns every connection ordered by id.
func (r *Repository) ListEdges(ctx context.Context) ([]domain.Edge, error) {
	res, err := r.client.ExecuteRead(ctx, listEdgesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list connections query: %w", err)
	}
	edges := make([]domain.Edge, 0, len(res.Records))
	for _, rec := range res.Records {
		edges = append(edges, edgeFromRecord(rec))
	}
	return edges, nil
}

// Snapshot reads all nodes and connections for a single route computation.
func (r *Repository) Snapshot(ctx context.Context) (domain.NetworkSnapshot, error) {
	nodes, err := r.ListNodes(ctx)
	if err != nil {
		return domain.NetworkSnapshot{}, err
	}
	edges, err := r.ListEdges(ctx)
	if err != nil {
		return domain.NetworkSnapshot{}, err
	}
	return domain.NetworkSnapshot{Nodes: nodes, Edges: edges}, nil
}

func nodeParams(n domain.Node) map[string]any {
	return map[string]any{
		"name": n.Name,
		"lat":  n.Lat,
		"lng":  n.Lng,
	}
}

func edgeParams(e domain.Edge) map[string]any {
	return map[string]any{
		"from":   e.From,
		"to":     e.To,
		"weight": e.Weight,
	}
}

func nodeFromRecord(rec graph.Record) domain.Node {
	return domain.Node{
		ID:   toInt64(rec["id"]),
		Name: toString(rec["name"]),
		Lat:  toFloat64(rec["lat"]),
		Lng:  toFloat64(rec["lng"]),
	}
}

func edgeFromRecord(rec graph.Record) domain.Edge {
	return domain.Edge{
		ID:     toInt64(rec["id"]),
		From:   toInt64(rec["fromId"]),
		To:     toInt64(rec["toId"]),
		Weight: toFloat64(rec["weight"]),
	}
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
