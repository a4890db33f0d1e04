// Package pathfinder computes shortest routes over the node network.
//
// A Graph is rebuilt from a storage snapshot for every query and is never
// shared between goroutines, so nothing in this package needs locking.
package pathfinder

import "github.com/vanshika/georoute/backend/internal/domain"

// Graph maps a node id to its reachable neighbors and the weight of the
// connection leading to each of them.
type Graph map[int64]map[int64]float64

// BuildGraph creates a Graph holding every node as a key. Edges whose
// endpoints are unknown are skipped. When several edges join the same ordered
// pair only the lightest one is kept.
func BuildGraph(nodes []domain.Node, edges []domain.Edge) Graph {
	g := make(Graph, len(nodes))
	for _, n := range nodes {
		g[n.ID] = make(map[int64]float64)
	}
	for _, e := range edges {
		neighbors, ok := g[e.From]
		if !ok {
			continue
		}
		if _, ok := g[e.To]; !ok {
			continue
		}
		if w, seen := neighbors[e.To]; seen && w <= e.Weight {
			continue
		}
		neighbors[e.To] = e.Weight
	}
	return g
}

// Has reports whether id is a node of the graph.
func (g Graph) Has(id int64) bool {
	_, ok := g[id]
	return ok
}
