package pathfinder

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/rhartert/sparsesets"

	"github.com/vanshika/georoute/backend/internal/domain"
)

var (
	// ErrNoRoute indicates that two consecutive waypoints are not connected.
	// Unknown node ids are reported the same way.
	ErrNoRoute = errors.New("no route between some points")
	// ErrTooFewWaypoints indicates a route request without origin and destination.
	ErrTooFewWaypoints = errors.New("at least an origin and a destination are required")
)

// PathFinder answers shortest path queries over a single graph snapshot.
type PathFinder struct {
	graph Graph
	nodes map[int64]domain.Node
	dense map[int64]int // graph key to a 0..n-1 slot for the visited set
}

// New returns a PathFinder over g. The nodes are used to resolve ids back to
// full records when paths are returned.
func New(nodes []domain.Node, g Graph) *PathFinder {
	index := make(map[int64]domain.Node, len(nodes))
	for _, n := range nodes {
		index[n.ID] = n
	}
	dense := make(map[int64]int, len(g))
	for id := range g {
		dense[id] = len(dense)
	}
	return &PathFinder{graph: g, nodes: index, dense: dense}
}

// FromSnapshot builds the graph of snap and returns a PathFinder over it.
func FromSnapshot(snap domain.NetworkSnapshot) *PathFinder {
	return New(snap.Nodes, BuildGraph(snap.Nodes, snap.Edges))
}

// ShortestSegment returns the lightest path from start to end, both included.
// It returns nil when end cannot be reached from start or when either id is
// not part of the graph.
func (pf *PathFinder) ShortestSegment(start, end int64) []domain.Node {
	if !pf.graph.Has(start) || !pf.graph.Has(end) {
		return nil
	}

	dist := make(map[int64]float64, len(pf.graph))
	for id := range pf.graph {
		dist[id] = math.Inf(1)
	}
	dist[start] = 0
	prev := make(map[int64]int64)
	visited := sparsesets.New(len(pf.dense))

	q := &distanceQueue{{node: start, dist: 0}}
	for q.Len() > 0 {
		item := heap.Pop(q).(queueItem)
		u := item.node
		if visited.Contains(pf.dense[u]) {
			continue
		}
		visited.Insert(pf.dense[u])
		if u == end {
			break
		}
		for v, w := range pf.graph[u] {
			slot, known := pf.dense[v]
			if !known || visited.Contains(slot) {
				continue
			}
			alt := dist[u] + w
			if alt < dist[v] {
				dist[v] = alt
				prev[v] = u
				heap.Push(q, queueItem{node: v, dist: alt})
			}
		}
	}

	return pf.walkBack(prev, start, end)
}

func (pf *PathFinder) walkBack(prev map[int64]int64, start, end int64) []domain.Node {
	ids := []int64{end}
	for u := end; u != start; {
		p, ok := prev[u]
		if !ok {
			return nil
		}
		ids = append(ids, p)
		u = p
	}

	path := make([]domain.Node, len(ids))
	for i, id := range ids {
		path[len(ids)-1-i] = pf.nodes[id]
	}
	return path
}

// ComposeRoute chains the shortest segments between each pair of consecutive
// waypoints. It fails with ErrNoRoute as soon as one segment is unreachable;
// partial routes are never returned.
func (pf *PathFinder) ComposeRoute(waypoints []int64) (domain.Route, error) {
	if len(waypoints) < 2 {
		return domain.Route{}, ErrTooFewWaypoints
	}

	var path []domain.Node
	for i := 0; i < len(waypoints)-1; i++ {
		from, to := waypoints[i], waypoints[i+1]
		segment := pf.ShortestSegment(from, to)
		if len(segment) == 0 {
			return domain.Route{}, fmt.Errorf("segment %d -> %d: %w", from, to, ErrNoRoute)
		}
		if len(path) > 0 && path[len(path)-1].ID == segment[0].ID {
			segment = segment[1:]
		}
		path = append(path, segment...)
	}

	return domain.Route{
		Path:     path,
		Distance: roundTenth(PlanarLength(path)),
	}, nil
}

// PlanarLength sums the straight-line distances between consecutive nodes,
// treating latitude and longitude as plane coordinates.
func PlanarLength(path []domain.Node) float64 {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		total += math.Hypot(path[i].Lat-path[i+1].Lat, path[i].Lng-path[i+1].Lng)
	}
	return total
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
