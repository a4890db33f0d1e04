package service

import "github.com/vanshika/georoute/backend/internal/domain"

// NodeInput is the inbound payload for creating, updating or importing a node.
// ID is only honoured by imports; the store assigns ids to created nodes.
type NodeInput struct {
	ID   int64   `json:"id,omitempty"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (in NodeInput) toDomain() domain.Node {
	return domain.Node{
		ID:   in.ID,
		Name: sanitizeName(in.Name),
		Lat:  in.Lat,
		Lng:  in.Lng,
	}
}

// EdgeInput is the inbound payload for a directed connection.
type EdgeInput struct {
	From   int64   `json:"from"`
	To     int64   `json:"to"`
	Weight float64 `json:"weight"`
}

func (in EdgeInput) toDomain() domain.Edge {
	return domain.Edge{
		From:   in.From,
		To:     in.To,
		Weight: in.Weight,
	}
}

// RouteQuery asks for the shortest route from Origin to Dest passing through
// Waypoints in order.
type RouteQuery struct {
	Origin    int64
	Dest      int64
	Waypoints []int64
}

// Stops returns origin, waypoints and destination as one ordered list.
func (q RouteQuery) Stops() []int64 {
	stops := make([]int64, 0, len(q.Waypoints)+2)
	stops = append(stops, q.Origin)
	stops = append(stops, q.Waypoints...)
	return append(stops, q.Dest)
}
