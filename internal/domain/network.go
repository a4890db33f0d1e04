package domain

// Node is a geographic point of the network.
type Node struct {
	ID   int64
	Name string
	Lat  float64
	Lng  float64
}

// Edge is a directed weighted connection between two nodes.
type Edge struct {
	ID     int64
	From   int64
	To     int64
	Weight float64
}

// NetworkSnapshot holds the nodes and edges read together for a single query.
type NetworkSnapshot struct {
	Nodes []Node
	Edges []Edge
}
