package domain

// Route is a composite path through ordered waypoints.
//
// Distance is the planar length of Path measured on raw coordinates, rounded
// to one decimal place. It is independent of the edge weights used to pick the
// path.
type Route struct {
	Path     []Node
	Distance float64
}
