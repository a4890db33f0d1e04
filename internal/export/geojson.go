package export

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"

	"github.com/vanshika/georoute/backend/internal/domain"
)

// GeoJSON positions are [lng, lat].
func position(n domain.Node) []float64 {
	return []float64{n.Lng, n.Lat}
}

func nodeFeature(n domain.Node) *geojson.Feature {
	f := geojson.NewPointFeature(position(n))
	f.SetProperty("id", n.ID)
	f.SetProperty("name", n.Name)
	return f
}

// RouteFeatureCollection returns the route as a LineString feature carrying the
// total distance, followed by a Point feature per visited node.
func RouteFeatureCollection(route domain.Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make([][]float64, 0, len(route.Path))
	for _, n := range route.Path {
		line = append(line, position(n))
	}
	path := geojson.NewLineStringFeature(line)
	path.SetProperty("distance", route.Distance)
	path.SetProperty("stops", len(route.Path))
	fc.AddFeature(path)

	for _, n := range route.Path {
		fc.AddFeature(nodeFeature(n))
	}
	return fc
}

// NetworkFeatureCollection returns a Point feature per node and a LineString
// feature per connection. Connections with an unknown endpoint are skipped.
func NetworkFeatureCollection(snap domain.NetworkSnapshot) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	byID := make(map[int64]domain.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
		fc.AddFeature(nodeFeature(n))
	}
	for _, e := range snap.Edges {
		from, okFrom := byID[e.From]
		to, okTo := byID[e.To]
		if !okFrom || !okTo {
			continue
		}
		f := geojson.NewLineStringFeature([][]float64{position(from), position(to)})
		f.SetProperty("id", e.ID)
		f.SetProperty("from", e.From)
		f.SetProperty("to", e.To)
		f.SetProperty("weight", e.Weight)
		fc.AddFeature(f)
	}
	return fc
}

// MarshalFeatureCollection encodes fc as JSON.
func MarshalFeatureCollection(fc *geojson.FeatureCollection) ([]byte, error) {
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't convert features to geojson format")
	}
	return b, nil
}
