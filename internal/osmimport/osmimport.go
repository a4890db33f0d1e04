// Package osmimport turns an OpenStreetMap XML extract into node and
// connection inputs for the network.
package osmimport

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/vanshika/georoute/backend/internal/service"
)

// Network is the importable content of an extract.
type Network struct {
	Nodes []service.NodeInput
	Edges []service.EdgeInput
}

type direction int

const (
	bothWays direction = iota
	forwardOnly
	backwardOnly
)

func wayDirection(tags osm.Tags) direction {
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		return forwardOnly
	case "-1", "reverse":
		return backwardOnly
	}
	if tags.Find("junction") == "roundabout" {
		return forwardOnly
	}
	return bothWays
}

// Read scans r and keeps the nodes referenced by highway ways. Each pair of
// consecutive way nodes becomes a connection weighted by its great-circle
// length in meters; ways are connected in both directions unless tagged as
// one-way.
func Read(ctx context.Context, r io.Reader) (Network, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	points := make(map[osm.NodeID]*osm.Node)
	var ways []*osm.Way
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			points[o.ID] = o
		case *osm.Way:
			if o.Tags.Find("highway") != "" && len(o.Nodes) > 1 {
				ways = append(ways, o)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Network{}, fmt.Errorf("scan osm extract: %w", err)
	}

	used := make(map[osm.NodeID]struct{})
	var net Network
	for _, w := range ways {
		dir := wayDirection(w.Tags)
		for i := 0; i+1 < len(w.Nodes); i++ {
			a, okA := points[w.Nodes[i].ID]
			b, okB := points[w.Nodes[i+1].ID]
			if !okA || !okB || a.ID == b.ID {
				continue
			}
			weight := roundMeters(geo.Distance(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat}))
			if dir != backwardOnly {
				net.Edges = append(net.Edges, service.EdgeInput{From: int64(a.ID), To: int64(b.ID), Weight: weight})
			}
			if dir != forwardOnly {
				net.Edges = append(net.Edges, service.EdgeInput{From: int64(b.ID), To: int64(a.ID), Weight: weight})
			}
			used[a.ID] = struct{}{}
			used[b.ID] = struct{}{}
		}
	}

	for id := range used {
		n := points[id]
		name := n.Tags.Find("name")
		if name == "" {
			name = fmt.Sprintf("osm-%d", n.ID)
		}
		net.Nodes = append(net.Nodes, service.NodeInput{
			ID:   int64(n.ID),
			Name: name,
			Lat:  n.Lat,
			Lng:  n.Lon,
		})
	}
	sort.Slice(net.Nodes, func(i, j int) bool { return net.Nodes[i].ID < net.Nodes[j].ID })

	return net, nil
}

func roundMeters(v float64) float64 {
	return math.Round(v*100) / 100
}
