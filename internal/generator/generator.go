package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vanshika/georoute/backend/internal/service"
)

// Dataset contains the generated nodes and connections.
type Dataset struct {
	Nodes []service.NodeInput `json:"nodes"`
	Edges []service.EdgeInput `json:"edges"`
}

// Generator produces a jittered street grid with occasional shortcuts.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Rows <= 0 {
		cfg.Rows = def.Rows
	}
	if cfg.Cols <= 0 {
		cfg.Cols = def.Cols
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = def.Spacing
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate builds the dataset. Node ids are assigned row by row starting at 1.
// Every weight is at least the planar length of its connection.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	rows, cols := g.cfg.Rows, g.cfg.Cols
	nodes := make([]service.NodeInput, 0, rows*cols)

	originLat := g.cfg.CenterLat - float64(rows-1)*g.cfg.Spacing/2
	originLng := g.cfg.CenterLng - float64(cols-1)*g.cfg.Spacing/2
	for r := 0; r < rows; r++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		for c := 0; c < cols; c++ {
			nodes = append(nodes, service.NodeInput{
				ID:   int64(r*cols + c + 1),
				Name: fmt.Sprintf("Calle %d y Avenida %d", r+1, c+1),
				Lat:  clamp(originLat+float64(r)*g.cfg.Spacing+g.jitter(), -90, 90),
				Lng:  clamp(originLng+float64(c)*g.cfg.Spacing+g.jitter(), -180, 180),
			})
		}
	}

	var edges []service.EdgeInput
	connect := func(a, b int) {
		w := g.weight(nodes[a], nodes[b])
		switch {
		case g.rand.Float64() >= g.cfg.OneWayChance:
			edges = append(edges,
				service.EdgeInput{From: nodes[a].ID, To: nodes[b].ID, Weight: w},
				service.EdgeInput{From: nodes[b].ID, To: nodes[a].ID, Weight: w})
		case g.rand.Intn(2) == 0:
			edges = append(edges, service.EdgeInput{From: nodes[a].ID, To: nodes[b].ID, Weight: w})
		default:
			edges = append(edges, service.EdgeInput{From: nodes[b].ID, To: nodes[a].ID, Weight: w})
		}
	}

	for r := 0; r < rows; r++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			if c+1 < cols {
				connect(idx, idx+1)
			}
			if r+1 < rows {
				connect(idx, idx+cols)
			}
			if len(nodes) > 1 && g.rand.Float64() < g.cfg.ShortcutChance {
				other := g.rand.Intn(len(nodes))
				if other != idx {
					edges = append(edges, service.EdgeInput{
						From:   nodes[idx].ID,
						To:     nodes[other].ID,
						Weight: g.weight(nodes[idx], nodes[other]),
					})
				}
			}
		}
	}

	return Dataset{Nodes: nodes, Edges: edges}, nil
}

func (g *Generator) jitter() float64 {
	return (g.rand.Float64()*2 - 1) * g.cfg.Jitter * g.cfg.Spacing
}

// weight scales the planar length by a congestion factor in [1, 2).
func (g *Generator) weight(a, b service.NodeInput) float64 {
	length := math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
	return math.Round(length*(1+g.rand.Float64())*1e6) / 1e6
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
