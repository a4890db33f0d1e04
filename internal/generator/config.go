package generator

// Config drives the synthetic network generator.
type Config struct {
	Rows           int
	Cols           int
	CenterLat      float64
	CenterLng      float64
	Spacing        float64 // degrees between grid neighbours
	Jitter         float64 // fraction of Spacing a node may drift
	ShortcutChance float64 // probability per node of an extra long-range connection
	OneWayChance   float64 // probability that a grid street only runs one way
	Seed           int64
}

// DefaultConfig returns a small city-sized grid.
func DefaultConfig() Config {
	return Config{
		Rows:           20,
		Cols:           20,
		CenterLat:      19.4326,
		CenterLng:      -99.1332,
		Spacing:        0.005,
		Jitter:         0.25,
		ShortcutChance: 0.05,
		OneWayChance:   0.15,
		Seed:           42,
	}
}
