package layout

// DefaultSeed seeds the initial placement when none is configured.
const DefaultSeed int64 = 0xabcde

// Config holds the physical parameters of a simulation.
type Config struct {
	Width        float64 `toml:"width" json:"width"`
	Height       float64 `toml:"height" json:"height"`
	LinkDistance float64 `toml:"link_distance" json:"linkDistance"`
	LinkStrength float64 `toml:"link_strength" json:"linkStrength"`
	Charge       float64 `toml:"charge" json:"charge"` // Negative values repel
	Gravity      float64 `toml:"gravity" json:"gravity"`
	Friction     float64 `toml:"friction" json:"friction"`
	Theta        float64 `toml:"theta" json:"theta"` // Barnes-Hut accuracy
	Alpha        float64 `toml:"alpha" json:"alpha"`
	AlphaMin     float64 `toml:"alpha_min" json:"alphaMin"`
	AlphaDecay   float64 `toml:"alpha_decay" json:"alphaDecay"`
	MaxTicks     int     `toml:"max_ticks" json:"maxTicks"`
	Seed         int64   `toml:"seed" json:"seed"`
}

// DefaultConfig returns a 500x500 canvas with the d3 v3 force defaults.
func DefaultConfig() Config {
	return Config{
		Width:        500,
		Height:       500,
		LinkDistance: 60,
		LinkStrength: 1,
		Charge:       -300,
		Gravity:      0.1,
		Friction:     0.9,
		Theta:        0.8,
		Alpha:        0.1,
		AlphaMin:     0.005,
		AlphaDecay:   0.99,
		MaxTicks:     1000,
		Seed:         DefaultSeed,
	}
}

// withDefaults fills fields that would stop the simulation from ever
// running or settling. Zero forces are kept.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Alpha <= 0 {
		c.Alpha = d.Alpha
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = d.AlphaMin
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		c.AlphaDecay = d.AlphaDecay
	}
	if c.MaxTicks <= 0 {
		c.MaxTicks = d.MaxTicks
	}
	if c.Theta < 0 {
		c.Theta = d.Theta
	}
	return c
}
