package layout

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/distortviz/pkg/graph"
)

// ErrSettled is returned by Run on a simulation that has already finished.
var ErrSettled = errors.New("layout: simulation already settled")

// Simulation is a single, non-restartable force layout run.
type Simulation struct {
	cfg   Config
	g     *graph.Graph
	nodes []*graph.Node
	prev  []r2.Vec // previous positions for Verlet integration
	links [][2]int
	wts   []float64 // node degrees

	alpha   float64
	ticks   int
	settled bool
}

// New prepares a simulation for g. Every node is given a random starting
// position on the canvas drawn from cfg.Seed.
func New(g *graph.Graph, cfg Config) *Simulation {
	cfg = cfg.withDefaults()
	s := &Simulation{
		cfg:   cfg,
		g:     g,
		nodes: g.Nodes(),
		alpha: cfg.Alpha,
	}

	idx := make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		idx[n.ID] = i
	}
	s.wts = make([]float64, len(s.nodes))
	for _, l := range g.Links() {
		si, ti := idx[l.Source], idx[l.Target]
		s.links = append(s.links, [2]int{si, ti})
		s.wts[si]++
		s.wts[ti]++
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	s.prev = make([]r2.Vec, len(s.nodes))
	for i, n := range s.nodes {
		n.X = rng.Float64() * cfg.Width
		n.Y = rng.Float64() * cfg.Height
		n.Fixed = false
		s.prev[i] = r2.Vec{X: n.X, Y: n.Y}
	}
	if len(s.nodes) == 0 {
		s.settled = true
	}
	return s
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks returns the number of completed steps.
func (s *Simulation) Ticks() int { return s.ticks }

// Settled reports whether the simulation has finished.
func (s *Simulation) Settled() bool { return s.settled }

// Step advances the simulation by one tick. It returns false, without
// moving anything, once the simulation has cooled or hit MaxTicks.
func (s *Simulation) Step() bool {
	if s.settled {
		return false
	}
	s.alpha *= s.cfg.AlphaDecay
	if s.alpha < s.cfg.AlphaMin || s.ticks >= s.cfg.MaxTicks {
		s.settled = true
		return false
	}

	pos := make([]r2.Vec, len(s.nodes))
	anchors := make(map[int]r2.Vec)
	for i, n := range s.nodes {
		pos[i] = r2.Vec{X: n.X, Y: n.Y}
		if n.Fixed {
			anchors[i] = pos[i]
		}
	}

	s.applyLinks(pos)
	s.applyGravity(pos)
	s.applyCharge(pos)

	for i, n := range s.nodes {
		if a, ok := anchors[i]; ok {
			pos[i] = a
			s.prev[i] = a
		} else {
			v := r2.Scale(s.cfg.Friction, r2.Sub(s.prev[i], pos[i]))
			s.prev[i] = pos[i]
			pos[i] = r2.Sub(pos[i], v)
			pos[i] = s.clamp(pos[i])
		}
		n.X, n.Y = pos[i].X, pos[i].Y
	}

	s.ticks++
	return true
}

// Run steps the simulation until it settles, calling fn after every step.
// The stream stops early if ctx is cancelled or fn returns an error.
func (s *Simulation) Run(ctx context.Context, fn TickFunc) error {
	if s.settled && s.ticks > 0 {
		return ErrSettled
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Step() {
			return nil
		}
		if fn == nil {
			continue
		}
		if err := fn(Tick{Iteration: s.ticks, Alpha: s.alpha, Nodes: s.nodes, g: s.g}); err != nil {
			return err
		}
	}
}

func (s *Simulation) applyLinks(pos []r2.Vec) {
	for _, l := range s.links {
		si, ti := l[0], l[1]
		d := r2.Sub(pos[ti], pos[si])
		dist := r2.Norm(d)
		if dist == 0 {
			continue
		}
		f := r2.Scale(s.alpha*s.cfg.LinkStrength*(dist-s.cfg.LinkDistance)/dist, d)
		k := s.wts[si] / (s.wts[si] + s.wts[ti])
		pos[ti] = r2.Sub(pos[ti], r2.Scale(k, f))
		pos[si] = r2.Add(pos[si], r2.Scale(1-k, f))
	}
}

func (s *Simulation) applyGravity(pos []r2.Vec) {
	k := s.alpha * s.cfg.Gravity
	if k == 0 {
		return
	}
	c := r2.Vec{X: s.cfg.Width / 2, Y: s.cfg.Height / 2}
	for i := range pos {
		pos[i] = r2.Add(pos[i], r2.Scale(k, r2.Sub(c, pos[i])))
	}
}

// particle adapts a node position to barneshut.Particle2. Pointers keep
// particles distinct even when two nodes share coordinates.
type particle struct{ at r2.Vec }

func (p *particle) Coord2() r2.Vec { return p.at }
func (p *particle) Mass() float64  { return 1 }

// inverseSquare returns m2*v/|v|², the d3 charge kernel.
func inverseSquare(_, _ barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
	d2 := r2.Norm2(v)
	if d2 == 0 {
		return r2.Vec{}
	}
	return r2.Scale(m2/d2, v)
}

func (s *Simulation) applyCharge(pos []r2.Vec) {
	if s.cfg.Charge == 0 || len(pos) < 2 {
		return
	}
	ps := make([]barneshut.Particle2, len(pos))
	for i := range pos {
		ps[i] = &particle{at: pos[i]}
	}

	forces := make([]r2.Vec, len(pos))
	plane, err := barneshut.NewPlane(ps)
	if err != nil {
		// Non-finite coordinates; fall back to exact summation.
		for i := range ps {
			for j := range ps {
				if i != j {
					forces[i] = r2.Add(forces[i], inverseSquare(nil, nil, 1, 1, r2.Sub(pos[j], pos[i])))
				}
			}
		}
	} else {
		for i, p := range ps {
			forces[i] = plane.ForceOn(p, s.cfg.Theta, inverseSquare)
		}
	}

	k := s.alpha * s.cfg.Charge
	for i, n := range s.nodes {
		if n.Fixed {
			continue
		}
		s.prev[i] = r2.Sub(s.prev[i], r2.Scale(k, forces[i]))
	}
}

func (s *Simulation) clamp(v r2.Vec) r2.Vec {
	v.X = math.Max(0, math.Min(s.cfg.Width, v.X))
	v.Y = math.Max(0, math.Min(s.cfg.Height, v.Y))
	return v
}
