package view

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/distortviz/pkg/distortion"
	"github.com/matzehuels/distortviz/pkg/edgelist"
	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/layout"
	"github.com/matzehuels/distortviz/pkg/mirror"
	"github.com/matzehuels/distortviz/pkg/observability"
)

// Controller is one visualisation session.
type Controller struct {
	mu     sync.Mutex
	state  State
	seq    distortion.Sequencer
	client distortion.Distorter
	cfg    layout.Config
	render RenderFunc
	logger *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLayoutConfig sets the physics used for both slots.
func WithLayoutConfig(cfg layout.Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// WithRenderer sets the frame sink.
func WithRenderer(fn RenderFunc) Option {
	return func(c *Controller) { c.render = fn }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithParams sets the initial k and measure.
func WithParams(p distortion.Params) Option {
	return func(c *Controller) { c.state.Params = p }
}

// NewController creates a session that sends requests through client.
// A nil client makes RunDistortion fail with UNSUPPORTED.
func NewController(client distortion.Distorter, opts ...Option) *Controller {
	c := &Controller{
		state:  NewState(),
		client: client,
		cfg:    layout.DefaultConfig(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadGraph reads an edge-list file into slot and lays it out. Loading
// PRIMARY also lays SECONDARY out again against the new positions. On any
// read, parse or layout error the previous session stays in place.
func (c *Controller) LoadGraph(ctx context.Context, slot graph.Slot, r io.Reader) error {
	if !slot.Valid() {
		return errs.New(errs.ErrCodeInvalidInput, "unknown slot %d", int(slot))
	}

	start := time.Now()
	g, err := edgelist.Parse(r)
	if err != nil {
		observability.View().OnGraphLoaded(ctx, slot.String(), 0, 0, time.Since(start), err)
		c.logger.Warn("graph load failed", "slot", slot, "err", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	mir := c.state.Mirror
	ordinals := c.state.ordinals
	if slot == graph.Primary {
		mir = mirror.New()
		ordinals = ordinalsOf(g)
	}
	p := paint{colors: distortion.ColorTable{}, ordinals: ordinals}

	runs := []pending{{slot: slot, graph: g}}
	if sec := c.state.Slots[graph.Secondary].Loaded; slot == graph.Primary && sec != nil {
		runs = append(runs, pending{slot: graph.Secondary, graph: graph.New(sec.Links())})
	}
	if err := c.layoutAll(ctx, runs, mir, p); err != nil {
		observability.View().OnGraphLoaded(ctx, slot.String(), g.NodeCount(), g.LinkCount(), time.Since(start), err)
		return err
	}

	c.seq.Next()
	c.state.Region.Reset()
	c.state.Params.Region = c.state.Region.Current()
	c.state.Mirror = mir
	c.state.ordinals = ordinals
	c.state.Colors = p.colors
	c.state.slot(slot).Loaded = g
	c.commit(runs)
	c.state.clampK()

	observability.View().OnGraphLoaded(ctx, slot.String(), g.NodeCount(), g.LinkCount(), time.Since(start), nil)
	c.logger.Info("graph loaded", "slot", slot, "nodes", g.NodeCount(), "links", g.LinkCount())
	return nil
}

// SetParameters validates measure and clamps k into [1, maxK], where maxK
// is the smaller node count of the loaded graphs. The stored params are
// returned.
func (c *Controller) SetParameters(k int, measure string) (distortion.Params, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.state.Params
	p.K = k
	p.Measure = measure
	if m := c.state.maxK(); m > 0 {
		p = p.Clamp(m)
	} else {
		p = p.Clamp(max(k, 1))
	}
	if err := p.Validate(); err != nil {
		return c.state.Params, err
	}
	if p.K != k {
		c.logger.Debug("k clamped", "requested", k, "k", p.K)
	}
	c.seq.Next()
	c.state.Params = p
	return p, nil
}

// SelectRegion makes id the current region; the next distortion response
// will redraw.
func (c *Controller) SelectRegion(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.state.Region.Select(id); err != nil {
		return err
	}
	c.seq.Next()
	c.state.Params.Region = id
	return nil
}

// Result summarises one distortion run.
type Result struct {
	Ticket uint64                `json:"ticket"`
	Stale  bool                  `json:"stale"`  // A newer request or state change superseded this one
	Redraw bool                  `json:"redraw"` // The views were laid out again
	Colors distortion.ColorTable `json:"colors,omitempty"`
	Params distortion.Params     `json:"params"`
}

// RunDistortion asks the service for colours and applies its answer.
// A malformed answer is a PROTOCOL_ERROR and leaves colours and region
// state untouched.
func (c *Controller) RunDistortion(ctx context.Context) (*Result, error) {
	if c.client == nil {
		return nil, errs.New(errs.ErrCodeUnsupported, "no distortion service configured")
	}

	c.mu.Lock()
	if !c.state.bothLoaded() {
		c.mu.Unlock()
		return nil, errs.New(errs.ErrCodeInvalidInput, "load both graphs before running distortion")
	}
	ticket := c.seq.Next()
	req := distortion.Request{
		Graph1: c.state.Slots[graph.Primary].Loaded.Links(),
		Graph2: c.state.Slots[graph.Secondary].Loaded.Links(),
		Params: c.state.Params,
	}
	req.Region = c.state.Region.Current()
	c.mu.Unlock()

	start := time.Now()
	c.logger.Debug("distortion request", "ticket", ticket, "k", req.K, "measure", req.Measure, "region", req.Region)
	body, err := c.client.Distort(ctx, req)
	if err != nil {
		observability.View().OnDistortion(ctx, false, false, time.Since(start), err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res := &Result{Ticket: ticket, Params: req.Params}
	if !c.seq.Current(ticket) {
		res.Stale = true
		observability.View().OnDistortion(ctx, false, true, time.Since(start), nil)
		c.logger.Debug("stale distortion response dropped", "ticket", ticket, "latest", c.seq.Last())
		return res, nil
	}

	redraw := c.state.Region.NeedsRedraw()
	nodeCount := c.state.Slots[graph.Primary].Loaded.NodeCount()
	resp, err := distortion.Decode(body, nodeCount, redraw)
	if err != nil {
		observability.View().OnDistortion(ctx, redraw, false, time.Since(start), err)
		c.logger.Warn("bad distortion response", "err", err)
		return nil, err
	}

	if redraw {
		// Primary first so its ticks fill the table before secondary reads it.
		mir := c.state.Mirror.Clone()
		runs := []pending{
			{slot: graph.Primary, graph: graph.New(resp.Graph1)},
			{slot: graph.Secondary, graph: graph.New(resp.Graph2)},
		}
		p := paint{colors: resp.Colors, ordinals: c.state.ordinals}
		if err := c.layoutAll(ctx, runs, mir, p); err != nil {
			observability.View().OnDistortion(ctx, redraw, false, time.Since(start), err)
			return nil, err
		}
		c.state.Mirror = mir
		c.commit(runs)
		c.state.Region.MarkDrawn()
	}

	c.state.Colors = resp.Colors
	for _, sl := range graph.Slots {
		c.emitLocked(sl, FrameRecolor, c.state.slot(sl).Ticks)
	}

	res.Redraw = redraw
	res.Colors = resp.Colors.Clone()
	observability.View().OnDistortion(ctx, redraw, false, time.Since(start), nil)
	c.logger.Info("distortion applied", "redraw", redraw, "colors", len(resp.Colors))
	return res, nil
}

// Snapshot returns a detached copy of the session.
func (c *Controller) Snapshot() ViewSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshotOf(&c.state)
}

// Params returns the current parameters.
func (c *Controller) Params() distortion.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Params
}

// pending is a layout run that becomes a slot's displayed graph once
// every run of the same action has settled.
type pending struct {
	slot  graph.Slot
	graph *graph.Graph
	ticks int
}

// paint is what tick frames are coloured with.
type paint struct {
	colors   distortion.ColorTable
	ordinals map[string]int
}

// layoutAll lays out each run in order through mir. Nothing in the session
// changes here; on error the renderer is sent the committed state again
// and the error is returned.
func (c *Controller) layoutAll(ctx context.Context, runs []pending, mir *mirror.Mirror, p paint) error {
	for i := range runs {
		if err := c.layout(ctx, &runs[i], mir, p); err != nil {
			c.logger.Warn("layout abandoned", "slot", runs[i].slot, "err", err)
			for _, sl := range graph.Slots {
				if c.state.slot(sl).Displayed != nil {
					c.emitLocked(sl, FrameRestore, c.state.slot(sl).Ticks)
				}
			}
			return err
		}
	}
	return nil
}

// commit makes settled runs the displayed graphs.
func (c *Controller) commit(runs []pending) {
	for _, run := range runs {
		st := c.state.slot(run.slot)
		st.Displayed = run.graph
		st.Ticks = run.ticks
	}
}

// layout runs one graph to completion through the mirror hook and the
// renderer. Cancellation is returned as is.
func (c *Controller) layout(ctx context.Context, run *pending, mir *mirror.Mirror, p paint) error {
	start := time.Now()

	sim := layout.New(run.graph, c.cfg)
	draw := func(tk layout.Tick) error {
		c.emit(run.slot, FrameTick, tk.Iteration, tk.Alpha, tk.Nodes, tk.Segments(), p)
		return nil
	}
	err := sim.Run(ctx, mir.For(run.slot, draw))
	run.ticks = sim.Ticks()

	observability.View().OnLayoutComplete(ctx, run.slot.String(), run.ticks, time.Since(start), err)
	c.logger.Debug("layout settled", "slot", run.slot, "ticks", run.ticks, "took", time.Since(start))
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return errs.Wrap(errs.ErrCodeInternal, err, "layout %s", run.slot)
	}
	if run.ticks == 0 {
		c.emit(run.slot, FrameTick, 0, 0, run.graph.Nodes(), segments(run.graph), p)
	}
	return nil
}

func (c *Controller) emit(slot graph.Slot, kind FrameKind, iteration int, alpha float64, nodes []*graph.Node, links []layout.Segment, p paint) {
	if c.render == nil {
		return
	}
	c.render(slot, Frame{
		Slot:      slot,
		Kind:      kind,
		Iteration: iteration,
		Alpha:     alpha,
		Nodes:     nodeViews(nodes, p.colors, p.ordinals),
		Links:     links,
	})
}

// emitLocked sends slot's committed state.
func (c *Controller) emitLocked(slot graph.Slot, kind FrameKind, iteration int) {
	g := c.state.slot(slot).Displayed
	links := []layout.Segment{}
	if g != nil {
		links = segments(g)
	}
	c.emit(slot, kind, iteration, 0, g.Nodes(), links, paint{colors: c.state.Colors, ordinals: c.state.ordinals})
}
