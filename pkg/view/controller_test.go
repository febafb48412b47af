package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/distortviz/pkg/distortion"
	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/layout"
)

const (
	primaryFile   = "A,B\nB,C\nC,A\n"
	secondaryFile = "A,C\nC,D\n"
)

// fakeService answers with a fixed body and records requests.
type fakeService struct {
	mu   sync.Mutex
	body string
	err  error
	reqs []distortion.Request
	// gate, if set, blocks Distort until it is closed.
	gate chan struct{}
	// entered is signalled when Distort starts.
	entered chan struct{}
}

func (f *fakeService) Distort(ctx context.Context, req distortion.Request) (string, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return f.body, f.err
}

func fastConfig() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.MaxTicks = 60
	return cfg
}

func loaded(t *testing.T, svc distortion.Distorter, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithLayoutConfig(fastConfig())}, opts...)
	c := NewController(svc, opts...)
	ctx := context.Background()
	if err := c.LoadGraph(ctx, graph.Primary, strings.NewReader(primaryFile)); err != nil {
		t.Fatalf("load primary: %v", err)
	}
	if err := c.LoadGraph(ctx, graph.Secondary, strings.NewReader(secondaryFile)); err != nil {
		t.Fatalf("load secondary: %v", err)
	}
	return c
}

func nodeByID(nodes []NodeView, id string) (NodeView, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}

func TestLoadGraphMirrorsSharedNodes(t *testing.T) {
	c := loaded(t, nil)
	snap := c.Snapshot()

	if snap.Primary.NodeCount != 3 || snap.Secondary.NodeCount != 3 {
		t.Fatalf("node counts = %d, %d", snap.Primary.NodeCount, snap.Secondary.NodeCount)
	}
	for _, id := range []string{"A", "C"} {
		p, _ := nodeByID(snap.Primary.Nodes, id)
		s, _ := nodeByID(snap.Secondary.Nodes, id)
		if p.X != s.X || p.Y != s.Y {
			t.Errorf("%s: primary (%v,%v) secondary (%v,%v)", id, p.X, p.Y, s.X, s.Y)
		}
	}
	d, _ := nodeByID(snap.Secondary.Nodes, "D")
	if d.Fixed {
		t.Error("D exists only in secondary and should not be pinned")
	}
	if snap.Mirrored != 3 {
		t.Errorf("Mirrored = %d, want 3", snap.Mirrored)
	}
}

func TestLoadGraphErrorsKeepPreviousGraph(t *testing.T) {
	c := loaded(t, nil)
	ctx := context.Background()

	err := c.LoadGraph(ctx, graph.Primary, strings.NewReader("A,B\nbroken\n"))
	if !errs.Is(err, errs.ErrCodeParse) {
		t.Fatalf("LoadGraph() = %v, want PARSE_ERROR", err)
	}
	if err := c.LoadGraph(ctx, graph.Secondary, nil); !errs.Is(err, errs.ErrCodeFileRead) {
		t.Fatalf("LoadGraph(nil) = %v, want FILE_READ", err)
	}
	if err := c.LoadGraph(ctx, graph.Slot(5), strings.NewReader("A,B")); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Fatalf("LoadGraph(bad slot) = %v, want INVALID_INPUT", err)
	}

	snap := c.Snapshot()
	if snap.Primary.NodeCount != 3 || len(snap.Primary.Links) != 3 {
		t.Errorf("primary changed after failed load: %+v", snap.Primary)
	}
}

func TestPrimaryReloadResetsTable(t *testing.T) {
	c := loaded(t, nil)
	if err := c.LoadGraph(context.Background(), graph.Primary, strings.NewReader("X,Y\n")); err != nil {
		t.Fatal(err)
	}
	if got := c.Snapshot().Mirrored; got != 2 {
		t.Errorf("Mirrored = %d, want 2 (only X and Y)", got)
	}
}

func TestPrimaryReloadRelaysSecondary(t *testing.T) {
	c := loaded(t, nil)
	if err := c.LoadGraph(context.Background(), graph.Primary, strings.NewReader("C,X\nX,A\n")); err != nil {
		t.Fatal(err)
	}
	snap := c.Snapshot()
	for _, id := range []string{"A", "C"} {
		p, _ := nodeByID(snap.Primary.Nodes, id)
		s, _ := nodeByID(snap.Secondary.Nodes, id)
		if p.X != s.X || p.Y != s.Y {
			t.Errorf("%s: primary (%v,%v) secondary (%v,%v)", id, p.X, p.Y, s.X, s.Y)
		}
	}
	if snap.Secondary.Ticks == 0 {
		t.Error("secondary was not laid out again")
	}
}

// cancellingService cancels the caller's context before answering, as a
// disconnecting browser does.
type cancellingService struct {
	cancel context.CancelFunc
	body   string
}

func (s *cancellingService) Distort(ctx context.Context, req distortion.Request) (string, error) {
	s.cancel()
	return s.body, nil
}

func TestRedrawCancelledKeepsSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var restored []graph.Slot
	render := func(slot graph.Slot, f Frame) {
		if f.Kind == FrameRestore {
			mu.Lock()
			restored = append(restored, slot)
			mu.Unlock()
		}
	}
	c := loaded(t, &cancellingService{cancel: cancel, body: "0.1,0.2,0.3_X,Y-_P,Q-"}, WithRenderer(render))
	before := c.Snapshot()

	_, err := c.RunDistortion(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunDistortion() = %v, want context.Canceled", err)
	}
	if errs.Is(err, errs.ErrCodeInternal) {
		t.Error("cancellation reported as INTERNAL_ERROR")
	}

	after := c.Snapshot()
	assertLinks(t, after.Primary.Links, []graph.Link{{"A", "B"}, {"B", "C"}, {"C", "A"}})
	assertLinks(t, after.Secondary.Links, []graph.Link{{"A", "C"}, {"C", "D"}})
	if len(after.Colors) != 0 {
		t.Errorf("colours applied: %v", after.Colors)
	}
	if after.Region != before.Region || !after.Region.FirstDraw {
		t.Errorf("region changed: %+v -> %+v", before.Region, after.Region)
	}
	if after.Mirrored != before.Mirrored {
		t.Errorf("Mirrored = %d, want %d", after.Mirrored, before.Mirrored)
	}
	for i, n := range after.Primary.Nodes {
		if b := before.Primary.Nodes[i]; n.X != b.X || n.Y != b.Y {
			t.Errorf("primary %s moved", n.ID)
		}
	}
	if len(restored) != 2 {
		t.Errorf("restore frames for %v, want both slots", restored)
	}

	// The session still works once the caller is back.
	c.client = &fakeService{body: "0.1,0.2,0.3_X,Y-_P,Q-"}
	res, err := c.RunDistortion(context.Background())
	if err != nil || !res.Redraw {
		t.Fatalf("retry: %+v, %v", res, err)
	}
}

func TestLoadGraphCancelledKeepsSession(t *testing.T) {
	c := loaded(t, nil)
	before := c.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.LoadGraph(ctx, graph.Primary, strings.NewReader("X,Y\n"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("LoadGraph() = %v, want context.Canceled", err)
	}

	after := c.Snapshot()
	if after.Primary.NodeCount != before.Primary.NodeCount || after.Mirrored != before.Mirrored {
		t.Errorf("session changed: primary %d nodes, mirrored %d", after.Primary.NodeCount, after.Mirrored)
	}
	if _, ok := nodeByID(after.Primary.Nodes, "X"); ok {
		t.Error("cancelled graph is displayed")
	}
}

func TestSetParametersClampsK(t *testing.T) {
	c := NewController(nil, WithLayoutConfig(fastConfig()))

	p, err := c.SetParameters(7, "1")
	if err != nil || p.K != 7 {
		t.Fatalf("before load: %+v, %v", p, err)
	}

	ctx := context.Background()
	_ = c.LoadGraph(ctx, graph.Primary, strings.NewReader("1,2\n2,3\n3,4\n4,5\n"))
	if got := c.Params().K; got != 5 {
		t.Errorf("after primary load K = %d, want 5", got)
	}
	_ = c.LoadGraph(ctx, graph.Secondary, strings.NewReader("1,2\n"))
	if got := c.Params().K; got != 2 {
		t.Errorf("after secondary load K = %d, want 2", got)
	}

	p, err = c.SetParameters(40, "2")
	if err != nil {
		t.Fatal(err)
	}
	if p.K != 2 || p.Measure != "2" {
		t.Errorf("SetParameters(40) = %+v, want K=2", p)
	}
	p, _ = c.SetParameters(0, "2")
	if p.K != 1 {
		t.Errorf("SetParameters(0) K = %d, want 1", p.K)
	}

	if _, err := c.SetParameters(1, ""); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("empty measure: %v, want INVALID_INPUT", err)
	}
	if c.Params().Measure != "2" {
		t.Error("rejected SetParameters changed state")
	}
}

func TestRunDistortionRedrawScenario(t *testing.T) {
	svc := &fakeService{body: "0.1,0.2,0.3_A,B-B,C-_D,E-"}
	c := loaded(t, svc)

	res, err := c.RunDistortion(context.Background())
	if err != nil {
		t.Fatalf("RunDistortion() error = %v", err)
	}
	if !res.Redraw || res.Stale {
		t.Fatalf("result = %+v, want redraw", res)
	}
	want := distortion.ColorTable{1: "0.1", 2: "0.2", 3: "0.3"}
	for k, v := range want {
		if res.Colors[k] != v {
			t.Errorf("Colors[%d] = %q, want %q", k, res.Colors[k], v)
		}
	}

	snap := c.Snapshot()
	assertLinks(t, snap.Primary.Links, []graph.Link{{"A", "B"}, {"B", "C"}})
	assertLinks(t, snap.Secondary.Links, []graph.Link{{"D", "E"}})
	if snap.Region.FirstDraw || snap.Region.Previous != snap.Region.Current {
		t.Errorf("region not marked drawn: %+v", snap.Region)
	}
	// The loaded graphs are still what gets sent.
	if snap.Primary.NodeCount != 3 {
		t.Errorf("loaded primary replaced: %d nodes", snap.Primary.NodeCount)
	}

	a, _ := nodeByID(snap.Primary.Nodes, "A")
	if a.Color != "0.1" {
		t.Errorf("A colour = %q, want 0.1", a.Color)
	}

	req := svc.reqs[0]
	if len(req.Graph1) != 3 || len(req.Graph2) != 2 || req.Region != 1 {
		t.Errorf("request = %+v", req)
	}
}

func TestRunDistortionRecolorOnly(t *testing.T) {
	svc := &fakeService{body: "1,2,3_A,B-_C,D-"}
	c := loaded(t, svc)
	ctx := context.Background()

	if _, err := c.RunDistortion(ctx); err != nil {
		t.Fatal(err)
	}
	before := c.Snapshot()

	svc.body = "4,5,6_ignored_ignored"
	res, err := c.RunDistortion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Redraw {
		t.Error("unchanged region should only recolour")
	}
	after := c.Snapshot()
	if after.Colors[1] != "4" {
		t.Errorf("colours not replaced: %v", after.Colors)
	}
	for i := range before.Primary.Nodes {
		if before.Primary.Nodes[i].X != after.Primary.Nodes[i].X {
			t.Fatal("recolour moved nodes")
		}
	}

	if err := c.SelectRegion(4); err != nil {
		t.Fatal(err)
	}
	svc.body = "7,8,9_A,B-_C,D-"
	res, err = c.RunDistortion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Redraw || res.Params.Region != 4 {
		t.Errorf("region change result = %+v, want redraw for region 4", res)
	}
}

func TestRunDistortionProtocolError(t *testing.T) {
	svc := &fakeService{body: "1,2,3_A,B-_C,D-"}
	c := loaded(t, svc)
	ctx := context.Background()
	if _, err := c.RunDistortion(ctx); err != nil {
		t.Fatal(err)
	}
	_ = c.SelectRegion(2)
	before := c.Snapshot()

	svc.body = "only_one_segment"
	_, err := c.RunDistortion(ctx)
	if !errs.Is(err, errs.ErrCodeProtocol) {
		t.Fatalf("RunDistortion() = %v, want PROTOCOL_ERROR", err)
	}
	after := c.Snapshot()
	for k, v := range before.Colors {
		if after.Colors[k] != v {
			t.Errorf("colour %d changed to %q", k, after.Colors[k])
		}
	}
	if after.Region != before.Region {
		t.Errorf("region state changed: %+v -> %+v", before.Region, after.Region)
	}
}

func TestRunDistortionNetworkError(t *testing.T) {
	boom := errs.New(errs.ErrCodeNetwork, "connection refused")
	c := loaded(t, &fakeService{err: boom})
	_, err := c.RunDistortion(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("RunDistortion() = %v, want network error", err)
	}
	if !c.Snapshot().Region.FirstDraw {
		t.Error("failed run consumed the first draw")
	}
}

func TestRunDistortionRequiresBothGraphs(t *testing.T) {
	c := NewController(&fakeService{}, WithLayoutConfig(fastConfig()))
	_ = c.LoadGraph(context.Background(), graph.Primary, strings.NewReader(primaryFile))
	if _, err := c.RunDistortion(context.Background()); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("RunDistortion() = %v, want INVALID_INPUT", err)
	}
	if _, err := NewController(nil).RunDistortion(context.Background()); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("nil client: %v, want UNSUPPORTED", err)
	}
}

func TestStaleResponseDropped(t *testing.T) {
	svc := &fakeService{
		body:    "9,9,9_A,B-_C,D-",
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	c := loaded(t, svc)

	done := make(chan *Result, 1)
	go func() {
		res, err := c.RunDistortion(context.Background())
		if err != nil {
			t.Error(err)
		}
		done <- res
	}()

	<-svc.entered
	if err := c.SelectRegion(3); err != nil {
		t.Fatal(err)
	}
	close(svc.gate)

	res := <-done
	if res == nil || !res.Stale {
		t.Fatalf("result = %+v, want stale", res)
	}
	if len(c.Snapshot().Colors) != 0 {
		t.Error("stale response applied colours")
	}
}

func TestRendererFrames(t *testing.T) {
	var mu sync.Mutex
	var order []graph.Slot
	var kinds []FrameKind
	render := func(slot graph.Slot, f Frame) {
		mu.Lock()
		defer mu.Unlock()
		if len(order) == 0 || order[len(order)-1] != slot || kinds[len(kinds)-1] != f.Kind {
			order = append(order, slot)
			kinds = append(kinds, f.Kind)
		}
		if f.Kind == FrameTick && len(f.Links) > 0 && len(f.Nodes) == 0 {
			t.Error("frame with links but no nodes")
		}
	}

	svc := &fakeService{body: "1,2,3_A,B-_C,D-"}
	c := loaded(t, svc, WithRenderer(render))
	if _, err := c.RunDistortion(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []struct {
		slot graph.Slot
		kind FrameKind
	}{
		{graph.Primary, FrameTick},    // load
		{graph.Secondary, FrameTick},  // load
		{graph.Primary, FrameTick},    // redraw, primary first
		{graph.Secondary, FrameTick},  // redraw
		{graph.Primary, FrameRecolor}, // colours
		{graph.Secondary, FrameRecolor},
	}
	if len(order) != len(want) {
		t.Fatalf("frame sequence = %v %v", order, kinds)
	}
	for i, w := range want {
		if order[i] != w.slot || kinds[i] != w.kind {
			t.Errorf("frame group %d = %v/%s, want %v/%s", i, order[i], kinds[i], w.slot, w.kind)
		}
	}
}

func TestSelectRegionOutOfRange(t *testing.T) {
	c := NewController(nil)
	if err := c.SelectRegion(11); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("SelectRegion(11) = %v", err)
	}
}

func assertLinks(t *testing.T, got []layout.Segment, want []graph.Link) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("links = %v, want %v", got, want)
	}
	for i := range got {
		if got[i].Link != want[i] {
			t.Errorf("link %d = %v, want %v", i, got[i].Link, want[i])
		}
	}
}
