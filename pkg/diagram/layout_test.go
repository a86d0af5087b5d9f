package diagram

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/grapher/pkg/curve"
	"github.com/matzehuels/grapher/pkg/errors"
	"github.com/matzehuels/grapher/pkg/layout"
)

func quiet() Option {
	return WithLogger(log.New(io.Discard))
}

func fptr(v float64) *float64 { return &v }

// abResponse places A above B and routes A -> B through (50,70).
func abResponse() *layout.Response {
	return &layout.Response{
		Type: layout.TypeLayout,
		Nodes: []layout.NodeResult{
			{ID: "A", X: 50, Y: 20},
			{ID: "B", X: 50, Y: 120},
		},
		Edges: []layout.EdgeResult{{
			From:   "A",
			To:     "B",
			Points: []curve.Point{{X: 50, Y: 31}, {X: 50, Y: 70}, {X: 50, Y: 109}},
			X:      fptr(60),
			Y:      fptr(70),
		}},
	}
}

func abGraph(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	g := New(append([]Option{quiet()}, opts...)...)
	g.SetNode("A", labelled("A"))
	g.SetNode("B", labelled("B"))
	if err := g.SetEdge("A", "B", nil); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestLayoutScenario(t *testing.T) {
	doc := newDocument()
	g := abGraph(t)
	g.Build(doc, doc.Root())
	g.Measure()

	var got *layout.Request
	engine := layout.EngineFunc(func(_ context.Context, req *layout.Request) (*layout.Response, error) {
		got = req
		return abResponse(), nil
	})

	status, err := g.Layout(context.Background(), engine)
	if err != nil || status != layout.StatusDone {
		t.Fatalf("Layout() = %v, %v", status, err)
	}

	wantNodes := []layout.Node{{ID: "A", Width: 21, Height: 22}, {ID: "B", Width: 21, Height: 22}}
	for i, n := range wantNodes {
		if got.Nodes[i] != n {
			t.Errorf("request node %d = %+v, want %+v", i, got.Nodes[i], n)
		}
	}
	wantEdge := layout.Edge{From: "A", To: "B", MinLen: 1, Weight: 1, LabelOffset: 10, LabelPos: "r"}
	if got.Edges[0] != wantEdge {
		t.Errorf("request edge = %+v, want %+v", got.Edges[0], wantEdge)
	}
	wantOpts := layout.Options{NodeSeparation: 20, RankSeparation: 20, Direction: layout.RankDirLR}
	if got.Options != wantOpts {
		t.Errorf("options = %+v, want %+v", got.Options, wantOpts)
	}

	g.Update(nil)

	a, _ := g.Node("A")
	if v, _ := a.Label.Element().Attribute("transform"); v != "translate(39.5,9)" {
		t.Errorf("A transform = %q, want translate(39.5,9)", v)
	}
	if _, hidden := a.Label.Element().Attribute("opacity"); hidden {
		t.Error("A should be visible after Update")
	}

	e, _ := g.Edge("A", "B")
	const wantPath = "M50,31L50,37.5C50,44,50,57,50,70C50,83,50,96,50,102.5L50,109"
	if d, _ := e.Label.Element().Attribute("d"); d != wantPath {
		t.Errorf("edge path = %q, want %q", d, wantPath)
	}
	if e.Label.X != 60 || e.Label.Y != 70 {
		t.Errorf("label anchor = (%v,%v), want (60,70)", e.Label.X, e.Label.Y)
	}

	// Update is a projection: repeating it changes nothing.
	before := string(doc.Bytes())
	g.Update(nil)
	if after := string(doc.Bytes()); after != before {
		t.Error("second Update() changed the document")
	}
}

func TestLayoutCancelledLeavesGeometry(t *testing.T) {
	doc := newDocument()
	g := abGraph(t, WithTimeout(10*time.Millisecond))
	g.Build(doc, doc.Root())
	g.Measure()
	a, _ := g.Node("A")
	a.Label.X, a.Label.Y = 5, 6
	g.Update(nil)
	before := string(doc.Bytes())

	engine := layout.EngineFunc(func(ctx context.Context, _ *layout.Request) (*layout.Response, error) {
		<-ctx.Done()
		return layout.CancelResponse(), nil
	})
	status, err := g.Layout(context.Background(), engine)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if status != layout.StatusCancelled {
		t.Fatalf("status = %v, want cancelled", status)
	}

	if a.Label.X != 5 || a.Label.Y != 6 {
		t.Errorf("A moved to (%v,%v)", a.Label.X, a.Label.Y)
	}
	if e, _ := g.Edge("A", "B"); e.Label.Points != nil {
		t.Errorf("edge points = %v, want none", e.Label.Points)
	}
	g.Update(nil)
	if after := string(doc.Bytes()); after != before {
		t.Error("cancelled layout changed the drawing")
	}
}

func TestLayoutPromptWait(t *testing.T) {
	var prompts int
	var mu sync.Mutex
	prompter := layout.PrompterFunc(func(ctx context.Context, message string) (layout.Decision, error) {
		mu.Lock()
		prompts++
		mu.Unlock()
		if message != layout.LargeGraphMessage {
			t.Errorf("message = %q", message)
		}
		return layout.DecisionWait, nil
	})
	g := abGraph(t, WithTimeout(5*time.Millisecond), WithPrompter(prompter))

	engine := layout.EngineFunc(func(ctx context.Context, _ *layout.Request) (*layout.Response, error) {
		select {
		case <-time.After(40 * time.Millisecond):
			return abResponse(), nil
		case <-ctx.Done():
			return layout.CancelResponse(), nil
		}
	})
	status, err := g.Layout(context.Background(), engine)
	if err != nil || status != layout.StatusDone {
		t.Fatalf("Layout() = %v, %v", status, err)
	}
	mu.Lock()
	defer mu.Unlock()
	if prompts != 1 {
		t.Errorf("prompted %d times, want 1", prompts)
	}
	if b, _ := g.Node("B"); b.Label.Y != 120 {
		t.Errorf("B.Y = %v, want 120", b.Label.Y)
	}
}

func TestLayoutFailures(t *testing.T) {
	tests := []struct {
		name   string
		engine layout.EngineFunc
	}{
		{
			name: "engine error",
			engine: func(context.Context, *layout.Request) (*layout.Response, error) {
				return nil, fmt.Errorf("boom")
			},
		},
		{
			name: "missing node",
			engine: func(context.Context, *layout.Request) (*layout.Response, error) {
				resp := abResponse()
				resp.Nodes = resp.Nodes[:1]
				return resp, nil
			},
		},
		{
			name: "short route",
			engine: func(context.Context, *layout.Request) (*layout.Response, error) {
				resp := abResponse()
				resp.Edges[0].Points = resp.Edges[0].Points[:1]
				return resp, nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := abGraph(t)
			status, err := g.Layout(context.Background(), tt.engine)
			if status != layout.StatusFailed || !errors.Is(err, errors.ErrCodeLayoutFailed) {
				t.Errorf("Layout() = %v, %v; want failed with LAYOUT_FAILED", status, err)
			}
			if a, _ := g.Node("A"); a.Label.X != 0 || a.Label.Y != 0 {
				t.Error("failed layout moved A")
			}
		})
	}
}

func TestLayoutInProgress(t *testing.T) {
	g := abGraph(t)
	started := make(chan struct{})
	release := make(chan struct{})
	engine := layout.EngineFunc(func(context.Context, *layout.Request) (*layout.Response, error) {
		close(started)
		<-release
		return abResponse(), nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := g.Layout(context.Background(), engine)
		done <- err
	}()
	<-started

	status, err := g.Layout(context.Background(), engine)
	if status != layout.StatusFailed || !errors.Is(err, errors.ErrCodeLayoutInProgress) {
		t.Errorf("second Layout() = %v, %v; want LAYOUT_IN_PROGRESS", status, err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Layout() error: %v", err)
	}

	// The guard is released afterwards.
	fixed := layout.EngineFunc(func(context.Context, *layout.Request) (*layout.Response, error) {
		return abResponse(), nil
	})
	if _, err := g.Layout(context.Background(), fixed); err != nil {
		t.Errorf("Layout() after completion: %v", err)
	}
}

func TestLayoutClusters(t *testing.T) {
	doc := newDocument()
	g := clusterGraph(t)
	g.logger = log.New(io.Discard)
	g.Build(doc, doc.Root())
	g.Measure()

	engine := layout.EngineFunc(func(_ context.Context, req *layout.Request) (*layout.Response, error) {
		if req.Nodes[1].ParentID != "grp" {
			t.Errorf("a.parentId = %q, want grp", req.Nodes[1].ParentID)
		}
		return &layout.Response{
			Type: layout.TypeLayout,
			Nodes: []layout.NodeResult{
				{ID: "grp", X: 50, Y: 60, Width: 80, Height: 50},
				{ID: "a", X: 50, Y: 60, Width: 999, Height: 999},
				{ID: "b", X: 50, Y: 160},
			},
			Edges: []layout.EdgeResult{{
				From:   "a",
				To:     "b",
				Points: []curve.Point{{X: 50, Y: 71}, {X: 50, Y: 149}},
			}},
		}, nil
	})
	if status, err := g.Layout(context.Background(), engine); status != layout.StatusDone {
		t.Fatalf("Layout() = %v, %v", status, err)
	}
	g.Update(nil)

	grp, _ := g.Node("grp")
	if v, _ := grp.group.Attribute("transform"); v != "translate(50,60)" {
		t.Errorf("cluster transform = %q", v)
	}
	wantRect := map[string]string{"x": "-40", "y": "-25", "width": "80", "height": "50"}
	for name, want := range wantRect {
		if v, _ := grp.rect.Attribute(name); v != want {
			t.Errorf("cluster rect %s = %q, want %q", name, v, want)
		}
	}
	if a, _ := g.Node("a"); a.Label.Width != 21 {
		t.Errorf("leaf width = %v, engine sizes must not override leaves", a.Label.Width)
	}
}

func TestRequestDirection(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		edges     bool
		want      string
		reversed  bool
	}{
		{"default with edges", "", true, layout.RankDirLR, false},
		{"vertical with edges", DirectionVertical, true, "", false},
		{"horizontal with edges", DirectionHorizontal, true, layout.RankDirLR, false},
		{"default without edges", "", false, "", true},
		{"vertical without edges", DirectionVertical, false, layout.RankDirLR, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(WithDirection(tt.direction))
			g.SetNode("a", nil)
			g.SetNode("b", nil)
			if tt.edges {
				_ = g.SetEdge("a", "b", nil)
			}
			req := g.Request()
			if req.Options.Direction != tt.want {
				t.Errorf("direction = %q, want %q", req.Options.Direction, tt.want)
			}
			if first := req.Nodes[0].ID; (first == "b") != tt.reversed {
				t.Errorf("first node = %q, reversed = %v", first, tt.reversed)
			}
		})
	}
}

func TestRequestLargeGraphRanker(t *testing.T) {
	g := New()
	for i := 0; i <= layout.LargeGraphThreshold; i++ {
		g.SetNode(fmt.Sprintf("n%d", i), nil)
	}
	if r := g.Request().Options.Ranker; r != layout.RankerLongestPath {
		t.Errorf("ranker = %q, want %q", r, layout.RankerLongestPath)
	}

	small := New()
	small.SetNode("a", nil)
	if r := small.Request().Options.Ranker; r != "" {
		t.Errorf("small graph ranker = %q, want default", r)
	}
}

func TestRequestEdgeOverrides(t *testing.T) {
	g := New(WithNodeSeparation(30), WithRankSeparation(40))
	g.SetNode("a", nil)
	g.SetNode("b", nil)
	_ = g.SetEdge("a", "b", &Edge{MinLen: 2, Weight: 5, LabelOffset: 4, LabelPos: "c"})

	req := g.Request()
	want := layout.Edge{From: "a", To: "b", MinLen: 2, Weight: 5, LabelOffset: 4, LabelPos: "c"}
	if req.Edges[0] != want {
		t.Errorf("edge = %+v, want %+v", req.Edges[0], want)
	}
	if req.Options.NodeSeparation != 30 || req.Options.RankSeparation != 40 {
		t.Errorf("options = %+v", req.Options)
	}
}
