package distortion

import (
	"testing"

	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
)

func TestDecodeRedraw(t *testing.T) {
	resp, err := Decode("0.1,0.2,0.3_A,B-B,C-_D,E-", 3, true)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := ColorTable{1: "0.1", 2: "0.2", 3: "0.3"}
	if len(resp.Colors) != len(want) {
		t.Fatalf("Colors = %v, want %v", resp.Colors, want)
	}
	for k, v := range want {
		if resp.Colors[k] != v {
			t.Errorf("Colors[%d] = %q, want %q", k, resp.Colors[k], v)
		}
	}
	assertLinks(t, "Graph1", resp.Graph1, []graph.Link{{"A", "B"}, {"B", "C"}})
	assertLinks(t, "Graph2", resp.Graph2, []graph.Link{{"D", "E"}})
	if !resp.Redraw {
		t.Error("Redraw = false, want true")
	}
}

func TestDecodeRecolorIgnoresEdges(t *testing.T) {
	resp, err := Decode("red,blue_garbage_more garbage", 2, false)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if resp.Graph1 != nil || resp.Graph2 != nil || resp.Redraw {
		t.Errorf("recolor response carries edges: %+v", resp)
	}
	if resp.Colors[2] != "blue" {
		t.Errorf("Colors[2] = %q", resp.Colors[2])
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		nodeCount int
		redraw    bool
	}{
		{"OnlyOneSegment", "only_one_segment", 3, true},
		{"NoSeparator", "0.1,0.2", 2, false},
		{"TwoSegments", "0.1_A,B-", 1, false},
		{"FourSegments", "0.1_A,B-_C,D-_x", 1, false},
		{"ShortColorList", "0.1,0.2_A,B-_C,D-", 3, false},
		{"EmptyColorInside", "0.1,,0.3_A,B-_C,D-", 3, false},
		{"BadEdgeOnRedraw", "0.1_AB-_C,D-", 1, true},
		{"ServletErrorText", "Matlab connection refused", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Decode(tt.body, tt.nodeCount, tt.redraw)
			if err == nil {
				t.Fatalf("Decode() = %+v, want error", resp)
			}
			if resp != nil {
				t.Error("partial response returned with error")
			}
			if !errs.Is(err, errs.ErrCodeProtocol) {
				t.Errorf("code = %s, want PROTOCOL_ERROR", errs.GetCode(err))
			}
		})
	}
}

func TestDecodeTrailingSeparators(t *testing.T) {
	// The servlet terminates every colour with ','.
	resp, err := Decode("0.5,0.7,_A,B-_\r\n", 2, true)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(resp.Colors) != 2 {
		t.Errorf("Colors = %v", resp.Colors)
	}
	if len(resp.Graph2) != 0 {
		t.Errorf("Graph2 = %v, want empty", resp.Graph2)
	}
}

func TestDecodeExtraColorsIgnored(t *testing.T) {
	resp, err := Decode("1,2,3,4_x,y-_x,y-", 2, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Colors) != 2 {
		t.Errorf("len(Colors) = %d, want 2", len(resp.Colors))
	}
}

func TestColorTableLookup(t *testing.T) {
	c := ColorTable{1: "red", 2: "green", 3: "blue"}
	tests := []struct {
		id      string
		ordinal int
		want    string
		ok      bool
	}{
		{"3", 1, "blue", true},  // numeric identity wins
		{"A", 2, "green", true}, // falls back to position
		{"99", 1, "", false},    // unknown index stays unfilled
		{"0", 1, "", false},
		{"Z", 7, "", false},
		{"Z", 0, "", false}, // not in the primary graph
	}
	for _, tt := range tests {
		got, ok := c.Lookup(tt.id, tt.ordinal)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q, %d) = %q, %v; want %q, %v", tt.id, tt.ordinal, got, ok, tt.want, tt.ok)
		}
	}
	idx := c.Indices()
	if len(idx) != 3 || idx[0] != 1 || idx[2] != 3 {
		t.Errorf("Indices() = %v", idx)
	}
}

func TestColorTableZeroBasedLabels(t *testing.T) {
	resp, err := Decode("red,green,blue__", 3, false)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		id   string
		want string
		ok   bool
	}{
		{"0", "", false},
		{"1", "red", true},
		{"2", "green", true},
	}
	for i, tt := range tests {
		got, ok := resp.Colors.Lookup(tt.id, i+1)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.ok)
		}
	}
}

func assertLinks(t *testing.T, name string, got, want []graph.Link) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}
