package distortion

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/distortviz/pkg/edgelist"
	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
)

// segmentCount is the number of '_'-separated parts in a response.
const segmentCount = 3

// ColorTable maps the server's 1-based node index to a colour value.
type ColorTable map[int]string

// Lookup returns the colour for a node. A numeric identity is the
// server's own index and is looked up as is. Any other identity uses
// ordinal, its 1-based position in the loaded primary graph; 0 means the
// node has none.
func (c ColorTable) Lookup(id string, ordinal int) (string, bool) {
	if n, err := strconv.Atoi(id); err == nil {
		v, ok := c[n]
		return v, ok
	}
	if ordinal < 1 {
		return "", false
	}
	v, ok := c[ordinal]
	return v, ok
}

// Indices returns the table keys in ascending order.
func (c ColorTable) Indices() []int {
	keys := make([]int, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Clone returns a copy of the table.
func (c ColorTable) Clone() ColorTable {
	out := make(ColorTable, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Response is a fully decoded service answer.
type Response struct {
	Colors ColorTable
	Redraw bool         // Graph1 and Graph2 are set
	Graph1 []graph.Link // Region edges for the primary view
	Graph2 []graph.Link // Region edges for the secondary view
}

// Decode parses a service body. nodeCount is the number of colours
// required; extra colours are ignored. The edge segments are only parsed
// when redraw is true.
func Decode(body string, nodeCount int, redraw bool) (*Response, error) {
	body = strings.TrimRight(body, " \t\r\n")
	segs := strings.Split(body, "_")
	if len(segs) != segmentCount {
		return nil, errs.New(errs.ErrCodeProtocol,
			"expected %d '_'-separated segments, got %d", segmentCount, len(segs))
	}

	colors, err := decodeColors(segs[0], nodeCount)
	if err != nil {
		return nil, err
	}
	resp := &Response{Colors: colors, Redraw: redraw}
	if !redraw {
		return resp, nil
	}

	if resp.Graph1, err = edgelist.DecodeSegment(segs[1]); err != nil {
		return nil, errs.Wrap(errs.ErrCodeProtocol, err, "graph 1 edges")
	}
	if resp.Graph2, err = edgelist.DecodeSegment(segs[2]); err != nil {
		return nil, errs.Wrap(errs.ErrCodeProtocol, err, "graph 2 edges")
	}
	return resp, nil
}

func decodeColors(seg string, nodeCount int) (ColorTable, error) {
	parts := strings.Split(seg, ",")
	for len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) < nodeCount {
		return nil, errs.New(errs.ErrCodeProtocol,
			"colour list has %d entries, need %d", len(parts), nodeCount)
	}
	colors := make(ColorTable, nodeCount)
	for i := range nodeCount {
		v := strings.TrimSpace(parts[i])
		if v == "" {
			return nil, errs.New(errs.ErrCodeProtocol, "colour %d is empty", i+1)
		}
		colors[i+1] = v
	}
	return colors, nil
}
