package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/layout"
	"github.com/matzehuels/distortviz/pkg/view"
)

// Gap separates the two canvases in [SideBySide].
const Gap = 40.0

// Options configures node-link diagram rendering.
type Options struct {
	// Width is the layout canvas width, used to offset the secondary slot.
	// Zero means the layout default.
	Width float64
	// Detailed appends the colour value to each node label.
	Detailed bool
}

func (o Options) width() float64 {
	if o.Width > 0 {
		return o.Width
	}
	return layout.DefaultConfig().Width
}

// ToDOT converts one slot to DOT with every node pinned at its layout
// position.
func ToDOT(s view.SlotSnapshot, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	writeSlot(&buf, s, "", 0, opts)
	buf.WriteString("}\n")
	return buf.String()
}

// SideBySide converts both slots of v to a single DOT graph. Node names are
// prefixed with the slot number so shared identities stay distinct.
func SideBySide(v view.ViewSnapshot, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	offset := 0.0
	for _, sl := range graph.Slots {
		fmt.Fprintf(&buf, "  subgraph cluster_%s {\n    label=%q;\n    color=lightgrey;\n", sl, sl.String())
		writeSlot(&buf, *v.Slot(sl), fmt.Sprintf("%d:", int(sl)+1), offset, opts)
		buf.WriteString("  }\n")
		offset += opts.width() + Gap
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fixedsize=true, width=0.3, fontsize=9];\n")
	buf.WriteString("\n")
}

func writeSlot(buf *bytes.Buffer, s view.SlotSnapshot, prefix string, offset float64, opts Options) {
	for _, n := range s.Nodes {
		fmt.Fprintf(buf, "  %q [%s];\n", prefix+n.ID, strings.Join(fmtAttrs(n, offset, opts.Detailed), ", "))
	}
	for _, l := range s.Links {
		fmt.Fprintf(buf, "  %q -- %q;\n", prefix+l.Source, prefix+l.Target)
	}
}

func fmtAttrs(n view.NodeView, offset float64, detailed bool) []string {
	label := n.ID
	if detailed && n.Color != "" {
		label += "\n" + n.Color
	}
	// DOT's y axis points up; the canvas's points down.
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X+offset, -n.Y),
	}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", FillColor(n.Color)))
	}
	return attrs
}

// FillColor maps a distortion colour value to a Graphviz colour. Numeric
// values in [0, 1] run from white to red; anything else is passed through
// as a colour name.
func FillColor(value string) string {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) {
		return value
	}
	v = math.Max(0, math.Min(1, v))
	lerp := func(from, to float64) int { return int(math.Round(from + (to-from)*v)) }
	return fmt.Sprintf("#%02x%02x%02x", lerp(255, 215), lerp(255, 48), lerp(255, 39))
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
