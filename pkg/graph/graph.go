package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Graph is a sequence of links plus the distinct nodes they reference.
type Graph struct {
	nodes []*Node
	links []Link
	index map[string]*Node
}

// New builds a graph from links. Nodes are created in order of first
// appearance, source before target.
func New(links []Link) *Graph {
	g := &Graph{
		links: make([]Link, len(links)),
		index: make(map[string]*Node),
	}
	copy(g.links, links)
	for _, l := range links {
		g.ensure(l.Source)
		g.ensure(l.Target)
	}
	return g
}

func (g *Graph) ensure(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	n := &Node{ID: id}
	g.index[id] = n
	g.nodes = append(g.nodes, n)
}

// Nodes returns the graph's nodes in first-appearance order. The pointers
// are shared: writing a node's position updates the graph.
func (g *Graph) Nodes() []*Node {
	if g == nil {
		return nil
	}
	return g.nodes
}

// Links returns a copy of the links in file order.
func (g *Graph) Links() []Link {
	if g == nil {
		return nil
	}
	out := make([]Link, len(g.links))
	copy(out, g.links)
	return out
}

// Node looks up a node by identity.
func (g *Graph) Node(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	n, ok := g.index[id]
	return n, ok
}

// NodeCount returns the number of distinct node identities.
func (g *Graph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.index)
}

// LinkCount returns the number of links, duplicates included.
func (g *Graph) LinkCount() int {
	if g == nil {
		return 0
	}
	return len(g.links)
}

// IDs returns node identities in first-appearance order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.Nodes()))
	for i, n := range g.Nodes() {
		ids[i] = n.ID
	}
	return ids
}

// Degree returns the number of link endpoints attached to each node.
// A self loop counts twice.
func (g *Graph) Degree() map[string]int {
	deg := make(map[string]int, g.NodeCount())
	for _, l := range g.links {
		deg[l.Source]++
		deg[l.Target]++
	}
	return deg
}

// Clone returns an independent copy with the same links and positions.
func (g *Graph) Clone() *Graph {
	c := New(g.Links())
	for _, n := range g.Nodes() {
		cn := c.index[n.ID]
		cn.X, cn.Y, cn.Fixed = n.X, n.Y, n.Fixed
	}
	return c
}

// =============================================================================
// Serialization
// =============================================================================

// Document is the JSON form of a graph.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Links []Link `json:"links" bson:"links"`
}

// ToDocument copies the graph into its serialization form.
func (g *Graph) ToDocument() Document {
	doc := Document{
		Nodes: make([]Node, 0, g.NodeCount()),
		Links: g.Links(),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, *n)
	}
	if doc.Links == nil {
		doc.Links = []Link{}
	}
	return doc
}

// FromDocument rebuilds a graph, restoring positions for listed nodes.
// Nodes listed in the document but not referenced by any link are dropped.
func FromDocument(doc Document) *Graph {
	g := New(doc.Links)
	for _, n := range doc.Nodes {
		if gn, ok := g.index[n.ID]; ok {
			gn.X, gn.Y, gn.Fixed = n.X, n.Y, n.Fixed
		}
	}
	return g
}

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.ToDocument()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc), nil
}
