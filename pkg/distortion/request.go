package distortion

import (
	"net/url"
	"strconv"

	"github.com/matzehuels/distortviz/pkg/edgelist"
	"github.com/matzehuels/distortviz/pkg/graph"
)

// Form field names understood by the distortion service.
const (
	FieldGraph1  = "graph1file"
	FieldGraph2  = "graph2file"
	FieldK       = "k"
	FieldMeasure = "measure"
	FieldRegion  = "region"
)

// Request is one call to the distortion service.
type Request struct {
	Graph1 []graph.Link
	Graph2 []graph.Link
	Params
}

// Validate checks the params and that every identity survives the wire
// format.
func (r Request) Validate() error {
	if err := r.Params.Validate(); err != nil {
		return err
	}
	if err := edgelist.CheckWire(r.Graph1); err != nil {
		return err
	}
	return edgelist.CheckWire(r.Graph2)
}

// Form encodes the request as form values.
func (r Request) Form() url.Values {
	return url.Values{
		FieldGraph1:  {edgelist.Encode(r.Graph1)},
		FieldGraph2:  {edgelist.Encode(r.Graph2)},
		FieldK:       {strconv.Itoa(r.K)},
		FieldMeasure: {r.Measure},
		FieldRegion:  {strconv.Itoa(r.Region)},
	}
}
