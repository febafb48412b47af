package edgelist

import (
	"strings"

	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
)

// Encode serializes links into the wire form "src,tgt-src,tgt-".
// An empty slice encodes to "".
func Encode(links []graph.Link) string {
	var sb strings.Builder
	for _, l := range links {
		sb.WriteString(l.Source)
		sb.WriteString(errs.EndpointSeparator)
		sb.WriteString(l.Target)
		sb.WriteString(errs.EdgeSeparator)
	}
	return sb.String()
}

// DecodeSegment parses a wire-form edge list. Empty entries, including the
// one after the final terminator, are skipped.
func DecodeSegment(s string) ([]graph.Link, error) {
	var links []graph.Link
	for i, part := range strings.Split(s, errs.EdgeSeparator) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		l, err := parseLine(part)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeParse, err, "edge %d", i+1)
		}
		links = append(links, l)
	}
	return links, nil
}

// CheckWire returns an error if any identity in links would corrupt the
// wire form.
func CheckWire(links []graph.Link) error {
	for _, l := range links {
		if err := errs.ValidateWireID(l.Source); err != nil {
			return err
		}
		if err := errs.ValidateWireID(l.Target); err != nil {
			return err
		}
	}
	return nil
}
