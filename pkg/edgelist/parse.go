package edgelist

import (
	"bufio"
	"io"
	"strings"

	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
)

const maxLineSize = 1 << 20

// Parse reads an edge-list file and builds its graph.
func Parse(r io.Reader) (*graph.Graph, error) {
	if r == nil {
		return nil, errs.New(errs.ErrCodeFileRead, "no file chosen")
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var links []graph.Link
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		l, err := parseLine(line)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeParse, err, "line %d", lineNo)
		}
		links = append(links, l)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeFileRead, err, "read edge list")
	}
	return graph.New(links), nil
}

// ParseString parses an in-memory edge list.
func ParseString(s string) (*graph.Graph, error) {
	return Parse(strings.NewReader(s))
}

func parseLine(line string) (graph.Link, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return graph.Link{}, errs.New(errs.ErrCodeParse, "expected source,target, got %q", line)
	}
	src := strings.TrimSpace(fields[0])
	tgt := strings.TrimSpace(fields[1])
	if err := errs.ValidateNodeID(src); err != nil {
		return graph.Link{}, err
	}
	if err := errs.ValidateNodeID(tgt); err != nil {
		return graph.Link{}, err
	}
	return graph.Link{Source: src, Target: tgt}, nil
}
