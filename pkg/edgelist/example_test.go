package edgelist_test

import (
	"fmt"

	"github.com/matzehuels/distortviz/pkg/edgelist"
)

func ExampleParseString() {
	g, err := edgelist.ParseString("A,B\nB,C\nC,A\n")
	if err != nil {
		panic(err)
	}
	fmt.Println(g.NodeCount(), "nodes,", g.LinkCount(), "links")
	fmt.Println(edgelist.Encode(g.Links()))
	// Output:
	// 3 nodes, 3 links
	// A,B-B,C-C,A-
}

func ExampleDecodeSegment() {
	links, _ := edgelist.DecodeSegment("A,B-B,C-")
	for _, l := range links {
		fmt.Println(l.Source, "->", l.Target)
	}
	// Output:
	// A -> B
	// B -> C
}
