// Package pkg provides the libraries behind distortviz, a side-by-side viewer
// for two graphs coloured by a distortion measure.
//
// # Overview
//
// distortviz loads two edge lists (graph1 and graph2), lays each out with a
// force-directed simulation, and pins every node the two graphs share to
// the same position so the eye can compare them. An external distortion
// service scores graph1's nodes; the scores become node colours. The pkg
// directory is organized into four areas:
//
//  1. Graph input: [graph], [edgelist]
//  2. Layout: [layout], [mirror], [region]
//  3. The distortion service: [distortion], [httputil], [cache]
//  4. Views and output: [view], [snapshot], [render], [render/nodelink]
//
// # Architecture
//
// The data flow for one comparison:
//
//	graph1.txt, graph2.txt
//	         ↓
//	    [edgelist] package (parse lines into a graph)
//	         ↓
//	    [layout] package (force simulation, one tick at a time)
//	         ↓
//	    [mirror] package (graph1 positions pinned onto graph2)
//	         ↓
//	    [distortion] package (POST both graphs, decode colours)
//	         ↓
//	    [view] package (state, redraw or recolour, frames)
//	         ↓
//	    web page, terminal table, DOT/SVG/PDF/PNG, saved [snapshot]
//
// # Quick Start
//
//	client, err := distortion.NewClient("http://localhost:8081/GraphServlet")
//	if err != nil {
//	    return err
//	}
//	ctrl := view.NewController(client)
//	if err := ctrl.LoadGraph(ctx, graph.Primary, f1); err != nil {
//	    return err
//	}
//	if err := ctrl.LoadGraph(ctx, graph.Secondary, f2); err != nil {
//	    return err
//	}
//	ctrl.SetParameters(3, "1")
//	res, err := ctrl.RunDistortion(ctx)
//
// # Infrastructure
//
// [errors] carries the error codes every package returns and their HTTP
// statuses. [observability] defines hooks that [metrics] backs with
// Prometheus. [buildinfo] holds link-time version data.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/graph
// [edgelist]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/edgelist
// [layout]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/layout
// [mirror]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/mirror
// [region]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/region
// [distortion]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/distortion
// [httputil]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/cache
// [view]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/view
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/snapshot
// [render]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/metrics
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/distortviz/pkg/buildinfo
package pkg
