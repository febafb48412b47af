// Package view binds the distortviz components into one interactive
// session: two graph slots, their synchronised layouts, the region
// selection and the colours returned by the distortion service.
//
// A [Controller] owns all mutable state of a session in an explicit
// [State] value. Its methods mirror the user actions:
//
//	c := view.NewController(client, view.WithRenderer(draw))
//	c.LoadGraph(ctx, graph.Primary, f1)    // lays out, records positions
//	c.LoadGraph(ctx, graph.Secondary, f2)  // lays out, mirrors positions
//	c.SetParameters(3, "1")
//	c.SelectRegion(2)
//	res, err := c.RunDistortion(ctx)       // recolours, maybe redraws
//
// Methods are serialised by a mutex, so a Controller may be shared between
// goroutines. Only the call to the distortion service runs outside the
// lock; responses that arrive after a newer request (or after any state
// change) are dropped and reported as stale.
//
// Every layout tick and every recolour is pushed to the [RenderFunc] as a
// [Frame].
package view
