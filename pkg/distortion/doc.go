// Package distortion talks to the external distortion service and decodes
// its answers.
//
// # Request
//
// A [Request] carries both edge lists plus [Params]. It is sent as an
// application/x-www-form-urlencoded POST:
//
//	graph1file=A,B-B,C-&graph2file=D,E-&k=3&measure=mds&region=1
//
// # Response
//
// The service answers with text/plain made of three '_'-separated
// segments:
//
//	0.1,0.2,0.3_A,B-B,C-_D,E-
//	^ colours   ^ graph 1  ^ graph 2
//
// Colours are listed by the server's 1-based node index. The two edge lists
// describe the selected region and are only used when the views must be
// redrawn. [Decode] either returns a complete [Response] or an error; it
// never returns part of one.
//
// # Ordering
//
// Calls may overlap. A [Sequencer] hands out increasing tickets so that a
// caller can drop any response that is not for its most recent request.
package distortion
