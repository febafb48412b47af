// Package server is the web front end: a JSON API over view controllers,
// a Server-Sent Events stream of layout frames per view, and a small
// embedded page that draws them.
//
// Routes:
//
//	GET  /                                embedded page
//	GET  /healthz                         liveness
//	GET  /metrics                         prometheus
//	POST /api/views                       create a view, {"id": ...}
//	GET  /api/views/{id}                  view snapshot
//	DELETE /api/views/{id}                drop a view
//	PUT  /api/views/{id}/graphs/{slot}    edge-list body, slot 1|2|primary|secondary
//	PUT  /api/views/{id}/params           {"k": .., "measure": ..}
//	PUT  /api/views/{id}/region           {"region": ..}
//	POST /api/views/{id}/distortion       run the distortion service
//	GET  /api/views/{id}/events           SSE frames
//	POST /api/views/{id}/snapshots        save, {"id": ...}
//	GET  /api/snapshots                   list saved views
//	GET  /api/snapshots/{sid}             saved view
//	GET  /api/snapshots/{sid}/svg         saved view as SVG
//	GET  /api/snapshots/{sid}/dot         saved view as DOT
//
// Errors are {"error": message, "code": CODE} with the status taken from
// the error code.
package server
