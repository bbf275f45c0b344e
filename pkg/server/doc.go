// Package server exposes a live mind map over HTTP.
//
// One [Server] owns one [mindmap.MindMap]. Items arrive through the API
// (or a watched feed), the frame loop started by [Server.Run] steps the
// physics, and the latest frame can be fetched as JSON, SVG or DOT.
//
// # Routes
//
//	GET  /health              liveness
//	GET  /info                counts, alpha state and transform
//	POST /items               add items (JSON array or NDJSON); ?refresh=false only queues them
//	POST /refresh             place queued items and update the layout
//	GET  /unplaced            items still waiting for an ancestor
//	POST /zoom                {"level": 2}
//	POST /freeze              stop the physics
//	POST /center              pan back to the origin
//	POST /untangle            run the declumping pass
//	POST /resize              {"width": 1280, "height": 720}
//	GET  /transform           current view transform
//	PUT  /transform           {"k": 1, "x": 0, "y": 0}
//	GET  /snapshot            snapshot JSON
//	PUT  /snapshot            restore a snapshot
//	GET  /snapshot.svg        SVG export of the live layout
//	GET  /snapshot.dot        Graphviz DOT export
//	POST /snapshot/save       store the snapshot in the cache
//	GET  /metrics             Prometheus metrics, when configured
//
// Every request passes through the observability server hooks.
package server
