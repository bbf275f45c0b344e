// Package pkg holds the mindmap libraries.
//
// # Overview
//
// mindmap lays out reply trees as force-directed mind maps. Items name the
// item they reply to; a reply that arrives before its parent waits until
// the parent is placed. The packages fall into four groups:
//
//  1. Model: [item], [force], [layout], [viewport], [drag]
//  2. Facade: [mindmap]
//  3. Output: [render], [snapshot], [feed]
//  4. Infrastructure: [cache], [config], [pipeline], [server], [observability], [errors]
//
// # Data Flow
//
//	feed (JSON / NDJSON)
//	         ↓
//	    [item] package (placement store, parents before replies)
//	         ↓
//	    [layout] package (nodes + links on a [force] simulation)
//	         ↓
//	    [mindmap] package (frame loop, zoom, drag)
//	         ↓
//	    [render] / [snapshot] (SVG, DOT, JSON)
//
// # Quick Start
//
// Settle a feed offline and export it:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/peoplesfeelings/mindmap/pkg/feed"
//	    "github.com/peoplesfeelings/mindmap/pkg/pipeline"
//	    "github.com/peoplesfeelings/mindmap/pkg/render"
//	)
//
//	items, _ := feed.ReadFile("replies.ndjson")
//	snap, _, _ := pipeline.Settle(context.Background(), items, pipeline.Options{})
//	os.WriteFile("replies.svg", render.RenderSVG(snap.Frame()), 0644)
//
// A live host implements [mindmap.Container] and drives
// [mindmap.MindMap.Frame] from its own loop, or calls
// [mindmap.MindMap.Run].
//
// # Main Packages
//
// [item] - The placement store. Items are placed once their parent is;
// duplicates are dropped when unique ids are enforced.
//
// [force] - A small force simulation: link, many-body (Barnes-Hut), collide,
// x/y and centre forces with alpha cooling.
//
// [layout] - Keeps simulation nodes in step with the store, runs the
// untangle pass and produces drawable frames.
//
// [viewport] - The zoom/pan transform with animated transitions.
//
// [drag] - Pointer hit testing and node pinning with a dead zone.
//
// [mindmap] - The facade that ties the above together behind one mutex.
//
// [pipeline] - Offline settle and render with caching, used by the CLI.
//
// [server] - HTTP API over a live map.
//
// [item]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/item
// [force]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/force
// [layout]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/viewport
// [drag]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/drag
// [mindmap]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/mindmap
// [render]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/render
// [snapshot]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/snapshot
// [feed]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/feed
// [cache]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/cache
// [config]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/server
// [observability]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/errors
// [mindmap.Container]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/mindmap#Container
// [mindmap.MindMap.Frame]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/mindmap#MindMap.Frame
// [mindmap.MindMap.Run]: https://pkg.go.dev/github.com/peoplesfeelings/mindmap/pkg/mindmap#MindMap.Run
package pkg
