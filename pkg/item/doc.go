// Package item holds reply-tree items and the incremental store that decides
// which of them can be drawn.
//
// Items arrive in any order. A reply can show up before the message it
// replies to, so the [Store] keeps two ordered collections:
//
//   - placed: items whose reply_to_id chain resolves to the root
//   - unplaced: everything else, waiting for its parent
//
// [Store.PlaceUnplaced] moves items across by repeated scans until a full
// pass places nothing. Placement is monotonic. Once placed, an item is never
// returned to the unplaced collection.
//
// Malformed data is tolerated silently. An item with an empty id never
// places, an orphan waits forever, and when id uniqueness is enforced a
// duplicate id is dropped on arrival.
//
// # Usage
//
//	s := item.NewStore(item.WithLogger(logger))
//	s.AddItems(feed...)
//	s.PlaceUnplaced()
//	for _, it := range s.Data() {
//	    fmt.Println(it.ID)
//	}
package item
