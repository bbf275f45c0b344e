// Package feed reads, writes, generates and watches item feeds.
//
// A feed is a sequence of items in arrival order, stored either as one JSON
// array or as newline-delimited JSON objects:
//
//	[{"id": "r", "is_first": true, "text": "topic"},
//	 {"id": "a", "reply_to_id": "r", "text": "first reply"}]
//
//	{"id": "r", "is_first": true, "text": "topic"}
//	{"id": "a", "reply_to_id": "r", "text": "first reply"}
//
// Order in the feed is arrival order, not tree order: replies may precede
// their parents. [Generate] produces such shuffled demo feeds and [Watcher]
// re-reads a feed file whenever it changes.
package feed
