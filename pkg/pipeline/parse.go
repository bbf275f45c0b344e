package pipeline

import (
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/peoplesfeelings/mindmap/pkg/cache"
	"github.com/peoplesfeelings/mindmap/pkg/feed"
	"github.com/peoplesfeelings/mindmap/pkg/item"
)

// StdinPath names standard input as a feed source.
const StdinPath = "-"

// Load reads a feed from path, or from stdin when path is StdinPath.
func Load(path string, stdin io.Reader) ([]item.Item, error) {
	if path == StdinPath {
		if stdin == nil {
			stdin = os.Stdin
		}
		return feed.Read(stdin)
	}
	return feed.ReadFile(path)
}

// FeedHash identifies a feed by content. Arrival order is part of the
// identity since it decides placement order.
func FeedHash(items []item.Item) string {
	data, _ := json.Marshal(items)
	return cache.Hash(data)
}
