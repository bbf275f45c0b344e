package feed

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/item"
)

// Format selects how Write lays out a feed.
type Format int

const (
	FormatNDJSON Format = iota // One object per line
	FormatArray                // One indented JSON array
)

// FormatForPath picks the array format for .json files and NDJSON for
// everything else.
func FormatForPath(path string) Format {
	if filepath.Ext(path) == ".json" {
		return FormatArray
	}
	return FormatNDJSON
}

// Read decodes a feed from r. It accepts a JSON array of objects or a
// stream of objects separated by whitespace. Empty input is an empty feed.
//
// Read does not close r.
func Read(r io.Reader) ([]item.Item, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return []item.Item{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFeed, err, "read feed")
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var items []item.Item
		if err := dec.Decode(&items); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFeed, err, "decode feed array")
		}
		if items == nil {
			items = []item.Item{}
		}
		return items, nil
	}

	items := []item.Item{}
	for n := 1; ; n++ {
		var it item.Item
		err := dec.Decode(&it)
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFeed, err, "decode feed record %d", n)
		}
		items = append(items, it)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// ReadFile reads a feed file.
func ReadFile(path string) ([]item.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "feed %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Parse decodes a feed held in memory.
func Parse(data []byte) ([]item.Item, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes items to w in the given format.
func Write(w io.Writer, items []item.Item, format Format) error {
	if format == FormatArray {
		if items == nil {
			items = []item.Item{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}

	enc := json.NewEncoder(w)
	for i, it := range items {
		if err := enc.Encode(it); err != nil {
			return fmt.Errorf("encode record %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteFile writes items to path, choosing the format from its extension.
func WriteFile(path string, items []item.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, items, FormatForPath(path))
}
