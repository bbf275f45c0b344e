package item

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

// Store splits received items into placed and unplaced collections.
//
// A Store is not safe for concurrent use. The mindmap façade serializes
// access to it.
type Store struct {
	uniqueIDs bool
	logger    *log.Logger

	placed   []Item
	unplaced []Item

	seen      map[string]struct{} // ids in either collection
	placedIDs map[string]struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithUniqueIDs toggles duplicate-id suppression. It is on by default.
func WithUniqueIDs(enforce bool) Option {
	return func(s *Store) { s.uniqueIDs = enforce }
}

// WithLogger sets the logger used for debug output. A nil logger discards.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		uniqueIDs: true,
		logger:    log.New(io.Discard),
		seen:      make(map[string]struct{}),
		placedIDs: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddItems appends items to the unplaced collection in order. With
// uniqueness enforced, an item whose id is already known (placed, unplaced,
// or earlier in the same batch) is dropped. Nothing is placed until
// [Store.PlaceUnplaced] runs.
func (s *Store) AddItems(items ...Item) {
	dropped := 0
	for _, it := range items {
		if !s.admit(it) {
			dropped++
			continue
		}
		s.unplaced = append(s.unplaced, it)
	}
	if dropped > 0 {
		s.logger.Debug("dropped duplicate items", "count", dropped)
	}
}

// AddItem receives a single item and places it immediately when it is a
// root or its parent is already placed. It reports whether the item was
// placed. Children already waiting for it stay unplaced until the next
// [Store.PlaceUnplaced].
func (s *Store) AddItem(it Item) bool {
	if !s.admit(it) {
		s.logger.Debug("dropped duplicate item", "id", it.ID)
		return false
	}
	if s.placeable(it) {
		s.place(it)
		return true
	}
	s.unplaced = append(s.unplaced, it)
	return false
}

// PlaceUnplaced moves every item whose ancestry now resolves to the root
// into the placed collection. It rescans until a pass places nothing and
// returns how many items moved. A second call without new items returns 0.
func (s *Store) PlaceUnplaced() int {
	total := 0
	for {
		n := 0
		remaining := s.unplaced[:0]
		for _, it := range s.unplaced {
			if s.placeable(it) {
				s.place(it)
				n++
				continue
			}
			remaining = append(remaining, it)
		}
		clear(s.unplaced[len(remaining):])
		s.unplaced = remaining
		total += n
		if n == 0 {
			break
		}
	}
	if total > 0 {
		s.logger.Debug("placed items", "placed", total, "store", len(s.placed), "unplaced", len(s.unplaced))
	}
	return total
}

// Data returns the placed collection in placement order. The slice is
// shared with the store and must not be modified.
func (s *Store) Data() []Item {
	return s.placed
}

// Unplaced returns the items still waiting for an ancestor. The slice is
// shared with the store and must not be modified.
func (s *Store) Unplaced() []Item {
	return s.unplaced
}

// Len returns the number of placed items.
func (s *Store) Len() int {
	return len(s.placed)
}

// IsPlaced reports whether an item with the given id has been placed.
func (s *Store) IsPlaced(id string) bool {
	_, ok := s.placedIDs[id]
	return ok
}

// Links derives one link per placed non-root item, from the item to its
// parent. The result is rebuilt on every call.
func (s *Store) Links() []Link {
	links := make([]Link, 0, len(s.placed))
	for _, it := range s.placed {
		if it.IsFirst {
			continue
		}
		links = append(links, Link{Source: it.ID, Target: it.ReplyToID})
	}
	return links
}

// Info returns a short summary of both collections.
func (s *Store) Info() string {
	return fmt.Sprintf("store length: %d\nunplaced length: %d", len(s.placed), len(s.unplaced))
}

// DataJSON dumps the placed collection for debugging.
func (s *Store) DataJSON() ([]byte, error) {
	return json.MarshalIndent(nonNil(s.placed), "", "  ")
}

// UnplacedJSON dumps the unplaced collection for debugging.
func (s *Store) UnplacedJSON() ([]byte, error) {
	return json.MarshalIndent(nonNil(s.unplaced), "", "  ")
}

func (s *Store) admit(it Item) bool {
	if !s.uniqueIDs {
		return true
	}
	if _, dup := s.seen[it.ID]; dup {
		return false
	}
	s.seen[it.ID] = struct{}{}
	return true
}

func (s *Store) placeable(it Item) bool {
	if it.ID == "" {
		return false
	}
	if it.IsFirst {
		return true
	}
	_, ok := s.placedIDs[it.ReplyToID]
	return ok
}

func (s *Store) place(it Item) {
	if it.IsFirst && s.rootCount() > 0 {
		s.logger.Warn("additional root item", "id", it.ID)
	}
	s.placed = append(s.placed, it)
	s.placedIDs[it.ID] = struct{}{}
}

func (s *Store) rootCount() int {
	n := 0
	for _, it := range s.placed {
		if it.IsFirst {
			n++
		}
	}
	return n
}

func nonNil(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
