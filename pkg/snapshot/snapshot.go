// Package snapshot serializes the state of a laid-out mind map.
//
// A [Snapshot] records every drawn node at its centre position together
// with the links, the viewport transform and the store counters. It is the
// exchange format of the CLI (`mindmap render -o map.json`), the layout
// cache and the HTTP API.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "nodes": [
//	    {"id": "r", "x": 0, "y": 0, "width": 200, "height": 80, "pinned": true,
//	     "item": {"id": "r", "is_first": true, "text": "hello"}}
//	  ],
//	  "links": [{"source": "a", "target": "r"}],
//	  "transform": {"k": 1, "x": 0, "y": 0},
//	  "alpha": 0.0009,
//	  "placed": 2,
//	  "unplaced": []
//	}
package snapshot

import (
	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

// Version is the current snapshot format version.
const Version = 1

// Node is a node at its centre position in simulation space.
type Node struct {
	ID     string    `json:"id"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Pinned bool      `json:"pinned,omitempty"`
	Item   item.Item `json:"item"`
}

// Snapshot is a serializable mind map state.
type Snapshot struct {
	Version   int                `json:"version"`
	Nodes     []Node             `json:"nodes"`
	Links     []item.Link        `json:"links"`
	Transform viewport.Transform `json:"transform"`
	Alpha     float64            `json:"alpha"`
	Placed    int                `json:"placed"`
	Unplaced  []item.Item        `json:"unplaced"`
}

// FromFrame builds a snapshot from a rendered frame. Node boxes are
// converted back to centre positions.
func FromFrame(f layout.Frame, unplaced []item.Item) Snapshot {
	s := Snapshot{
		Version:   Version,
		Nodes:     make([]Node, len(f.Nodes)),
		Links:     make([]item.Link, len(f.Links)),
		Transform: f.Transform,
		Alpha:     f.Alpha,
		Placed:    len(f.Nodes),
		Unplaced:  append([]item.Item{}, unplaced...),
	}
	for i, n := range f.Nodes {
		cx, cy := n.Center()
		s.Nodes[i] = Node{
			ID:     n.ID,
			X:      cx,
			Y:      cy,
			Width:  n.Width,
			Height: n.Height,
			Pinned: n.Pinned,
			Item:   n.Item,
		}
	}
	for i, l := range f.Links {
		s.Links[i] = item.Link{Source: l.Source, Target: l.Target}
	}
	return s
}

// Frame converts the snapshot back into a drawable frame.
func (s Snapshot) Frame() layout.Frame {
	byID := make(map[string]Node, len(s.Nodes))
	f := layout.Frame{
		Nodes:     make([]layout.NodeFrame, len(s.Nodes)),
		Transform: s.Transform,
		Alpha:     s.Alpha,
	}
	for i, n := range s.Nodes {
		byID[n.ID] = n
		f.Nodes[i] = layout.NodeFrame{
			ID:     n.ID,
			Item:   n.Item,
			X:      n.X - n.Width/2,
			Y:      n.Y - n.Height/2,
			Width:  n.Width,
			Height: n.Height,
			Pinned: n.Pinned,
		}
	}
	for _, l := range s.Links {
		src, okS := byID[l.Source]
		dst, okT := byID[l.Target]
		if !okS || !okT {
			continue
		}
		f.Links = append(f.Links, layout.LinkFrame{
			Source: l.Source, Target: l.Target,
			X1: src.X, Y1: src.Y, X2: dst.X, Y2: dst.Y,
		})
	}
	return f
}

// Items returns the items of every node in node order.
func (s Snapshot) Items() []item.Item {
	out := make([]item.Item, len(s.Nodes))
	for i, n := range s.Nodes {
		out[i] = n.Item
	}
	return out
}

// Validate checks structural consistency: supported version, unique
// non-empty node ids, links between known nodes and a usable transform.
func (s Snapshot) Validate() error {
	if s.Version != Version {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot version %d", s.Version)
	}
	ids := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "node %d has an empty id", i)
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, l := range s.Links {
		if !ids[l.Source] || !ids[l.Target] {
			return errors.New(errors.ErrCodeInvalidFormat, "link %s -> %s references an unknown node", l.Source, l.Target)
		}
	}
	if !s.Transform.IsValid() {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid transform %v", s.Transform)
	}
	return nil
}
