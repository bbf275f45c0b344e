package pipeline

import (
	"context"
	"time"

	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/mindmap"
	"github.com/peoplesfeelings/mindmap/pkg/render"
	"github.com/peoplesfeelings/mindmap/pkg/snapshot"
)

// headless sizes elements from their text and draws nothing. Elements
// are the items themselves.
type headless struct {
	measurer render.TextMeasurer
	w, h     float64
}

func (c headless) Size() (w, h float64) { return c.w, c.h }

func (c headless) Measure(el mindmap.Element, width float64) (w, h float64) {
	it, _ := el.(item.Item)
	return c.measurer.Measure(it, width)
}

func (headless) Draw(layout.Frame) {}

func newElement() mindmap.Element { return nil }

func populate(_ mindmap.Element, it item.Item) mindmap.Element { return it }

// Settle places items and steps the physics until it cools or
// opts.MaxTicks is reached. It returns the snapshot and the number of
// steps taken.
func Settle(ctx context.Context, items []item.Item, opts Options) (snapshot.Snapshot, int, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return snapshot.Snapshot{}, 0, err
	}
	c := headless{measurer: opts.Measurer, w: opts.Width, h: opts.Height}
	m, err := mindmap.New(c, newElement, populate, opts.MindMap)
	if err != nil {
		return snapshot.Snapshot{}, 0, err
	}

	m.AddDataItems(items...)
	m.UpdateSimulationData()

	ticks := 0
	now := time.Now()
	for m.Running() && ticks < opts.MaxTicks {
		if err := ctx.Err(); err != nil {
			return snapshot.Snapshot{}, ticks, err
		}
		m.Frame(now)
		ticks++
	}
	return m.Snapshot(), ticks, nil
}
