package server

import (
	"sync"

	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/mindmap"
	"github.com/peoplesfeelings/mindmap/pkg/render"
)

// surface is the server's drawing target. It keeps the last drawn frame
// for readers outside the frame loop.
type surface struct {
	measurer render.TextMeasurer

	mu     sync.Mutex
	w, h   float64
	frame  layout.Frame
	frames uint64
}

func (s *surface) Size() (w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *surface) resize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w, s.h = w, h
}

func (s *surface) Measure(el mindmap.Element, width float64) (w, h float64) {
	it, _ := el.(item.Item)
	return s.measurer.Measure(it, width)
}

func (s *surface) Draw(f layout.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
	s.frames++
}

// last returns the last drawn frame and how many frames were drawn.
func (s *surface) last() (layout.Frame, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, s.frames
}
