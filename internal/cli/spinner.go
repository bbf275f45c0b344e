package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a message on stderr while a long step runs.
type Spinner struct {
	parent  context.Context
	message string
	out     io.Writer

	started atomic.Bool
	once    sync.Once
	quit chan struct{}
	done chan struct{}
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext returns a spinner that also stops when ctx ends.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return &Spinner{
		parent:  ctx,
		message: message,
		out:     os.Stderr,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins drawing in the background.
func (s *Spinner) Start() {
	if s.started.Swap(true) {
		return
	}
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.done)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			s.erase()
			return
		case <-s.parent.Done():
			s.erase()
			return
		case <-tick.C:
			glyph := spinnerFrames[frame%len(spinnerFrames)]
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.message))
		}
	}
}

func (s *Spinner) erase() {
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// Stop waits for the drawing goroutine to erase its line. Calling it more
// than once, or before Start, is fine.
func (s *Spinner) Stop() {
	first := false
	s.once.Do(func() {
		close(s.quit)
		first = true
	})
	if first && s.started.Load() {
		<-s.done
	}
}

// Cancelled reports whether the context the spinner was made with has
// ended. Stop alone does not cancel it.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
