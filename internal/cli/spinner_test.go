package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	s := newSpinnerWithContext(ctx, msg)
	var buf bytes.Buffer
	s.out = &buf
	return s, &buf
}

func TestSpinnerDrawsAndErases(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Settling...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Settling...") {
		t.Errorf("output %q lacks the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q does not end by erasing the line", out)
	}
	if s.Cancelled() {
		t.Error("Stop reported as cancellation")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	cancelled, cancel2 := context.WithCancel(context.Background())
	cancel2()

	tests := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{"background", context.Background(), false},
		{"cancelled", cancelled, true},
		{"timed out", expired, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := quietSpinner(tt.ctx, tt.name)
			s.Start()
			time.Sleep(10 * time.Millisecond)
			s.Stop()
			if got := s.Cancelled(); got != tt.want {
				t.Errorf("Cancelled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpinnerStopTwiceOrUnstarted(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "twice")
	s.Start()
	s.Stop()
	s.Stop()

	idle, buf := quietSpinner(context.Background(), "idle")
	idle.Stop()
	if buf.Len() != 0 {
		t.Errorf("unstarted spinner wrote %q", buf)
	}
}
