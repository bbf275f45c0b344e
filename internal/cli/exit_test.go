package cli

import (
	"context"
	"fmt"
	"testing"

	"github.com/peoplesfeelings/mindmap/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"interrupt", fmt.Errorf("render: %w", context.Canceled), ExitInterrupt},
		{"bad option", errors.New(errors.ErrCodeInvalidOption, "item_width must be positive"), ExitConfig},
		{"bad config file", errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: foo"), ExitConfig},
		{"missing feed", errors.New(errors.ErrCodeFileNotFound, "feed not found"), ExitError},
		{"plain", fmt.Errorf("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
