package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info passes info", log.InfoLevel, func(l *log.Logger) { l.Info("placed") }, true},
		{"info drops debug", log.InfoLevel, func(l *log.Logger) { l.Debug("tick") }, false},
		{"debug passes debug", log.DebugLevel, func(l *log.Logger) { l.Debug("tick") }, true},
		{"warn drops info", log.WarnLevel, func(l *log.Logger) { l.Info("placed") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("settled", "nodes", 3)

	out := buf.String()
	if !regexp.MustCompile(`^\d\d:\d\d:\d\d\.\d\d `).MatchString(out) {
		t.Errorf("output %q does not start with a short timestamp", out)
	}
	if !strings.Contains(out, "nodes=3") {
		t.Errorf("output %q is missing the key/value pair", out)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Settled 3 items")

	if !regexp.MustCompile(`Settled 3 items \(\d+(\.\d+)?(ns|µs|ms|s)\)`).MatchString(buf.String()) {
		t.Errorf("output %q is missing the elapsed time", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should fall back to log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("stored logger was not returned")
	}
}
