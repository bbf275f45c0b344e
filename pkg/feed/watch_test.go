package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/peoplesfeelings/mindmap/pkg/item"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.ndjson")
	if err := os.WriteFile(path, []byte(`{"id":"r","is_first":true}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := make(chan []item.Item, 16)
	w, err := NewWatcher(path,
		WithDebounce(20*time.Millisecond),
		WithOnItems(func(items []item.Item) {
			select {
			case got <- items:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	data := []byte(`{"id":"r","is_first":true}` + "\n" + `{"id":"a","reply_to_id":"r"}` + "\n")
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

wait:
	for {
		select {
		case items := <-got:
			if len(items) == 2 {
				break wait
			}
		case <-tick.C:
			// The watch may not be registered yet; keep touching the file.
			if err := os.WriteFile(path, data, 0644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload after the feed changed")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v, want nil after cancel", err)
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "feed.json"))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() on a missing directory should fail")
	}
}
