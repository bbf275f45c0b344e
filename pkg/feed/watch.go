package feed

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/peoplesfeelings/mindmap/pkg/item"
)

// DefaultDebounce is how long a feed file must stay quiet before it is
// re-read.
const DefaultDebounce = 200 * time.Millisecond

// ErrFileRemoved is reported when the watched feed disappears.
var ErrFileRemoved = errors.New("watched feed was removed")

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a re-read.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnItems sets the callback receiving the full feed after each change.
func WithOnItems(fn func([]item.Item)) WatcherOption {
	return func(w *Watcher) { w.onItems = fn }
}

// WithOnError sets the callback receiving read and watch errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l *log.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// Watcher re-reads a feed file whenever it changes and hands the whole
// feed to a callback. Consumers rely on duplicate suppression to pick out
// the new items.
type Watcher struct {
	path     string
	debounce time.Duration
	onItems  func([]item.Item)
	onError  func(error)
	logger   *log.Logger
}

// NewWatcher creates a watcher for the feed at path. Nothing is watched
// until Run is called.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		onItems:  func([]item.Item) {},
		onError:  func(error) {},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path of the watched feed.
func (w *Watcher) Path() string { return w.path }

// Run watches until ctx is cancelled. The directory is watched rather than
// the file so editors that replace the file atomically are followed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	target := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	items, err := ReadFile(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	w.logger.Debug("feed reloaded", "path", w.path, "items", len(items))
	w.onItems(items)
}
