// Package watch reports changes to Go source files in a directory tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/marco/internal/logger"
)

// DefaultDelay is how long the watcher waits for a burst of writes to a file
// to settle before reporting it.
const DefaultDelay = 100 * time.Millisecond

// Watcher watches directories for changes to Go source files.
type Watcher struct {
	watcher *fsnotify.Watcher
	delay   time.Duration
	// ignore reports files that must not trigger a change, such as
	// generated output.
	ignore func(path string) bool

	mu      sync.Mutex
	pending map[string]*time.Timer
	// timers counts scheduled callbacks that have not finished.
	timers    sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the settle delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithIgnore sets a filter for files that do not trigger changes.
func WithIgnore(ignore func(path string) bool) Option {
	return func(w *Watcher) {
		w.ignore = ignore
	}
}

// New creates a new source watcher.
func New(opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		watcher: fsWatcher,
		delay:   DefaultDelay,
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches dir and all its subdirectories, skipping hidden directories,
// vendor and testdata.
func (w *Watcher) Add(dir string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

// Run delivers the paths of changed Go files to onChange until ctx is done
// or the watcher is closed. Calls to onChange are serialized.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	log := logger.FromContext(ctx)
	changes := make(chan string)
	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return ctx.Err()
		case path := <-changes:
			onChange(path)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event, changes)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watch error", "error", err)
		}
	}
}

// handle schedules a change for Go file writes and watches new directories.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event, changes chan<- string) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
			if err := w.Add(event.Name); err != nil {
				logger.FromContext(ctx).Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !strings.HasSuffix(event.Name, ".go") || strings.HasSuffix(event.Name, "_test.go") {
		return
	}
	if w.ignore != nil && w.ignore(event.Name) {
		return
	}
	w.schedule(ctx, event.Name, changes)
}

// schedule reports path once no further event arrived for it during the
// settle delay. The report is dropped when ctx is done or the watcher is
// closed first.
func (w *Watcher) schedule(ctx context.Context, path string, changes chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		// A timer that cannot be stopped has already fired and reports path.
		if t.Stop() {
			t.Reset(w.delay)
		}
		return
	}
	w.timers.Add(1)
	w.pending[path] = time.AfterFunc(w.delay, func() {
		defer w.timers.Done()
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case changes <- path:
		case <-ctx.Done():
		case <-w.done:
		}
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		if t.Stop() {
			w.timers.Done()
		}
		delete(w.pending, path)
	}
}

// Close stops the watcher and releases resources. It returns once every
// pending report has been stopped or dropped.
func (w *Watcher) Close() error {
	var closeErr error
	w.closeOnce.Do(func() {
		close(w.done)
		w.stopPending()
		if err := w.watcher.Close(); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
			closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
		w.timers.Wait()
	})
	return closeErr
}
