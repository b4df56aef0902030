// Package watcher reloads the presentation script when it changes on
// disk, using fsnotify with debouncing so editor save bursts produce a
// single reload.
package watcher

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// DefaultDebounce is how long the watcher waits after the last write
// before signaling a reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher notifies on the Reloads channel whenever the watched script
// path changes. Watching a directory covers every file in it, which is
// how multi-file presentations are detected.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	reloads   chan struct{}

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New watches path, which may be a script file or a directory of
// script files. For a single file the parent directory is watched so
// that editors which rename-and-replace on save are still seen.
func New(path string, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debounce:  DefaultDebounce,
		reloads:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	watchPath, err := watchTarget(path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}
	if err := fsWatcher.Add(watchPath); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.run(path)

	return w, nil
}

// watchTarget resolves the path the fs watcher should be registered
// on: the directory itself, or the parent of a plain file.
func watchTarget(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}

// Reloads delivers one signal per debounced batch of changes.
func (w *Watcher) Reloads() <-chan struct{} {
	return w.reloads
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return w.fsWatcher.Close()
}

func (w *Watcher) run(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, statErr := os.Stat(path)
	watchingDir := statErr == nil && info.IsDir()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !watchingDir && !sameFile(event.Name, abs) {
				continue
			}
			slog.Debug("script changed", "path", event.Name, "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

func sameFile(a, b string) bool {
	absA, err := filepath.Abs(a)
	if err != nil {
		return a == b
	}
	return absA == b
}

// schedule arms the debounce timer, extending it if changes keep
// arriving.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	select {
	case w.reloads <- struct{}{}:
	default:
		// A reload is already pending; the reader will see the latest state.
	}
}
