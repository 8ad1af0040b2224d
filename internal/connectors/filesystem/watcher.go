package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quarrylabs/strata-cli/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last change
// before emitting an event. Editors often write a file several times
// in quick succession; debouncing collapses the burst into one
// re-index.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes a corpus path and emits a notification after file
// changes settle.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
}

// NewWatcher watches path and all its subdirectories. A non-positive
// debounce uses DefaultDebounce.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	path = ResolvePath(path)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		root:     path,
		debounce: debounce,
	}

	if err := w.addRecursive(path); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Events starts watching and returns a channel that receives one
// value per settled burst of file changes. The channel closes when
// ctx is cancelled or the watcher is closed.
func (w *Watcher) Events(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)

		var timer *time.Timer
		var pending <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if !relevant(ev) {
					continue
				}
				// New directories must be watched too.
				if ev.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						if err := w.fs.Add(ev.Name); err != nil {
							logger.Warn("Failed to watch %s: %v", ev.Name, err)
						}
					}
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					pending = timer.C
				} else {
					timer.Reset(w.debounce)
				}

			case <-pending:
				timer = nil
				pending = nil
				select {
				case out <- struct{}{}:
				default:
				}

			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error: %v", err)
			}
		}
	}()

	return out
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) addRecursive(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watch path: %w", err)
	}
	if !info.IsDir() {
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch path: %w", err)
		}
		return nil
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// relevant reports whether an event should trigger a re-index. Hidden
// files and pure permission changes are ignored.
func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	return !strings.HasPrefix(filepath.Base(ev.Name), ".")
}
