// Package watcher reloads files when they change on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"ast3d/internal/logging"
)

// DefaultDebounce is how long a file must be quiet before its callback runs
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a set of files and calls onChange once per burst of writes
type Watcher struct {
	files    map[string]struct{}
	onChange func(path string)
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a watcher for paths. onChange receives the absolute path of the
// file that changed and is never called concurrently with itself.
func New(onChange func(path string), logger *zap.Logger, paths ...string) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logging.OrNop(logger).Named("watcher"),
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
	}
	return w, nil
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Files returns the number of watched files
func (w *Watcher) Files() int {
	return len(w.files)
}

// Watch blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Directories are watched rather than files so that editors which
	// replace the file on save keep triggering events.
	dirs := make(map[string]struct{})
	for f := range w.files {
		dir := filepath.Dir(f)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
		w.logger.Info("watching for changes", zap.String("file", f))
	}

	fired := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[path]; !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				select {
				case fired <- path:
				case <-ctx.Done():
				}
			})

		case path := <-fired:
			delete(timers, path)
			w.logger.Info("file changed", zap.String("file", path))
			w.onChange(path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
