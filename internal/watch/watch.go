// Package watch reruns a task when a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/bottleclip"
)

// DefaultDebounce batches the burst of events a single editor save makes.
const DefaultDebounce = 300 * time.Millisecond

// File calls fn once, then again whenever path is written, until ctx is
// done. Events arriving within debounce of each other trigger one call.
// Errors from fn are logged and do not stop the watch.
//
// The parent directory is watched, so editors that save by renaming a
// temporary file over path are seen too.
func File(ctx context.Context, path string, debounce time.Duration, fn func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: %s: %w", path, err)
	}

	run := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			bottleclip.Logger().Error("watched task failed", "path", path, "err", err)
		}
	}
	run()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			bottleclip.Logger().Debug("watched file changed", "path", path, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			bottleclip.Logger().Warn("watcher error", "path", path, "err", err)

		case <-fire:
			fire = nil
			run()
		}
	}
}
