package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchFile validates filename once, then again after every write until ctx
// is done. Bursts of events within debounce collapse into one run.
func watchFile(ctx context.Context, filename string, v *StoryValidator, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("story watcher: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()

	// Editors often replace the file, so watch the directory.
	dir := filepath.Dir(filename)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("story watcher add %s: %w", dir, err)
	}
	target := filepath.Clean(filename)

	run := func() {
		if err := v.validateFile(ctx, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			return
		}
		fmt.Fprintln(v.out, "Story file is valid!")
	}
	run()

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				timer = time.After(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			v.logger.Warn("Story watcher error", "error", err)
		case <-timer:
			timer = nil
			run()
		}
	}
}
