package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rogersnm/smoothies/internal/markdown"
)

const watchDebounce = 300 * time.Millisecond

func watchList(cmd *cobra.Command, query string) error {
	path, ok := reg.WatchPath()
	if !ok {
		return fmt.Errorf("--watch needs the file backend (current backend: %s)", reg.BackendName())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(os.Stderr, "\nWatching for changes... (Press Ctrl+C to exit)\n")
	err := watchFile(ctx, path, watchDebounce, func() error {
		if err := cache.Reload(ctx); err != nil {
			warnf("reloading smoothies: %v", err)
			return nil
		}
		fmt.Fprint(out, "\033[H\033[2J")
		fmt.Fprintln(out, markdown.RenderSmoothieTable(cache.Filter(query)))
		return nil
	})
	fmt.Fprintf(os.Stderr, "\nStopped watching.\n")
	return err
}

// watchFile calls onChange, on the calling goroutine, after path has been
// written and then left alone for delay. The directory is watched rather
// than the file, since writers replace the file by renaming over it.
func watchFile(ctx context.Context, path string, delay time.Duration, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir, name := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory: %w", err)
	}

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(delay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			warnf("watcher: %v", err)
		case <-timer.C:
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}
