// Package intake watches a drop directory and imports new CSV batches
package intake

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/packline/packline/pkg/batch"
	"github.com/packline/packline/pkg/logger"
)

// BatchImporter is satisfied by batch.Importer
type BatchImporter interface {
	ImportFile(path string) (*batch.Result, error)
}

// Notifier is satisfied by notifier.LineNotifier
type Notifier interface {
	NotifyBatchComplete(source string, processed, approved, rejected, errors int)
	NotifyBatchFailed(source string, err error)
}

// Watcher imports every CSV file dropped into a directory. Files are
// imported once a settling delay has passed without further writes,
// and each file is imported at most once per run.
type Watcher struct {
	dir      string
	settling time.Duration
	importer BatchImporter
	notifier Notifier
	logger   logger.Logger

	mu        sync.Mutex
	pending   map[string]time.Time
	processed map[string]bool
}

// NewWatcher creates a watcher over the given drop directory
func NewWatcher(dir string, settling time.Duration, importer BatchImporter, n Notifier, log logger.Logger) *Watcher {
	if settling <= 0 {
		settling = 500 * time.Millisecond
	}
	return &Watcher{
		dir:       dir,
		settling:  settling,
		importer:  importer,
		notifier:  n,
		logger:    log,
		pending:   make(map[string]time.Time),
		processed: make(map[string]bool),
	}
}

// Run watches the drop directory until the context is cancelled.
// Files already present at startup are imported first.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	if w.logger != nil {
		w.logger.Info("Watching drop directory", logger.WithField("dir", w.dir))
	}

	if err := w.Sweep(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.handleEvents(ctx, watcher)
	})
	g.Go(func() error {
		return w.drainSettled(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Sweep imports CSV files already present in the drop directory
func (w *Watcher) Sweep() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read drop directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isCSV(entry.Name()) {
			continue
		}
		w.processFile(filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) handleEvents(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isCSV(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.mu.Lock()
				if !w.processed[event.Name] {
					w.pending[event.Name] = time.Now()
				}
				w.mu.Unlock()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if w.logger != nil {
				w.logger.Warn("Watcher error", logger.WithField("error", err))
			}
		}
	}
}

// drainSettled imports pending files once they have been quiet for the
// settling delay
func (w *Watcher) drainSettled(ctx context.Context) error {
	ticker := time.NewTicker(w.settling / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			for _, path := range w.takeSettled() {
				w.processFile(path)
			}
		}
	}
}

func (w *Watcher) takeSettled() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var settled []string
	now := time.Now()
	for path, last := range w.pending {
		if now.Sub(last) >= w.settling {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	return settled
}

func (w *Watcher) processFile(path string) {
	w.mu.Lock()
	if w.processed[path] {
		w.mu.Unlock()
		return
	}
	w.processed[path] = true
	w.mu.Unlock()

	name := filepath.Base(path)
	result, err := w.importer.ImportFile(path)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("Batch import failed",
				logger.WithField("file", name),
				logger.WithField("error", err))
		}
		if w.notifier != nil {
			w.notifier.NotifyBatchFailed(name, err)
		}
		return
	}

	if w.logger != nil {
		w.logger.Success("Batch imported",
			logger.WithField("file", name),
			logger.WithField("processed", result.Processed),
			logger.WithField("approved", result.Approved),
			logger.WithField("rejected", result.Rejected),
			logger.WithField("errors", len(result.Errors)))
	}
	if w.notifier != nil {
		w.notifier.NotifyBatchComplete(name, result.Processed, result.Approved, result.Rejected, len(result.Errors))
	}
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
