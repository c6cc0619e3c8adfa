// Package watch re-triggers the audit when documents change on disk. It is
// a development convenience alongside the external scheduler, not a
// replacement for it.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// triggerBuffer is the size of the trigger channel; coalesced triggers
// beyond one pending re-audit are dropped.
const triggerBuffer = 1

// Watcher watches a document directory and emits a trigger after changes
// settle for the debounce interval.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	triggers chan struct{}
}

// New creates a watcher over dir with the given debounce delay.
func New(dir string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		triggers: make(chan struct{}, triggerBuffer),
	}, nil
}

// Triggers returns the channel signaling that a re-audit is due.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

// Start begins watching. The triggers channel is closed when the context
// ends.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Document watcher started",
		"dir", w.dir,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to all directories under root.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.triggers)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent marks a re-audit pending for relevant changes and adds
// watches for newly created directories.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory",
					"path", event.Name,
					"error", err)
			}
			return
		}
	}

	if strings.ToLower(filepath.Ext(event.Name)) != ".md" {
		return
	}

	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()

	w.logger.Debug("Document change detected",
		"path", event.Name,
		"op", event.Op.String())
}

// flushPending emits a single coalesced trigger for accumulated changes.
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	pending := w.pending
	w.pending = false
	w.pendingMu.Unlock()

	if !pending {
		return
	}

	select {
	case w.triggers <- struct{}{}:
	default:
		// A re-audit is already queued; one covers all pending changes.
	}
}
