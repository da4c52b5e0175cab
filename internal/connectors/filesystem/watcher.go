package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/logger"
)

// debounceWindow coalesces bursts of write events for the same file;
// editors often emit several events per save.
const debounceWindow = 500 * time.Millisecond

// Watcher reports documents from a directory as they are created or
// modified.
type Watcher struct {
	connector *Connector
	watcher   *fsnotify.Watcher
}

// NewWatcher creates a watcher over the connector's directory.
func NewWatcher(connector *Connector) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	if err := fsw.Add(connector.Dir()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", connector.Dir(), err)
	}
	return &Watcher{connector: connector, watcher: fsw}, nil
}

// Watch sends a document on the returned channel each time a file in
// the directory is created or written. It runs until ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) <-chan domain.Document {
	out := make(chan domain.Document)

	go func() {
		defer close(out)

		pending := make(map[string]time.Time)
		ticker := time.NewTicker(debounceWindow)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				name := filepath.Base(event.Name)
				if name == "" || name[0] == '.' {
					continue
				}
				pending[name] = time.Now()

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("filesystem watcher error: %v", err)

			case now := <-ticker.C:
				for name, last := range pending {
					if now.Sub(last) < debounceWindow {
						continue
					}
					delete(pending, name)

					doc, err := w.connector.Load(name)
					if err != nil {
						logger.Warn("loading changed document %s: %v", name, err)
						continue
					}
					select {
					case out <- *doc:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
