// Package watcher reloads the catalog when its file is edited outside the service.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type Log interface {
	Info(string, ...zap.Field)
	Warn(string, ...zap.Field)
}

// Reloader re-reads the catalog and reports whether it changed.
type Reloader interface {
	Reload(context.Context) (bool, error)
}

// Watcher watches the directory holding the catalog file, since editors
// often replace files instead of writing them in place.
type Watcher struct {
	mx       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	reloader Reloader
	debounce time.Duration
	log      Log
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

func New(path string, reloader Reloader, log Log) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  fw,
		path:     abs,
		reloader: reloader,
		debounce: 200 * time.Millisecond,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mx.Lock()
	defer w.mx.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	go w.run(ctx)

	w.log.Info("watching catalog file", zap.String("path", w.path))
	return nil
}

// Stop ends the watch loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mx.Lock()
	running := w.running
	w.running = false
	w.mx.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.log.Warn("failed to close catalog watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watcher error", zap.Error(err))
		case <-timer.C:
			changed, err := w.reloader.Reload(ctx)
			if err != nil {
				w.log.Warn("catalog file changed but could not be loaded, keeping current catalog", zap.Error(err))
				continue
			}
			if changed {
				w.log.Info("catalog reloaded after external edit", zap.String("path", w.path))
			}
		}
	}
}
