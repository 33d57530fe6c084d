// Package watch reloads a snapshot file whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/codalotl/screendiff/internal/logging"
	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a Watcher waits after the last change to a file before reloading it.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one snapshot file. The file's directory is watched rather than the file itself, so editors that save by renaming a temp file over the original are handled.
//
// OnChange is called from the Watcher's goroutine with the reloaded snapshot, or with the error from loading it. Calls are never concurrent.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(screenconfig.Snapshot, error)
	logger   *zap.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	started bool
	closed  bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New returns a Watcher for path. A debounce of 0 means DefaultDebounce. A nil logger disables logging.
func New(path string, debounce time.Duration, onChange func(screenconfig.Snapshot, error), logger *zap.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch: onChange is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		logger:   logging.OrNop(logger),
		fsw:      fsw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It returns immediately; the Watcher runs until ctx is done or Close is called. Start may be called at most once.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("watch: watcher is closed")
	}
	if w.started {
		return errors.New("watch: already started")
	}
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w.started = true
	w.logger.Debug("watching", zap.String("path", w.path))
	go w.run(ctx)
	return nil
}

// Close stops the Watcher and waits for its goroutine to exit. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	w.mu.Unlock()

	close(w.stopCh)
	if started {
		<-w.doneCh
	}
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

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
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("change", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			snap, err := screenconfig.Load(w.path)
			if err != nil {
				w.logger.Debug("reload failed", zap.String("path", w.path), zap.Error(err))
			}
			w.onChange(snap, err)
		}
	}
}
