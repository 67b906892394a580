package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher classifies with the rule set in a YAML file and reloads it when
// the file changes. A reload that fails to parse keeps the previous rules.
type Watcher struct {
	path     string
	current  atomic.Pointer[domain.RuleSet]
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	reloads  atomic.Int64
	started  atomic.Bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher loads path once; the file must be valid at startup.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create rules watcher: %w", err)
	}
	// Editors often replace the file, so watch its directory.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch rules directory: %w", err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		logger:   logger.Named("rules"),
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	w.current.Store(&rs)
	return w, nil
}

func (w *Watcher) Classify(content string) domain.ContentAnalysis {
	return w.current.Load().Classify(content)
}

func (w *Watcher) Rules() domain.RuleSet {
	return *w.current.Load()
}

// Reloads reports how many times new rules were applied.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Start runs the event loop until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	if w.started.CompareAndSwap(false, true) {
		go w.run(ctx)
	}
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.started.Load() {
			<-w.doneCh
		}
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("closing rules watcher", zap.Error(err))
		}
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var pending <-chan time.Time
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
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("rules watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	rs, err := Load(w.path)
	if err != nil {
		w.logger.Error("keeping previous approval rules", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.current.Store(&rs)
	w.reloads.Add(1)
	w.logger.Info("approval rules reloaded", zap.String("path", w.path), zap.Int("rules", len(rs.Rules)))
}
