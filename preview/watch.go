package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/pubgen/internal/logfields"
)

const defaultDebounce = 300 * time.Millisecond

func (s *Server) watchDirs() []string {
	cfg := s.site.Config
	dirs := []string{
		filepath.Join(s.opts.Dir, cfg.ContentDir),
		filepath.Join(s.opts.Dir, cfg.TemplatesDir),
	}
	return dirs
}

// watcher reports changed source paths below a set of directories.
type watcher struct {
	fs     *fsnotify.Watcher
	logger *slog.Logger
}

func newWatcher(logger *slog.Logger, roots ...string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &watcher{fs: fw, logger: logger}
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			logger.Info("Not watching missing directory", logfields.Path(root))
			continue
		}
		w.addRecursive(root)
	}
	return w, nil
}

func (w *watcher) Close() error {
	return w.fs.Close()
}

func (w *watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fs.Add(path); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// changes forwards relevant event paths until ctx is done or the watcher closes.
// New directories are watched as they appear.
func (w *watcher) changes(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if shouldIgnore(ev.Name) {
					continue
				}
				if ev.Has(fsnotify.Create) {
					if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
						w.addRecursive(ev.Name)
					}
				}
				select {
				case out <- ev.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("Watcher error", logfields.Error(err))
			}
		}
	}()
	return out
}

// shouldIgnore reports whether a changed path is a hidden, swap or temp file.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == "4913":
		return true
	}
	return false
}

// rebuilder coalesces change notifications: triggers within the debounce
// window collapse into one request, and at most one request waits while a
// build runs.
type rebuilder struct {
	delay time.Duration
	req   chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func newRebuilder(delay time.Duration) *rebuilder {
	return &rebuilder{delay: delay, req: make(chan struct{}, 1)}
}

func (r *rebuilder) trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.request)
}

func (r *rebuilder) request() {
	select {
	case r.req <- struct{}{}:
	default:
	}
}

// run calls build for each request until ctx is done.
func (r *rebuilder) run(ctx context.Context, build func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			if r.timer != nil {
				r.timer.Stop()
			}
			r.mu.Unlock()
			return
		case <-r.req:
			build(ctx)
		}
	}
}
