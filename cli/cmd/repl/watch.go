package repl

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/argx/log"
)

// defaultDebounce groups the events of one save into one reload.
const defaultDebounce = 100 * time.Millisecond

const watchOps = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove

// watcher calls onChange after the watched file changes. Bursts of events
// within delay of each other produce one call.
type watcher struct {
	fs       *fsnotify.Watcher
	path     string
	delay    time.Duration
	onChange func()
	logger   log.Logger
	done     chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// watch starts watching path until ctx is done or Close is called. The
// parent directory is watched, since editors often replace a file rather
// than write it in place.
func watch(
	ctx context.Context,
	path string,
	delay time.Duration,
	logger log.Logger,
	onChange func(),
) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ErrWatch.Wrap(err).With(slog.String("path", path))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrWatch.Wrap(err).With(slog.String("path", path))
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()

		return nil, ErrWatch.Wrap(err).With(slog.String("path", path))
	}

	w := &watcher{
		fs:       fsw,
		path:     abs,
		delay:    delay,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go w.loop(ctx)

	return w, nil
}

func (w *watcher) loop(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}

			if filepath.Clean(ev.Name) != w.path || ev.Op&watchOps == 0 {
				continue
			}

			w.logger.TraceContext(ctx, "bindings file event",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))

			w.trigger()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}

			w.logger.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

func (w *watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.delay, w.onChange)
}

// Close stops watching. A pending onChange is cancelled.
func (w *watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fs.Close()
	<-w.done

	return err
}
