// Package dispatcher turns file system events into re-runs of watch bindings.
package dispatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner executes a pipeline node. The scheduler satisfies it.
type Runner interface {
	Run(ctx context.Context, target string, node domain.Node) error
}

// Dispatcher watches a tree and re-runs the bindings whose patterns match
// the changed files. A binding never runs concurrently with itself: changes
// arriving during a run collapse into a single follow-up run.
type Dispatcher struct {
	watcher ports.Watcher
	runner  Runner
	logger  ports.Logger
	filter  ports.ChangeFilter
	window  time.Duration

	mu    sync.RWMutex
	state domain.WatchState
}

// New creates an idle Dispatcher. Events are debounced per binding over window.
func New(w ports.Watcher, runner Runner, logger ports.Logger, window time.Duration) *Dispatcher {
	if window <= 0 {
		window = domain.DefaultDebounce
	}
	return &Dispatcher{
		watcher: w,
		runner:  runner,
		logger:  logger,
		window:  window,
	}
}

// WithChangeFilter drops write events for files whose content did not change.
func (d *Dispatcher) WithChangeFilter(filter ports.ChangeFilter) *Dispatcher {
	d.filter = filter
	return d
}

// State reports whether the dispatcher is watching.
func (d *Dispatcher) State() domain.WatchState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *Dispatcher) setState(state domain.WatchState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = state
}

// Run watches root until ctx is cancelled or the event source ends.
// Failed runs are logged and watching continues. Runs already in flight when
// watching stops are allowed to finish before Run returns.
func (d *Dispatcher) Run(ctx context.Context, root string, bindings []domain.WatchBinding) error {
	for _, b := range bindings {
		for _, pattern := range b.Patterns {
			if !doublestar.ValidatePattern(pattern) {
				return zerr.With(zerr.With(domain.ErrInvalidConfig, "binding", b.Name), "pattern", pattern)
			}
		}
	}

	if err := d.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() { _ = d.watcher.Stop() }()

	d.setState(domain.WatchWatching)
	defer d.setState(domain.WatchIdle)

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	triggers := make([]*trigger, len(bindings))
	for i, b := range bindings {
		triggers[i] = d.newTrigger(ctx, b)
		wg.Go(func() { triggers[i].loop(loopCtx) })
	}

	for event := range d.watcher.Events() {
		if ctx.Err() != nil {
			break
		}
		rel, ok := relative(root, event.Path)
		if !ok {
			continue
		}
		matched := matching(triggers, rel)
		if len(matched) == 0 {
			continue
		}
		// Only files some binding cares about are hashed.
		if event.Operation == ports.OpWrite && d.filter != nil && !d.filter.Changed(event.Path) {
			continue
		}
		for _, t := range matched {
			t.debouncer.Add(rel)
		}
	}

	for _, t := range triggers {
		t.debouncer.Stop()
	}
	cancel()
	wg.Wait()
	return nil
}

// trigger owns the debouncer and the single-slot run queue of one binding.
type trigger struct {
	binding   domain.WatchBinding
	debouncer *watcher.Debouncer
	pending   chan []string
	run       func(paths []string)
}

func (d *Dispatcher) newTrigger(ctx context.Context, b domain.WatchBinding) *trigger {
	t := &trigger{
		binding: b,
		pending: make(chan []string, 1),
	}
	t.debouncer = watcher.NewDebouncer(d.window, t.signal)
	// A rebuild in progress finishes even when watching stops.
	runCtx := context.WithoutCancel(ctx)
	t.run = func(paths []string) {
		d.logger.Info(fmt.Sprintf("%s changed, running '%s'", strings.Join(paths, ", "), b.Name))
		if err := d.runner.Run(runCtx, b.Name, b.Target); err != nil {
			d.logger.Error(err)
		}
	}
	return t
}

// signal queues a run. When one is already queued the batch joins it.
func (t *trigger) signal(paths []string) {
	select {
	case t.pending <- paths:
	default:
		select {
		case queued := <-t.pending:
			paths = append(queued, paths...)
		default:
		}
		select {
		case t.pending <- paths:
		default:
		}
	}
}

func (t *trigger) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case paths := <-t.pending:
			if ctx.Err() != nil {
				return
			}
			t.run(paths)
		}
	}
}

func matching(triggers []*trigger, rel string) []*trigger {
	var matched []*trigger
	for _, t := range triggers {
		if t.matches(rel) {
			matched = append(matched, t)
		}
	}
	return matched
}

func (t *trigger) matches(rel string) bool {
	for _, pattern := range t.binding.Patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// relative returns path relative to root with forward slashes. Paths outside
// root are rejected.
func relative(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
