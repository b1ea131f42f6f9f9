// Package scheduler executes pipeline nodes: sequences in order, parallel
// batches concurrently, and each task as resolve, transform, write.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
)

// Scheduler runs pipeline nodes against a project root.
type Scheduler struct {
	root        string
	resolver    ports.InputResolver
	writer      ports.OutputWriter
	tracer      ports.Tracer
	parallelism int

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
	// owners maps every output file to the task that last wrote it.
	owners map[string]domain.InternedString
}

// NewScheduler creates a new Scheduler. Parallel batches run at most
// parallelism children at a time; values below 1 mean unbounded.
func NewScheduler(
	root string,
	resolver ports.InputResolver,
	writer ports.OutputWriter,
	tracer ports.Tracer,
	parallelism int,
) *Scheduler {
	return &Scheduler{
		root:        root,
		resolver:    resolver,
		writer:      writer,
		tracer:      tracer,
		parallelism: parallelism,
		taskStatus:  make(map[domain.InternedString]TaskStatus),
		owners:      make(map[string]domain.InternedString),
	}
}

// Failed returns the leaves of node whose last run failed, in declaration order.
func (s *Scheduler) Failed(node domain.Node) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var failed []string
	for leaf := range node.Leaves() {
		if name := leafName(leaf); s.taskStatus[name] == StatusFailed {
			failed = append(failed, name.String())
		}
	}
	return failed
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run executes node. The plan (every leaf in declaration order) is emitted
// before anything runs. Failures keep the semantics of the node kinds: a
// sequence stops at its first failure, a parallel batch reports all of them.
func (s *Scheduler) Run(ctx context.Context, target string, node domain.Node) error {
	var plan []string
	s.mu.Lock()
	for leaf := range node.Leaves() {
		name := leafName(leaf)
		plan = append(plan, name.String())
		s.taskStatus[name] = StatusPending
	}
	s.mu.Unlock()

	s.tracer.EmitPlan(ctx, plan, target)
	return s.run(ctx, node)
}

func (s *Scheduler) run(ctx context.Context, node domain.Node) error {
	switch node.Kind() {
	case domain.KindTask:
		return s.executeTask(ctx, node.Task())
	case domain.KindAction:
		return s.executeAction(ctx, node.Action())
	case domain.KindSequence:
		for _, child := range node.Children() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.run(ctx, child); err != nil {
				return err
			}
		}
		return nil
	case domain.KindParallel:
		return s.runParallel(ctx, node.Children())
	default:
		return zerr.With(zerr.New("unknown node kind"), "kind", node.Kind().String())
	}
}

// runParallel waits for every child. Errors are joined in declaration order.
func (s *Scheduler) runParallel(ctx context.Context, children []domain.Node) error {
	var g errgroup.Group
	if s.parallelism > 0 {
		g.SetLimit(s.parallelism)
	}

	errs := make([]error, len(children))
	for i, child := range children {
		g.Go(func() error {
			errs[i] = s.run(ctx, child)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *Scheduler) executeAction(ctx context.Context, action *domain.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, action.Name.String(), ports.WithSpanKind(domain.KindAction.String()))
	defer span.End()
	s.updateStatus(action.Name, StatusRunning)

	if err := action.Run(ctx); err != nil {
		span.RecordError(err)
		s.updateStatus(action.Name, StatusFailed)
		return taskError(action.Name, err)
	}
	s.updateStatus(action.Name, StatusCompleted)
	return nil
}

func (s *Scheduler) executeTask(ctx context.Context, t *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, t.Name.String(), ports.WithSpanKind(domain.KindTask.String()))
	defer span.End()
	s.updateStatus(t.Name, StatusRunning)

	written, err := s.process(ctx, t)
	if err != nil {
		span.RecordError(err)
		s.updateStatus(t.Name, StatusFailed)
		return taskError(t.Name, err)
	}

	span.SetAttribute("kiln.files_written", len(written))
	if len(written) > 0 {
		_, _ = fmt.Fprintf(span, "%d file(s) written to %s\n", len(written), t.Destination)
	}
	s.updateStatus(t.Name, StatusCompleted)
	return nil
}

// process resolves the sources of t, applies its transforms in order and
// writes the result. It returns the paths actually written.
func (s *Scheduler) process(ctx context.Context, t *domain.Task) ([]string, error) {
	assets, err := s.resolver.Resolve(s.root, t.Sources)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, s.claim(t.Name, nil)
	}

	for _, tr := range t.Transforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		assets, err = tr.Apply(ctx, assets)
		if err != nil {
			return nil, err
		}
	}

	dest := s.destination(t)
	targets := make([]string, len(assets))
	for i, a := range assets {
		targets[i] = filepath.Join(dest, filepath.FromSlash(a.Path))
	}
	if err := s.claim(t.Name, targets); err != nil {
		return nil, err
	}
	return s.writer.Write(dest, assets)
}

// claim makes task the owner of targets and releases whatever it wrote
// before. A target owned by another task is an overlap, and nothing changes.
func (s *Scheduler) claim(task domain.InternedString, targets []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, target := range targets {
		if owner, ok := s.owners[target]; ok && owner != task {
			err := zerr.With(domain.ErrOverlappingTasks, "file", target)
			return domain.Tag(domain.ErrOverlappingTasks, zerr.With(err, "conflicts_with", owner.String()))
		}
	}
	for target, owner := range s.owners {
		if owner == task {
			delete(s.owners, target)
		}
	}
	for _, target := range targets {
		s.owners[target] = task
	}
	return nil
}

func (s *Scheduler) destination(t *domain.Task) string {
	if filepath.IsAbs(t.Destination) {
		return t.Destination
	}
	return filepath.Join(s.root, t.Destination)
}

func taskError(name domain.InternedString, err error) error {
	return zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", name.String())
}

func leafName(n domain.Node) domain.InternedString {
	if n.Kind() == domain.KindAction {
		return n.Action().Name
	}
	return n.Task().Name
}
