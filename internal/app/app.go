// Package app implements the application layer for kiln.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/dispatcher"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	resolver     ports.InputResolver
	writer       *fs.Writer
	capabilities pipeline.Capabilities
	watchers     ports.WatcherFactory
	changes      ports.ChangeFilter
	servers      ports.DevServerFactory

	workDir string
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a new App instance. The Prefixer and Cleaner of caps are
// replaced per run, since they depend on the loaded configuration.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	resolver ports.InputResolver,
	writer *fs.Writer,
	caps pipeline.Capabilities,
	watchers ports.WatcherFactory,
	changes ports.ChangeFilter,
	servers ports.DevServerFactory,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		resolver:     resolver,
		writer:       writer,
		capabilities: caps,
		watchers:     watchers,
		changes:      changes,
		servers:      servers,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithWorkDir sets the directory the configuration is searched from.
// By default the process working directory is used.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithOutput redirects task output and progress lines. Used in tests.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// Close releases long-lived capability processes.
func (a *App) Close() error {
	if a.capabilities.Styles == nil {
		return nil
	}
	return a.capabilities.Styles.Close()
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Series runs the named tasks one after another instead of in parallel.
	Series bool
	// Color is "auto", "always" or "never".
	Color string
}

// ServeOptions configuration for the Serve and Dev methods.
type ServeOptions struct {
	Host  string
	Port  int
	Color string
}

// Tasks returns the names accepted by Run, sorted.
func (a *App) Tasks(_ context.Context) ([]string, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := pipeline.Define(cfg, a.capabilities)
	if err != nil {
		return nil, err
	}
	return p.Registry.Names(), nil
}

// Build cleans the output root and runs every content task.
func (a *App) Build(ctx context.Context, opts RunOptions) error {
	return a.Run(ctx, []string{pipeline.TaskBuild}, opts)
}

// Run executes the named tasks once.
func (a *App) Run(ctx context.Context, taskNames []string, opts RunOptions) error {
	if len(taskNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	s, err := a.newSession(ctx, domain.ServerConfig{}, opts.Color)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	nodes := make([]domain.Node, len(taskNames))
	for i, name := range taskNames {
		node, err := s.pipeline.Registry.Lookup(name)
		if err != nil {
			return err
		}
		nodes[i] = node
	}

	if len(nodes) == 1 {
		return s.run(ctx, taskNames[0], nodes[0])
	}

	node := domain.Parallel(nodes...)
	if opts.Series {
		node = domain.Sequence(nodes...)
	}
	return s.run(ctx, node.Name(), node)
}

// Watch re-runs content tasks as their sources change, until ctx is cancelled.
// Nothing is built up front.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	s, err := a.newSession(ctx, domain.ServerConfig{}, opts.Color)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return a.watchSources(ctx, s)
}

// Serve serves the current output root with live reload, until ctx is cancelled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	cfg = cfg.WithServer(opts.Host, opts.Port)
	if err := cfg.Validate(); err != nil {
		return err
	}

	server, err := a.listen(cfg)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Serve(ctx) })
	g.Go(func() error { return a.watchOutput(ctx, cfg, server) })
	return g.Wait()
}

// Dev builds once, then serves the output and rebuilds on change until ctx is
// cancelled. A failed initial build is reported and watching starts anyway,
// so the failing source can be fixed in place. A port that cannot be bound is
// fatal.
func (a *App) Dev(ctx context.Context, opts ServeOptions) error {
	s, err := a.newSession(ctx, domain.ServerConfig{Host: opts.Host, Port: opts.Port}, opts.Color)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	if err := s.run(ctx, pipeline.TaskBuild, s.pipeline.Build); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		msg := "initial build failed, watching for changes"
		if failed := s.scheduler.Failed(s.pipeline.Build); len(failed) > 0 {
			msg = fmt.Sprintf("initial build failed in %s, watching for changes", quoteAll(failed))
		}
		a.logger.Warn(msg)
	}

	server, err := a.listen(s.cfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Serve(gctx) })
	g.Go(func() error { return a.watchOutput(gctx, s.cfg, server) })
	g.Go(func() error { return a.watchSources(gctx, s) })
	return g.Wait()
}

func (a *App) loadConfig() (domain.Config, error) {
	dir := a.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return domain.Config{}, zerr.Wrap(err, "failed to determine working directory")
		}
		dir = wd
	}

	cfg, err := a.configLoader.Load(dir)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func (a *App) listen(cfg domain.Config) (ports.DevServer, error) {
	server := a.servers.NewServer(cfg)
	addr, err := server.Listen()
	if err != nil {
		return nil, err
	}
	a.logger.Info(fmt.Sprintf("serving %s at http://%s", cfg.OutputRel(), addr))
	return server, nil
}

func (a *App) watchOutput(ctx context.Context, cfg domain.Config, server ports.DevServer) error {
	w, err := a.watchers.NewWatcher()
	if err != nil {
		return err
	}
	return server.WatchOutput(ctx, w, cfg.Debounce)
}

func (a *App) watchSources(ctx context.Context, s *session) error {
	w, err := a.watchers.NewWatcher()
	if err != nil {
		return err
	}

	d := dispatcher.New(w, s.scheduler, a.logger, s.cfg.Debounce)
	if a.changes != nil {
		a.primeChanges(s)
		d = d.WithChangeFilter(a.changes)
	}
	a.logger.Info("watching " + s.cfg.SourcePath())
	return d.Run(ctx, s.cfg.Root, s.pipeline.Bindings)
}

// primeChanges records the current sources, so saving a file without editing
// it does not trigger a run. Unreadable sources are left for the first event.
func (a *App) primeChanges(s *session) {
	var patterns []string
	for _, b := range s.pipeline.Bindings {
		patterns = append(patterns, b.Patterns...)
	}
	assets, err := a.resolver.Resolve(s.cfg.Root, patterns)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("could not read sources for change tracking: %v", err))
		return
	}
	a.changes.Prime(assets)
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, ", ")
}
