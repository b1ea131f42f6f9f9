package app

import (
	"context"
	"errors"

	"go.trai.ch/kiln/internal/adapters/detector"
	"go.trai.ch/kiln/internal/adapters/esbuild"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/linear"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/engine/scheduler"
)

// session is everything one command needs to execute pipeline nodes:
// the loaded configuration, its pipeline and a scheduler reporting to the renderer.
type session struct {
	cfg       domain.Config
	pipeline  *pipeline.Pipeline
	renderer  ports.Renderer
	tracer    *telemetry.Tracer
	scheduler *scheduler.Scheduler
}

func (a *App) newSession(ctx context.Context, server domain.ServerConfig, color string) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg = cfg.WithServer(server.Host, server.Port)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prefixer, err := esbuild.NewPrefixer(cfg.Browsers)
	if err != nil {
		return nil, err
	}
	caps := a.capabilities
	caps.Prefixer = prefixer
	caps.Cleaner = fs.NewCleaner(a.writer, cfg.Root, cfg.SourcePath())

	p, err := pipeline.Define(cfg, caps)
	if err != nil {
		return nil, err
	}

	mode := detector.ResolveMode(detector.DetectEnvironment(a.stderr), color)
	renderer := linear.NewRenderer(a.stdout, a.stderr, detector.Profile(mode))
	if err := renderer.Start(ctx); err != nil {
		return nil, err
	}
	tracer := telemetry.NewTracer(renderer)

	return &session{
		cfg:       cfg,
		pipeline:  p,
		renderer:  renderer,
		tracer:    tracer,
		scheduler: scheduler.NewScheduler(cfg.Root, a.resolver, a.writer, tracer, cfg.Parallelism),
	}, nil
}

// run executes node. Failures are already reported by the renderer, so the
// returned error is marked with domain.ErrBuildExecutionFailed.
func (s *session) run(ctx context.Context, target string, node domain.Node) error {
	if err := s.scheduler.Run(ctx, target, node); err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

func (s *session) close(ctx context.Context) {
	_ = s.tracer.Shutdown(context.WithoutCancel(ctx))
	_ = s.renderer.Stop()
}
