package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func upper(calls *[]string) domain.Transform {
	return domain.Each("upper", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
		*calls = append(*calls, "upper:"+a.Path)
		a.Data = bytes.ToUpper(a.Data)
		return a, true, nil
	})
}

func TestRun_Task(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockInputResolver(ctrl)
	writer := mocks.NewMockOutputWriter(ctrl)

	var calls []string
	task := &domain.Task{
		Name:        domain.NewInternedString("styles"),
		Sources:     []string{"src/scss/*.scss"},
		Destination: "build/css",
		Transforms:  []domain.Transform{upper(&calls), domain.Rename(domain.MinSuffix)},
	}

	resolver.EXPECT().Resolve("/site", []string{"src/scss/*.scss"}).
		Return([]domain.Asset{{Path: "main.css", Data: []byte("a{}")}}, nil)
	writer.EXPECT().Write("/site/build/css", []domain.Asset{{Path: "main.min.css", Data: []byte("A{}")}}).
		Return([]string{"/site/build/css/main.min.css"}, nil)

	s := scheduler.NewScheduler("/site", resolver, writer, telemetry.NewNoOpTracer(), 2)
	node := domain.TaskNode(task)
	require.NoError(t, s.Run(context.Background(), "styles", node))

	assert.Equal(t, []string{"upper:main.css"}, calls)
	assert.Empty(t, s.Failed(node))
}

func TestRun_ZeroSourcesIsSilentSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockInputResolver(ctrl)
	writer := mocks.NewMockOutputWriter(ctrl)

	called := false
	task := &domain.Task{
		Name:        domain.NewInternedString("images"),
		Sources:     []string{"src/img/*.png"},
		Destination: "build/img",
		Transforms: []domain.Transform{domain.NewTransform("never", func(context.Context, []domain.Asset) ([]domain.Asset, error) {
			called = true
			return nil, nil
		})},
	}
	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, nil)

	s := scheduler.NewScheduler("/site", resolver, writer, telemetry.NewNoOpTracer(), 1)
	require.NoError(t, s.Run(context.Background(), "images", domain.TaskNode(task)))
	assert.False(t, called)
}

func TestRun_FailureIsWrappedWithTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockInputResolver(ctrl)
	writer := mocks.NewMockOutputWriter(ctrl)

	cause := errors.New("unexpected token")
	task := &domain.Task{
		Name:        domain.NewInternedString("scripts"),
		Destination: "build/js",
		Transforms: []domain.Transform{domain.Each("babel", func(context.Context, domain.Asset) (domain.Asset, bool, error) {
			return domain.Asset{}, false, cause
		})},
	}
	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return([]domain.Asset{{Path: "main.js", Source: "/site/src/js/main.js"}}, nil)

	s := scheduler.NewScheduler("/site", resolver, writer, telemetry.NewNoOpTracer(), 1)
	node := domain.TaskNode(task)
	err := s.Run(context.Background(), "scripts", node)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrTransformFailed)
	require.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, domain.ErrTaskExecutionFailed.Error())

	var z interface{ Metadata() map[string]any }
	require.ErrorAs(t, err, &z)
	assert.Equal(t, "scripts", z.Metadata()["task"])
	assert.Equal(t, []string{"scripts"}, s.Failed(node))
}

func TestRun_ResolveAndWriteErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockInputResolver(ctrl)
	writer := mocks.NewMockOutputWriter(ctrl)

	ioErr := domain.Tag(domain.ErrIO, errors.New("disk full"))
	task := &domain.Task{Name: domain.NewInternedString("htmls"), Destination: "/abs/out"}

	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, ioErr)
	s := scheduler.NewScheduler("/site", resolver, writer, telemetry.NewNoOpTracer(), 1)
	require.ErrorIs(t, s.Run(context.Background(), "htmls", domain.TaskNode(task)), domain.ErrIO)

	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]domain.Asset{{Path: "index.html"}}, nil)
	writer.EXPECT().Write("/abs/out", gomock.Any()).Return(nil, ioErr)
	require.ErrorIs(t, s.Run(context.Background(), "htmls", domain.TaskNode(task)), domain.ErrIO)
}

func TestRun_EmitsPlanAndSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	var started []string
	tracer.EXPECT().EmitPlan(gomock.Any(), []string{"clean", "a", "b"}, "build")
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
			var cfg ports.SpanConfig
			for _, opt := range opts {
				opt(&cfg)
			}
			started = append(started, cfg.Kind+":"+name)
			return ctx, span
		}).Times(3)
	span.EXPECT().End().Times(3)

	node := domain.Sequence(
		domain.ActionNode("clean", func(context.Context) error { return nil }),
		domain.Sequence(
			domain.ActionNode("a", func(context.Context) error { return nil }),
			domain.ActionNode("b", func(context.Context) error { return nil }),
		),
	)

	s := scheduler.NewScheduler("/site", nil, nil, tracer, 1)
	require.NoError(t, s.Run(context.Background(), "build", node))
	assert.Equal(t, []string{"action:clean", "action:a", "action:b"}, started)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	node := domain.Sequence(domain.ActionNode("a", func(context.Context) error {
		ran = true
		return nil
	}))

	s := scheduler.NewScheduler("/site", nil, nil, telemetry.NewNoOpTracer(), 1)
	require.ErrorIs(t, s.Run(ctx, "a", node), context.Canceled)
	assert.False(t, ran)
	assert.Empty(t, s.Failed(node))
}

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func copyTask() *domain.Task {
	return &domain.Task{
		Name:        domain.NewInternedString("htmls"),
		Sources:     []string{"src/*.html"},
		Destination: "build",
		Transforms: []domain.Transform{domain.Each("trim", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			a.Data = bytes.TrimSpace(a.Data)
			return a, true, nil
		})},
	}
}

func TestRun_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/index.html", "  <h1>home</h1>\n")
	writeSource(t, root, "src/about.html", "<h1>about</h1>")

	s := scheduler.NewScheduler(root, fs.NewResolver(), fs.NewWriter(), telemetry.NewNoOpTracer(), 4)
	node := domain.TaskNode(copyTask())

	require.NoError(t, s.Run(context.Background(), "htmls", node))
	first, err := os.ReadFile(filepath.Join(root, "build", "index.html"))
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background(), "htmls", node))
	second, err := os.ReadFile(filepath.Join(root, "build", "index.html"))
	require.NoError(t, err)

	assert.Equal(t, "<h1>home</h1>", string(first))
	assert.Equal(t, first, second)
}

func TestRun_CleanThenTask(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/index.html", "<h1>home</h1>")
	writeSource(t, root, "build/stale.html", "old")

	writer := fs.NewWriter()
	cleaner := fs.NewCleaner(writer, root, filepath.Join(root, "src"))
	out := filepath.Join(root, "build")

	node := domain.Sequence(
		domain.ActionNode("clean", func(ctx context.Context) error { return cleaner.Clean(ctx, out) }),
		domain.TaskNode(copyTask()),
	)

	s := scheduler.NewScheduler(root, fs.NewResolver(), writer, telemetry.NewNoOpTracer(), 2)
	require.NoError(t, s.Run(context.Background(), "build", node))
	assert.NoFileExists(t, filepath.Join(out, "stale.html"))
	assert.FileExists(t, filepath.Join(out, "index.html"))

	// A second clean+build must rewrite the file even though its content is unchanged.
	require.NoError(t, s.Run(context.Background(), "build", node))
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func contentTask() *domain.Task {
	return &domain.Task{
		Name:        domain.NewInternedString("htmlTemplate"),
		Sources:     []string{"src/content/*.html"},
		Destination: "build",
	}
}

func TestRun_OverlappingOutputs(t *testing.T) {
	t.Run("parallel", func(t *testing.T) {
		root := t.TempDir()
		writeSource(t, root, "src/about.html", "<h1>page</h1>")
		writeSource(t, root, "src/content/about.html", "<h1>content</h1>")

		s := scheduler.NewScheduler(root, fs.NewResolver(), fs.NewWriter(), telemetry.NewNoOpTracer(), 2)
		node := domain.Parallel(domain.TaskNode(copyTask()), domain.TaskNode(contentTask()))

		err := s.Run(context.Background(), "build", node)
		require.ErrorIs(t, err, domain.ErrOverlappingTasks)
		assert.Len(t, s.Failed(node), 1)
	})

	t.Run("later run", func(t *testing.T) {
		root := t.TempDir()
		writeSource(t, root, "src/about.html", "<h1>page</h1>")
		writeSource(t, root, "src/content/about.html", "<h1>content</h1>")

		s := scheduler.NewScheduler(root, fs.NewResolver(), fs.NewWriter(), telemetry.NewNoOpTracer(), 2)
		pages := domain.TaskNode(copyTask())
		content := domain.TaskNode(contentTask())
		require.NoError(t, s.Run(context.Background(), "htmls", pages))

		err := s.Run(context.Background(), "htmlTemplate", content)
		require.ErrorIs(t, err, domain.ErrOverlappingTasks)
		assert.Equal(t, []string{"htmlTemplate"}, s.Failed(content))

		out, err := os.ReadFile(filepath.Join(root, "build", "about.html"))
		require.NoError(t, err)
		assert.Equal(t, "<h1>page</h1>", string(out))
	})

	t.Run("released when the owner stops producing it", func(t *testing.T) {
		root := t.TempDir()
		writeSource(t, root, "src/about.html", "<h1>page</h1>")
		writeSource(t, root, "src/content/about.html", "<h1>content</h1>")

		s := scheduler.NewScheduler(root, fs.NewResolver(), fs.NewWriter(), telemetry.NewNoOpTracer(), 2)
		pages := domain.TaskNode(copyTask())
		content := domain.TaskNode(contentTask())
		require.NoError(t, s.Run(context.Background(), "htmls", pages))

		require.NoError(t, os.Remove(filepath.Join(root, "src", "about.html")))
		require.NoError(t, s.Run(context.Background(), "htmls", pages))
		require.NoError(t, s.Run(context.Background(), "htmlTemplate", content))

		out, err := os.ReadFile(filepath.Join(root, "build", "about.html"))
		require.NoError(t, err)
		assert.Equal(t, "<h1>content</h1>", string(out))
	})

	t.Run("distinct files share a destination", func(t *testing.T) {
		root := t.TempDir()
		writeSource(t, root, "src/index.html", "<h1>page</h1>")
		writeSource(t, root, "src/content/about.html", "<h1>content</h1>")

		s := scheduler.NewScheduler(root, fs.NewResolver(), fs.NewWriter(), telemetry.NewNoOpTracer(), 2)
		node := domain.Parallel(domain.TaskNode(copyTask()), domain.TaskNode(contentTask()))
		require.NoError(t, s.Run(context.Background(), "build", node))
		require.NoError(t, s.Run(context.Background(), "build", node))
	})
}
