package app_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root     string
	cfg      domain.Config
	stderr   *bytes.Buffer
	logger   *mocks.MockLogger
	scripts  *mocks.MockScriptCompiler
	watchers *mocks.MockWatcherFactory
	servers  *mocks.MockDevServerFactory
	loader   *mocks.MockConfigLoader
	caps     pipeline.Capabilities
	app      *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		root:     t.TempDir(),
		stderr:   new(bytes.Buffer),
		logger:   mocks.NewMockLogger(ctrl),
		scripts:  mocks.NewMockScriptCompiler(ctrl),
		watchers: mocks.NewMockWatcherFactory(ctrl),
		servers:  mocks.NewMockDevServerFactory(ctrl),
	}
	f.cfg = domain.DefaultConfig(f.root)
	f.cfg.Parallelism = 2

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(f.root).Return(f.cfg, nil).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	caps := pipeline.Capabilities{
		Styles:   mocks.NewMockStyleCompiler(ctrl),
		Media:    mocks.NewMockMediaQueryGrouper(ctrl),
		Scripts:  f.scripts,
		Minifier: mocks.NewMockMinifier(ctrl),
		Images:   mocks.NewMockImageOptimizer(ctrl),
		Sprites:  mocks.NewMockSpriteCombiner(ctrl),
		HTML:     mocks.NewMockHTMLComposer(ctrl),
	}

	f.loader = loader
	f.caps = caps
	f.app = f.newApp(nil)
	return f
}

func (f *fixture) newApp(changes ports.ChangeFilter) *app.App {
	return app.New(f.loader, f.logger, fs.NewResolver(), fs.NewWriter(), f.caps, f.watchers, changes, f.servers).
		WithWorkDir(f.root).
		WithOutput(new(bytes.Buffer), f.stderr)
}

func (f *fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func (f *fixture) expectScripts() {
	f.scripts.EXPECT().Transpile(gomock.Any(), gomock.Any()).DoAndReturn(func(_ string, src []byte) ([]byte, error) {
		return src, nil
	}).AnyTimes()
	f.scripts.EXPECT().Minify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ string, src []byte) ([]byte, error) {
		return bytes.TrimSpace(src), nil
	}).AnyTimes()
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/js/main.js", "run();\n")
	f.write(t, "build/old.js", "stale")
	f.expectScripts()

	require.NoError(t, f.app.Build(context.Background(), app.RunOptions{Color: "never"}))

	bundle, err := os.ReadFile(filepath.Join(f.root, "build", "js", "script.min.js"))
	require.NoError(t, err)
	assert.Equal(t, "run();", string(bundle))
	assert.NoFileExists(t, filepath.Join(f.root, "build", "old.js"))

	out := f.stderr.String()
	assert.Contains(t, out, "Running 'build': 'clean', 'styles', 'scripts'")
	assert.Contains(t, out, "Starting 'clean'...")
	assert.Contains(t, out, "Finished 'scripts' after")
}

func TestApp_BuildFailure(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/js/main.js", "run(;\n")
	f.scripts.EXPECT().Transpile("main.js", gomock.Any()).Return(nil, errors.New("unexpected ;"))

	err := f.app.Build(context.Background(), app.RunOptions{Color: "never"})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, domain.ErrTransformFailed)
	assert.Contains(t, f.stderr.String(), "'scripts' errored after")
}

func TestApp_Run(t *testing.T) {
	t.Run("no targets", func(t *testing.T) {
		f := newFixture(t)
		err := f.app.Run(context.Background(), nil, app.RunOptions{})
		require.ErrorIs(t, err, domain.ErrNoTargetsSpecified)
	})

	t.Run("unknown task", func(t *testing.T) {
		f := newFixture(t)
		err := f.app.Run(context.Background(), []string{"scripts", "deploy"}, app.RunOptions{})
		require.ErrorIs(t, err, domain.ErrTaskNotFound)
		assert.NotContains(t, f.stderr.String(), "Starting")
	})

	t.Run("series", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, "build/keep.txt", "x")

		err := f.app.Run(context.Background(), []string{"htmlParticals", "clean"}, app.RunOptions{Series: true})
		require.NoError(t, err)
		assert.NoDirExists(t, filepath.Join(f.root, "build"))
		assert.Contains(t, f.stderr.String(), "Running 'series(htmls, clean)'")
	})
}

func TestApp_Tasks(t *testing.T) {
	f := newFixture(t)

	names, err := f.app.Tasks(context.Background())
	require.NoError(t, err)
	assert.Contains(t, names, "htmlParticals")
	assert.Contains(t, names, "svgSprite")
	assert.IsIncreasing(t, names)
}

func TestApp_Serve_PortInUse(t *testing.T) {
	f := newFixture(t)
	server := mocks.NewMockDevServer(gomock.NewController(t))
	bindErr := domain.Tag(domain.ErrPortBind, errors.New("address already in use"))

	f.servers.EXPECT().NewServer(gomock.Any()).DoAndReturn(func(cfg domain.Config) ports.DevServer {
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "localhost", cfg.Server.Host)
		return server
	})
	server.EXPECT().Listen().Return("", bindErr)

	err := f.app.Serve(context.Background(), app.ServeOptions{Port: 8080})
	require.ErrorIs(t, err, domain.ErrPortBind)
}

func TestApp_Serve_InvalidPort(t *testing.T) {
	f := newFixture(t)
	err := f.app.Serve(context.Background(), app.ServeOptions{Port: 70000})
	assert.ErrorContains(t, err, domain.ErrInvalidConfig.Error())
}

func emptyEvents() iter.Seq[ports.WatchEvent] {
	return func(func(ports.WatchEvent) bool) {}
}

func TestApp_Dev(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/js/main.js", "broken(\n")
	f.scripts.EXPECT().Transpile(gomock.Any(), gomock.Any()).Return(nil, errors.New("unexpected end of file"))
	f.logger.EXPECT().Warn("initial build failed in 'scripts', watching for changes")

	ctrl := gomock.NewController(t)
	server := mocks.NewMockDevServer(ctrl)
	sources := mocks.NewMockWatcher(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.servers.EXPECT().NewServer(gomock.Any()).Return(server)
	server.EXPECT().Listen().Return("127.0.0.1:3000", nil)
	server.EXPECT().Serve(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	server.EXPECT().WatchOutput(gomock.Any(), sources, f.cfg.Debounce).
		DoAndReturn(func(ctx context.Context, _ ports.Watcher, _ time.Duration) error {
			cancel()
			<-ctx.Done()
			return nil
		})

	f.watchers.EXPECT().NewWatcher().Return(sources, nil).Times(2)
	sources.EXPECT().Start(gomock.Any(), f.root).Return(nil)
	sources.EXPECT().Events().Return(emptyEvents())
	sources.EXPECT().Stop().Return(nil)

	require.NoError(t, f.app.Dev(ctx, app.ServeOptions{Color: "never"}))
}

func TestApp_Watch_PrimesChangeFilter(t *testing.T) {
	f := newFixture(t)
	f.write(t, "src/js/main.js", "run();\n")
	f.write(t, "src/index.html", "<p>")
	f.write(t, "README.md", "docs")

	ctrl := gomock.NewController(t)
	changes := mocks.NewMockChangeFilter(ctrl)
	sources := mocks.NewMockWatcher(ctrl)

	var primed []string
	changes.EXPECT().Prime(gomock.Any()).Do(func(assets []domain.Asset) {
		for _, a := range assets {
			primed = append(primed, a.Source)
		}
	})
	f.watchers.EXPECT().NewWatcher().Return(sources, nil)
	sources.EXPECT().Start(gomock.Any(), f.root).Return(nil)
	sources.EXPECT().Events().Return(emptyEvents())
	sources.EXPECT().Stop().Return(nil)

	require.NoError(t, f.newApp(changes).Watch(context.Background(), app.RunOptions{Color: "never"}))
	assert.ElementsMatch(t, []string{
		filepath.Join(f.root, "src", "js", "main.js"),
		filepath.Join(f.root, "src", "index.html"),
	}, primed)
}

func TestApp_Dev_PortInUse(t *testing.T) {
	f := newFixture(t)
	server := mocks.NewMockDevServer(gomock.NewController(t))

	f.servers.EXPECT().NewServer(gomock.Any()).Return(server)
	server.EXPECT().Listen().Return("", domain.Tag(domain.ErrPortBind, errors.New("in use")))

	err := f.app.Dev(context.Background(), app.ServeOptions{})
	require.ErrorIs(t, err, domain.ErrPortBind)
}
