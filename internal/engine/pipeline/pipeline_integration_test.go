package pipeline_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/css"
	"go.trai.ch/kiln/internal/adapters/esbuild"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/html"
	imageopt "go.trai.ch/kiln/internal/adapters/image"
	"go.trai.ch/kiln/internal/adapters/minify"
	"go.trai.ch/kiln/internal/adapters/sass"
	"go.trai.ch/kiln/internal/adapters/sprite"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/engine/scheduler"
)

type project struct {
	cfg       domain.Config
	pipeline  *pipeline.Pipeline
	scheduler *scheduler.Scheduler
}

func newProject(t *testing.T) *project {
	t.Helper()
	cfg := domain.DefaultConfig(t.TempDir())

	prefixer, err := esbuild.NewPrefixer(cfg.Browsers)
	require.NoError(t, err)

	styles := sass.NewCompiler(nil, "")
	t.Cleanup(func() { _ = styles.Close() })

	minifier := minify.New()
	writer := fs.NewWriter()
	p, err := pipeline.Define(cfg, pipeline.Capabilities{
		Styles:   styles,
		Media:    css.NewGrouper(),
		Prefixer: prefixer,
		Scripts:  esbuild.NewScriptCompiler(),
		Minifier: minifier,
		Images:   imageopt.NewOptimizer(minifier),
		Sprites:  sprite.NewCombiner(),
		HTML:     html.NewComposer(),
		Cleaner:  fs.NewCleaner(writer, cfg.Root, cfg.SourcePath()),
	})
	require.NoError(t, err)

	return &project{
		cfg:       cfg,
		pipeline:  p,
		scheduler: scheduler.NewScheduler(cfg.Root, fs.NewResolver(), writer, telemetry.NewNoOpTracer(), 4),
	}
}

func (p *project) write(t *testing.T, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(p.cfg.Root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func (p *project) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.cfg.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func (p *project) run(t *testing.T, name string) error {
	t.Helper()
	node, err := p.pipeline.Registry.Lookup(name)
	require.NoError(t, err)
	return p.scheduler.Run(context.Background(), name, node)
}

func TestIntegration_Scripts(t *testing.T) {
	p := newProject(t)
	p.write(t, "src/js/b.js", []byte("export const second = (o) => o?.value ?? 2;\n"))
	p.write(t, "src/js/a.js", []byte("const first = (list) => list.map((item) => item * 2);\nconsole.log(first([1]));\n"))

	require.NoError(t, p.run(t, "scripts"))

	entries, err := os.ReadDir(filepath.Join(p.cfg.Root, "build", "js"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "script.min.js", entries[0].Name())

	bundle := p.read(t, "build/js/script.min.js")
	assert.NotContains(t, bundle, "?.")
	assert.NotContains(t, bundle, "??")
	assert.Less(t, bytes.Index([]byte(bundle), []byte("console.log")), bytes.Index([]byte(bundle), []byte("value")))
}

func TestIntegration_ScriptSyntaxError(t *testing.T) {
	p := newProject(t)
	p.write(t, "src/js/broken.js", []byte("const = ;\n"))

	err := p.run(t, "scripts")
	require.ErrorIs(t, err, domain.ErrTransformFailed)
	assert.NoFileExists(t, filepath.Join(p.cfg.Root, "build", "js", "script.min.js"))
}

func TestIntegration_ZeroImages(t *testing.T) {
	p := newProject(t)

	require.NoError(t, p.run(t, "images"))
	assert.NoDirExists(t, filepath.Join(p.cfg.Root, "build", "img"))
}

func TestIntegration_Styles(t *testing.T) {
	if _, err := exec.LookPath("sass"); err != nil {
		t.Skip("sass binary not available")
	}

	p := newProject(t)
	p.write(t, "src/scss/_vars.scss", []byte("$accent: #ff0000;\n"))
	p.write(t, "src/scss/parts/_a.scss", []byte(".a { color: $accent; }\n@media (min-width: 600px) { .a { margin: 0; } }\n"))
	p.write(t, "src/scss/parts/_b.scss", []byte(".b { display: flex; }\n@media (min-width: 600px) { .b { margin: 0; } }\n"))
	p.write(t, "src/scss/main.scss", []byte("@import \"vars\";\n@import \"parts/*\";\n"))

	require.NoError(t, p.run(t, "styles"))

	assert.NoFileExists(t, filepath.Join(p.cfg.Root, "build", "css", "_vars.min.css"))
	out := p.read(t, "build/css/main.min.css")
	assert.Contains(t, out, ".a{color:")
	assert.NotContains(t, out, "$accent")
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("@media")))
}

func pngFixture(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := range 32 {
		for y := range 32 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, (&png.Encoder{CompressionLevel: png.NoCompression}).Encode(&buf, img))
	return buf.Bytes()
}

func TestIntegration_Build(t *testing.T) {
	p := newProject(t)
	p.write(t, "build/stale.html", []byte("old"))

	p.write(t, "src/index.html", []byte("<body>\n@import \"header.html\";\n<main>home</main>\n<!--DEV debug -->\n</body>\n"))
	p.write(t, "src/component/header.html", []byte("<header>site</header>"))
	p.write(t, "src/templates/template.html", []byte("<title><!-- build:title -->Default<!-- /build:title --></title>"))
	p.write(t, "src/content/about.html", []byte("<!-- build:title -->About<!-- /build:title -->"))
	p.write(t, "src/svg/arrow.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><path d="M0 0L10 10"/></svg>`))
	p.write(t, "src/img/dot.png", pngFixture(t))
	p.write(t, "node_modules/jquery/dist/jquery.min.js", []byte("/*jquery*/"))

	require.NoError(t, p.run(t, "build"))

	assert.NoFileExists(t, filepath.Join(p.cfg.Root, "build", "stale.html"))

	index := p.read(t, "build/index.html")
	assert.Contains(t, index, "<header>site</header>")
	assert.NotContains(t, index, "@import")
	assert.NotContains(t, index, "DEV")

	assert.Equal(t, "<title>About</title>", p.read(t, "build/about.html"))
	assert.Contains(t, p.read(t, "build/img/sprite-svg.svg"), `<symbol id="arrow"`)
	assert.Equal(t, "/*jquery*/", p.read(t, "build/js/vendors.min.js"))

	optimized, err := os.Stat(filepath.Join(p.cfg.Root, "build", "img", "dot.png"))
	require.NoError(t, err)
	assert.LessOrEqual(t, optimized.Size(), int64(len(pngFixture(t))))

	first := p.read(t, "build/index.html")
	require.NoError(t, p.run(t, "build"))
	assert.Equal(t, first, p.read(t, "build/index.html"))
}
