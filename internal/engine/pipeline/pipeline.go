// Package pipeline defines kiln's tasks: what each content task reads, the
// order of its transforms and where it writes, plus the build and watch wiring.
package pipeline

import (
	"context"
	"os"
	"path"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Task names accepted by the registry.
const (
	TaskClean          = "clean"
	TaskBuild          = "build"
	TaskStyles         = "styles"
	TaskScripts        = "scripts"
	TaskScriptsVendors = "scriptsVendors"
	TaskHTMLs          = "htmls"
	TaskHTMLPartials   = "htmlParticals"
	TaskHTMLTemplate   = "htmlTemplate"
	TaskSVGSprite      = "svgSprite"
	TaskImages         = "images"
)

const (
	mediaCSS = "text/css"
	mediaSVG = "image/svg+xml"
)

var newline = []byte("\n")

// Capabilities are the adapters the content tasks delegate to.
type Capabilities struct {
	Styles   ports.StyleCompiler
	Media    ports.MediaQueryGrouper
	Prefixer ports.Prefixer
	Scripts  ports.ScriptCompiler
	Minifier ports.Minifier
	Images   ports.ImageOptimizer
	Sprites  ports.SpriteCombiner
	HTML     ports.HTMLComposer
	Cleaner  ports.Cleaner
}

// Pipeline is the complete set of runnable nodes for one configuration.
type Pipeline struct {
	Registry *domain.Registry
	// Content runs every content task in parallel.
	Content domain.Node
	// Build cleans the output root, then runs Content.
	Build domain.Node
	// Bindings re-run content tasks when their sources change.
	Bindings []domain.WatchBinding
}

// Define builds the pipeline for cfg.
func Define(cfg domain.Config, caps Capabilities) (*Pipeline, error) {
	clean := domain.ActionNode(TaskClean, func(ctx context.Context) error {
		return caps.Cleaner.Clean(ctx, cfg.OutputPath())
	})

	tasks := []*domain.Task{
		stylesTask(cfg, caps),
		scriptsTask(cfg, caps),
		vendorsTask(cfg),
		htmlsTask(cfg, caps),
		templateTask(cfg, caps),
		spriteTask(cfg, caps),
		imagesTask(cfg, caps),
	}

	nodes := make(map[string]domain.Node, len(tasks))
	children := make([]domain.Node, len(tasks))
	for i, t := range tasks {
		children[i] = domain.TaskNode(t)
		nodes[t.Name.String()] = children[i]
	}
	content := domain.Parallel(children...)
	build := domain.Sequence(clean, content)

	if err := domain.CheckDisjoint(build); err != nil {
		return nil, err
	}

	registry := domain.NewRegistry()
	if err := registry.Register(TaskClean, clean); err != nil {
		return nil, err
	}
	if err := registry.Register(TaskBuild, build); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err := registry.Register(t.Name.String(), nodes[t.Name.String()]); err != nil {
			return nil, err
		}
	}
	if err := registry.Alias(TaskHTMLPartials, TaskHTMLs); err != nil {
		return nil, err
	}

	return &Pipeline{
		Registry: registry,
		Content:  content,
		Build:    build,
		Bindings: bindings(cfg, nodes),
	}, nil
}

func bindings(cfg domain.Config, nodes map[string]domain.Node) []domain.WatchBinding {
	bind := func(name string, patterns ...string) domain.WatchBinding {
		return domain.WatchBinding{Name: name, Patterns: patterns, Target: nodes[name]}
	}
	return []domain.WatchBinding{
		bind(TaskStyles, cfg.SourcePattern(domain.StylesDir, "**", "*.scss")),
		bind(TaskScripts, cfg.SourcePattern(domain.ScriptsDir, "*.js")),
		bind(TaskHTMLs, cfg.SourcePattern("*.html"), cfg.SourcePattern(domain.ComponentDir, "**")),
		bind(TaskHTMLTemplate,
			cfg.SourcePattern(domain.ContentDir, "*.html"),
			cfg.SourcePattern(domain.TemplatesDir, "*.html")),
		bind(TaskSVGSprite, cfg.SourcePattern(domain.SVGDir, "*.svg")),
		bind(TaskImages, cfg.SourcePattern(domain.ImagesDir, "**")),
	}
}

func newTask(name, dest string, sources []string, transforms ...domain.Transform) *domain.Task {
	return &domain.Task{
		Name:        domain.NewInternedString(name),
		Sources:     sources,
		Destination: dest,
		Transforms:  transforms,
	}
}

func stylesTask(cfg domain.Config, caps Capabilities) *domain.Task {
	return newTask(TaskStyles, cfg.OutputRel(domain.OutputStylesDir),
		[]string{cfg.SourcePattern(domain.StylesDir, "*.scss")},
		domain.Each("sass-glob", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.Styles.ExpandGlobImports(a.Origin(), a.Data)
			a.Data = out
			return a, true, err
		}),
		domain.Each("sass", func(ctx context.Context, a domain.Asset) (domain.Asset, bool, error) {
			if strings.HasPrefix(a.Base(), "_") {
				return a, false, nil
			}
			out, err := caps.Styles.Compile(ctx, a.Origin(), a.Data)
			a = a.WithExt(".css")
			a.Data = out
			return a, true, err
		}),
		domain.Each("group-media-queries", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.Media.GroupMediaQueries(a.Data)
			a.Data = out
			return a, true, err
		}),
		domain.Each("autoprefixer", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.Prefixer.Prefix(a.Path, a.Data)
			a.Data = out
			return a, true, err
		}),
		domain.Each("clean-css", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.Minifier.Minify(mediaCSS, a.Data)
			a.Data = out
			return a, true, err
		}),
		domain.Rename(domain.MinSuffix),
	)
}

func scriptsTask(cfg domain.Config, caps Capabilities) *domain.Task {
	return newTask(TaskScripts, cfg.OutputRel(domain.OutputScriptsDir),
		[]string{cfg.SourcePattern(domain.ScriptsDir, "*.js")},
		domain.Each("babel", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.Scripts.Transpile(a.Path, a.Data)
			a.Data = out
			return a, true, err
		}),
		domain.Each("uglify", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.Scripts.Minify(a.Path, a.Data)
			a.Data = out
			return a, true, err
		}),
		domain.Concat(domain.ScriptBundleName, newline),
	)
}

// vendorsTask bundles already minified third-party scripts as they are.
// Vendors that are not installed are skipped.
func vendorsTask(cfg domain.Config) *domain.Task {
	return newTask(TaskScriptsVendors, cfg.OutputRel(domain.OutputScriptsDir),
		cfg.Vendors,
		domain.Concat(domain.VendorBundleName, newline),
	)
}

func htmlsTask(cfg domain.Config, caps Capabilities) *domain.Task {
	components := cfg.SourcePath(domain.ComponentDir)
	return newTask(TaskHTMLs, cfg.OutputRel(),
		[]string{cfg.SourcePattern("*.html")},
		domain.Each("html-import", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.HTML.Import(a.Data, components)
			a.Data = out
			return a, true, err
		}),
		domain.Each("strip-dev-comments", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			a.Data = caps.HTML.StripDevComments(a.Data)
			return a, true, nil
		}),
	)
}

// templateTask pours every content page into the shared template.
// The template is read once per run.
func templateTask(cfg domain.Config, caps Capabilities) *domain.Task {
	templatePath := cfg.SourcePath(domain.TemplatesDir, domain.TemplateFile)
	return newTask(TaskHTMLTemplate, cfg.OutputRel(),
		[]string{cfg.SourcePattern(domain.ContentDir, "*.html")},
		domain.NewTransform("html-template", func(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			if len(assets) == 0 {
				return nil, nil
			}
			tpl, err := os.ReadFile(templatePath) //nolint:gosec // fixed project path
			if err != nil {
				wrapped := zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "file", templatePath)
				return nil, domain.Tag(domain.ErrIO, wrapped)
			}
			return domain.Each("html-template", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
				out, err := caps.HTML.ApplyTemplate(tpl, a.Data)
				a.Data = out
				return a, true, err
			}).Apply(ctx, assets)
		}),
	)
}

func spriteTask(cfg domain.Config, caps Capabilities) *domain.Task {
	return newTask(TaskSVGSprite, cfg.OutputRel(domain.OutputImagesDir),
		[]string{cfg.SourcePattern(domain.SVGDir, "*.svg")},
		domain.Each("svgmin", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.Minifier.Minify(mediaSVG, a.Data)
			a.Data = out
			return a, true, err
		}),
		domain.Combine("svgstore", func(_ context.Context, assets []domain.Asset) (domain.Asset, error) {
			symbols := make([]ports.SpriteSymbol, len(assets))
			for i, a := range assets {
				symbols[i] = ports.SpriteSymbol{ID: strings.TrimSuffix(a.Base(), a.Ext()), Data: a.Data}
			}
			out, err := caps.Sprites.Combine(symbols)
			return domain.Asset{Path: path.Base(domain.SVGDir) + ".svg", Data: out}, err
		}),
		domain.RenameTo(domain.SpriteName),
	)
}

func imagesTask(cfg domain.Config, caps Capabilities) *domain.Task {
	return newTask(TaskImages, cfg.OutputRel(domain.OutputImagesDir),
		[]string{cfg.SourcePattern(domain.ImagesDir, "*.{jpg,jpeg,png,gif,svg}")},
		domain.Each("imagemin", func(_ context.Context, a domain.Asset) (domain.Asset, bool, error) {
			out, err := caps.Images.Optimize(a.Path, a.Data)
			a.Data = out
			return a, true, err
		}),
	)
}
