// Package sass compiles SCSS through the Dart Sass embedded protocol.
package sass

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/bep/godartsass/v2"
	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StyleCompiler = (*Compiler)(nil)

// globImport matches an @import rule whose single target contains glob syntax.
var globImport = regexp.MustCompile(`@import\s+["']([^"']*[*?{\[][^"']*)["']\s*;`)

// Compiler implements ports.StyleCompiler on top of a shared godartsass.Transpiler.
// The Dart Sass process is started on first use, so builds without stylesheets
// never need the binary.
type Compiler struct {
	logger ports.Logger
	binary string

	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

// NewCompiler creates a Compiler. An empty binary selects "sass" from PATH.
func NewCompiler(logger ports.Logger, binary string) *Compiler {
	return &Compiler{logger: logger, binary: binary}
}

// ExpandGlobImports rewrites `@import "dir/**/*.scss";` into one import per
// matching file, relative to the importing file and sorted. A glob matching
// nothing is removed.
func (c *Compiler) ExpandGlobImports(path string, src []byte) ([]byte, error) {
	dir := filepath.Dir(path)
	self := filepath.Base(path)

	var expandErr error
	out := globImport.ReplaceAllFunc(src, func(rule []byte) []byte {
		pattern := string(globImport.FindSubmatch(rule)[1])
		matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
		if err != nil {
			expandErr = zerr.With(zerr.Wrap(err, "invalid import glob"), "pattern", pattern)
			return rule
		}
		slices.Sort(matches)

		lines := make([]string, 0, len(matches))
		for _, m := range matches {
			if m == self {
				continue
			}
			lines = append(lines, `@import "`+m+`";`)
		}
		return []byte(strings.Join(lines, "\n"))
	})
	if expandErr != nil {
		return nil, expandErr
	}
	return out, nil
}

// Compile compiles src, the contents of the stylesheet at path. The file's
// directory is on the load path so relative imports resolve.
func (c *Compiler) Compile(ctx context.Context, path string, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := c.start()
	if err != nil {
		return nil, err
	}

	syntax := godartsass.SourceSyntaxSCSS
	if filepath.Ext(path) == ".sass" {
		syntax = godartsass.SourceSyntaxSASS
	}

	res, err := t.Execute(godartsass.Args{
		Source:       string(src),
		URL:          (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(),
		SourceSyntax: syntax,
		OutputStyle:  godartsass.OutputStyleExpanded,
		IncludePaths: []string{filepath.Dir(path)},
	})
	if err != nil {
		return nil, err
	}
	return []byte(res.CSS), nil
}

// Close stops the Dart Sass process if it was started.
func (c *Compiler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler == nil {
		return nil
	}
	err := c.transpiler.Close()
	c.transpiler = nil
	return err
}

func (c *Compiler) start() (*godartsass.Transpiler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transpiler != nil {
		return c.transpiler, nil
	}

	t, err := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: c.binary,
		LogEventHandler:          c.logEvent,
	})
	if err != nil {
		binary := c.binary
		if binary == "" {
			binary = "sass"
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSassUnavailable.Error()), "binary", binary)
	}
	c.transpiler = t
	return t, nil
}

func (c *Compiler) logEvent(event godartsass.LogEvent) {
	if c.logger == nil {
		return
	}
	msg := "sass: " + event.Message
	if event.DeprecationType != "" {
		msg += " (" + event.DeprecationType + ")"
	}
	c.logger.Warn(msg)
}
