// Package html assembles pages from partials and layout templates.
package html

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HTMLComposer = (*Composer)(nil)

// ErrUnterminatedRegion is returned when a build region has no closing marker.
var ErrUnterminatedRegion = zerr.New("unterminated template region")

var (
	importDirective = regexp.MustCompile(`@import\s+["']([^"']+)["'][ \t]*;?`)
	devComment      = regexp.MustCompile(`\n\s*<!--DEV[\s\S]+?-->`)
	regionStart     = regexp.MustCompile(`<!--\s*build:([\w-]+)\s*-->`)
)

// Composer implements ports.HTMLComposer.
type Composer struct{}

// NewComposer creates a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Import replaces every `@import "file.html"` in page with the named file from dir.
// Imported files are expanded too.
func (c *Composer) Import(page []byte, dir string) ([]byte, error) {
	return c.expand(page, dir, nil)
}

func (c *Composer) expand(page []byte, dir string, stack []string) ([]byte, error) {
	var out bytes.Buffer
	last := 0
	for _, loc := range importDirective.FindAllSubmatchIndex(page, -1) {
		out.Write(page[last:loc[0]])
		last = loc[1]

		name := filepath.FromSlash(string(page[loc[2]:loc[3]]))
		if !filepath.IsLocal(name) {
			return nil, domain.Tag(domain.ErrPartialNotFound, zerr.With(domain.ErrPartialNotFound, "file", name))
		}
		path := filepath.Join(dir, name)
		if slices.Contains(stack, path) {
			return nil, domain.Tag(domain.ErrImportCycle, zerr.With(domain.ErrImportCycle, "file", path))
		}

		partial, err := os.ReadFile(path) //nolint:gosec // partials come from the project tree
		if err != nil {
			if os.IsNotExist(err) {
				return nil, domain.Tag(domain.ErrPartialNotFound, zerr.With(domain.ErrPartialNotFound, "file", path))
			}
			return nil, domain.Tag(domain.ErrIO, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "file", path))
		}

		expanded, err := c.expand(partial, dir, append(stack, path))
		if err != nil {
			return nil, err
		}
		out.Write(expanded)
	}
	out.Write(page[last:])
	return out.Bytes(), nil
}

// ApplyTemplate fills each `<!-- build:name -->...<!-- /build:name -->` region of
// tpl with the same region of page. Regions page does not define keep the
// template content. The markers are removed from the result.
func (c *Composer) ApplyTemplate(tpl, page []byte) ([]byte, error) {
	content, err := regions(page)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	rest := tpl
	for {
		start := regionStart.FindSubmatchIndex(rest)
		if start == nil {
			out.Write(rest)
			return out.Bytes(), nil
		}
		name := string(rest[start[2]:start[3]])
		body, end, err := regionBody(rest[start[1]:], name)
		if err != nil {
			return nil, err
		}

		out.Write(rest[:start[0]])
		if replacement, ok := content[name]; ok {
			out.Write(replacement)
		} else {
			out.Write(body)
		}
		rest = rest[start[1]+end:]
	}
}

// StripDevComments removes `<!--DEV ... -->` blocks together with the line break before them.
func (c *Composer) StripDevComments(page []byte) []byte {
	return devComment.ReplaceAll(page, nil)
}

// regions collects the named build regions of doc.
func regions(doc []byte) (map[string][]byte, error) {
	found := make(map[string][]byte)
	rest := doc
	for {
		start := regionStart.FindSubmatchIndex(rest)
		if start == nil {
			return found, nil
		}
		name := string(rest[start[2]:start[3]])
		body, end, err := regionBody(rest[start[1]:], name)
		if err != nil {
			return nil, err
		}
		found[name] = body
		rest = rest[start[1]+end:]
	}
}

// regionBody returns the content before the closing marker of name and the
// offset just past that marker.
func regionBody(b []byte, name string) (body []byte, end int, err error) {
	closing := regexp.MustCompile(`<!--\s*/build:` + regexp.QuoteMeta(name) + `\s*-->`)
	loc := closing.FindIndex(b)
	if loc == nil {
		return nil, 0, zerr.With(ErrUnterminatedRegion, "region", name)
	}
	return b[:loc[0]], loc[1], nil
}
