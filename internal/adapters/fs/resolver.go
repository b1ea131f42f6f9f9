// Package fs provides the file system adapters: source resolution, output
// writing and cleaning.
package fs

import (
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements ports.InputResolver using doublestar globs.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve expands each pattern relative to root and reads the matched files.
// Patterns keep their order; matches within one pattern are sorted. A file
// matched by several patterns is read once, at its first position.
// A pattern matching nothing contributes nothing.
func (r *Resolver) Resolve(root string, patterns []string) ([]domain.Asset, error) {
	seen := make(map[string]bool)
	var assets []domain.Asset

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, zerr.With(domain.ErrInputResolutionFailed, "pattern", pattern)
		}

		base, glob := doublestar.SplitPattern(pattern)
		baseDir := filepath.Join(root, filepath.FromSlash(base))

		matches, err := doublestar.Glob(os.DirFS(baseDir), glob, doublestar.WithFilesOnly())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInputResolutionFailed.Error()), "pattern", pattern)
		}
		slices.Sort(matches)

		for _, match := range matches {
			abs := filepath.Join(baseDir, filepath.FromSlash(match))
			if seen[abs] {
				continue
			}
			seen[abs] = true

			data, err := os.ReadFile(abs) //nolint:gosec // paths come from the project's own globs
			if err != nil {
				return nil, readError(abs, err)
			}
			assets = append(assets, domain.Asset{
				Path:   path.Clean(match),
				Source: abs,
				Data:   data,
			})
		}
	}

	return assets, nil
}

func readError(path string, err error) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "file", path)
	return domain.Tag(domain.ErrIO, wrapped)
}
