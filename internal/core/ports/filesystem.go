package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// InputResolver expands source patterns into assets.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type InputResolver interface {
	// Resolve expands root-relative glob patterns and reads every matched file.
	// Assets keep pattern order and are sorted within a pattern; a pattern that
	// matches nothing is not an error.
	Resolve(root string, patterns []string) ([]domain.Asset, error)
}

// OutputWriter writes assets below a destination directory.
type OutputWriter interface {
	// Write stores each asset at dir/asset.Path, creating directories as needed.
	// It returns the paths that were actually written.
	Write(dir string, assets []domain.Asset) ([]string, error)
}

// Cleaner removes a build output root.
type Cleaner interface {
	// Clean removes dir recursively. A missing dir is not an error.
	Clean(ctx context.Context, dir string) error
}
