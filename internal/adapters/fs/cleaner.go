package fs

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cleaner = (*Cleaner)(nil)

// Cleaner implements ports.Cleaner with os.RemoveAll.
type Cleaner struct {
	protected []string
	writer    *Writer
}

// NewCleaner creates a Cleaner that refuses to remove any of protected or a
// directory containing one of them. When writer is set, its remembered hashes
// for the removed tree are dropped.
func NewCleaner(writer *Writer, protected ...string) *Cleaner {
	return &Cleaner{protected: protected, writer: writer}
}

// Clean removes dir and everything below it. A missing dir is success.
func (c *Cleaner) Clean(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return domain.Tag(domain.ErrIO, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "dir", dir))
	}
	for _, p := range c.protected {
		if contains(abs, p) {
			return zerr.With(zerr.With(domain.ErrCleanRefused, "dir", abs), "protects", p)
		}
	}

	if err := os.RemoveAll(abs); err != nil {
		return domain.Tag(domain.ErrIO, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "dir", abs))
	}
	if c.writer != nil {
		c.writer.Forget(abs)
	}
	return nil
}

// contains reports whether path is dir or lies below it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}
