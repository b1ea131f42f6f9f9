package fs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputWriter = (*Writer)(nil)

// Writer implements ports.OutputWriter. It remembers the xxhash of every file
// it wrote and skips rewriting identical content, so a rebuild that changes
// nothing does not touch the output tree.
type Writer struct {
	mu     sync.Mutex
	hashes map[string]uint64
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{hashes: make(map[string]uint64)}
}

// Write stores every asset below dir and returns the absolute paths written.
func (w *Writer) Write(dir string, assets []domain.Asset) ([]string, error) {
	var written []string

	for _, asset := range assets {
		target := filepath.Join(dir, filepath.FromSlash(asset.Path))
		sum := xxhash.Sum64(asset.Data)

		if w.unchanged(target, sum) {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return written, writeError(target, err)
		}
		if err := os.WriteFile(target, asset.Data, domain.FilePerm); err != nil {
			return written, writeError(target, err)
		}

		w.mu.Lock()
		w.hashes[target] = sum
		w.mu.Unlock()
		written = append(written, target)
	}

	return written, nil
}

// unchanged reports whether target already holds content with hash sum.
// The remembered hash only counts while the file still exists, so a Clean
// between runs forces a rewrite.
func (w *Writer) unchanged(target string, sum uint64) bool {
	w.mu.Lock()
	prev, ok := w.hashes[target]
	w.mu.Unlock()
	if !ok || prev != sum {
		return false
	}
	_, err := os.Stat(target)
	return err == nil
}

// Forget drops remembered hashes below dir.
func (w *Writer) Forget(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for target := range w.hashes {
		if contains(dir, target) {
			delete(w.hashes, target)
		}
	}
}

func writeError(path string, err error) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "file", path)
	return domain.Tag(domain.ErrIO, wrapped)
}
