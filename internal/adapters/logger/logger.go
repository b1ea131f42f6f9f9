// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/style"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error satisfies it.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured metadata, such as zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain prepared for display.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger instance writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// SetOutput updates the logger's output destination, keeping the JSON mode.
// A nil w selects os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty logging, keeping the output destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(newHandler(w, enable))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain and metadata.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		attrs := []any{"error", err.Error()}
		if kind := domain.Kind(err); kind != nil {
			attrs = append(attrs, "kind", kind.Error())
		}
		l.logger.Error("operation failed", attrs...)
		return
	}

	blocks := make([]string, 0, 1)
	for _, branch := range splitBranches(err) {
		blocks = append(blocks, formatErrorEntries(collectErrorEntries(branch)))
	}
	l.logger.Error(strings.Join(blocks, "\n\n"))
}

// splitBranches separates independent failures aggregated with errors.Join.
// Error kinds are markers, not failures, and are dropped.
func splitBranches(err error) []error {
	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	if _, isMessager := err.(messager); isMessager {
		return []error{err}
	}

	var branches []error
	for _, e := range multi.Unwrap() {
		if e == nil || isKind(e) {
			continue
		}
		branches = append(branches, splitBranches(e)...)
	}
	if len(branches) == 0 {
		return []error{err}
	}
	return branches
}

func isKind(err error) bool {
	return domain.Kind(err) == err
}

// collectErrorEntries walks the error chain. zerr errors contribute their own
// message and metadata; the first plain error contributes its full text and ends the walk.
// Wrappers without a message fold their metadata into the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; {
		if m, ok := current.(messager); ok {
			meta := map[string]any{}
			if md, ok := current.(metadataer); ok {
				meta = md.Metadata()
			}
			if m.Message() == "" {
				pending = mergeMetadata(pending, meta)
			} else {
				entries = append(entries, ErrorEntry{
					Message:  m.Message(),
					Metadata: mergeMetadata(meta, pending),
				})
				pending = nil
			}
			current = errors.Unwrap(current)
			continue
		}

		if multi, ok := current.(interface{ Unwrap() []error }); ok {
			if next := firstFailure(multi.Unwrap()); next != nil {
				current = next
				continue
			}
		}

		var meta map[string]any
		if pending != nil {
			meta = pending
		}
		entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: meta})
		break
	}
	return entries
}

func firstFailure(errs []error) error {
	for _, e := range errs {
		if e != nil && !isKind(e) {
			return e
		}
	}
	return nil
}

func mergeMetadata(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// formatErrorEntries renders entries as "Error: ..." followed by a "Caused by:" list.
// Metadata keys are printed sorted, one per line, below their message.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var head, indent string
		if i == 0 {
			head, indent = "Error: ", "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, indent = "    "+style.Arrow+" ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
