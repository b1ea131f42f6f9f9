package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// Error kinds. Detailed errors are tagged with one of these through Tag so that
// errors.Is keeps working after zerr metadata has been attached.
var (
	// ErrIO is the kind for missing or unreadable sources and unwritable destinations.
	ErrIO = zerr.New("i/o error")

	// ErrTransformFailed is the kind for a capability rejecting its input.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrPortBind is the kind for a dev server that cannot bind its listener.
	ErrPortBind = zerr.New("failed to bind dev server port")
)

var (
	// ErrCleanFailed is returned when the build output root cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean output directory")

	// ErrCleanRefused is returned when Clean is asked to delete the project or source root.
	ErrCleanRefused = zerr.New("refusing to clean directory")

	// ErrTaskAlreadyExists is returned when a name is registered twice.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrTaskNotFound is returned when a requested task is not registered.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTargetsSpecified is returned when no task names are passed to run.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrOverlappingTasks is returned when two tasks write the same output file.
	ErrOverlappingTasks = zerr.New("tasks write overlapping outputs")

	// ErrBuildExecutionFailed is returned when at least one task of a build fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrInputResolutionFailed is returned when a source pattern cannot be expanded.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileWriteFailed is returned when an output file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnsafeOutputDir is returned when the output root would overlap the project or source root.
	ErrUnsafeOutputDir = zerr.New("output directory must not contain the source directory or be the project root")

	// ErrUnknownBrowser is returned for an unsupported browser target.
	ErrUnknownBrowser = zerr.New("unknown browser target")

	// ErrWatcherFailed is returned when the file watcher cannot start.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrServerFailed is returned when the dev server stops unexpectedly.
	ErrServerFailed = zerr.New("dev server failed")

	// ErrSassUnavailable is returned when no Dart Sass binary can be started.
	ErrSassUnavailable = zerr.New("dart sass is not available")

	// ErrPartialNotFound is returned when an HTML import names a missing file.
	ErrPartialNotFound = zerr.New("html partial not found")

	// ErrImportCycle is returned when HTML imports include each other.
	ErrImportCycle = zerr.New("html import cycle")

	// ErrUnsupportedImage is returned for an image extension the optimizer does not know.
	ErrUnsupportedImage = zerr.New("unsupported image format")
)

// taggedError attaches a kind to a detailed error without changing its message.
// The detail comes first in Unwrap so errors.As finds its metadata before the sentinel's.
type taggedError struct {
	err  error
	kind error
}

func (e *taggedError) Error() string { return e.err.Error() }

func (e *taggedError) Unwrap() []error { return []error{e.err, e.kind} }

// Tag marks err with kind so errors.Is(err, kind) holds.
// It returns nil for a nil err and err unchanged when it already carries kind.
func Tag(kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return err
	}
	return &taggedError{err: err, kind: kind}
}

// Kind returns the error kind carried by err, or nil when it carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrPortBind, ErrTransformFailed, ErrIO} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
