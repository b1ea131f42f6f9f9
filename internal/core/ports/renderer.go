package ports

import (
	"context"
	"time"
)

// Renderer presents pipeline progress. It is driven by telemetry spans so the
// scheduler never writes to the terminal itself.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// OnPlanEmit is called before a pipeline runs.
	// tasks: the leaf names in declaration order
	// target: the name of the pipeline node being run
	OnPlanEmit(tasks []string, target string)

	// OnTaskStart is called when a task or action begins.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a task emits output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a task finishes. err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
