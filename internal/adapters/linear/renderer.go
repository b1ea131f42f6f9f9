// Package linear renders pipeline progress as chronological, timestamped lines.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

// Renderer implements ports.Renderer with one line per event:
//
//	[14:03:07] Starting 'styles'...
//	[14:03:08] Finished 'styles' after 812 ms
//
// Task output goes to stdout prefixed with the task name; lifecycle lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	mu      sync.Mutex
	tasks   map[string]*taskState
	buffers map[string]*bytes.Buffer
}

type taskState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a Renderer. Nil writers select os.Stdout and os.Stderr;
// a nil profile selects output.ColorProfile.
func NewRenderer(stdout, stderr io.Writer, profile func() termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if profile == nil {
		profile = output.ColorProfile
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		out:     output.NewWithProfile(stderr, profile),
		tasks:   make(map[string]*taskState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op.
func (r *Renderer) Start(context.Context) error {
	return nil
}

// Stop flushes all partial lines.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}
	return nil
}

// OnPlanEmit prints the tasks about to run.
func (r *Renderer) OnPlanEmit(tasks []string, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quoted := make([]string, len(tasks))
	for i, name := range tasks {
		quoted[i] = "'" + name + "'"
	}
	_, _ = fmt.Fprintf(r.stderr, "Running %s: %s\n", r.name(target), strings.Join(quoted, ", "))
}

// OnTaskStart prints a start line.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{name: name, startTime: startTime}
	r.buffers[spanID] = new(bytes.Buffer)

	_, _ = fmt.Fprintf(r.stderr, "%s Starting %s...\n", r.stamp(startTime), r.name(name))
}

// OnTaskLog prints complete lines of task output and keeps any partial line.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)
	for {
		i := bytes.IndexByte(buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		r.printLineLocked(task.name, buf.Next(i+1))
	}
}

// OnTaskComplete prints a finish or failure line with the elapsed time.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	r.flushBufferLocked(spanID)

	elapsed := FormatDuration(endTime.Sub(task.startTime))
	if err != nil {
		icon := r.out.String(style.Cross).Foreground(r.out.Color(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s %s errored after %s: %v\n",
			r.stamp(endTime), icon, r.name(task.name), elapsed, err)
	} else {
		_, _ = fmt.Fprintf(r.stderr, "%s Finished %s after %s\n",
			r.stamp(endTime), r.name(task.name), elapsed)
	}

	delete(r.tasks, spanID)
	delete(r.buffers, spanID)
}

// FormatDuration renders d the way build tools usually do: μs below a
// millisecond, whole ms below a second, then seconds with two decimals.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d μs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}

func (r *Renderer) stamp(t time.Time) string {
	return "[" + r.out.String(t.Format(time.TimeOnly)).Faint().String() + "]"
}

func (r *Renderer) name(name string) string {
	return "'" + r.out.String(name).Foreground(r.out.Color(string(style.Ember))).String() + "'"
}

// flushBufferLocked must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	if buf := r.buffers[spanID]; buf.Len() > 0 {
		r.printLineLocked(task.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(taskName string, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", taskName, line)
}
