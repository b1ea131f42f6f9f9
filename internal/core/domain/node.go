package domain

import (
	"context"
	"iter"
	"strings"
)

// NodeKind identifies the shape of a pipeline node.
type NodeKind uint8

const (
	// KindTask runs a Task.
	KindTask NodeKind = iota
	// KindAction runs an Action.
	KindAction
	// KindSequence runs its children strictly in order.
	KindSequence
	// KindParallel runs its children concurrently.
	KindParallel
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindAction:
		return "action"
	case KindSequence:
		return "sequence"
	case KindParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// Node is a value describing work to do. It is executed by the scheduler.
// The zero Node is an empty sequence.
type Node struct {
	kind     NodeKind
	task     *Task
	action   *Action
	children []Node
}

// TaskNode wraps t in a node.
func TaskNode(t *Task) Node {
	return Node{kind: KindTask, task: t}
}

// ActionNode wraps a named side effect in a node.
func ActionNode(name string, run func(ctx context.Context) error) Node {
	return Node{kind: KindAction, action: &Action{Name: NewInternedString(name), Run: run}}
}

// Sequence returns a node that runs children one after another.
// The first failure stops the sequence and the remaining children are skipped.
func Sequence(children ...Node) Node {
	return Node{kind: KindSequence, children: children}
}

// Parallel returns a node that runs all children concurrently and waits for every one.
// Failures are aggregated; a failing child does not cancel its siblings.
func Parallel(children ...Node) Node {
	return Node{kind: KindParallel, children: children}
}

// Kind returns the node kind.
func (n Node) Kind() NodeKind { return n.kind }

// Task returns the task of a KindTask node.
func (n Node) Task() *Task { return n.task }

// Action returns the action of a KindAction node.
func (n Node) Action() *Action { return n.action }

// Children returns the children of a composite node.
func (n Node) Children() []Node { return n.children }

// Name describes the node. Leaves use their own name, composites list their children.
func (n Node) Name() string {
	switch n.kind {
	case KindTask:
		return n.task.Name.String()
	case KindAction:
		return n.action.Name.String()
	case KindSequence, KindParallel:
		names := make([]string, len(n.children))
		for i, c := range n.children {
			names[i] = c.Name()
		}
		op := "series"
		if n.kind == KindParallel {
			op = "parallel"
		}
		return op + "(" + strings.Join(names, ", ") + ")"
	default:
		return ""
	}
}

// Leaves yields task and action leaves depth first, in declaration order.
func (n Node) Leaves() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		n.walk(yield)
	}
}

func (n Node) walk(yield func(Node) bool) bool {
	switch n.kind {
	case KindTask, KindAction:
		return yield(n)
	default:
		for _, c := range n.children {
			if !c.walk(yield) {
				return false
			}
		}
		return true
	}
}

// Tasks yields the tasks reachable from n.
func (n Node) Tasks() iter.Seq[*Task] {
	return func(yield func(*Task) bool) {
		for leaf := range n.Leaves() {
			if leaf.kind == KindTask && !yield(leaf.task) {
				return
			}
		}
	}
}
