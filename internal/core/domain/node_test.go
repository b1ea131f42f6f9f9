package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestNode_Leaves(t *testing.T) {
	clean := domain.ActionNode("clean", func(context.Context) error { return nil })
	build := domain.Sequence(
		clean,
		domain.Parallel(
			domain.TaskNode(task("styles", "build/css")),
			domain.TaskNode(task("scripts", "build/js")),
		),
	)

	var names []string
	for leaf := range build.Leaves() {
		names = append(names, leaf.Name())
	}
	assert.Equal(t, []string{"clean", "styles", "scripts"}, names)
	assert.Equal(t, "series(clean, parallel(styles, scripts))", build.Name())
	assert.Equal(t, domain.KindSequence, build.Kind())
	assert.Equal(t, "parallel", build.Children()[1].Kind().String())

	var tasks []string
	for tk := range build.Tasks() {
		tasks = append(tasks, tk.Name.String())
	}
	assert.Equal(t, []string{"styles", "scripts"}, tasks)
}

func TestNode_LeavesStopsEarly(t *testing.T) {
	n := domain.Parallel(
		domain.TaskNode(task("a", "out/a")),
		domain.TaskNode(task("b", "out/b")),
		domain.TaskNode(task("c", "out/c")),
	)

	var seen []string
	for leaf := range n.Leaves() {
		seen = append(seen, leaf.Name())
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestTag(t *testing.T) {
	detail := errors.New("unexpected token")

	tagged := domain.Tag(domain.ErrTransformFailed, detail)
	require.ErrorIs(t, tagged, domain.ErrTransformFailed)
	require.ErrorIs(t, tagged, detail)
	assert.Equal(t, domain.ErrTransformFailed, domain.Kind(tagged))

	assert.Same(t, tagged, domain.Tag(domain.ErrTransformFailed, tagged), "tagging twice is a no-op")
	require.NoError(t, domain.Tag(domain.ErrIO, nil))
	assert.NoError(t, domain.Kind(detail))
}
