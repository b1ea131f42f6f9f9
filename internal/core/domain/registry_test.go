package domain_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
)

func task(name string, dest string, sources ...string) *domain.Task {
	return &domain.Task{
		Name:        domain.NewInternedString(name),
		Sources:     sources,
		Destination: dest,
	}
}

func TestRegistry(t *testing.T) {
	r := domain.NewRegistry()
	styles := domain.TaskNode(task("styles", "build/css", "src/scss/*.scss"))
	pages := domain.TaskNode(task("htmls", "build", "src/*.html"))

	require.NoError(t, r.Register("styles", styles))
	require.NoError(t, r.Register("htmls", pages))
	require.NoError(t, r.Alias("htmlParticals", "htmls"))

	t.Run("lookup by name", func(t *testing.T) {
		n, err := r.Lookup("styles")
		require.NoError(t, err)
		assert.Equal(t, "styles", n.Name())
	})

	t.Run("lookup by alias", func(t *testing.T) {
		n, err := r.Lookup("htmlParticals")
		require.NoError(t, err)
		assert.Same(t, pages.Task(), n.Task())
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := r.Register("styles", styles)
		require.ErrorContains(t, err, domain.ErrTaskAlreadyExists.Error())
	})

	t.Run("alias shadowing a name", func(t *testing.T) {
		err := r.Alias("styles", "htmls")
		require.ErrorContains(t, err, domain.ErrTaskAlreadyExists.Error())
	})

	t.Run("alias to unknown task", func(t *testing.T) {
		err := r.Alias("css", "stylus")
		require.ErrorContains(t, err, domain.ErrTaskNotFound.Error())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := r.Lookup("stylus")
		require.ErrorContains(t, err, domain.ErrTaskNotFound.Error())
	})

	t.Run("names are sorted and include aliases", func(t *testing.T) {
		names := r.Names()
		assert.Equal(t, []string{"htmlParticals", "htmls", "styles"}, names)
		assert.True(t, slices.IsSorted(names))
	})
}

func TestCheckDisjoint(t *testing.T) {
	pages := domain.TaskNode(task("htmls", "build", "src/*.html"))

	t.Run("disjoint tasks", func(t *testing.T) {
		root := domain.Sequence(
			domain.ActionNode("clean", func(context.Context) error { return nil }),
			domain.Parallel(
				domain.TaskNode(task("styles", "build/css", "src/scss/*.scss")),
				domain.TaskNode(task("htmlTemplate", "build", "src/content/*.html")),
				pages,
			),
		)
		require.NoError(t, domain.CheckDisjoint(root))
	})

	t.Run("same node twice is not an overlap", func(t *testing.T) {
		require.NoError(t, domain.CheckDisjoint(domain.Parallel(pages, pages)))
	})

	t.Run("two tasks writing the same pages", func(t *testing.T) {
		root := domain.Parallel(pages, domain.TaskNode(task("htmlParticals", "build/", "src/*.html")))
		err := domain.CheckDisjoint(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrOverlappingTasks.Error())

		var z interface{ Metadata() map[string]any }
		require.True(t, errors.As(err, &z))
		assert.Equal(t, "htmls", z.Metadata()["conflicts_with"])
	})
}
