package domain

import (
	"bytes"
	"context"
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// Transform is one step of a task's chain.
type Transform interface {
	Name() string
	Apply(ctx context.Context, assets []Asset) ([]Asset, error)
}

type transformFunc struct {
	name  string
	apply func(ctx context.Context, assets []Asset) ([]Asset, error)
}

func (t transformFunc) Name() string { return t.name }

func (t transformFunc) Apply(ctx context.Context, assets []Asset) ([]Asset, error) {
	return t.apply(ctx, assets)
}

// NewTransform builds a Transform from a function over the whole asset set.
func NewTransform(name string, fn func(ctx context.Context, assets []Asset) ([]Asset, error)) Transform {
	return transformFunc{name: name, apply: fn}
}

// Each maps every asset through fn. Returning keep=false drops the asset.
// Failures are tagged ErrTransformFailed and carry the transform and file.
func Each(name string, fn func(ctx context.Context, a Asset) (out Asset, keep bool, err error)) Transform {
	return NewTransform(name, func(ctx context.Context, assets []Asset) ([]Asset, error) {
		out := make([]Asset, 0, len(assets))
		for _, a := range assets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res, keep, err := fn(ctx, a)
			if err != nil {
				return nil, transformError(name, a.Origin(), err)
			}
			if keep {
				out = append(out, res)
			}
		}
		return out, nil
	})
}

// Combine reduces all assets into one. Zero input assets produce zero output assets.
func Combine(name string, fn func(ctx context.Context, assets []Asset) (Asset, error)) Transform {
	return NewTransform(name, func(ctx context.Context, assets []Asset) ([]Asset, error) {
		if len(assets) == 0 {
			return nil, nil
		}
		res, err := fn(ctx, assets)
		if err != nil {
			return nil, transformError(name, "", err)
		}
		return []Asset{res}, nil
	})
}

// Rename inserts suffix before the extension of every asset: a.css becomes a.min.css.
func Rename(suffix string) Transform {
	return Each("rename", func(_ context.Context, a Asset) (Asset, bool, error) {
		ext := a.Ext()
		a.Path = strings.TrimSuffix(a.Path, ext) + suffix + ext
		return a, true, nil
	})
}

// RenameTo gives every asset the base name name, keeping its directory.
func RenameTo(name string) Transform {
	return Each("rename", func(_ context.Context, a Asset) (Asset, bool, error) {
		a.Path = path.Join(path.Dir(a.Path), name)
		return a, true, nil
	})
}

// Concat joins all assets, in their current order, into a single asset called name.
func Concat(name string, sep []byte) Transform {
	return Combine("concat", func(_ context.Context, assets []Asset) (Asset, error) {
		parts := make([][]byte, len(assets))
		for i, a := range assets {
			parts[i] = a.Data
		}
		return Asset{Path: name, Data: bytes.Join(parts, sep)}, nil
	})
}

func transformError(name, file string, err error) error {
	wrapped := zerr.With(zerr.Wrap(err, ErrTransformFailed.Error()), "transform", name)
	if file != "" {
		wrapped = zerr.With(wrapped, "file", file)
	}
	return Tag(ErrTransformFailed, wrapped)
}
