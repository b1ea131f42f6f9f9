package domain

import (
	"context"
	"path"
	"strings"
)

// Asset is a file moving through a task's transform chain.
type Asset struct {
	// Path is relative to the glob base of the pattern that matched the file,
	// slash separated. It becomes the output path below the task destination.
	Path string
	// Source is the absolute path the asset was read from. Empty for combined assets.
	Source string
	// Data holds the file contents.
	Data []byte
}

// Ext returns the extension of the asset path, including the dot.
func (a Asset) Ext() string {
	return path.Ext(a.Path)
}

// Base returns the last element of the asset path.
func (a Asset) Base() string {
	return path.Base(a.Path)
}

// WithExt returns a copy of a whose path extension is replaced by ext.
func (a Asset) WithExt(ext string) Asset {
	a.Path = strings.TrimSuffix(a.Path, path.Ext(a.Path)) + ext
	return a
}

// Origin returns the best description of where the asset came from.
func (a Asset) Origin() string {
	if a.Source != "" {
		return a.Source
	}
	return a.Path
}

// Task is a named unit of work: select sources, transform them in order, write the result.
type Task struct {
	Name InternedString
	// Sources are glob patterns relative to the project root.
	Sources []string
	// Destination is a directory relative to the project root.
	Destination string
	// Transforms run in declaration order. The order is part of the task's contract.
	Transforms []Transform
}

// TransformNames lists the chain in execution order.
func (t *Task) TransformNames() []string {
	names := make([]string, len(t.Transforms))
	for i, tr := range t.Transforms {
		names[i] = tr.Name()
	}
	return names
}

// Action is a named side effect that is not a file transformation, such as Clean.
type Action struct {
	Name InternedString
	Run  func(ctx context.Context) error
}
