package domain

import (
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// Registry maps task names to pipeline nodes for invocation by name.
type Registry struct {
	nodes   map[InternedString]Node
	aliases map[InternedString]InternedString
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:   make(map[InternedString]Node),
		aliases: make(map[InternedString]InternedString),
	}
}

// Register stores node under name.
func (r *Registry) Register(name string, node Node) error {
	key := NewInternedString(name)
	if r.has(key) {
		return Tag(ErrTaskAlreadyExists, zerr.With(ErrTaskAlreadyExists, "task", name))
	}
	r.nodes[key] = node
	return nil
}

// Alias makes alias resolve to the node registered as target.
func (r *Registry) Alias(alias, target string) error {
	key := NewInternedString(alias)
	if r.has(key) {
		return Tag(ErrTaskAlreadyExists, zerr.With(ErrTaskAlreadyExists, "task", alias))
	}
	to := NewInternedString(target)
	if _, ok := r.nodes[to]; !ok {
		return Tag(ErrTaskNotFound, zerr.With(ErrTaskNotFound, "task", target))
	}
	r.aliases[key] = to
	return nil
}

// Lookup returns the node registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (Node, error) {
	key := NewInternedString(name)
	if to, ok := r.aliases[key]; ok {
		key = to
	}
	node, ok := r.nodes[key]
	if !ok {
		return Node{}, Tag(ErrTaskNotFound, zerr.With(ErrTaskNotFound, "task", name))
	}
	return node, nil
}

// Names returns every registered name and alias, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.nodes)+len(r.aliases))
	for k := range r.nodes {
		names = append(names, k.String())
	}
	for k := range r.aliases {
		names = append(names, k.String())
	}
	slices.Sort(names)
	return names
}

func (r *Registry) has(key InternedString) bool {
	_, isNode := r.nodes[key]
	_, isAlias := r.aliases[key]
	return isNode || isAlias
}

// CheckDisjoint verifies that no two tasks reachable from root write the same source
// pattern into the same destination. Tasks in a Parallel batch share no locks,
// so overlapping outputs would race. Collisions that depend on which files
// exist are caught per output file by the scheduler.
func CheckDisjoint(root Node) error {
	type output struct {
		dest    string
		pattern string
	}
	owners := make(map[output]string)
	seen := make(map[*Task]bool)

	for t := range root.Tasks() {
		if seen[t] {
			continue
		}
		seen[t] = true
		for _, p := range t.Sources {
			key := output{dest: filepath.Clean(t.Destination), pattern: p}
			if prev, ok := owners[key]; ok {
				err := zerr.With(ErrOverlappingTasks, "task", t.Name.String())
				err = zerr.With(err, "conflicts_with", prev)
				return Tag(ErrOverlappingTasks, zerr.With(err, "destination", t.Destination))
			}
			owners[key] = t.Name.String()
		}
	}
	return nil
}
