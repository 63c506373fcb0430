package topic

import (
	"slices"
	"strings"

	"github.com/vk/courseflow/internal/report"
)

// Registry owns every topic of the curriculum. Topics are registered first,
// then their dependency edges are linked once all names are known.
type Registry struct {
	topics   map[string]*Topic
	reporter *report.Reporter
}

// NewRegistry creates an empty registry. Data-quality findings are sent to
// the given reporter.
func NewRegistry(reporter *report.Reporter) *Registry {
	return &Registry{
		topics:   make(map[string]*Topic),
		reporter: reporter,
	}
}

// Register adds a topic. Registering the same name with identical data is a
// no-op; registering it with a different description fails with a
// DuplicateTopicError.
func (r *Registry) Register(name, description string) (*Topic, error) {
	if existing, ok := r.topics[name]; ok {
		if existing.Description != description {
			return nil, &DuplicateTopicError{Name: name}
		}
		return existing, nil
	}
	t := &Topic{
		Name:        name,
		Description: description,
		deps:        make(Set),
	}
	r.topics[name] = t
	return t, nil
}

// Link resolves textual dependency names to topics and attaches them to the
// named topic. A dependency name that was never registered is reported as a
// warning and skipped; no dangling references are kept. Linking an
// unregistered topic itself is an UnknownTopicError.
func (r *Registry) Link(name string, depNames []string) error {
	t, ok := r.topics[name]
	if !ok {
		return &UnknownTopicError{Name: name}
	}
	for _, depName := range depNames {
		dep, ok := r.topics[depName]
		if !ok {
			r.reporter.Warningf("unknown topic '%s' listed as a dependency of '%s'", depName, name)
			continue
		}
		t.deps.Add(dep)
	}
	return nil
}

// Get looks up a topic by name.
func (r *Registry) Get(name string) (*Topic, bool) {
	t, ok := r.topics[name]
	return t, ok
}

// Len returns the number of registered topics.
func (r *Registry) Len() int {
	return len(r.topics)
}

// Topics returns all registered topics in name order.
func (r *Registry) Topics() []*Topic {
	out := make([]*Topic, 0, len(r.topics))
	for _, t := range r.topics {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Topic) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// DependencyDepth returns the length of the shortest chain of dependency
// edges from t down to candidate: 1 when candidate is a direct dependency,
// 2 when it is a dependency of a dependency, and so on. The second return
// is false when no chain exists. Breadth-first, so the minimum depth is
// returned even when the graph is not a tree, and cycles cannot hang it.
func (r *Registry) DependencyDepth(t, candidate *Topic) (int, bool) {
	if t == nil || candidate == nil {
		return 0, false
	}
	type queued struct {
		topic *Topic
		depth int
	}
	visited := map[string]bool{t.Name: true}
	queue := []queued{{t, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range cur.topic.deps.Sorted() {
			if dep.Name == candidate.Name {
				return cur.depth + 1, true
			}
			if visited[dep.Name] {
				continue
			}
			visited[dep.Name] = true
			queue = append(queue, queued{dep, cur.depth + 1})
		}
	}
	return 0, false
}

// IsDependentOn reports whether candidate is a dependency, direct or
// transitive, of t.
func (r *Registry) IsDependentOn(t, candidate *Topic) bool {
	_, ok := r.DependencyDepth(t, candidate)
	return ok
}

// Simplify removes from the set any member that is transitively implied by
// another member: if O depends on T, requiring O already requires T, so T
// goes. Each removal is reported. The scan is pairwise quadratic, which is
// fine at curriculum size, and idempotent.
func (r *Registry) Simplify(set Set, label string) {
	removed := make(Set)
	for _, t := range set.Sorted() {
		if removed.Has(t) {
			continue
		}
		for _, other := range set.Sorted() {
			if other.Name == t.Name {
				continue
			}
			if r.IsDependentOn(other, t) {
				r.reporter.Infof("ignoring topic '%s' in '%s' because it is a dependency of '%s', which is also in '%s'",
					t.Name, label, other.Name, label)
				removed.Add(t)
				break
			}
		}
	}
	for _, t := range removed.Sorted() {
		set.Remove(t)
	}
}

// CheckCycles verifies the dependency graph is acyclic. It returns a
// CyclicDependencyError naming a topic on the first cycle found.
//
// Classic depth-first search with three node states: permanently visited
// nodes are known safe, temporarily marked nodes are on the current
// traversal stack, everything else is unvisited.
func (r *Registry) CheckCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(t *Topic) error
	visit = func(t *Topic) error {
		if permanent[t.Name] {
			return nil
		}
		if temporary[t.Name] {
			return &CyclicDependencyError{Name: t.Name}
		}
		temporary[t.Name] = true
		for _, dep := range t.deps.Sorted() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(temporary, t.Name)
		permanent[t.Name] = true
		return nil
	}

	for _, t := range r.Topics() {
		if !permanent[t.Name] {
			if err := visit(t); err != nil {
				return err
			}
		}
	}
	return nil
}
