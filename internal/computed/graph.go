// Package computed implements the dependency graph over computed registry
// entries: cycle detection at registration time, a reverse-dependents index
// for propagation, and a stable topological recomputation order.
//
// Dependents are indexed by key, not by pointer — an arena-like map keyed
// on strings is enough; no cyclic object graph is needed even though the
// domain speaks of a "graph" (design note, spec.md §9).
package computed

import (
	"github.com/flagkit/flagkit/internal/registry"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

// Graph tracks, for every computed key, its declared dependencies and the
// reverse edge (who depends on me) needed to find affected keys quickly
// after a mutation.
type Graph struct {
	reg *registry.Registry
	// dependents[k] = computed keys that declare k as a dependency.
	dependents map[string][]string
}

// New returns a Graph bound to reg. The graph has no state of its own
// beyond the reverse index; dependency lists live in reg.
func New(reg *registry.Registry) *Graph {
	return &Graph{reg: reg, dependents: make(map[string][]string)}
}

// CheckCycle reports a CircularDependency error if registering key with
// deps would introduce a cycle among computed keys, including the
// self-loop case (key appearing in its own deps). Cycle detection runs
// before any state change, per spec.md §4.E.
func (g *Graph) CheckCycle(key string, deps []string) error {
	// Build the prospective adjacency (computed key -> its computed deps),
	// as if key/deps were already registered.
	adj := make(map[string][]string)
	for _, k := range g.reg.ComputedKeys() {
		if c, ok := g.reg.ComputedEntry(k); ok {
			adj[k] = c.Deps
		}
	}
	adj[key] = deps

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var path []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		if color[node] == black {
			return false
		}
		if color[node] == gray {
			// Found a cycle; capture it for the error message.
			start := 0
			for i, n := range path {
				if n == node {
					start = i
					break
				}
			}
			cycle = append(append([]string(nil), path[start:]...), node)
			return true
		}
		color[node] = gray
		path = append(path, node)
		for _, dep := range adj[node] {
			// Only computed->computed edges participate in cycles; a
			// dependency that is itself not computed is a graph leaf.
			if _, isComputed := adj[dep]; isComputed {
				if visit(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[node] = black
		return false
	}

	if visit(key) {
		return flagtype.NewCircularDependency(key, cycle)
	}
	return nil
}

// Register records key's dependency edges in the reverse index. Call only
// after CheckCycle has passed.
func (g *Graph) Register(key string, deps []string) {
	for _, dep := range deps {
		g.dependents[dep] = append(g.dependents[dep], key)
	}
}

// Affected returns the computed keys whose transitive dependency set
// intersects changedKeys, in a stable topological order (dependencies
// before dependents; registration order breaks ties).
func (g *Graph) Affected(changedKeys []string) []string {
	candidate := make(map[string]bool)
	queue := append([]string(nil), changedKeys...)
	seen := make(map[string]bool)
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		for _, dependent := range g.dependents[k] {
			if !candidate[dependent] {
				candidate[dependent] = true
			}
			if !seen[dependent] {
				seen[dependent] = true
				queue = append(queue, dependent)
			}
		}
	}
	if len(candidate) == 0 {
		return nil
	}

	// Stable topological sort over just the candidate subgraph, using
	// registration order as the traversal order (and therefore the
	// tiebreak among otherwise-unordered siblings).
	visited := make(map[string]bool)
	var order []string
	var visit func(k string)
	visit = func(k string) {
		if visited[k] || !candidate[k] {
			return
		}
		visited[k] = true
		if c, ok := g.reg.ComputedEntry(k); ok {
			for _, dep := range c.Deps {
				if candidate[dep] {
					visit(dep)
				}
			}
		}
		order = append(order, k)
	}
	for _, k := range g.reg.ComputedKeys() {
		visit(k)
	}
	return order
}

// Evaluate runs a computed key's function, sourcing each positional
// argument from reg (Absent when a dependency is not present). It returns
// the resulting value and whether evaluation succeeded; a panicking
// function is contained here and reported as a failed evaluation, per the
// failure-containment rule of spec.md §4.C/§4.E.
func (g *Graph) Evaluate(key string) (value flagtype.Value, ok bool) {
	c, exists := g.reg.ComputedEntry(key)
	if !exists {
		return flagtype.Value{}, false
	}
	args := make([]registry.Arg, len(c.Deps))
	for i, dep := range c.Deps {
		v, present := g.reg.Get(dep)
		args[i] = registry.Arg{Value: v, Present: present}
	}

	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return c.Fn(args), true
}
