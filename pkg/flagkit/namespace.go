package flagkit

import (
	"strings"

	"github.com/flagkit/flagkit/pkg/condition"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

// Namespace is a thin prefixing facade over a root Store: every key
// argument is rewritten to "<prefix>.<key>" before reaching the root, every
// key returned to the caller (via Keys/All/subscriber events) has the
// prefix stripped, and condition expressions are recompiled with every
// bare identifier rewritten the same way before evaluation.
type Namespace struct {
	root   *Store
	prefix string // stored without trailing "."
}

func newNamespace(root *Store, prefix string) *Namespace {
	return &Namespace{root: root, prefix: prefix}
}

func (n *Namespace) scoped(key string) string { return n.prefix + "." + key }

func (n *Namespace) stripped(key string) (string, bool) {
	withDot := n.prefix + "."
	if !strings.HasPrefix(key, withDot) {
		return "", false
	}
	return key[len(withDot):], true
}

// Get returns key's current value within this namespace.
func (n *Namespace) Get(key string) (flagtype.Value, bool) { return n.root.Get(n.scoped(key)) }

// Has reports whether key holds any entry within this namespace.
func (n *Namespace) Has(key string) bool { return n.root.Has(n.scoped(key)) }

// Keys enumerates every key under this namespace's subtree, stripped of
// the prefix.
func (n *Namespace) Keys() []string {
	var out []string
	for _, k := range n.root.Keys() {
		if stripped, ok := n.stripped(k); ok {
			out = append(out, stripped)
		}
	}
	return out
}

// All returns a snapshot mapping of every present key under this
// namespace's subtree, stripped of the prefix.
func (n *Namespace) All() map[string]flagtype.Value {
	out := make(map[string]flagtype.Value)
	for k, v := range n.root.All() {
		if stripped, ok := n.stripped(k); ok {
			out[stripped] = v
		}
	}
	return out
}

// Set assigns v to key within this namespace, creating it if absent.
func (n *Namespace) Set(key string, v flagtype.Value) error { return n.root.Set(n.scoped(key), v) }

// Delete removes key's plain entry within this namespace.
func (n *Namespace) Delete(key string) error { return n.root.Delete(n.scoped(key)) }

// Toggle flips a boolean entry within this namespace.
func (n *Namespace) Toggle(key string) (bool, error) { return n.root.Toggle(n.scoped(key)) }

// Increment adds delta (default 1) to a numeric entry within this
// namespace.
func (n *Namespace) Increment(key string, delta ...float64) (float64, error) {
	return n.root.Increment(n.scoped(key), delta...)
}

// Decrement subtracts delta (default 1) from a numeric entry within this
// namespace.
func (n *Namespace) Decrement(key string, delta ...float64) (float64, error) {
	return n.root.Decrement(n.scoped(key), delta...)
}

// SetMany applies every pair within this namespace as a single change set.
func (n *Namespace) SetMany(values map[string]flagtype.Value) error {
	scoped := make(map[string]flagtype.Value, len(values))
	for k, v := range values {
		scoped[n.scoped(k)] = v
	}
	return n.root.SetMany(scoped)
}

// Clear removes every plain entry under this namespace's subtree only,
// implemented as a batch of per-key deletes since the root's Clear is a
// whole-registry operation.
func (n *Namespace) Clear() error {
	return n.root.Batch(func() error {
		for _, k := range n.Keys() {
			if err := n.root.Delete(n.scoped(k)); err != nil {
				if fe, ok := err.(*flagtype.Error); ok && fe.Kind == flagtype.ErrKindReadOnlyComputed {
					continue
				}
				return err
			}
		}
		return nil
	})
}

// Batch runs thunk with every inner mutation staged into one aggregate
// change set at the root.
func (n *Namespace) Batch(thunk func() error) error { return n.root.Batch(thunk) }

// Compute registers key as a computed entry within this namespace, deriving
// its value from deps (also namespace-relative).
func (n *Namespace) Compute(key string, deps []string, fn ComputeFunc) error {
	scopedDeps := make([]string, len(deps))
	for i, d := range deps {
		scopedDeps[i] = n.scoped(d)
	}
	return n.root.Compute(n.scoped(key), scopedDeps, fn)
}

// Check evaluates expr with every bare identifier rewritten to this
// namespace's prefix before delegating to the root.
func (n *Namespace) Check(expr string) (bool, error) {
	parsed, err := condition.Parse(expr)
	if err != nil {
		return false, err
	}
	rewritten := condition.RewriteIdents(parsed, n.scoped)
	return condition.Eval(rewritten, n.root.lookup()), nil
}

// Subscribe registers a global subscriber scoped to this namespace: it
// fires only for keys starting with "<prefix>.", with the key presented
// stripped of the prefix.
func (n *Namespace) Subscribe(cb Callback) Deregister {
	return n.root.Subscribe(func(ev Event) {
		if stripped, ok := n.stripped(ev.Key); ok {
			ev.Key = stripped
			cb(ev)
		}
	})
}

// SubscribeKey registers a subscriber scoped to key within this namespace.
func (n *Namespace) SubscribeKey(key string, cb Callback) Deregister {
	scoped := n.scoped(key)
	return n.root.SubscribeKey(scoped, func(ev Event) {
		ev.Key = key
		cb(ev)
	})
}

// CanUndo, CanRedo, Undo, Redo, and ClearHistory delegate straight to the
// root store: undo/redo history is a whole-store concept, not scoped per
// namespace (spec.md never defines a namespace-scoped history).

// CanUndo reports whether the root store has a step available to undo.
func (n *Namespace) CanUndo() bool { return n.root.CanUndo() }

// CanRedo reports whether the root store has a step available to redo.
func (n *Namespace) CanRedo() bool { return n.root.CanRedo() }

// Undo reverses the root store's most recently applied step.
func (n *Namespace) Undo() (bool, error) { return n.root.Undo() }

// Redo reapplies the root store's most recently undone step.
func (n *Namespace) Redo() (bool, error) { return n.root.Redo() }

// ClearHistory discards the root store's recorded steps.
func (n *Namespace) ClearHistory() { n.root.ClearHistory() }

// Namespace returns a nested namespace facade scoped to
// "<this prefix>.<prefix>".
func (n *Namespace) Namespace(prefix string) *Namespace {
	return newNamespace(n.root, n.scoped(prefix))
}
