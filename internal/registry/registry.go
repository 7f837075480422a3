// Package registry holds the key->value mapping and the set of computed
// definitions that together form a flag store's source of truth. It is
// owned exclusively by internal/engine; callers never mutate it directly.
package registry

import (
	"sort"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

// Computed is a registered computed entry: an ordered dependency list, the
// pure function deriving its value, and the cached result of the last
// successful evaluation.
type Computed struct {
	Deps    []string
	Fn      func(args []Arg) flagtype.Value
	Cache   flagtype.Value
	Present bool // false if every evaluation so far has failed (Absent)
}

// Arg is a positional argument passed to a computed function: a dependency's
// current value, or Absent.
type Arg struct {
	Value   flagtype.Value
	Present bool
}

// Registry is the mapping key->entry, split into plain and computed stores
// so invariant 1 ("a key is either plain or computed, never both") can be
// checked against the other store before a write. The writers here do not
// check it themselves; the engine checks before calling them.
type Registry struct {
	plain    map[string]flagtype.Value
	computed map[string]*Computed
	// regOrder records computed-key registration order, used as the stable
	// tiebreak for topological recomputation ordering.
	regOrder []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		plain:    make(map[string]flagtype.Value),
		computed: make(map[string]*Computed),
	}
}

// Get returns the current value of key (plain or computed cache) and
// whether it is present.
func (r *Registry) Get(key string) (flagtype.Value, bool) {
	if c, ok := r.computed[key]; ok {
		return c.Cache, c.Present
	}
	v, ok := r.plain[key]
	return v, ok
}

// Has reports whether key holds any entry, plain or computed.
func (r *Registry) Has(key string) bool {
	if _, ok := r.computed[key]; ok {
		return true
	}
	_, ok := r.plain[key]
	return ok
}

// IsPlain reports whether key is held by a plain entry.
func (r *Registry) IsPlain(key string) bool {
	_, ok := r.plain[key]
	return ok
}

// IsComputed reports whether key is held by a computed entry.
func (r *Registry) IsComputed(key string) bool {
	_, ok := r.computed[key]
	return ok
}

// Keys enumerates plain and computed keys together, sorted for deterministic
// iteration.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.plain)+len(r.computed))
	for k := range r.plain {
		keys = append(keys, k)
	}
	for k := range r.computed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a snapshot mapping of every present key (plain plus computed
// values that are not Absent).
func (r *Registry) All() map[string]flagtype.Value {
	out := make(map[string]flagtype.Value, len(r.plain)+len(r.computed))
	for k, v := range r.plain {
		out[k] = v
	}
	for k, c := range r.computed {
		if c.Present {
			out[k] = c.Cache
		}
	}
	return out
}

// SetPlain writes v to key's plain entry. Callers (the engine) must ensure
// key is not already computed; SetPlain does not re-check invariant 1.
func (r *Registry) SetPlain(key string, v flagtype.Value) {
	r.plain[key] = v
}

// DeletePlain removes key's plain entry, if any.
func (r *Registry) DeletePlain(key string) {
	delete(r.plain, key)
}

// ClearPlain removes every plain entry, leaving computed definitions
// untouched.
func (r *Registry) ClearPlain() {
	r.plain = make(map[string]flagtype.Value)
}

// DefineComputed registers a new computed entry. Callers must ensure key is
// not already plain or computed.
func (r *Registry) DefineComputed(key string, deps []string, fn func(args []Arg) flagtype.Value) {
	r.computed[key] = &Computed{Deps: append([]string(nil), deps...), Fn: fn}
	r.regOrder = append(r.regOrder, key)
}

// ComputedEntry returns the computed entry for key, if any.
func (r *Registry) ComputedEntry(key string) (*Computed, bool) {
	c, ok := r.computed[key]
	return c, ok
}

// ComputedKeys returns every computed key in registration order.
func (r *Registry) ComputedKeys() []string {
	return append([]string(nil), r.regOrder...)
}

// SetComputedCache overwrites key's cached computed value. Used by the
// engine after a successful recomputation and by history undo/redo (which
// restores cached values from a step instead of recomputing them).
func (r *Registry) SetComputedCache(key string, v flagtype.Value, present bool) {
	if c, ok := r.computed[key]; ok {
		c.Cache = v
		c.Present = present
	}
}

// SnapshotPlain returns a copy of the plain entries, used by the engine to
// roll back a failed batch.
func (r *Registry) SnapshotPlain() map[string]flagtype.Value {
	out := make(map[string]flagtype.Value, len(r.plain))
	for k, v := range r.plain {
		out[k] = v
	}
	return out
}

// RestorePlain replaces the plain entries wholesale, used to roll back a
// failed batch to its pre-batch snapshot.
func (r *Registry) RestorePlain(snapshot map[string]flagtype.Value) {
	r.plain = snapshot
}
