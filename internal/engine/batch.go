package engine

import (
	"sort"

	"github.com/flagkit/flagkit/internal/registry"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

// SetMany applies every (key, value) pair as a single change set: one
// history step, per-key notifications for each changed key, and exactly one
// synthetic __setMany__ global event in place of the usual one-global-event-
// per-key broadcast. Entries are validated before any write; an invalid
// entry aborts the whole call with nothing applied.
func (e *Engine) SetMany(values map[string]flagtype.Value) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	direct := make([]change, 0, len(keys))
	for _, k := range keys {
		if err := flagtype.ValidateKey(k); err != nil {
			return err
		}
		if e.reg.IsComputed(k) {
			return flagtype.NewReadOnlyComputed(k)
		}
		old, oldPresent := e.reg.Get(k)
		direct = append(direct, change{key: k, old: old, oldPresent: oldPresent, new: values[k], newPresent: true})
	}
	return e.commit(direct, flagtype.EventSetMany, false)
}

// Clear removes every plain entry. No per-key notifications are delivered;
// subscribers only see the single synthetic __clear__ global event. Computed
// entries are recomputed against the now-empty plain space, since their
// dependencies may have just disappeared.
func (e *Engine) Clear() error {
	snapshot := e.reg.SnapshotPlain()
	direct := make([]change, 0, len(snapshot))
	for k, v := range snapshot {
		direct = append(direct, change{key: k, old: v, oldPresent: true, newPresent: false})
	}
	return e.commit(direct, flagtype.EventClear, true)
}

// Batch runs thunk with every Set/Delete/Toggle/Increment/Decrement call
// staged into a single aggregate change set instead of committed
// individually: reads inside thunk see prior writes from the same batch, but
// the computed graph, history log, and subscribers only see one combined
// step once thunk returns successfully. If thunk returns a non-nil error (or
// panics), every plain-store write made during the batch is rolled back and
// nothing is recorded or broadcast.
func (e *Engine) Batch(thunk func() error) (err error) {
	if e.batching {
		return flagtype.NewValidationError("", "batch calls cannot nest")
	}

	snapshot := e.reg.SnapshotPlain()
	e.batching = true
	e.batchAgg = make(map[string]*change)
	e.batchKeys = nil

	defer func() {
		if r := recover(); r != nil {
			e.reg.RestorePlain(snapshot)
			e.batching = false
			e.batchAgg = nil
			e.batchKeys = nil
			panic(r)
		}
	}()

	if thunkErr := thunk(); thunkErr != nil {
		e.reg.RestorePlain(snapshot)
		e.batching = false
		e.batchAgg = nil
		e.batchKeys = nil
		return thunkErr
	}

	direct := make([]change, 0, len(e.batchKeys))
	for _, k := range e.batchKeys {
		direct = append(direct, *e.batchAgg[k])
	}
	e.batching = false
	e.batchAgg = nil
	e.batchKeys = nil

	// batching is already false here, so any mutation a subscriber makes
	// during the broadcast below is committed on its own, never folded
	// back into this batch.
	return e.commit(direct, flagtype.EventBatch, false)
}

// Compute registers key as a computed entry deriving its value from deps via
// fn. Fails with KeyConflict if key already holds a plain or computed entry,
// or with CircularDependency if deps would introduce a cycle. fn is
// evaluated once immediately; if it succeeds, the resulting value is
// recorded as a change from Absent (triggering history and broadcast like
// any other mutation) and downstream computed keys are recomputed in turn.
// If fn fails on this first evaluation, key is registered present-less,
// exactly as if a later recomputation had failed.
func (e *Engine) Compute(key string, deps []string, fn func(args []registry.Arg) flagtype.Value) error {
	if err := flagtype.ValidateKey(key); err != nil {
		return err
	}
	if e.reg.Has(key) {
		return flagtype.NewKeyConflict(key)
	}
	if err := e.graph.CheckCycle(key, deps); err != nil {
		return err
	}

	e.reg.DefineComputed(key, deps, fn)
	e.graph.Register(key, deps)

	val, ok := e.graph.Evaluate(key)
	if !ok {
		return nil
	}
	e.reg.SetComputedCache(key, val, true)

	effective := []change{{key: key, oldPresent: false, new: val, newPresent: true}}
	return e.propagateAndDispatch(effective, false, "", false)
}
