package engine

import (
	"github.com/flagkit/flagkit/internal/history"
	"github.com/flagkit/flagkit/internal/notify"
	"github.com/flagkit/flagkit/internal/persist"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

// commit runs phases 3-6 of the mutation pipeline (spec.md §4.C) over an
// already-staged set of direct (plain) changes: propagate to the computed
// graph, append a history step, broadcast, and autosave.
//
// syntheticKey, when non-empty, switches broadcast from the ordinary
// per-key-then-global-per-key ordering to the batch/setMany delivery mode:
// per-key subscribers still fire for every real change, but the global list
// fires exactly once, for the synthetic key, instead of once per changed
// key. noPerKey additionally suppresses per-key delivery entirely, for
// clear's all-keys-at-once semantics.
func (e *Engine) commit(direct []change, syntheticKey string, noPerKey bool) error {
	effective := dedupe(direct)
	for _, ch := range effective {
		e.applyPlainWrite(ch)
	}
	plainChanged := len(effective) > 0
	return e.propagateAndDispatch(effective, plainChanged, syntheticKey, noPerKey)
}

// propagateAndDispatch runs phases 3-6 (computed propagation, history,
// broadcast, autosave) over a direct change set whose plain-store writes (if
// any) have already been applied. Compute uses this directly, since defining
// a computed key never touches the plain store via applyPlainWrite.
func (e *Engine) propagateAndDispatch(effective []change, plainChanged bool, syntheticKey string, noPerKey bool) error {
	for _, key := range e.graph.Affected(changedKeys(effective)) {
		c, ok := e.reg.ComputedEntry(key)
		if !ok {
			continue
		}
		oldVal, oldPresent := c.Cache, c.Present
		newVal, ok := e.graph.Evaluate(key)
		if !ok {
			// Compute function failed: cached value retained, no change
			// recorded, no diagnostic emitted (spec.md §4.E).
			continue
		}
		if oldPresent && flagtype.Equal(oldVal, newVal) {
			continue
		}
		e.reg.SetComputedCache(key, newVal, true)
		effective = append(effective, change{
			key: key, old: oldVal, oldPresent: oldPresent,
			new: newVal, newPresent: true,
		})
	}

	if len(effective) == 0 {
		return nil
	}

	if e.hist != nil {
		e.hist.Append(history.Step{Changes: toHistoryChanges(effective)})
	}

	events := toEvents(effective)
	if syntheticKey == "" {
		e.pipeline.Dispatch(events)
	} else {
		if !noPerKey {
			e.pipeline.DispatchPerKeyOnly(events)
		}
		e.pipeline.DispatchGlobalSynthetic(syntheticKey)
	}

	if plainChanged && e.autoSave && e.persist != nil {
		blob := persist.Encode(e.reg.All())
		if err := e.persist.Write(e.persistKey, blob); err != nil {
			return err
		}
	}
	return nil
}

// dedupe drops changes whose old and new values are identical (invariant:
// every emitted event has new != old).
func dedupe(changes []change) []change {
	out := make([]change, 0, len(changes))
	for _, ch := range changes {
		if ch.oldPresent == ch.newPresent && (!ch.oldPresent || flagtype.Equal(ch.old, ch.new)) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func changedKeys(changes []change) []string {
	keys := make([]string, len(changes))
	for i, ch := range changes {
		keys[i] = ch.key
	}
	return keys
}

func toEvents(changes []change) []notify.Event {
	events := make([]notify.Event, len(changes))
	for i, ch := range changes {
		events[i] = notify.Event{
			Key: ch.key, Old: ch.old, OldPresent: ch.oldPresent,
			New: ch.new, NewPresent: ch.newPresent,
		}
	}
	return events
}

func toHistoryChanges(changes []change) []history.Change {
	out := make([]history.Change, len(changes))
	for i, ch := range changes {
		out[i] = history.Change{
			Key: ch.key, Old: ch.old, OldPresent: ch.oldPresent,
			New: ch.new, NewPresent: ch.newPresent,
		}
	}
	return out
}
