package engine

import (
	"github.com/flagkit/flagkit/internal/history"
	"github.com/flagkit/flagkit/internal/notify"
	"github.com/flagkit/flagkit/internal/persist"
)

// CanUndo reports whether a step is available to undo. Always false when
// history is disabled.
func (e *Engine) CanUndo() bool {
	return e.hist != nil && e.hist.CanUndo()
}

// CanRedo reports whether a step is available to redo. Always false when
// history is disabled.
func (e *Engine) CanRedo() bool {
	return e.hist != nil && e.hist.CanRedo()
}

// Undo reverses the most recently applied step, restoring every key it
// touched to its old value directly (no recomputation) and broadcasting one
// event per restored key through the ordinary per-key-then-global pipeline.
// Reports false if history is disabled or nothing is left to undo.
func (e *Engine) Undo() (bool, error) {
	if e.hist == nil {
		return false, nil
	}
	step, ok := e.hist.Undo()
	if !ok {
		return false, nil
	}
	return true, e.applyHistoryStep(step, true)
}

// Redo reapplies the most recently undone step. Reports false if history is
// disabled or nothing is left to redo.
func (e *Engine) Redo() (bool, error) {
	if e.hist == nil {
		return false, nil
	}
	step, ok := e.hist.Redo()
	if !ok {
		return false, nil
	}
	return true, e.applyHistoryStep(step, false)
}

// ClearHistory discards every recorded step without touching current values.
// Unlike Undo/Redo this never triggers autosave: plain state is unchanged.
func (e *Engine) ClearHistory() {
	if e.hist != nil {
		e.hist.Clear()
	}
}

// applyHistoryStep restores every change in step directly into the registry
// (old values when undoing, new values when redoing), dispatches the
// resulting events, and autosaves if any restored key is plain-backed.
func (e *Engine) applyHistoryStep(step history.Step, undo bool) error {
	events := make([]notify.Event, len(step.Changes))
	plainChanged := false
	for i, ch := range step.Changes {
		var targetVal = ch.New
		var targetPresent = ch.NewPresent
		if undo {
			targetVal, targetPresent = ch.Old, ch.OldPresent
		}

		if e.reg.IsComputed(ch.Key) {
			e.reg.SetComputedCache(ch.Key, targetVal, targetPresent)
		} else {
			if targetPresent {
				e.reg.SetPlain(ch.Key, targetVal)
			} else {
				e.reg.DeletePlain(ch.Key)
			}
			plainChanged = true
		}

		if undo {
			events[i] = notify.Event{Key: ch.Key, Old: ch.New, OldPresent: ch.NewPresent, New: ch.Old, NewPresent: ch.OldPresent}
		} else {
			events[i] = notify.Event{Key: ch.Key, Old: ch.Old, OldPresent: ch.OldPresent, New: ch.New, NewPresent: ch.NewPresent}
		}
	}

	e.pipeline.Dispatch(events)

	if plainChanged && e.autoSave && e.persist != nil {
		blob := persist.Encode(e.reg.All())
		return e.persist.Write(e.persistKey, blob)
	}
	return nil
}
