// Package history implements the bounded undo/redo log: a ring of steps
// plus a cursor, with inverse replay on undo and forward replay on redo.
//
// Modeled on hive/dirty.Tracker's pre-allocated, bounded slice of ranges
// and on hive/tx.Manager's PrimarySeq/SecondarySeq two-cursor pattern for
// detecting how far forward progress has gone, generalized here to an
// in-memory log of value tuples instead of on-disk byte ranges.
package history

import "github.com/flagkit/flagkit/pkg/flagtype"

// Change is one (key, old, new) tuple within a Step.
type Change struct {
	Key        string
	Old        flagtype.Value
	OldPresent bool
	New        flagtype.Value
	NewPresent bool
}

// Step is the full change set recorded for one mutation: an ordered list of
// Changes, including computed keys.
type Step struct {
	Changes []Change
}

// DefaultMaxHistory is the default bound on retained steps.
const DefaultMaxHistory = 100

// Log is a bounded double-ended sequence of steps plus a cursor. steps[:cursor]
// are the undo-able forward steps; steps[cursor:] are the redo-able steps,
// which the next forward progress (Append) truncates.
type Log struct {
	maxHistory int
	steps      []Step
	cursor     int // number of steps before the cursor (i.e. canUndo == cursor > 0)
}

// New returns a Log bounded to maxHistory steps. A maxHistory <= 0 uses
// DefaultMaxHistory.
func New(maxHistory int) *Log {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Log{maxHistory: maxHistory}
}

// Append records step as a new forward step, truncating any redo-able
// steps past the cursor first (forward progress invalidates redo, spec.md
// §4.F), then evicting the oldest step if the bound is exceeded.
func (l *Log) Append(step Step) {
	l.steps = l.steps[:l.cursor]
	l.steps = append(l.steps, step)
	l.cursor++
	if len(l.steps) > l.maxHistory {
		overflow := len(l.steps) - l.maxHistory
		l.steps = l.steps[overflow:]
		l.cursor -= overflow
	}
}

// CanUndo reports whether a step is available to undo.
func (l *Log) CanUndo() bool { return l.cursor > 0 }

// CanRedo reports whether a step is available to redo.
func (l *Log) CanRedo() bool { return l.cursor < len(l.steps) }

// Undo returns the step at the cursor and moves the cursor back. The
// caller is responsible for applying the step's inverse (new->old) and
// broadcasting; Undo itself only manages the cursor.
func (l *Log) Undo() (Step, bool) {
	if !l.CanUndo() {
		return Step{}, false
	}
	l.cursor--
	return l.steps[l.cursor], true
}

// Redo returns the step past the cursor and moves the cursor forward. The
// caller applies the step forward (old->new) and broadcasts.
func (l *Log) Redo() (Step, bool) {
	if !l.CanRedo() {
		return Step{}, false
	}
	step := l.steps[l.cursor]
	l.cursor++
	return step, true
}

// Clear discards both directions without touching registry state.
func (l *Log) Clear() {
	l.steps = nil
	l.cursor = 0
}

// Len returns the number of retained steps (both directions).
func (l *Log) Len() int { return len(l.steps) }
