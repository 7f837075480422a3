package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/internal/engine"
	"github.com/flagkit/flagkit/internal/notify"
	"github.com/flagkit/flagkit/internal/registry"
	"github.com/flagkit/flagkit/pkg/flagtype"
	"github.com/flagkit/flagkit/pkg/persist"
)

func newEngine(t *testing.T, cfg engine.Config) *engine.Engine {
	t.Helper()
	e, err := engine.New(cfg)
	require.NoError(t, err)
	return e
}

func defaultCfg() engine.Config {
	return engine.Config{HistoryOn: true, MaxHistory: 10}
}

func TestSetReadBack(t *testing.T) {
	e := newEngine(t, defaultCfg())
	require.NoError(t, e.Set("k", flagtype.Num(1)))
	v, ok := e.Get("k")
	require.True(t, ok)
	n, _ := v.AsNum()
	assert.Equal(t, float64(1), n)
}

func TestSetOnComputedIsReadOnly(t *testing.T) {
	e := newEngine(t, defaultCfg())
	require.NoError(t, e.Compute("c", nil, func([]registry.Arg) flagtype.Value { return flagtype.Num(1) }))

	err := e.Set("c", flagtype.Num(2))
	require.Error(t, err)
	fe, ok := err.(*flagtype.Error)
	require.True(t, ok)
	assert.Equal(t, flagtype.ErrKindReadOnlyComputed, fe.Kind)
}

func TestDedupeSuppressesNoopChange(t *testing.T) {
	e := newEngine(t, defaultCfg())
	require.NoError(t, e.Set("k", flagtype.Num(1)))

	var events int
	e.Subscribe(func(notify.Event) { events++ })

	require.NoError(t, e.Set("k", flagtype.Num(1)))
	assert.Equal(t, 0, events)

	require.NoError(t, e.Set("k", flagtype.Num(2)))
	assert.Equal(t, 1, events)
}

func TestBatchRollbackOnError(t *testing.T) {
	e := newEngine(t, defaultCfg())
	require.NoError(t, e.Set("a", flagtype.Num(1)))

	sentinel := flagtype.NewValidationError("b", "boom")
	err := e.Batch(func() error {
		_ = e.Set("a", flagtype.Num(99))
		_ = e.Set("b", flagtype.Num(2))
		return sentinel
	})
	require.Error(t, err)

	v, ok := e.Get("a")
	require.True(t, ok)
	n, _ := v.AsNum()
	assert.Equal(t, float64(1), n)
	assert.False(t, e.Has("b"))
}

func TestBatchRollbackOnPanic(t *testing.T) {
	e := newEngine(t, defaultCfg())
	require.NoError(t, e.Set("a", flagtype.Num(1)))

	assert.Panics(t, func() {
		_ = e.Batch(func() error {
			_ = e.Set("a", flagtype.Num(99))
			panic("boom")
		})
	})

	v, ok := e.Get("a")
	require.True(t, ok)
	n, _ := v.AsNum()
	assert.Equal(t, float64(1), n)
}

func TestBatchCannotNest(t *testing.T) {
	e := newEngine(t, defaultCfg())
	err := e.Batch(func() error {
		return e.Batch(func() error { return nil })
	})
	require.Error(t, err)
}

func TestComputeRejectsKeyConflict(t *testing.T) {
	e := newEngine(t, defaultCfg())
	require.NoError(t, e.Set("a", flagtype.Num(1)))

	err := e.Compute("a", nil, func([]registry.Arg) flagtype.Value { return flagtype.Num(2) })
	require.Error(t, err)
	fe, ok := err.(*flagtype.Error)
	require.True(t, ok)
	assert.Equal(t, flagtype.ErrKindKeyConflict, fe.Kind)
}

func TestUndoRedoAcrossHistory(t *testing.T) {
	e := newEngine(t, defaultCfg())
	require.NoError(t, e.Set("k", flagtype.Num(1)))
	require.NoError(t, e.Set("k", flagtype.Num(2)))

	undone, err := e.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	v, ok := e.Get("k")
	require.True(t, ok)
	n, _ := v.AsNum()
	assert.Equal(t, float64(1), n)

	redone, err := e.Redo()
	require.NoError(t, err)
	assert.True(t, redone)
	v, ok = e.Get("k")
	require.True(t, ok)
	n, _ = v.AsNum()
	assert.Equal(t, float64(2), n)
}

func TestHistoryDisabledUndoIsNoop(t *testing.T) {
	e := newEngine(t, engine.Config{})
	require.NoError(t, e.Set("k", flagtype.Num(1)))

	assert.False(t, e.CanUndo())
	undone, err := e.Undo()
	require.NoError(t, err)
	assert.False(t, undone)
}

func TestAutosaveWritesOnEveryPlainMutation(t *testing.T) {
	backend := persist.NewMemoryBackend()
	e := newEngine(t, engine.Config{
		Persist: &engine.PersistConfig{Backend: backend, Key: "s", AutoSave: true},
	})

	require.NoError(t, e.Set("k", flagtype.Num(1)))
	blob, ok, err := backend.Read("s")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, blob, "k\tn\t1")
}

func TestPersistedBlobMergesOverInitial(t *testing.T) {
	backend := persist.NewMemoryBackend()
	require.NoError(t, backend.Write("s", "k\tn\t5\n"))

	e := newEngine(t, engine.Config{
		Initial: map[string]flagtype.Value{"k": flagtype.Num(1), "other": flagtype.Num(9)},
		Persist: &engine.PersistConfig{Backend: backend, Key: "s", AutoSave: true},
	})

	v, ok := e.Get("k")
	require.True(t, ok)
	n, _ := v.AsNum()
	assert.Equal(t, float64(5), n)

	v, ok = e.Get("other")
	require.True(t, ok)
	n, _ = v.AsNum()
	assert.Equal(t, float64(9), n)
}

func TestReentrantSetFromSubscriberCommitsAsOwnStep(t *testing.T) {
	e := newEngine(t, defaultCfg())
	require.NoError(t, e.Set("a", flagtype.Num(0)))

	var fired bool
	e.SubscribeKey("a", func(ev notify.Event) {
		if fired {
			return
		}
		fired = true
		_ = e.Set("b", flagtype.Num(42))
	})

	require.NoError(t, e.Set("a", flagtype.Num(1)))

	v, ok := e.Get("b")
	require.True(t, ok)
	n, _ := v.AsNum()
	assert.Equal(t, float64(42), n)

	// "a"'s step is appended before its subscriber fires, so the reentrant
	// "b" mutation (triggered from within that subscriber) completes and
	// appends its own step second: undo unwinds "b" first, "a" second, as
	// two distinct history entries rather than one merged step.
	undone, err := e.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	assert.False(t, e.Has("b"))
	va, ok := e.Get("a")
	require.True(t, ok)
	na, _ := va.AsNum()
	assert.Equal(t, float64(1), na)

	undone, err = e.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	va, ok = e.Get("a")
	require.True(t, ok)
	na, _ = va.AsNum()
	assert.Equal(t, float64(0), na)
}
