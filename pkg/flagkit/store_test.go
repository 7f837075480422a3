package flagkit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/flagkit"
	"github.com/flagkit/flagkit/pkg/flagtype"
	"github.com/flagkit/flagkit/pkg/persist"
)

func mustNewStore(t *testing.T, cfg flagkit.Config) *flagkit.Store {
	t.Helper()
	s, err := flagkit.New(cfg)
	require.NoError(t, err)
	return s
}

func numOf(t *testing.T, v flagtype.Value, ok bool) float64 {
	t.Helper()
	require.True(t, ok)
	n, isNum := v.AsNum()
	require.True(t, isNum)
	return n
}

// TestComputedChainBasic covers spec.md §8 scenario 1.
func TestComputedChainBasic(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())
	require.NoError(t, s.Set("a", flagtype.Num(2)))
	require.NoError(t, s.Set("b", flagtype.Num(3)))

	sum := func(args []flagkit.Arg) flagtype.Value {
		x, _ := args[0].Value.AsNum()
		y, _ := args[1].Value.AsNum()
		return flagtype.Num(x + y)
	}
	require.NoError(t, s.Compute("sum", []string{"a", "b"}, sum))
	twice := func(args []flagkit.Arg) flagtype.Value {
		v, _ := args[0].Value.AsNum()
		return flagtype.Num(v * 2)
	}
	require.NoError(t, s.Compute("twice", []string{"sum"}, twice))

	v, ok := s.Get("sum")
	assert.Equal(t, float64(5), numOf(t, v, ok))
	v, ok = s.Get("twice")
	assert.Equal(t, float64(10), numOf(t, v, ok))

	var events []string
	s.Subscribe(func(ev flagkit.Event) { events = append(events, ev.Key) })

	require.NoError(t, s.Set("a", flagtype.Num(10)))

	v, ok = s.Get("sum")
	assert.Equal(t, float64(13), numOf(t, v, ok))
	v, ok = s.Get("twice")
	assert.Equal(t, float64(26), numOf(t, v, ok))
	assert.Equal(t, []string{"a", "sum", "twice"}, events)
}

// TestBatchSingleStep covers spec.md §8 scenario 2.
func TestBatchSingleStep(t *testing.T) {
	cfg := flagkit.DefaultConfig()
	s := mustNewStore(t, cfg)

	var batchEvents int
	var perKeyEvents []string
	s.Subscribe(func(ev flagkit.Event) {
		if ev.Key == "__batch__" {
			batchEvents++
		}
	})
	s.SubscribeKey("x", func(ev flagkit.Event) { perKeyEvents = append(perKeyEvents, ev.Key) })
	s.SubscribeKey("y", func(ev flagkit.Event) { perKeyEvents = append(perKeyEvents, ev.Key) })
	s.SubscribeKey("z", func(ev flagkit.Event) { perKeyEvents = append(perKeyEvents, ev.Key) })

	err := s.Batch(func() error {
		_ = s.Set("x", flagtype.Num(1))
		_ = s.Set("y", flagtype.Num(2))
		_ = s.Set("z", flagtype.Num(3))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, batchEvents)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, perKeyEvents)

	undone, err := s.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	assert.False(t, s.Has("x"))
	assert.False(t, s.Has("y"))
	assert.False(t, s.Has("z"))
}

// TestCycleRejection covers spec.md §8 scenario 3.
func TestCycleRejection(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())
	id := func(args []flagkit.Arg) flagtype.Value {
		if len(args) == 0 || !args[0].Present {
			return flagtype.Num(0)
		}
		return args[0].Value
	}
	require.NoError(t, s.Compute("a", []string{"b"}, id))
	err := s.Compute("b", []string{"a"}, id)
	require.Error(t, err)
	fe, ok := err.(*flagtype.Error)
	require.True(t, ok)
	assert.Equal(t, flagtype.ErrKindCircularDependency, fe.Kind)
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("b"))
}

// TestComputeFailureContainment covers spec.md §8 scenario 4.
func TestComputeFailureContainment(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())
	require.NoError(t, s.Set("x", flagtype.Num(10)))

	require.NoError(t, s.Compute("r", []string{"x"}, func(args []flagkit.Arg) flagtype.Value {
		x, _ := args[0].Value.AsNum()
		if x == 0 {
			panic("division by zero")
		}
		return flagtype.Num(100 / x)
	}))

	v, ok := s.Get("r")
	assert.Equal(t, float64(10), numOf(t, v, ok))

	var rEvents int
	s.SubscribeKey("r", func(ev flagkit.Event) { rEvents++ })

	require.NoError(t, s.Set("x", flagtype.Num(0)))
	v, ok = s.Get("r")
	assert.Equal(t, float64(10), numOf(t, v, ok))
	assert.Equal(t, 0, rEvents)

	require.NoError(t, s.Set("x", flagtype.Num(5)))
	v, ok = s.Get("r")
	assert.Equal(t, float64(20), numOf(t, v, ok))
	assert.Equal(t, 1, rEvents)
}

// TestRedoInvalidation covers spec.md §8 scenario 5.
func TestRedoInvalidation(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())
	require.NoError(t, s.Set("c", flagtype.Num(1)))
	require.NoError(t, s.Set("c", flagtype.Num(2)))
	_, err := s.Undo()
	require.NoError(t, err)
	require.NoError(t, s.Set("c", flagtype.Num(3)))

	assert.False(t, s.CanRedo())

	v, ok := s.Get("c")
	assert.Equal(t, float64(3), numOf(t, v, ok))

	undone, err := s.Undo()
	require.NoError(t, err)
	require.True(t, undone)
	v, ok = s.Get("c")
	assert.Equal(t, float64(1), numOf(t, v, ok))

	undone, err = s.Undo()
	require.NoError(t, err)
	require.True(t, undone)
	assert.False(t, s.Has("c"))

	assert.False(t, s.CanUndo())
}

// TestReentrantMutation covers spec.md §8 scenario 6.
func TestReentrantMutation(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())
	require.NoError(t, s.Set("a", flagtype.Num(0)))

	var reentered bool
	s.SubscribeKey("a", func(ev flagkit.Event) {
		if reentered {
			return
		}
		reentered = true
		v, _ := s.Get("a")
		_ = s.Set("b", v)
	})

	require.NoError(t, s.Set("a", flagtype.Num(5)))

	av, ok := s.Get("a")
	assert.Equal(t, float64(5), numOf(t, av, ok))
	bv, ok := s.Get("b")
	assert.Equal(t, float64(5), numOf(t, bv, ok))
}

func TestToggleIncrementDecrement(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())

	on, err := s.Toggle("feature")
	require.NoError(t, err)
	assert.True(t, on)
	off, err := s.Toggle("feature")
	require.NoError(t, err)
	assert.False(t, off)

	n, err := s.Increment("count")
	require.NoError(t, err)
	assert.Equal(t, float64(1), n)
	n, err = s.Increment("count", 4)
	require.NoError(t, err)
	assert.Equal(t, float64(5), n)
	n, err = s.Decrement("count", 2)
	require.NoError(t, err)
	assert.Equal(t, float64(3), n)

	_, err = s.Toggle("count")
	require.Error(t, err)
	fe, ok := err.(*flagtype.Error)
	require.True(t, ok)
	assert.Equal(t, flagtype.ErrKindTypeMismatch, fe.Kind)
}

func TestSetOnComputedFails(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())
	require.NoError(t, s.Compute("r", nil, func(args []flagkit.Arg) flagtype.Value { return flagtype.Num(1) }))

	err := s.Set("r", flagtype.Num(2))
	require.Error(t, err)
	fe, ok := err.(*flagtype.Error)
	require.True(t, ok)
	assert.Equal(t, flagtype.ErrKindReadOnlyComputed, fe.Kind)
}

func TestClearPreservesComputed(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())
	require.NoError(t, s.Set("x", flagtype.Num(4)))
	require.NoError(t, s.Compute("doubled", []string{"x"}, func(args []flagkit.Arg) flagtype.Value {
		v := flagtype.Coalesce(args[0].Value, args[0].Present, flagtype.Num(0))
		n, _ := v.AsNum()
		return flagtype.Num(n * 2)
	}))

	require.NoError(t, s.Clear())

	assert.False(t, s.Has("x"))
	assert.True(t, s.Has("doubled"))
	v, ok := s.Get("doubled")
	assert.Equal(t, float64(0), numOf(t, v, ok))
}

func TestCheckCondition(t *testing.T) {
	s := mustNewStore(t, flagkit.DefaultConfig())
	require.NoError(t, s.Set("enabled", flagtype.Bool(true)))
	require.NoError(t, s.Set("count", flagtype.Num(3)))

	ok, err := s.Check("enabled AND count > 2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Check("NOT enabled OR count < 2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNamespaceScoping(t *testing.T) {
	root := mustNewStore(t, flagkit.DefaultConfig())
	ns := root.Namespace("feature")

	require.NoError(t, ns.Set("on", flagtype.Bool(true)))
	v, ok := root.Get("feature.on")
	require.True(t, ok)
	b, _ := v.AsBool()
	assert.True(t, b)

	v, ok = ns.Get("on")
	require.True(t, ok)
	b, _ = v.AsBool()
	assert.True(t, b)

	require.NoError(t, root.Set("other.key", flagtype.Num(1)))
	assert.ElementsMatch(t, []string{"on"}, ns.Keys())

	var seen string
	ns.SubscribeKey("on", func(ev flagkit.Event) { seen = ev.Key })
	require.NoError(t, ns.Set("on", flagtype.Bool(false)))
	assert.Equal(t, "on", seen)

	result, err := ns.Check("on")
	require.NoError(t, err)
	assert.False(t, result)
}

func TestPersistenceAutosave(t *testing.T) {
	backend := persist.NewMemoryBackend()
	s := mustNewStore(t, flagkit.Config{
		Persist: &flagkit.PersistConfig{Backend: backend, Key: "flags", AutoSave: true},
	})

	require.NoError(t, s.Set("a", flagtype.Num(1)))
	require.NoError(t, s.Set("b", flagtype.Str("x")))

	blob, ok, err := backend.Read("flags")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, blob, "a\tn\t1")
	assert.Contains(t, blob, "b\ts\tx")

	reopened := mustNewStore(t, flagkit.Config{
		Persist: &flagkit.PersistConfig{Backend: backend, Key: "flags", AutoSave: true},
	})
	v, ok := reopened.Get("a")
	assert.Equal(t, float64(1), numOf(t, v, ok))
}
