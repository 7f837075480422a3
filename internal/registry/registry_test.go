package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flagkit/flagkit/internal/registry"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

func TestPlainComputedAreDisjoint(t *testing.T) {
	reg := registry.New()
	reg.SetPlain("a", flagtype.Num(1))
	reg.DefineComputed("b", nil, func([]registry.Arg) flagtype.Value { return flagtype.Num(2) })

	assert.True(t, reg.IsPlain("a"))
	assert.False(t, reg.IsComputed("a"))
	assert.True(t, reg.IsComputed("b"))
	assert.False(t, reg.IsPlain("b"))
	assert.ElementsMatch(t, []string{"a", "b"}, reg.Keys())
}

func TestSnapshotAndRestorePlain(t *testing.T) {
	reg := registry.New()
	reg.SetPlain("a", flagtype.Num(1))
	snap := reg.SnapshotPlain()

	reg.SetPlain("a", flagtype.Num(2))
	reg.SetPlain("b", flagtype.Num(3))

	reg.RestorePlain(snap)

	v, ok := reg.Get("a")
	assert.True(t, ok)
	n, _ := v.AsNum()
	assert.Equal(t, float64(1), n)
	assert.False(t, reg.Has("b"))
}

func TestAllOmitsAbsentComputed(t *testing.T) {
	reg := registry.New()
	reg.DefineComputed("c", nil, func([]registry.Arg) flagtype.Value { return flagtype.Value{} })

	all := reg.All()
	_, present := all["c"]
	assert.False(t, present)

	reg.SetComputedCache("c", flagtype.Num(5), true)
	all = reg.All()
	v, present := all["c"]
	assert.True(t, present)
	n, _ := v.AsNum()
	assert.Equal(t, float64(5), n)
}

func TestClearPlainLeavesComputedUntouched(t *testing.T) {
	reg := registry.New()
	reg.SetPlain("a", flagtype.Num(1))
	reg.DefineComputed("c", nil, func([]registry.Arg) flagtype.Value { return flagtype.Num(9) })
	reg.SetComputedCache("c", flagtype.Num(9), true)

	reg.ClearPlain()

	assert.False(t, reg.Has("a"))
	assert.True(t, reg.Has("c"))
}
