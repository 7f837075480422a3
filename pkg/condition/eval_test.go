package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/condition"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

func lookupFrom(values map[string]flagtype.Value) condition.Lookup {
	return func(name string) (flagtype.Value, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		values map[string]flagtype.Value
		want   bool
	}{
		{"bare truthy identifier", "enabled", map[string]flagtype.Value{"enabled": flagtype.Bool(true)}, true},
		{"bare falsy identifier", "enabled", map[string]flagtype.Value{"enabled": flagtype.Bool(false)}, false},
		{"absent identifier is falsy", "missing", nil, false},
		{"numeric comparison", "count > 5", map[string]flagtype.Value{"count": flagtype.Num(10)}, true},
		{"numeric comparison false", "count > 5", map[string]flagtype.Value{"count": flagtype.Num(1)}, false},
		{"absent treated as zero in comparison", "count == 0", nil, true},
		{"string equality", "name == 'bob'", map[string]flagtype.Value{"name": flagtype.Str("bob")}, true},
		{"string inequality", "name != \"bob\"", map[string]flagtype.Value{"name": flagtype.Str("alice")}, true},
		{"string ordering undefined, false", "name > 'a'", map[string]flagtype.Value{"name": flagtype.Str("b")}, false},
		{"type mismatch is false", "name == 1", map[string]flagtype.Value{"name": flagtype.Str("1")}, false},
		{"and", "a AND b", map[string]flagtype.Value{"a": flagtype.Bool(true), "b": flagtype.Bool(true)}, true},
		{"or", "a or b", map[string]flagtype.Value{"a": flagtype.Bool(false), "b": flagtype.Bool(true)}, true},
		{"not keyword case insensitive", "Not a", map[string]flagtype.Value{"a": flagtype.Bool(false)}, true},
		{"not alias bang", "!a", map[string]flagtype.Value{"a": flagtype.Bool(true)}, false},
		{"precedence not over and over or", "a OR b AND NOT c",
			map[string]flagtype.Value{"a": flagtype.Bool(false), "b": flagtype.Bool(true), "c": flagtype.Bool(true)}, false},
		{"parens override precedence", "(a OR b) AND NOT c",
			map[string]flagtype.Value{"a": flagtype.Bool(false), "b": flagtype.Bool(true), "c": flagtype.Bool(true)}, false},
		{"parens flip outcome", "(a OR b) AND c",
			map[string]flagtype.Value{"a": flagtype.Bool(false), "b": flagtype.Bool(true), "c": flagtype.Bool(true)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := condition.Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, condition.Eval(expr, lookupFrom(tt.values)))
		})
	}
}

func TestParseError(t *testing.T) {
	_, err := condition.Parse("a AND")
	require.Error(t, err)
	var fe *flagtype.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, flagtype.ErrKindParse, fe.Kind)
}

func TestRewriteIdents(t *testing.T) {
	expr, err := condition.Parse("enabled AND count > 0")
	require.NoError(t, err)

	rewritten := condition.RewriteIdents(expr, func(name string) string { return "ns." + name })
	got := condition.Eval(rewritten, lookupFrom(map[string]flagtype.Value{
		"ns.enabled": flagtype.Bool(true),
		"ns.count":   flagtype.Num(1),
	}))
	assert.True(t, got)
}
