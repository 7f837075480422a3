package condition

import "github.com/flagkit/flagkit/pkg/flagtype"

// Lookup resolves an identifier to its current value. It mirrors a flag
// store's Get: the second return reports presence, with Absent flags
// surfaced as (zero value, false) rather than an error.
type Lookup func(name string) (flagtype.Value, bool)

// Eval walks expr against lookup and returns its boolean result, per
// spec.md §6's truthiness/coercion/type-mismatch-is-false rules. Eval never
// panics and never returns an error; a malformed expression is rejected at
// Parse time, not at Eval time.
func Eval(expr Expr, lookup Lookup) bool {
	switch e := expr.(type) {
	case *BinaryExpr:
		switch e.Op {
		case OpAnd:
			return Eval(e.Left, lookup) && Eval(e.Right, lookup)
		case OpOr:
			return Eval(e.Left, lookup) || Eval(e.Right, lookup)
		}
		return false
	case *UnaryExpr:
		return !Eval(e.Expr, lookup)
	case *Comparison:
		return evalComparison(e, lookup)
	case *Ident:
		v, ok := lookup(e.Name)
		return flagtype.Truthy(v, ok)
	case *Literal:
		return flagtype.Truthy(literalValue(e), true)
	default:
		return false
	}
}

// evalComparison implements comparison -> atom (cmpOp atom)? evaluation: a
// bare atom (Op == CmpNone) reduces to its truthiness; otherwise the two
// operands are resolved to values and compared under spec.md §6's rules —
// strings support only ==/!=, any other string comparison is false, a
// type-mismatched comparison is false (never raised), and an Absent operand
// is treated as Num(0) for comparison purposes.
func evalComparison(c *Comparison, lookup Lookup) bool {
	if c.Op == CmpNone {
		return Eval(c.Left, lookup)
	}

	lv, lok := valueOf(c.Left, lookup)
	rv, rok := valueOf(c.Right, lookup)
	if !lok {
		lv, lok = flagtype.Num(0), true
	}
	if !rok {
		rv, rok = flagtype.Num(0), true
	}

	if lv.Tag() == flagtype.TagStr || rv.Tag() == flagtype.TagStr {
		if lv.Tag() != flagtype.TagStr || rv.Tag() != flagtype.TagStr {
			return false // type-mismatched comparison: never raises, always false
		}
		ls, _ := lv.AsStr()
		rs, _ := rv.AsStr()
		switch c.Op {
		case CmpEq:
			return ls == rs
		case CmpNe:
			return ls != rs
		default:
			return false // only ==/!= are defined for strings
		}
	}

	if lv.Tag() != rv.Tag() {
		return false
	}

	switch lv.Tag() {
	case flagtype.TagBool:
		lb, _ := lv.AsBool()
		rb, _ := rv.AsBool()
		switch c.Op {
		case CmpEq:
			return lb == rb
		case CmpNe:
			return lb != rb
		default:
			return false
		}
	case flagtype.TagNum:
		ln, _ := lv.AsNum()
		rn, _ := rv.AsNum()
		switch c.Op {
		case CmpEq:
			return ln == rn
		case CmpNe:
			return ln != rn
		case CmpGt:
			return ln > rn
		case CmpLt:
			return ln < rn
		case CmpGe:
			return ln >= rn
		case CmpLe:
			return ln <= rn
		}
	}
	return false
}

// valueOf resolves an operand to a Value. Ident and Literal resolve
// directly; any other expression form (a parenthesized logical
// sub-expression appearing where an atom is expected) resolves to its
// boolean result as a Bool value, so `(a AND b) == true` is well-defined
// even though spec.md's own examples only compare atoms.
func valueOf(expr Expr, lookup Lookup) (flagtype.Value, bool) {
	switch e := expr.(type) {
	case *Ident:
		return lookup(e.Name)
	case *Literal:
		return literalValue(e), true
	default:
		return flagtype.Bool(Eval(expr, lookup)), true
	}
}

func literalValue(l *Literal) flagtype.Value {
	if l.Kind == LiteralStr {
		return flagtype.Str(l.Str)
	}
	return flagtype.Num(l.Num)
}
