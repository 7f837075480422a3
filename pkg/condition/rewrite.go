package condition

// RewriteIdents returns a copy of expr with every Ident's Name passed
// through f, used by the namespace facade to prefix every bare identifier
// in a parsed condition with "<prefix>." before delegating to the root
// store's evaluator (spec.md §6).
func RewriteIdents(expr Expr, f func(name string) string) Expr {
	switch e := expr.(type) {
	case *BinaryExpr:
		return &BinaryExpr{Op: e.Op, Left: RewriteIdents(e.Left, f), Right: RewriteIdents(e.Right, f)}
	case *UnaryExpr:
		return &UnaryExpr{Op: e.Op, Expr: RewriteIdents(e.Expr, f)}
	case *Comparison:
		c := &Comparison{Op: e.Op, Left: RewriteIdents(e.Left, f)}
		if e.Right != nil {
			c.Right = RewriteIdents(e.Right, f)
		}
		return c
	case *Ident:
		return &Ident{Name: f(e.Name)}
	case *Literal:
		return e
	default:
		return expr
	}
}
