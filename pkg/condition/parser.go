package condition

import (
	"fmt"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

// Parse compiles expr into an Expr tree. A malformed expression returns a
// *flagtype.Error with Kind flagtype.ErrKindParse, reusing the core's
// discriminated error type instead of a separate parser error type (the
// same single-error-type convention the teacher's pkg/types applies across
// every package).
func Parse(expr string) (Expr, error) {
	p := &parser{lex: newLexer(expr)}
	if err := p.advance(); err != nil {
		return nil, flagtype.NewParseError(expr, err.Error())
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, flagtype.NewParseError(expr, err.Error())
	}
	if p.tok.kind != tokEOF {
		return nil, flagtype.NewParseError(expr, fmt.Sprintf("unexpected trailing input at position %d", p.tok.pos))
	}
	return e, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.tok.kind != kind {
		return fmt.Errorf("expected %s at position %d, got %q", what, p.tok.pos, p.tok.text)
	}
	return p.advance()
}

// parseOr implements orExpr -> andExpr (OR andExpr)*.
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

// parseAnd implements andExpr -> notExpr (AND notExpr)*.
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

// parseNot implements notExpr -> (NOT | "!") notExpr | comparison.
func (p *parser) parseNot() (Expr, error) {
	if p.tok.kind == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: OpNot, Expr: inner}, nil
	}
	return p.parseComparison()
}

// parseComparison implements comparison -> atom (cmpOp atom)?.
func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	op, ok := compareOpFor(p.tok.kind)
	if !ok {
		return &Comparison{Op: CmpNone, Left: left}, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return &Comparison{Op: op, Left: left, Right: right}, nil
}

func compareOpFor(kind tokenKind) (CompareOp, bool) {
	switch kind {
	case tokEq:
		return CmpEq, true
	case tokNe:
		return CmpNe, true
	case tokGt:
		return CmpGt, true
	case tokLt:
		return CmpLt, true
	case tokGe:
		return CmpGe, true
	case tokLe:
		return CmpLe, true
	default:
		return CmpNone, false
	}
}

// parseAtom implements atom -> identifier | number | string | "(" orExpr ")".
func (p *parser) parseAtom() (Expr, error) {
	switch p.tok.kind {
	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Ident{Name: name}, nil
	case tokNumber:
		n := p.tok.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Kind: LiteralNum, Num: n}, nil
	case tokString:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Kind: LiteralStr, Str: s}, nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("expected an identifier, literal, or '(' at position %d, got %q", p.tok.pos, p.tok.text)
	}
}
