package condition

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// tokenKind discriminates one lexical token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokAnd
	tokOr
	tokNot
	tokEq
	tokNe
	tokGt
	tokLt
	tokGe
	tokLe
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string  // raw text, used for identifiers and error messages
	num  float64 // populated when kind == tokNumber
	pos  int     // byte offset in the source, for error messages
}

// foldKeyword normalizes a keyword token for case-insensitive AND/OR/NOT
// recognition, using golang.org/x/text/cases the same way internal/regtext
// reaches for golang.org/x/text for its own text-casing concern.
var foldKeyword = cases.Fold()

// lexer scans a condition expression into tokens on demand.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	return rune(l.src[l.pos]), 1
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.pos++
			continue
		}
		break
	}
}

// next scans and returns the next token, or an error if the input is
// malformed (an unterminated string literal, or a character that starts no
// valid token).
func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, pos: start}, nil
	case c == '!':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return token{kind: tokNe, pos: start}, nil
		}
		return token{kind: tokNot, text: "!", pos: start}, nil
	case c == '=':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return token{kind: tokEq, pos: start}, nil
		}
		return token{}, fmt.Errorf("unexpected '=' at position %d (did you mean '=='?)", start)
	case c == '>':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return token{kind: tokGe, pos: start}, nil
		}
		return token{kind: tokGt, pos: start}, nil
	case c == '<':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return token{kind: tokLe, pos: start}, nil
		}
		return token{kind: tokLt, pos: start}, nil
	case c == '\'' || c == '"':
		return l.scanString(c)
	case c >= '0' && c <= '9':
		return l.scanNumber()
	case isIdentStart(c):
		return l.scanIdentOrKeyword()
	default:
		return token{}, fmt.Errorf("unexpected character %q at position %d", c, start)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}

func (l *lexer) scanIdentOrKeyword() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	switch foldKeyword.String(text) {
	case "and":
		return token{kind: tokAnd, text: text, pos: start}, nil
	case "or":
		return token{kind: tokOr, text: text, pos: start}, nil
	case "not":
		return token{kind: tokNot, text: text, pos: start}, nil
	default:
		return token{kind: tokIdent, text: text, pos: start}, nil
	}
}

func (l *lexer) scanNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9') {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9') {
			l.pos++
		}
	}
	text := l.src[start:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, fmt.Errorf("invalid number %q at position %d: %w", text, start, err)
	}
	return token{kind: tokNumber, text: text, num: n, pos: start}, nil
}

func (l *lexer) scanString(quote byte) (token, error) {
	start := l.pos
	l.pos++ // consume opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, fmt.Errorf("unterminated string literal starting at position %d", start)
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			return token{kind: tokString, text: b.String(), pos: start}, nil
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			next := l.src[l.pos+1]
			switch next {
			case quote, '\\':
				b.WriteByte(next)
				l.pos += 2
				continue
			}
		}
		b.WriteByte(c)
		l.pos++
	}
}
