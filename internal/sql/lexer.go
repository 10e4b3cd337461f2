package sql

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
}

// lexer splits query text into tokens: bare words (identifiers and
// keywords, matched case-insensitively by the parser), integers,
// single-quoted strings with no internal escaping, and single-character
// punctuation ( ) , * = ; :. A '-' is not punctuation: it can only begin a
// negative integer or a datetime (see lexNumber).
type lexer struct {
	src []rune
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src)}
}

func (l *lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *lexer) skipSpace() {
	for {
		r, ok := l.peekRune()
		if !ok || !isSpace(r) {
			return
		}
		l.pos++
	}
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

const punctChars = "(),*=;:"

// next returns the next token in the stream.
func (l *lexer) next() (token, error) {
	l.skipSpace()

	r, ok := l.peekRune()
	if !ok {
		return token{kind: tokEOF}, nil
	}

	switch {
	case r == '\'':
		return l.lexString()
	case r == '-' || isDigit(r):
		return l.lexNumber()
	case isIdentStart(r):
		return l.lexIdent()
	case strings.ContainsRune(punctChars, r):
		l.pos++
		return token{kind: tokPunct, text: string(r)}, nil
	default:
		return token{}, fmt.Errorf("%w: unexpected character %q", ErrSyntax, string(r))
	}
}

func (l *lexer) lexString() (token, error) {
	l.pos++ // opening quote
	start := l.pos
	for {
		r, ok := l.peekRune()
		if !ok {
			return token{}, fmt.Errorf("%w: unterminated string literal", ErrSyntax)
		}
		if r == '\'' {
			text := string(l.src[start:l.pos])
			l.pos++ // closing quote
			return token{kind: tokString, text: text}, nil
		}
		l.pos++
	}
}

// lexNumber reads an integer literal, e.g. "-12". If the digit run is
// immediately followed by '-', ':' or 'T' it is instead the start of an
// ISO-8601 datetime literal ("2024-01-02T15:04:05"); in that case the
// whole thing is consumed and returned as tokIdent, leaving the parser's
// literal coercion to tell datetimes from plain identifiers by shape.
func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if r, ok := l.peekRune(); ok && r == '-' {
		l.pos++
	}
	digits := 0
	for {
		r, ok := l.peekRune()
		if !ok || !isDigit(r) {
			break
		}
		l.pos++
		digits++
	}
	if digits == 0 {
		return token{}, fmt.Errorf("%w: malformed number literal", ErrSyntax)
	}

	if r, ok := l.peekRune(); ok && (r == '-' || r == ':' || r == 'T') {
		for {
			r, ok := l.peekRune()
			if !ok || !(r == '-' || r == ':' || r == 'T' || isDigit(r)) {
				break
			}
			l.pos++
		}
		return token{kind: tokIdent, text: string(l.src[start:l.pos])}, nil
	}

	return token{kind: tokInt, text: string(l.src[start:l.pos])}, nil
}

func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	for {
		r, ok := l.peekRune()
		if !ok || !isIdentPart(r) {
			break
		}
		l.pos++
	}
	return token{kind: tokIdent, text: string(l.src[start:l.pos])}, nil
}

// tokenize splits the full source into a token slice, ending with a single
// tokEOF.
func tokenize(src string) ([]token, error) {
	l := newLexer(src)
	var out []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if t.kind == tokEOF {
			return out, nil
		}
	}
}
