package sql

import (
	"fmt"
	"strconv"
	"strings"
)

// parser walks a token stream produced by tokenize, keeping one token of
// lookahead.
type parser struct {
	toks []token
	pos  int
}

// Parse parses a single statement from src. A trailing ";" is optional;
// if present, anything after it is ignored by the caller's REPL framing,
// not this function.
func Parse(src string) (Statement, error) {
	toks, err := tokenize(strings.TrimSuffix(strings.TrimSpace(src), ";"))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	kw, err := p.expectKeywordOneOf("SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "DROP")
	if err != nil {
		return nil, err
	}

	switch kw {
	case "SELECT":
		return p.parseSelect()
	case "INSERT":
		return p.parseInsert()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	case "CREATE":
		return p.parseCreateTable()
	case "DROP":
		return p.parseDropTable()
	}
	panic("unreachable")
}

func (p *parser) cur() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// expectKeywordOneOf consumes the current token if it's an identifier
// matching one of kws case-insensitively, returning the canonical
// (uppercased) keyword matched.
func (p *parser) expectKeywordOneOf(kws ...string) (string, error) {
	t := p.cur()
	if t.kind != tokIdent {
		return "", fmt.Errorf("%w: expected one of %v, got %q", ErrSyntax, kws, t.text)
	}
	up := strings.ToUpper(t.text)
	for _, kw := range kws {
		if up == kw {
			p.advance()
			return kw, nil
		}
	}
	return "", fmt.Errorf("%w: expected one of %v, got %q", ErrSyntax, kws, t.text)
}

func (p *parser) expectKeyword(kw string) error {
	_, err := p.expectKeywordOneOf(kw)
	return err
}

func (p *parser) expectPunct(s string) error {
	t := p.cur()
	if t.kind != tokPunct || t.text != s {
		return fmt.Errorf("%w: expected %q, got %q", ErrSyntax, s, t.text)
	}
	p.advance()
	return nil
}

func (p *parser) peekPunct(s string) bool {
	t := p.cur()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) peekKeyword(kw string) bool {
	t := p.cur()
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

// expectIdent consumes and returns a bare identifier (table/column name).
func (p *parser) expectIdent() (string, error) {
	t := p.cur()
	if t.kind != tokIdent {
		return "", fmt.Errorf("%w: expected identifier, got %q", ErrSyntax, t.text)
	}
	p.advance()
	return t.text, nil
}

func (p *parser) expectEOF() error {
	if p.cur().kind != tokEOF {
		return fmt.Errorf("%w: unexpected trailing input %q", ErrSyntax, p.cur().text)
	}
	return nil
}

// parseLiteral consumes one literal value: an integer, a single-quoted
// string, true/false, or an ISO-8601 datetime.
func (p *parser) parseLiteral() (Literal, error) {
	t := p.cur()
	switch t.kind {
	case tokInt:
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("%w: malformed integer literal %q", ErrSyntax, t.text)
		}
		p.advance()
		return Literal{Kind: LitInt, Int: n}, nil
	case tokString:
		p.advance()
		return Literal{Kind: LitStr, Str: t.text}, nil
	case tokIdent:
		switch strings.ToLower(t.text) {
		case "true":
			p.advance()
			return Literal{Kind: LitBool, Bool: true}, nil
		case "false":
			p.advance()
			return Literal{Kind: LitBool, Bool: false}, nil
		}
		if strings.ContainsAny(t.text, "-:T") && isDateTimeShaped(t.text) {
			p.advance()
			return Literal{Kind: LitDateTime, DateTime: t.text}, nil
		}
		return Literal{}, fmt.Errorf("%w: expected literal, got identifier %q", ErrSyntax, t.text)
	default:
		return Literal{}, fmt.Errorf("%w: expected literal, got %q", ErrSyntax, t.text)
	}
}

// isDateTimeShaped reports whether s looks like "YYYY-MM-DDTHH:MM:SS",
// without fully validating calendar correctness (left to time.Parse at
// coercion time in internal/engine).
func isDateTimeShaped(s string) bool {
	return len(s) == len("2006-01-02T15:04:05") && s[4] == '-' && s[7] == '-' && s[10] == 'T' && s[13] == ':' && s[16] == ':'
}

// parseFieldList parses a comma-separated list of bare field identifiers,
// used by SELECT's field list.
func (p *parser) parseFieldList() ([]string, error) {
	var fields []string
	for {
		f, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)

		if p.peekPunct(",") {
			p.advance()
			continue
		}
		return fields, nil
	}
}

// parseAssignmentList parses "<col> = <lit>" repeated with "," in between,
// used by INSERT's assignment list and UPDATE's SET clause.
func (p *parser) parseAssignmentList() ([]Assignment, error) {
	var assignments []Assignment
	for {
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{Column: col, Literal: lit})

		if p.peekPunct(",") {
			p.advance()
			continue
		}
		return assignments, nil
	}
}

// parseConditionChain parses "<ident> = <literal>" repeated with "AND" in
// between, used by SELECT's WHERE clause.
func (p *parser) parseConditionChain() ([]Condition, error) {
	var conds []Condition
	for {
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		conds = append(conds, Condition{Column: col, Literal: lit})

		if p.peekKeyword("AND") {
			p.advance()
			continue
		}
		return conds, nil
	}
}
