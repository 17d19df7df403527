package mockapi

import (
	"fmt"
	"strconv"
	"strings"
)

// The list endpoints accept a filter such as
//
//	status:'PENDING' and (patientName~'ann' or reason~'ann')
//
// "~" is a case-insensitive contains, ":" and "==" are case-insensitive
// equality and "!=" negates it. Values are single-quoted with \' and \\
// escapes; bare words are accepted too.

type exprKind int

const (
	exprCond exprKind = iota
	exprAnd
	exprOr
	exprNot
)

type expr struct {
	kind        exprKind
	left, right *expr
	field       string
	op          string
	value       string
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
	tokOp
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
)

type token struct {
	kind  tokenKind
	value string
	pos   int
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch == '.' || ch == '-' || ch == '@' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func tokenize(s string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(s); {
		ch := s[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case ch == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case ch == '~' || ch == ':':
			tokens = append(tokens, token{tokOp, string(ch), i})
			i++
		case ch == '=' || ch == '!':
			if i+1 >= len(s) || s[i+1] != '=' {
				return nil, fmt.Errorf("unexpected %q at position %d", ch, i)
			}
			tokens = append(tokens, token{tokOp, s[i : i+2], i})
			i += 2
		case ch == '\'':
			var b strings.Builder
			j := i + 1
			for ; j < len(s) && s[j] != '\''; j++ {
				if s[j] == '\\' && j+1 < len(s) {
					j++
				}
				b.WriteByte(s[j])
			}
			if j >= len(s) {
				return nil, fmt.Errorf("unclosed quote starting at position %d", i)
			}
			tokens = append(tokens, token{tokString, b.String(), i})
			i = j + 1
		case isWordByte(ch):
			j := i
			for j < len(s) && isWordByte(s[j]) {
				j++
			}
			word := s[i:j]
			kind := tokWord
			switch strings.ToLower(word) {
			case "and":
				kind = tokAnd
			case "or":
				kind = tokOr
			case "not":
				kind = tokNot
			}
			tokens = append(tokens, token{kind, word, i})
			i = j
		default:
			return nil, fmt.Errorf("unexpected %q at position %d", ch, i)
		}
	}
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

// parseFilter returns nil for a blank filter
func parseFilter(s string) (*expr, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	tokens, err := tokenize(s)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != nil {
		return nil, fmt.Errorf("unexpected %q at position %d", t.value, t.pos)
	}
	return e, nil
}

func (p *parser) peek() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *token {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

func (p *parser) parseOr() (*expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); t != nil && t.kind == tokOr; t = p.peek() {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &expr{kind: exprOr, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (*expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); t != nil && t.kind == tokAnd; t = p.peek() {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &expr{kind: exprAnd, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (*expr, error) {
	if t := p.peek(); t != nil && t.kind == tokNot {
		p.next()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &expr{kind: exprNot, left: child}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*expr, error) {
	t := p.next()
	if t == nil {
		return nil, fmt.Errorf("unexpected end of filter")
	}

	if t.kind == tokLParen {
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if r := p.next(); r == nil || r.kind != tokRParen {
			return nil, fmt.Errorf("missing ')' for '(' at position %d", t.pos)
		}
		return e, nil
	}

	if t.kind != tokWord {
		return nil, fmt.Errorf("expected field name at position %d, got %q", t.pos, t.value)
	}
	op := p.next()
	if op == nil || op.kind != tokOp {
		return nil, fmt.Errorf("expected operator after %q", t.value)
	}
	val := p.next()
	if val == nil || (val.kind != tokString && val.kind != tokWord) {
		return nil, fmt.Errorf("expected value after %s%s", t.value, op.value)
	}
	return &expr{kind: exprCond, field: t.value, op: op.value, value: val.value}, nil
}

func (e *expr) match(rec Record) bool {
	if e == nil {
		return true
	}
	switch e.kind {
	case exprAnd:
		return e.left.match(rec) && e.right.match(rec)
	case exprOr:
		return e.left.match(rec) || e.right.match(rec)
	case exprNot:
		return !e.left.match(rec)
	}

	values := lookup(rec, e.field)
	if e.op == "!=" {
		for _, v := range values {
			if strings.EqualFold(v, e.value) {
				return false
			}
		}
		return true
	}
	for _, v := range values {
		switch e.op {
		case "~":
			if strings.Contains(strings.ToLower(v), strings.ToLower(e.value)) {
				return true
			}
		default:
			if strings.EqualFold(v, e.value) {
				return true
			}
		}
	}
	return false
}

// lookup resolves a dot path to the string form of every value it reaches.
// Arrays fan out so medications.medicineName matches any medication.
func lookup(v interface{}, path string) []string {
	if path == "" {
		return flatten(v)
	}
	head, rest, _ := strings.Cut(path, ".")

	switch t := v.(type) {
	case Record:
		return lookup(map[string]interface{}(t), path)
	case map[string]interface{}:
		child, ok := t[head]
		if !ok {
			return nil
		}
		return lookup(child, rest)
	case []interface{}:
		var out []string
		for _, item := range t {
			out = append(out, lookup(item, path)...)
		}
		return out
	}
	return nil
}

func flatten(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		var out []string
		for _, item := range t {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]interface{}, Record:
		return nil
	}
	return []string{stringify(v)}
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
