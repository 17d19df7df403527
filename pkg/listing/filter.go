package listing

import (
	"strings"
)

// Op is a comparison in the backend filter language
type Op string

const (
	// OpLike renders field~'value' (contains)
	OpLike Op = "~"
	// OpEqual renders field:'value'
	OpEqual Op = ":"
)

// Clause is one node of a filter expression
type Clause interface {
	String() string
}

type condition struct {
	field string
	op    Op
	value string
}

func (c condition) String() string {
	return c.field + string(c.op) + quote(c.value)
}

func Eq(field, value string) Clause {
	return condition{field: field, op: OpEqual, value: value}
}

func Like(field, value string) Clause {
	return condition{field: field, op: OpLike, value: value}
}

func Cond(field string, op Op, value string) Clause {
	return condition{field: field, op: op, value: value}
}

type raw string

func (r raw) String() string { return string(r) }

// Raw passes an already formed expression through untouched
func Raw(expr string) Clause {
	return raw(expr)
}

type groupKind int

const (
	groupAnd groupKind = iota
	groupOr
)

type group struct {
	kind    groupKind
	clauses []Clause
}

// And joins independent clauses. Empty clauses are dropped.
func And(clauses ...Clause) Clause {
	return group{kind: groupAnd, clauses: compact(clauses)}
}

// Or groups alternative match targets inside one parenthesized clause
func Or(clauses ...Clause) Clause {
	return group{kind: groupOr, clauses: compact(clauses)}
}

func (g group) String() string {
	switch len(g.clauses) {
	case 0:
		return ""
	case 1:
		return g.clauses[0].String()
	}

	parts := make([]string, 0, len(g.clauses))
	for _, c := range g.clauses {
		s := c.String()
		if inner, ok := c.(group); ok && g.kind == groupOr && inner.kind == groupAnd && len(inner.clauses) > 1 {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}

	if g.kind == groupOr {
		return "(" + strings.Join(parts, " or ") + ")"
	}
	return strings.Join(parts, " and ")
}

func compact(clauses []Clause) []Clause {
	out := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		if c == nil || c.String() == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quote(v string) string {
	return "'" + quoteEscaper.Replace(v) + "'"
}
