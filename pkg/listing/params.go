package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// Schema describes how one resource's UI filters map onto the backend
// filter language.
type Schema struct {
	// SearchFields are matched with OpLike inside a single or-group
	SearchFields []string
	// Filters maps a filter key to its operator. Keys missing here use OpEqual.
	Filters map[string]Op
	// Fixed clauses are always sent, e.g. a role scope
	Fixed []Clause
}

// Clauses returns the filter clauses q produces under s, in a stable order
func (s Schema) Clauses(q Query) []Clause {
	clauses := append([]Clause(nil), s.Fixed...)

	if search := strings.TrimSpace(q.Search); search != "" && len(s.SearchFields) > 0 {
		alts := make([]Clause, 0, len(s.SearchFields))
		for _, f := range s.SearchFields {
			alts = append(alts, Like(f, search))
		}
		clauses = append(clauses, Or(alts...))
	}

	active := ActiveFilters(q)
	for _, key := range sortedKeys(active) {
		op, ok := s.Filters[key]
		if !ok {
			op = OpEqual
		}
		clauses = append(clauses, Cond(key, op, active[key]))
	}
	return compact(clauses)
}

// Expression renders the complete filter expression, or "" when nothing applies
func (s Schema) Expression(q Query) string {
	return And(s.Clauses(q)...).String()
}

// BuildParams turns filter state into request parameters. It has no side
// effects and never fails.
func BuildParams(q Query, s Schema) url.Values {
	q = q.Normalize()
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(q.PageSize))
	if sort := q.Sort.String(); sort != "" {
		params.Set("sort", sort)
	}
	if expr := s.Expression(q); expr != "" {
		params.Set("filter", expr)
	}
	return params
}
