// Package listing implements the filtered, paginated list pattern shared by
// every entity screen: query building, debounced search, pagination and
// last-write-wins fetching.
package listing

import (
	"sort"
	"strings"
)

// All is the sentinel filter value meaning "no filter applied"
const All = "ALL"

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a sort key in its wire form "field,dir"
type Sort struct {
	Field     string
	Direction Direction
}

// ParseSort accepts "field", "field,asc" or "field,desc". Anything other
// than desc sorts ascending.
func ParseSort(s string) Sort {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sort{}
	}
	field, dir, _ := strings.Cut(s, ",")
	out := Sort{Field: strings.TrimSpace(field), Direction: Asc}
	if strings.EqualFold(strings.TrimSpace(dir), string(Desc)) {
		out.Direction = Desc
	}
	return out
}

func (s Sort) String() string {
	if s.Field == "" {
		return ""
	}
	dir := s.Direction
	if dir != Desc {
		dir = Asc
	}
	return s.Field + "," + string(dir)
}

// Toggle flips the direction and keeps the field
func (s Sort) Toggle() Sort {
	if s.Direction == Desc {
		s.Direction = Asc
	} else {
		s.Direction = Desc
	}
	return s
}

// Query is the UI filter state of one list screen
type Query struct {
	Page     int
	PageSize int
	Sort     Sort
	Search   string
	Filters  map[string]string
}

const DefaultPageSize = 6

func NewQuery(pageSize int, sort Sort) Query {
	return Query{
		Page:     1,
		PageSize: pageSize,
		Sort:     sort,
		Filters:  map[string]string{},
	}.Normalize()
}

// Clone copies the filter map so the result can be mutated independently
func (q Query) Clone() Query {
	out := q
	out.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		out.Filters[k] = v
	}
	return out
}

// WithFilter returns a copy of q with one filter set
func (q Query) WithFilter(key, value string) Query {
	out := q.Clone()
	out.Filters[key] = value
	return out
}

// Normalize enforces page ≥ 1 and pageSize > 0
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Filters == nil {
		q.Filters = map[string]string{}
	}
	return q
}

// HasActiveFilters is true when search text or any non-sentinel filter is set
func (q Query) HasActiveFilters() bool {
	return strings.TrimSpace(q.Search) != "" || len(ActiveFilters(q)) > 0
}

// ActiveFilters returns the trimmed filters that survive sentinel removal
func ActiveFilters(q Query) map[string]string {
	out := make(map[string]string)
	for k, v := range q.Filters {
		if isSentinel(v) {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

func isSentinel(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == All
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
