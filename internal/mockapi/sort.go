package mockapi

import (
	"sort"
	"strconv"
	"strings"
)

type sortSpec struct {
	field string
	desc  bool
}

// parseSort reads "field,dir". An empty field means insertion order.
func parseSort(s string) sortSpec {
	field, dir, _ := strings.Cut(strings.TrimSpace(s), ",")
	return sortSpec{
		field: strings.TrimSpace(field),
		desc:  strings.EqualFold(strings.TrimSpace(dir), "desc"),
	}
}

// apply sorts rows in place. Ties keep insertion order in both directions.
func (s sortSpec) apply(rows []Record) {
	if s.field == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareValues(first(lookup(rows[i], s.field)), first(lookup(rows[j], s.field)))
		if s.desc {
			return c > 0
		}
		return c < 0
	})
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// compareValues orders numbers numerically and everything else case-insensitively
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
