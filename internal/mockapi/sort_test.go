package mockapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(rows []Record) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i], _ = toID(r["id"])
	}
	return out
}

func TestSortApply(t *testing.T) {
	rows := []Record{
		{"id": int64(1), "fullName": "bob", "age": float64(30), "address": map[string]interface{}{"city": "Pune"}},
		{"id": int64(2), "fullName": "Alice", "age": float64(9), "address": map[string]interface{}{"city": "Berlin"}},
		{"id": int64(3), "fullName": "alice", "age": float64(100), "address": map[string]interface{}{"city": "Austin"}},
	}

	parseSort("fullName,asc").apply(rows)
	assert.Equal(t, []int64{2, 3, 1}, ids(rows))

	parseSort("fullName,desc").apply(rows)
	assert.Equal(t, []int64{1, 2, 3}, ids(rows), "ties keep their relative order")

	parseSort("age,asc").apply(rows)
	assert.Equal(t, []int64{2, 1, 3}, ids(rows))

	parseSort("address.city").apply(rows)
	assert.Equal(t, []int64{3, 2, 1}, ids(rows))

	parseSort("").apply(rows)
	assert.Equal(t, []int64{3, 2, 1}, ids(rows))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, sortSpec{field: "appointmentDate", desc: true}, parseSort("appointmentDate,DESC"))
	assert.Equal(t, sortSpec{field: "id"}, parseSort("id"))
	assert.Equal(t, sortSpec{}, parseSort(""))
}
