package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagesFor(t *testing.T) {
	assert.Equal(t, 3, PagesFor(14, 6))
	assert.Equal(t, 2, PagesFor(12, 6))
	assert.Equal(t, 0, PagesFor(0, 6))
	assert.Equal(t, 0, PagesFor(5, 0))
}

func TestPaginatorGoToClamps(t *testing.T) {
	p := NewPaginator()
	p.SetTotalPages(3)

	for _, tc := range []struct{ in, want int }{
		{-5, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 3}, {4, 3}, {99, 3},
	} {
		assert.Equal(t, tc.want, p.GoTo(tc.in), "GoTo(%d)", tc.in)
	}

	empty := NewPaginator()
	assert.Equal(t, 1, empty.GoTo(5))
}

func TestPaginatorBoundaries(t *testing.T) {
	p := NewPaginator()
	p.SetTotalPages(2)

	assert.False(t, p.Prev())
	assert.True(t, p.Next())
	assert.Equal(t, 2, p.Current())
	assert.False(t, p.Next())
	assert.True(t, p.Prev())

	p.GoTo(2)
	p.Reset()
	assert.Equal(t, 1, p.Current())
	assert.Equal(t, 2, p.TotalPages())
}

func TestPaginatorSetTotalPagesClamps(t *testing.T) {
	p := NewPaginator()
	p.SetTotalPages(3)
	p.GoTo(3)

	assert.True(t, p.SetTotalPages(2))
	assert.Equal(t, 2, p.Current())

	assert.False(t, p.SetTotalPages(5))
	assert.Equal(t, 2, p.Current())

	assert.True(t, p.SetTotalPages(0))
	assert.Equal(t, 1, p.Current())
}

func TestNormalizePage(t *testing.T) {
	q := NewQuery(6, Sort{})
	q.Page = 2

	p := normalizePage(Page[int]{TotalItems: 14}, q)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)
}
