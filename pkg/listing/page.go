package listing

// Page is one fetched window of a collection
type Page[T any] struct {
	Items       []T
	TotalItems  int
	TotalPages  int
	CurrentPage int
}

// PagesFor is the ceiling of total/size, 0 when either is not positive
func PagesFor(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func normalizePage[T any](p Page[T], q Query) Page[T] {
	if p.Items == nil {
		p.Items = []T{}
	}
	if p.TotalItems < 0 {
		p.TotalItems = 0
	}
	if p.TotalPages <= 0 && p.TotalItems > 0 {
		p.TotalPages = PagesFor(p.TotalItems, q.PageSize)
	}
	if p.TotalPages < 0 {
		p.TotalPages = 0
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = q.Page
	}
	return p
}

// Paginator tracks the current page against the last known page count.
// It is not safe for concurrent use; Controller guards it.
type Paginator struct {
	current    int
	totalPages int
}

func NewPaginator() *Paginator {
	return &Paginator{current: 1}
}

func (p *Paginator) Current() int    { return p.current }
func (p *Paginator) TotalPages() int { return p.totalPages }

func (p *Paginator) upper() int {
	if p.totalPages < 1 {
		return 1
	}
	return p.totalPages
}

// GoTo moves to page n clamped into [1, max(totalPages,1)] and returns the
// resulting page.
func (p *Paginator) GoTo(n int) int {
	if n < 1 {
		n = 1
	}
	if up := p.upper(); n > up {
		n = up
	}
	p.current = n
	return n
}

func (p *Paginator) Next() bool {
	if p.current >= p.upper() {
		return false
	}
	p.current++
	return true
}

func (p *Paginator) Prev() bool {
	if p.current <= 1 {
		return false
	}
	p.current--
	return true
}

// Reset returns to page 1. The page count is kept until the next fetch.
func (p *Paginator) Reset() {
	p.current = 1
}

// SetTotalPages records a new page count and reports whether the current
// page had to be pulled back inside it.
func (p *Paginator) SetTotalPages(n int) bool {
	if n < 0 {
		n = 0
	}
	p.totalPages = n
	if p.current > p.upper() {
		p.current = p.upper()
		return true
	}
	return false
}
