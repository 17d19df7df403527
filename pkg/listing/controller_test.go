package listing

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/metrics"
)

type row struct {
	ID     int64
	Name   string
	Status string
}

type fakeSource struct {
	mu    sync.Mutex
	rows  []row
	calls []Query
	fail  error
	// gates blocks fetches whose search text matches a key until the channel closes
	gates map[string]chan struct{}
}

func newFakeSource(n int) *fakeSource {
	s := &fakeSource{gates: map[string]chan struct{}{}}
	for i := 1; i <= n; i++ {
		status := "PENDING"
		if i%2 == 0 {
			status = "CONFIRMED"
		}
		s.rows = append(s.rows, row{ID: int64(i), Name: "patient " + string(rune('a'+i-1)), Status: status})
	}
	return s
}

func (s *fakeSource) fetch(ctx context.Context, q Query) (Page[row], error) {
	s.mu.Lock()
	s.calls = append(s.calls, q.Clone())
	gate := s.gates[q.Search]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Page[row]{}, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return Page[row]{}, s.fail
	}

	active := ActiveFilters(q)
	var matched []row
	for _, r := range s.rows {
		if q.Search != "" && !strings.Contains(r.Name, q.Search) {
			continue
		}
		if st, ok := active["status"]; ok && r.Status != st {
			continue
		}
		matched = append(matched, r)
	}

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	return Page[row]{
		Items:       matched[start:end],
		TotalItems:  len(matched),
		TotalPages:  PagesFor(len(matched), q.PageSize),
		CurrentPage: q.Page,
	}, nil
}

func (s *fakeSource) lastCall() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeSource) remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.FromStatus(404, "not found")
}

type notices struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notices) Notify(level NoticeLevel, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, string(level)+": "+msg)
}

func newTestController(t *testing.T, src *fakeSource, opts Options) *Controller[row] {
	t.Helper()
	if opts.PageSize == 0 {
		opts.PageSize = 6
	}
	if opts.Filters == nil {
		opts.Filters = map[string]string{"status": All}
	}
	c := NewController(src.fetch, func(r row) int64 { return r.ID }, opts)
	t.Cleanup(c.Close)
	return c
}

func TestControllerLoad(t *testing.T) {
	src := newFakeSource(14)
	c := newTestController(t, src, Options{})

	assert.Equal(t, StateLoading, c.View().State)
	require.NoError(t, c.Load(context.Background()))

	v := c.View()
	assert.Equal(t, StatePopulated, v.State)
	assert.Equal(t, StatusSuccess, v.Status)
	assert.Len(t, v.Items, 6)
	assert.Equal(t, 14, v.TotalItems)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 1, v.Page)
	assert.False(t, v.FiltersActive)

	require.NoError(t, c.GoTo(context.Background(), 3))
	v = c.View()
	assert.Len(t, v.Items, 2)
	assert.Equal(t, int64(13), v.Items[0].ID)
}

func TestControllerFilterChangeResetsPage(t *testing.T) {
	src := newFakeSource(14)
	c := newTestController(t, src, Options{})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.GoTo(ctx, 3))
	require.Equal(t, 3, src.lastCall().Page)

	require.NoError(t, c.SetFilter(ctx, "status", "PENDING"))
	assert.Equal(t, 1, src.lastCall().Page)
	assert.Equal(t, "PENDING", src.lastCall().Filters["status"])
	assert.Equal(t, 1, c.View().Page)
	assert.Equal(t, 7, c.View().TotalItems)

	require.NoError(t, c.Next(ctx))
	require.NoError(t, c.SetSearch(ctx, "patient"))
	assert.Equal(t, 1, src.lastCall().Page)

	require.NoError(t, c.Next(ctx))
	require.NoError(t, c.ToggleSort(ctx))
	assert.Equal(t, 1, src.lastCall().Page)
}

func TestControllerBoundaryMovesDoNotFetch(t *testing.T) {
	src := newFakeSource(3)
	c := newTestController(t, src, Options{})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	calls := src.callCount()

	require.NoError(t, c.Prev(ctx))
	require.NoError(t, c.Next(ctx))
	require.NoError(t, c.GoTo(ctx, 9))
	assert.Equal(t, calls, src.callCount())
}

func TestControllerEmptyWithFilters(t *testing.T) {
	src := newFakeSource(4)
	c := newTestController(t, src, Options{})
	ctx := context.Background()

	require.NoError(t, c.SetSearch(ctx, "nobody"))
	v := c.View()
	assert.Equal(t, StateEmpty, v.State)
	assert.True(t, v.FiltersActive)
	assert.True(t, v.CanClearFilters)
	assert.Equal(t, 0, v.TotalPages)
	assert.Equal(t, 1, v.Page)

	require.NoError(t, c.ClearFilters(ctx))
	v = c.View()
	assert.Equal(t, StatePopulated, v.State)
	assert.False(t, v.FiltersActive)
	assert.Equal(t, All, v.Query.Filters["status"])
	assert.Empty(t, v.SearchInput)
}

func TestControllerFailureKeepsItems(t *testing.T) {
	src := newFakeSource(8)
	n := &notices{}
	c := newTestController(t, src, Options{Notifier: n})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))

	src.mu.Lock()
	src.fail = apperrors.FromStatus(500, "")
	src.mu.Unlock()

	err := c.Next(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindServer))

	v := c.View()
	assert.Equal(t, StatusFailed, v.Status)
	assert.Equal(t, StatePopulated, v.State)
	assert.Len(t, v.Items, 6)
	assert.Error(t, v.Err)
	assert.Equal(t, []string{"error: " + apperrors.GenericMessage}, n.msgs)
}

func TestControllerFailedPageMoveKeepsPage(t *testing.T) {
	src := newFakeSource(14)
	c := newTestController(t, src, Options{Notifier: &notices{}})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))

	src.mu.Lock()
	src.fail = apperrors.FromStatus(503, "")
	src.mu.Unlock()

	require.Error(t, c.Next(ctx))
	v := c.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, int64(1), v.Items[0].ID)

	require.Error(t, c.GoTo(ctx, 3))
	assert.Equal(t, 1, c.View().Page)

	src.mu.Lock()
	src.fail = nil
	src.mu.Unlock()

	require.NoError(t, c.Next(ctx))
	v = c.View()
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, int64(7), v.Items[0].ID)
}

func TestControllerDiscardsStaleResponse(t *testing.T) {
	src := newFakeSource(10)
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	c := newTestController(t, src, Options{Name: "rows", Metrics: m})
	ctx := context.Background()

	gate := make(chan struct{})
	src.mu.Lock()
	src.gates["patient a"] = gate
	src.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.SetSearch(ctx, "patient a") }()

	require.Eventually(t, func() bool { return src.callCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, c.SetSearch(ctx, "patient b"))
	close(gate)
	require.NoError(t, <-done)

	v := c.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, "patient b", v.Items[0].Name)
	assert.Equal(t, "patient b", v.Query.Search)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StaleResponses.WithLabelValues("rows")))
}

func TestControllerDebouncedSearch(t *testing.T) {
	src := newFakeSource(10)
	clock := newFakeClock()
	c := newTestController(t, src, Options{SearchDelay: 500 * time.Millisecond, Clock: clock})

	require.NoError(t, c.Load(context.Background()))
	calls := src.callCount()

	c.SetSearchInput("pat")
	clock.Advance(100 * time.Millisecond)
	c.SetSearchInput("patient c")
	assert.Equal(t, "patient c", c.View().SearchInput)
	assert.Equal(t, calls, src.callCount())

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, calls+1, src.callCount())
	assert.Equal(t, "patient c", src.lastCall().Search)
	assert.Len(t, c.View().Items, 1)
}

func TestControllerDeleteClampsPage(t *testing.T) {
	src := newFakeSource(13)
	n := &notices{}
	c := newTestController(t, src, Options{Notifier: n})
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.GoTo(ctx, 3))
	require.Len(t, c.View().Items, 1)

	yes := ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	require.NoError(t, c.Delete(ctx, 13, yes, func(_ context.Context, id int64) error { return src.remove(id) }))

	v := c.View()
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, StatePopulated, v.State)
	assert.Len(t, v.Items, 6)
	assert.Equal(t, 2, src.lastCall().Page)
	assert.Contains(t, n.msgs, "success: Deleted list #13")
}

func TestControllerDeleteDeclined(t *testing.T) {
	src := newFakeSource(3)
	c := newTestController(t, src, Options{})
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	calls := src.callCount()

	var prompt string
	no := ConfirmFunc(func(_ context.Context, p string) (bool, error) { prompt = p; return false, nil })
	deleted := false
	err := c.Delete(ctx, 2, no, func(context.Context, int64) error { deleted = true; return nil })

	assert.ErrorIs(t, err, ErrCancelled)
	assert.False(t, deleted)
	assert.Equal(t, "Delete list #2?", prompt)
	assert.Equal(t, calls, src.callCount())
}

func TestControllerOptimisticHint(t *testing.T) {
	src := newFakeSource(3)
	n := &notices{}
	c := newTestController(t, src, Options{Notifier: n})
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	var seen []string
	unsubscribe := c.Subscribe(func(v View[row]) {
		if len(v.Items) > 0 {
			seen = append(seen, v.Items[0].Status)
		}
	})
	defer unsubscribe()

	setDone := func(r *row) { r.Status = "DONE" }

	err := c.OptimisticHint(ctx, 1, setDone, func(context.Context) error {
		assert.Equal(t, "DONE", c.View().Items[0].Status)
		return apperrors.FromStatus(409, "already completed")
	})
	require.Error(t, err)
	assert.Equal(t, "PENDING", c.View().Items[0].Status)
	assert.Equal(t, []string{"error: already completed"}, n.msgs)
	assert.Contains(t, seen, "DONE")

	err = c.OptimisticHint(ctx, 1, setDone, func(context.Context) error {
		src.mu.Lock()
		src.rows[0].Status = "COMPLETED"
		src.mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", c.View().Items[0].Status)
}

func TestControllerOpen(t *testing.T) {
	src := newFakeSource(3)
	n := &notices{}
	c := newTestController(t, src, Options{Notifier: n})

	got, err := c.Open(context.Background(), 2, func(_ context.Context, id int64) (row, error) {
		return row{ID: id, Name: "x"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)

	_, err = c.Open(context.Background(), 9, func(context.Context, int64) (row, error) {
		return row{}, apperrors.FromStatus(404, "Appointment not found")
	})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Equal(t, []string{"error: Appointment not found"}, n.msgs)
}

func TestControllerUnsubscribe(t *testing.T) {
	src := newFakeSource(3)
	c := newTestController(t, src, Options{})

	count := 0
	unsubscribe := c.Subscribe(func(View[row]) { count++ })
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, 2, count)

	unsubscribe()
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 2, count)
}

func TestFetcherReportsStale(t *testing.T) {
	src := newFakeSource(5)
	f := NewFetcher(src.fetch, time.Second)

	first := f.Begin()
	_, applied, err := f.Fetch(context.Background(), NewQuery(6, Sort{}))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.False(t, f.Current(first))
}

func TestFetcherNormalizesNilPayload(t *testing.T) {
	f := NewFetcher(func(context.Context, Query) (Page[row], error) { return Page[row]{}, nil }, 0)

	page, applied, err := f.Fetch(context.Background(), NewQuery(6, Sort{}))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalItems)
	assert.Equal(t, 1, page.CurrentPage)
}
