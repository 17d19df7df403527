package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/logger"
	"github.com/jwalitptl/smarthealth/pkg/metrics"
)

// SurfaceState is the single rendering state of a list screen
type SurfaceState int

const (
	StateLoading SurfaceState = iota
	StateEmpty
	StatePopulated
)

func (s SurfaceState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return "loading"
	}
}

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notifier shows transient user-facing messages
type Notifier interface {
	Notify(level NoticeLevel, message string)
}

type NotifierFunc func(level NoticeLevel, message string)

func (f NotifierFunc) Notify(level NoticeLevel, message string) { f(level, message) }

// Confirmer asks the user before destructive actions
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// ErrCancelled is returned when the user declines a confirmation
var ErrCancelled = apperrors.Cancelled("action cancelled")

// View is an immutable snapshot handed to render surfaces
type View[T any] struct {
	State           SurfaceState
	Status          Status
	Items           []T
	Page            int
	TotalPages      int
	TotalItems      int
	Query           Query
	SearchInput     string
	FiltersActive   bool
	CanClearFilters bool
	Err             error
}

type Options struct {
	// Name labels logs and metrics, e.g. "appointments"
	Name           string
	PageSize       int
	Sort           Sort
	Filters        map[string]string
	SearchDelay    time.Duration
	RequestTimeout time.Duration
	Notifier       Notifier
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	Clock          Clock
}

// Controller owns the filter state, pagination and fetched data of one list
// screen. All mutators are safe for concurrent use.
type Controller[T any] struct {
	mu sync.Mutex

	name     string
	fetcher  *Fetcher[T]
	idOf     func(T) int64
	notifier Notifier
	log      *logger.Logger
	metrics  *metrics.Metrics

	initial Query
	query   Query
	pager   *Paginator
	search  *Debouncer

	items      []T
	totalItems int
	status     Status
	err        error
	// version increments on every applied fetch so rollbacks never clobber fresher data
	version uint64

	subs    map[int]func(View[T])
	nextSub int
}

func NewController[T any](fetch FetchFunc[T], idOf func(T) int64, opts Options) *Controller[T] {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(NoticeLevel, string) {})
	}
	if opts.Name == "" {
		opts.Name = "list"
	}

	q := NewQuery(opts.PageSize, opts.Sort)
	for k, v := range opts.Filters {
		q.Filters[k] = v
	}

	c := &Controller[T]{
		name:     opts.Name,
		fetcher:  NewFetcher(fetch, opts.RequestTimeout),
		idOf:     idOf,
		notifier: opts.Notifier,
		log:      opts.Logger.With("list", opts.Name),
		metrics:  opts.Metrics,
		initial:  q.Clone(),
		query:    q,
		pager:    NewPaginator(),
		items:    []T{},
		subs:     make(map[int]func(View[T])),
	}
	c.search = NewDebouncer(opts.SearchDelay, c.commitSearch, opts.Clock)
	return c
}

// Load performs the initial fetch
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.load(ctx)
}

// Refresh re-fetches with the committed query and current page
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.load(ctx)
}

func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) error {
	return c.SetFilters(ctx, map[string]string{key: value})
}

// SetFilters applies several filter changes as one query change
func (c *Controller[T]) SetFilters(ctx context.Context, filters map[string]string) error {
	c.mu.Lock()
	for k, v := range filters {
		c.query.Filters[k] = v
	}
	c.pager.Reset()
	c.mu.Unlock()
	return c.load(ctx)
}

func (c *Controller[T]) SetSort(ctx context.Context, s Sort) error {
	c.mu.Lock()
	c.query.Sort = s
	c.pager.Reset()
	c.mu.Unlock()
	return c.load(ctx)
}

// ToggleSort flips the direction of the current sort field
func (c *Controller[T]) ToggleSort(ctx context.Context) error {
	c.mu.Lock()
	s := c.query.Sort.Toggle()
	c.mu.Unlock()
	return c.SetSort(ctx, s)
}

// SetSearchInput feeds a keystroke into the debouncer. The fetch happens once
// input has been quiet for the search delay.
func (c *Controller[T]) SetSearchInput(raw string) {
	c.search.Push(raw)
	c.publish()
}

// SetSearch commits search text immediately, bypassing the debouncer
func (c *Controller[T]) SetSearch(ctx context.Context, text string) error {
	c.search.Reset(text)
	return c.applySearch(ctx, text)
}

// FlushSearch commits pending search input now
func (c *Controller[T]) FlushSearch() {
	c.search.Flush()
}

func (c *Controller[T]) commitSearch(text string) {
	c.metrics.SearchCommitted(c.name)

	ctx := context.Background()
	if err := c.applySearch(ctx, text); err != nil {
		c.log.Debug("debounced search fetch failed", "search", text)
	}
}

func (c *Controller[T]) applySearch(ctx context.Context, text string) error {
	c.mu.Lock()
	c.query.Search = text
	c.pager.Reset()
	c.mu.Unlock()
	return c.load(ctx)
}

// ClearFilters restores the initial filters and empties the search box
func (c *Controller[T]) ClearFilters(ctx context.Context) error {
	c.search.Reset("")
	c.mu.Lock()
	c.query.Search = ""
	c.query.Filters = c.initial.Clone().Filters
	c.pager.Reset()
	c.mu.Unlock()
	return c.load(ctx)
}

func (c *Controller[T]) GoTo(ctx context.Context, page int) error {
	return c.movePage(ctx, func(p *Paginator) bool {
		before := p.Current()
		return p.GoTo(page) != before
	})
}

func (c *Controller[T]) Next(ctx context.Context) error {
	return c.movePage(ctx, (*Paginator).Next)
}

func (c *Controller[T]) Prev(ctx context.Context) error {
	return c.movePage(ctx, (*Paginator).Prev)
}

func (c *Controller[T]) movePage(ctx context.Context, move func(*Paginator) bool) error {
	c.mu.Lock()
	before := c.pager.Current()
	moved := move(c.pager)
	c.mu.Unlock()
	if !moved {
		return nil
	}
	return c.fetch(ctx, true, before)
}

func (c *Controller[T]) load(ctx context.Context) error {
	return c.fetch(ctx, true, 0)
}

// fetch loads the committed query. A non-zero fallback is the page to return
// to when the fetch fails, so the page number keeps matching the rows shown.
func (c *Controller[T]) fetch(ctx context.Context, mayClamp bool, fallback int) error {
	c.mu.Lock()
	q := c.query.Clone()
	q.Page = c.pager.Current()
	ticket := c.fetcher.Begin()
	c.status = StatusLoading
	c.mu.Unlock()
	c.publish()

	page, err := c.fetcher.Run(ctx, ticket, q)

	c.mu.Lock()
	if !c.fetcher.Current(ticket) {
		c.mu.Unlock()
		c.metrics.StaleDiscarded(c.name)
		c.log.Debug("discarding stale response", "page", q.Page, "search", q.Search)
		return nil
	}

	if err != nil {
		c.status = StatusFailed
		c.err = err
		if fallback > 0 {
			c.pager.GoTo(fallback)
		}
		c.mu.Unlock()
		c.log.Error(err, "failed to fetch list", "page", q.Page)
		c.notifier.Notify(NoticeError, apperrors.UserMessage(err))
		c.publish()
		return err
	}

	clamped := c.pager.SetTotalPages(page.TotalPages)
	if clamped && mayClamp {
		// the requested page no longer exists; keep current rows until the clamped page arrives
		c.mu.Unlock()
		c.log.Debug("page out of range, clamping", "requested", q.Page, "pages", page.TotalPages)
		return c.fetch(ctx, false, fallback)
	}

	c.items = page.Items
	c.totalItems = page.TotalItems
	c.status = StatusSuccess
	c.err = nil
	c.version++
	c.mu.Unlock()
	c.publish()
	return nil
}

// Open fetches one entity for a view or edit dialog
func (c *Controller[T]) Open(ctx context.Context, id int64, get func(ctx context.Context, id int64) (T, error)) (T, error) {
	item, err := get(ctx, id)
	if err != nil {
		c.fail(err, "failed to open item", id)
		var zero T
		return zero, err
	}
	return item, nil
}

// DurableWrite runs a server-side change and re-fetches on success
func (c *Controller[T]) DurableWrite(ctx context.Context, write func(ctx context.Context) error) error {
	if err := write(ctx); err != nil {
		c.fail(err, "write failed", 0)
		return err
	}
	return c.load(ctx)
}

// Delete asks for confirmation and then deletes the row server-side
func (c *Controller[T]) Delete(ctx context.Context, id int64, confirm Confirmer, del func(ctx context.Context, id int64) error) error {
	if confirm != nil {
		ok, err := confirm.Confirm(ctx, fmt.Sprintf("Delete %s #%d?", c.name, id))
		if err != nil {
			return fmt.Errorf("failed to confirm delete: %w", err)
		}
		if !ok {
			return ErrCancelled
		}
	}

	if err := del(ctx, id); err != nil {
		c.fail(err, "failed to delete item", id)
		return err
	}
	c.notifier.Notify(NoticeSuccess, fmt.Sprintf("Deleted %s #%d", c.name, id))
	return c.load(ctx)
}

// OptimisticHint patches the matching row locally, runs the durable write,
// and then lets the re-fetch replace the hint. On failure the row is rolled
// back unless fresher data has arrived in the meantime.
func (c *Controller[T]) OptimisticHint(ctx context.Context, id int64, patch func(*T), durable func(ctx context.Context) error) error {
	c.mu.Lock()
	var (
		prev    T
		found   bool
		version = c.version
	)
	for i, item := range c.items {
		if c.idOf(item) != id {
			continue
		}
		prev = item
		found = true
		next := make([]T, len(c.items))
		copy(next, c.items)
		patched := item
		patch(&patched)
		next[i] = patched
		c.items = next
		break
	}
	c.mu.Unlock()
	if found {
		c.publish()
	}

	if err := durable(ctx); err != nil {
		c.metrics.OptimisticHint(c.name, "rolled_back")
		if found {
			c.rollback(id, prev, version)
		}
		c.fail(err, "optimistic update failed", id)
		return err
	}

	c.metrics.OptimisticHint(c.name, "confirmed")
	return c.load(ctx)
}

func (c *Controller[T]) rollback(id int64, prev T, version uint64) {
	c.mu.Lock()
	if c.version != version {
		c.mu.Unlock()
		return
	}
	next := make([]T, len(c.items))
	copy(next, c.items)
	for i, item := range next {
		if c.idOf(item) == id {
			next[i] = prev
		}
	}
	c.items = next
	c.mu.Unlock()
	c.publish()
}

func (c *Controller[T]) fail(err error, msg string, id int64) {
	if apperrors.Is(err, apperrors.KindCancelled) {
		return
	}
	c.log.Error(err, msg, "id", id)
	c.notifier.Notify(NoticeError, apperrors.UserMessage(err))
}

// View returns the current snapshot
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller[T]) viewLocked() View[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)

	v := View[T]{
		Status:        c.status,
		Items:         items,
		Page:          c.pager.Current(),
		TotalPages:    c.pager.TotalPages(),
		TotalItems:    c.totalItems,
		Query:         c.query.Clone(),
		SearchInput:   c.search.Value().Raw,
		FiltersActive: c.query.HasActiveFilters(),
		Err:           c.err,
	}
	v.Query.Page = v.Page

	switch {
	case c.status == StatusLoading || c.status == StatusIdle:
		v.State = StateLoading
	case len(items) == 0:
		v.State = StateEmpty
	default:
		v.State = StatePopulated
	}
	v.CanClearFilters = v.State == StateEmpty && v.FiltersActive
	return v
}

// Subscribe registers fn to receive every new snapshot
func (c *Controller[T]) Subscribe(fn func(View[T])) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller[T]) publish() {
	c.mu.Lock()
	if len(c.subs) == 0 {
		c.mu.Unlock()
		return
	}
	v := c.viewLocked()
	subs := make([]func(View[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Close stops any pending debounced search
func (c *Controller[T]) Close() {
	c.search.Stop()
}
