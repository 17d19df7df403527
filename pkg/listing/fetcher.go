package listing

import (
	"context"
	"sync/atomic"
	"time"
)

// Status of the most recent fetch cycle
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// FetchFunc retrieves one page for a query
type FetchFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

// Ticket identifies one issued request
type Ticket uint64

// Fetcher issues page requests and tags each one with a generation so that
// only the newest response is ever applied.
type Fetcher[T any] struct {
	fetch   FetchFunc[T]
	timeout time.Duration
	gen     atomic.Uint64
}

func NewFetcher[T any](fetch FetchFunc[T], timeout time.Duration) *Fetcher[T] {
	return &Fetcher[T]{fetch: fetch, timeout: timeout}
}

// Begin reserves the next generation. Any ticket issued earlier becomes stale.
func (f *Fetcher[T]) Begin() Ticket {
	return Ticket(f.gen.Add(1))
}

// Current reports whether t is still the newest issued ticket
func (f *Fetcher[T]) Current(t Ticket) bool {
	return Ticket(f.gen.Load()) == t
}

// Run performs the request for an already issued ticket
func (f *Fetcher[T]) Run(ctx context.Context, _ Ticket, q Query) (Page[T], error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	q = q.Normalize()
	page, err := f.fetch(ctx, q)
	if err != nil {
		return Page[T]{}, err
	}
	return normalizePage(page, q), nil
}

// Fetch issues and runs a request in one step. applied is false when a newer
// request was issued while this one was in flight.
func (f *Fetcher[T]) Fetch(ctx context.Context, q Query) (page Page[T], applied bool, err error) {
	t := f.Begin()
	page, err = f.Run(ctx, t, q)
	return page, f.Current(t), err
}
