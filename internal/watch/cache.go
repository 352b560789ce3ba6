// Package watch is the cache-and-revalidate layer between the API
// client and the terminal views.
//
// Each poller binds one resource to a cache entry that is refreshed on
// an interval and on demand after mutations. Stale values are shown
// while a revalidation is in flight and are never cleared pre-emptively;
// a failed fetch keeps the previous value and sets the error flag.
package watch

import "time"

// Entry is the cached state of one resource. Consumers must treat
// loading, error, and absence as three distinct render states: an
// entry can hold a stale value and an error at the same time.
type Entry[T any] struct {
	Value     T
	Loading   bool
	Err       error
	UpdatedAt time.Time

	populated bool
}

// HasValue reports whether at least one fetch has succeeded. The
// zero Value is not distinguishable from "no data" without this flag.
func (e Entry[T]) HasValue() bool {
	return e.populated
}
