package watch

import (
	"context"
	"sync"
	"time"
)

// IntervalFunc computes the next revalidation delay from the latest
// cache entry. Returning 0 disables interval polling until the entry
// changes again (an explicit Refresh still fetches).
type IntervalFunc[T any] func(value T, err error) time.Duration

// FixedInterval polls at a constant rate.
func FixedInterval[T any](d time.Duration) IntervalFunc[T] {
	return func(T, error) time.Duration { return d }
}

// Poller revalidates one resource on an interval, with on-demand
// refresh after mutating actions.
//
// Overlapping fetches are fenced: every issued request gets a
// generation number and only the most recently issued request may
// write the cache entry. Rapid repeated Refresh calls therefore
// resolve as last-issued-request-wins, never as a stale overwrite.
type Poller[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	interval IntervalFunc[T]

	mu      sync.Mutex
	entry   Entry[T]
	gen     uint64
	running bool
	ctx     context.Context
	cancel  context.CancelFunc

	changed chan struct{}
	updates chan Entry[T]
}

// NewPoller creates a poller for the given fetch function. It does not
// start fetching until Start.
func NewPoller[T any](fetch func(ctx context.Context) (T, error), interval IntervalFunc[T]) *Poller[T] {
	return &Poller[T]{
		fetch:    fetch,
		interval: interval,
		changed:  make(chan struct{}, 1),
		updates:  make(chan Entry[T], 16),
	}
}

// Start begins polling. The first fetch is issued immediately. Start
// is a no-op if the poller is already running.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.running = true
	ctx = p.ctx
	p.mu.Unlock()

	go p.loop(ctx)
}

// Stop cancels polling and abandons any in-flight fetch. The cached
// entry remains readable. Stop is idempotent.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.running = false
}

// Refresh issues an immediate revalidation, e.g. after a mutating
// action. It may overlap an interval fetch; the fence decides.
func (p *Poller[T]) Refresh() {
	p.mu.Lock()
	ctx := p.ctx
	running := p.running
	p.mu.Unlock()
	if !running {
		return
	}
	go p.runFetch(ctx)
}

// Snapshot returns the current cache entry.
func (p *Poller[T]) Snapshot() Entry[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entry
}

// Updates returns a channel carrying cache-entry changes. Slow
// consumers lose intermediate states, never the latest one.
func (p *Poller[T]) Updates() <-chan Entry[T] {
	return p.updates
}

func (p *Poller[T]) loop(ctx context.Context) {
	p.runFetch(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		entry := p.Snapshot()
		wait := p.interval(entry.Value, entry.Err)
		if wait <= 0 {
			// Interval polling disabled (e.g. terminal run). Wake on
			// the next entry change, which a Refresh will produce.
			select {
			case <-ctx.Done():
				return
			case <-p.changed:
			}
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.changed:
			// A refresh landed; recompute the schedule from the new
			// entry instead of firing a redundant fetch.
			timer.Stop()
		case <-timer.C:
			p.runFetch(ctx)
		}
	}
}

// runFetch issues one fenced fetch and applies the result only if no
// newer request was issued while it was in flight.
func (p *Poller[T]) runFetch(ctx context.Context) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.entry.Loading = true
	entry := p.entry
	p.mu.Unlock()
	p.notify(entry)

	value, err := p.fetch(ctx)
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.entry.Loading = false
	p.entry.Err = err
	if err == nil {
		p.entry.Value = value
		p.entry.UpdatedAt = time.Now()
		p.entry.populated = true
	}
	entry = p.entry
	p.mu.Unlock()

	select {
	case p.changed <- struct{}{}:
	default:
	}
	p.notify(entry)
}

func (p *Poller[T]) notify(entry Entry[T]) {
	for {
		select {
		case p.updates <- entry:
			return
		default:
			select {
			case <-p.updates:
			default:
			}
		}
	}
}
