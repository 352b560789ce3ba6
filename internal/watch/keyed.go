package watch

import (
	"context"
	"sync"
)

// Keyed is a poller parameterized by a selectable key, e.g. the
// currently selected baseline or run id. While no key is set, no
// network requests are issued and the entry stays empty. Changing the
// key discards the previous entry entirely: values fetched for one key
// are never shown for another.
type Keyed[K comparable, T any] struct {
	fetch    func(ctx context.Context, key K) (T, error)
	interval IntervalFunc[T]

	mu     sync.Mutex
	ctx    context.Context
	key    *K
	poller *Poller[T]
}

// NewKeyed creates a keyed poller. No fetch happens until SetKey.
func NewKeyed[K comparable, T any](fetch func(ctx context.Context, key K) (T, error), interval IntervalFunc[T]) *Keyed[K, T] {
	return &Keyed[K, T]{fetch: fetch, interval: interval}
}

// Start records the lifetime context. Polling begins on SetKey.
func (k *Keyed[K, T]) Start(ctx context.Context) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ctx = ctx
}

// SetKey selects the key to poll. Passing the current key is a no-op;
// passing a new key stops the old poller and starts a fresh one.
func (k *Keyed[K, T]) SetKey(key K) {
	k.mu.Lock()
	if k.key != nil && *k.key == key {
		k.mu.Unlock()
		return
	}
	if k.poller != nil {
		k.poller.Stop()
	}
	k.key = &key
	fetch := func(ctx context.Context) (T, error) {
		return k.fetch(ctx, key)
	}
	k.poller = NewPoller(fetch, k.interval)
	ctx := k.ctx
	poller := k.poller
	k.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	poller.Start(ctx)
}

// ClearKey deselects the key and stops polling. The entry reads as
// absent afterwards.
func (k *Keyed[K, T]) ClearKey() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.poller != nil {
		k.poller.Stop()
		k.poller = nil
	}
	k.key = nil
}

// Refresh revalidates the current key, if any.
func (k *Keyed[K, T]) Refresh() {
	k.mu.Lock()
	poller := k.poller
	k.mu.Unlock()
	if poller != nil {
		poller.Refresh()
	}
}

// Snapshot returns the entry for the current key, or an empty entry
// when no key is selected.
func (k *Keyed[K, T]) Snapshot() Entry[T] {
	k.mu.Lock()
	poller := k.poller
	k.mu.Unlock()
	if poller == nil {
		return Entry[T]{}
	}
	return poller.Snapshot()
}

// Stop halts polling without clearing the selection.
func (k *Keyed[K, T]) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.poller != nil {
		k.poller.Stop()
	}
}
