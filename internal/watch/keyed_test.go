package watch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyed_NoFetchWithoutKey(t *testing.T) {
	var fetches atomic.Int64
	k := NewKeyed(
		func(ctx context.Context, key string) (string, error) {
			fetches.Add(1)
			return "v:" + key, nil
		},
		FixedInterval[string](time.Hour),
	)
	k.Start(context.Background())
	defer k.Stop()

	assert.Never(t, func() bool {
		return fetches.Load() > 0
	}, 200*time.Millisecond, 20*time.Millisecond, "no key selected, nothing may be fetched")

	entry := k.Snapshot()
	assert.False(t, entry.HasValue())
}

func TestKeyed_SetKeyFetches(t *testing.T) {
	k := NewKeyed(
		func(ctx context.Context, key string) (string, error) {
			return "v:" + key, nil
		},
		FixedInterval[string](time.Hour),
	)
	k.Start(context.Background())
	defer k.Stop()

	k.SetKey("base-1")
	require.Eventually(t, func() bool {
		return k.Snapshot().HasValue()
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "v:base-1", k.Snapshot().Value)
}

func TestKeyed_SameKeyIsNoop(t *testing.T) {
	var fetches atomic.Int64
	k := NewKeyed(
		func(ctx context.Context, key string) (string, error) {
			fetches.Add(1)
			return key, nil
		},
		FixedInterval[string](time.Hour),
	)
	k.Start(context.Background())
	defer k.Stop()

	k.SetKey("same")
	require.Eventually(t, func() bool {
		return fetches.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)

	k.SetKey("same")
	k.SetKey("same")
	assert.Never(t, func() bool {
		return fetches.Load() > 1
	}, 200*time.Millisecond, 20*time.Millisecond, "re-selecting the current key must not refetch")
}

func TestKeyed_KeyChangeDiscardsOldValue(t *testing.T) {
	release := make(chan struct{})
	k := NewKeyed(
		func(ctx context.Context, key string) (string, error) {
			if key == "slow" {
				select {
				case <-release:
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}
			return "v:" + key, nil
		},
		FixedInterval[string](time.Hour),
	)
	k.Start(context.Background())
	defer k.Stop()

	k.SetKey("fast")
	require.Eventually(t, func() bool {
		return k.Snapshot().HasValue()
	}, 5*time.Second, 10*time.Millisecond)

	// Switching keys swaps in a fresh, empty entry immediately. The old
	// key's value must never be visible under the new key.
	k.SetKey("slow")
	entry := k.Snapshot()
	assert.False(t, entry.HasValue(), "old key's value leaked into the new key")

	close(release)
	require.Eventually(t, func() bool {
		return k.Snapshot().Value == "v:slow"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestKeyed_ClearKey(t *testing.T) {
	k := NewKeyed(
		func(ctx context.Context, key string) (string, error) {
			return key, nil
		},
		FixedInterval[string](time.Hour),
	)
	k.Start(context.Background())
	defer k.Stop()

	k.SetKey("x")
	require.Eventually(t, func() bool {
		return k.Snapshot().HasValue()
	}, 5*time.Second, 10*time.Millisecond)

	k.ClearKey()
	assert.False(t, k.Snapshot().HasValue(), "cleared key must read as absent")

	// Selecting the same key again is a fresh fetch, not a no-op.
	k.SetKey("x")
	require.Eventually(t, func() bool {
		return k.Snapshot().HasValue()
	}, 5*time.Second, 10*time.Millisecond)
}
