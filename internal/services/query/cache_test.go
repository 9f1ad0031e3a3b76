package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(calls *atomic.Int32, value []string) Fetch[[]string] {
	return func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestGet_CachesWithinTTL(t *testing.T) {
	c := NewCache(time.Minute)
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		got, err := Get(context.Background(), c, "taskStages/set-1", counter(&calls, []string{"a"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, got)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_ExpiresAfterTTL(t *testing.T) {
	c := NewCache(time.Minute)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	var calls atomic.Int32

	_, err := Get(context.Background(), c, "k", counter(&calls, nil))
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = Get(context.Background(), c, "k", counter(&calls, nil))
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestGet_ZeroTTLDisablesCaching(t *testing.T) {
	c := NewCache(0)
	var calls atomic.Int32

	_, _ = Get(context.Background(), c, "k", counter(&calls, nil))
	_, _ = Get(context.Background(), c, "k", counter(&calls, nil))

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestGet_ErrorsAreNotCached(t *testing.T) {
	c := NewCache(time.Minute)
	boom := errors.New("boom")

	_, err := Get(context.Background(), c, "k", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	got, err := Get(context.Background(), c, "k", func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestGet_CollapsesConcurrentFetches(t *testing.T) {
	c := NewCache(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	fetch := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Get(context.Background(), c, "k", fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// let the goroutines pile up on the in-flight fetch
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []int{42, 42, 42, 42, 42}, results)
}

func TestInvalidate(t *testing.T) {
	c := NewCache(time.Minute)
	var calls atomic.Int32

	_, _ = Get(context.Background(), c, "wbsItems/p-1", counter(&calls, nil))
	_, _ = Get(context.Background(), c, "wbsItems/p-2", counter(&calls, nil))
	_, _ = Get(context.Background(), c, "taskStages/set-1", counter(&calls, nil))

	assert.Equal(t, 2, c.Invalidate("wbsItems/"))
	assert.Equal(t, 1, c.Len())

	_, _ = Get(context.Background(), c, "wbsItems/p-1", counter(&calls, nil))
	assert.Equal(t, int32(4), calls.Load())
}

func TestInvalidate_DuringFetchDropsResult(t *testing.T) {
	c := NewCache(time.Minute)

	_, err := Get(context.Background(), c, "k", func(ctx context.Context) (int, error) {
		c.Invalidate("k")
		return 1, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 0, c.Len(), "a result fetched across an invalidation is not stored")
}

func TestInvalidate_DetachesFetchInFlight(t *testing.T) {
	c := NewCache(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var stale []string
	go func() {
		defer wg.Done()
		stale, _ = Get(context.Background(), c, "wbsItems/p-1/", func(ctx context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"before"}, nil
		})
	}()
	<-started

	c.Invalidate("wbsItems/p-1/")

	var calls atomic.Int32
	got, err := Get(context.Background(), c, "wbsItems/p-1/", counter(&calls, []string{"after"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"after"}, got, "a read after invalidation does not join the older fetch")
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	wg.Wait()
	assert.Equal(t, []string{"before"}, stale)

	got, err = Get(context.Background(), c, "wbsItems/p-1/", counter(&calls, []string{"unused"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"after"}, got, "only the post-invalidation result is cached")
}
