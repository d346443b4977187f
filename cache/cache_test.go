package cache

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

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache() (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.now)), clock
}

func counter(value any) (func(context.Context) (any, error), *int32) {
	var calls int32
	return func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return value, nil
	}, &calls
}

func TestNewKey(t *testing.T) {
	key := NewKey("posts", "physics", 2, 10)

	assert.Equal(t, Key{"posts", "physics", "2", "10"}, key)
	assert.Equal(t, "posts/physics/2/10", key.String())
	assert.True(t, key.HasPrefix(Key{"posts", "physics"}))
	assert.True(t, key.HasPrefix(nil))
	assert.False(t, key.HasPrefix(Key{"posts", "biology"}))
	assert.False(t, Key{"posts"}.HasPrefix(key))
}

func TestGenerateHash_PartBoundaries(t *testing.T) {
	assert.NotEqual(t, generateHash(Key{"a/b", "c"}), generateHash(Key{"a", "b/c"}))
	assert.Equal(t, generateHash(NewKey("forums")), generateHash(Key{"forums"}))
}

func TestGet_FreshValueIsServedFromCache(t *testing.T) {
	c, clock := newTestCache()
	key := NewKey("posts", "physics")
	c.SetPolicy(key, Policy{StaleTime: time.Minute, GCTime: 5 * time.Minute})
	fetch, calls := counter("data")

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), key, fetch)
		require.NoError(t, err)
		assert.Equal(t, "data", v)
		clock.advance(10 * time.Second)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestGet_StaleValueIsRefetched(t *testing.T) {
	c, clock := newTestCache()
	key := NewKey("comments", "physics", 1)
	c.SetPolicy(key, Policy{StaleTime: 30 * time.Second, GCTime: 2 * time.Minute})
	fetch, calls := counter("data")

	_, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	clock.advance(29 * time.Second)
	_, _ = c.Get(context.Background(), key, fetch)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	clock.advance(time.Second)
	_, _ = c.Get(context.Background(), key, fetch)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestGet_ForeverNeverGoesStale(t *testing.T) {
	c, clock := newTestCache()
	key := NewKey("forums")
	c.SetPolicy(key, Policy{StaleTime: Forever, GCTime: Forever})
	fetch, calls := counter([]string{"physics"})

	_, err := c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	clock.advance(24 * 365 * time.Hour)
	assert.Equal(t, 0, c.Collect())
	_, err = c.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestGet_ErrorsAreNotCached(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("users")
	c.SetPolicy(key, Policy{StaleTime: Forever, GCTime: Forever})
	boom := errors.New("boom")

	_, err := c.Get(context.Background(), key, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, ok := c.Peek(key)
	assert.False(t, ok)

	v, err := c.Get(context.Background(), key, func(context.Context) (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestGet_ConcurrentCallersShareOneFetch(t *testing.T) {
	c := New()
	key := NewKey("forums")
	c.SetPolicy(key, Policy{StaleTime: Forever, GCTime: Forever})

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "forums", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), key, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "forums", v)
	}
}

func TestInvalidate_Prefix(t *testing.T) {
	c, _ := newTestCache()
	for _, k := range []Key{NewKey("posts", "physics", 1, 10), NewKey("posts", "physics", 2, 10), NewKey("posts", "physics", 7), NewKey("posts", "biology", 1, 10)} {
		c.SetPolicy(k, Policy{StaleTime: Forever, GCTime: Forever})
		c.Set(k, "v")
	}

	assert.Equal(t, 3, c.Invalidate(NewKey("posts", "physics")))

	fetch, calls := counter("new")
	_, _ = c.Get(context.Background(), NewKey("posts", "physics", 1, 10), fetch)
	_, _ = c.Get(context.Background(), NewKey("posts", "biology", 1, 10), fetch)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	// A refetch clears the invalidated flag.
	_, _ = c.Get(context.Background(), NewKey("posts", "physics", 1, 10), fetch)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestInvalidate_KeepsDataForPeek(t *testing.T) {
	c, _ := newTestCache()
	c.Set(NewKey("forums"), "old")

	c.Invalidate(nil)

	v, ok := c.Peek(NewKey("forums"))
	assert.True(t, ok)
	assert.Equal(t, "old", v)
}

func TestCollect_EvictsUnusedEntries(t *testing.T) {
	c, clock := newTestCache()
	short := NewKey("comments", "physics", 1)
	long := NewKey("posts", "physics", 1)
	c.SetPolicy(short, Policy{StaleTime: 30 * time.Second, GCTime: 2 * time.Minute})
	c.SetPolicy(long, Policy{StaleTime: time.Minute, GCTime: 5 * time.Minute})
	c.Set(short, "comments")
	c.Set(long, "post")

	clock.advance(3 * time.Minute)
	assert.Equal(t, 1, c.Collect())

	_, ok := c.Peek(short)
	assert.False(t, ok)
	_, ok = c.Peek(long)
	assert.True(t, ok)
}

func TestCollect_ReadsExtendRetention(t *testing.T) {
	c, clock := newTestCache()
	key := NewKey("posts", "physics", 1)
	c.SetPolicy(key, Policy{StaleTime: Forever, GCTime: 2 * time.Minute})
	fetch, _ := counter("post")
	_, _ = c.Get(context.Background(), key, fetch)

	clock.advance(90 * time.Second)
	_, _ = c.Get(context.Background(), key, fetch)
	clock.advance(90 * time.Second)

	assert.Equal(t, 0, c.Collect())
}

func TestRemoveAndClear(t *testing.T) {
	c, _ := newTestCache()
	c.Set(NewKey("comments", "a", 1), 1)
	c.Set(NewKey("comments", "b", 1), 2)
	c.Set(NewKey("forums"), 3)

	assert.Equal(t, 2, c.Remove(NewKey("comments")))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestFetch_Typed(t *testing.T) {
	c, _ := newTestCache()
	q := Query[[]string]{
		Key:    NewKey("tags"),
		Policy: Policy{StaleTime: Forever, GCTime: Forever},
		Fetch: func(context.Context) ([]string, error) {
			return []string{"go", "sql"}, nil
		},
	}

	tags, err := Fetch(context.Background(), c, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, tags)

	c.Set(q.Key, 42)
	c.Invalidate(q.Key)
	tags, err = Fetch(context.Background(), c, q)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestFetch_TypeMismatch(t *testing.T) {
	c, _ := newTestCache()
	q := Query[string]{Key: NewKey("x"), Policy: Policy{StaleTime: Forever, GCTime: Forever}}
	c.Set(q.Key, 42)

	_, err := Fetch(context.Background(), c, q)
	assert.Error(t, err)
}

func TestPrime(t *testing.T) {
	c, clock := newTestCache()
	q := Query[string]{Key: NewKey("currentUser"), Policy: Policy{StaleTime: Forever, GCTime: Forever}}

	Prime(c, q, "alice")
	clock.advance(time.Hour)

	v, err := Fetch(context.Background(), c, q)
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
}

// blockingFetch returns a fetch that signals started and then waits for
// release before returning value.
func blockingFetch(value any) (fetch func(context.Context) (any, error), started, release chan struct{}) {
	started = make(chan struct{})
	release = make(chan struct{})
	fetch = func(context.Context) (any, error) {
		close(started)
		<-release
		return value, nil
	}
	return fetch, started, release
}

func TestGet_ClearDiscardsFetchInProgress(t *testing.T) {
	c := New()
	key := NewKey("forums")
	c.SetPolicy(key, Policy{StaleTime: Forever, GCTime: Forever})
	fetch, started, release := blockingFetch("alice's forums")

	done := make(chan any)
	go func() {
		v, err := c.Get(context.Background(), key, fetch)
		assert.NoError(t, err)
		done <- v
	}()
	<-started

	c.Clear()
	close(release)

	assert.Equal(t, "alice's forums", <-done)
	_, ok := c.Peek(key)
	assert.False(t, ok)
}

func TestGet_InvalidateDiscardsFetchInProgress(t *testing.T) {
	c := New()
	key := NewKey("posts", "physics", 1, 10)
	c.SetPolicy(key, Policy{StaleTime: time.Minute, GCTime: 5 * time.Minute})
	fetch, started, release := blockingFetch("before create")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Get(context.Background(), key, fetch)
		assert.NoError(t, err)
	}()
	<-started

	c.Invalidate(NewKey("posts", "physics"))

	// A Get after the invalidation starts its own fetch instead of joining.
	after, calls := counter("after create")
	v, err := c.Get(context.Background(), key, after)
	require.NoError(t, err)
	assert.Equal(t, "after create", v)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	close(release)
	<-done

	v, ok := c.Peek(key)
	assert.True(t, ok)
	assert.Equal(t, "after create", v)
}

func TestSet_WinsOverFetchInProgress(t *testing.T) {
	c := New()
	key := NewKey("posts", "physics", 7)
	fetch, started, release := blockingFetch("fetched")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Get(context.Background(), key, fetch)
	}()
	<-started

	c.Set(key, "primed")
	close(release)
	<-done

	v, _ := c.Peek(key)
	assert.Equal(t, "primed", v)
}

func TestGet_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c := New()
	key := NewKey("users")
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "users", ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error)
	go func() {
		_, err := c.Get(ctx, key, fetch)
		first <- err
	}()
	<-started

	second := make(chan any)
	go func() {
		v, err := c.Get(context.Background(), key, fetch)
		assert.NoError(t, err)
		second <- v
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(release)
	assert.Equal(t, "users", <-second)
	v, ok := c.Peek(key)
	assert.True(t, ok)
	assert.Equal(t, "users", v)
}

func TestPolicies_DoNotOutliveEntries(t *testing.T) {
	c, clock := newTestCache()
	policy := Policy{StaleTime: time.Minute, GCTime: 5 * time.Minute}
	for page := 1; page <= 50; page++ {
		q := Query[int]{
			Key:    NewKey("posts", "physics", page, 10),
			Policy: policy,
			Fetch:  func(context.Context) (int, error) { return page, nil },
		}
		_, err := Fetch(context.Background(), c, q)
		require.NoError(t, err)
	}
	assert.Empty(t, c.pending)

	clock.advance(6 * time.Minute)
	assert.Equal(t, 50, c.Collect())
	assert.Empty(t, c.entries)

	failing := Query[int]{
		Key:    NewKey("posts", "physics", 99, 10),
		Policy: policy,
		Fetch:  func(context.Context) (int, error) { return 0, errors.New("boom") },
	}
	_, err := Fetch(context.Background(), c, failing)
	assert.Error(t, err)
	assert.Empty(t, c.pending)

	c.SetPolicy(NewKey("comments", "physics", 1), policy)
	c.SetPolicy(NewKey("forums"), policy)
	assert.Equal(t, 0, c.Remove(NewKey("comments")))
	assert.Len(t, c.pending, 1)
	c.Clear()
	assert.Empty(t, c.pending)
}
