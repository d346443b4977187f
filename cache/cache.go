package cache

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Forever disables staleness or eviction when used in a Policy.
const Forever time.Duration = math.MaxInt64

// Policy controls how long an entry is served without refetching (StaleTime)
// and how long an unused entry is kept in memory (GCTime).
type Policy struct {
	StaleTime time.Duration
	GCTime    time.Duration
}

var DefaultPolicy = Policy{StaleTime: 0, GCTime: 5 * time.Minute}

// Key identifies a cached query, e.g. ("posts", "physics", "1", "10").
type Key []string

func NewKey(parts ...any) Key {
	key := make(Key, len(parts))
	for i, p := range parts {
		key[i] = fmt.Sprint(p)
	}
	return key
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

// HasPrefix reports whether k starts with every part of prefix.
// The empty prefix matches all keys.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k Key) equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// generateHash hashes the key parts with a separator that cannot occur in
// the textual form of a part boundary.
func generateHash(k Key) uint64 {
	return xxhash.Sum64String(strings.Join(k, "\x00"))
}

type entry struct {
	key         Key
	value       any
	policy      Policy
	updatedAt   time.Time
	lastAccess  time.Time
	invalidated bool
}

// flight is a fetch in progress. A discarded flight still answers its
// callers but its result is not stored.
type flight struct {
	key       Key
	discarded bool
}

type pendingPolicy struct {
	key    Key
	policy Policy
}

// Cache is an in-memory query cache with per-key staleness and retention.
// Concurrent Gets for one key share a single fetch.
type Cache struct {
	mu       sync.Mutex
	entries  map[uint64]*entry
	pending  map[uint64]pendingPolicy
	flights  map[uint64]*flight
	fallback Policy
	group    singleflight.Group
	now      func() time.Time
}

type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithDefaultPolicy(p Policy) Option {
	return func(c *Cache) { c.fallback = p }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[uint64]*entry),
		pending:  make(map[uint64]pendingPolicy),
		flights:  make(map[uint64]*flight),
		fallback: DefaultPolicy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetPolicy assigns staleness and retention for key. A policy set before
// the key holds data applies to the next value stored under it.
func (c *Cache) SetPolicy(key Key, p Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hash := generateHash(key)
	if e, ok := c.lookupLocked(hash, key); ok {
		e.policy = p
		return
	}
	c.pending[hash] = pendingPolicy{key: key, policy: p}
}

// Get returns the cached value for key while it is fresh, otherwise calls
// fetch and stores the result. Errors are returned and never cached.
func (c *Cache) Get(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	return c.get(ctx, key, nil, fetch)
}

// get is Get with an optional policy that replaces the key's current one.
//
// The fetch runs detached from any single caller's cancellation, and each
// caller stops waiting when its own ctx is done.
func (c *Cache) get(ctx context.Context, key Key, policy *Policy, fetch func(context.Context) (any, error)) (any, error) {
	hash := generateHash(key)

	c.mu.Lock()
	now := c.now()
	c.collectLocked(now)
	if e, ok := c.lookupLocked(hash, key); ok {
		e.lastAccess = now
		if policy != nil {
			e.policy = *policy
		}
		if !e.staleAt(now) {
			v := e.value
			c.mu.Unlock()
			return v, nil
		}
	}
	c.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey(hash), func() (any, error) {
		c.mu.Lock()
		f := &flight{key: key}
		c.flights[hash] = f
		c.mu.Unlock()

		v, err := fetch(shared)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.flights[hash] == f {
			delete(c.flights, hash)
		}
		if err != nil {
			return nil, err
		}
		if !f.discarded {
			c.storeLocked(hash, key, v, policy)
		}
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Peek returns the stored value for key without fetching, fresh or not.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookupLocked(generateHash(key), key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key as freshly fetched data. A fetch of key still
// in progress will not overwrite it.
func (c *Cache) Set(key Key, value any) {
	c.set(key, value, nil)
}

func (c *Cache) set(key Key, value any, policy *Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hash := generateHash(key)
	if f, ok := c.flights[hash]; ok && f.key.equal(key) {
		c.discardLocked(hash, f)
	}
	c.storeLocked(hash, key, value, policy)
}

// storeLocked writes a fresh entry. The policy is, in order: the one given,
// the entry's current one, one registered by SetPolicy, the default.
func (c *Cache) storeLocked(hash uint64, key Key, value any, policy *Policy) {
	p := c.fallback
	if prev, ok := c.lookupLocked(hash, key); ok {
		p = prev.policy
	} else if pp, ok := c.pending[hash]; ok && pp.key.equal(key) {
		p = pp.policy
	}
	if policy != nil {
		p = *policy
	}
	delete(c.pending, hash)

	now := c.now()
	c.entries[hash] = &entry{
		key:        key,
		value:      value,
		policy:     p,
		updatedAt:  now,
		lastAccess: now,
	}
}

// Invalidate marks every entry whose key starts with prefix as stale so the
// next Get refetches it. Fetches of matching keys already in progress are
// not stored. It returns the number of entries affected.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discardFlightsLocked(prefix)
	n := 0
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.invalidated = true
			n++
		}
	}
	return n
}

// Remove drops every entry and policy whose key starts with prefix.
func (c *Cache) Remove(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discardFlightsLocked(prefix)
	for hash, pp := range c.pending {
		if pp.key.HasPrefix(prefix) {
			delete(c.pending, hash)
		}
	}
	n := 0
	for hash, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, hash)
			n++
		}
	}
	return n
}

// Clear empties the cache, policies included.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discardFlightsLocked(nil)
	c.entries = make(map[uint64]*entry)
	c.pending = make(map[uint64]pendingPolicy)
}

// Collect evicts entries that have not been read for longer than their GC
// time and returns how many were evicted.
func (c *Cache) Collect() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collectLocked(c.now())
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) collectLocked(now time.Time) int {
	n := 0
	for hash, e := range c.entries {
		gc := e.policy.GCTime
		if gc == Forever {
			continue
		}
		if now.Sub(e.lastAccess) > gc {
			delete(c.entries, hash)
			n++
		}
	}
	return n
}

func (c *Cache) discardFlightsLocked(prefix Key) {
	for hash, f := range c.flights {
		if f.key.HasPrefix(prefix) {
			c.discardLocked(hash, f)
		}
	}
}

// discardLocked stops f's result from being stored and lets the next Get
// start a new fetch instead of joining it.
func (c *Cache) discardLocked(hash uint64, f *flight) {
	f.discarded = true
	delete(c.flights, hash)
	c.group.Forget(flightKey(hash))
}

func (c *Cache) lookupLocked(hash uint64, key Key) (*entry, bool) {
	e, ok := c.entries[hash]
	if !ok || !e.key.equal(key) {
		return nil, false
	}
	return e, true
}

func (e *entry) staleAt(now time.Time) bool {
	if e.invalidated {
		return true
	}
	if e.policy.StaleTime == Forever {
		return false
	}
	return now.Sub(e.updatedAt) >= e.policy.StaleTime
}

func flightKey(hash uint64) string {
	return strconv.FormatUint(hash, 16)
}
