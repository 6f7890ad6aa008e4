// Package query is the process-wide read cache of the admin client.
//
// Each key moves through Empty → Loading → Ready on its first read,
// Ready → Revalidating → Ready on later reads and after invalidation, and
// into Error when a fetch fails; the next read from Error starts Loading again.
// At most one fetch per key is in flight; concurrent readers share it. An
// invalidation that lands mid-fetch queues exactly one follow-up fetch, and
// readers of the running fetch receive the follow-up's result.
package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle state of one cache entry.
type Status int

const (
	StatusEmpty Status = iota
	StatusLoading
	StatusReady
	StatusRevalidating
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusRevalidating:
		return "revalidating"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Fetcher loads the value of one key from the backend.
type Fetcher func(ctx context.Context) (any, error)

// Snapshot is a read-only view of an entry. Data is shared with every other
// reader of the key and must not be modified.
type Snapshot struct {
	Key       Key
	Status    Status
	Data      any
	Err       error
	UpdatedAt time.Time
}

// Options configures a Cache.
type Options struct {
	// StaleTime is how long Ready data is served without a refetch.
	// Zero means every read revalidates.
	StaleTime time.Duration
	Logger    *zerolog.Logger
	Now       func() time.Time
}

// Cache maps keys to their last-known value, status and in-flight fetch.
// Construct one per application with New and pass it down; it lives for the
// process lifetime.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	flights   singleflight.Group
	staleTime time.Duration
	now       func() time.Time
	log       zerolog.Logger
	nextSubID uint64
	nextEpoch uint64
}

// errSuperseded makes load retry against the entry's current fetch cycle.
var errSuperseded = errors.New("query: fetch cycle superseded")

type entry struct {
	key       Key
	status    Status
	data      any
	hasData   bool
	err       error
	updatedAt time.Time
	stale     bool
	fetcher   Fetcher

	// epoch names the current fetch cycle; readers of one epoch share one
	// flight. It advances when a cycle writes its result.
	epoch   uint64
	running bool
	refetch bool // invalidated mid-fetch; run again before writing
	dropped bool // removed mid-fetch; discard the result
	subs      map[uint64]*subscription
}

type subscription struct {
	fn     func(Snapshot)
	active atomic.Bool
}

// New creates an empty cache.
func New(opts Options) *Cache {
	c := &Cache{
		entries:   make(map[string]*entry),
		staleTime: opts.StaleTime,
		now:       opts.Now,
		log:       log.With().Str("component", "query").Logger(),
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// entry returns the entry for key, creating an Empty one. Caller holds c.mu.
func (c *Cache) entry(key Key) *entry {
	id := key.id()
	e, ok := c.entries[id]
	if !ok {
		c.nextEpoch++
		e = &entry{key: append(Key(nil), key...), subs: make(map[uint64]*subscription), epoch: c.nextEpoch}
		c.entries[id] = e
	}
	return e
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{Key: e.key, Status: e.status, Data: e.data, Err: e.err, UpdatedAt: e.updatedAt}
}

func (e *entry) subscribers() []*subscription {
	out := make([]*subscription, 0, len(e.subs))
	for _, s := range e.subs {
		out = append(out, s)
	}
	return out
}

func notify(subs []*subscription, snap Snapshot) {
	for _, s := range subs {
		if s.active.Load() {
			s.fn(snap)
		}
	}
}

// Fetch returns the value of key, calling fetch when the entry is empty,
// stale, invalidated or failed. Readers arriving while a fetch for the same
// key is in flight wait for that fetch instead of starting another.
func (c *Cache) Fetch(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	c.mu.Lock()
	e := c.entry(key)
	e.fetcher = fetch
	if e.status == StatusReady && !e.stale && c.staleTime > 0 && c.now().Sub(e.updatedAt) < c.staleTime {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	if e.running && e.dropped {
		// the running fetch predates the removal
		e.dropped = false
		e.refetch = true
	}
	epoch := e.epoch
	c.mu.Unlock()

	return c.load(ctx, key, epoch)
}

// load joins the fetch cycle epoch of key, starting it if nobody has. The
// shared fetch is detached from the caller's cancellation: a reader giving up
// does not abort the request other readers wait on.
func (c *Cache) load(ctx context.Context, key Key, epoch uint64) (any, error) {
	for {
		ep := epoch
		flight := key.id() + "#" + strconv.FormatUint(ep, 10)
		ch := c.flights.DoChan(flight, func() (interface{}, error) {
			return c.run(context.WithoutCancel(ctx), key, ep)
		})

		select {
		case res := <-ch:
			if !errors.Is(res.Err, errSuperseded) {
				return res.Val, res.Err
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		c.mu.Lock()
		epoch = c.entry(key).epoch
		c.mu.Unlock()
	}
}

// run is the body of one flight. It fetches until no invalidation arrived
// during the last fetch, then writes that result.
func (c *Cache) run(ctx context.Context, key Key, epoch uint64) (any, error) {
	c.mu.Lock()
	e := c.entry(key)
	if e.epoch != epoch {
		// the cycle finished before this reader joined
		defer c.mu.Unlock()
		switch {
		case e.status == StatusError:
			return nil, e.err
		case e.hasData:
			return e.data, nil
		}
		return nil, errSuperseded
	}

	for {
		fetch := e.fetcher
		if fetch == nil {
			e.running = false
			c.mu.Unlock()
			return nil, fmt.Errorf("query %s: no fetcher registered", key)
		}
		e.running = true
		e.refetch = false
		if e.hasData && e.status != StatusError {
			e.status = StatusRevalidating
		} else {
			e.status = StatusLoading
		}
		snap, subs := e.snapshot(), e.subscribers()
		c.mu.Unlock()
		notify(subs, snap)

		c.log.Debug().Str("key", key.String()).Str("status", snap.Status.String()).Msg("query fetch")
		data, err := fetch(ctx)

		c.mu.Lock()
		if e.refetch {
			c.log.Debug().Str("key", key.String()).Msg("query invalidated during fetch, refetching")
			e.dropped = false
			continue
		}
		e.running = false
		c.nextEpoch++
		e.epoch = c.nextEpoch

		if e.dropped {
			e.dropped = false
			if id := key.id(); c.entries[id] == e && len(e.subs) == 0 {
				delete(c.entries, id)
			}
			c.mu.Unlock()
			return data, err
		}

		if err != nil {
			e.status = StatusError
			e.err = err
		} else {
			e.status = StatusReady
			e.data = data
			e.hasData = true
			e.err = nil
			e.stale = false
			e.updatedAt = c.now()
		}
		snap, subs = e.snapshot(), e.subscribers()
		c.mu.Unlock()

		if err != nil {
			c.log.Warn().Err(err).Str("key", key.String()).Msg("query fetch failed")
		}
		notify(subs, snap)
		return data, err
	}
}

// Invalidate marks every entry under one of the prefixes stale and refetches
// the ones that have been read before, concurrently. An entry whose fetch is
// running gets one follow-up fetch and Invalidate waits for it. Refetch
// failures land in the entries' Error state; Invalidate itself does not fail.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...Key) {
	type target struct {
		key   Key
		epoch uint64
	}

	c.mu.Lock()
	var targets []target
	for _, e := range c.entries {
		if !matchesAny(e.key, prefixes) {
			continue
		}
		e.stale = true
		if e.fetcher == nil {
			continue
		}
		if e.running {
			e.refetch = true
		}
		targets = append(targets, target{key: e.key, epoch: e.epoch})
	}
	c.mu.Unlock()

	if len(targets) == 0 {
		return
	}
	c.log.Debug().Int("keys", len(targets)).Msg("query invalidate")

	var g errgroup.Group
	for _, t := range targets {
		g.Go(func() error {
			_, _ = c.load(ctx, t.key, t.epoch)
			return nil
		})
	}
	_ = g.Wait()
}

func matchesAny(key Key, prefixes []Key) bool {
	for _, p := range prefixes {
		if key.HasPrefix(p) {
			return true
		}
	}
	return false
}

// Mutate runs a write and, only once the server confirmed it, invalidates the
// given prefixes. The cache is never updated optimistically; a failed write
// invalidates nothing.
func (c *Cache) Mutate(ctx context.Context, invalidate []Key, fn func(ctx context.Context) (any, error)) (any, error) {
	data, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, invalidate...)
	return data, nil
}

// Subscribe registers fn to receive every state change of key. The returned
// function unsubscribes. Changes made after it returns are not delivered, but
// a delivery already in progress may still run fn once; callers needing a hard
// stop guard fn themselves.
func (c *Cache) Subscribe(key Key, fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	sub := &subscription{fn: fn}
	sub.active.Store(true)
	e := c.entry(key)
	e.subs[id] = sub

	return func() {
		sub.active.Store(false)
		c.mu.Lock()
		delete(e.subs, id)
		c.mu.Unlock()
	}
}

// Peek returns the current snapshot of key without fetching.
func (c *Cache) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok || e.dropped {
		return Snapshot{Key: key, Status: StatusEmpty}, false
	}
	return e.snapshot(), true
}

// Status returns the state of key.
func (c *Cache) Status(key Key) Status {
	snap, _ := c.Peek(key)
	return snap.Status
}

// Remove drops an entry and its subscriptions. An entry whose fetch is running
// stays until the fetch ends, so the key never has two fetches in flight; its
// result is discarded unless a later read revives the entry.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := key.id()
	e, ok := c.entries[id]
	if !ok {
		return
	}
	for _, s := range e.subs {
		s.active.Store(false)
	}
	if !e.running {
		delete(c.entries, id)
		return
	}
	e.subs = make(map[uint64]*subscription)
	e.status = StatusEmpty
	e.data = nil
	e.hasData = false
	e.err = nil
	e.stale = false
	e.refetch = false
	e.dropped = true
}

// ========================================
// TYPED HELPERS
// ========================================

// Fetch is the typed form of Cache.Fetch.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: cached %T, want %T", key, v, zero)
	}
	return t, nil
}

// Mutate is the typed form of Cache.Mutate.
func Mutate[T any](ctx context.Context, c *Cache, invalidate []Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Mutate(ctx, invalidate, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}
