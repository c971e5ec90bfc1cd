// Package cache memoizes season extraction results.
//
// Results are keyed by season year. A successful table never changes once a
// season is over, so by default it is kept for the life of the process.
// Failures are only kept for Policy.FailureTTL so that an unreachable source
// is retried on a later request.
package cache

import (
	"sync"
	"time"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/extract"
)

// Cache stores one extraction Result per season.
type Cache interface {
	Get(season int) (extract.Result, bool)
	Put(res extract.Result)
	Invalidate(season int)
	Clear()
}

// Policy controls how long entries live. Zero TTL keeps successful results
// forever; zero FailureTTL means failures are not cached at all.
type Policy struct {
	TTL        time.Duration
	FailureTTL time.Duration
}

type entry struct {
	res     extract.Result
	expires time.Time // zero: never
}

// Memory is an in-process Cache.
type Memory struct {
	mu      sync.Mutex
	policy  Policy
	entries map[int]entry
	now     func() time.Time
}

func NewMemory(p Policy) *Memory {
	return &Memory{policy: p, entries: make(map[int]entry), now: time.Now}
}

func (m *Memory) Get(season int) (extract.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[season]
	if !ok {
		return extract.Result{}, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, season)
		return extract.Result{}, false
	}
	return e.res, true
}

func (m *Memory) Put(res extract.Result) {
	var ttl time.Duration
	if res.OK() {
		ttl = m.policy.TTL
	} else {
		if m.policy.FailureTTL <= 0 {
			return
		}
		ttl = m.policy.FailureTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	e := entry{res: res}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[res.Season] = e
}

func (m *Memory) Invalidate(season int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, season)
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[int]entry)
}

// Len returns the number of live and not yet evicted entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
