// Package dedup suppresses repeat side-effects for an identical
// (trade-id, message-kind) pair within a TTL window (spec §4.3), grounded
// on brain/src/udp_bus/deduplicator.rs.
package dedup

import (
	"sync"
	"time"
)

// key is kept as raw bytes rather than pkg/models.TradeID so dedup stays a
// leaf package with no dependency on the domain model.
type key struct {
	tradeID [16]byte
	kind    uint8
}

type entry struct {
	lastSeen time.Time
}

// Stats mirrors DeduplicationStats in the original corpus, exposed by
// SPEC_FULL.md's admin API as GET /stats/dedup.
type Stats struct {
	TotalChecked      uint64
	DuplicatesDropped uint64
	UniqueMessages    uint64
	CacheEvictions    uint64
}

func (s Stats) DuplicateRate() float64 {
	if s.TotalChecked == 0 {
		return 0
	}
	return float64(s.DuplicatesDropped) / float64(s.TotalChecked)
}

// Deduplicator is a thread-safe, TTL-bounded uniqueness cache keyed on
// (trade_id, kind). On any internal failure it must conservatively return
// false (process the message) — in this implementation there is no
// internal failure mode, so that guarantee holds trivially.
type Deduplicator struct {
	mu          sync.Mutex
	cache       map[key]entry
	maxCapacity int
	ttl         time.Duration
	stats       Stats
}

func New(maxCapacity int, ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		cache:       make(map[key]entry),
		maxCapacity: maxCapacity,
		ttl:         ttl,
	}
}

// IsDuplicate returns true iff (tradeID, kind) was observed within the TTL.
// A non-duplicate observation is also recorded.
func (d *Deduplicator) IsDuplicate(tradeID [16]byte, kind uint8) bool {
	now := time.Now()
	k := key{tradeID: tradeID, kind: kind}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.TotalChecked++

	if e, ok := d.cache[k]; ok && now.Sub(e.lastSeen) < d.ttl {
		d.stats.DuplicatesDropped++
		return true
	}

	d.cache[k] = entry{lastSeen: now}
	d.stats.UniqueMessages++

	if len(d.cache) > d.maxCapacity {
		d.evictStaleLocked(now)
	}
	return false
}

func (d *Deduplicator) evictStaleLocked(now time.Time) {
	evicted := 0
	for k, e := range d.cache {
		if now.Sub(e.lastSeen) >= d.ttl {
			delete(d.cache, k)
			evicted++
		}
	}
	d.stats.CacheEvictions += uint64(evicted)
}

func (d *Deduplicator) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *Deduplicator) ResetStats() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = Stats{}
}

func (d *Deduplicator) CacheSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cache)
}

func (d *Deduplicator) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = make(map[key]entry)
}
