// Package sigtracker is the registry of submitted-but-unconfirmed
// transaction signatures plus the trade metadata needed to realize P&L and
// make exit decisions once confirmation lands (spec §4.5), grounded on
// brain/src/signature_tracker.rs.
package sigtracker

import (
	"log"
	"sync"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

// Entry is a tracked transaction awaiting confirmation.
type Entry struct {
	Signature   models.Signature
	Mint        models.Mint
	TradeID     models.TradeID
	Side        models.Side
	EntryPrice  float64
	SizeSol     float64
	SubmittedAt time.Time
}

func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.SubmittedAt)
}

// ConfirmationStatus is the outcome Brain acts on once a tracked signature
// resolves, whether observed via streaming or via the polling fallback.
type ConfirmationStatus uint8

const (
	ConfirmationSuccess ConfirmationStatus = iota
	ConfirmationFailed
)

func (s ConfirmationStatus) String() string {
	if s == ConfirmationSuccess {
		return "SUCCESS"
	}
	return "FAILED"
}

func (s ConfirmationStatus) IsSuccess() bool { return s == ConfirmationSuccess }

// ConfirmationEvent is emitted exactly once per tracked signature: the
// first of {streaming confirm, polled confirm} wins (spec §4.5 ordering
// guarantee); downstream processing is idempotent under a second arrival
// because the entry has already been removed.
type ConfirmationEvent struct {
	Signature  models.Signature
	Mint       models.Mint
	TradeID    models.TradeID
	Side       models.Side
	Status     ConfirmationStatus
	EntryPrice float64
	SizeSol    float64
}

// Tracker is the thread-safe signature registry. A signature appears at
// most once (spec §3 global invariant).
type Tracker struct {
	mu      sync.RWMutex
	entries map[models.Signature]Entry
}

func New() *Tracker {
	return &Tracker{entries: make(map[models.Signature]Entry)}
}

func (t *Tracker) Track(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[e.Signature] = e
}

func (t *Tracker) IsTracked(sig models.Signature) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[sig]
	return ok
}

func (t *Tracker) Get(sig models.Signature) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[sig]
	return e, ok
}

// Remove deletes sig from the registry and returns its entry, if present.
// Called on confirmation — streaming or polled, whichever arrives first.
func (t *Tracker) Remove(sig models.Signature) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[sig]
	if ok {
		delete(t.entries, sig)
	}
	return e, ok
}

func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Tracker) AllSignatures() []models.Signature {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sigs := make([]models.Signature, 0, len(t.entries))
	for s := range t.entries {
		sigs = append(sigs, s)
	}
	return sigs
}

func (t *Tracker) All() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}

// CleanupStale removes entries older than maxAge and returns the count
// removed. The signature-tracker TTL sweep (spec §4.5, §5: 60-90s).
func (t *Tracker) CleanupStale(maxAge time.Duration) int {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for sig, e := range t.entries {
		if e.Age(now) > maxAge {
			log.Printf("sigtracker: stale (%s) %s %s mint=%s", e.Age(now), e.Side, sig.String()[:12], e.Mint.Short(12))
			delete(t.entries, sig)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("sigtracker: cleaned up %d stale signatures", removed)
	}
	return removed
}
