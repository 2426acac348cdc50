package sigtracker

import (
	"context"
	"testing"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

func TestTrackAndRemove(t *testing.T) {
	tr := New()
	sig := models.Signature{0: 1}
	e := Entry{Signature: sig, Mint: models.Mint{0: 2}, SubmittedAt: time.Now()}

	tr.Track(e)
	if !tr.IsTracked(sig) {
		t.Fatal("signature must be tracked")
	}
	if tr.Count() != 1 {
		t.Fatalf("count = %d, want 1", tr.Count())
	}

	got, ok := tr.Remove(sig)
	if !ok || got.Signature != sig {
		t.Fatal("remove must return the tracked entry")
	}
	if tr.IsTracked(sig) {
		t.Fatal("signature must not be tracked after remove")
	}

	// A second remove of the same (already removed) signature is a no-op,
	// matching the idempotence guarantee in spec §4.5.
	if _, ok := tr.Remove(sig); ok {
		t.Fatal("second remove must report not found")
	}
}

func TestCleanupStale(t *testing.T) {
	tr := New()
	tr.Track(Entry{Signature: models.Signature{0: 1}, SubmittedAt: time.Now().Add(-100 * time.Second)})
	tr.Track(Entry{Signature: models.Signature{0: 2}, SubmittedAt: time.Now()})

	removed := tr.CleanupStale(90 * time.Second)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if tr.Count() != 1 {
		t.Fatalf("count = %d, want 1", tr.Count())
	}
}

func TestCleanupStaleZeroEmptiesAll(t *testing.T) {
	tr := New()
	tr.Track(Entry{Signature: models.Signature{0: 1}, SubmittedAt: time.Now()})
	tr.Track(Entry{Signature: models.Signature{0: 2}, SubmittedAt: time.Now()})

	removed := tr.CleanupStale(0)
	if removed != 2 || tr.Count() != 0 {
		t.Fatalf("cleanup_stale(0) must empty the tracker, got removed=%d count=%d", removed, tr.Count())
	}
}

type fakeChecker struct {
	statuses []*RPCStatus
}

func (f *fakeChecker) GetSignatureStatuses(ctx context.Context, sigs []models.Signature) ([]*RPCStatus, error) {
	return f.statuses, nil
}

func TestPollerEmitsConfirmationOnce(t *testing.T) {
	tr := New()
	sig := models.Signature{0: 9}
	tr.Track(Entry{Signature: sig, Mint: models.Mint{0: 1}, SubmittedAt: time.Now()})

	checker := &fakeChecker{statuses: []*RPCStatus{{Confirmed: true, Err: false}}}
	p := NewPoller(tr, checker, time.Millisecond, time.Minute)

	var events []ConfirmationEvent
	p.tick(context.Background(), func(e ConfirmationEvent) { events = append(events, e) })

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Status != ConfirmationSuccess {
		t.Fatalf("status = %v, want success", events[0].Status)
	}
	if tr.IsTracked(sig) {
		t.Fatal("confirmed signature must be removed from the tracker")
	}

	// A second tick over an empty tracker must not re-emit.
	events = nil
	p.tick(context.Background(), func(e ConfirmationEvent) { events = append(events, e) })
	if len(events) != 0 {
		t.Fatalf("got %d events on second tick, want 0", len(events))
	}
}
