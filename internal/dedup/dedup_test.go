package dedup

import (
	"testing"
	"time"
)

func TestIsDuplicateBasic(t *testing.T) {
	d := New(1000, time.Minute)
	tid := [16]byte{0: 1}

	if d.IsDuplicate(tid, 1) {
		t.Fatal("first observation must not be a duplicate")
	}
	if !d.IsDuplicate(tid, 1) {
		t.Fatal("second observation of the same pair must be a duplicate")
	}
}

func TestIsDuplicateDifferentKind(t *testing.T) {
	d := New(1000, time.Minute)
	tid := [16]byte{0: 1}

	d.IsDuplicate(tid, 1)
	if d.IsDuplicate(tid, 2) {
		t.Fatal("same trade id with a different kind must not be a duplicate")
	}
}

func TestIsDuplicateDifferentTradeID(t *testing.T) {
	d := New(1000, time.Minute)
	d.IsDuplicate([16]byte{0: 1}, 1)
	if d.IsDuplicate([16]byte{0: 2}, 1) {
		t.Fatal("different trade id must not be a duplicate")
	}
}

func TestIsDuplicateTTLExpiry(t *testing.T) {
	d := New(1000, 10*time.Millisecond)
	tid := [16]byte{0: 1}

	d.IsDuplicate(tid, 1)
	time.Sleep(20 * time.Millisecond)
	if d.IsDuplicate(tid, 1) {
		t.Fatal("entry older than TTL must not be reported as duplicate")
	}
}

func TestStats(t *testing.T) {
	d := New(1000, time.Minute)
	tid := [16]byte{0: 1}

	d.IsDuplicate(tid, 1)
	d.IsDuplicate(tid, 1)
	d.IsDuplicate([16]byte{0: 2}, 1)

	s := d.Stats()
	if s.TotalChecked != 3 {
		t.Fatalf("TotalChecked = %d, want 3", s.TotalChecked)
	}
	if s.DuplicatesDropped != 1 {
		t.Fatalf("DuplicatesDropped = %d, want 1", s.DuplicatesDropped)
	}
	if s.UniqueMessages != 2 {
		t.Fatalf("UniqueMessages = %d, want 2", s.UniqueMessages)
	}
	if rate := s.DuplicateRate(); rate < 0.33 || rate > 0.34 {
		t.Fatalf("DuplicateRate = %v, want ~0.333", rate)
	}
}

func TestCacheEviction(t *testing.T) {
	d := New(2, 5*time.Millisecond)
	d.IsDuplicate([16]byte{0: 1}, 1)
	d.IsDuplicate([16]byte{0: 2}, 1)
	time.Sleep(10 * time.Millisecond)
	// Exceeding capacity triggers a stale sweep; both prior entries are
	// past TTL by now and should be evicted.
	d.IsDuplicate([16]byte{0: 3}, 1)

	if d.CacheSize() > 2 {
		t.Fatalf("cache size = %d, want <= 2 after eviction", d.CacheSize())
	}
}

func TestClear(t *testing.T) {
	d := New(1000, time.Minute)
	d.IsDuplicate([16]byte{0: 1}, 1)
	d.Clear()
	if d.CacheSize() != 0 {
		t.Fatalf("cache size = %d, want 0 after Clear", d.CacheSize())
	}
}
