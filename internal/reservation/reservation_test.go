package reservation

import (
	"testing"
	"time"
)

func TestReservationBasic(t *testing.T) {
	m := New(time.Minute)
	mint := [32]byte{0: 1}
	tid := [16]byte{0: 1}

	if !m.Reserve(mint, tid) {
		t.Fatal("first reserve must succeed")
	}
	if m.Reserve(mint, [16]byte{0: 2}) {
		t.Fatal("second reserve on a held mint must fail")
	}
	if !m.IsReserved(mint) {
		t.Fatal("mint must be reserved")
	}
}

func TestReservationExpiry(t *testing.T) {
	m := New(time.Minute)
	mint := [32]byte{0: 1}

	if !m.ReserveWithTTL(mint, [16]byte{0: 1}, 10*time.Millisecond) {
		t.Fatal("reserve must succeed")
	}
	time.Sleep(20 * time.Millisecond)
	if m.IsReserved(mint) {
		t.Fatal("expired reservation must be treated as absent")
	}
	if !m.Reserve(mint, [16]byte{0: 2}) {
		t.Fatal("reserve must succeed again after expiry")
	}
}

func TestCleanupExpired(t *testing.T) {
	m := New(10 * time.Millisecond)
	m.Reserve([32]byte{0: 1}, [16]byte{0: 1})
	m.Reserve([32]byte{0: 2}, [16]byte{0: 2})
	time.Sleep(20 * time.Millisecond)

	removed := m.CleanupExpired()
	if removed != 2 {
		t.Fatalf("CleanupExpired removed %d, want 2", removed)
	}
	if m.TotalCount() != 0 {
		t.Fatalf("TotalCount = %d, want 0", m.TotalCount())
	}
}

func TestRelease(t *testing.T) {
	m := New(time.Minute)
	mint := [32]byte{0: 1}
	m.Reserve(mint, [16]byte{0: 1})

	m.Release(mint)
	if m.IsReserved(mint) {
		t.Fatal("mint must not be reserved after release")
	}

	// Releasing a mint that was never reserved must be a no-op.
	m.Release([32]byte{0: 99})
}
