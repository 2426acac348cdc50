package store

import (
	"path/filepath"
	"testing"
)

func TestLoadCheckpointMissingFileIsAbsent(t *testing.T) {
	dir := t.TempDir()
	cp, ok, err := LoadCheckpoint(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected absent checkpoint for missing file")
	}
	if cp != (Checkpoint{}) {
		t.Fatalf("expected zero value, got %+v", cp)
	}
}

func TestSaveThenLoadCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.json")
	want := Checkpoint{LastProcessedSlot: 12345, LastUpdated: 1700000000}

	if err := SaveCheckpoint(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected present checkpoint")
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestSaveCheckpointOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.json")

	SaveCheckpoint(path, Checkpoint{LastProcessedSlot: 1, LastUpdated: 1})
	SaveCheckpoint(path, Checkpoint{LastProcessedSlot: 2, LastUpdated: 2})

	got, ok, err := LoadCheckpoint(path)
	if err != nil || !ok {
		t.Fatalf("load after overwrite: ok=%v err=%v", ok, err)
	}
	if got.LastProcessedSlot != 2 {
		t.Fatalf("expected latest checkpoint, got %+v", got)
	}
}
