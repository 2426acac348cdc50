package advice

import (
	"testing"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

func TestRecorderRecordAndDrain(t *testing.T) {
	r := NewRecorder(2)
	s := ExecutionSample{Mint: models.Mint{0: 1}, SubmittedAt: time.Now()}
	r.Record(s)

	select {
	case got := <-r.Samples():
		if got.Mint != s.Mint {
			t.Fatalf("unexpected sample: %+v", got)
		}
	default:
		t.Fatal("expected sample to be enqueued")
	}
}

func TestRecorderDropsWhenFull(t *testing.T) {
	r := NewRecorder(1)
	r.Record(ExecutionSample{})
	r.Record(ExecutionSample{}) // buffer full, should be dropped not block

	if r.Dropped() != 1 {
		t.Fatalf("expected 1 dropped sample, got %d", r.Dropped())
	}
}

func TestExecutionSampleLatency(t *testing.T) {
	start := time.Now()
	s := ExecutionSample{SubmittedAt: start, ConfirmedAt: start.Add(250 * time.Millisecond)}
	if s.Latency() != 250*time.Millisecond {
		t.Fatalf("expected 250ms latency, got %v", s.Latency())
	}
}
