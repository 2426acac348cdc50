package advice

import (
	"log"
	"sync"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

// ExecutionSample is one recorded fill, kept for latency analysis. Never
// read on the decision path (spec §4.11: "not on the critical decision
// path"); a consumer reads them through Recorder.Samples().
type ExecutionSample struct {
	Mint          models.Mint
	TradeID       models.TradeID
	Side          models.Side
	Success       bool
	SubmittedAt   time.Time
	ConfirmedAt   time.Time
	SlippageBps   uint16
}

func (s ExecutionSample) Latency() time.Duration {
	return s.ConfirmedAt.Sub(s.SubmittedAt)
}

// Recorder buffers execution telemetry on a bounded channel so a slow
// consumer (store writer, dashboard) can never block decision processing.
// Grounded on the teacher's bounded-channel broadcast idiom in
// internal/api/websocket.go.
type Recorder struct {
	samples chan ExecutionSample
	mu      sync.Mutex
	dropped uint64
}

func NewRecorder(bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &Recorder{samples: make(chan ExecutionSample, bufferSize)}
}

// Record enqueues s, dropping (and counting) it if the buffer is full
// rather than blocking the caller.
func (r *Recorder) Record(s ExecutionSample) {
	select {
	case r.samples <- s:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
		log.Printf("advice: telemetry buffer full, dropping sample for mint %s", s.Mint.Short(8))
	}
}

func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Samples exposes the channel for a consumer to range over.
func (r *Recorder) Samples() <-chan ExecutionSample {
	return r.samples
}

func (r *Recorder) Close() {
	close(r.samples)
}
