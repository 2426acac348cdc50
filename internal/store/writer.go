package store

import (
	"context"
	"log"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

// writeJob is a batch of domain writes enqueued together so SaveTradeBatch
// can honor the token-before-trade ordering in one transaction.
type writeJob struct {
	tokens []models.Token
	trades []models.Trade
}

// Writer batches writes onto a bounded channel so the decision path never
// blocks on Postgres (spec §4.12, ChannelOverflow in spec §7). Flushes on
// a fixed interval or when a batch fills, whichever comes first.
type Writer struct {
	store     *Store
	jobs      chan writeJob
	flushEvery time.Duration
	batchSize  int
	dropped    uint64
}

func NewWriter(s *Store, bufferSize, batchSize int, flushEvery time.Duration) *Writer {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if batchSize <= 0 {
		batchSize = 32
	}
	if flushEvery <= 0 {
		flushEvery = 500 * time.Millisecond
	}
	return &Writer{store: s, jobs: make(chan writeJob, bufferSize), flushEvery: flushEvery, batchSize: batchSize}
}

// Enqueue submits tokens/trades for a future batch commit. Non-blocking:
// a full buffer drops the job, per the ChannelOverflow taxonomy
// ("producer decides; logged at rate-limited cadence"). The first drop and
// every 100th drop after it are logged.
func (w *Writer) Enqueue(tokens []models.Token, trades []models.Trade) {
	select {
	case w.jobs <- writeJob{tokens: tokens, trades: trades}:
	default:
		w.dropped++
		if w.dropped == 1 || w.dropped%100 == 0 {
			log.Printf("store: writer buffer full, dropping batch of %d trades (%d dropped so far)", len(trades), w.dropped)
		}
	}
}

func (w *Writer) Dropped() uint64 { return w.dropped }

// Run drains jobs until ctx is cancelled, committing the pending writes on
// each flush tick or as soon as at least batchSize trades have accumulated.
// A job that arrives just below the limit can push one commit past
// batchSize trades.
func (w *Writer) Run(ctx context.Context) {
	ticker := time.NewTicker(w.flushEvery)
	defer ticker.Stop()

	var pendingTokens []models.Token
	var pendingTrades []models.Trade

	flush := func() {
		if len(pendingTokens) == 0 && len(pendingTrades) == 0 {
			return
		}
		if err := w.store.SaveTradeBatch(ctx, pendingTokens, pendingTrades); err != nil {
			log.Printf("store: batch commit failed: %v", err)
		}
		pendingTokens = pendingTokens[:0]
		pendingTrades = pendingTrades[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case job := <-w.jobs:
			pendingTokens = append(pendingTokens, job.tokens...)
			pendingTrades = append(pendingTrades, job.trades...)
			if len(pendingTrades) >= w.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
