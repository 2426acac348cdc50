package sigtracker

import (
	"context"
	"log"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

// DefaultPollInterval and DefaultStaleAge match spec §4.5 / §5's
// "every 2s" polling cadence and 90s stale cutoff.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultStaleAge     = 90 * time.Second
)

// StatusChecker is the external chain RPC client's batch signature-status
// query. Implementing it (and the chain RPC transport underneath) is
// outside this spec's scope (spec §1 "deliberately out of scope");
// cmd/brain constructs no Poller, so no implementation is wired in.
type StatusChecker interface {
	GetSignatureStatuses(ctx context.Context, sigs []models.Signature) ([]*RPCStatus, error)
}

// RPCStatus is the subset of an RPC signature-status response the poller
// needs: whether the signature has reached a final confirmation state, and
// whether it errored.
type RPCStatus struct {
	Confirmed bool
	Err       bool
}

// Poller periodically batches all tracked signatures through StatusChecker
// and emits a synthetic ConfirmationEvent for each one that resolves,
// backing up the streaming confirmation path (spec §4.5).
type Poller struct {
	tracker      *Tracker
	checker      StatusChecker
	pollInterval time.Duration
	staleAge     time.Duration
}

func NewPoller(tracker *Tracker, checker StatusChecker, pollInterval, staleAge time.Duration) *Poller {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if staleAge <= 0 {
		staleAge = DefaultStaleAge
	}
	return &Poller{tracker: tracker, checker: checker, pollInterval: pollInterval, staleAge: staleAge}
}

// Run drives the poll loop until ctx is cancelled, invoking handler once
// per resolved signature, then sweeps stale entries each tick.
func (p *Poller) Run(ctx context.Context, handler func(ConfirmationEvent)) {
	log.Printf("sigtracker: RPC polling started (interval=%s, stale=%s)", p.pollInterval, p.staleAge)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx, handler)
		}
	}
}

func (p *Poller) tick(ctx context.Context, handler func(ConfirmationEvent)) {
	sigs := p.tracker.AllSignatures()
	if len(sigs) > 0 {
		statuses, err := p.checker.GetSignatureStatuses(ctx, sigs)
		if err != nil {
			log.Printf("sigtracker: RPC signature status query failed: %v", err)
		} else {
			for i, st := range statuses {
				if st == nil || !st.Confirmed {
					continue
				}
				sig := sigs[i]
				entry, ok := p.tracker.Remove(sig)
				if !ok {
					continue // already resolved by the streaming path
				}
				status := ConfirmationSuccess
				if st.Err {
					status = ConfirmationFailed
				}
				log.Printf("sigtracker: RPC poll confirmed %s", sig.String()[:12])
				handler(ConfirmationEvent{
					Signature:  sig,
					Mint:       entry.Mint,
					TradeID:    entry.TradeID,
					Side:       entry.Side,
					Status:     status,
					EntryPrice: entry.EntryPrice,
					SizeSol:    entry.SizeSol,
				})
			}
		}
	}

	p.tracker.CleanupStale(p.staleAge)
}
