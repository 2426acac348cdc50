// Package fsm implements the authoritative per-mint state machine
// (spec §4.9): Idle -> Reserved -> PendingBuy -> InPosition -> Exiting ->
// Closed. Features, caches, and reservations are advisory or derivable;
// Brain's decisions are gated through these transitions.
package fsm

import (
	"fmt"
	"sync"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

// TransitionError reports an attempted transition that violated the state
// machine's guards (spec §7: "logged, the offending message is dropped,
// and the state remains unchanged").
type TransitionError struct {
	Mint  models.Mint
	From  models.MintState
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("fsm: mint %s: event %q invalid from state %s", e.Mint.Short(8), e.Event, e.From)
}

// Record is the per-mint bookkeeping the machine tracks alongside state.
// A mint with no record is implicitly Idle.
type Record struct {
	State       models.MintState
	TradeID     models.TradeID
	SubmittedAt time.Time
	SellRetries int
}

// Machine holds one Record per mint under a single mutex, so transitions
// are serialized within a mint (spec §5's ordering guarantee) and, because
// that mutex is shared by all mints, across mints as well.
type Machine struct {
	mu             sync.Mutex
	mints          map[models.Mint]*Record
	maxSellRetries int
}

func New(maxSellRetries int) *Machine {
	if maxSellRetries <= 0 {
		maxSellRetries = 3
	}
	return &Machine{mints: make(map[models.Mint]*Record), maxSellRetries: maxSellRetries}
}

func (m *Machine) Get(mint models.Mint) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.mints[mint]
	if !ok {
		return Record{State: models.StateIdle}, false
	}
	return *r, true
}

func (m *Machine) stateLocked(mint models.Mint) models.MintState {
	if r, ok := m.mints[mint]; ok {
		return r.State
	}
	return models.StateIdle
}

// Open: Idle -> Reserved. Callers must have already secured reservation.Reserve
// and confirmed dedup.IsDuplicate is false before calling (spec §4.9 row 1
// guards are enforced by the caller, not the machine).
func (m *Machine) Open(mint models.Mint, tradeID models.TradeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.stateLocked(mint)
	if cur != models.StateIdle && cur != models.StateClosed {
		return &TransitionError{Mint: mint, From: cur, Event: "open"}
	}
	m.mints[mint] = &Record{State: models.StateReserved, TradeID: tradeID}
	return nil
}

// OnBuyAck: Reserved -> PendingBuy, guarded on trade id match.
func (m *Machine) OnBuyAck(mint models.Mint, tradeID models.TradeID, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.mints[mint]
	if !ok || r.State != models.StateReserved {
		return &TransitionError{Mint: mint, From: m.stateLocked(mint), Event: "buy_ack"}
	}
	if r.TradeID != tradeID {
		return &TransitionError{Mint: mint, From: r.State, Event: "buy_ack:trade_id_mismatch"}
	}
	r.State = models.StatePendingBuy
	r.SubmittedAt = now
	return nil
}

// OnReservationExpired: Reserved -> Idle. Caller supplies the TTL check
// result via the reservation manager; the machine just performs the
// transition and forgets the mint (absent == Idle).
func (m *Machine) OnReservationExpired(mint models.Mint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.stateLocked(mint)
	if cur != models.StateReserved {
		return &TransitionError{Mint: mint, From: cur, Event: "reservation_expired"}
	}
	delete(m.mints, mint)
	return nil
}

// OnBuyConfirmed: PendingBuy -> InPosition.
func (m *Machine) OnBuyConfirmed(mint models.Mint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.mints[mint]
	if !ok || r.State != models.StatePendingBuy {
		return &TransitionError{Mint: mint, From: m.stateLocked(mint), Event: "buy_confirmed"}
	}
	r.State = models.StateInPosition
	return nil
}

// OnBuyFailed: PendingBuy -> Closed, on Confirm(BUY, Failed) or tracker TTL.
func (m *Machine) OnBuyFailed(mint models.Mint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.mints[mint]
	if !ok || r.State != models.StatePendingBuy {
		return &TransitionError{Mint: mint, From: m.stateLocked(mint), Event: "buy_failed"}
	}
	r.State = models.StateClosed
	return nil
}

// OnExitFired: InPosition -> Exiting, when the exit policy selects a reason.
func (m *Machine) OnExitFired(mint models.Mint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.mints[mint]
	if !ok || r.State != models.StateInPosition {
		return &TransitionError{Mint: mint, From: m.stateLocked(mint), Event: "exit_fired"}
	}
	r.State = models.StateExiting
	return nil
}

// OnManualExit: InPosition -> Closed.
func (m *Machine) OnManualExit(mint models.Mint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.mints[mint]
	if !ok || r.State != models.StateInPosition {
		return &TransitionError{Mint: mint, From: m.stateLocked(mint), Event: "manual_exit"}
	}
	r.State = models.StateClosed
	return nil
}

// OnSellAck records the sell submission time; state remains Exiting.
func (m *Machine) OnSellAck(mint models.Mint, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.mints[mint]
	if !ok || r.State != models.StateExiting {
		return &TransitionError{Mint: mint, From: m.stateLocked(mint), Event: "sell_ack"}
	}
	r.SubmittedAt = now
	return nil
}

// OnSellConfirmed: Exiting -> InPosition (partial, exitPct<100) or
// Exiting -> Closed (full, exitPct==100).
func (m *Machine) OnSellConfirmed(mint models.Mint, exitPct uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.mints[mint]
	if !ok || r.State != models.StateExiting {
		return &TransitionError{Mint: mint, From: m.stateLocked(mint), Event: "sell_confirmed"}
	}
	if exitPct >= 100 {
		r.State = models.StateClosed
	} else {
		r.State = models.StateInPosition
		r.SellRetries = 0
	}
	return nil
}

// OnSellFailed: Exiting -> InPosition (retry, retries<max) or
// Exiting -> Closed (escalate, retries>=max).
func (m *Machine) OnSellFailed(mint models.Mint) (escalated bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.mints[mint]
	if !ok || r.State != models.StateExiting {
		return false, &TransitionError{Mint: mint, From: m.stateLocked(mint), Event: "sell_failed"}
	}
	r.SellRetries++
	if r.SellRetries >= m.maxSellRetries {
		r.State = models.StateClosed
		return true, nil
	}
	r.State = models.StateInPosition
	return false, nil
}

// Forget drops the record for mint, allowing Idle re-entry. Called after a
// Closed mint's terminal bookkeeping (e.g. TradeClosed emitted) has settled.
func (m *Machine) Forget(mint models.Mint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.mints, mint)
}

func (m *Machine) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mints)
}
