package models

import "time"

// WatchedSignature is owned by the signature tracker: a submitted but
// unconfirmed transaction plus the trade metadata needed to act once
// confirmation lands.
type WatchedSignature struct {
	Signature          Signature
	Mint                Mint
	TradeID             TradeID
	Side                Side
	SizeSol             float64
	EntryPriceLamports  uint64
	SlippageBps         uint16
	FeeBps              uint16
	ProfitTargetCents   int32
	StopLossCents       int32
	SubmittedAt         time.Time
}

// Age returns how long the signature has been tracked.
func (w WatchedSignature) Age(now time.Time) time.Duration {
	return now.Sub(w.SubmittedAt)
}

// ProfitTargets is the tiered take-profit schedule, in percent gain.
type ProfitTargets struct {
	Tier1 float64
	Tier2 float64
	Tier3 float64
}

// Position is an open trade: created on Confirm(Buy, Success), destroyed on
// a full exit, manual exit, full stop-loss, or full time-decay exit.
type Position struct {
	Mint             Mint
	TradeID          TradeID
	EntryTime        time.Time
	EntryTimestamp   int64
	SizeSol          float64
	SizeUsd          float64
	EntryPriceSol    float64
	Tokens           float64
	EntryConfidence  uint8
	ProfitTargets    ProfitTargets
	StopLossPct      float64
	MaxHoldSecs      int64
	TriggerSource    string
}

// PnLPercent computes the percentage price change relative to entry.
func (p Position) PnLPercent(currentPriceSol float64) float64 {
	entry := p.EntryPriceSol
	if entry <= 0 {
		entry = 0.0001
	}
	return (currentPriceSol - p.EntryPriceSol) / entry * 100.0
}

// CurrentValueUsd returns the position's mark-to-market USD value.
func (p Position) CurrentValueUsd(currentPriceSol, solPriceUsd float64) float64 {
	return p.Tokens * currentPriceSol * solPriceUsd
}

// UnrealizedPnLUsd returns unrealized USD profit/loss at the given mark.
func (p Position) UnrealizedPnLUsd(currentPriceSol, solPriceUsd float64) float64 {
	return p.CurrentValueUsd(currentPriceSol, solPriceUsd) - p.SizeUsd
}

// MintState enumerates the per-mint state machine states (spec §4.9).
type MintState uint8

const (
	StateIdle MintState = iota
	StateReserved
	StatePendingBuy
	StateInPosition
	StateExiting
	StateClosed
)

func (s MintState) String() string {
	switch s {
	case StateReserved:
		return "Reserved"
	case StatePendingBuy:
		return "PendingBuy"
	case StateInPosition:
		return "InPosition"
	case StateExiting:
		return "Exiting"
	case StateClosed:
		return "Closed"
	default:
		return "Idle"
	}
}

// ExitReasonKind tags the variant carried by ExitReason.
type ExitReasonKind uint8

const (
	ExitProfitTarget ExitReasonKind = iota
	ExitStopLoss
	ExitTimeDecay
	ExitVolumeDrop
	ExitEmergency
)

// ExitReason is a tagged variant describing why the exit policy fired.
// It is a pure function of (position, features, now) — see internal/position.
type ExitReason struct {
	Kind        ExitReasonKind
	Tier        uint8
	PnLPercent  float64
	ExitPercent uint8
	ElapsedSecs int64
	Volume5s    float64
	Reason      string
}

func (r ExitReason) String() string {
	switch r.Kind {
	case ExitProfitTarget:
		return "profit_target"
	case ExitStopLoss:
		return "stop_loss"
	case ExitTimeDecay:
		return "time_decay"
	case ExitVolumeDrop:
		return "volume_drop"
	case ExitEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}
