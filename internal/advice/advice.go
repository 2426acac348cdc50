// Package advice evaluates incoming advisory messages (spec §4.11): they
// are hints, never mandates, and can only nudge timers or slippage bounds
// within explicit caps. Rejected when stale or under-confident. Carries
// forward, in spirit, the webhook/alert-fan-out shape of the teacher's
// deleted watchlist.go and alert_system.go, rebuilt from scratch against
// the ExitAdvice wire type rather than Bitcoin watch-address events.
package advice

import (
	"time"

	"github.com/rawblock/trade-brain/internal/wire"
)

// Reason mirrors the ExitAdvice wire enum (spec §6.1: target, stop, fade).
type Reason uint8

const (
	ReasonTarget Reason = iota
	ReasonStop
	ReasonFade
)

// Policy bounds how far an advisory may adjust a position's exit knobs.
type Policy struct {
	MinConfidence     uint8
	MaxAge            time.Duration
	MaxSlippageBpsAdj int16
	MaxHoldSecsAdj    int64
}

func DefaultPolicy() Policy {
	return Policy{
		MinConfidence:     50,
		MaxAge:            3 * time.Second,
		MaxSlippageBpsAdj: 50,
		MaxHoldSecsAdj:    30,
	}
}

// Adjustment is the bounded nudge an accepted advisory produces. Zero
// value means "no change" for that field.
type Adjustment struct {
	SlippageBpsDelta int16
	HoldSecsDelta    int64
	SuggestExitPct   uint8 // 0 = no suggestion
}

// RejectReason explains why an advisory was not applied.
type RejectReason string

const (
	RejectNone        RejectReason = ""
	RejectStale       RejectReason = "stale"
	RejectLowConfidence RejectReason = "low_confidence"
)

// Evaluate decides whether adv should be applied, and if so, the capped
// adjustment it produces. now is the evaluation time; receivedAt is when
// Brain received the message (recency is measured off receivedAt, not the
// advisory's own timestamp_ns, since clocks across processes may drift).
func Evaluate(adv wire.ExitAdvice, p Policy, receivedAt, now time.Time) (Adjustment, RejectReason) {
	if now.Sub(receivedAt) > p.MaxAge {
		return Adjustment{}, RejectStale
	}
	if adv.Confidence < p.MinConfidence {
		return Adjustment{}, RejectLowConfidence
	}

	var adj Adjustment
	switch Reason(adv.Reason) {
	case ReasonTarget:
		adj.SuggestExitPct = 30
	case ReasonStop:
		adj.SuggestExitPct = 100
	case ReasonFade:
		adj.HoldSecsDelta = -capInt64(p.MaxHoldSecsAdj, p.MaxHoldSecsAdj)
	}
	return adj, RejectNone
}

func capInt64(v, max int64) int64 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}
