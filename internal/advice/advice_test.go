package advice

import (
	"testing"
	"time"

	"github.com/rawblock/trade-brain/internal/wire"
)

func TestEvaluateRejectsStale(t *testing.T) {
	p := DefaultPolicy()
	adv := wire.ExitAdvice{Confidence: 90, Reason: uint8(ReasonTarget)}
	now := time.Now()
	receivedAt := now.Add(-10 * time.Second)

	_, reason := Evaluate(adv, p, receivedAt, now)
	if reason != RejectStale {
		t.Fatalf("expected RejectStale, got %q", reason)
	}
}

func TestEvaluateRejectsLowConfidence(t *testing.T) {
	p := DefaultPolicy()
	adv := wire.ExitAdvice{Confidence: 10, Reason: uint8(ReasonTarget)}
	now := time.Now()

	_, reason := Evaluate(adv, p, now, now)
	if reason != RejectLowConfidence {
		t.Fatalf("expected RejectLowConfidence, got %q", reason)
	}
}

func TestEvaluateAcceptsFreshConfidentTarget(t *testing.T) {
	p := DefaultPolicy()
	adv := wire.ExitAdvice{Confidence: 80, Reason: uint8(ReasonTarget)}
	now := time.Now()

	adj, reason := Evaluate(adv, p, now, now)
	if reason != RejectNone {
		t.Fatalf("expected acceptance, got reject %q", reason)
	}
	if adj.SuggestExitPct != 30 {
		t.Fatalf("expected SuggestExitPct=30, got %d", adj.SuggestExitPct)
	}
}

func TestEvaluateStopSuggestsFullExit(t *testing.T) {
	p := DefaultPolicy()
	adv := wire.ExitAdvice{Confidence: 90, Reason: uint8(ReasonStop)}
	now := time.Now()

	adj, _ := Evaluate(adv, p, now, now)
	if adj.SuggestExitPct != 100 {
		t.Fatalf("expected SuggestExitPct=100, got %d", adj.SuggestExitPct)
	}
}

func TestEvaluateFadeCapsHoldAdjustment(t *testing.T) {
	p := DefaultPolicy()
	p.MaxHoldSecsAdj = 15
	adv := wire.ExitAdvice{Confidence: 90, Reason: uint8(ReasonFade)}
	now := time.Now()

	adj, _ := Evaluate(adv, p, now, now)
	if adj.HoldSecsDelta != -15 {
		t.Fatalf("expected capped HoldSecsDelta=-15, got %d", adj.HoldSecsDelta)
	}
}
