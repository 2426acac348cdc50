package position

import (
	"testing"

	"github.com/rawblock/trade-brain/pkg/models"
)

func mkPosition(mint byte, entry float64) models.Position {
	return models.Position{
		Mint:          models.Mint{0: mint},
		EntryPriceSol: entry,
		SizeSol:       1.0,
		SizeUsd:       150,
		Tokens:        1000,
		ProfitTargets: models.ProfitTargets{Tier1: 20, Tier2: 50, Tier3: 90},
		StopLossPct:   15,
		MaxHoldSecs:   300,
	}
}

func TestAddAndCapacityExceeded(t *testing.T) {
	s := NewStore(1)
	if err := s.Add(mkPosition(1, 0.001)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := s.Add(mkPosition(2, 0.001)); err != ErrCapacityExceeded {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	s := NewStore(2)
	p := mkPosition(1, 0.001)
	s.Add(p)
	if err := s.Add(p); err != nil {
		t.Fatalf("re-add of same mint must be idempotent, got %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("expected 1 position, got %d", s.Count())
	}
}

func TestReduceSizeScalesProportionally(t *testing.T) {
	s := NewStore(2)
	s.Add(mkPosition(1, 0.001))
	mint := models.Mint{0: 1}

	if err := s.ReduceSize(mint, 30); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	p, _ := s.Get(mint)
	if p.SizeSol != 0.7 {
		t.Fatalf("expected SizeSol=0.7, got %v", p.SizeSol)
	}
}

func TestRemoveDeletesPosition(t *testing.T) {
	s := NewStore(2)
	mint := models.Mint{0: 1}
	s.Add(mkPosition(1, 0.001))
	s.Remove(mint)
	if _, ok := s.Get(mint); ok {
		t.Fatal("expected position to be removed")
	}
}

func TestEvaluateTierOrdering(t *testing.T) {
	p := mkPosition(1, 0.001)

	// pnl_pct=30 (0.0013): only tier1 (>=20) fires, not tier2/tier3.
	r := Evaluate(p, Snapshot{CurrentPriceSol: 0.0013})
	if r == nil || r.Kind != models.ExitProfitTarget || r.Tier != 1 || r.ExitPercent != 30 {
		t.Fatalf("expected tier1 30%%, got %+v", r)
	}

	// pnl_pct=60 (0.0016): tier2 fires.
	r = Evaluate(p, Snapshot{CurrentPriceSol: 0.0016})
	if r == nil || r.Tier != 2 || r.ExitPercent != 60 {
		t.Fatalf("expected tier2 60%%, got %+v", r)
	}

	// pnl_pct=100 (0.002): tier3 fires.
	r = Evaluate(p, Snapshot{CurrentPriceSol: 0.002})
	if r == nil || r.Tier != 3 || r.ExitPercent != 100 {
		t.Fatalf("expected tier3 100%%, got %+v", r)
	}
}

func TestEvaluateStopLoss(t *testing.T) {
	p := mkPosition(1, 0.001)
	r := Evaluate(p, Snapshot{CurrentPriceSol: 0.00085}) // pnl_pct=-15
	if r == nil || r.Kind != models.ExitStopLoss || r.ExitPercent != 100 {
		t.Fatalf("expected stop_loss 100%%, got %+v", r)
	}
}

func TestEvaluateTimeDecay(t *testing.T) {
	p := mkPosition(1, 0.001)
	p.MaxHoldSecs = 60
	r := Evaluate(p, Snapshot{CurrentPriceSol: 0.001005, ElapsedSecs: 60}) // pnl tiny, within stop loss
	if r == nil || r.Kind != models.ExitTimeDecay {
		t.Fatalf("expected time_decay, got %+v", r)
	}
}

func TestEvaluateVolumeDrop(t *testing.T) {
	p := mkPosition(1, 0.001)
	p.MaxHoldSecs = 3600
	// pnl_pct=4, vol_5s=0.3, elapsed=35s
	r := Evaluate(p, Snapshot{CurrentPriceSol: 0.00104, Vol5sSol: 0.3, ElapsedSecs: 35})
	if r == nil || r.Kind != models.ExitVolumeDrop {
		t.Fatalf("expected volume_drop, got %+v", r)
	}
}

func TestEvaluateNoExitWhenNothingFires(t *testing.T) {
	p := mkPosition(1, 0.001)
	p.MaxHoldSecs = 3600
	r := Evaluate(p, Snapshot{CurrentPriceSol: 0.00101, Vol5sSol: 5.0, ElapsedSecs: 5})
	if r != nil {
		t.Fatalf("expected no exit, got %+v", r)
	}
}

func TestEvaluateEmergencyOverridesNothingElse(t *testing.T) {
	p := mkPosition(1, 0.001)
	p.MaxHoldSecs = 3600
	r := Evaluate(p, Snapshot{CurrentPriceSol: 0.00101, Vol5sSol: 5.0, ElapsedSecs: 5, Emergency: true})
	if r == nil || r.Kind != models.ExitEmergency {
		t.Fatalf("expected emergency, got %+v", r)
	}
}
