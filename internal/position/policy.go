package position

import (
	"github.com/rawblock/trade-brain/pkg/models"
)

// VolumeDropThresholdSol and VolumeDropMinElapsedSecs are the fixed
// constants from the volume-drop rule (spec §4.10 case 6).
const (
	VolumeDropThresholdSol   = 0.5
	VolumeDropMinElapsedSecs = 30
	VolumeDropMaxPnLPct      = 10.0
)

// Snapshot is the set of live facts the exit policy evaluates against a
// position: current mark, recent volume, elapsed hold time, and whether an
// external emergency signal has been raised for the mint.
type Snapshot struct {
	CurrentPriceSol float64
	Vol5sSol        float64
	ElapsedSecs     int64
	Emergency       bool
}

// Evaluate runs the ordered exit-reason rules from spec §4.10 against p and
// snap, returning the first reason that fires, or nil if the position
// should stay open. The order is significant: tier-3 before tier-2 before
// tier-1 before stop-loss before time-decay before volume-drop before
// emergency, so a position that satisfies multiple rules simultaneously
// always takes the most decisive one.
func Evaluate(p models.Position, snap Snapshot) *models.ExitReason {
	pnlPct := p.PnLPercent(snap.CurrentPriceSol)

	if pnlPct >= p.ProfitTargets.Tier3 {
		return &models.ExitReason{Kind: models.ExitProfitTarget, Tier: 3, PnLPercent: pnlPct, ExitPercent: 100, Reason: "profit_target_tier3"}
	}
	if pnlPct >= p.ProfitTargets.Tier2 {
		return &models.ExitReason{Kind: models.ExitProfitTarget, Tier: 2, PnLPercent: pnlPct, ExitPercent: 60, Reason: "profit_target_tier2"}
	}
	if pnlPct >= p.ProfitTargets.Tier1 {
		return &models.ExitReason{Kind: models.ExitProfitTarget, Tier: 1, PnLPercent: pnlPct, ExitPercent: 30, Reason: "profit_target_tier1"}
	}
	if pnlPct <= -p.StopLossPct {
		return &models.ExitReason{Kind: models.ExitStopLoss, PnLPercent: pnlPct, ExitPercent: 100, Reason: "stop_loss"}
	}
	if snap.ElapsedSecs >= p.MaxHoldSecs {
		return &models.ExitReason{Kind: models.ExitTimeDecay, PnLPercent: pnlPct, ExitPercent: 100, ElapsedSecs: snap.ElapsedSecs, Reason: "time_decay"}
	}
	if snap.Vol5sSol < VolumeDropThresholdSol && pnlPct < VolumeDropMaxPnLPct && snap.ElapsedSecs > VolumeDropMinElapsedSecs {
		return &models.ExitReason{Kind: models.ExitVolumeDrop, PnLPercent: pnlPct, ExitPercent: 100, ElapsedSecs: snap.ElapsedSecs, Volume5s: snap.Vol5sSol, Reason: "volume_drop"}
	}
	if snap.Emergency {
		return &models.ExitReason{Kind: models.ExitEmergency, PnLPercent: pnlPct, ExitPercent: 100, Reason: "emergency"}
	}
	return nil
}
