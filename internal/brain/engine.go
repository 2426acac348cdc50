// Package brain wires the wire/bus/dedup/reservation/sigtracker/
// featurecache/heat/windows/fsm/position/advice/store packages into the
// end-to-end decision loop described by the per-mint state machine (spec
// §4.9) and the worked scenarios (spec §8). Grounded on cmd/engine/main.go's
// wiring style, generalized from a single HTTP+DB process to a UDP-bus
// actor with the same "construct everything, nil-guard the optional
// pieces, run until ctx is cancelled" shape.
package brain

import (
	"context"
	"log"
	"time"

	"github.com/rawblock/trade-brain/internal/advice"
	"github.com/rawblock/trade-brain/internal/bus"
	"github.com/rawblock/trade-brain/internal/dedup"
	"github.com/rawblock/trade-brain/internal/featurecache"
	"github.com/rawblock/trade-brain/internal/fsm"
	"github.com/rawblock/trade-brain/internal/heat"
	"github.com/rawblock/trade-brain/internal/position"
	"github.com/rawblock/trade-brain/internal/reservation"
	"github.com/rawblock/trade-brain/internal/sigtracker"
	"github.com/rawblock/trade-brain/internal/store"
	"github.com/rawblock/trade-brain/internal/wire"
	"github.com/rawblock/trade-brain/pkg/models"
)

// Thresholds bundles the exit-policy, risk, and cache tunables loaded from
// config.
type Thresholds struct {
	ProfitTargets  models.ProfitTargets
	StopLossPct    float64
	MaxHoldSecs    int64
	MaxSellRetries int
	MaxPositions   int

	ReservationTTL     time.Duration
	DedupTTL           time.Duration
	SigTrackerStaleAge time.Duration
	HeatWindowSecs     int64
	WhaleThresholdSol  float64
	BotRepeatThreshold int
}

// Engine is the live Brain process: one state machine, one reservation
// manager, one deduplicator, one signature tracker, one position store,
// and the senders/receivers that move wire messages across the bus.
type Engine struct {
	FSM          *fsm.Machine
	Reservations *reservation.Manager
	Dedup        *dedup.Deduplicator
	SigTracker   *sigtracker.Tracker
	Positions    *position.Store
	MintCache    *featurecache.MintCache
	WalletCache  *featurecache.WalletCache
	Heat         *heat.Calculator
	Recorder     *advice.Recorder
	AdvicePolicy advice.Policy

	thresholds Thresholds
	writer     *store.Writer // nil when Postgres is unavailable; persistence is best-effort

	toExecutor *bus.Sender // TradeDecision -> port 45110

	adviceRx       *bus.Receiver // 45100
	enterAckRx     *bus.Receiver // 45115
	confirmedRx    *bus.Receiver // 45120
	heatRx         *bus.Receiver // 45125
	txConfirmedCtx *bus.Receiver // 45131
	txConfirmedRx  *bus.Receiver // 45133
	manualExitRx   *bus.Receiver // 45135
}

func New(th Thresholds, windowStore featurecache.WindowStore) (*Engine, error) {
	toExecutor, err := bus.NewSender(bus.PortDecisionIngress)
	if err != nil {
		return nil, err
	}

	adviceRx, err := bus.NewReceiver(bus.PortAdviceIngress)
	if err != nil {
		return nil, err
	}
	enterAckRx, err := bus.NewReceiver(bus.PortEnterAckIngress)
	if err != nil {
		return nil, err
	}
	confirmedRx, err := bus.NewReceiver(bus.PortConfirmedIngress)
	if err != nil {
		return nil, err
	}
	heatRx, err := bus.NewReceiver(bus.PortHeatIngress)
	if err != nil {
		return nil, err
	}
	txConfirmedCtx, err := bus.NewReceiver(bus.PortTxConfirmedContext)
	if err != nil {
		return nil, err
	}
	txConfirmedRx, err := bus.NewReceiver(bus.PortBrainConfirmed)
	if err != nil {
		return nil, err
	}
	manualExitRx, err := bus.NewReceiver(bus.PortBrainManualExit)
	if err != nil {
		return nil, err
	}

	reservationTTL := th.ReservationTTL
	if reservationTTL <= 0 {
		reservationTTL = reservation.DefaultTTL
	}
	dedupTTL := th.DedupTTL
	if dedupTTL <= 0 {
		dedupTTL = 60 * time.Second
	}
	heatWindowSecs := th.HeatWindowSecs
	if heatWindowSecs <= 0 {
		heatWindowSecs = 10
	}
	whaleThreshold := th.WhaleThresholdSol
	if whaleThreshold <= 0 {
		whaleThreshold = 10.0
	}
	botRepeatThreshold := th.BotRepeatThreshold
	if botRepeatThreshold <= 0 {
		botRepeatThreshold = 3
	}

	e := &Engine{
		FSM:            fsm.New(th.MaxSellRetries),
		Reservations:   reservation.New(reservationTTL),
		Dedup:          dedup.New(10_000, dedupTTL),
		SigTracker:     sigtracker.New(),
		Positions:      position.NewStore(th.MaxPositions),
		MintCache:      featurecache.NewMintCache(windowStore),
		WalletCache:    featurecache.NewWalletCache(),
		Heat:           heat.New(heatWindowSecs, whaleThreshold, botRepeatThreshold),
		Recorder:       advice.NewRecorder(1024),
		AdvicePolicy:   advice.DefaultPolicy(),
		thresholds:     th,
		toExecutor:     toExecutor,
		adviceRx:       adviceRx,
		enterAckRx:     enterAckRx,
		confirmedRx:    confirmedRx,
		heatRx:         heatRx,
		txConfirmedCtx: txConfirmedCtx,
		txConfirmedRx:  txConfirmedRx,
		manualExitRx:   manualExitRx,
	}
	return e, nil
}

// SetWriter wires the bounded batched persistence writer. Called once at
// startup; left nil when Postgres is unavailable (persistence degrades to
// a no-op, matching the teacher's "continue without persisting" fallback).
func (e *Engine) SetWriter(w *store.Writer) {
	e.writer = w
}

// Run starts every receiver loop and blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.MintCache.StartUpdater(ctx, 1*time.Second)

	go e.adviceRx.Run(ctx, e.handleAdviceIngress)
	go e.enterAckRx.Run(ctx, e.handleEnterAck)
	go e.confirmedRx.Run(ctx, e.handleConfirmedIngress)
	go e.heatRx.Run(ctx, e.handleHeatIngress)
	go e.txConfirmedCtx.Run(ctx, e.handleTxConfirmedContext)
	go e.txConfirmedRx.Run(ctx, e.handleTxConfirmed)
	go e.manualExitRx.Run(ctx, e.handleManualExitNotification)
	go e.runSigTrackerSweep(ctx)

	<-ctx.Done()
	e.toExecutor.Close()
}

// runSigTrackerSweep periodically evicts signatures that never resolved
// through either the streaming confirmation path or an RPC poller, so a
// missed TxConfirmedContext can't leak the tracker forever (spec §4.5).
func (e *Engine) runSigTrackerSweep(ctx context.Context) {
	staleAge := e.thresholds.SigTrackerStaleAge
	if staleAge <= 0 {
		staleAge = sigtracker.DefaultStaleAge
	}
	ticker := time.NewTicker(staleAge / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.SigTracker.CleanupStale(staleAge)
		}
	}
}

// OpenPosition is Brain's reserve-and-decide entry point (state machine
// row 1): reservation + dedup guards, fsm transition, then the BUY
// decision datagram to the executor.
func (e *Engine) OpenPosition(mint models.Mint, sizeLamports uint64, slippageBps uint16, confidence uint8) (models.TradeID, bool) {
	tradeID := models.NewTradeID()

	if !e.Reservations.Reserve(mint, tradeID) {
		log.Printf("brain: mint %s already reserved, declining", mint.Short(8))
		return tradeID, false
	}
	if e.Dedup.IsDuplicate(tradeID, wire.KindTradeDecision) {
		e.Reservations.Release(mint)
		return tradeID, false
	}
	if err := e.FSM.Open(mint, tradeID); err != nil {
		e.Reservations.Release(mint)
		log.Printf("brain: fsm reject opening %s: %v", mint.Short(8), err)
		return tradeID, false
	}

	msg := wire.NewBuyDecision(mint, sizeLamports, slippageBps, confidence)
	e.toExecutor.Send(msg.Encode())
	return tradeID, true
}

func (e *Engine) handleEnterAck(data []byte) {
	ack, err := wire.DecodeEnterAck(data)
	if err != nil {
		log.Printf("brain: malformed EnterAck: %v", err)
		return
	}
	var mint models.Mint
	copy(mint[:], ack.Mint[:])
	var tradeID models.TradeID
	copy(tradeID[:], ack.TradeID[:])

	if err := e.FSM.OnBuyAck(mint, tradeID, time.Now()); err != nil {
		log.Printf("brain: fsm reject EnterAck for %s: %v", mint.Short(8), err)
	}
}

func (e *Engine) handleConfirmedIngress(data []byte) {
	if len(data) == 0 {
		return
	}
	switch data[0] {
	case wire.KindExecutionConfirmation:
		e.handleExecutionConfirmation(data)
	case wire.KindTradeClosed:
		e.handleTradeClosed(data)
	default:
		log.Printf("brain: unexpected kind %d on confirmed-ingress port", data[0])
	}
}

func (e *Engine) handleExecutionConfirmation(data []byte) {
	m, err := wire.DecodeExecutionConfirmation(data)
	if err != nil {
		log.Printf("brain: malformed ExecutionConfirmation: %v", err)
		return
	}
	var mint models.Mint
	copy(mint[:], m.Mint[:])

	// ExecutionConfirmation carries no trade_id of its own (spec: Brain and
	// Executor correlate by mint); fall back to the FSM's own record so a
	// resent confirmation for the same trade is still deduplicated.
	if rec, ok := e.FSM.Get(mint); ok && e.Dedup.IsDuplicate(rec.TradeID, wire.KindExecutionConfirmation) {
		return
	}

	if m.Success != wire.StatusSuccess {
		_ = e.FSM.OnBuyFailed(mint)
		e.Reservations.Release(mint)
		return
	}

	if err := e.FSM.OnBuyConfirmed(mint); err != nil {
		// A confirmation for an already-closed or already-positioned mint
		// is a benign replay; it is logged like any other rejection.
		log.Printf("brain: fsm reject buy confirmation for %s: %v", mint.Short(8), err)
		return
	}

	rec, _ := e.FSM.Get(mint)
	pos := models.Position{
		Mint:            mint,
		TradeID:         rec.TradeID,
		EntryTime:       time.Now(),
		EntryTimestamp:  int64(m.Timestamp),
		EntryPriceSol:   float64(m.ExecutedPriceScaled) / 1e9,
		SizeSol:         float64(m.ExecutedSizeLamports) / 1e9,
		ProfitTargets:   e.thresholds.ProfitTargets,
		StopLossPct:     e.thresholds.StopLossPct,
		MaxHoldSecs:     e.thresholds.MaxHoldSecs,
		TriggerSource:   "heat",
	}
	if err := e.Positions.Add(pos); err != nil {
		log.Printf("brain: position store rejected %s: %v", mint.Short(8), err)
	}

	if e.writer != nil {
		var sig models.Signature
		copy(sig[:], m.TxSignature[:])
		e.writer.Enqueue(nil, []models.Trade{{
			Signature: sig,
			Mint:      mint,
			Side:      models.Side(m.Side),
			AmountSol: pos.SizeSol,
			Price:     pos.EntryPriceSol,
		}})
	}
}

func (e *Engine) handleTradeClosed(data []byte) {
	m, err := wire.DecodeTradeClosed(data)
	if err != nil {
		log.Printf("brain: malformed TradeClosed: %v", err)
		return
	}
	var mint models.Mint
	copy(mint[:], m.Mint[:])

	log.Printf("brain: trade closed for %s, final_status=%s", mint.Short(8), wire.FinalStatusString(m.FinalStatus))
	e.Positions.Remove(mint)
	e.Reservations.Release(mint)
	e.FSM.Forget(mint)
}

// handleTxConfirmedContext resolves the kind-27 collision (port 45131,
// Watcher-origin) into Brain's Buy/Sell confirmation path.
func (e *Engine) handleTxConfirmedContext(data []byte) {
	m, err := wire.DecodeTxConfirmedContext(data)
	if err != nil {
		log.Printf("brain: malformed TxConfirmedContext: %v", err)
		return
	}
	var mint models.Mint
	copy(mint[:], m.Mint[:])
	var sig models.Signature
	copy(sig[:], m.Signature[:])
	var tradeID models.TradeID
	copy(tradeID[:], m.TradeID[:])

	if e.Dedup.IsDuplicate(tradeID, wire.KindTxConfirmedContext) {
		return
	}

	if entry, ok := e.SigTracker.Remove(sig); ok {
		_ = entry // retained for P&L realization by a fuller implementation
	}

	if m.Side == uint8(models.SideBuy) {
		if m.Status != wire.StatusSuccess {
			_ = e.FSM.OnBuyFailed(mint)
			e.Reservations.Release(mint)
		}
		return
	}

	// Sell confirmation: exit_pct carried via ExecutedSizeLamports-as-proxy
	// is not modeled on this message (spec §9: "implementers should prefer
	// confirmation-reported size over projection" — TxConfirmedContext
	// does not carry a fill percentage, so a full exit is assumed here).
	if m.Status != wire.StatusSuccess {
		escalated, err := e.FSM.OnSellFailed(mint)
		if err != nil {
			log.Printf("brain: fsm reject sell failure for %s: %v", mint.Short(8), err)
			return
		}
		if escalated {
			e.Positions.Remove(mint)
		}
		return
	}
	if err := e.FSM.OnSellConfirmed(mint, 100); err != nil {
		log.Printf("brain: fsm reject sell confirmation for %s: %v", mint.Short(8), err)
		return
	}
	e.Positions.Remove(mint)
}

// handleTxConfirmed resolves kind 26 (bare TxConfirmed, port 45133): the
// Mempool Watcher's confirmation fan-out to both Executor and Brain
// (spec §6.1 "Watcher -> Exec+Brain"). Deduplicated on (trade_id, kind) so
// a repeated delivery is counted and dropped rather than re-applied (spec
// §8 scenario: duplicate TxConfirmed for the same trade-id).
func (e *Engine) handleTxConfirmed(data []byte) {
	m, err := wire.DecodeTxConfirmed(data)
	if err != nil {
		log.Printf("brain: malformed TxConfirmed: %v", err)
		return
	}
	var tradeID models.TradeID
	copy(tradeID[:], m.TradeID[:])

	if e.Dedup.IsDuplicate(tradeID, wire.KindTxConfirmed) {
		return
	}

	var mint models.Mint
	copy(mint[:], m.Mint[:])

	if m.Side == uint8(models.SideBuy) {
		if m.Status != wire.StatusSuccess {
			_ = e.FSM.OnBuyFailed(mint)
			e.Reservations.Release(mint)
			return
		}
		if err := e.FSM.OnBuyConfirmed(mint); err != nil {
			log.Printf("brain: fsm reject buy confirmation (TxConfirmed) for %s: %v", mint.Short(8), err)
		}
		return
	}

	if m.Status != wire.StatusSuccess {
		escalated, err := e.FSM.OnSellFailed(mint)
		if err != nil {
			log.Printf("brain: fsm reject sell failure (TxConfirmed) for %s: %v", mint.Short(8), err)
			return
		}
		if escalated {
			e.Positions.Remove(mint)
		}
		return
	}
	if err := e.FSM.OnSellConfirmed(mint, 100); err != nil {
		log.Printf("brain: fsm reject sell confirmation (TxConfirmed) for %s: %v", mint.Short(8), err)
		return
	}
	e.Positions.Remove(mint)
}

func (e *Engine) handleHeatIngress(data []byte) {
	if len(data) == 0 {
		return
	}
	switch data[0] {
	case wire.KindHeatPulse:
		if _, err := wire.DecodeHeatPulse(data); err != nil {
			log.Printf("brain: malformed HeatPulse: %v", err)
		}
	case wire.KindPositionUpdate:
		e.handlePositionUpdate(data)
	default:
		log.Printf("brain: unexpected kind %d on heat-ingress port", data[0])
	}
}

func (e *Engine) handlePositionUpdate(data []byte) {
	m, err := wire.DecodePositionUpdate(data)
	if err != nil {
		log.Printf("brain: malformed PositionUpdate: %v", err)
		return
	}
	var mint models.Mint
	copy(mint[:], m.Mint[:])

	pos, ok := e.Positions.Get(mint)
	if !ok {
		return
	}
	var vol5s float64
	if f, ok := e.MintCache.Get(mint); ok {
		vol5s = f.Vol5sSol
	}
	snap := position.Snapshot{
		CurrentPriceSol: float64(m.CurrentPriceLamports) / 1e9,
		Vol5sSol:        vol5s,
		ElapsedSecs:     time.Now().Unix() - pos.EntryTimestamp,
		Emergency:       false,
	}
	reason := position.Evaluate(pos, snap)
	if reason == nil {
		return
	}

	if err := e.FSM.OnExitFired(mint); err != nil {
		log.Printf("brain: fsm reject exit fire for %s: %v", mint.Short(8), err)
		return
	}

	sellLamports := uint64(pos.SizeSol * (float64(reason.ExitPercent) / 100.0) * 1e9)
	msg := wire.NewSellDecision(mint, sellLamports, 150, pos.EntryConfidence)
	e.toExecutor.Send(msg.Encode())

	if reason.ExitPercent < 100 {
		_ = e.Positions.ReduceSize(mint, reason.ExitPercent)
	}
	log.Printf("brain: exit policy fired %s for %s exit_pct=%d", reason, mint.Short(8), reason.ExitPercent)
}

func (e *Engine) handleAdviceIngress(data []byte) {
	if len(data) == 0 {
		return
	}
	switch data[0] {
	case wire.KindExitAdvice:
		e.handleExitAdvice(data)
	case wire.KindSolPriceUpdate:
		if _, err := wire.DecodeSolPriceUpdate(data); err != nil {
			log.Printf("brain: malformed SolPriceUpdate: %v", err)
		}
	default:
		log.Printf("brain: unexpected kind %d on advice-ingress port", data[0])
	}
}

func (e *Engine) handleExitAdvice(data []byte) {
	adv, err := wire.DecodeExitAdvice(data)
	if err != nil {
		log.Printf("brain: malformed ExitAdvice: %v", err)
		return
	}
	now := time.Now()
	receivedAt := now // streamed in-process; no separate receipt timestamp carried on this message
	adj, reject := advice.Evaluate(adv, e.AdvicePolicy, receivedAt, now)
	if reject != advice.RejectNone {
		log.Printf("brain: rejected advisory: %s", reject)
		return
	}
	log.Printf("brain: accepted advisory, suggest_exit_pct=%d hold_delta=%ds", adj.SuggestExitPct, adj.HoldSecsDelta)
}

func (e *Engine) handleManualExitNotification(data []byte) {
	m, err := wire.DecodeManualExitNotification(data)
	if err != nil {
		log.Printf("brain: malformed ManualExitNotification: %v", err)
		return
	}
	var mint models.Mint
	copy(mint[:], m.Mint[:])

	log.Printf("brain: manual exit notification for %s pnl_pct=%.2f", mint.Short(8), m.PnlPercent)
	e.Positions.Remove(mint)
	e.Reservations.Release(mint)
	_ = e.FSM.OnManualExit(mint)
	e.FSM.Forget(mint)
}

// RequestManualExit is driven by the admin API (spec §3 supplemented
// feature): it fires a synthetic full-exit decision for mint, bypassing
// the ordered exit policy.
func (e *Engine) RequestManualExit(mint models.Mint) error {
	pos, ok := e.Positions.Get(mint)
	if !ok {
		return nil
	}
	if err := e.FSM.OnManualExit(mint); err != nil {
		return err
	}
	msg := wire.NewSellDecision(mint, uint64(pos.SizeSol*1e9), 150, pos.EntryConfidence)
	e.toExecutor.Send(msg.Encode())
	return nil
}
