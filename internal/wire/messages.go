package wire

// TradeDecision: Brain -> Executor. No trade_id travels on the wire; Brain
// and Executor correlate by mint, relying on the at-most-one-in-flight-BUY-
// per-mint invariant enforced by the reservation + state machine.
type TradeDecision struct {
	Mint              [32]byte
	Side              uint8
	SizeLamports      uint64
	SlippageBps       uint16
	Confidence        uint8
	ProtocolVersion   uint8
}

func (m TradeDecision) Encode() []byte {
	w := newWriter(SizeTradeDecision, KindTradeDecision)
	w.bytes(m.Mint[:])
	w.u8(m.Side)
	w.u64(m.SizeLamports)
	w.u16(m.SlippageBps)
	w.u8(m.Confidence)
	w.u8(m.ProtocolVersion)
	return w.bytesOut()
}

func DecodeTradeDecision(data []byte) (TradeDecision, error) {
	var m TradeDecision
	if err := checkHeader(data, KindTradeDecision, SizeTradeDecision); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Mint[:], r.bytes(32))
	m.Side = r.u8()
	m.SizeLamports = r.u64()
	m.SlippageBps = r.u16()
	m.Confidence = r.u8()
	m.ProtocolVersion = r.u8()
	return m, nil
}

func NewBuyDecision(mint [32]byte, sizeLamports uint64, slippageBps uint16, confidence uint8) TradeDecision {
	return TradeDecision{Mint: mint, Side: 0, SizeLamports: sizeLamports, SlippageBps: slippageBps, Confidence: confidence, ProtocolVersion: 1}
}

func NewSellDecision(mint [32]byte, sizeLamports uint64, slippageBps uint16, confidence uint8) TradeDecision {
	return TradeDecision{Mint: mint, Side: 1, SizeLamports: sizeLamports, SlippageBps: slippageBps, Confidence: confidence, ProtocolVersion: 1}
}

// ExecutionConfirmation: Executor -> Brain. Correlated by mint, same as
// TradeDecision — no trade_id on the wire.
type ExecutionConfirmation struct {
	ProtocolVersion     uint8
	Mint                [32]byte
	Side                uint8
	ExecutedSizeLamports uint64
	ExecutedPriceScaled uint64 // x1e9
	TxSignature         [32]byte
	Timestamp           uint64
	Success             uint8
}

func (m ExecutionConfirmation) Encode() []byte {
	w := newWriter(SizeExecutionConfirmation, KindExecutionConfirmation)
	w.u8(m.ProtocolVersion)
	w.bytes(m.Mint[:])
	w.u8(m.Side)
	w.u64(m.ExecutedSizeLamports)
	w.u64(m.ExecutedPriceScaled)
	w.bytes(m.TxSignature[:])
	w.u64(m.Timestamp)
	w.u8(m.Success)
	return w.bytesOut()
}

func DecodeExecutionConfirmation(data []byte) (ExecutionConfirmation, error) {
	var m ExecutionConfirmation
	if err := checkHeader(data, KindExecutionConfirmation, SizeExecutionConfirmation); err != nil {
		return m, err
	}
	r := newReader(data)
	m.ProtocolVersion = r.u8()
	copy(m.Mint[:], r.bytes(32))
	m.Side = r.u8()
	m.ExecutedSizeLamports = r.u64()
	m.ExecutedPriceScaled = r.u64()
	copy(m.TxSignature[:], r.bytes(32))
	m.Timestamp = r.u64()
	m.Success = r.u8()
	return m, nil
}

// HeatPulse: Mempool Watcher -> Brain.
type HeatPulse struct {
	Mint           [32]byte
	WindowMs       uint32
	PendingBuys    uint16
	PendingSolBps  uint16 // x100
	UniqSenders    uint16
	JitoSeen       uint8
	Score          uint8
	TTLMs          uint32
}

func (m HeatPulse) Encode() []byte {
	w := newWriter(SizeHeatPulse, KindHeatPulse)
	w.bytes(m.Mint[:])
	w.u32(m.WindowMs)
	w.u16(m.PendingBuys)
	w.u16(m.PendingSolBps)
	w.u16(m.UniqSenders)
	w.u8(m.JitoSeen)
	w.u8(m.Score)
	w.u32(m.TTLMs)
	return w.bytesOut()
}

func DecodeHeatPulse(data []byte) (HeatPulse, error) {
	var m HeatPulse
	if err := checkHeader(data, KindHeatPulse, SizeHeatPulse); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Mint[:], r.bytes(32))
	m.WindowMs = r.u32()
	m.PendingBuys = r.u16()
	m.PendingSolBps = r.u16()
	m.UniqSenders = r.u16()
	m.JitoSeen = r.u8()
	m.Score = r.u8()
	m.TTLMs = r.u32()
	return m, nil
}

// SolPriceUpdate: Pricer -> Brain/Executor.
type SolPriceUpdate struct {
	PriceUsd  float32
	Timestamp int64
	Source    uint8
}

func (m SolPriceUpdate) Encode() []byte {
	w := newWriter(SizeSolPriceUpdate, KindSolPriceUpdate)
	w.f32(m.PriceUsd)
	w.i64(m.Timestamp)
	w.u8(m.Source)
	return w.bytesOut()
}

func DecodeSolPriceUpdate(data []byte) (SolPriceUpdate, error) {
	var m SolPriceUpdate
	if err := checkHeader(data, KindSolPriceUpdate, SizeSolPriceUpdate); err != nil {
		return m, err
	}
	r := newReader(data)
	m.PriceUsd = r.f32()
	m.Timestamp = r.i64()
	m.Source = r.u8()
	return m, nil
}

// MempoolHeat: Mempool Watcher -> Brain, condensed heat summary.
type MempoolHeat struct {
	HeatScore        uint8
	TxRateX100       uint16
	WhaleActivityX100 uint16
	BotDensityX10000 uint16
	Timestamp        int64
}

func (m MempoolHeat) Encode() []byte {
	w := newWriter(SizeMempoolHeat, KindMempoolHeat)
	w.u8(m.HeatScore)
	w.u16(m.TxRateX100)
	w.u16(m.WhaleActivityX100)
	w.u16(m.BotDensityX10000)
	w.i64(m.Timestamp)
	return w.bytesOut()
}

func DecodeMempoolHeat(data []byte) (MempoolHeat, error) {
	var m MempoolHeat
	if err := checkHeader(data, KindMempoolHeat, SizeMempoolHeat); err != nil {
		return m, err
	}
	r := newReader(data)
	m.HeatScore = r.u8()
	m.TxRateX100 = r.u16()
	m.WhaleActivityX100 = r.u16()
	m.BotDensityX10000 = r.u16()
	m.Timestamp = r.i64()
	return m, nil
}

// ExitAck: Executor -> Brain, acknowledges receipt of a SELL decision.
type ExitAck struct {
	Mint        [32]byte
	TradeID     [16]byte
	TimestampNs uint64
}

func (m ExitAck) Encode() []byte {
	w := newWriter(SizeExitAck, KindExitAck)
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.u64(m.TimestampNs)
	return w.bytesOut()
}

func DecodeExitAck(data []byte) (ExitAck, error) {
	var m ExitAck
	if err := checkHeader(data, KindExitAck, SizeExitAck); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	m.TimestampNs = r.u64()
	return m, nil
}

// WatchSignature: Executor -> Mempool Watcher, register a signature to watch.
type WatchSignature struct {
	Signature   [64]byte
	Mint        [32]byte
	TradeID     [16]byte
	Side        uint8
	TimestampNs uint64
}

func (m WatchSignature) Encode() []byte {
	w := newWriter(SizeWatchSignature, KindWatchSignature)
	w.bytes(m.Signature[:])
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.u8(m.Side)
	w.u64(m.TimestampNs)
	return w.bytesOut()
}

func DecodeWatchSignature(data []byte) (WatchSignature, error) {
	var m WatchSignature
	if err := checkHeader(data, KindWatchSignature, SizeWatchSignature); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Signature[:], r.bytes(64))
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	m.Side = r.u8()
	m.TimestampNs = r.u64()
	return m, nil
}

// TxConfirmed: Mempool Watcher -> Executor + Brain, bare confirmation.
type TxConfirmed struct {
	Signature   [64]byte
	Mint        [32]byte
	TradeID     [16]byte
	Side        uint8
	Status      uint8
	TimestampNs uint64
}

func (m TxConfirmed) Encode() []byte {
	w := newWriter(SizeTxConfirmed, KindTxConfirmed)
	w.bytes(m.Signature[:])
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.u8(m.Side)
	w.u8(m.Status)
	w.u64(m.TimestampNs)
	return w.bytesOut()
}

func DecodeTxConfirmed(data []byte) (TxConfirmed, error) {
	var m TxConfirmed
	if err := checkHeader(data, KindTxConfirmed, SizeTxConfirmed); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Signature[:], r.bytes(64))
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	m.Side = r.u8()
	m.Status = r.u8()
	m.TimestampNs = r.u64()
	return m, nil
}

// TxConfirmedContext: Mempool Watcher -> Brain, port 45131. Shares byte tag
// 27 with EnterAck; never decode this from the 45115 socket.
type TxConfirmedContext struct {
	Signature            [64]byte
	Mint                 [32]byte
	TradeID              [16]byte
	Side                 uint8
	Status               uint8
	Slot                 uint64
	TimestampNs          uint64
	TrailMs              uint16
	SameSlotAfter        uint16
	NextSlotCount        uint16
	UniqBuyersDelta      uint16
	VolBuySolDeltaScaled uint32 // x1000
	VolSellSolDeltaScaled uint32 // x1000
	PriceChangeBpsDelta  int16
	AlphaHitsDelta       uint8
	EntryPriceLamports   uint64
	SizeSolScaled        uint32 // x1000
	SlippageBps          uint16
	FeeBps               uint16
	RealizedPnlCents     int32
}

func (m TxConfirmedContext) Encode() []byte {
	w := newWriter(SizeTxConfirmedContext, KindTxConfirmedContext)
	w.bytes(m.Signature[:])
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.u8(m.Side)
	w.u8(m.Status)
	w.u64(m.Slot)
	w.u64(m.TimestampNs)
	w.u16(m.TrailMs)
	w.u16(m.SameSlotAfter)
	w.u16(m.NextSlotCount)
	w.u16(m.UniqBuyersDelta)
	w.u32(m.VolBuySolDeltaScaled)
	w.u32(m.VolSellSolDeltaScaled)
	w.i16(m.PriceChangeBpsDelta)
	w.u8(m.AlphaHitsDelta)
	w.u64(m.EntryPriceLamports)
	w.u32(m.SizeSolScaled)
	w.u16(m.SlippageBps)
	w.u16(m.FeeBps)
	w.i32(m.RealizedPnlCents)
	return w.bytesOut()
}

func DecodeTxConfirmedContext(data []byte) (TxConfirmedContext, error) {
	var m TxConfirmedContext
	if err := checkHeader(data, KindTxConfirmedContext, SizeTxConfirmedContext); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Signature[:], r.bytes(64))
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	m.Side = r.u8()
	m.Status = r.u8()
	m.Slot = r.u64()
	m.TimestampNs = r.u64()
	m.TrailMs = r.u16()
	m.SameSlotAfter = r.u16()
	m.NextSlotCount = r.u16()
	m.UniqBuyersDelta = r.u16()
	m.VolBuySolDeltaScaled = r.u32()
	m.VolSellSolDeltaScaled = r.u32()
	m.PriceChangeBpsDelta = r.i16()
	m.AlphaHitsDelta = r.u8()
	m.EntryPriceLamports = r.u64()
	m.SizeSolScaled = r.u32()
	m.SlippageBps = r.u16()
	m.FeeBps = r.u16()
	m.RealizedPnlCents = r.i32()
	return m, nil
}

// EnterAck: Executor -> Brain, port 45115. Shares byte tag 27 with
// TxConfirmedContext; never decode this from the 45131 socket.
type EnterAck struct {
	Mint        [32]byte
	TradeID     [16]byte
	TimestampNs uint64
}

func (m EnterAck) Encode() []byte {
	w := newWriter(SizeEnterAck, KindEnterAck)
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.u64(m.TimestampNs)
	return w.bytesOut()
}

func DecodeEnterAck(data []byte) (EnterAck, error) {
	var m EnterAck
	if err := checkHeader(data, KindEnterAck, SizeEnterAck); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	m.TimestampNs = r.u64()
	return m, nil
}

// WatchSigEnhanced: Executor -> Mempool Watcher, port 45130. Shares byte tag
// 28 with TradeClosed; never decode this from the 45120 socket.
type WatchSigEnhanced struct {
	Signature           [64]byte
	Mint                [32]byte
	TradeID             [16]byte
	Side                uint8
	TimestampNs         uint64
	EntryPriceLamports  uint64
	SizeSolScaled       uint32 // x1000
	SlippageBps         uint16
	FeeBps              uint16
	ProfitTargetCents   int32
	StopLossCents       int32
}

func (m WatchSigEnhanced) Encode() []byte {
	w := newWriter(SizeWatchSigEnhanced, KindWatchSigEnhanced)
	w.bytes(m.Signature[:])
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.u8(m.Side)
	w.u64(m.TimestampNs)
	w.u64(m.EntryPriceLamports)
	w.u32(m.SizeSolScaled)
	w.u16(m.SlippageBps)
	w.u16(m.FeeBps)
	w.i32(m.ProfitTargetCents)
	w.i32(m.StopLossCents)
	return w.bytesOut()
}

func DecodeWatchSigEnhanced(data []byte) (WatchSigEnhanced, error) {
	var m WatchSigEnhanced
	if err := checkHeader(data, KindWatchSigEnhanced, SizeWatchSigEnhanced); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Signature[:], r.bytes(64))
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	m.Side = r.u8()
	m.TimestampNs = r.u64()
	m.EntryPriceLamports = r.u64()
	m.SizeSolScaled = r.u32()
	m.SlippageBps = r.u16()
	m.FeeBps = r.u16()
	m.ProfitTargetCents = r.i32()
	m.StopLossCents = r.i32()
	return m, nil
}

// TradeClosed: Executor -> Brain, port 45120. Shares byte tag 28 with
// WatchSigEnhanced; never decode this from the 45130 socket.
type TradeClosed struct {
	Mint        [32]byte
	TradeID     [16]byte
	Side        uint8
	FinalStatus uint8
	TimestampNs uint64
}

func (m TradeClosed) Encode() []byte {
	w := newWriter(SizeTradeClosed, KindTradeClosed)
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.u8(m.Side)
	w.u8(m.FinalStatus)
	w.u64(m.TimestampNs)
	return w.bytesOut()
}

func DecodeTradeClosed(data []byte) (TradeClosed, error) {
	var m TradeClosed
	if err := checkHeader(data, KindTradeClosed, SizeTradeClosed); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	m.Side = r.u8()
	m.FinalStatus = r.u8()
	m.TimestampNs = r.u64()
	return m, nil
}

// Exit advice reason codes.
const (
	ExitReasonTargetHit     uint8 = 0
	ExitReasonStopLoss      uint8 = 1
	ExitReasonFadeDetected  uint8 = 2
)

// ExitAdvice: Mempool Watcher -> Brain. A hint, never a mandate (spec §4.11).
type ExitAdvice struct {
	TradeID             [16]byte
	Mint                [32]byte
	Reason              uint8
	Confidence          uint8
	RealizedPnlCents    int32
	EntryPriceLamports  uint64
	CurrentPriceLamports uint64
	HoldTimeMs          uint32
	TimestampNs         uint64
}

func (m ExitAdvice) Encode() []byte {
	w := newWriter(SizeExitAdvice, KindExitAdvice)
	w.bytes(m.TradeID[:])
	w.bytes(m.Mint[:])
	w.u8(m.Reason)
	w.u8(m.Confidence)
	w.i32(m.RealizedPnlCents)
	w.u64(m.EntryPriceLamports)
	w.u64(m.CurrentPriceLamports)
	w.u32(m.HoldTimeMs)
	w.u64(m.TimestampNs)
	return w.bytesOut()
}

func DecodeExitAdvice(data []byte) (ExitAdvice, error) {
	var m ExitAdvice
	if err := checkHeader(data, KindExitAdvice, SizeExitAdvice); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.TradeID[:], r.bytes(16))
	copy(m.Mint[:], r.bytes(32))
	m.Reason = r.u8()
	m.Confidence = r.u8()
	m.RealizedPnlCents = r.i32()
	m.EntryPriceLamports = r.u64()
	m.CurrentPriceLamports = r.u64()
	m.HoldTimeMs = r.u32()
	m.TimestampNs = r.u64()
	return m, nil
}

// PositionUpdate: Mempool Watcher -> Brain, periodic mark-to-market telemetry.
type PositionUpdate struct {
	Mint                  [32]byte
	TradeID               [16]byte
	Timestamp             uint64
	EntryPriceLamports    uint64
	CurrentPriceLamports  uint64
	EntrySizeSol          float32
	CurrentValueSol       float32
	RealizedPnlUsd        float32
	PnlPercent            float32
	MempoolPendingBuys    uint16
	MempoolPendingSells   uint16
	PriceVelocity         float32
	ProfitTargetHit       uint8
	StopLossHit           uint8
	NoMempoolActivity     uint8
}

func (m PositionUpdate) Encode() []byte {
	w := newWriter(SizePositionUpdate, KindPositionUpdate)
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.u64(m.Timestamp)
	w.u64(m.EntryPriceLamports)
	w.u64(m.CurrentPriceLamports)
	w.f32(m.EntrySizeSol)
	w.f32(m.CurrentValueSol)
	w.f32(m.RealizedPnlUsd)
	w.f32(m.PnlPercent)
	w.u16(m.MempoolPendingBuys)
	w.u16(m.MempoolPendingSells)
	w.f32(m.PriceVelocity)
	w.u8(m.ProfitTargetHit)
	w.u8(m.StopLossHit)
	w.u8(m.NoMempoolActivity)
	return w.bytesOut()
}

func DecodePositionUpdate(data []byte) (PositionUpdate, error) {
	var m PositionUpdate
	if err := checkHeader(data, KindPositionUpdate, SizePositionUpdate); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	m.Timestamp = r.u64()
	m.EntryPriceLamports = r.u64()
	m.CurrentPriceLamports = r.u64()
	m.EntrySizeSol = r.f32()
	m.CurrentValueSol = r.f32()
	m.RealizedPnlUsd = r.f32()
	m.PnlPercent = r.f32()
	m.MempoolPendingBuys = r.u16()
	m.MempoolPendingSells = r.u16()
	m.PriceVelocity = r.f32()
	m.ProfitTargetHit = r.u8()
	m.StopLossHit = r.u8()
	m.NoMempoolActivity = r.u8()
	return m, nil
}

// ManualExitNotification: operator-triggered exit, Watcher/admin -> Brain/Executor.
type ManualExitNotification struct {
	Mint               [32]byte
	TradeID            [16]byte
	ExitSignature      [64]byte
	Timestamp          uint64
	EntryPriceLamports uint64
	ExitPriceLamports  uint64
	SizeSol            float32
	RealizedPnlUsd     float32
	PnlPercent         float32
	HoldTimeSecs       uint32
}

func (m ManualExitNotification) Encode() []byte {
	w := newWriter(SizeManualExitNotif, KindManualExitNotif)
	w.bytes(m.Mint[:])
	w.bytes(m.TradeID[:])
	w.bytes(m.ExitSignature[:])
	w.u64(m.Timestamp)
	w.u64(m.EntryPriceLamports)
	w.u64(m.ExitPriceLamports)
	w.f32(m.SizeSol)
	w.f32(m.RealizedPnlUsd)
	w.f32(m.PnlPercent)
	w.u32(m.HoldTimeSecs)
	return w.bytesOut()
}

func DecodeManualExitNotification(data []byte) (ManualExitNotification, error) {
	var m ManualExitNotification
	if err := checkHeader(data, KindManualExitNotif, SizeManualExitNotif); err != nil {
		return m, err
	}
	r := newReader(data)
	copy(m.Mint[:], r.bytes(32))
	copy(m.TradeID[:], r.bytes(16))
	copy(m.ExitSignature[:], r.bytes(64))
	m.Timestamp = r.u64()
	m.EntryPriceLamports = r.u64()
	m.ExitPriceLamports = r.u64()
	m.SizeSol = r.f32()
	m.RealizedPnlUsd = r.f32()
	m.PnlPercent = r.f32()
	m.HoldTimeSecs = r.u32()
	return m, nil
}
