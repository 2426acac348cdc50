package models

import "time"

// Trade is an immutable fill record keyed by signature.
type Trade struct {
	Signature   Signature
	Slot        uint64
	BlockTime   int64
	Mint        Mint
	Side        Side
	Trader      [32]byte
	AmountToken float64
	AmountSol   float64
	Price       float64
	IsAMM       bool
}

// Token is launch metadata for a mint. Written once on launch, mutated only
// by the initial-liquidity back-fill and by a migration event.
type Token struct {
	Mint             Mint
	Creator          [32]byte
	LaunchSlot       uint64
	LaunchTime       int64
	Symbol           string
	Decimals         uint8
	InitialLiquidity *float64
	Migrated         bool
}

// Horizon is an aggregation window width in seconds.
type Horizon int

const (
	Horizon2s  Horizon = 2
	Horizon5s  Horizon = 5
	Horizon60s Horizon = 60
)

// DefaultHorizons is the minimum required set of aggregation horizons.
var DefaultHorizons = []Horizon{Horizon2s, Horizon5s, Horizon60s}

// Window is a per-mint, per-horizon OHLCV + concentration aggregate. It is
// uniquely identified by (Mint, Horizon, StartTime) and is idempotent-upserted.
type Window struct {
	Mint            Mint
	Horizon         Horizon
	StartSlot       uint64
	StartTime       time.Time
	EndTime         time.Time
	NumBuys         int
	NumSells        int
	UniqueBuyers    int
	VolumeTokens    float64
	VolumeSol       float64
	High            float64
	Low             float64
	Open            float64
	Close           float64
	VWAP            float64
	Top1Share       float64
	Top3Share       float64
	Top5Share       float64
	PriceVolatility float64
}

// BucketStart returns the start of the bucket that t falls into for the
// given horizon: floor(t / horizon) * horizon.
func BucketStart(t time.Time, h Horizon) time.Time {
	secs := t.Unix()
	hs := int64(h)
	bucket := (secs / hs) * hs
	return time.Unix(bucket, 0).UTC()
}
