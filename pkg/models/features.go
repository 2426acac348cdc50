package models

import "time"

// StaleAfter is how long a feature snapshot may age before callers must
// treat it as stale (spec §4.6).
const StaleAfter = 2 * time.Second

// MintFeatures is the derived projection of a mint's 2s/5s/60s windows plus
// token age, refreshed by the mint feature cache.
type MintFeatures struct {
	Mint               Mint
	AgeSinceLaunch     time.Duration
	CurrentPrice       float64
	Vol60sSol          float64
	Buyers60s          int
	BuysSellsRatio     float64
	CurveDepthProxy    float64
	FollowThroughScore float64
	Buyers2s           int
	Vol5sSol           float64
	LastUpdate         time.Time
}

// IsStale reports whether the snapshot is older than StaleAfter.
func (f MintFeatures) IsStale(now time.Time) bool {
	return now.Sub(f.LastUpdate) > StaleAfter
}

// WalletTier classifies a wallet by historical realized performance.
type WalletTier uint8

const (
	WalletTierNone WalletTier = iota
	WalletTierC
	WalletTierB
	WalletTierA
)

func (t WalletTier) String() string {
	switch t {
	case WalletTierA:
		return "A"
	case WalletTierB:
		return "B"
	case WalletTierC:
		return "C"
	default:
		return "none"
	}
}

// WalletFeatures is a derived tier + confidence projection for a wallet.
type WalletFeatures struct {
	Wallet     [32]byte
	Tier       WalletTier
	Confidence float64
	LastSeen   time.Time
}

func (f WalletFeatures) IsStale(now time.Time) bool {
	return now.Sub(f.LastSeen) > StaleAfter
}

// WalletClass is the heat calculator's real-time classification of a
// transaction's sender, independent of the (slower) wallet feature cache.
type WalletClass uint8

const (
	WalletRetail WalletClass = iota
	WalletBot
	WalletWhale
)

func (c WalletClass) String() string {
	switch c {
	case WalletWhale:
		return "whale"
	case WalletBot:
		return "bot"
	default:
		return "retail"
	}
}

// HeatIndex is the heat calculator's current composite reading.
type HeatIndex struct {
	Score         uint8
	TxRate        float64
	WhaleActivity float64
	BotDensity    float64
	CopyTradeScore float64
	Timestamp     time.Time
}

// HotSignal is derived from a single whale-classified transaction observed
// within the last 5 seconds.
type HotSignal struct {
	Mint        Mint
	WhaleWallet [32]byte
	AmountSol   float64
	Side        Side
	Urgency     uint8
	Timestamp   time.Time
}
