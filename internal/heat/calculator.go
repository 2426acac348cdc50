// Package heat computes the rolling-window whale/bot/retail classification,
// the composite heat score, and hot-signal emission (spec §4.7), grounded
// on mempool-watcher/src/heat_calculator.rs.
package heat

import (
	"sync"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

// ClassifiedTx is one transaction as observed by the calculator, already
// tagged with its wallet classification.
type ClassifiedTx struct {
	Mint      models.Mint
	Wallet    [32]byte
	AmountSol float64
	Side      models.Side
	Class     models.WalletClass
	Timestamp time.Time
}

// Composite score weights (spec §4.7).
const (
	txRateWeight   = 0.25
	whaleWeight    = 0.35
	botWeight      = 0.20
	copyWeight     = 0.20
	hotSignalWindow = 5 * time.Second
)

// Calculator classifies transactions and maintains the rolling window
// (spec §3: "recomputed on demand", §4.7). Concurrent adds are safe;
// calculate_heat/check_hot_signals run lock-free reads over a snapshot.
type Calculator struct {
	windowSecs          int64
	whaleThresholdSol   float64
	botRepeatThreshold  int

	mu            sync.Mutex
	recentTxs     map[int64][]ClassifiedTx // keyed by unix-nano bucket
	order         []int64
	walletTxCount map[[32]byte]int
}

func New(windowSecs int64, whaleThresholdSol float64, botRepeatThreshold int) *Calculator {
	return &Calculator{
		windowSecs:         windowSecs,
		whaleThresholdSol:  whaleThresholdSol,
		botRepeatThreshold: botRepeatThreshold,
		recentTxs:          make(map[int64][]ClassifiedTx),
		walletTxCount:      make(map[[32]byte]int),
	}
}

// Classify applies the classification rule from spec §4.7: whale by
// absolute size, bot by repeat rate within the window, else retail.
func (c *Calculator) Classify(wallet [32]byte, amountSol float64) models.WalletClass {
	if amountSol >= c.whaleThresholdSol {
		return models.WalletWhale
	}
	c.mu.Lock()
	count := c.walletTxCount[wallet]
	c.mu.Unlock()
	if count >= c.botRepeatThreshold {
		return models.WalletBot
	}
	return models.WalletRetail
}

// AddTransaction records tx, updates wallet activity, and evicts entries
// older than the window.
func (c *Calculator) AddTransaction(tx ClassifiedTx) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.walletTxCount[tx.Wallet]++

	key := tx.Timestamp.UnixNano()
	if _, exists := c.recentTxs[key]; !exists {
		c.order = append(c.order, key)
	}
	c.recentTxs[key] = append(c.recentTxs[key], tx)

	c.cleanupLocked(time.Now())
}

func (c *Calculator) cleanupLocked(now time.Time) {
	cutoff := now.Add(-time.Duration(c.windowSecs) * time.Second).UnixNano()
	kept := c.order[:0]
	for _, key := range c.order {
		if key >= cutoff {
			kept = append(kept, key)
		} else {
			for _, tx := range c.recentTxs[key] {
				c.walletTxCount[tx.Wallet]--
				if c.walletTxCount[tx.Wallet] <= 0 {
					delete(c.walletTxCount, tx.Wallet)
				}
			}
			delete(c.recentTxs, key)
		}
	}
	c.order = kept
}

func (c *Calculator) snapshot(now time.Time) []ClassifiedTx {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked(now)

	var out []ClassifiedTx
	for _, key := range c.order {
		out = append(out, c.recentTxs[key]...)
	}
	return out
}

// CalculateHeat recomputes the composite HeatIndex over the current window.
func (c *Calculator) CalculateHeat() models.HeatIndex {
	now := time.Now()
	recent := c.snapshot(now)

	txCount := float64(len(recent))
	txRate := 0.0
	if txCount > 0 {
		txRate = txCount / float64(c.windowSecs)
	}

	var whaleVolume float64
	var botCount float64
	mintWallets := make(map[models.Mint]map[[32]byte]bool)

	for _, tx := range recent {
		switch tx.Class {
		case models.WalletWhale:
			whaleVolume += tx.AmountSol
		case models.WalletBot:
			botCount++
		}
		if mintWallets[tx.Mint] == nil {
			mintWallets[tx.Mint] = make(map[[32]byte]bool)
		}
		mintWallets[tx.Mint][tx.Wallet] = true
	}

	botDensity := 0.0
	if txCount > 0 {
		botDensity = (botCount / txCount) * 100.0
	}

	copyScore := c.detectCopyTrading(mintWallets)
	score := compositeScore(txRate, whaleVolume, botDensity, copyScore)

	return models.HeatIndex{
		Score:          score,
		TxRate:         txRate,
		WhaleActivity:  whaleVolume,
		BotDensity:     botDensity,
		CopyTradeScore: copyScore,
		Timestamp:      now,
	}
}

func (c *Calculator) detectCopyTrading(mintWallets map[models.Mint]map[[32]byte]bool) float64 {
	maxCopies := 0
	for _, wallets := range mintWallets {
		if len(wallets) > maxCopies {
			maxCopies = len(wallets)
		}
	}
	score := float64(maxCopies-1) * 20.0
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func compositeScore(txRate, whaleVolume, botDensity, copyScore float64) uint8 {
	txScore := clamp(txRate*10.0, 0, 100)
	whaleScore := clamp(whaleVolume*2.0, 0, 100)
	botScore := clamp(botDensity, 0, 100)
	copyClamped := clamp(copyScore, 0, 100)

	composite := txScore*txRateWeight + whaleScore*whaleWeight + botScore*botWeight + copyClamped*copyWeight
	return uint8(clamp(composite, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CheckHotSignals returns a HotSignal for every whale transaction observed
// within the last 5 seconds.
func (c *Calculator) CheckHotSignals() []models.HotSignal {
	now := time.Now()
	recent := c.snapshot(now)

	var signals []models.HotSignal
	cutoff := now.Add(-hotSignalWindow)
	for _, tx := range recent {
		if tx.Class != models.WalletWhale || tx.Timestamp.Before(cutoff) {
			continue
		}
		signals = append(signals, models.HotSignal{
			Mint:        tx.Mint,
			WhaleWallet: tx.Wallet,
			AmountSol:   tx.AmountSol,
			Side:        tx.Side,
			Urgency:     c.calculateUrgency(tx),
			Timestamp:   tx.Timestamp,
		})
	}
	return signals
}

func (c *Calculator) calculateUrgency(tx ClassifiedTx) uint8 {
	amountScore := clamp(tx.AmountSol/c.whaleThresholdSol*50.0, 0, 50)
	recencyScore := 50.0
	return uint8(clamp(amountScore+recencyScore, 0, 100))
}

func (c *Calculator) TransactionCount() int {
	return len(c.snapshot(time.Now()))
}

func (c *Calculator) WalletActivity(wallet [32]byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.walletTxCount[wallet]
}
