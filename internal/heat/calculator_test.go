package heat

import (
	"testing"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

func TestCalculateHeatWithNoTransactions(t *testing.T) {
	c := New(10, 10.0, 3)
	h := c.CalculateHeat()
	if h.Score != 0 || h.TxRate != 0 {
		t.Fatalf("empty window must score 0, got %+v", h)
	}
}

func TestCalculateHeat(t *testing.T) {
	c := New(10, 10.0, 3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.AddTransaction(ClassifiedTx{
			Mint:      models.Mint{0: 1},
			Wallet:    [32]byte{byte(i)},
			AmountSol: 5.0,
			Class:     models.WalletRetail,
			Timestamp: now,
		})
	}

	h := c.CalculateHeat()
	if h.Score > 100 {
		t.Fatalf("score %d exceeds 100", h.Score)
	}
	if h.TxRate <= 0 {
		t.Fatal("tx_rate must be > 0 with 5 recent transactions")
	}
}

func TestHotSignalDetection(t *testing.T) {
	c := New(10, 10.0, 3)
	c.AddTransaction(ClassifiedTx{
		Mint:      models.Mint{0: 7},
		Wallet:    [32]byte{0: 1},
		AmountSol: 20.0,
		Class:     models.WalletWhale,
		Timestamp: time.Now(),
	})

	signals := c.CheckHotSignals()
	if len(signals) == 0 {
		t.Fatal("expected at least one hot signal")
	}
	if signals[0].Mint != (models.Mint{0: 7}) {
		t.Fatalf("unexpected mint in hot signal: %v", signals[0].Mint)
	}
}

func TestCompositeScoreWeights(t *testing.T) {
	// tx_score=100 (tx_rate>=10), whale_score=100 (volume>=50), bot_score=100,
	// copy_score=100 -> weighted sum is exactly 100.
	got := compositeScore(20, 60, 100, 100)
	if got != 100 {
		t.Fatalf("compositeScore = %d, want 100", got)
	}
}

func TestOldTransactionsEvicted(t *testing.T) {
	c := New(1, 10.0, 3) // 1-second window
	c.AddTransaction(ClassifiedTx{
		Mint:      models.Mint{0: 1},
		Wallet:    [32]byte{0: 1},
		AmountSol: 1.0,
		Class:     models.WalletRetail,
		Timestamp: time.Now().Add(-5 * time.Second),
	})
	if c.TransactionCount() != 0 {
		t.Fatalf("transaction older than window must be evicted, count=%d", c.TransactionCount())
	}
}
