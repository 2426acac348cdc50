package windows

import (
	"math"
	"testing"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

func trade(trader byte, side models.Side, amountSol, price float64) models.Trade {
	return models.Trade{
		Trader:      [32]byte{trader},
		Side:        side,
		AmountSol:   amountSol,
		AmountToken: amountSol / price,
		Price:       price,
	}
}

func TestComputeEmptyBucket(t *testing.T) {
	w := Compute(models.Mint{}, models.Horizon5s, time.Now(), time.Now(), nil)
	if w.NumBuys != 0 || w.NumSells != 0 || w.Low != 0 {
		t.Fatalf("empty bucket must yield a zero window, got %+v", w)
	}
}

func TestComputeSingleTradeVolatilityZero(t *testing.T) {
	trades := []models.Trade{trade(1, models.SideBuy, 1.0, 0.001)}
	w := Compute(models.Mint{}, models.Horizon5s, time.Now(), time.Now(), trades)

	if w.PriceVolatility != 0 {
		t.Fatalf("single trade must have zero volatility, got %v", w.PriceVolatility)
	}
	if w.Open != w.Close || w.Open != 0.001 {
		t.Fatalf("open/close must equal the single price, got open=%v close=%v", w.Open, w.Close)
	}
}

func TestComputeOHLCVAndVWAP(t *testing.T) {
	trades := []models.Trade{
		trade(1, models.SideBuy, 1.0, 0.001),
		trade(2, models.SideBuy, 2.0, 0.002),
		trade(1, models.SideSell, 1.0, 0.0015),
	}
	w := Compute(models.Mint{}, models.Horizon5s, time.Now(), time.Now(), trades)

	if w.Open != 0.001 {
		t.Fatalf("open = %v, want 0.001", w.Open)
	}
	if w.Close != 0.0015 {
		t.Fatalf("close = %v, want 0.0015", w.Close)
	}
	if w.High != 0.002 {
		t.Fatalf("high = %v, want 0.002", w.High)
	}
	if w.Low != 0.001 {
		t.Fatalf("low = %v, want 0.001", w.Low)
	}
	if w.NumBuys != 2 || w.NumSells != 1 {
		t.Fatalf("buys/sells = %d/%d, want 2/1", w.NumBuys, w.NumSells)
	}
	if w.UniqueBuyers != 2 {
		t.Fatalf("unique buyers = %d, want 2", w.UniqueBuyers)
	}
	// (1*0.001 + 2*0.002 + 1*0.0015) / 4 = 0.001625
	if math.Abs(w.VWAP-0.001625) > 1e-12 {
		t.Fatalf("vwap = %v, want 0.001625", w.VWAP)
	}
}

func TestTopSharesOrdering(t *testing.T) {
	trades := []models.Trade{
		trade(1, models.SideBuy, 10.0, 0.001),
		trade(2, models.SideBuy, 2.0, 0.001),
		trade(3, models.SideBuy, 1.0, 0.001),
	}
	w := Compute(models.Mint{}, models.Horizon5s, time.Now(), time.Now(), trades)

	if !(w.Top1Share <= w.Top3Share && w.Top3Share <= w.Top5Share && w.Top5Share <= 1.0) {
		t.Fatalf("share ordering violated: top1=%v top3=%v top5=%v", w.Top1Share, w.Top3Share, w.Top5Share)
	}
	if w.Top5Share != 1.0 {
		t.Fatalf("top5 share with only 3 buyers must be 1.0, got %v", w.Top5Share)
	}
}
