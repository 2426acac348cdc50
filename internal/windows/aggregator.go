// Package windows maintains per-mint, multi-horizon OHLCV + buyer
// concentration aggregates (spec §4.8). Grounded on the teacher's batched
// upsert idiom in internal/db/postgres.go (ON CONFLICT ... DO UPDATE) and
// on Collector's windowing responsibility described in spec §1/§3.
package windows

import (
	"math"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

// Compute derives a Window from the trades observed in one (mint, horizon,
// bucket). Callers gather the trade set (store query or in-memory ring,
// spec §4.8 step 2) and call Compute once per horizon on trade arrival.
// An empty bucket must not be computed — callers skip it (spec §4.8 edge case).
func Compute(mint models.Mint, horizon models.Horizon, bucketStart, bucketEnd time.Time, trades []models.Trade) models.Window {
	w := models.Window{
		Mint:      mint,
		Horizon:   horizon,
		StartTime: bucketStart,
		EndTime:   bucketEnd,
		Low:       math.MaxFloat64,
	}

	if len(trades) == 0 {
		w.Low = 0
		return w
	}

	buyers := make(map[[32]byte]float64) // trader -> buy volume in SOL
	var totalBuyVolume float64
	var sumSolPrice, sumSol float64
	var prices []float64

	for i, tr := range trades {
		if tr.Side == models.SideBuy {
			w.NumBuys++
			buyers[tr.Trader] += tr.AmountSol
			totalBuyVolume += tr.AmountSol
		} else {
			w.NumSells++
		}

		if i == 0 {
			w.Open = tr.Price
		}
		w.Close = tr.Price
		if tr.Price > w.High {
			w.High = tr.Price
		}
		if tr.Price < w.Low {
			w.Low = tr.Price
		}

		w.VolumeTokens += tr.AmountToken
		w.VolumeSol += tr.AmountSol
		sumSolPrice += tr.AmountSol * tr.Price
		sumSol += tr.AmountSol
		prices = append(prices, tr.Price)
	}

	w.UniqueBuyers = len(buyers)

	if sumSol > 0 {
		w.VWAP = sumSolPrice / sumSol
	}

	w.Top1Share, w.Top3Share, w.Top5Share = topNShares(buyers, totalBuyVolume)
	w.PriceVolatility = populationStdDev(prices)

	if w.Low == math.MaxFloat64 {
		w.Low = 0
	}

	return w
}

// topNShares returns the fraction of total buy volume held by the top 1/3/5
// buyers by volume, normalized by total volume even when fewer than N
// distinct buyers exist (spec §4.8: "share is exactly 1 when accumulating
// all buyers").
func topNShares(buyers map[[32]byte]float64, total float64) (top1, top3, top5 float64) {
	if total <= 0 || len(buyers) == 0 {
		return 0, 0, 0
	}

	volumes := make([]float64, 0, len(buyers))
	for _, v := range buyers {
		volumes = append(volumes, v)
	}
	// simple descending insertion sort; buyer counts per window are small
	for i := 1; i < len(volumes); i++ {
		v := volumes[i]
		j := i - 1
		for j >= 0 && volumes[j] < v {
			volumes[j+1] = volumes[j]
			j--
		}
		volumes[j+1] = v
	}

	sum := func(n int) float64 {
		if n > len(volumes) {
			n = len(volumes)
		}
		s := 0.0
		for i := 0; i < n; i++ {
			s += volumes[i]
		}
		return s / total
	}

	return sum(1), sum(3), sum(5)
}

// populationStdDev returns 0 when fewer than 2 observations exist (spec
// §4.8: "one price observed, volatility is 0").
func populationStdDev(prices []float64) float64 {
	n := len(prices)
	if n < 2 {
		return 0
	}
	var mean float64
	for _, p := range prices {
		mean += p
	}
	mean /= float64(n)

	var variance float64
	for _, p := range prices {
		d := p - mean
		variance += d * d
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}
