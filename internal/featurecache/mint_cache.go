// Package featurecache implements the lock-free mint and wallet feature
// caches (spec §4.6), grounded on brain/src/feature_cache/mint_cache.rs.
//
// sync.Map is used rather than a hand-rolled sharded map: it gives the
// per-key atomic replace the spec requires, and no third-party concurrent
// map library appears anywhere in the example pack (DashMap has no Go
// analog in scope here) — see DESIGN.md.
package featurecache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/rawblock/trade-brain/pkg/models"
)

const evictAfter = 5 * time.Minute

// WindowStore is queried to rebuild the mint feature cache. Implemented by
// internal/store against the persisted aggregation windows (spec §6.3).
type WindowStore interface {
	QueryMintFeatures(ctx context.Context, mint models.Mint) (models.MintFeatures, error)
	AllMints(ctx context.Context) ([]models.Mint, error)
}

// MintCache is a background-refreshed, lock-free mint -> MintFeatures
// mapping. Readers always see a self-consistent record per key.
type MintCache struct {
	data  sync.Map // models.Mint -> models.MintFeatures
	store WindowStore
}

func NewMintCache(store WindowStore) *MintCache {
	return &MintCache{store: store}
}

func (c *MintCache) Get(mint models.Mint) (models.MintFeatures, bool) {
	v, ok := c.data.Load(mint)
	if !ok {
		return models.MintFeatures{}, false
	}
	return v.(models.MintFeatures), true
}

func (c *MintCache) Insert(f models.MintFeatures) {
	c.data.Store(f.Mint, f)
}

func (c *MintCache) Contains(mint models.Mint) bool {
	_, ok := c.data.Load(mint)
	return ok
}

func (c *MintCache) Len() int {
	n := 0
	c.data.Range(func(_, _ any) bool { n++; return true })
	return n
}

// StartUpdater spawns a periodic background refresh; on a store query
// error the previous snapshot for that mint stands (spec §4.6).
func (c *MintCache) StartUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refresh(ctx)
				c.evictStale()
			}
		}
	}()
}

func (c *MintCache) refresh(ctx context.Context) {
	mints, err := c.store.AllMints(ctx)
	if err != nil {
		log.Printf("featurecache: AllMints query failed, keeping previous snapshot: %v", err)
		return
	}
	for _, mint := range mints {
		f, err := c.store.QueryMintFeatures(ctx, mint)
		if err != nil {
			log.Printf("featurecache: query for mint %s failed, keeping previous snapshot: %v", mint.Short(8), err)
			continue
		}
		c.Insert(f)
	}
}

func (c *MintCache) evictStale() {
	now := time.Now()
	evicted := 0
	c.data.Range(func(k, v any) bool {
		f := v.(models.MintFeatures)
		if now.Sub(f.LastUpdate) > evictAfter {
			c.data.Delete(k)
			evicted++
		}
		return true
	})
	if evicted > 0 {
		log.Printf("featurecache: evicted %d stale mint entries", evicted)
	}
}

// FollowThroughScore computes the derived 0.4*buyers + 0.4*volume + 0.2*ratio
// blend used when assembling MintFeatures from raw window aggregates,
// matching mint_cache.rs's query_mint_features scoring.
func FollowThroughScore(buyersScore, volumeScore, ratioScore float64) float64 {
	return 0.4*buyersScore + 0.4*volumeScore + 0.2*ratioScore
}
