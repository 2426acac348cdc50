package featurecache

import (
	"sync"

	"github.com/rawblock/trade-brain/pkg/models"
)

// WalletCache is the wallet-keyed analog of MintCache: tier + confidence +
// last-seen, same per-key atomic replace shape (spec §4.6).
type WalletCache struct {
	data sync.Map // [32]byte -> models.WalletFeatures
}

func NewWalletCache() *WalletCache {
	return &WalletCache{}
}

func (c *WalletCache) Get(wallet [32]byte) (models.WalletFeatures, bool) {
	v, ok := c.data.Load(wallet)
	if !ok {
		return models.WalletFeatures{}, false
	}
	return v.(models.WalletFeatures), true
}

func (c *WalletCache) Insert(f models.WalletFeatures) {
	c.data.Store(f.Wallet, f)
}

func (c *WalletCache) Len() int {
	n := 0
	c.data.Range(func(_, _ any) bool { n++; return true })
	return n
}
