package chain

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const blockhashTTL = 2 * time.Second

type cachedBlockhash struct {
	value     Blockhash
	updatedAt time.Time
}

// BlockhashCache keeps a recently fetched blockhash so back-to-back
// submissions do not each pay an RPC round-trip. A blockhash stays valid for
// roughly 150 blocks; the 2s TTL is far inside that window.
type BlockhashCache struct {
	rpc RPC

	mu      sync.RWMutex
	current *cachedBlockhash
}

func NewBlockhashCache(rpc RPC) *BlockhashCache {
	return &BlockhashCache{rpc: rpc}
}

// Get returns a fresh-enough blockhash, refetching when the cached one aged
// out. On fetch failure a stale cached value is still returned when present:
// a slightly old blockhash usually lands, no blockhash never does.
func (c *BlockhashCache) Get(ctx context.Context) (Blockhash, error) {
	c.mu.RLock()
	cached := c.current
	c.mu.RUnlock()

	if cached != nil && time.Since(cached.updatedAt) < blockhashTTL {
		return cached.value, nil
	}

	fresh, err := c.rpc.LatestBlockhash(ctx)
	if err != nil {
		if cached != nil {
			log.Warn().Err(err).Msg("blockhash refresh failed, reusing cached value")
			return cached.value, nil
		}
		return Blockhash{}, err
	}

	c.mu.Lock()
	c.current = &cachedBlockhash{value: fresh, updatedAt: time.Now()}
	c.mu.Unlock()

	return fresh, nil
}
