package blockview

import (
	"sync"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/tilestore"
)

// blockCache maps keys to blocks, creating on miss and evicting the least
// recently touched block once the map exceeds maxBlocks. The map is owned by
// the view; blocks are owned by the cache and mutated only by themselves.
type blockCache struct {
	chn   channel.DataChannel
	tiles tilestore.Store
	log   Logger
	hooks Hooks

	maxBlocks int

	mu     sync.Mutex
	blocks map[BlockKey]*Block
}

func newBlockCache(chn channel.DataChannel, tiles tilestore.Store, maxBlocks int, log Logger, hooks Hooks) *blockCache {
	return &blockCache{
		chn:       chn,
		tiles:     tiles,
		log:       log,
		hooks:     hooks,
		maxBlocks: maxBlocks,
		blocks:    make(map[BlockKey]*Block),
	}
}

// getOrCreate returns the block for key, constructing it on first miss.
// created tells the caller whether a first fetch round should be launched.
// Never returns nil.
func (c *blockCache) getOrCreate(key BlockKey) (b *Block, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.blocks[key]; ok {
		return b, false
	}
	b = newBlock(key, c.chn, c.tiles, c.log, c.hooks)
	c.blocks[key] = b
	c.log.Debug("block created", Fields{"key": key.String(), "blocks": len(c.blocks)})
	c.evictOverflowLocked(key)
	return b, true
}

func (c *blockCache) get(key BlockKey) (*Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.blocks[key]
	return b, ok
}

// snapshot returns the current blocks in unspecified order.
func (c *blockCache) snapshot() []*Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Block, 0, len(c.blocks))
	for _, b := range c.blocks {
		out = append(out, b)
	}
	return out
}

func (c *blockCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blocks)
}

// evictOverflowLocked drops least-recently-touched blocks until the map fits
// maxBlocks again. The block just created for keep is never a candidate,
// even though its stamp is still zero. The map stays small (tens of
// entries), so a linear scan per eviction is fine.
func (c *blockCache) evictOverflowLocked(keep BlockKey) {
	if c.maxBlocks <= 0 {
		return
	}
	for len(c.blocks) > c.maxBlocks {
		var (
			victim    BlockKey
			victimAge int64
			found     bool
		)
		for k, b := range c.blocks {
			if k == keep {
				continue
			}
			age := b.LastTouched()
			if !found || age < victimAge {
				victim, victimAge, found = k, age, true
			}
		}
		if !found {
			return
		}
		delete(c.blocks, victim)
		c.log.Debug("block evicted", Fields{"key": victim.String(), "lastTouched": victimAge})
		c.hooks.BlockEvicted(victim)
	}
}
