package engine

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/yourusername/bgrules/internal/positionid"
)

// DefaultPlaysCacheSize is used when NewPlaysCache is given 0.
const DefaultPlaysCacheSize = 1 << 14

// playsEntry caches how fully a set of dice can be played from a position.
type playsEntry struct {
	key     positionid.PositionKey
	dice    uint32 // diceContext of the dice
	valid   bool
	maxDice int8
	maxPips int8
}

// playsNode holds primary and secondary entries for two-way associativity
type playsNode struct {
	primary   playsEntry
	secondary playsEntry
}

// PlaysCache memoizes the fullest use of the remaining dice of a turn from a
// given position. It is a two-way associative table indexed by a
// MurmurHash3-style mix of the position key and the dice, safe for
// concurrent use by several turns.
type PlaysCache struct {
	mu    sync.Mutex
	nodes []playsNode
	mask  uint32

	lookups atomic.Uint64
	hits    atomic.Uint64
}

// NewPlaysCache creates a cache with room for about size entries, rounded up
// to a power of two.
func NewPlaysCache(size int) *PlaysCache {
	if size <= 0 {
		size = DefaultPlaysCacheSize
	}
	if size > 1<<24 {
		size = 1 << 24
	}
	p := 2
	for p < size {
		p <<= 1
	}
	return &PlaysCache{
		nodes: make([]playsNode, p/2),
		mask:  uint32(p/2 - 1),
	}
}

// Flush drops every entry and resets the statistics.
func (c *PlaysCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.nodes)
	c.lookups.Store(0)
	c.hits.Store(0)
}

// Stats returns the number of lookups and hits since the last Flush.
func (c *PlaysCache) Stats() (lookups, hits uint64) {
	return c.lookups.Load(), c.hits.Load()
}

// HitRate returns the hit rate as a percentage
func (c *PlaysCache) HitRate() float64 {
	lookups, hits := c.Stats()
	if lookups == 0 {
		return 0
	}
	return float64(hits) / float64(lookups) * 100
}

// diceContext packs a multiset of dice into one value, independent of order.
func diceContext(dice []int) uint32 {
	sorted := append([]int(nil), dice...)
	sort.Ints(sorted)
	ctx := uint32(len(sorted)) << 12
	for i, d := range sorted {
		ctx |= uint32(d&0x7) << (3 * i)
	}
	return ctx
}

func (c *PlaysCache) slot(key positionid.PositionKey, dice uint32) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	mix := func(h, k uint32) uint32 {
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2
		h ^= k
		h = (h << 13) | (h >> 19)
		return h*5 + 0xe6546b64
	}

	h := uint32(0)
	for _, k := range key.Data {
		h = mix(h, k)
	}
	h = mix(h, dice)

	h ^= 32
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h & c.mask
}

func (c *PlaysCache) lookup(key positionid.PositionKey, dice uint32) (playsEntry, bool) {
	c.lookups.Add(1)
	n := c.slot(key, dice)

	c.mu.Lock()
	defer c.mu.Unlock()
	node := &c.nodes[n]
	switch {
	case node.primary.valid && node.primary.key == key && node.primary.dice == dice:
		c.hits.Add(1)
		return node.primary, true
	case node.secondary.valid && node.secondary.key == key && node.secondary.dice == dice:
		c.hits.Add(1)
		node.primary, node.secondary = node.secondary, node.primary
		return node.primary, true
	}
	return playsEntry{}, false
}

func (c *PlaysCache) store(key positionid.PositionKey, dice uint32, maxDice, maxPips int) {
	n := c.slot(key, dice)

	c.mu.Lock()
	defer c.mu.Unlock()
	node := &c.nodes[n]
	node.secondary = node.primary
	node.primary = playsEntry{
		key:     key,
		dice:    dice,
		valid:   true,
		maxDice: int8(maxDice),
		maxPips: int8(maxPips),
	}
}

// reach returns the most dice, then the most pips, any legal sequence of
// dice can use from b. c may be nil.
func reach(c *PlaysCache, b Board, p Player, dice []int) (int, int) {
	if len(dice) == 0 {
		return 0, 0
	}
	if c == nil {
		pl := legalPlays(b, p, dice)
		return pl.MaxDice, pl.MaxPips
	}

	// Keys are relative to the mover, so either color and direction share
	// entries for the same position.
	key := positionKey(&b, p)
	ctx := diceContext(dice)
	if e, ok := c.lookup(key, ctx); ok {
		return int(e.maxDice), int(e.maxPips)
	}
	pl := legalPlays(b, p, dice)
	c.store(key, ctx, pl.MaxDice, pl.MaxPips)
	return pl.MaxDice, pl.MaxPips
}
