// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// cacheOp tags which recursive operator produced a computedCache entry, so
// that Apply, Ite, quantification and composition can all share one
// direct-mapped table without colliding on identical operand triples used
// by different operators (spec.md §4.3).
type cacheOp uint8

const (
	cacheOpITE cacheOp = iota
	cacheOpAnd
	cacheOpOr
	cacheOpXor
	cacheOpNand
	cacheOpNor
	cacheOpImp
	cacheOpBiimp
	cacheOpDiff
	cacheOpLess
	cacheOpInvImp
	cacheOpNot
	cacheOpExist
	cacheOpForAll
	cacheOpAppEx
	cacheOpRestrict
	cacheOpConstrain
	cacheOpSimplify
	cacheOpPlus
	cacheOpTimes
	cacheOpMin
	cacheOpMax
	cacheOpThreshold
	cacheOpDivide
)

// cacheSlot is one direct-mapped entry: the full key is stored alongside the
// result so a hash collision is detected as a miss rather than returning a
// wrong answer (spec.md §4.3: "soft-bounded, lossy ... never wrong").
type cacheSlot struct {
	valid bool
	op    cacheOp
	a, b, c Ref
	res   Ref
}

// cacheSlotSize estimates one slot's footprint for the manager's memory
// budget check alongside nodeByteSize (spec.md §5/§6).
const cacheSlotSize = unsafe.Sizeof(cacheSlot{})

// computedCache is the direct-mapped memo table shared by every recursive
// Boolean/ADD operator. It is resized by growTo after a node-table growth
// (spec.md §4.3's cache-ratio tie-in) and by maybeResizeCache's hit-rate and
// memory checks, and a write always overwrites whatever was in its slot:
// losing a cached result only costs recomputation, never correctness.
type computedCache struct {
	slots []cacheSlot
	hits  int
	misses int
}

func newComputedCache(initial, ratio int) *computedCache {
	size := initial
	if size < 1 {
		size = 1
	}
	return &computedCache{slots: make([]cacheSlot, nextPow2(size))}
}

func (c *computedCache) mask() uint64 {
	return uint64(len(c.slots) - 1)
}

func cacheHash(op cacheOp, a, b, cc Ref) uint64 {
	var buf [13]byte
	buf[0] = byte(op)
	putRef(buf[1:5], a)
	putRef(buf[5:9], b)
	putRef(buf[9:13], cc)
	return xxhash.Sum64(buf[:])
}

// lookup probes the cache for a binary or ternary operator
// application. The third operand is invalidRef for binary operators.
func (c *computedCache) lookup(op cacheOp, a, b, cc Ref) (Ref, bool) {
	slot := &c.slots[cacheHash(op, a, b, cc)&c.mask()]
	if slot.valid && slot.op == op && slot.a == a && slot.b == b && slot.c == cc {
		c.hits++
		return slot.res, true
	}
	c.misses++
	return invalidRef, false
}

func (c *computedCache) insert(op cacheOp, a, b, cc, res Ref) {
	slot := &c.slots[cacheHash(op, a, b, cc)&c.mask()]
	*slot = cacheSlot{valid: true, op: op, a: a, b: b, c: cc, res: res}
}

// reset invalidates every entry without shrinking the backing array. Called
// after garbage collection and after a reorder, since neither operation
// preserves the meaning of a cached Ref (spec.md §4.2, §4.6).
func (c *computedCache) reset() {
	for i := range c.slots {
		c.slots[i] = cacheSlot{}
	}
}

// growTo resizes the cache to at least n slots, rounded to a power of two.
// Shrinking is never requested by a caller in this package.
func (c *computedCache) growTo(n int) {
	if n <= len(c.slots) {
		return
	}
	c.slots = make([]cacheSlot, nextPow2(n))
}

// shrinkTo resizes the cache down to at most n slots (rounded to a power of
// two, never below 1), used by the memory-pressure side of the soft-resize
// policy (spec.md §4.3).
func (c *computedCache) shrinkTo(n int) {
	if n < 1 {
		n = 1
	}
	if n >= len(c.slots) {
		return
	}
	c.slots = make([]cacheSlot, nextPow2(n))
}

// hitRatio reports the fraction of lookups that hit since the last
// resetCounters call, or 0 if there have been none.
func (c *computedCache) hitRatio() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// resetCounters zeroes the hit/miss tally, starting a fresh measurement
// window for the next soft-resize check.
func (c *computedCache) resetCounters() {
	c.hits, c.misses = 0, 0
}

// maybeResizeCache implements spec.md §4.3's soft-resize policy: when the
// approximate footprint exceeds MaxMemory, the cache halves; otherwise,
// if the hit rate since the last check clears cfg.minHitRate, the cache
// doubles. Either way the hit/miss tally starts a fresh window. Called at
// natural checkpoints (after GC, after an automatic reorder check) rather
// than on every operator call, since resizing is itself an O(cache size)
// allocation.
func (m *Manager) maybeResizeCache() {
	if m.cfg.minHitRate <= 0 {
		return
	}
	if m.cfg.maxMemoryBytes > 0 && m.approxMemoryBytes() > m.cfg.maxMemoryBytes {
		shrunk := len(m.cache.slots) / 2
		m.cache.shrinkTo(shrunk)
		m.cache.resetCounters()
		return
	}
	if m.cache.hitRatio() > m.cfg.minHitRate {
		m.cache.growTo(len(m.cache.slots) * 2)
	}
	m.cache.resetCounters()
}

// approxMemoryBytes estimates the node pool and computed cache's combined
// footprint for the MaxMemory budget check.
func (m *Manager) approxMemoryBytes() int64 {
	return int64(len(m.nodes))*int64(nodeByteSize) + int64(len(m.cache.slots))*int64(cacheSlotSize)
}

// cacheLookup2/cacheInsert2 are the binary-operator convenience wrappers
// used throughout ops_bool.go/ops_add.go.
func (m *Manager) cacheLookup2(op cacheOp, a, b Ref) (Ref, bool) {
	return m.cache.lookup(op, a, b, invalidRef)
}

func (m *Manager) cacheInsert2(op cacheOp, a, b, res Ref) {
	m.cache.insert(op, a, b, invalidRef, res)
}

func (m *Manager) cacheLookup3(op cacheOp, a, b, c Ref) (Ref, bool) {
	return m.cache.lookup(op, a, b, c)
}

func (m *Manager) cacheInsert3(op cacheOp, a, b, c, res Ref) {
	m.cache.insert(op, a, b, c, res)
}
