// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "go.uber.org/zap"

// configs stores every tunable a Manager is created with. Mirrors the
// teacher's configs struct (config.go), extended with the tunables
// spec.md's Manager section adds: memory cap, reorder cycle, sifting
// thresholds, randomization factor, dead-counting flag, and the ambient
// logger/RNG seed.
type configs struct {
	varnum    int
	nodesize  int
	cachesize  int
	cacheratio int

	maxnodesize     int
	maxnodeincrease int
	minfreenodes    int

	maxMemoryBytes int64
	minHitRate     float64 // spec.md §4.3: cache only grows on its own once its hit rate clears this

	composeCacheSize int

	deadCounting bool

	reorderCycle     int // fixed trigger count at or above which node creation runs an automatic reorder
	siftMaxVar       int
	siftMaxSwap      int
	maxGrowth        float64 // sifting's growth ceiling, as a multiple of the starting size
	randomizeFactor  int

	seed   int64
	logger *zap.SugaredLogger
}

func defaultConfigs(varnum int) configs {
	return configs{
		varnum:           varnum,
		nodesize:         2*varnum + 2,
		cachesize:        10000,
		minfreenodes:     _MINFREENODES,
		maxnodeincrease:  _DEFAULTMAXNODEINC,
		composeCacheSize: 4096,
		reorderCycle:     1 << 20,
		siftMaxVar:       1 << 30,
		siftMaxSwap:      1 << 30,
		maxGrowth:        2.0,
		minHitRate:       0.3,
		seed:             1,
	}
}

// Option configures a Manager at construction time, following the teacher's
// functional-options pattern (config.go's Nodesize/Cachesize/...).
type Option func(*configs)

// Nodesize sets a preferred initial size for the node table.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize caps the number of nodes the manager will ever allocate. An
// operation that would exceed it fails with ErrTooManyNodes. Zero (the
// default) means no limit.
func Maxnodesize(size int) Option {
	return func(c *configs) { c.maxnodesize = size }
}

// Maxnodeincrease caps how many nodes a single resize can add.
func Maxnodeincrease(size int) Option {
	return func(c *configs) { c.maxnodeincrease = size }
}

// Minfreenodes sets the percentage of free nodes that must remain after a
// garbage collection before a resize is triggered instead.
func Minfreenodes(ratio int) Option {
	return func(c *configs) { c.minfreenodes = ratio }
}

// Cachesize sets the initial number of entries in the computed cache.
func Cachesize(size int) Option {
	return func(c *configs) { c.cachesize = size }
}

// Cacheratio sets the percentage of cache entries maintained per 100 node
// slots whenever the node table grows. Zero (the default) means node-table
// growth does not resize the cache; the MinHitRate policy still applies.
func Cacheratio(ratio int) Option {
	return func(c *configs) { c.cacheratio = ratio }
}

// MinHitRate sets the computed-cache hit rate (in [0,1]) that must be
// cleared, since the last check, before the cache is allowed to grow on its
// own (spec.md §4.3's soft-resize policy). The default is 0.3, matching the
// teacher's sizing intuition for when a bigger cache is worth the memory.
func MinHitRate(rate float64) Option {
	return func(c *configs) { c.minHitRate = rate }
}

// MaxMemory sets a hard cap, in bytes, on the memory the manager's node
// pool and caches may occupy. Zero (the default) means no limit; no cap is
// derived from the Go runtime or the process's resource limits.
func MaxMemory(bytes int64) Option {
	return func(c *configs) { c.maxMemoryBytes = bytes }
}

// ComposeCacheSize sets the capacity of the persistent compose/permutation
// LRU cache used by Permute and VectorCompose.
func ComposeCacheSize(size int) Option {
	return func(c *configs) { c.composeCacheSize = size }
}

// DeadCounting enables counting dead (refcou == 0, unswept) nodes toward
// the automatic-reorder threshold. Off by default, matching spec.md §4.2.
func DeadCounting(on bool) Option {
	return func(c *configs) { c.deadCounting = on }
}

// ReorderCycle sets the node count (live nodes, plus dead ones with
// DeadCounting) at or above which creating a node runs an automatic
// reorder, when automatic reordering is enabled. The count is absolute, not
// growth since the last reorder, and is not recomputed after a reorder.
func ReorderCycle(n int) Option {
	return func(c *configs) { c.reorderCycle = n }
}

// SiftMaxVar/SiftMaxSwap bound a single classical-sifting pass.
func SiftMaxVar(n int) Option  { return func(c *configs) { c.siftMaxVar = n } }
func SiftMaxSwap(n int) Option { return func(c *configs) { c.siftMaxSwap = n } }

// MaxGrowth sets the multiple of a variable's starting subtable size that
// sifting tolerates before aborting a sweep early.
func MaxGrowth(factor float64) Option {
	return func(c *configs) { c.maxGrowth = factor }
}

// RandomizeFactor perturbs the automatic-reorder threshold after each
// reorder, to avoid resonances (spec.md §4.6).
func RandomizeFactor(n int) Option {
	return func(c *configs) { c.randomizeFactor = n }
}

// Seed sets the manager's private random-number-generator seed, used by
// the genetic and annealing reordering strategies and by RandomizeFactor.
func Seed(seed int64) Option {
	return func(c *configs) { c.seed = seed }
}

// WithLogger installs a structured logger for manager-wide diagnostics
// (GC completion, node-table growth and recorded errors). The default is a no-op
// logger, so the library stays silent unless a caller opts in.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *configs) { c.logger = l }
}

const (
	_MINFREENODES      int = 20
	_DEFAULTMAXNODEINC int = 1 << 20
)
