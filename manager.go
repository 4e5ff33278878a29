// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"math"
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Kind selects which algebra a Manager implements. A single manager is
// either a Boolean BDD manager (with complement edges) or an Algebraic
// Decision Diagram manager (numeric terminals, no complement edges); the
// two share every other component (unique table, cache, GC, reordering).
type Kind int

const (
	// KindBDD is the Boolean family: a single canonical terminal (value 1),
	// negation encoded with the Ref complement tag.
	KindBDD Kind = iota
	// KindADD is the algebraic family: terminals carry arbitrary float64
	// values and internal nodes never use the complement tag.
	KindADD
)

// Manager owns every piece of process-wide state for one decision-diagram
// pool: the unique table (nodes + subtables), the computed cache, the
// reference-count/GC machinery, the variable order, tunables, statistics,
// hooks, the per-manager RNG and the error/timeout/termination channel.
// Calls into one Manager never touch another (§5: single-threaded
// cooperative per manager; multiple managers may run on different
// goroutines concurrently with no locking between them).
type Manager struct {
	kind Kind

	varnum int32 // number of declared variables
	nodes  []node
	subs   []*subtable // one per level, len == varnum
	consts *subtable   // the constant subtable (terminals)

	freeHead int32 // first free node slot, 0 if none
	freeCnt  int   // number of free slots

	perm    []int32 // perm[index] = level
	invPerm []int32 // invPerm[level] = index

	groups []levelGroup // variable-group constraints for group sifting, read-only during reorder

	refstack []Ref // transient-hold stack protecting in-flight results from GC

	cache *computedCache

	composeCache *lru.Cache[composeKey, Ref] // outlives a single Permute/VectorCompose call

	cfg configs

	gcHistory gcStats
	hooks     hookSet
	err    *Error
	log    *zap.SugaredLogger
	rng    *rand.Rand
	reordered bool // set by Reorder; runOperator retries its body once when it is set
	inReorder bool // guards against maybeAutoReorder re-entering while a reorder is already running

	background float64 // the ADD "don't care" terminal value

	startTime   time.Time
	timeLimit   time.Duration // zero means no limit
	termHook    func() bool
	oomHook     func()
	reorderMethod ReorderMethod

	zdd *zddState // nil unless EnableZDD was called

	stats ManagerStats

	litPos []Ref // Ithvar(i) cached per declared variable: low=zero, high=one
	litNeg []Ref // NIthvar(i) cached per declared variable: low=one, high=zero
}

// levelGroup is the externally supplied description of a contiguous range
// of levels that must move together during group sifting. It stands in for
// the multiway-tree the original library uses: spec.md marks the tree's
// node-allocation details as an uninteresting external concern, so this
// module only needs the flattened (start, size) view an engine actually
// consults.
type levelGroup struct {
	start int // first level in the group
	size  int // number of contiguous levels in the group
	fixed bool
}

// ManagerStats mirrors the counters the teacher exposes through Stats()/
// String(): produced node count, unique-table accesses/hits/misses, and GC
// history, surfaced here as a struct instead of a preformatted string so
// callers can log structured fields with zap.
type ManagerStats struct {
	Produced     int
	UniqueAccess int
	UniqueHit    int
	UniqueMiss   int
	GCRuns       int
	Reorders     int
}

// composeKey indexes the persistent compose/permutation cache.
type composeKey struct {
	op   uint8
	id   int32
	node Ref
}

// New creates a Boolean BDD manager with varnum variables. Options configure
// initial table/cache sizes and tunables (see config.go); the zero value of
// every option matches the teacher's defaults.
func New(varnum int, options ...Option) (*Manager, error) {
	return newManager(KindBDD, varnum, options...)
}

// NewADD creates an Algebraic Decision Diagram manager with varnum
// variables. The background value (the "don't care" terminal, spec.md §3)
// defaults to 0 and can be changed with SetBackground.
func NewADD(varnum int, options ...Option) (*Manager, error) {
	return newManager(KindADD, varnum, options...)
}

func newManager(kind Kind, varnum int, options ...Option) (*Manager, error) {
	if varnum < 1 || int32(varnum) > maxVar {
		return nil, newError(ErrInvalidArg, "bad number of variables (%d)", varnum)
	}
	cfg := defaultConfigs(varnum)
	for _, opt := range options {
		opt(&cfg)
	}
	m := &Manager{
		kind:      kind,
		cfg:       cfg,
		log:       zap.NewNop().Sugar(),
		rng:       rand.New(rand.NewSource(cfg.seed)),
		startTime: time.Time{},
	}
	if cfg.logger != nil {
		m.log = cfg.logger
	}
	cc, err := lru.New[composeKey, Ref](cfg.composeCacheSize)
	if err != nil {
		return nil, newError(ErrMemoryOut, "cannot allocate compose cache: %s", err)
	}
	m.composeCache = cc

	nodesize := nextPow2(cfg.nodesize)
	m.nodes = make([]node, nodesize)
	for i := range m.nodes {
		m.nodes[i].next = int32(i + 1)
	}
	m.nodes[nodesize-1].next = 0
	m.freeHead = 1 // slot 0 is the permanent invalid sentinel, never allocated
	m.freeCnt = nodesize - 1

	m.consts = newSubtable(cfg.cachesize / 16)
	m.cache = newComputedCache(cfg.cachesize, cfg.cacheratio)

	// The canonical terminal lives at index 1, pinned permanent, level ==
	// varnum (one past the last real level), exactly as the teacher pins
	// nodes[0]/nodes[1].
	oneValue := 1.0
	m.allocTerminal(oneValue, int32(varnum))

	m.perm = make([]int32, varnum)
	m.invPerm = make([]int32, varnum)
	for i := range m.perm {
		m.perm[i] = int32(i)
		m.invPerm[i] = int32(i)
	}
	m.subs = make([]*subtable, varnum)
	for i := range m.subs {
		m.subs[i] = newSubtable(cfg.nodesize / (varnum + 1))
	}
	m.varnum = int32(varnum)

	for i := 0; i < varnum; i++ {
		if err := m.declareVariable(i); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// allocTerminal creates (or finds) the terminal node for value v and pins
// it permanently, returning its regular Ref. Used both for the Boolean
// manager's single constant and for ADD constants created on demand.
func (m *Manager) allocTerminal(v float64, sentinelLevel int32) Ref {
	if idx, ok := m.findTerminal(v); ok {
		m.nodes[idx].refcou = maxRefcount
		return newRef(idx, false)
	}
	idx, err := m.allocSlot()
	if err != nil {
		if m.oomHook != nil {
			m.oomHook()
		}
		return invalidRef
	}
	m.nodes[idx] = node{
		refcou: maxRefcount,
		level:  sentinelLevel,
		low:    Ref(idx << 1),
		high:   Ref(idx << 1),
		value:  v,
	}
	m.linkConst(idx)
	return newRef(idx, false)
}

func (m *Manager) findTerminal(v float64) (int32, bool) {
	if m.consts == nil {
		return 0, false
	}
	slot := int(hashFloat(v) >> m.consts.shift)
	for n := m.consts.buckets[slot]; n != 0; n = m.nodes[n].next {
		if m.nodes[n].value == v {
			return n, true
		}
	}
	return 0, false
}

func (m *Manager) linkConst(idx int32) {
	slot := int(hashFloat(m.nodes[idx].value) >> m.consts.shift)
	m.nodes[idx].next = m.consts.buckets[slot]
	m.consts.buckets[slot] = idx
	m.consts.live++
}

func hashFloat(v float64) uint64 {
	var buf [8]byte
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

// declareVariable allocates the pair of literal nodes for variable index i
// at its initial level i, pinning both permanently (spec.md §6: variable
// creation returns a Ref to the positive literal; NIthvar mirrors it).
func (m *Manager) declareVariable(index int) error {
	level := int32(index)
	pos, err := m.uniqueInter(level, m.zero(), m.one())
	if err != nil {
		return err
	}
	m.nodes[pos.index()].refcou = maxRefcount
	neg, err := m.uniqueInter(level, m.one(), m.zero())
	if err != nil {
		return err
	}
	m.nodes[neg.index()].refcou = maxRefcount
	m.litPos = append(m.litPos, pos)
	m.litNeg = append(m.litNeg, neg)
	return nil
}

// zero and one return the manager's constant Refs. For a Boolean manager
// one is the canonical terminal and zero is its complement; for an ADD
// manager zero and one are distinct terminal nodes with values 0 and 1.
func (m *Manager) zero() Ref {
	if m.kind == KindBDD {
		return m.oneRef().Negated()
	}
	return m.allocTerminal(0, m.varnum)
}

func (m *Manager) one() Ref {
	if m.kind == KindBDD {
		return m.oneRef()
	}
	return m.allocTerminal(1, m.varnum)
}

// oneRef returns the Ref to the single pinned Boolean terminal at index 1.
func (m *Manager) oneRef() Ref {
	return newRef(1, false)
}
