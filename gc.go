// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "github.com/bits-and-blooms/bitset"

// gcStats records the history of garbage collections, mirroring the
// teacher's gcstat/gcpoint (gc.go).
type gcStats struct {
	history []gcPoint
}

type gcPoint struct {
	nodesBefore int
	freeBefore  int
	nodesAfter  int
	freeAfter   int
}

// AddRef increases the reference count on r and returns r so calls can be
// chained. It never fails, even on a stale or out-of-range Ref (spec.md §4.2
// documents AddRef/DelRef as total functions over the whole index space).
func (m *Manager) AddRef(r Ref) Ref {
	idx := r.index()
	if idx <= 0 || int(idx) >= len(m.nodes) {
		return r
	}
	addRefCount(&m.nodes[idx].refcou)
	return r
}

// DelRef decreases the reference count on r's root alone and returns r
// unchanged so calls can be chained. It never touches r's children: this
// manager is not a structurally reference-counted DAG (uniqueInter never
// takes a +1 on a node's low/high when linking it in as a child — see
// DESIGN.md's "Reference counting is root-only" entry), so a child node is
// kept alive purely by reachability from some root, the same way the
// teacher's gbc()/markrec reachability pass works. Recursing into children
// here would drop a count that was never actually taken for that edge,
// and could collect a node another root still reaches. A node dropping to
// refcou 0 is only a hint to the allocator and to dead-counting reorder
// triggers that this root is gone; whether the node it named is actually
// reclaimed is decided by collectGarbage's mark pass, not by this count.
func (m *Manager) DelRef(r Ref) Ref {
	m.deref(r.index())
	return r
}

func (m *Manager) deref(idx int32) {
	if idx <= 0 || int(idx) >= len(m.nodes) {
		return
	}
	n := &m.nodes[idx]
	if isPermanent(n.refcou) || n.refcou == 0 {
		return
	}
	n.refcou--
	if n.refcou == 0 {
		sentinel := m.varnum
		if !n.isTerminal(sentinel) {
			m.subs[n.level].dead++
			m.subs[n.level].live--
		} else if m.consts != nil {
			m.consts.dead++
			m.consts.live--
		}
	}
}

// pushref/popref implement the "temporary hold" discipline: an index is
// pushed while a recursive operator frame still needs it protected from a
// GC triggered by a nested unique-table insertion, and popped once the
// frame no longer needs that protection.
func (m *Manager) pushref(r Ref) Ref {
	m.refstack = append(m.refstack, r)
	return r
}

func (m *Manager) popref(n int) {
	m.refstack = m.refstack[:len(m.refstack)-n]
}

func (m *Manager) initref() {
	m.refstack = m.refstack[:0]
}

// collectGarbage runs a full mark/sweep pass: pre-GC hooks, mark every node
// reachable from the refstack or carrying a positive refcount, sweep
// everything else, invalidate the computed cache, post-GC hooks (spec.md
// §4.2). Exported as GC.
func (m *Manager) collectGarbage() {
	runHooks(m, m.hooks.preGC)
	before := len(m.nodes) - m.freeCnt
	freeBefore := m.freeCnt

	marks := bitset.New(uint(len(m.nodes)))
	for _, r := range m.refstack {
		m.markRec(r.index(), marks)
	}
	for i := int32(1); i < int32(len(m.nodes)); i++ {
		if m.nodes[i].refcou > 0 {
			m.markRec(i, marks)
		}
	}

	m.freeHead = 0
	m.freeCnt = 0
	for i := range m.subs {
		m.subs[i] = newSubtable(len(m.subs[i].buckets))
	}
	oldConstSlots := len(m.consts.buckets)
	m.consts = newSubtable(oldConstSlots)

	sentinel := m.varnum
	for i := int32(len(m.nodes) - 1); i > 0; i-- {
		if marks.Test(uint(i)) {
			if m.nodes[i].isTerminal(sentinel) {
				m.linkConst(i)
			} else {
				m.relinkInternal(i)
			}
		} else {
			m.nodes[i].low = invalidRef
			m.nodes[i].next = m.freeHead
			m.freeHead = i
			m.freeCnt++
		}
	}

	m.cache.reset()
	m.composeCache.Purge()
	m.maybeResizeCache()

	m.gcHistory.history = append(m.gcHistory.history, gcPoint{
		nodesBefore: before,
		freeBefore:  freeBefore,
		nodesAfter:  len(m.nodes) - m.freeCnt,
		freeAfter:   m.freeCnt,
	})
	m.stats.GCRuns++
	if m.log != nil {
		m.log.Debugw("gc complete", "free", m.freeCnt, "total", len(m.nodes))
	}
	runHooks(m, m.hooks.postGC)
}

func (m *Manager) relinkInternal(idx int32) {
	n := &m.nodes[idx]
	st := m.subs[n.level]
	slot := st.slot(n.low, n.high)
	n.next = st.buckets[slot]
	st.buckets[slot] = idx
	if n.refcou > 0 {
		st.live++
	} else {
		st.dead++
	}
}

func (m *Manager) markRec(idx int32, marks *bitset.BitSet) {
	if idx <= 0 || int(idx) >= len(m.nodes) || marks.Test(uint(idx)) {
		return
	}
	marks.Set(uint(idx))
	sentinel := m.varnum
	n := &m.nodes[idx]
	if n.isTerminal(sentinel) {
		return
	}
	m.markRec(n.low.index(), marks)
	m.markRec(n.high.index(), marks)
}

// maybeCollect runs a collection when there is no free slot left to satisfy
// an imminent allocation, or unconditionally when force is true (used
// before a reorder).
func (m *Manager) maybeCollect(force bool) {
	if !force && m.freeCnt > 0 {
		return
	}
	m.collectGarbage()
}

// GC explicitly triggers garbage collection.
func (m *Manager) GC() {
	m.collectGarbage()
}
