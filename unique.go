// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// uniqueInter returns the canonical node for (level, low, high), building it
// if absent, after applying the two reductions that keep the DAG reduced
// and canonical under complementation (spec.md §4.1):
//
//   - elimination: if low == high, the node is redundant; return low itself
//     (for a BDD manager, the complement tag on low/high already reflects
//     any negation, so no extra tagging is needed here).
//   - canonical complement form: the high branch is never complemented; if
//     it is, complement both branches and complement the result instead. This is
//     what keeps two functions that are Boolean complements of each other
//     sharing the same node, tagged oppositely, instead of duplicating
//     storage (Design Notes).
//
// ADD managers skip complement-form normalization entirely: every Ref they
// hand out is regular.
//
// The returned node's reference count goes up exactly when the caller is
// handed a reason to hold it: a brand-new node starts at refcou 1, and a
// node found dead in its bucket chain is revived back to 1, both matching
// the unique_inter contract in spec.md §4.1. A node found already live is
// left untouched here — uniqueInter does not take a structural reference
// on behalf of the node that is about to point at it as a child; see
// DESIGN.md's "Reference counting is root-only" entry for why.
func (m *Manager) uniqueInter(level int32, low, high Ref) (Ref, error) {
	if low == high {
		return low, nil
	}

	complement := false
	if m.kind == KindBDD && high.IsComplemented() {
		low, high = low.Negated(), high.Negated()
		complement = true
	}

	m.stats.UniqueAccess++
	st := m.subs[level]
	slot := st.slot(low, high)
	for n := st.buckets[slot]; n != 0; n = m.nodes[n].next {
		nd := &m.nodes[n]
		if nd.low == low && nd.high == high {
			m.stats.UniqueHit++
			if nd.refcou == 0 {
				nd.refcou = 1
				st.live++
				st.dead--
			}
			if complement {
				return newRef(n, true), nil
			}
			return newRef(n, false), nil
		}
	}
	m.stats.UniqueMiss++

	m.pushref(low)
	m.pushref(high)
	idx, err := m.allocSlot()
	m.popref(2)
	if err != nil {
		return invalidRef, err
	}

	if st.needsGrowth() {
		m.growSubtable(level)
		st = m.subs[level]
		slot = st.slot(low, high)
	}

	m.nodes[idx] = node{
		refcou: 1,
		level:  level,
		low:    low,
		high:   high,
	}
	m.nodes[idx].next = st.buckets[slot]
	st.buckets[slot] = idx
	st.live++
	m.stats.Produced++

	m.maybeAutoReorder()

	if complement {
		return newRef(idx, true), nil
	}
	return newRef(idx, false), nil
}

// allocSlot returns an unused node index, growing or collecting the pool as
// needed (spec.md §4.1's "grow-or-collect" allocation discipline: once no
// free slot is left, collect first; then grow the table, honoring
// Maxnodesize, if the collection didn't leave at least Minfreenodes percent
// of the table free).
func (m *Manager) allocSlot() (int32, error) {
	if m.freeCnt == 0 {
		m.maybeCollect(false)
		if m.freeCnt*100 < len(m.nodes)*m.cfg.minfreenodes {
			if err := m.growNodeTable(); err != nil && m.freeCnt == 0 {
				return 0, err
			}
		}
	}
	if m.freeCnt == 0 {
		if err := m.growNodeTable(); err != nil {
			return 0, err
		}
	}
	idx := m.freeHead
	m.freeHead = m.nodes[idx].next
	m.freeCnt--
	return idx, nil
}

// growNodeTable doubles the node pool, bounded by Maxnodesize and
// Maxnodeincrease. A table already at its ceiling reports ErrTooManyNodes
// instead of silently failing, so an operator can unwind and surface it.
func (m *Manager) growNodeTable() error {
	old := len(m.nodes)
	grow := old
	if m.cfg.maxnodeincrease > 0 && grow > m.cfg.maxnodeincrease {
		grow = m.cfg.maxnodeincrease
	}
	newSize := old + grow
	if m.cfg.maxnodesize > 0 && newSize > m.cfg.maxnodesize {
		newSize = m.cfg.maxnodesize
	}
	if m.cfg.maxMemoryBytes > 0 {
		if budget := m.cfg.maxMemoryBytes / int64(nodeByteSize); budget < int64(newSize) {
			newSize = int(budget)
		}
		if newSize <= old {
			if m.oomHook != nil {
				m.oomHook()
			}
			return newError(ErrMaxMemExceeded, "node table at %d nodes would exceed the %d byte memory cap", old, m.cfg.maxMemoryBytes)
		}
	}
	if newSize <= old {
		return newError(ErrTooManyNodes, "node table exhausted at %d nodes", old)
	}

	grown := make([]node, newSize)
	copy(grown, m.nodes)
	for i := old; i < newSize; i++ {
		grown[i].next = int32(i + 1)
	}
	grown[newSize-1].next = 0
	m.nodes = grown
	m.freeHead = int32(old)
	m.freeCnt = newSize - old

	if m.cfg.cacheratio > 0 {
		m.cache.growTo(newSize * m.cfg.cacheratio / 100)
	}
	if m.log != nil {
		m.log.Debugw("node table grown", "from", old, "to", newSize)
	}
	return nil
}

// growSubtable doubles one level's bucket array and rehashes its live and
// dead chains into the new slots.
func (m *Manager) growSubtable(level int32) {
	old := m.subs[level]
	grown := newSubtable(len(old.buckets) * 2)
	grown.live, grown.dead = old.live, old.dead
	for _, head := range old.buckets {
		for n := head; n != 0; {
			next := m.nodes[n].next
			slot := grown.slot(m.nodes[n].low, m.nodes[n].high)
			m.nodes[n].next = grown.buckets[slot]
			grown.buckets[slot] = n
			n = next
		}
	}
	m.subs[level] = grown
}
