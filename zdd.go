// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// zddState holds the minimal Zero-suppressed Decision Diagram extension:
// a separate unique table reusing the manager's node pool but with
// zero-suppression instead of the ordinary elimination rule (a node is
// redundant, and skipped, when its high branch is the zero terminal rather
// than when low == high). spec.md calls zero-suppression optional; this
// gives it a working home grounded on the node/table conventions of
// other_examples/...zzenonn-go-zdd__node.go.go, not a full reordering or
// cache-sharing peer of the BDD/ADD family.
type zddState struct {
	subs []*subtable
}

// EnableZDD turns on zero-suppressed construction for this manager. Once
// enabled, UnionZDD builds its result nodes through zddUnique, under the
// zero-suppression rule instead of the ordinary BDD reduction rule; ordinary BDD/ADD operators are
// unaffected and continue to use the regular unique table.
func (m *Manager) EnableZDD() {
	if m.zdd != nil {
		return
	}
	subs := make([]*subtable, m.varnum)
	for i := range subs {
		subs[i] = newSubtable(subtableMinSlots)
	}
	m.zdd = &zddState{subs: subs}
}

// zddUnique applies the zero-suppression reduction: a node whose high
// branch is the zero terminal is redundant and skipped in favor of its low
// branch directly, mirroring the ordinary unique table's elimination step
// but testing the high branch instead of low == high.
func (m *Manager) zddUnique(level int32, low, high Ref) (Ref, error) {
	if m.zdd == nil {
		return invalidRef, newError(ErrInvalidArg, "ZDD support not enabled on this manager")
	}
	if high == m.zero() {
		return low, nil
	}
	st := m.zdd.subs[level]
	slot := st.slot(low, high)
	for n := st.buckets[slot]; n != 0; n = m.nodes[n].next {
		nd := &m.nodes[n]
		if nd.low == low && nd.high == high {
			if nd.refcou == 0 {
				nd.refcou = 1
				st.live++
				st.dead--
			}
			return newRef(n, false), nil
		}
	}
	idx, err := m.allocSlot()
	if err != nil {
		return invalidRef, err
	}
	m.nodes[idx] = node{refcou: 1, level: level, low: low, high: high}
	m.nodes[idx].next = st.buckets[slot]
	st.buckets[slot] = idx
	st.live++
	return newRef(idx, false), nil
}

// UnionZDD computes the ZDD family union of a and b: the standard two-way
// recursive merge on matching top variables, with either operand's subtree
// copied through unchanged when the other side is the empty family.
func (m *Manager) UnionZDD(a, b Ref) (Ref, error) {
	if m.zdd == nil {
		return invalidRef, newError(ErrInvalidArg, "ZDD support not enabled on this manager")
	}
	zeroF := m.zero()
	if a == zeroF {
		return b, nil
	}
	if b == zeroF || a == b {
		return a, nil
	}
	na, nb := &m.nodes[a.index()], &m.nodes[b.index()]
	switch {
	case na.level < nb.level:
		lo, err := m.UnionZDD(na.low, b)
		if err != nil {
			return invalidRef, err
		}
		return m.zddUnique(na.level, lo, na.high)
	case nb.level < na.level:
		lo, err := m.UnionZDD(a, nb.low)
		if err != nil {
			return invalidRef, err
		}
		return m.zddUnique(nb.level, lo, nb.high)
	default:
		lo, err := m.UnionZDD(na.low, nb.low)
		if err != nil {
			return invalidRef, err
		}
		hi, err := m.UnionZDD(na.high, nb.high)
		if err != nil {
			return invalidRef, err
		}
		return m.zddUnique(na.level, lo, hi)
	}
}
