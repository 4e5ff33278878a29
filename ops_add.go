// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Const creates (or finds) the ADD terminal node carrying value v. Valid
// only on a KindADD manager; a KindBDD manager has a single terminal node,
// reached as one() or, complemented, as zero() (spec.md §3's ADD
// extension).
func (m *Manager) Const(v float64) (Ref, error) {
	if m.kind != KindADD {
		return invalidRef, newError(ErrInvalidArg, "Const is only valid on an ADD manager")
	}
	return m.allocTerminal(v, m.varnum), nil
}

// Background returns the manager's ADD background value (spec.md §3). The
// value is only stored: Threshold and the arithmetic operators do not read
// it.
func (m *Manager) Background() float64 {
	return m.background
}

// SetBackground changes the ADD background value for subsequent
// operations. It does not retroactively change any already-built diagram.
func (m *Manager) SetBackground(v float64) {
	m.background = v
}

func (m *Manager) terminalValue(r Ref) (float64, bool) {
	n := &m.nodes[r.index()]
	if n.isTerminal(m.varnum) {
		return n.value, true
	}
	return 0, false
}

// addBinary is the shared recursion every ADD arithmetic operator
// (Plus/Times/Min/Max) specializes: terminal cases apply op.combine
// directly, internal cases recurse cofactor-wise exactly like Apply does
// for the Boolean family, just without any complement-tag bookkeeping
// since ADD nodes are never complemented (spec.md §4.4's "same skeleton,
// generalized terminal algebra").
type addCombiner struct {
	tag     cacheOp
	combine func(a, b float64) float64
}

func (m *Manager) addBinary(c addCombiner, a, b Ref) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	if av, ok := m.terminalValue(a); ok {
		if bv, ok2 := m.terminalValue(b); ok2 {
			return m.allocTerminal(c.combine(av, bv), m.varnum), nil
		}
	}

	if res, ok := m.cacheLookup2(c.tag, a, b); ok {
		return res, nil
	}

	la, lb := m.topLevel(a), m.topLevel(b)
	level := la
	if lb < level {
		level = lb
	}
	alow, ahigh := m.addCofactorsAt(a, level)
	blow, bhigh := m.addCofactorsAt(b, level)

	lowRes, err := m.addBinary(c, alow, blow)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	highRes, err := m.addBinary(c, ahigh, bhigh)
	m.popref(1)
	if err != nil {
		return invalidRef, err
	}

	m.pushref(lowRes)
	m.pushref(highRes)
	res, err := m.uniqueInter(level, lowRes, highRes)
	m.popref(2)
	if err != nil {
		return invalidRef, err
	}
	m.cacheInsert2(c.tag, a, b, res)
	return res, nil
}

func (m *Manager) addCofactorsAt(r Ref, level int32) (Ref, Ref) {
	if m.topLevel(r) != level {
		return r, r
	}
	n := &m.nodes[r.index()]
	return n.low, n.high
}

// Plus computes the terminal-wise sum of two ADDs.
func (m *Manager) Plus(a, b Ref) (Ref, error) {
	return m.runOperator(func() (Ref, error) {
		return m.addBinary(addCombiner{cacheOpPlus, func(x, y float64) float64 { return x + y }}, a, b)
	})
}

// Times computes the terminal-wise product of two ADDs.
func (m *Manager) Times(a, b Ref) (Ref, error) {
	return m.runOperator(func() (Ref, error) {
		return m.addBinary(addCombiner{cacheOpTimes, func(x, y float64) float64 { return x * y }}, a, b)
	})
}

// Min computes the terminal-wise minimum of two ADDs.
func (m *Manager) Min(a, b Ref) (Ref, error) {
	return m.runOperator(func() (Ref, error) {
		return m.addBinary(addCombiner{cacheOpMin, func(x, y float64) float64 {
			if x < y {
				return x
			}
			return y
		}}, a, b)
	})
}

// Max computes the terminal-wise maximum of two ADDs.
func (m *Manager) Max(a, b Ref) (Ref, error) {
	return m.runOperator(func() (Ref, error) {
		return m.addBinary(addCombiner{cacheOpMax, func(x, y float64) float64 {
			if x > y {
				return x
			}
			return y
		}}, a, b)
	})
}

// Threshold converts an ADD into a BDD-style 0/1 ADD: every terminal whose
// value is >= t becomes 1, every other terminal becomes 0 (spec.md §3's
// bridge back from the algebraic family to the Boolean one).
func (m *Manager) Threshold(r Ref, t float64) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.threshold(r, t) })
}

func (m *Manager) threshold(r Ref, t float64) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	if v, ok := m.terminalValue(r); ok {
		if v >= t {
			return m.allocTerminal(1, m.varnum), nil
		}
		return m.allocTerminal(0, m.varnum), nil
	}
	level := m.topLevel(r)
	low, high := m.addCofactorsAt(r, level)
	lowRes, err := m.threshold(low, t)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	highRes, err := m.threshold(high, t)
	m.popref(1)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	m.pushref(highRes)
	res, err := m.uniqueInter(level, lowRes, highRes)
	m.popref(2)
	return res, err
}

// addNot implements Not for an ADD manager: 1 - value at each terminal,
// used so Not stays total across both manager kinds (spec.md §3).
func (m *Manager) addNot(r Ref) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	if v, ok := m.terminalValue(r); ok {
		return m.allocTerminal(1-v, m.varnum), nil
	}
	level := m.topLevel(r)
	low, high := m.addCofactorsAt(r, level)
	lowRes, err := m.addNot(low)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	highRes, err := m.addNot(high)
	m.popref(1)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	m.pushref(highRes)
	res, err := m.uniqueInter(level, lowRes, highRes)
	m.popref(2)
	return res, err
}
