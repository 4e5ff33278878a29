// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Operator is the closed set of binary Boolean connectives Apply accepts,
// following the teacher's operator.go enum extended with the direct
// connectives spec.md §4.4 lists alongside AND/OR/XOR (Nand, Nor, Imp,
// Biimp, Diff, Less, InvImp), so a caller never has to compose them out of
// Not+And+Or by hand.
type Operator int

const (
	OpAnd Operator = iota
	OpOr
	OpXor
	OpNand
	OpNor
	OpImp
	OpBiimp
	OpDiff
	OpLess
	OpInvImp
)

var opTable = [...][4]bool{
	// indexed [lowA][lowB] for each of the four input combinations
	// (0,0) (0,1) (1,0) (1,1), matching the teacher's truth-table dispatch.
	OpAnd:    {false, false, false, true},
	OpOr:     {false, true, true, true},
	OpXor:    {false, true, true, false},
	OpNand:   {true, true, true, false},
	OpNor:    {true, false, false, false},
	OpImp:    {true, true, false, true},
	OpBiimp:  {true, false, false, true},
	OpDiff:   {false, false, true, false},
	OpLess:   {false, true, false, false},
	OpInvImp: {true, false, true, true},
}

var opCacheTag = [...]cacheOp{
	OpAnd: cacheOpAnd, OpOr: cacheOpOr, OpXor: cacheOpXor,
	OpNand: cacheOpNand, OpNor: cacheOpNor, OpImp: cacheOpImp,
	OpBiimp: cacheOpBiimp, OpDiff: cacheOpDiff, OpLess: cacheOpLess,
	OpInvImp: cacheOpInvImp,
}

// Not returns the Boolean complement of r. For a BDD manager this is the
// O(1) tag flip (Ref.Negated); for an ADD manager it degenerates to a
// threshold-style 1-minus-value recursion since ADD terminals are not
// restricted to {0,1}.
func (m *Manager) Not(r Ref) (Ref, error) {
	if m.kind == KindBDD {
		return r.Negated(), nil
	}
	return m.runOperator(func() (Ref, error) { return m.addNot(r) })
}

// Apply computes op(a, b), the single general binary-connective entry
// point spec.md §4.4 describes: canonical argument ordering so that
// op(a,b) and op(b,a) share one cache entry when op is commutative,
// terminal short-circuits, cache probe, recursive Shannon expansion,
// unique-table reconstruction, cache insertion.
func (m *Manager) Apply(op Operator, a, b Ref) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.apply(op, a, b) })
}

func (m *Manager) apply(op Operator, a, b Ref) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	if commutative(op) && a > b {
		a, b = b, a
	}

	if r, ok := terminalResult(op, m, a, b); ok {
		return r, nil
	}

	tag := opCacheTag[op]
	if res, ok := m.cacheLookup2(tag, a, b); ok {
		return res, nil
	}

	la, lb := m.topLevel(a), m.topLevel(b)
	level := la
	if lb < level {
		level = lb
	}

	alow, ahigh := m.cofactorsAt(a, level)
	blow, bhigh := m.cofactorsAt(b, level)

	lowRes, err := m.apply(op, alow, blow)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	highRes, err := m.apply(op, ahigh, bhigh)
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
	m.cacheInsert2(tag, a, b, res)
	return res, nil
}

func commutative(op Operator) bool {
	switch op {
	case OpAnd, OpOr, OpXor, OpNand, OpNor, OpBiimp:
		return true
	default:
		return false
	}
}

// terminalResult short-circuits Apply when a or b (after accounting for
// complementation) already pins the result, e.g. AND with a zero operand,
// OR with a one operand, or both operands being equal/complementary. Fixing
// one operand to a known constant always fully determines the result as a
// function of the other operand (constant true, constant false, the other
// operand unchanged, or its negation) — resolveFixed below enumerates
// exactly those four possibilities so this never falls through leaving an
// operator to recurse on an already-constant pair.
func terminalResult(op Operator, m *Manager, a, b Ref) (Ref, bool) {
	zero, one := m.zero(), m.one()
	switch {
	case a == zero:
		return resolveFixed(op, false, b, m, true)
	case a == one:
		return resolveFixed(op, true, b, m, true)
	case b == zero:
		return resolveFixed(op, false, a, m, false)
	case b == one:
		return resolveFixed(op, true, a, m, false)
	case a == b:
		row := opTable[op]
		switch {
		case row[0] == row[3]:
			return boolRef(m, row[0]), true
		case !row[0] && row[3]:
			return a, true
		default:
			return a.Negated(), true
		}
	case a == b.Negated():
		row := opTable[op]
		switch {
		case row[1] == row[2]:
			return boolRef(m, row[1]), true
		case !row[1] && row[2]:
			return a, true
		default:
			return a.Negated(), true
		}
	}
	return invalidRef, false
}

// resolveFixed fixes one operand of op to fixedVal and reports what the
// result must be as a function of the other (free) operand: a constant,
// the free operand itself, or its negation. fixedIsA selects whether the
// fixed operand occupies the first or second position of op's truth table.
func resolveFixed(op Operator, fixedVal bool, free Ref, m *Manager, fixedIsA bool) (Ref, bool) {
	row := opTable[op]
	var e0, e1 bool // result when free is 0, when free is 1
	if fixedIsA {
		if fixedVal {
			e0, e1 = row[2], row[3]
		} else {
			e0, e1 = row[0], row[1]
		}
	} else {
		if fixedVal {
			e0, e1 = row[1], row[3]
		} else {
			e0, e1 = row[0], row[2]
		}
	}
	switch {
	case e0 == e1:
		return boolRef(m, e0), true
	case !e0 && e1:
		return free, true
	default:
		return free.Negated(), true
	}
}

func boolRef(m *Manager, v bool) Ref {
	if v {
		return m.one()
	}
	return m.zero()
}

// cofactorsAt returns (low, high) for r restricted at level: if r's own
// top level is level, its real children; otherwise r unchanged in both
// (the teacher's iteLow/iteHigh convention for operands that don't depend
// on the current splitting variable).
func (m *Manager) cofactorsAt(r Ref, level int32) (Ref, Ref) {
	if m.topLevel(r) != level {
		return r, r
	}
	n := &m.nodes[r.index()]
	if r.IsComplemented() {
		return n.low.Negated(), n.high.Negated()
	}
	return n.low, n.high
}

// Ite computes if f then g else h, the ternary connective every other
// Boolean operator can be expressed through (spec.md §4.4). Argument
// ordering and terminal short-circuits follow the teacher's
// hoperations.go Ite/iteLow/iteHigh/min3 pattern.
func (m *Manager) Ite(f, g, h Ref) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.ite(f, g, h) })
}

func (m *Manager) ite(f, g, h Ref) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	zero, one := m.zero(), m.one()

	switch {
	case f == one:
		return g, nil
	case f == zero:
		return h, nil
	case g == h:
		return g, nil
	case g == one && h == zero:
		return f, nil
	case g == zero && h == one:
		return f.Negated(), nil
	}

	negated := false
	if f.IsComplemented() {
		f = f.Negated()
		g, h = h, g
	}
	if g == zero && h.IsComplemented() {
		// Ite(f, 0, ~h') == ~Ite(f, 1, h') ... normalize to reduce cache
		// duplication, matching the canonical-complement-form convention
		// used for plain nodes.
		g, h = one, h.Negated()
		negated = true
	}

	if res, ok := m.cacheLookup3(cacheOpITE, f, g, h); ok {
		if negated {
			return res.Negated(), nil
		}
		return res, nil
	}

	level := min3(m.topLevel(f), m.topLevel(g), m.topLevel(h))
	flow, fhigh := m.cofactorsAt(f, level)
	glow, ghigh := m.cofactorsAt(g, level)
	hlow, hhigh := m.cofactorsAt(h, level)

	lowRes, err := m.ite(flow, glow, hlow)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	highRes, err := m.ite(fhigh, ghigh, hhigh)
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
	m.cacheInsert3(cacheOpITE, f, g, h, res)
	if negated {
		return res.Negated(), nil
	}
	return res, nil
}
