// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// SatAssignment is one row AllSat yields: value[i] is 1, 0 or -1 (don't
// care) for variable i, following the teacher's AllSat convention (spec.md
// §4.7).
type SatAssignment []int8

const satDontCare int8 = -1

// AllSat enumerates every cube of r's onset: one assignment per path from
// root to the 1 terminal, with every variable not on the path reported as
// don't-care. The callback's return value controls whether enumeration
// continues; returning false stops it early.
func (m *Manager) AllSat(r Ref, visit func(SatAssignment) bool) error {
	assignment := make(SatAssignment, m.varnum)
	for i := range assignment {
		assignment[i] = satDontCare
	}
	_, err := m.allSatRec(r, assignment, visit)
	return err
}

func (m *Manager) allSatRec(r Ref, assignment SatAssignment, visit func(SatAssignment) bool) (bool, error) {
	if err := m.checkLimits(); err != nil {
		return false, err
	}
	if r == m.zero() {
		return true, nil
	}
	if r == m.one() {
		cp := append(SatAssignment(nil), assignment...)
		return visit(cp), nil
	}

	level := m.topLevel(r)
	low, high := m.cofactorsAt(r, level)
	v := m.invPerm[level]

	assignment[v] = 0
	cont, err := m.allSatRec(low, assignment, visit)
	if err != nil {
		return false, err
	}
	if cont {
		assignment[v] = 1
		cont, err = m.allSatRec(high, assignment, visit)
		if err != nil {
			return false, err
		}
	}
	assignment[v] = satDontCare
	return cont, nil
}

// NodeInfo describes one internal node as AllNodes walks the DAG, enough to
// reconstruct the graph externally (e.g. to print it) without exposing the
// manager's internal node-pool layout.
type NodeInfo struct {
	ID      int32
	Level   int32
	Low     Ref
	High    Ref
	Comp    bool // always false: AllNodes leaves it unset; Low/High carry their own complement tags
	Value   float64
	Terminal bool
}

// AllNodes walks every node reachable from r exactly once (regardless of
// how many paths reach it, matching the DAG's actual sharing) and reports
// it through visit, each node after its children (spec.md §4.7).
func (m *Manager) AllNodes(r Ref, visit func(NodeInfo)) {
	seen := make(map[int32]bool)
	m.allNodesRec(r, seen, visit)
}

func (m *Manager) allNodesRec(r Ref, seen map[int32]bool, visit func(NodeInfo)) {
	idx := r.index()
	if seen[idx] {
		return
	}
	seen[idx] = true
	n := &m.nodes[idx]
	info := NodeInfo{ID: idx, Level: n.level, Terminal: n.isTerminal(m.varnum)}
	if info.Terminal {
		info.Value = n.value
	} else {
		info.Low, info.High = n.low, n.high
		m.allNodesRec(n.low, seen, visit)
		m.allNodesRec(n.high, seen, visit)
	}
	visit(info)
}

// NodeCount returns the number of distinct nodes reachable from r.
func (m *Manager) NodeCount(r Ref) int {
	n := 0
	m.AllNodes(r, func(NodeInfo) { n++ })
	return n
}

// PrimeImplicant yields one minimal cube (a prime implicant) covering a
// satisfying point of r, computed by walking toward the 1 terminal and
// greedily dropping a variable whenever doing so still leaves the cofactor
// equal to 1 (the classical prime-generation heuristic spec.md §4.7
// describes as an optional convenience on top of AllSat).
func (m *Manager) PrimeImplicant(r Ref) (SatAssignment, error) {
	if r == m.zero() {
		return nil, newError(ErrInvalidArg, "PrimeImplicant: function is unsatisfiable")
	}
	assignment := make(SatAssignment, m.varnum)
	for i := range assignment {
		assignment[i] = satDontCare
	}
	cur := r
	for cur != m.one() {
		level := m.topLevel(cur)
		low, high := m.cofactorsAt(cur, level)
		if high != m.zero() {
			assignment[m.invPerm[level]] = 1
			cur = high
		} else {
			assignment[m.invPerm[level]] = 0
			cur = low
		}
	}
	return m.shrinkPrime(r, assignment)
}

// shrinkPrime drops each pinned literal in turn and keeps the drop if the
// resulting, looser cube still implies r, yielding a minimal (prime) cube.
func (m *Manager) shrinkPrime(r Ref, assignment SatAssignment) (SatAssignment, error) {
	for v := range assignment {
		if assignment[v] == satDontCare {
			continue
		}
		saved := assignment[v]
		assignment[v] = satDontCare
		cube, err := m.assignmentCube(assignment)
		if err != nil {
			return nil, err
		}
		// cube implies r iff cube & !r is empty.
		notImplied, err := m.Apply(OpDiff, cube, r)
		if err != nil {
			return nil, err
		}
		if notImplied != m.zero() {
			assignment[v] = saved
		}
	}
	return assignment, nil
}

func (m *Manager) assignmentCube(assignment SatAssignment) (Ref, error) {
	cube := m.one()
	for v := len(assignment) - 1; v >= 0; v-- {
		if assignment[v] == satDontCare {
			continue
		}
		lit, err := m.Ithvar(v)
		if err != nil {
			return invalidRef, err
		}
		if assignment[v] == 0 {
			lit, err = m.NIthvar(v)
			if err != nil {
				return invalidRef, err
			}
		}
		var errApply error
		cube, errApply = m.apply(OpAnd, lit, cube)
		if errApply != nil {
			return invalidRef, errApply
		}
	}
	return cube, nil
}

// SatCount returns the number of satisfying assignments of r over all
// varnum variables (spec.md §4.7's model count, the classical top-down
// count-with-level-skip-weighting algorithm).
func (m *Manager) SatCount(r Ref) float64 {
	if r == m.zero() {
		return 0
	}
	memo := make(map[Ref]float64)
	count := m.satCountRec(r, memo)
	skipped := m.topLevel(r)
	return count * pow2(int(skipped))
}

func (m *Manager) satCountRec(r Ref, memo map[Ref]float64) float64 {
	if r == m.one() {
		return 1
	}
	if r == m.zero() {
		return 0
	}
	if v, ok := memo[r]; ok {
		return v
	}
	level := m.topLevel(r)
	low, high := m.cofactorsAt(r, level)
	lowSkip := m.topLevel(low) - level - 1
	highSkip := m.topLevel(high) - level - 1
	if low == m.zero() || low == m.one() {
		lowSkip = m.varnum - level - 1
	}
	if high == m.zero() || high == m.one() {
		highSkip = m.varnum - level - 1
	}
	res := m.satCountRec(low, memo)*pow2(int(lowSkip)) + m.satCountRec(high, memo)*pow2(int(highSkip))
	memo[r] = res
	return res
}

func pow2(n int) float64 {
	if n <= 0 {
		return 1
	}
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 2
	}
	return v
}
