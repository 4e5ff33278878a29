// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Cofactor restricts r by fixing variable v to value (spec.md §4.5). It is
// Restrict called with the single-literal cube for v (positive when value
// is true, negative otherwise).
func (m *Manager) Cofactor(r Ref, v int, value bool) (Ref, error) {
	if v < 0 || v >= int(m.varnum) {
		return invalidRef, newError(ErrInvalidArg, "variable index %d out of range", v)
	}
	lit, err := m.Ithvar(v)
	if err != nil {
		return invalidRef, err
	}
	if !value {
		lit, err = m.NIthvar(v)
		if err != nil {
			return invalidRef, err
		}
	}
	return m.Restrict(r, lit)
}

// Restrict simplifies r given that every variable in the cube var takes the
// polarity recorded there, without changing r's value anywhere the cube
// doesn't pin (spec.md §4.5; the teacher's Restrict in hoperations.go is
// the direct ancestor of this recursion).
func (m *Manager) Restrict(r, vars Ref) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.restrict(r, vars) })
}

func (m *Manager) restrict(r, vars Ref) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	one := m.one()
	if vars == one || r == m.zero() || r == one {
		return r, nil
	}

	if res, ok := m.cacheLookup2(cacheOpRestrict, r, vars); ok {
		return res, nil
	}

	rLevel := m.topLevel(r)
	cubeLevel := m.topLevel(vars)
	clow, chigh := m.cofactorsAt(vars, cubeLevel)
	positive := clow == m.zero()
	next := clow
	if positive {
		next = chigh
	}

	if rLevel > cubeLevel {
		return m.restrict(r, next)
	}

	low, high := m.cofactorsAt(r, rLevel)
	if rLevel < cubeLevel {
		lowRes, err := m.restrict(low, vars)
		if err != nil {
			return invalidRef, err
		}
		m.pushref(lowRes)
		highRes, err := m.restrict(high, vars)
		m.popref(1)
		if err != nil {
			return invalidRef, err
		}
		m.pushref(lowRes)
		m.pushref(highRes)
		res, err := m.uniqueInter(rLevel, lowRes, highRes)
		m.popref(2)
		if err != nil {
			return invalidRef, err
		}
		m.cacheInsert2(cacheOpRestrict, r, vars, res)
		return res, nil
	}

	// rLevel == cubeLevel: the cube pins this variable; descend the branch
	// matching its recorded polarity.
	var res Ref
	var err error
	if positive {
		// positive literal: keep the high cofactor
		res, err = m.restrict(high, next)
	} else {
		res, err = m.restrict(low, next)
	}
	if err != nil {
		return invalidRef, err
	}
	m.cacheInsert2(cacheOpRestrict, r, vars, res)
	return res, nil
}

// Constrain computes the generalized cofactor of f with respect to c
// (Coudert/Madre's constrain operator): it simplifies f using c as a
// don't-care set rather than a fixed assignment, often producing a smaller
// result than Restrict at the cost of being less predictable about which
// variables survive (spec.md §4.5).
func (m *Manager) Constrain(f, c Ref) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.constrain(f, c) })
}

func (m *Manager) constrain(f, c Ref) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	zero, one := m.zero(), m.one()
	switch {
	case c == one:
		return f, nil
	case c == zero:
		return zero, nil
	case f == zero || f == one:
		return f, nil
	case f == c:
		return one, nil
	}

	if res, ok := m.cacheLookup2(cacheOpConstrain, f, c); ok {
		return res, nil
	}

	level := min3(m.topLevel(f), m.topLevel(c), m.topLevel(c))
	flow, fhigh := m.cofactorsAt(f, level)
	clow, chigh := m.cofactorsAt(c, level)

	var res Ref
	var err error
	switch {
	case clow == zero:
		res, err = m.constrain(fhigh, chigh)
	case chigh == zero:
		res, err = m.constrain(flow, clow)
	default:
		lowRes, e := m.constrain(flow, clow)
		if e != nil {
			return invalidRef, e
		}
		m.pushref(lowRes)
		highRes, e := m.constrain(fhigh, chigh)
		m.popref(1)
		if e != nil {
			return invalidRef, e
		}
		m.pushref(lowRes)
		m.pushref(highRes)
		res, err = m.uniqueInter(level, lowRes, highRes)
		m.popref(2)
	}
	if err != nil {
		return invalidRef, err
	}
	m.cacheInsert2(cacheOpConstrain, f, c, res)
	return res, nil
}

// Compose substitutes variable v in f with the function g (spec.md §4.5).
// It is the single-variable special case of VectorCompose, kept separate
// because it needs none of VectorCompose's persistent compose-cache
// bookkeeping.
func (m *Manager) Compose(f Ref, v int, g Ref) (Ref, error) {
	if v < 0 || v >= int(m.varnum) {
		return invalidRef, newError(ErrInvalidArg, "variable index %d out of range", v)
	}
	return m.runOperator(func() (Ref, error) { return m.compose(f, m.perm[v], g) })
}

func (m *Manager) compose(f Ref, v int32, g Ref) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	if f == m.zero() || f == m.one() {
		return f, nil
	}
	fLevel := m.topLevel(f)
	if fLevel > v {
		return f, nil
	}

	if fLevel < v {
		low, high := m.cofactorsAt(f, fLevel)
		lowRes, err := m.compose(low, v, g)
		if err != nil {
			return invalidRef, err
		}
		m.pushref(lowRes)
		highRes, err := m.compose(high, v, g)
		m.popref(1)
		if err != nil {
			return invalidRef, err
		}
		m.pushref(lowRes)
		m.pushref(highRes)
		res, err := m.ite(m.litPos[m.invPerm[fLevel]], highRes, lowRes)
		m.popref(2)
		return res, err
	}

	low, high := m.cofactorsAt(f, fLevel)
	return m.ite(g, high, low)
}

// VectorCompose simultaneously substitutes, for every level i, the variable
// currently at level i with subs[i], in one traversal of f, using the
// persistent compose/permutation cache so that repeated image/preimage
// computations over the same substitution vector amortize their cache
// warmup (spec.md §4.5 and §4.1's note on the compose cache outliving a
// single call).
func (m *Manager) VectorCompose(f Ref, subs []Ref) (Ref, error) {
	if len(subs) != int(m.varnum) {
		return invalidRef, newError(ErrInvalidArg, "VectorCompose needs one substitution per variable, got %d want %d", len(subs), m.varnum)
	}
	return m.runOperator(func() (Ref, error) { return m.vectorCompose(f, subs) })
}

func (m *Manager) vectorCompose(f Ref, subs []Ref) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	if f == m.zero() || f == m.one() {
		return f, nil
	}
	key := composeKey{op: uint8(cacheOpAppEx), id: int32(len(subs)), node: f}
	if res, ok := m.composeCache.Get(key); ok {
		return res, nil
	}

	level := m.topLevel(f)
	low, high := m.cofactorsAt(f, level)
	lowRes, err := m.vectorCompose(low, subs)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	highRes, err := m.vectorCompose(high, subs)
	m.popref(1)
	if err != nil {
		return invalidRef, err
	}

	res, err := m.ite(subs[level], highRes, lowRes)
	if err != nil {
		return invalidRef, err
	}
	m.composeCache.Add(key, res)
	return res, nil
}

// Replacer describes a variable renaming: Replacer.Replace(i) must return
// the level the variable currently at level i should move to. Permute uses
// it to build a substitution vector internally, matching the teacher's
// Replacer interface in replace.go.
type Replacer interface {
	Replace(level int) int
}

// permuteFunc adapts a plain function to Replacer, the common case where
// the caller has a slice-backed mapping rather than a type of its own.
type permuteFunc func(int) int

func (f permuteFunc) Replace(level int) int { return f(level) }

// Permute renames r's variables according to repl, returning the
// equivalent function over the renamed variables (spec.md §4.5's
// Replace/Permute operator, grounded on the teacher's replace.go).
func (m *Manager) Permute(r Ref, repl Replacer) (Ref, error) {
	subs := make([]Ref, m.varnum)
	for i := 0; i < int(m.varnum); i++ {
		target := repl.Replace(i)
		if target < 0 || target >= int(m.varnum) {
			return invalidRef, newError(ErrInvalidArg, "replacement target %d out of range for variable %d", target, i)
		}
		lit, err := m.Ithvar(target)
		if err != nil {
			return invalidRef, err
		}
		subs[i] = lit
	}
	return m.VectorCompose(r, subs)
}

// Transfer copies r into dst's node pool, recreating each node from the
// bottom up at the same level it has in the source manager (spec.md §4.5).
// Levels are not translated between the two variable orders, so the copy
// has r's meaning only when dst's order matches the source manager's.
func (m *Manager) Transfer(dst *Manager, r Ref) (Ref, error) {
	if dst == m {
		return r, nil
	}
	if dst.varnum < m.varnum {
		return invalidRef, newError(ErrInvalidArg, "Transfer target has %d variables, need at least %d", dst.varnum, m.varnum)
	}
	cache := make(map[Ref]Ref)
	return m.transferRec(dst, r, cache)
}

func (m *Manager) transferRec(dst *Manager, r Ref, cache map[Ref]Ref) (Ref, error) {
	if res, ok := cache[r]; ok {
		return res, nil
	}
	reg := r.Regular()
	if reg == m.one() {
		one := dst.one()
		if r.IsComplemented() {
			one = one.Negated()
		}
		cache[r] = one
		return one, nil
	}

	n := &m.nodes[reg.index()]
	lowRes, err := m.transferRec(dst, n.low, cache)
	if err != nil {
		return invalidRef, err
	}
	dst.pushref(lowRes)
	highRes, err := m.transferRec(dst, n.high, cache)
	dst.popref(1)
	if err != nil {
		return invalidRef, err
	}
	dst.pushref(lowRes)
	dst.pushref(highRes)
	res, err := dst.uniqueInter(n.level, lowRes, highRes)
	dst.popref(2)
	if err != nil {
		return invalidRef, err
	}
	if r.IsComplemented() {
		res = res.Negated()
	}
	cache[r] = res
	return res, nil
}
