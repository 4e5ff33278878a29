// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Cube is a conjunction of positive literals, one per quantified variable,
// used as the second argument to Exist/ForAll/AppEx exactly as the
// teacher's Makeset-built argument is (spec.md §4.5). Build one with
// Makeset.
type Cube = Ref

// Exist existentially quantifies r over every variable in vars: the
// disjunction of r's positive and negative cofactors at each quantified
// level, computed bottom-up (spec.md §4.5).
func (m *Manager) Exist(r Ref, vars Cube) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.quant(cacheOpExist, r, vars) })
}

// ForAll universally quantifies r over every variable in vars: the
// conjunction of cofactors, the De Morgan dual of Exist.
func (m *Manager) ForAll(r Ref, vars Cube) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.quant(cacheOpForAll, r, vars) })
}

func (m *Manager) quant(tag cacheOp, r Ref, vars Cube) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	zero, one := m.zero(), m.one()
	if vars == one {
		return r, nil
	}
	if r == zero || r == one {
		return r, nil
	}

	if res, ok := m.cacheLookup2(tag, r, vars); ok {
		return res, nil
	}

	cubeLevel := m.topLevel(vars)
	rLevel := m.topLevel(r)

	if rLevel > cubeLevel {
		// r doesn't depend on the current quantified variable; advance
		// the cube past it.
		nextVars := m.nodes[vars.index()].high
		return m.quant(tag, r, nextVars)
	}

	low, high := m.cofactorsAt(r, rLevel)
	var nextVars Cube = vars
	quantifiesHere := rLevel == cubeLevel
	if quantifiesHere {
		nextVars = m.nodes[vars.index()].high
	}

	lowRes, err := m.quant(tag, low, nextVars)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	highRes, err := m.quant(tag, high, nextVars)
	m.popref(1)
	if err != nil {
		return invalidRef, err
	}

	var res Ref
	if quantifiesHere {
		m.pushref(lowRes)
		m.pushref(highRes)
		if tag == cacheOpExist {
			res, err = m.apply(OpOr, lowRes, highRes)
		} else {
			res, err = m.apply(OpAnd, lowRes, highRes)
		}
		m.popref(2)
		if err != nil {
			return invalidRef, err
		}
	} else {
		m.pushref(lowRes)
		m.pushref(highRes)
		res, err = m.uniqueInter(rLevel, lowRes, highRes)
		m.popref(2)
		if err != nil {
			return invalidRef, err
		}
	}

	m.cacheInsert2(tag, r, vars, res)
	return res, nil
}

// OrAbstract computes Exist(Apply(OpOr, a, b), vars) in one traversal, the
// common "disjoin then abstract" idiom used when combining a transition
// relation's image terms (spec.md §4.5's named shortcut for OR+Exist).
func (m *Manager) OrAbstract(a, b Ref, vars Cube) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.appEx(OpOr, a, b, vars) })
}

// AppEx computes Exist(Apply(op, a, b), vars) in one traversal instead of
// materializing the intermediate Apply result, which is what makes image
// computation over large transition relations tractable (spec.md §4.5).
func (m *Manager) AppEx(op Operator, a, b Ref, vars Cube) (Ref, error) {
	return m.runOperator(func() (Ref, error) { return m.appEx(op, a, b, vars) })
}

func (m *Manager) appEx(op Operator, a, b Ref, vars Cube) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	one := m.one()
	if vars == one {
		return m.apply(op, a, b)
	}
	if r, ok := terminalResult(op, m, a, b); ok {
		return m.quant(cacheOpExist, r, vars)
	}

	if res, ok := m.cacheLookup3(cacheOpAppEx, a, b, vars); ok {
		return res, nil
	}

	level := min3(m.topLevel(a), m.topLevel(b), m.topLevel(vars))
	alow, ahigh := m.cofactorsAt(a, level)
	blow, bhigh := m.cofactorsAt(b, level)

	quantifiesHere := m.topLevel(vars) == level
	nextVars := vars
	if quantifiesHere {
		nextVars = m.nodes[vars.index()].high
	}

	lowRes, err := m.appEx(op, alow, blow, nextVars)
	if err != nil {
		return invalidRef, err
	}
	m.pushref(lowRes)
	highRes, err := m.appEx(op, ahigh, bhigh, nextVars)
	m.popref(1)
	if err != nil {
		return invalidRef, err
	}

	var res Ref
	if quantifiesHere {
		m.pushref(lowRes)
		m.pushref(highRes)
		res, err = m.apply(OpOr, lowRes, highRes)
		m.popref(2)
	} else {
		m.pushref(lowRes)
		m.pushref(highRes)
		res, err = m.uniqueInter(level, lowRes, highRes)
		m.popref(2)
	}
	if err != nil {
		return invalidRef, err
	}
	m.cacheInsert3(cacheOpAppEx, a, b, vars, res)
	return res, nil
}
