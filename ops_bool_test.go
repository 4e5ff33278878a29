// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyAndOrDeMorgan(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)

	and, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)
	or, err := m.Apply(OpOr, x0, x1)
	require.NoError(t, err)

	notX0, _ := m.Not(x0)
	notX1, _ := m.Not(x1)
	nand, err := m.Apply(OpOr, notX0, notX1)
	require.NoError(t, err)
	notAnd, err := m.Not(and)
	require.NoError(t, err)
	require.Equal(t, notAnd, nand, "De Morgan: !(a&b) == !a | !b")

	nor, err := m.Apply(OpAnd, notX0, notX1)
	require.NoError(t, err)
	notOr, err := m.Not(or)
	require.NoError(t, err)
	require.Equal(t, notOr, nor, "De Morgan: !(a|b) == !a & !b")
}

func TestApplyIsCanonical(t *testing.T) {
	m := newTestManager(t, 2)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)

	a, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)
	b, err := m.Apply(OpAnd, x1, x0)
	require.NoError(t, err)
	require.Equal(t, a, b, "AND is commutative: the manager must return the identical Ref")
}

func TestApplyTerminalShortCircuits(t *testing.T) {
	m := newTestManager(t, 1)
	x0, _ := m.Ithvar(0)

	r, err := m.Apply(OpAnd, m.zero(), x0)
	require.NoError(t, err)
	require.Equal(t, m.zero(), r)

	r, err = m.Apply(OpOr, m.one(), x0)
	require.NoError(t, err)
	require.Equal(t, m.one(), r)

	r, err = m.Apply(OpXor, x0, x0)
	require.NoError(t, err)
	require.Equal(t, m.zero(), r)

	r, err = m.Apply(OpNand, x0, x0)
	require.NoError(t, err)
	notX0, _ := m.Not(x0)
	require.Equal(t, notX0, r)
}

func TestIteReducesToKnownConnectives(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	x2, _ := m.Ithvar(2)

	ite, err := m.Ite(x0, x1, x2)
	require.NoError(t, err)

	notX0, _ := m.Not(x0)
	left, _ := m.Apply(OpAnd, x0, x1)
	right, _ := m.Apply(OpAnd, notX0, x2)
	want, err := m.Apply(OpOr, left, right)
	require.NoError(t, err)
	require.Equal(t, want, ite, "Ite(f,g,h) == (f&g) | (!f&h)")
}

// TestReductionEliminatesRedundantNodes exercises the "three-variable"
// reduction scenario: a function built so that one level is provably
// redundant must collapse to a two-level diagram.
func TestReductionEliminatesRedundantNodes(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)

	// f = (x0 & x1) | (x0 & !x1) == x0, independent of x1.
	notX1, _ := m.Not(x1)
	left, _ := m.Apply(OpAnd, x0, x1)
	right, _ := m.Apply(OpAnd, x0, notX1)
	f, err := m.Apply(OpOr, left, right)
	require.NoError(t, err)
	require.Equal(t, x0, f)
	require.Equal(t, 2, m.NodeCount(f), "x0's node plus the shared terminal")
}

func TestComplementCanonicity(t *testing.T) {
	m := newTestManager(t, 2)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)

	f, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)
	notF, err := m.Not(f)
	require.NoError(t, err)

	// The complement of f must be f's Ref with the tag flipped, sharing
	// the very same node -- never a separately materialized diagram.
	require.Equal(t, f.Regular(), notF.Regular())
	require.NotEqual(t, f.IsComplemented(), notF.IsComplemented())
}
