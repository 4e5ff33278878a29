// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCofactorFixesVariable(t *testing.T) {
	m := newTestManager(t, 2)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	f, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)

	pos, err := m.Cofactor(f, 0, true)
	require.NoError(t, err)
	require.Equal(t, x1, pos, "f|x0=1 == x1")

	neg, err := m.Cofactor(f, 0, false)
	require.NoError(t, err)
	require.Equal(t, m.zero(), neg, "f|x0=0 == 0")
}

func TestRestrictAgreesWithCofactorOnFullCube(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	x2, _ := m.Ithvar(2)
	left, _ := m.Apply(OpAnd, x0, x1)
	f, err := m.Apply(OpOr, left, x2)
	require.NoError(t, err)

	cube, err := m.Makeset([]int{0})
	require.NoError(t, err)

	restricted, err := m.Restrict(f, cube)
	require.NoError(t, err)
	cofactored, err := m.Cofactor(f, 0, true)
	require.NoError(t, err)
	require.Equal(t, cofactored, restricted)
}

func TestComposeSubstitutesVariable(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	x2, _ := m.Ithvar(2)

	f, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)

	composed, err := m.Compose(f, 1, x2)
	require.NoError(t, err)

	want, err := m.Apply(OpAnd, x0, x2)
	require.NoError(t, err)
	require.Equal(t, want, composed)
}

func TestPermuteIsInvolutive(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)

	left, _ := m.Apply(OpAnd, x0, x1)
	g, err := m.Apply(OpOr, left, m.zero())
	require.NoError(t, err)

	swap := permuteFunc(func(level int) int {
		switch level {
		case 0:
			return 1
		case 1:
			return 0
		default:
			return level
		}
	})

	once, err := m.Permute(g, swap)
	require.NoError(t, err)
	twice, err := m.Permute(once, swap)
	require.NoError(t, err)
	require.Equal(t, g, twice, "swapping twice restores the original function")
}

// TestTransferPreservesSemantics is the "Transfer" scenario: a diagram
// built on one manager, carried to an independent manager, must compute the
// same model count.
func TestTransferPreservesSemantics(t *testing.T) {
	src := newTestManager(t, 3)
	dst := newTestManager(t, 3)

	x0, _ := src.Ithvar(0)
	x1, _ := src.Ithvar(1)
	x2, _ := src.Ithvar(2)
	left, _ := src.Apply(OpAnd, x0, x1)
	f, err := src.Apply(OpOr, left, x2)
	require.NoError(t, err)

	transferred, err := src.Transfer(dst, f)
	require.NoError(t, err)

	require.InDelta(t, src.SatCount(f), dst.SatCount(transferred), 1e-9)
}

func TestConstrainSimplifiesAgainstCareSet(t *testing.T) {
	m := newTestManager(t, 2)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)

	f, err := m.Apply(OpOr, x0, x1)
	require.NoError(t, err)

	// Constrain with the care set x0=1 (only care about assignments where
	// x0 holds): f simplifies to the constant 1 terminal wherever c holds.
	res, err := m.Constrain(f, x0)
	require.NoError(t, err)
	require.Equal(t, m.one(), res)
}
