// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllSatEnumeratesEveryCube(t *testing.T) {
	m := newTestManager(t, 2)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	f, err := m.Apply(OpOr, x0, x1)
	require.NoError(t, err)

	var seen []SatAssignment
	err = m.AllSat(f, func(a SatAssignment) bool {
		cp := append(SatAssignment(nil), a...)
		seen = append(seen, cp)
		return true
	})
	require.NoError(t, err)
	require.Len(t, seen, 2, "x0|x1 is covered by exactly two path cubes: (x0=0,x1=1) and (x0=1,x1=don't-care)")
}

func TestSatCountMatchesExhaustiveEnumeration(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	x2, _ := m.Ithvar(2)
	a, _ := m.Apply(OpAnd, x0, x1)
	f, err := m.Apply(OpOr, a, x2)
	require.NoError(t, err)

	want := 0
	for bits := 0; bits < 8; bits++ {
		v0 := bits&1 != 0
		v1 := bits&2 != 0
		v2 := bits&4 != 0
		if (v0 && v1) || v2 {
			want++
		}
	}
	require.Equal(t, float64(want), m.SatCount(f))
}

func TestPrimeImplicantImpliesFunction(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	x2, _ := m.Ithvar(2)
	a, _ := m.Apply(OpAnd, x0, x1)
	f, err := m.Apply(OpOr, a, x2)
	require.NoError(t, err)

	prime, err := m.PrimeImplicant(f)
	require.NoError(t, err)

	cube, err := m.assignmentCube(prime)
	require.NoError(t, err)
	notImplied, err := m.Apply(OpDiff, cube, f)
	require.NoError(t, err)
	require.Equal(t, m.zero(), notImplied, "the prime cube must imply f: cube & !f has no solution")
}

func TestNodeCountIsStableAcrossEquivalentConstructions(t *testing.T) {
	m := newTestManager(t, 2)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)

	a, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)
	b, err := m.Apply(OpAnd, x1, x0)
	require.NoError(t, err)
	require.Equal(t, m.NodeCount(a), m.NodeCount(b))
}
