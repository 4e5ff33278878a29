// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestReorderPreservesSemantics is the "reorder preserves semantics"
// scenario: sifting a diagram must never change its model count, even
// though the physical node count and the variable order can change.
func TestReorderPreservesSemantics(t *testing.T) {
	m := newTestManager(t, 5)
	lits := make([]Ref, 5)
	for i := range lits {
		lits[i], _ = m.Ithvar(i)
	}

	// f = (x0&x1) | (x2&x3) | x4, a function whose BDD size is sensitive
	// to variable order (the classical "interleaved" worst case).
	a, _ := m.Apply(OpAnd, lits[0], lits[1])
	b, _ := m.Apply(OpAnd, lits[2], lits[3])
	ab, _ := m.Apply(OpOr, a, b)
	f, err := m.Apply(OpOr, ab, lits[4])
	require.NoError(t, err)
	m.AddRef(f)

	before := m.SatCount(f)
	m.Reorder(ReorderSift)
	after := m.SatCount(f)

	require.Equal(t, before, after, "sifting must not change the represented function")
}

func TestSwapLevelIsItsOwnInverse(t *testing.T) {
	m := newTestManager(t, 4)
	lits := make([]Ref, 4)
	for i := range lits {
		lits[i], _ = m.Ithvar(i)
	}
	a, _ := m.Apply(OpAnd, lits[0], lits[1])
	f, err := m.Apply(OpOr, a, lits[2])
	require.NoError(t, err)
	m.AddRef(f)

	before := m.SatCount(f)
	m.swapLevel(0)
	m.swapLevel(0)
	after := m.SatCount(f)
	require.Equal(t, before, after)

	require.Equal(t, int32(0), m.invPerm[0])
	require.Equal(t, int32(1), m.invPerm[1])
}

func TestWindowReorderPreservesSemantics(t *testing.T) {
	m := newTestManager(t, 4)
	lits := make([]Ref, 4)
	for i := range lits {
		lits[i], _ = m.Ithvar(i)
	}
	a, _ := m.Apply(OpXor, lits[0], lits[2])
	f, err := m.Apply(OpOr, a, lits[1])
	require.NoError(t, err)
	m.AddRef(f)

	before := m.SatCount(f)
	m.Reorder(ReorderWindow2)
	after := m.SatCount(f)
	require.Equal(t, before, after)
}
