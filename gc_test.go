// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddRefDelRefRoundTrip(t *testing.T) {
	m := newTestManager(t, 2)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	f, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)

	m.AddRef(f)
	before := m.nodes[f.index()].refcou
	require.Greater(t, before, uint32(0))

	m.DelRef(f)
	after := m.nodes[f.index()].refcou
	require.Equal(t, before-1, after)
}

func TestDelRefDropsRootCountAndKeepsPinnedLiterals(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	x2, _ := m.Ithvar(2)

	left, _ := m.Apply(OpAnd, x0, x1)
	f, err := m.Apply(OpOr, left, x2)
	require.NoError(t, err)

	liveBefore := m.LiveNodes()
	require.Greater(t, liveBefore, 0)

	// f already carries the reference its creation granted the caller
	// (spec.md §3's Lifecycle note), so a single DelRef is enough to
	// drop it to zero without an offsetting AddRef first.
	m.DelRef(f)
	require.Equal(t, uint32(0), m.nodes[f.index()].refcou)

	m.GC()
	// Literal nodes for x0/x1/x2 and the constants are permanently pinned
	// and must survive the collection even though f itself did not.
	for i := 0; i < 3; i++ {
		lit, err := m.Ithvar(i)
		require.NoError(t, err)
		require.True(t, isPermanent(m.nodes[lit.index()].refcou))
	}
}

func TestGCDoesNotChangeLiveSemantics(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	f, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)
	m.AddRef(f)

	countBefore := m.SatCount(f)
	m.GC()
	countAfter := m.SatCount(f)
	require.Equal(t, countBefore, countAfter)
}
