// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakesetScansetRoundTrip(t *testing.T) {
	m := newTestManager(t, 5)
	vars := []int{1, 3, 4}
	cube, err := m.Makeset(vars)
	require.NoError(t, err)

	got := m.Scanset(cube)
	require.Equal(t, []int{1, 3, 4}, got)
}

func TestSupportMatchesActualDependencies(t *testing.T) {
	m := newTestManager(t, 4)
	x0, _ := m.Ithvar(0)
	x2, _ := m.Ithvar(2)
	f, err := m.Apply(OpAnd, x0, x2)
	require.NoError(t, err)

	bm := m.Support(f)
	require.Equal(t, uint64(2), bm.GetCardinality())
	require.True(t, bm.Contains(0))
	require.True(t, bm.Contains(2))
	require.False(t, bm.Contains(1))
}

func TestSupportCubeFeedsExist(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	f, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)

	cube, err := m.SupportCube(f)
	require.NoError(t, err)
	res, err := m.Exist(f, cube)
	require.NoError(t, err)
	require.Equal(t, m.one(), res, "quantifying out every variable f depends on must yield a tautology when f is satisfiable")
}
