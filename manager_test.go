// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, varnum int) *Manager {
	t.Helper()
	m, err := New(varnum)
	require.NoError(t, err)
	return m
}

func TestNewRejectsBadVarnum(t *testing.T) {
	_, err := New(0)
	require.Error(t, err)

	_, err = New(-3)
	require.Error(t, err)
}

func TestConstantsAreDistinctAndCanonical(t *testing.T) {
	m := newTestManager(t, 3)
	require.NotEqual(t, m.zero(), m.one())
	require.Equal(t, m.zero(), m.one().Negated())
	require.Equal(t, m.one(), m.zero().Negated())
}

func TestIthvarNIthvarAreComplements(t *testing.T) {
	m := newTestManager(t, 4)
	for i := 0; i < 4; i++ {
		pos, err := m.Ithvar(i)
		require.NoError(t, err)
		neg, err := m.NIthvar(i)
		require.NoError(t, err)
		require.NotEqual(t, pos, neg)

		notPos, err := m.Not(pos)
		require.NoError(t, err)
		require.Equal(t, neg, notPos)
	}
}

func TestMin3(t *testing.T) {
	cases := []struct{ p, q, r, want int32 }{
		{3, 2, 3, 2},
		{4, 4, 4, 4},
		{2, 3, 3, 2},
		{3, 2, 2, 2},
		{3, 3, 2, 2},
		{1, 2, 3, 1},
	}
	for _, c := range cases {
		require.Equal(t, c.want, min3(c.p, c.q, c.r))
	}
}

func TestExtVarnumPreservesExistingLiterals(t *testing.T) {
	m := newTestManager(t, 2)
	x0, err := m.Ithvar(0)
	require.NoError(t, err)

	require.NoError(t, m.ExtVarnum(2))
	require.Equal(t, 4, m.Varnum())

	x0After, err := m.Ithvar(0)
	require.NoError(t, err)
	require.Equal(t, x0, x0After)

	_, err = m.Ithvar(3)
	require.NoError(t, err)
}
