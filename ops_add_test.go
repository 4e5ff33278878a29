// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestADDManager(t *testing.T, varnum int) *Manager {
	t.Helper()
	m, err := NewADD(varnum)
	require.NoError(t, err)
	return m
}

func TestADDConstAndArithmetic(t *testing.T) {
	m := newTestADDManager(t, 2)

	a, err := m.Const(3)
	require.NoError(t, err)
	b, err := m.Const(4)
	require.NoError(t, err)

	sum, err := m.Plus(a, b)
	require.NoError(t, err)
	v, ok := m.terminalValue(sum)
	require.True(t, ok)
	require.Equal(t, 7.0, v)

	prod, err := m.Times(a, b)
	require.NoError(t, err)
	v, ok = m.terminalValue(prod)
	require.True(t, ok)
	require.Equal(t, 12.0, v)

	mn, err := m.Min(a, b)
	require.NoError(t, err)
	v, ok = m.terminalValue(mn)
	require.True(t, ok)
	require.Equal(t, 3.0, v)

	mx, err := m.Max(a, b)
	require.NoError(t, err)
	v, ok = m.terminalValue(mx)
	require.True(t, ok)
	require.Equal(t, 4.0, v)
}

func TestADDThresholdBridgesToBoolean(t *testing.T) {
	m := newTestADDManager(t, 1)
	hi, err := m.Const(10)
	require.NoError(t, err)
	lo, err := m.Const(0)
	require.NoError(t, err)

	f, err := m.uniqueInter(0, lo, hi)
	require.NoError(t, err)

	thresh, err := m.Threshold(f, 5)
	require.NoError(t, err)

	n := &m.nodes[thresh.index()]
	require.Equal(t, int32(0), n.level)
	lowVal, ok := m.terminalValue(n.low)
	require.True(t, ok)
	require.Equal(t, 0.0, lowVal, "the x0=0 branch holds 0, below the threshold 5")
	highVal, ok := m.terminalValue(n.high)
	require.True(t, ok)
	require.Equal(t, 1.0, highVal, "10 >= 5 on the x0=1 branch")
}

func TestADDNotIsOneMinusValue(t *testing.T) {
	m := newTestADDManager(t, 1)
	a, err := m.Const(0.25)
	require.NoError(t, err)
	notA, err := m.Not(a)
	require.NoError(t, err)
	v, ok := m.terminalValue(notA)
	require.True(t, ok)
	require.InDelta(t, 0.75, v, 1e-12)
}
