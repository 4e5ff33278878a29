// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExistForAllDeMorgan(t *testing.T) {
	m := newTestManager(t, 3)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	x2, _ := m.Ithvar(2)

	left, _ := m.Apply(OpAnd, x0, x1)
	f, err := m.Apply(OpOr, left, x2)
	require.NoError(t, err)

	vars, err := m.Makeset([]int{0, 1})
	require.NoError(t, err)

	exist, err := m.Exist(f, vars)
	require.NoError(t, err)

	notF, _ := m.Not(f)
	forallNot, err := m.ForAll(notF, vars)
	require.NoError(t, err)
	notExist, err := m.Not(exist)
	require.NoError(t, err)
	require.Equal(t, notExist, forallNot, "ForAll(!f) == !Exist(f)")
}

func TestExistOverTautologyVariableIsIdentity(t *testing.T) {
	m := newTestManager(t, 2)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	f, err := m.Apply(OpAnd, x0, x1)
	require.NoError(t, err)

	empty, err := m.Makeset(nil)
	require.NoError(t, err)
	require.Equal(t, m.one(), empty)

	same, err := m.Exist(f, empty)
	require.NoError(t, err)
	require.Equal(t, f, same)
}

func TestOrAbstractMatchesOrThenExist(t *testing.T) {
	m := newTestManager(t, 4)
	x0, _ := m.Ithvar(0)
	x1, _ := m.Ithvar(1)
	x2, _ := m.Ithvar(2)

	a, _ := m.Apply(OpAnd, x0, x2)
	b, _ := m.Apply(OpAnd, x1, x2)

	vars, err := m.Makeset([]int{2})
	require.NoError(t, err)

	direct, err := m.OrAbstract(a, b, vars)
	require.NoError(t, err)

	orRes, err := m.Apply(OpOr, a, b)
	require.NoError(t, err)
	indirect, err := m.Exist(orRes, vars)
	require.NoError(t, err)

	require.Equal(t, indirect, direct)
}
