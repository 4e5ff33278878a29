// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Varnum reports the number of variables this manager was created with (or
// has since grown to via ExtVarnum), mirroring the teacher's Varnum()
// (varnum.go).
func (m *Manager) Varnum() int {
	return int(m.varnum)
}

// Ithvar returns the Ref for the positive literal of variable i.
func (m *Manager) Ithvar(i int) (Ref, error) {
	if i < 0 || i >= int(m.varnum) {
		return invalidRef, newError(ErrInvalidArg, "variable index %d out of range [0,%d)", i, m.varnum)
	}
	return m.litPos[i], nil
}

// NIthvar returns the Ref for the negative literal of variable i. On an ADD
// manager this is meaningless since variables only take Boolean cofactor
// positions regardless of terminal arithmetic, so it is defined identically
// for both kinds.
func (m *Manager) NIthvar(i int) (Ref, error) {
	if i < 0 || i >= int(m.varnum) {
		return invalidRef, newError(ErrInvalidArg, "variable index %d out of range [0,%d)", i, m.varnum)
	}
	return m.litNeg[i], nil
}

// ExtVarnum grows the manager by n additional variables, appended at the
// bottom of the current order (spec.md §4.1's "variables are declared
// once, in order, and never removed" invariant: existing Refs keep their
// meaning since nothing above them in the order changes).
func (m *Manager) ExtVarnum(n int) error {
	if n <= 0 {
		return nil
	}
	if int64(m.varnum)+int64(n) > int64(maxVar) {
		return newError(ErrInvalidArg, "variable count would exceed %d", maxVar)
	}
	start := int(m.varnum)
	newCount := start + n

	m.perm = append(m.perm, make([]int32, n)...)
	m.invPerm = append(m.invPerm, make([]int32, n)...)
	for i := start; i < newCount; i++ {
		m.perm[i] = int32(i)
		m.invPerm[i] = int32(i)
	}
	for i := 0; i < n; i++ {
		m.subs = append(m.subs, newSubtable(subtableMinSlots))
	}

	oldSentinel := m.varnum
	newSentinel := int32(newCount)
	m.varnum = newSentinel
	m.relabelTerminals(oldSentinel, newSentinel)

	for i := start; i < newCount; i++ {
		if err := m.declareVariable(i); err != nil {
			return err
		}
	}
	return nil
}

// relabelTerminals updates every terminal node's sentinel level after
// ExtVarnum moves the sentinel further down the order.
func (m *Manager) relabelTerminals(old, new int32) {
	for i := range m.nodes {
		if m.nodes[i].level == old && m.nodes[i].low.index() == int32(i) {
			m.nodes[i].level = new
		}
	}
}
