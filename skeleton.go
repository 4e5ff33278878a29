// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "time"

// checkLimits polls the cooperative cancellation points every recursive
// operator consults before doing further work: the termination callback,
// the wall-clock deadline, and a prior sticky error (spec.md §5, §7). It
// returns the Error to propagate, or nil if the operator may continue.
func (m *Manager) checkLimits() *Error {
	if m.err != nil {
		return m.err
	}
	if m.termHook != nil && m.termHook() {
		return newError(ErrTermination, "operation cancelled by termination callback")
	}
	if m.timeLimit > 0 && time.Since(m.startTime) > m.timeLimit {
		return newError(ErrTimeoutExpired, "operation exceeded time limit %s", m.timeLimit)
	}
	return nil
}

// topLevel returns the level of r's node, or the terminal sentinel if r
// addresses a constant. Used by every binary/ternary Shannon-expansion
// skeleton to decide which operand to split on.
func (m *Manager) topLevel(r Ref) int32 {
	return m.nodes[r.index()].level
}

// runOperator wraps a top-level entry point (Apply, Ite, Exist, Compose,
// ...): it refuses to start while an error is recorded, runs the recursive
// body, and if the body set reordered mid-flight (a concurrent automatic
// reorder invalidated the cache and any Refs the body held outside the
// refstack) retries once from a clean cache, matching spec.md §4.4's "retry
// the outermost call once after a reorder, never silently return a stale
// value" rule. An *Error the body returns is recorded on the manager unless
// one is already recorded.
func (m *Manager) runOperator(body func() (Ref, error)) (Ref, error) {
	if err := m.checkLimits(); err != nil {
		return invalidRef, err
	}
	m.reordered = false
	res, err := body()
	if err == nil && m.reordered {
		m.reordered = false
		m.cache.reset()
		res, err = body()
	}
	if err != nil {
		if e, ok := err.(*Error); ok && m.err == nil {
			m.err = e
		}
		return invalidRef, err
	}
	return res, nil
}

// min3 returns the smallest of three levels, used by the Ite skeleton's
// canonical-argument-ordering step (teacher's hoperations.go min3).
func min3(a, b, c int32) int32 {
	min := a
	if b < min {
		min = b
	}
	if c < min {
		min = c
	}
	return min
}
