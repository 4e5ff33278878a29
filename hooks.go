// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "time"

// HookKind is the closed taxonomy of points at which a Manager invokes
// user-registered callbacks (spec.md §6).
type HookKind int

const (
	HookPreGC HookKind = iota
	HookPostGC
	HookPreReorder
	HookPostReorder
)

// Hook is a user callback invoked synchronously at one of the HookKind
// points. Returning false aborts the remaining hooks in the chain but does
// not abort the triggering operation (spec.md §6).
type Hook func(m *Manager) bool

type hookSet struct {
	preGC       []Hook
	postGC      []Hook
	preReorder  []Hook
	postReorder []Hook
}

// AddHook registers a callback for the given hook kind. Hooks run in
// registration order.
func (m *Manager) AddHook(kind HookKind, h Hook) {
	switch kind {
	case HookPreGC:
		m.hooks.preGC = append(m.hooks.preGC, h)
	case HookPostGC:
		m.hooks.postGC = append(m.hooks.postGC, h)
	case HookPreReorder:
		m.hooks.preReorder = append(m.hooks.preReorder, h)
	case HookPostReorder:
		m.hooks.postReorder = append(m.hooks.postReorder, h)
	}
}

func runHooks(m *Manager, hooks []Hook) {
	for _, h := range hooks {
		if !h(m) {
			return
		}
	}
}

// SetTerminationCallback installs the predicate consulted at each cache
// probe and unique-table insertion (spec.md §5's termination cancellation
// mechanism). A true result aborts the in-flight operator with
// ErrTermination.
func (m *Manager) SetTerminationCallback(f func() bool) {
	m.termHook = f
}

// SetTimeLimit installs a cooperatively-polled deadline. Zero clears it.
// Expiry is checked at the same polling points as the termination
// callback and aborts with ErrTimeoutExpired.
func (m *Manager) SetTimeLimit(d time.Duration) {
	m.timeLimit = d
	if d > 0 {
		m.startTime = time.Now()
	}
}

// SetOutOfMemoryHandler installs the callback invoked when the node table
// cannot grow within the MaxMemory cap (spec.md §7); the operator then
// returns the invalid Ref with ErrMaxMemExceeded. When Maxnodesize stops
// growth instead, the operator fails with ErrTooManyNodes and the callback
// is not invoked. The default is no callback.
func (m *Manager) SetOutOfMemoryHandler(f func()) {
	m.oomHook = f
}
