// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Stats returns a snapshot of the manager's operating counters: nodes
// produced, unique-table hit/miss counts, GC and reorder counts, matching
// the spirit of the teacher's Stats()/PrintStat (stdio.go) but as a
// struct rather than a preformatted string, so a caller can log individual
// fields with a structured logger instead of parsing text.
func (m *Manager) Stats() ManagerStats {
	return m.stats
}

// NodeTableSize returns the current capacity of the node pool (live, dead
// and free slots combined).
func (m *Manager) NodeTableSize() int {
	return len(m.nodes)
}

// FreeNodes returns the number of currently unused node slots.
func (m *Manager) FreeNodes() int {
	return m.freeCnt
}

// LiveNodes returns the number of nodes with a positive reference count
// across every level and the constant subtable.
func (m *Manager) LiveNodes() int {
	n := m.liveNodeCount()
	if m.consts != nil {
		n += m.consts.live
	}
	return n
}

// CacheStats returns the computed cache's hit and miss counts since the
// last soft-resize check (maybeResizeCache resets them).
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.hits, m.cache.misses
}
