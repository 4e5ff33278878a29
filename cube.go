// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Makeset builds the conjunction-of-positive-literals cube that Exist,
// ForAll, AppEx and OrAbstract take as their variable-set argument,
// spec.md §4.5's Cube. The teacher builds the analogous cube by repeated
// And over Ithvar results (set.go); this does the same, in descending index
// order so the result is independent of the slice's input order.
func (m *Manager) Makeset(vars []int) (Cube, error) {
	sorted := append([]int(nil), vars...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	cube := m.one()
	for _, v := range sorted {
		lit, err := m.Ithvar(v)
		if err != nil {
			return invalidRef, err
		}
		var errApply error
		cube, errApply = m.apply(OpAnd, lit, cube)
		if errApply != nil {
			return invalidRef, errApply
		}
	}
	return cube, nil
}

// Scanset decodes a cube back into the sorted slice of variable indices it
// conjoins, the inverse of Makeset.
func (m *Manager) Scanset(cube Cube) []int {
	var out []int
	one := m.one()
	for cube != one {
		n := &m.nodes[cube.index()]
		out = append(out, int(m.invPerm[n.level]))
		cube = n.high
	}
	sort.Ints(out)
	return out
}

// Support returns the set of variable indices r actually depends on, as a
// compressed RoaringBitmap (spec.md §4.5's support computation; the
// teacher computes the analogous set with a plain map in set.go, this
// module trades that for a bitmap since support sets are read far more
// than they are built, and RoaringBitmap's run-length encoding keeps wide,
// contiguous variable ranges cheap).
func (m *Manager) Support(r Ref) *roaring.Bitmap {
	bm := roaring.New()
	seen := make(map[int32]bool)
	m.supportRec(r, bm, seen)
	return bm
}

func (m *Manager) supportRec(r Ref, bm *roaring.Bitmap, seen map[int32]bool) {
	idx := r.index()
	if seen[idx] {
		return
	}
	seen[idx] = true
	n := &m.nodes[idx]
	if n.isTerminal(m.varnum) {
		return
	}
	bm.Add(uint32(m.invPerm[n.level]))
	m.supportRec(n.low, bm, seen)
	m.supportRec(n.high, bm, seen)
}

// SupportCube is Support expressed as a Cube, for callers that want to feed
// it straight into Exist/ForAll rather than iterate the bitmap.
func (m *Manager) SupportCube(r Ref) (Cube, error) {
	bm := m.Support(r)
	vars := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		vars = append(vars, int(it.Next()))
	}
	return m.Makeset(vars)
}
