// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "github.com/cespare/xxhash/v2"

// subtable is the level-indexed hash set of internal nodes spec.md's §4.1
// describes: one per level, holding the nodes labelled with that level's
// variable, chained for collision resolution. The teacher (dalzilio/rudd)
// keeps a single hashmap or a single flat array shared by every level; this
// module gives each level its own open-chained bucket array so that
// level-local operations (sifting's adjacent-level swap, in particular)
// never have to scan unrelated levels.
type subtable struct {
	buckets []int32 // slot -> head node index into Manager.nodes, 0 means empty
	shift   uint    // hash >> shift lands in [0, len(buckets))
	live    int     // nodes with refcou > 0
	dead    int     // nodes with refcou == 0, still chained, not yet swept
}

// subtableMinSlots is the smallest bucket count a subtable is ever given.
// Kept a power of two so shift-based slot selection stays exact.
const subtableMinSlots = 16

// subtableLoadPercent is the load factor (% of slots occupied by live+dead
// nodes) past which a subtable's bucket array is doubled.
const subtableLoadPercent = 80

func newSubtable(slots int) *subtable {
	if slots < subtableMinSlots {
		slots = subtableMinSlots
	}
	slots = nextPow2(slots)
	return &subtable{
		buckets: make([]int32, slots),
		shift:   64 - uint(log2(slots)),
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func log2(n int) uint {
	var l uint
	for (1 << l) < n {
		l++
	}
	return l
}

// hashChildren is the hash function for internal nodes: a multiplicative
// (xxhash) hash on the pair of child addresses, reduced to a slot by a
// precomputed right-shift recomputed on every resize (spec.md §4.1).
func hashChildren(low, high Ref) uint64 {
	var buf [8]byte
	putRef(buf[0:4], low)
	putRef(buf[4:8], high)
	return xxhash.Sum64(buf[:])
}

func putRef(b []byte, r Ref) {
	b[0] = byte(r)
	b[1] = byte(r >> 8)
	b[2] = byte(r >> 16)
	b[3] = byte(r >> 24)
}

func (s *subtable) slot(low, high Ref) int {
	return int(hashChildren(low, high) >> s.shift)
}

// needsGrowth reports whether this subtable has crossed its load-factor
// threshold and should be resized before another insertion.
func (s *subtable) needsGrowth() bool {
	return (s.live+s.dead)*100 >= len(s.buckets)*subtableLoadPercent
}
