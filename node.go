// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"math"
	"unsafe"
)

// maxRefcount is the saturating ceiling for a node's reference count. Nodes
// pinned at this value (the two constants, and every Ithvar/NIthvar
// literal) are permanent: they are never collected.
const maxRefcount uint32 = math.MaxUint32

// maxVar bounds the number of variables (and hence levels) a single manager
// can declare. Levels are stored in an int32; terminals are given the
// sentinel level varnum, one past the last real level, exactly as the
// teacher's nodes[0].level/nodes[1].level convention does.
const maxVar int32 = 1<<31 - 1

// Ref is a tagged pointer into a Manager's node pool: the low bit encodes
// Boolean complementation (Design Notes: "implementers should encapsulate
// the tag behind a typed wrapper ... no raw ^1 at call sites"). All
// invariants elsewhere in this package are stated on the regular
// (uncomplemented) form of a Ref. ADD managers never set the complement
// bit; the zero value is the reserved invalid reference.
type Ref uint32

// invalidRef is returned by every operator that fails; it is never a valid
// argument to another operator.
const invalidRef Ref = 0

func newRef(index int32, complemented bool) Ref {
	r := Ref(uint32(index) << 1)
	if complemented {
		r |= 1
	}
	return r
}

// IsComplemented reports whether r carries the complement tag.
func (r Ref) IsComplemented() bool {
	return r&1 != 0
}

// Regular returns r with the complement tag cleared.
func (r Ref) Regular() Ref {
	return r &^ 1
}

// Negated returns r with the complement tag toggled. This is the whole
// implementation of Boolean Complement: O(1), no recursion.
func (r Ref) Negated() Ref {
	return r ^ 1
}

// index returns the node-table slot this Ref addresses, ignoring the
// complement tag.
func (r Ref) index() int32 {
	return int32(r >> 1)
}

// IsValid reports whether r is not the reserved invalid/nil reference.
func (r Ref) IsValid() bool {
	return r != invalidRef
}

// node is the atomic storage unit of the pool, shared by every level's
// subtable and by the constant subtable. A node is a terminal when its
// level equals the owning manager's sentinel terminal level; terminal
// nodes carry a numeric value (always 1 for the Boolean family) instead of
// live low/high children.
type node struct {
	refcou uint32 // saturating external reference count
	level  int32  // variable level, or the terminal sentinel
	low    Ref    // else/low branch (always regular for ADD)
	high   Ref    // then/high branch; always regular, per the canonical-complementation invariant
	next   int32  // collision-chain link within the owning subtable, 0 if last
	value  float64 // valid only when this is a terminal node
}

// nodeByteSize estimates one node slot's footprint for the manager's memory
// budget check (spec.md §5/§6's MaxMemory cap on the node pool).
const nodeByteSize = unsafe.Sizeof(node{})

func (n *node) isTerminal(sentinel int32) bool {
	return n.level == sentinel
}

// addRefCount increments a saturating counter: once it reaches maxRefcount
// it never decreases, which is what makes permanently-pinned nodes (the
// constants, the variable literals) immune to collection.
func addRefCount(c *uint32) {
	if *c < maxRefcount {
		*c++
	}
}

// subRefCount decrements a saturating counter, stopping at zero. A count
// pinned at maxRefcount is never decremented by this function: the caller
// must check isPermanent before calling it if that distinction matters.
func subRefCount(c *uint32) {
	if *c > 0 && *c < maxRefcount {
		*c--
	}
}

func isPermanent(c uint32) bool {
	return c == maxRefcount
}
