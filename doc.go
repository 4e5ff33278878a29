// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package bdd defines a concrete type for Binary Decision Diagrams (BDD) and
their arithmetic generalization, Algebraic Decision Diagrams (ADD): shared,
reduced, ordered DAGs used to represent Boolean functions over a fixed set of
variables, or functions from Boolean vectors to numeric values.

Basics

Each Manager has a fixed number of variables, set when it is created with New
(BDD) or NewADD (ADD) and extendable later with ExtVarnum. Every variable is
identified by an index in [0..Varnum) and currently sits at some level in the
range [0..Varnum); the level changes over time as the manager reorders its
variables, the index never does.

Most operations return a Ref: a tagged pointer into the diagram, encoding a
node address together with a single complementation bit for the Boolean
family (see Ref). Refs are values, not resources that must be recycled one at
a time; the manager's garbage collector reclaims every node that no root
with a positive reference count (and no in-flight result) still reaches.

Implementation

The data structures and algorithms here are a direct adaptation of those
found in the CUDD library (Fabio Somenzi) and in BuDDy (Jorn Lind-Nielsen);
we reuse CUDD's naming for error codes and reordering methods where the two
overlap. The package is written in pure Go: node storage, the unique table,
the computed cache and the reordering engine are manager-local data
structures with no package-level mutable state, so distinct managers can run
concurrently on different goroutines with no locking between them (see
Manager for the single-threaded-per-manager concurrency contract).

Like the teacher implementation this package is descended from, external
references to a Ref are tracked explicitly with AddRef/DelRef rather than
relying on Go's garbage collector to notice when a diagram becomes
unreachable. DelRef decrements only the root's own count; the collector
then marks everything reachable from nodes with a positive count and from
the manager's transient-hold stack, and reclaims the rest.
*/
package bdd
