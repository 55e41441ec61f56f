// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tree

import "iter"

// Tag classifies a Node yielded by Walk.
type Tag int

const (
	// TagLeaf marks a Node on which the query path was fully consumed:
	// a match.
	TagLeaf Tag = iota

	// TagTrail marks a Node whose subtree walk produced at least one
	// leaf match. Trail ancestors are yielded after the leaves beneath
	// them; Leafs ignores them.
	TagTrail
)

// String returns "leaf", "trail" or "unknown".
func (t Tag) String() string {
	switch t {
	case TagLeaf:
		return "leaf"
	case TagTrail:
		return "trail"
	default:
		return "unknown"
	}
}

// Walk resolves the query path against the graph and lazily yields every
// visited Node with a Tag. The query may mix literal segments with the
// configured wildcard token (exactly one segment) and globstar token
// (zero or more segments).
//
// For a literal segment three continuations are tried independently, and
// all of them may contribute matches:
//
//  1. a declared wildcard child matches the segment
//  2. a declared globstar child matches it as part of "any number of
//     segments"; a terminal globstar child (no further branches) absorbs
//     the remainder of the query unconditionally
//  3. a declared exact child matches it
//
// A visited set scoped to the call keeps the three routes from yielding
// the same Node twice when they converge on shared structure, and bounds
// the recursion between Walk and Descendants. Each call is independent;
// stopping the iterator early aborts the traversal (Has relies on this).
func (n *Node[K, V]) Walk(path ...K) iter.Seq2[*Node[K, V], Tag] {
	return func(yield func(*Node[K, V], Tag) bool) {
		w := &walker[K, V]{
			wildcard: n.cfg.Wildcard,
			globstar: n.cfg.Globstar,
			visited:  make(map[*Node[K, V]]struct{}),
			leafed:   make(map[*Node[K, V]]struct{}),
			trailed:  make(map[*Node[K, V]]struct{}),
		}
		w.walk(n, path, yield)
	}
}

// Leafs filters Walk down to the matched leaves.
func (n *Node[K, V]) Leafs(path ...K) iter.Seq[*Node[K, V]] {
	return func(yield func(*Node[K, V]) bool) {
		for node, tag := range n.Walk(path...) {
			if tag != TagLeaf {
				continue
			}
			if !yield(node) {
				return
			}
		}
	}
}

// Has reports whether the query path matches at least one Node. It stops
// the underlying walk after the first leaf.
func (n *Node[K, V]) Has(path ...K) bool {
	for range n.Leafs(path...) {
		return true
	}
	return false
}

// Trail yields every Node that is either a leaf match or an ancestor, in
// the walked call tree, of at least one leaf match. It reconstructs which
// rules along a matched path contributed to the result. Nodes are
// deduplicated; no ordering is guaranteed beyond "deterministic for a
// given graph and query".
func (n *Node[K, V]) Trail(path ...K) iter.Seq[*Node[K, V]] {
	return func(yield func(*Node[K, V]) bool) {
		emitted := make(map[*Node[K, V]]struct{})
		for node := range n.Walk(path...) {
			if _, dup := emitted[node]; dup {
				continue
			}
			emitted[node] = struct{}{}
			if !yield(node) {
				return
			}
		}
	}
}

// walker holds the per-invocation bookkeeping for one top-level Walk.
type walker[K comparable, V any] struct {
	wildcard K
	globstar K

	// visited marks nodes already consumed as fan-out targets by a
	// wildcard or globstar expansion in this call.
	visited map[*Node[K, V]]struct{}

	// leafed and trailed suppress duplicate yields per node.
	leafed  map[*Node[K, V]]struct{}
	trailed map[*Node[K, V]]struct{}
}

func (w *walker[K, V]) seen(n *Node[K, V]) bool {
	_, ok := w.visited[n]
	return ok
}

func (w *walker[K, V]) mark(n *Node[K, V]) {
	w.visited[n] = struct{}{}
}

// emitLeaf yields n as a leaf match unless it was already reported in
// this call. It returns false when the consumer stopped.
func (w *walker[K, V]) emitLeaf(n *Node[K, V], yield func(*Node[K, V], Tag) bool) bool {
	if _, dup := w.leafed[n]; dup {
		return true
	}
	w.leafed[n] = struct{}{}
	return yield(n, TagLeaf)
}

// walk is the recursive matcher. It reports whether at least one leaf
// match was found at or below n (matched), and whether the consumer still
// wants results (more). A false more aborts the whole traversal.
func (w *walker[K, V]) walk(n *Node[K, V], path []K, yield func(*Node[K, V], Tag) bool) (matched, more bool) {
	if len(path) == 0 {
		return true, w.emitLeaf(n, yield)
	}

	head, rest := path[0], path[1:]
	more = true

	switch head {
	case w.wildcard:
		// One segment of any name: every direct child continues.
		for _, child := range n.children() {
			if w.seen(child) {
				continue
			}
			w.mark(child)
			m, ok := w.walk(child, rest, yield)
			matched = matched || m
			if !ok {
				return matched, false
			}
		}

	case w.globstar:
		// Zero segments: continue on self. Marking self first keeps the
		// descendant fan-out below from walking it a second time.
		w.mark(n)
		m, ok := w.walk(n, rest, yield)
		matched = m
		if !ok {
			return matched, false
		}
		// One or more segments: land on any descendant, then continue.
		for d := range n.Descendants() {
			if w.seen(d) {
				continue
			}
			w.mark(d)
			m, ok := w.walk(d, rest, yield)
			matched = matched || m
			if !ok {
				return matched, false
			}
		}

	default:
		// Literal segment: three independent continuations.
		if wc, ok := n.Branch(w.wildcard); ok {
			m, k := w.walk(wc, rest, yield)
			matched = matched || m
			if !k {
				return matched, false
			}
		}
		if gs, ok := n.Branch(w.globstar); ok {
			if gs.Size() == 0 {
				// Terminal globstar: absorbs the rest of the query.
				if !w.emitLeaf(gs, yield) {
					return true, false
				}
				matched = true
			} else {
				// Non-terminal globstar: the rule may resume at any
				// descendant after absorbing any number of leading
				// query segments. The empty suffix is excluded: a
				// globstar with further branches still has to match
				// something, or "a.**.read" would match "a.read.extra".
				w.mark(n)
				for d := range n.Descendants() {
					if w.seen(d) {
						continue
					}
					w.mark(d)
					for i := 0; i < len(path); i++ {
						m, k := w.walk(d, path[i:], yield)
						matched = matched || m
						if !k {
							return matched, false
						}
					}
				}
			}
		}
		if child, ok := n.Branch(head); ok {
			m, k := w.walk(child, rest, yield)
			matched = matched || m
			if !k {
				return matched, false
			}
		}
	}

	if matched {
		more = w.emitTrail(n, yield)
	}
	return matched, more
}

// emitTrail yields n as a trail ancestor once per call. Nodes already
// reported as leaves are skipped; Trail includes leaves on its own.
func (w *walker[K, V]) emitTrail(n *Node[K, V], yield func(*Node[K, V], Tag) bool) bool {
	if _, isLeaf := w.leafed[n]; isLeaf {
		return true
	}
	if _, dup := w.trailed[n]; dup {
		return true
	}
	w.trailed[n] = struct{}{}
	return yield(n, TagTrail)
}
