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

// Descendants returns a lazy depth-first enumeration of every Node
// reachable from the start node(s) via branch edges, each Node yielded at
// most once. The start nodes themselves are included.
//
// With no path the enumeration starts at the receiver. With a path it
// starts at every Node matched by Walk over that path, so wildcard and
// globstar tokens are honored; all starts share one visited set.
//
// Because nodes may be shared between parents, the graph is a DAG and the
// identity-based visited set is what turns the multiset of routes into a
// set of nodes. Each call is independent and restartable.
func (n *Node[K, V]) Descendants(path ...K) iter.Seq[*Node[K, V]] {
	return func(yield func(*Node[K, V]) bool) {
		visited := make(map[*Node[K, V]]struct{})
		if len(path) == 0 {
			descend(n, visited, yield)
			return
		}
		for start := range n.Leafs(path...) {
			if !descend(start, visited, yield) {
				return
			}
		}
	}
}

// descend is the DFS worker. It returns false when the consumer stopped.
func descend[K comparable, V any](n *Node[K, V], visited map[*Node[K, V]]struct{}, yield func(*Node[K, V]) bool) bool {
	if _, seen := visited[n]; seen {
		return true
	}
	visited[n] = struct{}{}
	if !yield(n) {
		return false
	}
	for _, child := range n.children() {
		if !descend(child, visited, yield) {
			return false
		}
	}
	return true
}
