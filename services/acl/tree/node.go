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

import (
	"fmt"

	"github.com/google/uuid"
)

// Config carries the reserved matching tokens for one root. Every Node
// created through Declare inherits its root's Config.
type Config[K comparable] struct {
	// Wildcard matches exactly one query segment.
	Wildcard K

	// Globstar matches zero or more query segments.
	Globstar K
}

// DefaultConfig returns the conventional string tokens: "*" and "**".
func DefaultConfig() Config[string] {
	return Config[string]{Wildcard: "*", Globstar: "**"}
}

// Node is a vertex in the permission graph: an insertion-ordered mapping
// from branch key to child Node, plus an optional value payload.
//
// A Node with no value and no branches is a valid, empty leaf. Branch keys
// equal to the configured wildcard/globstar tokens are ordinary map keys
// structurally; they only carry special meaning during Walk.
type Node[K comparable, V any] struct {
	// id is a stable identifier assigned at creation. It is used for
	// debug output and shared-node markers in serialization; matching
	// itself relies on pointer identity.
	id string

	// cfg is shared by every Node declared under the same root.
	cfg *Config[K]

	// keys preserves branch insertion order for deterministic
	// serialization. Irrelevant to matching.
	keys     []K
	branches map[K]*Node[K, V]

	value    V
	hasValue bool
}

// New creates an empty root Node with the given matching tokens.
func New[K comparable, V any](cfg Config[K]) *Node[K, V] {
	return newNode[K, V](&cfg)
}

// NewStrings creates a string-keyed root with the default "*" and "**"
// tokens. This is the shape every ruleset file decodes into.
func NewStrings() *Node[string, any] {
	return New[string, any](DefaultConfig())
}

func newNode[K comparable, V any](cfg *Config[K]) *Node[K, V] {
	return &Node[K, V]{
		id:       uuid.NewString(),
		cfg:      cfg,
		branches: make(map[K]*Node[K, V]),
	}
}

// ID returns the Node's stable identifier.
func (n *Node[K, V]) ID() string {
	return n.id
}

// Size returns the number of direct branch entries. Not recursive.
func (n *Node[K, V]) Size() int {
	return len(n.branches)
}

// Keys returns the branch keys in insertion order. The slice is a copy.
func (n *Node[K, V]) Keys() []K {
	out := make([]K, len(n.keys))
	copy(out, n.keys)
	return out
}

// Branch returns the direct child under key, if any.
func (n *Node[K, V]) Branch(key K) (*Node[K, V], bool) {
	c, ok := n.branches[key]
	return c, ok
}

// Value returns the payload set by Define, and whether one was set.
func (n *Node[K, V]) Value() (V, bool) {
	return n.value, n.hasValue
}

// Define sets the value payload on the Node and returns the Node. The
// value is independent of branch structure and is not validated.
func (n *Node[K, V]) Define(v V) *Node[K, V] {
	n.value = v
	n.hasValue = true
	return n
}

// Declare walks the given path, creating any missing Node along the way,
// and returns the Node at the end of the path. An empty path returns the
// receiver. Declare is idempotent: repeating the same path returns the
// same Node.
func (n *Node[K, V]) Declare(path ...K) *Node[K, V] {
	cur := n
	for _, seg := range path {
		child, ok := cur.branches[seg]
		if !ok {
			child = newNode[K, V](cur.cfg)
			cur.put(seg, child)
		}
		cur = child
	}
	return cur
}

// Lookup performs an exact, non-wildcard descent along path. It returns
// the receiver for an empty path, and false if any segment is missing.
func (n *Node[K, V]) Lookup(path ...K) (*Node[K, V], bool) {
	cur := n
	for _, seg := range path {
		child, ok := cur.branches[seg]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// Delete removes the branch entry named by the last path segment from its
// immediate parent, found by exact descent over all but the last segment.
// It reports whether an entry was actually removed; an empty path is a
// no-op returning false.
//
// Only the single edge is broken. A shared target Node remains reachable
// from any other parent that references it.
func (n *Node[K, V]) Delete(path ...K) bool {
	if len(path) == 0 {
		return false
	}
	parent, ok := n.Lookup(path[:len(path)-1]...)
	if !ok {
		return false
	}
	return parent.remove(path[len(path)-1])
}

// Clear removes all branch entries from the Node and returns it. Children
// that are still referenced by other parents are unaffected.
func (n *Node[K, V]) Clear() *Node[K, V] {
	n.keys = n.keys[:0]
	clear(n.branches)
	return n
}

// Set installs target as the child of the Node under key. This is the
// reference linker: target may already live elsewhere in the graph, and
// after a successful Set it is reachable through both parents.
//
// Errors:
//
//	ErrMissingBranchKey - key is the zero value of K
//	ErrNilReference - target is nil
//	ErrCircularReference - the Node is reachable from target (including
//	target itself), so installing would close a cycle
//
// The cycle check enumerates target's descendants to completion before
// any mutation; a rejected Set leaves both nodes untouched.
func (n *Node[K, V]) Set(key K, target *Node[K, V]) error {
	var zero K
	if key == zero {
		return ErrMissingBranchKey
	}
	if target == nil {
		return ErrNilReference
	}
	for d := range target.Descendants() {
		if d == n {
			return fmt.Errorf("%w: node %s is reachable from target %s", ErrCircularReference, n.id, target.id)
		}
	}
	n.put(key, target)
	return nil
}

// put inserts or replaces a branch entry, keeping insertion order stable
// for keys that already exist.
func (n *Node[K, V]) put(key K, child *Node[K, V]) {
	if _, ok := n.branches[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.branches[key] = child
}

// remove deletes one branch entry and reports whether it existed.
func (n *Node[K, V]) remove(key K) bool {
	if _, ok := n.branches[key]; !ok {
		return false
	}
	delete(n.branches, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// children returns a snapshot of the direct children in insertion order.
// Traversals iterate the snapshot so a caller mutating the branch map
// mid-iteration corrupts at most its own results, not the iterator.
func (n *Node[K, V]) children() []*Node[K, V] {
	out := make([]*Node[K, V], 0, len(n.keys))
	for _, k := range n.keys {
		out = append(out, n.branches[k])
	}
	return out
}

// String returns a short debug form: the id prefix and branch count.
func (n *Node[K, V]) String() string {
	return fmt.Sprintf("node(%.8s, %d branches)", n.id, len(n.branches))
}
