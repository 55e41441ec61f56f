// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tree implements the wildcard-aware permission tree that backs
// aclgraph rule evaluation.
//
// A tree is a graph of Nodes connected by keyed branch edges. Two branch
// keys are reserved per root: a wildcard token that matches exactly one
// query segment, and a globstar token that matches zero or more segments.
// Rules such as "admin.*.*" or "user.**.read" are declared as ordinary
// branch chains; the special meaning of the tokens only applies while
// matching.
//
// # Ownership Model
//
// Nodes may be shared. Set() installs an existing Node under a second
// parent, which is how role inheritance is modeled ("admin includes every
// rule of viewer"). The structure is therefore a DAG, not a strict tree:
//   - a Node has no single owner; it lives as long as any parent edge
//   - Delete() removes one edge, never the target Node
//   - acyclicity is enforced at link time by Set()
//
// # Thread Safety
//
// The tree is NOT safe for concurrent use. All mutation and traversal is
// single-threaded by design. Mutating a Node's branches while a Walk or
// Descendants iterator over that Node is open is forbidden; iterators
// snapshot direct children but not deeper structure.
package tree

import "errors"

// Sentinel errors for reference linking.
var (
	// ErrMissingBranchKey is returned by Set when the branch key is the
	// zero value of the key type.
	ErrMissingBranchKey = errors.New("missing branch key")

	// ErrNilReference is returned by Set when the target node is nil.
	ErrNilReference = errors.New("reference target is not a node")

	// ErrCircularReference is returned by Set when installing the target
	// would make the linking node reachable from itself. The check runs
	// before any mutation, so a rejected Set leaves the graph unchanged.
	ErrCircularReference = errors.New("circular reference")
)
