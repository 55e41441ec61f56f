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
	"sort"
)

// FromValue converts a nested structure into a string-keyed tree with the
// default tokens. The case split is explicit:
//
//   - map[string]any: each entry becomes a branch; values recurse
//   - []any: a scalar element becomes a childless branch keyed by its
//     string form; a map or list element is grafted into the same node,
//     so mixed sequences lose no structure
//   - nil: an empty leaf
//   - anything else: a leaf value set via Define
//
// Map keys are visited in sorted order so the resulting branch order is
// deterministic regardless of Go's map iteration.
func FromValue(v any) *Node[string, any] {
	root := NewStrings()
	Graft(root, v)
	return root
}

// Graft merges the nested structure v into the subtree rooted at n, using
// the same case split as FromValue. Existing branches are reused, so
// grafting is additive.
func Graft(n *Node[string, any], v any) {
	fill(n, v)
}

func fill(n *Node[string, any], v any) {
	switch val := v.(type) {
	case nil:
		// Empty leaf: declared but carries no value.
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fill(n.Declare(k), val[k])
		}
	case []any:
		for _, elem := range val {
			switch elem.(type) {
			case map[string]any, []any:
				fill(n, elem)
			default:
				n.Declare(fmt.Sprint(elem))
			}
		}
	default:
		n.Define(val)
	}
}
