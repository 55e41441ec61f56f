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
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[K comparable, V any](seq iter.Seq[*Node[K, V]]) []*Node[K, V] {
	var out []*Node[K, V]
	for n := range seq {
		out = append(out, n)
	}
	return out
}

func TestDescendants(t *testing.T) {
	t.Run("includes start node", func(t *testing.T) {
		root := NewStrings()
		got := collect(root.Descendants())
		require.Len(t, got, 1)
		assert.Same(t, root, got[0])
	})

	t.Run("depth first over declared structure", func(t *testing.T) {
		root := NewStrings()
		root.Declare("a", "b")
		root.Declare("c")

		got := collect(root.Descendants())
		assert.Len(t, got, 4) // root, a, b, c
	})

	t.Run("shared node yielded once", func(t *testing.T) {
		root := NewStrings()
		shared := root.Declare("lib")
		require.NoError(t, root.Declare("u1").Set("lib", shared))
		require.NoError(t, root.Declare("u2").Set("lib", shared))

		seen := 0
		for n := range root.Descendants() {
			if n == shared {
				seen++
			}
		}
		assert.Equal(t, 1, seen)
	})

	t.Run("start path resolves wildcards", func(t *testing.T) {
		root := NewStrings()
		root.Declare("a", "x", "deep")
		root.Declare("b", "y")

		// "*" matches both a and b; enumeration covers both subtrees.
		got := collect(root.Descendants("*"))
		assert.Len(t, got, 5) // a, x, deep, b, y
	})

	t.Run("early stop aborts traversal", func(t *testing.T) {
		root := NewStrings()
		root.Declare("a", "b", "c")

		count := 0
		for range root.Descendants() {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}
