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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclare(t *testing.T) {
	t.Run("creates missing nodes", func(t *testing.T) {
		root := NewStrings()
		leaf := root.Declare("admin", "users", "read")

		require.NotNil(t, leaf)
		assert.Equal(t, 1, root.Size())

		mid, ok := root.Lookup("admin", "users")
		require.True(t, ok)
		assert.Equal(t, 1, mid.Size())
	})

	t.Run("idempotent", func(t *testing.T) {
		root := NewStrings()
		first := root.Declare("a", "b")
		second := root.Declare("a", "b")

		assert.Same(t, first, second)
		assert.Equal(t, first.ID(), second.ID())
	})

	t.Run("empty path returns receiver", func(t *testing.T) {
		root := NewStrings()
		assert.Same(t, root, root.Declare())
	})

	t.Run("wildcard tokens are ordinary keys", func(t *testing.T) {
		root := NewStrings()
		root.Declare("admin", "*", "*")

		star, ok := root.Lookup("admin", "*")
		require.True(t, ok)
		assert.Equal(t, 1, star.Size())
	})
}

func TestDefine(t *testing.T) {
	root := NewStrings()
	n := root.Declare("a").Define(42)

	v, ok := n.Value()
	require.True(t, ok)
	assert.Equal(t, 42, v)

	// Undefined nodes report no value.
	_, ok = root.Value()
	assert.False(t, ok)

	// Define returns the receiver for chaining.
	assert.Same(t, n, n.Define("replaced"))
	v, _ = n.Value()
	assert.Equal(t, "replaced", v)
}

func TestLookup(t *testing.T) {
	root := NewStrings()
	root.Declare("a", "b", "c")

	tests := []struct {
		name string
		path []string
		ok   bool
	}{
		{"full path", []string{"a", "b", "c"}, true},
		{"prefix", []string{"a", "b"}, true},
		{"empty path is self", nil, true},
		{"missing segment", []string{"a", "x"}, false},
		{"past the leaf", []string{"a", "b", "c", "d"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := root.Lookup(tc.path...)
			assert.Equal(t, tc.ok, ok)
		})
	}

	// Lookup is exact: wildcards are not interpreted.
	_, ok := root.Lookup("*", "b", "c")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	t.Run("removes a single edge", func(t *testing.T) {
		root := NewStrings()
		root.Declare("a", "b", "c")

		require.True(t, root.Delete("a", "b"))
		_, ok := root.Lookup("a", "b")
		assert.False(t, ok)

		// The parent chain above the removed edge survives.
		_, ok = root.Lookup("a")
		assert.True(t, ok)
	})

	t.Run("missing entry returns false", func(t *testing.T) {
		root := NewStrings()
		root.Declare("a")

		assert.False(t, root.Delete("a", "x"))
		assert.False(t, root.Delete("nope"))
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		root := NewStrings()
		root.Declare("a")
		assert.False(t, root.Delete())
		assert.Equal(t, 1, root.Size())
	})

	t.Run("shared target stays reachable via other parents", func(t *testing.T) {
		root := NewStrings()
		x := root.Declare("A", "b")
		c := root.Declare("C")
		require.NoError(t, c.Set("d", x))

		require.True(t, root.Delete("A", "b"))

		_, ok := root.Lookup("A", "b")
		assert.False(t, ok)

		got, ok := c.Lookup("d")
		require.True(t, ok)
		assert.Same(t, x, got)
	})
}

func TestClear(t *testing.T) {
	root := NewStrings()
	shared := root.Declare("parent", "child")
	other := root.Declare("other")
	require.NoError(t, other.Set("ref", shared))

	parent, _ := root.Lookup("parent")
	assert.Same(t, parent, parent.Clear())
	assert.Equal(t, 0, parent.Size())

	// Clearing one parent does not destroy a shared child.
	got, ok := other.Lookup("ref")
	require.True(t, ok)
	assert.Same(t, shared, got)
}

func TestKeysOrder(t *testing.T) {
	root := NewStrings()
	root.Declare("b")
	root.Declare("a")
	root.Declare("c")

	assert.Equal(t, []string{"b", "a", "c"}, root.Keys())

	// Re-declaring keeps the original position.
	root.Declare("a", "deeper")
	assert.Equal(t, []string{"b", "a", "c"}, root.Keys())

	// Removal compacts; re-adding appends at the end.
	root.Delete("a")
	root.Declare("a")
	assert.Equal(t, []string{"b", "c", "a"}, root.Keys())
}

func TestSize(t *testing.T) {
	root := NewStrings()
	assert.Equal(t, 0, root.Size())

	root.Declare("a", "deep", "chain")
	root.Declare("b")

	// Size counts direct branches only.
	assert.Equal(t, 2, root.Size())
}

func TestCustomTokens(t *testing.T) {
	root := New[string, any](Config[string]{Wildcard: "+", Globstar: "#"})
	root.Declare("a", "+")

	assert.True(t, root.Has("a", "anything"))
	// The default tokens carry no special meaning here.
	assert.False(t, root.Has("a", "x", "y"))
}
