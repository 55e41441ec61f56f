// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package render draws permission trees for humans and machines.
//
// It is a read-only consumer of the tree package data model: it never
// mutates nodes and adds no matching semantics of its own. Text produces
// a box-drawing tree for terminals; Project produces a nested map
// suitable for JSON or YAML encoding.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AleutianAI/aclgraph/services/acl/tree"
)

// ValueKey is the reserved projection key holding a node's value when the
// node also has branches.
const ValueKey = "$value"

// Options configures rendering.
type Options struct {
	// MaxDepth limits how many branch levels are rendered. Zero means
	// unlimited. Nodes cut off by the limit are shown as an ellipsis.
	MaxDepth int
}

// Option is a functional option for configuring rendering.
type Option func(*Options)

// WithMaxDepth limits rendering to d branch levels. d <= 0 means
// unlimited.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			d = 0
		}
		o.MaxDepth = d
	}
}

func applyOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Text renders the tree rooted at n as box-drawing text.
//
// Shared nodes (installed under several parents via Set) are expanded at
// their first encounter only; later encounters print a reference marker
// carrying the first eight characters of the node ID.
func Text[K comparable, V any](n *tree.Node[K, V], opts ...Option) string {
	o := applyOptions(opts)

	var b strings.Builder
	b.WriteString(".")
	if v, ok := n.Value(); ok {
		fmt.Fprintf(&b, " = %v", v)
	}
	b.WriteByte('\n')

	seen := map[*tree.Node[K, V]]struct{}{n: {}}
	writeBranches(&b, n, "", 1, o, seen)
	return b.String()
}

func writeBranches[K comparable, V any](b *strings.Builder, n *tree.Node[K, V], prefix string, depth int, o Options, seen map[*tree.Node[K, V]]struct{}) {
	keys := n.Keys()
	for i, key := range keys {
		child, ok := n.Branch(key)
		if !ok {
			continue
		}
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(keys)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}

		line := fmt.Sprint(key)
		if v, hasValue := child.Value(); hasValue {
			line += fmt.Sprintf(" = %v", v)
		}

		if _, dup := seen[child]; dup {
			fmt.Fprintf(b, "%s%s%s → ref:%.8s\n", prefix, connector, line, child.ID())
			continue
		}
		seen[child] = struct{}{}

		if o.MaxDepth > 0 && depth >= o.MaxDepth && child.Size() > 0 {
			fmt.Fprintf(b, "%s%s%s …\n", prefix, connector, line)
			continue
		}

		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, line)
		writeBranches(b, child, childPrefix, depth+1, o, seen)
	}
}

// Project converts the tree rooted at n into plain nested data:
//
//   - a node with branches becomes a map keyed by the string form of its
//     branch keys, in insertion order lost to the map but deterministic
//     via the tree's own ordering when re-encoded with Keys()
//   - a childless node becomes its value, or nil when no value is set
//   - a node with both branches and a value keeps the value under the
//     reserved ValueKey entry
//
// The graph is acyclic, so shared nodes are simply expanded under each
// parent.
func Project[K comparable, V any](n *tree.Node[K, V], opts ...Option) any {
	o := applyOptions(opts)
	return project(n, 0, o)
}

func project[K comparable, V any](n *tree.Node[K, V], depth int, o Options) any {
	if n.Size() == 0 {
		if v, ok := n.Value(); ok {
			return v
		}
		return nil
	}
	if o.MaxDepth > 0 && depth >= o.MaxDepth {
		return "…"
	}

	out := make(map[string]any, n.Size())
	if v, ok := n.Value(); ok {
		out[ValueKey] = v
	}
	for _, key := range n.Keys() {
		child, ok := n.Branch(key)
		if !ok {
			continue
		}
		out[fmt.Sprint(key)] = project(child, depth+1, o)
	}
	return out
}

// JSON renders the projection of n as indented JSON.
func JSON[K comparable, V any](n *tree.Node[K, V], opts ...Option) (string, error) {
	data, err := json.MarshalIndent(Project(n, opts...), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tree projection: %w", err)
	}
	return string(data), nil
}
