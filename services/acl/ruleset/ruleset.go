// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ruleset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/aclgraph/pkg/logging"
	"github.com/AleutianAI/aclgraph/services/acl/tree"
)

// Document is the decoded form of a rule file.
type Document struct {
	// Version of the document format. Zero defaults to 1; anything else
	// but 1 is rejected.
	Version int `yaml:"version"`

	// Separator splits rule paths into segments. Default: ".".
	Separator string `yaml:"separator"`

	// Wildcard and Globstar override the matching tokens for the built
	// tree. Defaults: "*" and "**".
	Wildcard string `yaml:"wildcard"`
	Globstar string `yaml:"globstar"`

	// Roles maps role name to its rules. Kept as a raw YAML node so the
	// document order of roles and branches is preserved in the tree.
	Roles yaml.Node `yaml:"roles"`

	// Aliases install one declared subtree under another path, creating
	// shared structure (role inheritance).
	Aliases []Alias `yaml:"aliases"`
}

// Alias links the node at To as a child under the path At. The last
// segment of At becomes the branch key; the rest is declared if missing.
type Alias struct {
	At string `yaml:"at"`
	To string `yaml:"to"`
}

// Parse decodes a YAML rule document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode ruleset: %w", err)
	}
	if doc.Version != 0 && doc.Version != 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Separator == "" {
		doc.Separator = "."
	}
	if doc.Wildcard == "" {
		doc.Wildcard = "*"
	}
	if doc.Globstar == "" {
		doc.Globstar = "**"
	}
	return &doc, nil
}

// Build declares every role's rules into a fresh tree and then installs
// the aliases. Returns the tree root.
//
// Alias installation runs after all declarations so an alias may target
// any role, not only one declared earlier in the document. A circular
// alias surfaces as tree.ErrCircularReference.
func (d *Document) Build() (*tree.Node[string, any], error) {
	root := tree.New[string, any](tree.Config[string]{
		Wildcard: d.Wildcard,
		Globstar: d.Globstar,
	})

	if d.Roles.Kind != 0 {
		if d.Roles.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("roles: expected a mapping, got %s", kindName(d.Roles.Kind))
		}
		if err := d.declareRules(root, &d.Roles); err != nil {
			return nil, err
		}
	}

	for _, a := range d.Aliases {
		if err := d.installAlias(root, a); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// declareRules walks a YAML node and declares its structure under n.
// Mappings recurse with the key as a branch segment; sequences hold
// separator-joined rule paths; scalars become leaf values.
func (d *Document) declareRules(n *tree.Node[string, any], node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if err := d.declareRules(n.Declare(key), node.Content[i+1]); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			var rule string
			if err := item.Decode(&rule); err != nil {
				return fmt.Errorf("rule must be a string (line %d): %w", item.Line, err)
			}
			if rule == "" {
				continue
			}
			n.Declare(d.splitPath(rule)...)
		}
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		var v any
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("decode value (line %d): %w", node.Line, err)
		}
		n.Define(v)
	case yaml.AliasNode:
		return d.declareRules(n, node.Alias)
	}
	return nil
}

func (d *Document) installAlias(root *tree.Node[string, any], a Alias) error {
	if a.At == "" || a.To == "" {
		return fmt.Errorf("%w: at=%q to=%q", ErrInvalidAlias, a.At, a.To)
	}
	target, ok := root.Lookup(d.splitPath(a.To)...)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAliasTarget, a.To)
	}
	at := d.splitPath(a.At)
	parent := root.Declare(at[:len(at)-1]...)
	if err := parent.Set(at[len(at)-1], target); err != nil {
		return fmt.Errorf("alias %q: %w", a.At, err)
	}
	return nil
}

func (d *Document) splitPath(path string) []string {
	return strings.Split(path, d.Separator)
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// Loader reads rule files from disk with structured logging.
type Loader struct {
	log *logging.Logger
}

// NewLoader creates a Loader. A nil logger disables logging.
func NewLoader(log *logging.Logger) *Loader {
	if log == nil {
		log = logging.New(logging.Config{Quiet: true})
	}
	return &Loader{log: log}
}

// Load reads, parses and builds the rule file at path. The Document is
// returned alongside the graph root so callers can reach the resolved
// settings (separator, tokens).
func (l *Loader) Load(path string) (*Document, *tree.Node[string, any], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read ruleset %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("ruleset %s: %w", path, err)
	}
	root, err := doc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("ruleset %s: %w", path, err)
	}

	roles := 0
	if d := doc.Roles; d.Kind == yaml.MappingNode {
		roles = len(d.Content) / 2
	}
	l.log.Info("ruleset loaded",
		"path", path,
		"roles", roles,
		"aliases", len(doc.Aliases),
	)
	return doc, root, nil
}
