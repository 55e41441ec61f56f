// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ruleset loads aclgraph rule documents from YAML and builds the
// permission tree they describe.
//
// A document declares roles, each carrying either a list of
// separator-joined rule paths or a nested mapping, plus optional aliases
// that install one role's subtree under another role (shared structure
// via the tree reference linker):
//
//	version: 1
//	roles:
//	  viewer:
//	    - docs.read
//	  admin:
//	    - "*.*"
//	aliases:
//	  - at: admin.inherit
//	    to: viewer
package ruleset

import "errors"

// Sentinel errors for document parsing and building.
var (
	// ErrUnsupportedVersion is returned for a document version other
	// than 1 (or unset, which defaults to 1).
	ErrUnsupportedVersion = errors.New("unsupported ruleset version")

	// ErrInvalidAlias is returned when an alias is missing its "at" or
	// "to" path.
	ErrInvalidAlias = errors.New("invalid alias")

	// ErrUnknownAliasTarget is returned when an alias "to" path does not
	// resolve to a declared node.
	ErrUnknownAliasTarget = errors.New("unknown alias target")
)
