// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/aclgraph/pkg/ux"
	"github.com/AleutianAI/aclgraph/services/acl/ruleset"
	"github.com/AleutianAI/aclgraph/services/acl/tree"
)

// Exit codes for check.
const (
	CheckExitAllowed = 0
	CheckExitDenied  = 1
	CheckExitError   = 2
)

// PathResult is the outcome of one path query.
type PathResult struct {
	Path    string `json:"path"`
	Allowed bool   `json:"allowed"`
	Leaves  int    `json:"leaves"`
	Trail   int    `json:"trail,omitempty"`
}

// CheckResult holds the results of a check run.
type CheckResult struct {
	Ruleset    string       `json:"ruleset"`
	Results    []PathResult `json:"results"`
	Allowed    int          `json:"allowed"`
	Denied     int          `json:"denied"`
	DurationMs int64        `json:"duration_ms"`
}

var (
	checkRuleset string
	checkSep     string
	checkJSON    bool
	checkTrail   bool
	checkQuiet   bool
)

var checkCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Check paths against a ruleset",
	Long: `Check whether each path is granted by the ruleset.

A path is granted when it reaches at least one leaf of the permission
graph, either literally or through a declared * or ** rule.

Examples:
  aclgraph check -f rules.yaml admin.services.web.restart
  aclgraph check -f rules.yaml --json viewer.docs.read viewer.docs.write
  aclgraph check -f rules.yaml --sep / mqtt/sensors/kitchen/temp

Exit Codes:
  0 = All paths allowed
  1 = At least one path denied
  2 = Error (missing ruleset, parse failure)`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkRuleset, "ruleset", "f", "",
		"Ruleset YAML file (required)")
	checkCmd.Flags().StringVar(&checkSep, "sep", "",
		"Path separator for query arguments (default: ruleset separator)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output as JSON")
	checkCmd.Flags().BoolVar(&checkTrail, "trail", false,
		"Include the number of graph nodes on the match trail")
	checkCmd.Flags().BoolVar(&checkQuiet, "quiet", false,
		"Only exit code, no output")
	_ = checkCmd.MarkFlagRequired("ruleset")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	start := time.Now()

	doc, root, err := loadRuleset(checkRuleset)
	if err != nil {
		outputCheckError(err)
		os.Exit(CheckExitError)
	}

	sep := checkSep
	if sep == "" {
		sep = doc.Separator
	}

	result := &CheckResult{
		Ruleset: checkRuleset,
		Results: make([]PathResult, 0, len(args)),
	}

	for _, arg := range args {
		path := strings.Split(arg, sep)

		leaves := 0
		for range root.Leafs(path...) {
			leaves++
		}
		r := PathResult{
			Path:    arg,
			Allowed: leaves > 0,
			Leaves:  leaves,
		}
		if checkTrail {
			for range root.Trail(path...) {
				r.Trail++
			}
		}
		if r.Allowed {
			result.Allowed++
		} else {
			result.Denied++
		}
		result.Results = append(result.Results, r)
	}
	result.DurationMs = time.Since(start).Milliseconds()

	logger.Debug("check finished",
		"ruleset", checkRuleset,
		"paths", len(args),
		"denied", result.Denied,
	)

	if !checkQuiet {
		if checkJSON {
			outputCheckJSON(result)
		} else {
			outputCheckText(result)
		}
	}

	if result.Denied > 0 {
		os.Exit(CheckExitDenied)
	}
	os.Exit(CheckExitAllowed)
}

func outputCheckText(result *CheckResult) {
	for _, r := range result.Results {
		detail := ""
		if checkTrail && r.Allowed {
			detail = fmt.Sprintf("%d leaves, %d nodes on trail", r.Leaves, r.Trail)
		}
		icon := ux.IconError
		if r.Allowed {
			icon = ux.IconSuccess
		}
		ux.PathStatus(r.Path, icon, detail)
	}
	ux.Summary(result.Allowed, result.Denied, len(result.Results))
}

func outputCheckJSON(result *CheckResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
	}
}

func outputCheckError(err error) {
	if checkJSON {
		_ = json.NewEncoder(os.Stderr).Encode(map[string]string{"error": err.Error()})
		return
	}
	ux.Error(err.Error())
}

// loadRuleset loads the rule file through the logging-wired Loader and
// hands back both the document settings (separator) and the built graph.
func loadRuleset(path string) (*ruleset.Document, *tree.Node[string, any], error) {
	return ruleset.NewLoader(logger).Load(path)
}
