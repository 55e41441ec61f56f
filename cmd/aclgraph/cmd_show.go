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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/aclgraph/pkg/ux"
	"github.com/AleutianAI/aclgraph/services/acl/render"
)

var (
	showRuleset string
	showDepth   int
	showJSON    bool
)

var showCmd = &cobra.Command{
	Use:   "show [PATH]",
	Short: "Render the permission graph of a ruleset",
	Long: `Render the graph built from a ruleset, as a tree or as JSON.

With a PATH argument only the subtree rooted at that path is rendered.
Shared subtrees (aliases) are expanded once and referenced afterwards.

Examples:
  aclgraph show -f rules.yaml
  aclgraph show -f rules.yaml admin
  aclgraph show -f rules.yaml --depth 2 --json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showRuleset, "ruleset", "f", "",
		"Ruleset YAML file (required)")
	showCmd.Flags().IntVar(&showDepth, "depth", 0,
		"Maximum depth to render (0 = unlimited)")
	showCmd.Flags().BoolVar(&showJSON, "json", false,
		"Output as JSON")
	_ = showCmd.MarkFlagRequired("ruleset")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) {
	doc, root, err := loadRuleset(showRuleset)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(CheckExitError)
	}

	node := root
	if len(args) > 0 {
		path := strings.Split(args[0], doc.Separator)
		sub, ok := root.Lookup(path...)
		if !ok {
			ux.Error(fmt.Sprintf("path not declared: %s", args[0]))
			os.Exit(CheckExitError)
		}
		node = sub
	}

	var opts []render.Option
	if showDepth > 0 {
		opts = append(opts, render.WithMaxDepth(showDepth))
	}

	if showJSON {
		out, err := render.JSON(node, opts...)
		if err != nil {
			ux.Error(fmt.Sprintf("render: %v", err))
			os.Exit(CheckExitError)
		}
		fmt.Println(out)
		return
	}
	fmt.Print(render.Text(node, opts...))
}
