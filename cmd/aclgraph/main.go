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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/aclgraph/pkg/logging"
	"github.com/AleutianAI/aclgraph/pkg/ux"
)

var (
	rootVerbose bool
	rootPlain   bool
	rootLogDir  string

	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aclgraph",
	Short: "Query wildcard permission graphs",
	Long: `aclgraph loads a YAML ruleset into a permission graph and answers
path queries against it.

Rule paths support two matching tokens:
  *   matches exactly one segment
  **  matches zero or more segments, in the middle of a rule as well
      as at its end

Examples:
  aclgraph check -f rules.yaml admin.services.web.restart
  aclgraph show -f rules.yaml --depth 3`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&rootPlain, "plain", false,
		"Plain output without colors or icons")
	rootCmd.PersistentFlags().StringVar(&rootLogDir, "log-dir", "",
		"Write JSON logs to this directory (supports ~ expansion)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		ux.SetPlain(rootPlain)

		level := logging.LevelWarn
		if rootVerbose {
			level = logging.LevelDebug
		}
		logger = logging.New(logging.Config{
			Level:   level,
			LogDir:  rootLogDir,
			Service: "cli",
		})
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	}
}
