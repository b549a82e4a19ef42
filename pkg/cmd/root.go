// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package cmd wires the incore engine up as a command-line tool: compile
// drives one incremental pass, inspect dumps a persisted Analysis, stats
// reports cache hit/miss counters, and gc prunes stale products.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled when building via a release pipeline; "go run"/"go
// install" fall back to the module version recorded in the build info.
var Version string

var rootCmd = &cobra.Command{
	Use:   "incore",
	Short: "An incremental compilation analysis engine.",
	Long:  "Drives an external compiler incrementally, tracking cross-class dependencies to recompile only what changed.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("incore ")

			if Version != "" {
				fmt.Print(Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Print(info.Main.Version)
			} else {
				fmt.Print("(unknown version)")
			}

			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and runs it. Called by
// main.main(); any error exits the process with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	rootCmd.PersistentFlags().Bool("json-log", false, "emit logs as JSON instead of text")
	rootCmd.Flags().Bool("version", false, "print version information")
}
