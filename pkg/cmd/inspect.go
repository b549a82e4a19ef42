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
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags]",
	Short: "dump a persisted analysis store in human-readable form.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		a := loadAnalysis(GetString(cmd, "store"))

		fmt.Printf("sources:  %d\n", len(a.Stamps.Sources))
		fmt.Printf("products: %d\n", len(a.Stamps.Products))
		fmt.Printf("binaries: %d\n", len(a.Stamps.Binaries))
		fmt.Printf("internal classes: %d\n", len(a.APIs.Internal))
		fmt.Printf("external classes: %d\n", len(a.APIs.External))
		fmt.Printf("compile passes: %d\n", len(a.Compilations))

		if GetFlag(cmd, "verbose") {
			for _, src := range a.Stamps.SortedSources() {
				classes := a.Relations.Classes.Forward(src)
				fmt.Printf("  %s -> %v\n", src.Path(), classes)
			}
		}

		if err := a.CheckCoverage(); err != nil {
			fmt.Printf("coverage violation: %s\n", err)
		}

		if err := a.CheckProductUniqueness(); err != nil {
			fmt.Printf("product uniqueness violation: %s\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("store", "analysis.bin", "path to the persisted analysis store")
}
