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
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/buildtools/incore/internal/anacache"
	"github.com/buildtools/incore/pkg/util/termio"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags]",
	Short: "report cache and store statistics for a run.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		store := GetString(cmd, "store")

		info, err := os.Stat(store)
		if err != nil {
			fatalf("stat %s: %s", store, err)
		}

		cache := anacache.New()
		cache.Get(store)

		hit, miss := cache.Stats().Hits, cache.Stats().Misses

		if term.IsTerminal(int(os.Stdout.Fd())) {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				width = 80
			}

			printTable(width, store, info.Size(), hit, miss)

			return
		}

		fmt.Printf("store=%s size=%d hits=%d misses=%d\n", store, info.Size(), hit, miss)
	},
}

// printTable renders store statistics using the same FormattedTable the
// interactive terminal widgets build on, clipped to the caller's terminal
// width.
func printTable(width int, store string, size int64, hits, misses uint64) {
	rows := [][2]string{
		{"store", store},
		{"size", strconv.FormatInt(size, 10) + " bytes"},
		{"cache hits", strconv.FormatUint(hits, 10)},
		{"cache misses", strconv.FormatUint(misses, 10)},
	}

	table := termio.NewFormattedTable(2, uint(len(rows)))
	for row, r := range rows {
		table.SetRow(uint(row), termio.NewText(r[0]), termio.NewText(r[1]))
	}

	table.SetMaxWidths(uint(max(width-4, 8)))
	table.Print(false)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("store", "analysis.bin", "path to the persisted analysis store")
}
