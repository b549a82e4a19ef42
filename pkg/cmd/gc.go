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
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var gcCmd = &cobra.Command{
	Use:   "gc [flags] output_dir",
	Short: "remove product files on disk no longer owned by any source in the store.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		dryRun := GetFlag(cmd, "dry-run")
		a := loadAnalysis(GetString(cmd, "store"))
		outputDir := args[0]

		known := make(map[string]struct{}, len(a.Stamps.Products))
		for f := range a.Stamps.Products {
			known[filepath.Clean(f.Path())] = struct{}{}
		}

		removed := 0

		err := filepath.WalkDir(outputDir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}

			if _, ok := known[filepath.Clean(path)]; ok {
				return nil
			}

			removed++

			if dryRun {
				fmt.Println("would remove", path)
				return nil
			}

			return os.Remove(path)
		})
		if err != nil {
			fatalf("walking %s: %s", outputDir, err)
		}

		log.WithField("removed", removed).Info("gc complete")
	},
}

func init() {
	rootCmd.AddCommand(gcCmd)
	gcCmd.Flags().String("store", "analysis.bin", "path to the persisted analysis store")
	gcCmd.Flags().Bool("dry-run", false, "list files that would be removed without deleting them")
}
