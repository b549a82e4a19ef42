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
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/codec"
	"github.com/buildtools/incore/pkg/driver"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/invalidate"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source_file(s)",
	Short: "run one incremental compile pass.",
	Long:  "Stamps the given sources, computes what actually needs recompiling, drives the configured compiler bridge, and persists the updated analysis.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		store := GetString(cmd, "store")
		bridge := GetString(cmd, "bridge")
		fraction := GetFloat64(cmd, "fraction")
		output := GetString(cmd, "output")
		compilerVersion := GetString(cmd, "compiler-version")
		classpath := GetStringArray(cmd, "classpath")
		scalacOpts := GetStringArray(cmd, "scalac-opt")
		javacOpts := GetStringArray(cmd, "javac-opt")

		prev := loadAnalysis(store)
		// A first run has no baseline stamps: seed every source as Empty so
		// stage 1 sees each one as modified and the whole set is compiled.
		firstRun := len(prev.Stamps.Sources) == 0

		current := fstamp.NewStamps()
		for _, path := range args {
			f := fstamp.NewFile(path)

			stamp, err := fstamp.HashStamper(f)
			if err != nil {
				fatalf("stamping %s: %s", path, err)
			}

			current.Sources[f] = stamp
			if firstRun {
				prev.Stamps.Sources[f] = fstamp.Empty{}
			}
		}

		opts := invalidate.DefaultOptions()
		if fraction > 0 {
			opts.RecompileAllFraction = fraction
		}

		setup := api.MiniSetup{
			Output:          api.SingleOutput{Dir: output},
			Options:         currentOptions(classpath, scalacOpts, javacOpts),
			CompilerVersion: compilerVersion,
			CompileOrder:    opts.CompileOrder,
			StoreAPIs:       opts.StoreAPIs,
		}

		zapLogger, err := zap.NewProduction()
		if err != nil {
			zapLogger = zap.NewNop()
		}

		defer zapLogger.Sync() //nolint:errcheck

		d := &driver.Driver{
			Compile: execCompileFunc(bridge, nil),
			Options: opts,
			Logger:  zapLogger,
		}

		result, err := d.Run(context.Background(), prev, current, setup)
		if err != nil {
			fatalf("compile failed: %s", err)
		}

		if err := saveAnalysis(store, result); err != nil {
			fatalf("writing analysis: %s", err)
		}

		log.WithFields(log.Fields{
			"internal": len(result.APIs.Internal),
			"external": len(result.APIs.External),
			"sources":  len(result.Stamps.Sources),
		}).Info("compile complete")
	},
}

// currentOptions builds the current run's MiniOptions, content-hashing each
// classpath entry the same way a source is hashed so a jar swapped in place
// (same path, different bytes) is detected as a setup change.
func currentOptions(classpath, scalacOpts, javacOpts []string) api.MiniOptions {
	hashes := make([]api.FileHash, 0, len(classpath))

	for _, entry := range classpath {
		stamp, err := fstamp.BinaryStamper(fstamp.NewFile(entry))
		if err != nil {
			fatalf("hashing classpath entry %s: %s", entry, err)
		}

		var hash [32]byte
		if h, ok := stamp.(fstamp.Hash); ok {
			hash = h.Bytes
		}

		hashes = append(hashes, api.FileHash{Path: entry, Hash: hash})
	}

	return api.MiniOptions{
		ClasspathHash: hashes,
		ScalacOptions: scalacOpts,
		JavacOptions:  javacOpts,
	}
}

func loadAnalysis(store string) api.Analysis {
	data, err := os.ReadFile(store)
	if err != nil {
		return api.Empty()
	}

	a, err := codec.ReadAnalysis(data, codec.IdentityReadMapper())
	if err != nil {
		log.WithError(err).Warn("discarding unreadable analysis store, starting clean")
		return api.Empty()
	}

	return a
}

func saveAnalysis(store string, a api.Analysis) error {
	f, err := os.Create(store)
	if err != nil {
		return fmt.Errorf("creating %s: %w", store, err)
	}
	defer f.Close() //nolint:errcheck

	return codec.WriteAnalysis(f, a, codec.IdentityWriteMapper(), nil)
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().String("store", "analysis.bin", "path to the persisted analysis store")
	compileCmd.Flags().String("bridge", "", "external compiler bridge command, speaking the NDJSON event protocol")
	compileCmd.Flags().Float64("fraction", 0, "override the recompile-all-fraction threshold (0 keeps the default)")
	compileCmd.Flags().String("output", "", "output directory class files are written to")
	compileCmd.Flags().String("compiler-version", "", "compiler version string, compared against the previous run to force a full rebuild on change")
	compileCmd.Flags().StringArray("classpath", nil, "classpath entry (jar or class directory); repeatable")
	compileCmd.Flags().StringArray("scalac-opt", nil, "scalac option; repeatable")
	compileCmd.Flags().StringArray("javac-opt", nil, "javac option; repeatable")
	_ = compileCmd.MarkFlagRequired("bridge")
}
