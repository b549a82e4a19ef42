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
package codec

import (
	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
)

// WriteMapper rewrites local paths and options to a portable form on the way
// out to disk. The zero value is not usable; construct with
// IdentityWriteMapper and override individual fields.
type WriteMapper struct {
	SourceFile     func(fstamp.File) fstamp.File
	BinaryFile     func(fstamp.File) fstamp.File
	ProductFile    func(fstamp.File) fstamp.File
	SourceDir      func(string) string
	OutputDir      func(string) string
	ClasspathEntry func(string) string
	SourceStamp    func(fstamp.Stamp) fstamp.Stamp
	BinaryStamp    func(fstamp.Stamp) fstamp.Stamp
	ProductStamp   func(fstamp.Stamp) fstamp.Stamp
	JavacOption    func(string) string
	ScalacOption   func(string) string
}

// ReadMapper rewrites the portable form read from disk back to local paths
// and options. Symmetric in shape to WriteMapper; a caller that relocated an
// analysis supplies the inverse of whatever WriteMapper it originally wrote
// with.
type ReadMapper struct {
	SourceFile     func(fstamp.File) fstamp.File
	BinaryFile     func(fstamp.File) fstamp.File
	ProductFile    func(fstamp.File) fstamp.File
	SourceDir      func(string) string
	OutputDir      func(string) string
	ClasspathEntry func(string) string
	SourceStamp    func(fstamp.Stamp) fstamp.Stamp
	BinaryStamp    func(fstamp.Stamp) fstamp.Stamp
	ProductStamp   func(fstamp.Stamp) fstamp.Stamp
	JavacOption    func(string) string
	ScalacOption   func(string) string
}

func identityFile(f fstamp.File) fstamp.File    { return f }
func identityStamp(s fstamp.Stamp) fstamp.Stamp { return s }
func identityString(s string) string            { return s }

// IdentityWriteMapper returns a WriteMapper whose every field is a no-op,
// the default used when the caller doesn't need to relocate an analysis.
func IdentityWriteMapper() WriteMapper {
	return WriteMapper{
		SourceFile: identityFile, BinaryFile: identityFile, ProductFile: identityFile,
		SourceDir: identityString, OutputDir: identityString, ClasspathEntry: identityString,
		SourceStamp: identityStamp, BinaryStamp: identityStamp, ProductStamp: identityStamp,
		JavacOption: identityString, ScalacOption: identityString,
	}
}

// IdentityReadMapper returns a ReadMapper whose every field is a no-op.
func IdentityReadMapper() ReadMapper {
	return ReadMapper{
		SourceFile: identityFile, BinaryFile: identityFile, ProductFile: identityFile,
		SourceDir: identityString, OutputDir: identityString, ClasspathEntry: identityString,
		SourceStamp: identityStamp, BinaryStamp: identityStamp, ProductStamp: identityStamp,
		JavacOption: identityString, ScalacOption: identityString,
	}
}

// mapStamps rewrites one Stamps aggregate's keys and values through the
// given per-role file/stamp mapper functions.
func mapStamps(
	s fstamp.Stamps,
	mapSourceFile, mapBinaryFile, mapProductFile func(fstamp.File) fstamp.File,
	mapSourceStamp, mapBinaryStamp, mapProductStamp func(fstamp.Stamp) fstamp.Stamp,
) fstamp.Stamps {
	out := fstamp.NewStamps()

	for f, stamp := range s.Sources {
		out.Sources[mapSourceFile(f)] = mapSourceStamp(stamp)
	}

	for f, stamp := range s.Binaries {
		out.Binaries[mapBinaryFile(f)] = mapBinaryStamp(stamp)
	}

	for f, stamp := range s.Products {
		out.Products[mapProductFile(f)] = mapProductStamp(stamp)
	}

	return out
}

// mapOutput rewrites an api.Output's embedded directory paths.
func mapOutput(o api.Output, mapSourceDir, mapOutputDir func(string) string) api.Output {
	switch v := o.(type) {
	case api.SingleOutput:
		return api.SingleOutput{Dir: mapOutputDir(v.Dir)}
	case api.MultipleOutput:
		groups := make([]api.OutputGroup, len(v.Groups))
		for i, g := range v.Groups {
			groups[i] = api.OutputGroup{SourceDir: mapSourceDir(g.SourceDir), TargetDir: mapOutputDir(g.TargetDir)}
		}

		return api.MultipleOutput{Groups: groups}
	default:
		return o
	}
}

// mapMiniOptions rewrites a MiniOptions' classpath entries and compiler
// option strings.
func mapMiniOptions(m api.MiniOptions, mapClasspathEntry, mapJavac, mapScalac func(string) string) api.MiniOptions {
	out := api.MiniOptions{
		ScalacOptions: make([]string, len(m.ScalacOptions)),
		JavacOptions:  make([]string, len(m.JavacOptions)),
		ClasspathHash: make([]api.FileHash, len(m.ClasspathHash)),
	}

	for i, o := range m.ScalacOptions {
		out.ScalacOptions[i] = mapScalac(o)
	}

	for i, o := range m.JavacOptions {
		out.JavacOptions[i] = mapJavac(o)
	}

	for i, fh := range m.ClasspathHash {
		out.ClasspathHash[i] = api.FileHash{Path: mapClasspathEntry(fh.Path), Hash: fh.Hash}
	}

	return out
}

// mapSetup rewrites a MiniSetup's Output and Options.
func mapSetup(setup api.MiniSetup, mapSourceDir, mapOutputDir, mapClasspathEntry, mapJavac, mapScalac func(string) string) api.MiniSetup {
	setup.Output = mapOutput(setup.Output, mapSourceDir, mapOutputDir)
	setup.Options = mapMiniOptions(setup.Options, mapClasspathEntry, mapJavac, mapScalac)

	return setup
}
