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
package driver

import (
	"context"
	"testing"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/invalidate"
	"github.com/buildtools/incore/pkg/lazy"
	"github.com/buildtools/incore/pkg/util/assert"
)

func classA() *api.ClassLike {
	return &api.ClassLike{
		Name:       "A",
		Access:     api.PublicAccess{},
		Definition: api.ClassDef,
		Structure:  api.NewStructure(nil, nil, nil),
	}
}

// compileA is a fake CompileFunc that reports a single class "A", with no
// dependencies, for every source it's handed.
func compileA(_ context.Context, sources []fstamp.File, rec AnalysisCallback) error {
	for _, src := range sources {
		rec.StartSource(src)
		rec.API(src, "A", classA(), false, false)
		rec.GeneratedNonLocalClass(src, fstamp.NewFile("A.class"), "A")
	}

	return nil
}

func Test_Driver_Run_01(t *testing.T) {
	srcA := fstamp.NewFile("a.scala")

	companions := api.Companions{ClassAPI: classA()}

	prev := api.Empty()
	prev.Stamps.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{1}}
	prev.Relations.Classes.Add(srcA, "A")
	prev.APIs.Internal["A"] = api.AnalyzedClass{
		Name:    "A",
		API:     lazy.Of(companions),
		APIHash: api.ComputeAPIHash(companions),
	}

	current := fstamp.NewStamps()
	current.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{2}}

	d := &Driver{Compile: compileA, Options: invalidate.DefaultOptions()}

	result, err := d.Run(context.Background(), prev, current, api.MiniSetup{})

	assert.True(t, err == nil)
	assert.True(t, result.Relations.Classes.ContainsForward(srcA, "A"))
	_, ok := result.APIs.Internal["A"]
	assert.True(t, ok)
	assert.Equal(t, 1, len(result.Compilations))
}

func Test_Driver_Run_02(t *testing.T) {
	// Nothing changed: Run should short-circuit before ever invoking Compile.
	srcA := fstamp.NewFile("a.scala")

	companions := api.Companions{ClassAPI: classA()}

	prev := api.Empty()
	prev.Stamps.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{1}}
	prev.Relations.Classes.Add(srcA, "A")
	prev.APIs.Internal["A"] = api.AnalyzedClass{
		Name:    "A",
		API:     lazy.Of(companions),
		APIHash: api.ComputeAPIHash(companions),
	}

	current := fstamp.NewStamps()
	current.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{1}}

	called := false
	noCompile := func(_ context.Context, sources []fstamp.File, rec AnalysisCallback) error {
		called = true
		return nil
	}

	d := &Driver{Compile: noCompile, Options: invalidate.DefaultOptions()}

	result, err := d.Run(context.Background(), prev, current, api.MiniSetup{})

	assert.True(t, err == nil)
	assert.False(t, called)
	assert.True(t, result.Relations.Classes.ContainsForward(srcA, "A"))
}

func Test_Driver_Run_03(t *testing.T) {
	// A Compile failure surfaces as a CompileFailureError, not a panic or a
	// silently empty Analysis.
	srcA := fstamp.NewFile("a.scala")

	companions := api.Companions{ClassAPI: classA()}

	prev := api.Empty()
	prev.Stamps.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{1}}
	prev.Relations.Classes.Add(srcA, "A")
	prev.APIs.Internal["A"] = api.AnalyzedClass{
		Name:    "A",
		API:     lazy.Of(companions),
		APIHash: api.ComputeAPIHash(companions),
	}

	current := fstamp.NewStamps()
	current.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{2}}

	failing := func(_ context.Context, sources []fstamp.File, rec AnalysisCallback) error {
		return errFake
	}

	d := &Driver{Compile: failing, Options: invalidate.DefaultOptions()}

	_, err := d.Run(context.Background(), prev, current, api.MiniSetup{})
	assert.True(t, err != nil)
}

func Test_Driver_Run_04(t *testing.T) {
	// A MiniSetup change (e.g. compiler version bump) forces a full rebuild
	// even when no source stamp actually changed.
	srcA := fstamp.NewFile("a.scala")

	companions := api.Companions{ClassAPI: classA()}

	prev := api.Empty()
	prev.Setup = api.MiniSetup{CompilerVersion: "2.13.0"}
	prev.Stamps.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{1}}
	prev.Relations.Classes.Add(srcA, "A")
	prev.APIs.Internal["A"] = api.AnalyzedClass{
		Name:    "A",
		API:     lazy.Of(companions),
		APIHash: api.ComputeAPIHash(companions),
	}

	current := fstamp.NewStamps()
	current.Sources[srcA] = fstamp.Hash{Bytes: [32]byte{1}}

	called := false
	countingCompileA := func(ctx context.Context, sources []fstamp.File, rec AnalysisCallback) error {
		called = true
		return compileA(ctx, sources, rec)
	}

	d := &Driver{Compile: countingCompileA, Options: invalidate.DefaultOptions()}

	newSetup := api.MiniSetup{CompilerVersion: "2.13.1"}
	result, err := d.Run(context.Background(), prev, current, newSetup)

	assert.True(t, err == nil)
	assert.True(t, called)
	assert.Equal(t, "2.13.1", result.Setup.CompilerVersion)
}

var errFake = fakeErr("compiler exploded")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
