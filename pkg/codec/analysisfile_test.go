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
	"bytes"
	"testing"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/lazy"
	"github.com/buildtools/incore/pkg/relation"
	"github.com/buildtools/incore/pkg/util/assert"
)

func sampleAnalysis() api.Analysis {
	a := api.Empty()
	src := fstamp.NewFile("a.scala")
	product := fstamp.NewFile("A.class")

	a.Stamps.Sources[src] = fstamp.Hash{Bytes: [32]byte{1}}
	a.Stamps.Products[product] = fstamp.LastModified{Millis: 42}
	a.Relations.SrcProd.Add(src, product)
	a.Relations.Classes.Add(src, "A")
	a.Relations.ProductClassName.Add("A", "A")
	a.Relations.AddUsedName("A", "foo", relation.Default, relation.Implicit)

	classA := &api.ClassLike{
		Name:       "A",
		Access:     api.PublicAccess{},
		Definition: api.ClassDef,
		Structure:  api.NewStructure(nil, nil, nil),
	}
	companions := api.Companions{ClassAPI: classA}

	a.APIs.Internal["A"] = api.AnalyzedClass{
		Name:       "A",
		API:        lazy.Of(companions),
		APIHash:    api.ComputeAPIHash(companions),
		NameHashes: []api.NameHash{{Name: "foo", Scope: relation.Default, Hash: 7}},
	}

	a.SourceInfos[src] = api.SourceInfo{MainClasses: []string{"A"}}
	a.Compilations = []api.Compilation{{StartTimeMillis: 100, Output: api.SingleOutput{Dir: "out"}}}
	a.Setup = api.MiniSetup{
		Output:          api.SingleOutput{Dir: "out"},
		CompilerVersion: "2.13.12",
		CompileOrder:    api.Mixed,
		StoreAPIs:       true,
	}

	return a
}

func Test_AnalysisRoundTrip_01(t *testing.T) {
	original := sampleAnalysis()

	var buf bytes.Buffer
	err := WriteAnalysis(&buf, original, IdentityWriteMapper(), []byte(`{"host":"ci"}`))
	assert.True(t, err == nil)

	decoded, err := ReadAnalysis(buf.Bytes(), IdentityReadMapper())
	assert.True(t, err == nil)

	src := fstamp.NewFile("a.scala")
	assert.Equal(t, fstamp.Hash{Bytes: [32]byte{1}}, decoded.Stamps.Sources[src])
	assert.True(t, decoded.Relations.Classes.ContainsForward(src, "A"))
	assert.True(t, decoded.Relations.SrcProd.ContainsForward(src, fstamp.NewFile("A.class")))

	got, ok := decoded.APIs.Internal["A"]
	assert.True(t, ok)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, original.APIs.Internal["A"].APIHash, got.APIHash)
	assert.Equal(t, 1, len(got.NameHashes))

	names := decoded.Relations.UsedNames("A")
	assert.Equal(t, 1, len(names))
	assert.True(t, names[0].HasScope(relation.Default))
	assert.True(t, names[0].HasScope(relation.Implicit))

	assert.Equal(t, "out", decoded.Setup.Output.(api.SingleOutput).Dir)
	assert.Equal(t, "2.13.12", decoded.Setup.CompilerVersion)
	assert.Equal(t, 1, len(decoded.Compilations))
}

func Test_AnalysisRoundTrip_02(t *testing.T) {
	// A header with the wrong identifier is rejected before the payload is
	// ever touched.
	var buf bytes.Buffer
	err := WriteAPIs(&buf, api.APIs{Internal: map[string]api.AnalyzedClass{}, External: map[string]api.AnalyzedClass{}}, nil)
	assert.True(t, err == nil)

	_, err = ReadAnalysis(buf.Bytes(), IdentityReadMapper())
	assert.True(t, err != nil)
}
