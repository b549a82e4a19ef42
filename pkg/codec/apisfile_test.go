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
	"github.com/buildtools/incore/pkg/lazy"
	"github.com/buildtools/incore/pkg/util/assert"
)

func Test_APIsRoundTrip_01(t *testing.T) {
	classA := &api.ClassLike{
		Name:       "A",
		Access:     api.PublicAccess{},
		Definition: api.ClassDef,
		Structure:  api.NewStructure(nil, nil, nil),
	}
	companions := api.Companions{ClassAPI: classA}

	original := api.APIs{
		Internal: map[string]api.AnalyzedClass{
			"A": {Name: "A", API: lazy.Of(companions), APIHash: api.ComputeAPIHash(companions)},
		},
		External: map[string]api.AnalyzedClass{},
	}

	var buf bytes.Buffer
	err := WriteAPIs(&buf, original, nil)
	assert.True(t, err == nil)

	decoded, err := ReadAPIs(buf.Bytes())
	assert.True(t, err == nil)

	got, ok := decoded.Internal["A"]
	assert.True(t, ok)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, original.Internal["A"].APIHash, got.APIHash)
	assert.Equal(t, 0, len(decoded.External))
}

func Test_APIsRoundTrip_02(t *testing.T) {
	// A truncated buffer fails cleanly rather than panicking.
	_, err := ReadAPIs([]byte{1, 2, 3})
	assert.True(t, err != nil)
}
