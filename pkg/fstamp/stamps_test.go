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
package fstamp

import (
	"testing"

	"github.com/buildtools/incore/pkg/util/assert"
)

func Test_Stamp_Equal_01(t *testing.T) {
	assert.True(t, Empty{}.Equal(Empty{}))
	assert.False(t, Empty{}.Equal(Hash{Bytes: [32]byte{1}}))
	assert.True(t, Hash{Bytes: [32]byte{1}}.Equal(Hash{Bytes: [32]byte{1}}))
	assert.False(t, Hash{Bytes: [32]byte{1}}.Equal(Hash{Bytes: [32]byte{2}}))
	assert.True(t, LastModified{Millis: 5}.Equal(LastModified{Millis: 5}))
	assert.False(t, LastModified{Millis: 5}.Equal(LastModified{Millis: 6}))
}

func Test_Modified_01(t *testing.T) {
	assert.False(t, Modified(Hash{Bytes: [32]byte{1}}, Hash{Bytes: [32]byte{1}}))
	assert.True(t, Modified(Hash{Bytes: [32]byte{1}}, Hash{Bytes: [32]byte{2}}))
	assert.True(t, Modified(nil, Hash{Bytes: [32]byte{1}}))
	assert.True(t, Modified(Hash{Bytes: [32]byte{1}}, nil))
	assert.False(t, Modified(nil, nil))
}

func Test_SortedSources_01(t *testing.T) {
	s := NewStamps()
	s.Sources[NewFile("b.scala")] = Hash{}
	s.Sources[NewFile("a.scala")] = Hash{}
	s.Sources[NewFile("c.scala")] = Hash{}

	sorted := s.SortedSources()
	assert.Equal(t, 3, len(sorted))
	assert.True(t, sorted[0].Less(sorted[1]))
	assert.True(t, sorted[1].Less(sorted[2]))
}

func Test_ModifiedSources_01(t *testing.T) {
	old := NewStamps()
	old.Sources[NewFile("a.scala")] = Hash{Bytes: [32]byte{1}}
	old.Sources[NewFile("b.scala")] = Hash{Bytes: [32]byte{2}}

	fresh := NewStamps()
	fresh.Sources[NewFile("a.scala")] = Hash{Bytes: [32]byte{1}}
	fresh.Sources[NewFile("b.scala")] = Hash{Bytes: [32]byte{9}}
	fresh.Sources[NewFile("c.scala")] = Hash{Bytes: [32]byte{3}}

	mod := ModifiedSources(old, fresh)
	assert.Equal(t, []File{NewFile("b.scala"), NewFile("c.scala")}, mod)
}

func Test_RemovedSources_01(t *testing.T) {
	old := NewStamps()
	old.Sources[NewFile("a.scala")] = Hash{Bytes: [32]byte{1}}
	old.Sources[NewFile("b.scala")] = Hash{Bytes: [32]byte{2}}

	fresh := NewStamps()
	fresh.Sources[NewFile("a.scala")] = Hash{Bytes: [32]byte{1}}

	removed := RemovedSources(old, fresh)
	assert.Equal(t, []File{NewFile("b.scala")}, removed)
}

func Test_File_01(t *testing.T) {
	f := NewFile("a.scala")
	assert.Equal(t, f.Path(), f.String())
	assert.True(t, NewFile("a.scala") == NewFile("a.scala"))

	data, err := f.GobEncode()
	assert.True(t, err == nil)

	var decoded File
	err = decoded.GobDecode(data)
	assert.True(t, err == nil)
	assert.Equal(t, f, decoded)
}
