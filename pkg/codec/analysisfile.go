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
	"encoding/gob"
	"fmt"
	"io"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/ierrors"
)

// analysisPayload is the gob-encoded body of an AnalysisFile: everything in
// api.Analysis except the Relations, which are flattened to plain forward
// maps so gob never has to walk the Relation type's unexported fields.
type analysisPayload struct {
	Sources      map[fstamp.File]fstamp.Stamp
	Products     map[fstamp.File]fstamp.Stamp
	Binaries     map[fstamp.File]fstamp.Stamp
	SrcProd      map[fstamp.File][]fstamp.File
	LibraryDep   map[fstamp.File][]fstamp.File
	LibClassName map[fstamp.File][]string
	Classes      map[fstamp.File][]string
	ProdClsName  map[string][]string
	MemberInt    map[string][]string
	MemberExt    map[string][]string
	InheritInt   map[string][]string
	InheritExt   map[string][]string
	LocalInt     map[string][]string
	LocalExt     map[string][]string
	Names        map[string]map[string]relationUsedNameGob
	Internal     map[string]api.AnalyzedClass
	External     map[string]api.AnalyzedClass
	SourceInfos  map[fstamp.File]api.SourceInfo
	Compilations []api.Compilation
	Setup        api.MiniSetup
}

// relationUsedNameGob mirrors relation.UsedName with its scope set flattened
// to a slice, since gob cannot encode a map keyed by an unexported type's
// method set reliably across versions; using an explicit mirror keeps the
// wire format stable even if relation.UseScope's representation changes.
type relationUsedNameGob struct {
	Name   string
	Scopes []uint8
}

// WriteAnalysis encodes a into w as an AnalysisFile: the Header, then the
// gob-encoded payload, after applying mapper to the stamps, the file-keyed
// relations, the SourceInfos keys and the MiniSetup. The Compilations list
// and the positions inside recorded Problems are written unmapped.
func WriteAnalysis(w io.Writer, a api.Analysis, mapper WriteMapper, metadata []byte) error {
	header := Header{Identifier: AnalysisIdentifier, MajorVersion: MajorVersion, MinorVersion: MinorVersion, MetaData: metadata}

	headerBytes, err := header.MarshalBinary()
	if err != nil {
		return ierrors.CompileFailureError("failed encoding analysis header", err)
	}

	if _, err := w.Write(headerBytes); err != nil {
		return err
	}

	payload := toPayload(a, mapper)

	enc := gob.NewEncoder(w)
	if err := enc.Encode(&payload); err != nil {
		return ierrors.CompileFailureError("failed encoding analysis payload", err)
	}

	return nil
}

// ReadAnalysis decodes an AnalysisFile previously written by WriteAnalysis,
// applying mapper to restore local paths/options and interning class-name
// strings as they come off the wire.
func ReadAnalysis(data []byte, mapper ReadMapper) (api.Analysis, error) {
	buffer := bytes.NewBuffer(data)

	var header Header
	if err := header.UnmarshalBinary(buffer); err != nil {
		return api.Analysis{}, ierrors.DecodeError("malformed analysis header", err)
	}

	if !header.IsCompatible(AnalysisIdentifier, MajorVersion, MinorVersion) {
		return api.Analysis{}, ierrors.DecodeError(
			fmt.Sprintf("incompatible analysis file v%d.%d, expected v%d.%d",
				header.MajorVersion, header.MinorVersion, MajorVersion, MinorVersion), nil)
	}

	var payload analysisPayload

	dec := gob.NewDecoder(buffer)
	if err := dec.Decode(&payload); err != nil {
		return api.Analysis{}, ierrors.DecodeError("malformed analysis payload", err)
	}

	return fromPayload(payload, mapper)
}
