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
	"github.com/buildtools/incore/pkg/ierrors"
)

// apisPayload is the gob body of an "apis" stream: just the class name ->
// AnalyzedClass maps, letting a caller load everything-but-the-rest of an
// Analysis cheaply (spec §4.6).
type apisPayload struct {
	Internal map[string]api.AnalyzedClass
	External map[string]api.AnalyzedClass
}

// WriteAPIs encodes apis into w as an APIsFile.
func WriteAPIs(w io.Writer, apis api.APIs, metadata []byte) error {
	header := Header{Identifier: APIsIdentifier, MajorVersion: MajorVersion, MinorVersion: MinorVersion, MetaData: metadata}

	headerBytes, err := header.MarshalBinary()
	if err != nil {
		return ierrors.CompileFailureError("failed encoding apis header", err)
	}

	if _, err := w.Write(headerBytes); err != nil {
		return err
	}

	enc := gob.NewEncoder(w)
	if err := enc.Encode(&apisPayload{Internal: apis.Internal, External: apis.External}); err != nil {
		return ierrors.CompileFailureError("failed encoding apis payload", err)
	}

	return nil
}

// ReadAPIs decodes an APIsFile previously written by WriteAPIs, interning
// class-name strings as they come off the wire.
func ReadAPIs(data []byte) (api.APIs, error) {
	buffer := bytes.NewBuffer(data)

	var header Header
	if err := header.UnmarshalBinary(buffer); err != nil {
		return api.APIs{}, ierrors.DecodeError("malformed apis header", err)
	}

	if !header.IsCompatible(APIsIdentifier, MajorVersion, MinorVersion) {
		return api.APIs{}, ierrors.DecodeError(
			fmt.Sprintf("incompatible apis file v%d.%d, expected v%d.%d",
				header.MajorVersion, header.MinorVersion, MajorVersion, MinorVersion), nil)
	}

	var payload apisPayload

	dec := gob.NewDecoder(buffer)
	if err := dec.Decode(&payload); err != nil {
		return api.APIs{}, ierrors.DecodeError("malformed apis payload", err)
	}

	apis := api.APIs{Internal: payload.Internal, External: payload.External}
	internAPIs(newInterner(), &apis)

	return apis, nil
}
