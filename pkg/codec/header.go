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

// Package codec implements the schema-versioned binary format the driver
// persists an Analysis to between runs: a hand-rolled big-endian Header
// (magic identifier, major/minor version, JSON metadata) followed by a
// gob-encoded payload, grounded directly on the teacher's
// pkg/binfile/binfile.go BinaryFile/Header split.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/buildtools/incore/pkg/util/collection/typed"
)

// Header is the fixed-layout prefix of every analysis/apis file.
type Header struct {
	// Identifier is the 8-byte magic constant marking the file type.
	Identifier [8]byte
	// MajorVersion must match MajorVersion exactly for the file to be
	// considered compatible.
	MajorVersion uint16
	// MinorVersion must be <= MinorVersion for the file to be considered
	// compatible (older minor versions remain readable).
	MinorVersion uint16
	// MetaData is an optional JSON blob (compiler version, build host,
	// timestamp, ...) carried alongside the payload.
	MetaData []byte
}

// GetMetaData parses the metadata bytes as JSON into a typed.Map. An empty
// MetaData decodes to an empty map rather than an error.
func (h *Header) GetMetaData() (typed.Map, error) {
	if len(h.MetaData) == 0 {
		return typed.NewMap(nil), nil
	}

	return typed.FromJsonBytes(h.MetaData)
}

// SetMetaData JSON-encodes metadata into the header.
func (h *Header) SetMetaData(metadata typed.Map) error {
	bs, err := metadata.ToJsonBytes()
	if err != nil {
		return err
	}

	h.MetaData = bs

	return nil
}

// MarshalBinary encodes the Header with a hand-rolled big-endian layout,
// deliberately not gob, so the magic and version can be sniffed without a
// full decode.
func (h *Header) MarshalBinary() ([]byte, error) {
	var (
		buffer     bytes.Buffer
		majorBytes [2]byte
		minorBytes [2]byte
		metaLength [4]byte
	)

	binary.BigEndian.PutUint16(majorBytes[:], h.MajorVersion)
	binary.BigEndian.PutUint16(minorBytes[:], h.MinorVersion)
	binary.BigEndian.PutUint32(metaLength[:], uint32(len(h.MetaData)))

	buffer.Write(h.Identifier[:])
	buffer.Write(majorBytes[:])
	buffer.Write(minorBytes[:])
	buffer.Write(metaLength[:])
	buffer.Write(h.MetaData)

	return buffer.Bytes(), nil
}

// UnmarshalBinary decodes a Header from buffer, consuming exactly the bytes
// MarshalBinary would have written.
func (h *Header) UnmarshalBinary(buffer *bytes.Buffer) error {
	var (
		majorBytes      [2]byte
		minorBytes      [2]byte
		metaLengthBytes [4]byte
	)

	if n, err := buffer.Read(h.Identifier[:]); err != nil {
		return err
	} else if n != len(h.Identifier) {
		return errors.New("malformed header: truncated identifier")
	}

	if n, err := buffer.Read(majorBytes[:]); err != nil {
		return err
	} else if n != len(majorBytes) {
		return errors.New("malformed header: truncated major version")
	}

	if n, err := buffer.Read(minorBytes[:]); err != nil {
		return err
	} else if n != len(minorBytes) {
		return errors.New("malformed header: truncated minor version")
	}

	if n, err := buffer.Read(metaLengthBytes[:]); err != nil {
		return err
	} else if n != len(metaLengthBytes) {
		return errors.New("malformed header: truncated metadata length")
	}

	metaLength := binary.BigEndian.Uint32(metaLengthBytes[:])
	metaBytes := make([]byte, metaLength)

	if n, err := buffer.Read(metaBytes); err != nil {
		return err
	} else if uint32(n) != metaLength {
		return errors.New("malformed header: truncated metadata")
	}

	h.MajorVersion = binary.BigEndian.Uint16(majorBytes[:])
	h.MinorVersion = binary.BigEndian.Uint16(minorBytes[:])
	h.MetaData = metaBytes

	return nil
}

// IsCompatible reports whether a header with the given identifier can be
// decoded by this version of the codec: exact magic and major version match,
// minor version no greater than the current one.
func (h *Header) IsCompatible(wantIdentifier [8]byte, wantMajor, wantMinor uint16) bool {
	return h.Identifier == wantIdentifier &&
		h.MajorVersion == wantMajor &&
		h.MinorVersion <= wantMinor
}

// MajorVersion is the current major version of both the analysis and apis
// file formats. A bump here means the payload encoding changed in a way
// older readers cannot handle.
const MajorVersion uint16 = 1

// MinorVersion is the current minor version; files with a lower minor
// version remain readable, but files this package writes may not be
// readable by older readers.
const MinorVersion uint16 = 0

// AnalysisIdentifier marks an "analysis" stream (spec §4.6).
var AnalysisIdentifier = [8]byte{'i', 'n', 'c', 'o', 'r', 'e', 'a', 'z'}

// APIsIdentifier marks an "apis" stream, letting callers load everything but
// APIs cheaply by sniffing the header without touching the payload.
var APIsIdentifier = [8]byte{'i', 'n', 'c', 'o', 'r', 'e', 'a', 'p'}
