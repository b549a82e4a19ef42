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

// Package fstamp provides the fingerprinting primitives (File, Stamp, Stamps)
// used to detect which sources, products and classpath entries have changed
// between two compiles.
package fstamp

import "path/filepath"

// File is an opaque path token.  Two Files are equal iff their canonicalised
// absolute paths are equal; nothing inside the engine ever dereferences the
// underlying path except through a Stamper.
type File struct {
	abs string
}

// NewFile canonicalises the given path (cleaning it and making it absolute
// relative to the process working directory) and wraps it as a File.  A
// malformed path collapses to a File holding the original, uncleaned string
// rather than failing, since a File is just a token: any I/O failure surfaces
// later when a Stamper actually touches the filesystem.
func NewFile(path string) File {
	if abs, err := filepath.Abs(path); err == nil {
		return File{filepath.Clean(abs)}
	}

	return File{path}
}

// Path returns the canonicalised absolute path underlying this File.
func (f File) Path() string {
	return f.abs
}

// String implements fmt.Stringer.
func (f File) String() string {
	return f.abs
}

// Less orders Files lexicographically by path, used to obtain deterministic
// iteration order when a set of Files is serialised.
func (f File) Less(other File) bool {
	return f.abs < other.abs
}

// GobEncode exposes the otherwise-unexported path so File can be used as a
// gob map key/value without promoting abs to an exported field.
func (f File) GobEncode() ([]byte, error) {
	return []byte(f.abs), nil
}

// GobDecode is the inverse of GobEncode.
func (f *File) GobDecode(data []byte) error {
	f.abs = string(data)
	return nil
}
