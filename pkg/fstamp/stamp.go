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
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// Stamp is a tagged union over the three ways a file can be fingerprinted.
// Equality is structural: two Stamps are equal iff they carry the same tag
// and the same payload.  A zero Stamp (nil Stamp) is never produced by this
// package; callers that need "no stamp yet" should use Empty{}.
type Stamp interface {
	// isStamp is unexported so Stamp remains a closed sum type within this
	// package; implementers outside fstamp cannot satisfy it.
	isStamp()
	// Equal reports structural equality against another Stamp.
	Equal(other Stamp) bool
	// String renders the stamp for logging/debugging.
	String() string
}

// Empty indicates a file that does not exist (or has vanished since the
// previous compile).
type Empty struct{}

func (Empty) isStamp() {}

// Equal implements Stamp.
func (Empty) Equal(other Stamp) bool {
	_, ok := other.(Empty)
	return ok
}

// String implements Stamp.
func (Empty) String() string { return "<empty>" }

// Hash is a content-addressed stamp: the SHA-256 digest of the file's bytes.
// Used for source files, where we want to detect any textual change
// regardless of mtime granularity or touch-without-edit.
type Hash struct {
	Bytes [sha256.Size]byte
}

func (Hash) isStamp() {}

// Equal implements Stamp.
func (h Hash) Equal(other Stamp) bool {
	oh, ok := other.(Hash)
	return ok && h.Bytes == oh.Bytes
}

// String implements Stamp.
func (h Hash) String() string {
	return fmt.Sprintf("hash:%x", h.Bytes[:8])
}

// LastModified is a cheap stamp based on the file's modification time, in
// milliseconds since the epoch.  Used for products, where recomputing a
// content hash on every compile would be wasteful and the build tool already
// controls the write path.
type LastModified struct {
	Millis int64
}

func (LastModified) isStamp() {}

// Equal implements Stamp.
func (m LastModified) Equal(other Stamp) bool {
	om, ok := other.(LastModified)
	return ok && m.Millis == om.Millis
}

// String implements Stamp.
func (m LastModified) String() string {
	return fmt.Sprintf("lastModified:%d", m.Millis)
}

// Modified reports whether old and new differ structurally.  This is the
// sole comparison the invalidation engine performs on stamps; it never
// inspects a Stamp's payload directly.
func Modified(oldStamp, newStamp Stamp) bool {
	if oldStamp == nil || newStamp == nil {
		return oldStamp == nil != (newStamp == nil)
	}

	return !oldStamp.Equal(newStamp)
}

// Stamper computes a Stamp for a File, reading the underlying filesystem (or
// whatever virtual filesystem the caller wires in for testing).  Stamping a
// file that does not exist returns Empty{}, not an error.
type Stamper func(File) (Stamp, error)

// HashStamper is the default Stamper used for sources: it reads the file and
// returns its SHA-256 digest, or Empty{} if the file does not exist.
func HashStamper(f File) (Stamp, error) {
	file, err := os.Open(f.Path())
	if os.IsNotExist(err) {
		return Empty{}, nil
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return nil, err
	}

	var digest [sha256.Size]byte

	copy(digest[:], h.Sum(nil))

	return Hash{digest}, nil
}

// LastModifiedStamper is the default Stamper used for products: it reports
// the file's modification time, or Empty{} if the file does not exist.
func LastModifiedStamper(f File) (Stamp, error) {
	info, err := os.Stat(f.Path())
	if os.IsNotExist(err) {
		return Empty{}, nil
	} else if err != nil {
		return nil, err
	}

	return LastModified{info.ModTime().UnixMilli()}, nil
}

// BinaryStamper is the default Stamper used for classpath entries (jars or
// class directories): it content-hashes the entry the same way a source is
// hashed.  Only file entries (jars) are hashed: a class directory cannot be
// read as a single file, so BinaryStamper returns an error for it.
func BinaryStamper(f File) (Stamp, error) {
	data, err := os.ReadFile(f.Path())
	if os.IsNotExist(err) {
		return Empty{}, nil
	} else if err != nil {
		return nil, err
	}

	return Hash{sha256.Sum256(data)}, nil
}

func init() {
	gob.Register(Empty{})
	gob.Register(Hash{})
	gob.Register(LastModified{})
}
