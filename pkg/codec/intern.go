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

import "github.com/buildtools/incore/pkg/api"

// interner collapses duplicate string values read off the wire into a single
// shared backing string, applied once per decoded top-level object rather
// than globally, so memory from an old decode can still be reclaimed.
//
// Only strings reachable without forcing a Structure thunk are interned
// (class names, declared-name hashes): most stored APIs are never fully
// walked in a given run, and interning must not be the thing that forces
// them.
type interner struct {
	seen map[string]string
}

func newInterner() *interner {
	return &interner{seen: make(map[string]string)}
}

func (in *interner) intern(s string) string {
	if existing, ok := in.seen[s]; ok {
		return existing
	}

	in.seen[s] = s

	return s
}

// internAPIs rewrites every class name reachable from a decoded APIs value
// through the interner, in place.
func internAPIs(in *interner, apis *api.APIs) {
	in.internMap(apis.Internal)
	in.internMap(apis.External)
}

func (in *interner) internMap(m map[string]api.AnalyzedClass) {
	for name, class := range m {
		class.Name = in.intern(class.Name)

		for i, h := range class.NameHashes {
			class.NameHashes[i].Name = in.intern(h.Name)
		}

		m[name] = class
	}
}
