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
package api

import (
	"hash/fnv"
	"sort"

	"github.com/buildtools/incore/pkg/relation"
)

// ComputeNameHashes enumerates, for every simple name defined at the surface
// of c (its declared members) or referenced by it (usedNames, gathered from
// the compiler callback's usedName events), one NameHash per UseScope in
// which that name occurs.  A member's signature contributes to its hash so
// that a body-only change (which never touches a Def's Signature) leaves the
// corresponding NameHash untouched.
func ComputeNameHashes(c Companions, usedNames []relation.UsedName) []NameHash {
	surface := make(map[string]int32)

	collectSurface(c.ClassAPI, surface)
	collectSurface(c.ModuleAPI, surface)

	var out []NameHash

	seen := make(map[string]struct{}, len(surface))

	for name, sig := range surface {
		out = append(out, NameHash{Name: name, Scope: relation.Default, Hash: sig})
		seen[name+"|"+relation.Default.String()] = struct{}{}
	}

	for _, used := range usedNames {
		sigHash := nameHash(used.Name)

		for scope := range used.Scopes {
			key := used.Name + "|" + scope.String()
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			out = append(out, NameHash{Name: used.Name, Scope: scope, Hash: sigHash})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].Scope < out[j].Scope
	})

	return out
}

func collectSurface(c *ClassLike, surface map[string]int32) {
	if c == nil || c.Structure == nil {
		return
	}

	for _, d := range c.Structure.Declared.Force() {
		surface[d.Name] = nameHash(describeDef(d))
	}
}

func nameHash(s string) int32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))

	return int32(h.Sum32())
}
