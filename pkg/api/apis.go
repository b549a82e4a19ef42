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

import "sort"

// APIs partitions AnalyzedClasses into those compiled within this module
// (Internal) and those describing classes compiled elsewhere that this
// module depends upon (External).
type APIs struct {
	Internal map[string]AnalyzedClass
	External map[string]AnalyzedClass
}

// NewAPIs constructs an empty APIs value.
func NewAPIs() APIs {
	return APIs{
		Internal: make(map[string]AnalyzedClass),
		External: make(map[string]AnalyzedClass),
	}
}

// SortedInternalNames returns the Internal class names in lexicographic
// order, for deterministic iteration.
func (a APIs) SortedInternalNames() []string {
	return sortedNames(a.Internal)
}

// SortedExternalNames returns the External class names in lexicographic
// order.
func (a APIs) SortedExternalNames() []string {
	return sortedNames(a.External)
}

func sortedNames(m map[string]AnalyzedClass) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}
