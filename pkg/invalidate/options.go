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

// Package invalidate implements the invalidation engine: the initial
// invalid-class computation (stage 1), the transitive closure across the
// member-reference, inheritance and local-inheritance relations (stage 3),
// and the fraction gate that escalates to a full rebuild.
package invalidate

import "github.com/buildtools/incore/pkg/api"

// Options controls the invalidation engine's behaviour, supplied by the
// caller and compared against the previous run's MiniSetup to decide whether
// a full rebuild is forced (see api.RequiresFullRebuild).
type Options struct {
	// RecompileAllFraction is the |I|/|totalClasses| threshold past which
	// the whole module is declared dirty.
	RecompileAllFraction float64
	// TransitiveStep caps the number of closure rounds (spec §6) before the
	// engine bails out to "recompile everything" rather than iterate
	// further; guards against pathological dependency graphs.
	TransitiveStep uint32
	// NameHashing enables member-reference scope pruning; when false, the
	// member-reference step of the closure adds dependents unconditionally.
	NameHashing bool
	// StoreAPIs controls whether APIs are dropped before persistence.
	StoreAPIs bool
	// CompileOrder is passed through to the compile driver.
	CompileOrder api.CompileOrder
	// Extra is opaque caller configuration passed through to consumers.
	Extra []api.KeyValue
}

// DefaultOptions returns the engine's documented defaults.
func DefaultOptions() Options {
	return Options{
		RecompileAllFraction: 0.5,
		TransitiveStep:       3,
		NameHashing:          true,
		StoreAPIs:            true,
		CompileOrder:         api.Mixed,
	}
}
