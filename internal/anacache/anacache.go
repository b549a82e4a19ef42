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

// Package anacache provides a process-wide cache of decoded Analysis values,
// keyed by the path they were read from, so repeated invocations against the
// same build directory (the "inspect" and "stats" subcommands, an LSP
// server's steady-state requests) don't re-decode the binary file on every
// call.
package anacache

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/buildtools/incore/pkg/api"
)

// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	entries sync.Map // string -> api.Analysis
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New constructs an empty Cache.
func New() *Cache {
	return &Cache{}
}

// Get returns the cached Analysis for path, if present.
func (c *Cache) Get(path string) (api.Analysis, bool) {
	v, ok := c.entries.Load(path)
	if !ok {
		c.misses.Inc()
		return api.Analysis{}, false
	}

	c.hits.Inc()

	return v.(api.Analysis), true
}

// Put records a, evicting any prior entry for the same path.
func (c *Cache) Put(path string, a api.Analysis) {
	c.entries.Store(path, a)
}

// Invalidate drops the cached entry for path, if any. The driver does not
// call it when it persists an Analysis.
func (c *Cache) Invalidate(path string) {
	c.entries.Delete(path)
}

// Flush drops every cached entry.
func (c *Cache) Flush() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}

// Stats reports cumulative hit/miss counts for diagnostics.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Stats returns a snapshot of the cache's cumulative hit/miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
