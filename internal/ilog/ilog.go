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

// Package ilog centralises logrus setup so cmd/incore and every internal
// package log through the same configured instance.
package ilog

import (
	log "github.com/sirupsen/logrus"
)

// Configure sets the package-wide logrus level and formatter from CLI flags.
// Called from pkg/cmd's configureLogging at the start of each subcommand's
// Run.
func Configure(verbose bool, json bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Stage returns a logger pre-tagged with the driver state machine stage
// name, so callback/compile-step log lines can be grepped by stage without
// every call site repeating log.WithField("stage", ...).
func Stage(name string) *log.Entry {
	return log.WithField("stage", name)
}
