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

// Package lspstatus is an optional notification surface: after each driver
// round, an editor attached over LSP can be told which sources were just
// invalidated and what problems the compiler reported for them, rendered as
// ordinary textDocument/publishDiagnostics notifications rather than a
// bespoke protocol.
package lspstatus

import (
	"context"
	"sort"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
)

// Notifier pushes diagnostics over an already-established LSP connection.
// It holds no state of its own; every call is a single outbound
// notification.
type Notifier struct {
	conn jsonrpc2.Conn
}

// NewNotifier wraps an established JSON-RPC connection to an editor.
func NewNotifier(conn jsonrpc2.Conn) *Notifier {
	return &Notifier{conn: conn}
}

// PublishSourceInfos sends one publishDiagnostics notification per source in
// infos, translating each reported api.Problem into an LSP Diagnostic;
// unreported problems are not sent.  A source with no reported problems
// still gets an empty-Diagnostics
// notification, which is how LSP clears stale diagnostics for a file that
// just became clean.
func (n *Notifier) PublishSourceInfos(ctx context.Context, infos map[fstamp.File]api.SourceInfo) error {
	files := make([]fstamp.File, 0, len(infos))
	for f := range infos {
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Less(files[j]) })

	for _, f := range files {
		info := infos[f]

		diagnostics := make([]protocol.Diagnostic, 0, len(info.ReportedProblems))
		for _, p := range info.ReportedProblems {
			diagnostics = append(diagnostics, problemToDiagnostic(p))
		}

		params := &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(uri.File(f.Path())),
			Diagnostics: diagnostics,
		}

		if err := n.conn.Notify(ctx, "textDocument/publishDiagnostics", params); err != nil {
			return err
		}
	}

	return nil
}

// PublishInvalidated sends a single window/logMessage notification
// summarising which sources the engine just decided to recompile, letting an
// editor surface incremental-compile progress without waiting for the full
// round to finish.
func (n *Notifier) PublishInvalidated(ctx context.Context, sources []fstamp.File) error {
	names := make([]string, len(sources))
	for i, f := range sources {
		names[i] = f.Path()
	}

	params := &protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: "invalidated " + joinLines(names),
	}

	return n.conn.Notify(ctx, "window/logMessage", params)
}

func problemToDiagnostic(p api.Problem) protocol.Diagnostic {
	line := uint32(0)
	if p.Position.Line > 0 {
		line = uint32(p.Position.Line - 1)
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: 0},
			End:   protocol.Position{Line: line, Character: 0},
		},
		Severity: severityToLSP(p.Severity),
		Message:  p.Message,
		Source:   "incore",
	}
}

func severityToLSP(s api.Severity) protocol.DiagnosticSeverity {
	switch s {
	case api.Error:
		return protocol.DiagnosticSeverityError
	case api.Warn:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func joinLines(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}

		out += n
	}

	return out
}
