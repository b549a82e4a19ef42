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
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/driver"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/relation"
)

// wireEvent is one line of the NDJSON protocol an external compiler speaks
// on stdout: one compact event per AnalysisCallback method, sources and
// class names given as plain strings. This is the engine's half of the
// compiler-bridge contract; the bridge binary is expected to translate its
// host language's native diagnostics into this shape.
type wireEvent struct {
	Event       string         `json:"event"`
	Source      string         `json:"source,omitempty"`
	OnClass     string         `json:"onClass,omitempty"`
	FromClass   string         `json:"fromClass,omitempty"`
	Context     string         `json:"context,omitempty"`
	Binary      string         `json:"binary,omitempty"`
	BinaryClass string         `json:"binaryClass,omitempty"`
	ClassFile   string         `json:"classFile,omitempty"`
	ClassName   string         `json:"className,omitempty"`
	Class       *wireClassLike `json:"class,omitempty"`
	Name        string         `json:"name,omitempty"`
	Scopes      []string       `json:"scopes,omitempty"`
	Problem     *wireProblem   `json:"problem,omitempty"`
}

type wireClassLike struct {
	Name       string   `json:"name"`
	Definition string   `json:"definition"`
	TopLevel   bool     `json:"topLevel"`
	IsModule   bool     `json:"isModule"`
	HasMacro   bool     `json:"hasMacro"`
	Parents    []string `json:"parents"`
	Declared   []string `json:"declared"`
}

type wireProblem struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Line     int32  `json:"line"`
	Reported bool   `json:"reported"`
}

// execCompileFunc builds a driver.CompileFunc that shells out to command,
// passing every source path as an argument and parsing its stdout as a
// stream of wireEvents into the given AnalysisCallback.
func execCompileFunc(command string, extraArgs []string) driver.CompileFunc {
	return func(ctx context.Context, sources []fstamp.File, recorder driver.AnalysisCallback) error {
		args := make([]string, 0, len(extraArgs)+len(sources))
		args = append(args, extraArgs...)

		for _, s := range sources {
			args = append(args, s.Path())
		}

		cmd := exec.CommandContext(ctx, command, args...)

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("opening compiler stdout: %w", err)
		}

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("starting compiler %q: %w", command, err)
		}

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var ev wireEvent
			if err := json.Unmarshal([]byte(line), &ev); err != nil {
				return fmt.Errorf("malformed compiler event %q: %w", line, err)
			}

			if err := dispatchEvent(ev, recorder); err != nil {
				return err
			}
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading compiler output: %w", err)
		}

		return cmd.Wait()
	}
}

func dispatchEvent(ev wireEvent, recorder driver.AnalysisCallback) error {
	switch ev.Event {
	case "start":
		recorder.StartSource(fstamp.NewFile(ev.Source))
	case "classdep":
		recorder.ClassDependency(ev.OnClass, ev.FromClass, parseContext(ev.Context))
	case "bindep":
		recorder.BinaryDependency(fstamp.NewFile(ev.Binary), ev.BinaryClass, ev.FromClass, parseContext(ev.Context))
	case "product":
		if ev.ClassName != "" {
			recorder.GeneratedNonLocalClass(fstamp.NewFile(ev.Source), fstamp.NewFile(ev.ClassFile), ev.ClassName)
		} else {
			recorder.GeneratedLocalClass(fstamp.NewFile(ev.Source), fstamp.NewFile(ev.ClassFile))
		}
	case "api":
		if ev.Class == nil {
			return fmt.Errorf("api event for %q missing class payload", ev.Source)
		}

		recorder.API(fstamp.NewFile(ev.Source), ev.Class.Name, buildClassLike(ev.Class), ev.Class.IsModule, ev.Class.HasMacro)
	case "usedname":
		scopes := make([]relation.UseScope, len(ev.Scopes))
		for i, s := range ev.Scopes {
			scopes[i] = parseScope(s)
		}

		recorder.UsedName(ev.ClassName, ev.Name, scopes...)
	case "problem":
		if ev.Problem == nil {
			return fmt.Errorf("problem event for %q missing problem payload", ev.Source)
		}

		recorder.Problem(fstamp.NewFile(ev.Source), buildProblem(ev.Problem), ev.Problem.Reported)
	default:
		return fmt.Errorf("unknown compiler event %q", ev.Event)
	}

	return nil
}

func buildClassLike(c *wireClassLike) *api.ClassLike {
	parents := make([]api.Type, len(c.Parents))
	for i, p := range c.Parents {
		parents[i] = api.ParameterizedType{Name: p}
	}

	declared := make([]api.Def, 0, len(c.Declared))

	for _, d := range c.Declared {
		name, sig, _ := strings.Cut(d, ":")
		declared = append(declared, api.Def{
			Name:      name,
			Access:    api.PublicAccess{},
			Signature: api.ParameterizedType{Name: sig},
		})
	}

	return &api.ClassLike{
		Name:       c.Name,
		Access:     api.PublicAccess{},
		Definition: parseDefinition(c.Definition),
		TopLevel:   c.TopLevel,
		Structure:  api.NewStructure(parents, declared, nil),
	}
}

func buildProblem(p *wireProblem) api.Problem {
	pos := api.NoPosition
	if p.Line > 0 {
		pos = api.Position{Line: p.Line, Offset: api.NoPosition.Offset}
	}

	return api.Problem{Position: pos, Message: p.Message, Severity: parseSeverity(p.Severity)}
}

func parseContext(s string) relation.DependencyContext {
	switch s {
	case "inheritance":
		return relation.Inheritance
	case "localinheritance":
		return relation.LocalInheritance
	default:
		return relation.MemberRef
	}
}

func parseScope(s string) relation.UseScope {
	switch s {
	case "implicit":
		return relation.Implicit
	case "patternmatch":
		return relation.PatternMatchTarget
	default:
		return relation.Default
	}
}

func parseSeverity(s string) api.Severity {
	switch s {
	case "error":
		return api.Error
	case "warn":
		return api.Warn
	default:
		return api.Info
	}
}

func parseDefinition(s string) api.DefinitionType {
	switch s {
	case "object":
		return api.ModuleDef
	case "trait":
		return api.TraitDef
	case "package-object":
		return api.PackageModuleDef
	default:
		return api.ClassDef
	}
}
