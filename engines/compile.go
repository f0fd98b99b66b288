// Copyright (c) 2026 The Ahorn Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package engines assembles the engine package's components into the five
// top-level engines spec §4.11 names: baseline, compositional (ahorn),
// cbmc-style, oa, and shadow. They differ only in wiring, per the spec -
// none of them add execution semantics the engine package doesn't already
// provide.
package engines

import (
	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/cfg/builder"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/passes"
)

// Compile runs the full front end over project (spec §4.1 Builder, §4.2
// Passes): it builds the raw per-procedure CFGs, then applies the
// basic-block, TAC, call-transform, and SSA passes to each in the order
// spec §4.2 lists them, and validates the resulting call graph before
// returning it.
func Compile(project ir.Project) (*cfg.Program, map[string]*passes.SSAInfo, error) {
	raw, err := builder.Build(project)
	if err != nil {
		return nil, nil, err
	}

	out := cfg.NewProgram(raw.Entry)
	ssaInfo := map[string]*passes.SSAInfo{}
	for _, c := range raw.CFGs() {
		staged, err := passes.BasicBlock(c)
		if err != nil {
			return nil, nil, err
		}
		staged, err = passes.TAC(staged)
		if err != nil {
			return nil, nil, err
		}
		staged, err = passes.CallTransform(staged)
		if err != nil {
			return nil, nil, err
		}
		final, info, err := passes.SSA(staged)
		if err != nil {
			return nil, nil, err
		}
		if err := out.Add(final); err != nil {
			return nil, nil, err
		}
		ssaInfo[final.Name] = info
	}

	if err := out.Validate(); err != nil {
		return nil, nil, err
	}
	return out, ssaInfo, nil
}

// programMap flattens program into the plain map engine.Executor and
// engine.Merger key their per-scope lookups by.
func programMap(program *cfg.Program) map[string]*cfg.CFG {
	m := make(map[string]*cfg.CFG, len(program.CFGs()))
	for _, c := range program.CFGs() {
		m[c.Name] = c
	}
	return m
}
