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

package passes

import (
	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/ir"
)

// CallTransform rewrites c so every call's actual-to-formal argument
// copying is hoisted to plain assignments immediately before the call
// vertex, and every formal-to-actual result copying to plain assignments
// immediately at its intraprocedural_call_to_return target (spec §4.2).
// After this pass a call vertex's Instr carries only a callee name; the
// Args/Results bindings have been expanded away. As with TAC, a call
// vertex's own label is never moved, since the callee's already-built
// InterproceduralReturn edge references it by value as CallLabel.
func CallTransform(c *cfg.CFG) (*cfg.CFG, error) {
	out, err := cloneShell(c)
	if err != nil {
		return nil, err
	}

	maxLabel := cfg.Label(-1)
	for _, v := range c.Vertices() {
		if v.Label > maxLabel {
			maxLabel = v.Label
		}
	}
	nextLabel := maxLabel + 1
	fresh := func() cfg.Label {
		l := nextLabel
		nextLabel++
		return l
	}

	// resultCopiesAt[l] holds the formal-to-actual assignments that must run
	// the moment control lands on label l, because l is some call's
	// intraprocedural_call_to_return target.
	resultCopiesAt := map[cfg.Label][]cfg.Instr{}
	for _, v := range c.Vertices() {
		if v.Kind != cfg.RegularVertex || v.Instr.Kind != cfg.CallInstrKind || len(v.Instr.Results) == 0 {
			continue
		}
		var ctrTarget cfg.Label = -1
		for _, e := range c.Out(v.Label) {
			if e.Kind == cfg.IntraproceduralCallToReturn {
				ctrTarget = e.To
				break
			}
		}
		if ctrTarget == -1 {
			continue
		}
		for _, r := range v.Instr.Results {
			resultCopiesAt[ctrTarget] = append(resultCopiesAt[ctrTarget], cfg.Assignment(r.Actual, ir.Var(r.Formal)))
		}
	}

	chainHead := map[cfg.Label]cfg.Label{}

	for _, v := range c.Vertices() {
		// A call's result copies may land on an entry/exit vertex when the
		// call is the first/last statement of the procedure body, so this
		// prefix-splice applies uniformly regardless of vertex kind.
		var prefix []cfg.Instr
		prefix = append(prefix, resultCopiesAt[v.Label]...)

		final := v.Instr
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.CallInstrKind {
			for _, a := range v.Instr.Args {
				prefix = append(prefix, cfg.Assignment(a.Formal, a.Actual))
			}
			final = cfg.Call(v.Instr.Callee)
		}

		prev := cfg.Label(-1)
		head := v.Label
		for i, instr := range prefix {
			l := fresh()
			if i == 0 {
				head = l
			}
			if err := out.AddVertex(cfg.Vertex{Label: l, Kind: cfg.RegularVertex, Instr: instr}); err != nil {
				return nil, err
			}
			if prev != -1 {
				out.AddEdge(cfg.Edge{From: prev, To: l, Kind: cfg.Intraprocedural})
			}
			prev = l
		}
		if v.Kind == cfg.RegularVertex {
			if err := out.AddVertex(cfg.Vertex{Label: v.Label, Kind: cfg.RegularVertex, Instr: final}); err != nil {
				return nil, err
			}
		} else {
			if err := out.AddVertex(cfg.Vertex{Label: v.Label, Kind: v.Kind}); err != nil {
				return nil, err
			}
		}
		if prev != -1 {
			out.AddEdge(cfg.Edge{From: prev, To: v.Label, Kind: cfg.Intraprocedural})
			chainHead[v.Label] = head
		} else {
			chainHead[v.Label] = v.Label
		}
	}

	for _, e := range c.Edges() {
		e2 := e
		if head, ok := chainHead[e.To]; ok {
			e2.To = head
		}
		out.AddEdge(e2)
	}

	return out, out.Validate()
}
