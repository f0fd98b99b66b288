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

// Package passes implements the CFG-to-CFG rewrite passes of spec §4.2:
// basic-block grouping, three-address code, call-transformation, and SSA
// construction. Every pass consumes a CFG and produces a new one by cloning
// vertices, rewriting instructions, and re-linking edges; the original is
// left untouched, mirroring the teacher's own pass discipline in
// assertion/function/preprocess, which never mutates the AST it walks and
// instead builds a fresh block graph.
package passes

import "github.com/ahorn-lang/ahorn/cfg"

// eligibleForCoalescing reports whether v can participate in basic-block
// grouping: a regular, non-branching, non-call vertex.
func eligibleForCoalescing(v *cfg.Vertex) bool {
	if v.Kind != cfg.RegularVertex {
		return false
	}
	switch v.Instr.Kind {
	case cfg.AssignmentInstrKind, cfg.HavocInstrKind:
		return true
	default:
		return false
	}
}

// BasicBlock coalesces maximal sequences of vertices with exactly one
// predecessor and one successor (and no call/if/while) into a single
// regular vertex whose instruction is a sequence (spec §4.2).
func BasicBlock(c *cfg.CFG) (*cfg.CFG, error) {
	out, err := cloneShell(c)
	if err != nil {
		return nil, err
	}

	type chain struct{ labels []cfg.Label }
	visited := map[cfg.Label]bool{}
	var chains []chain

	for _, v := range c.Vertices() {
		if visited[v.Label] || !eligibleForCoalescing(v) {
			continue
		}
		if !isChainStart(c, v.Label) {
			continue
		}
		var labels []cfg.Label
		cur := v.Label
		for {
			labels = append(labels, cur)
			visited[cur] = true
			out := c.Out(cur)
			if len(out) != 1 || out[0].Kind != cfg.Intraprocedural {
				break
			}
			next := out[0].To
			nv, ok := c.Vertex(next)
			if !ok || !eligibleForCoalescing(nv) {
				break
			}
			if len(c.IntraproceduralIn(next)) != 1 {
				break
			}
			cur = next
		}
		chains = append(chains, chain{labels: labels})
	}

	absorbedInterior := map[cfg.Label]bool{}
	chainOf := map[cfg.Label][]cfg.Label{} // start label -> full chain
	chainEndOut := map[cfg.Label][]cfg.Edge{}
	for _, ch := range chains {
		start := ch.labels[0]
		last := ch.labels[len(ch.labels)-1]
		chainOf[start] = ch.labels
		chainEndOut[start] = c.Out(last)
		for i, l := range ch.labels {
			if i > 0 {
				absorbedInterior[l] = true
			}
		}
	}

	for _, v := range c.Vertices() {
		if absorbedInterior[v.Label] {
			continue
		}
		if labels, isStart := chainOf[v.Label]; isStart {
			instr := v.Instr
			if len(labels) > 1 {
				instrs := make([]cfg.Instr, len(labels))
				for i, l := range labels {
					lv, _ := c.Vertex(l)
					instrs[i] = lv.Instr
				}
				instr = cfg.Seq(instrs...)
			}
			if err := out.AddVertex(cfg.Vertex{Label: v.Label, Kind: cfg.RegularVertex, Instr: instr}); err != nil {
				return nil, err
			}
			continue
		}
		if err := out.AddVertex(cfg.Vertex{Label: v.Label, Kind: v.Kind, Instr: v.Instr}); err != nil {
			return nil, err
		}
	}

	for start, edges := range chainEndOut {
		for _, e := range edges {
			e.From = start
			out.AddEdge(e)
		}
	}
	for _, e := range c.Edges() {
		if absorbedInterior[e.From] {
			continue
		}
		if _, isStart := chainEndOut[e.From]; isStart {
			continue // already emitted via chainEndOut, remapped from the chain's last element
		}
		out.AddEdge(e)
	}

	return out, out.Validate()
}

// isChainStart reports whether l begins a (possibly single-element) chain:
// it has no unique eligible predecessor that would itself extend into l.
func isChainStart(c *cfg.CFG, l cfg.Label) bool {
	preds := c.IntraproceduralIn(l)
	if len(preds) != 1 {
		return true
	}
	p := preds[0]
	pv, ok := c.Vertex(p.From)
	if !ok || !eligibleForCoalescing(pv) {
		return true
	}
	return len(c.Out(p.From)) != 1
}

// cloneShell copies c's metadata (kind, name, interface, callees) into a
// fresh empty CFG, ready to receive rewritten vertices/edges.
func cloneShell(c *cfg.CFG) (*cfg.CFG, error) {
	out, err := cfg.New(c.Kind, c.Name, c.Interface)
	if err != nil {
		return nil, err
	}
	out.Callees = append(out.Callees, c.Callees...)
	return out, nil
}
