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

// Package cfg implements Ahorn's interprocedural control flow graph (spec
// §3 Data model, §4.1 Builder). A CFG is built once per procedure and is
// immutable during analysis; passes (package passes) produce new CFGs by
// cloning vertices, rewriting instructions, and re-linking edges.
//
// Grounded on the teacher's cyclic-ownership guidance (spec §9): the call
// graph between CFGs is modeled as an arena of named CFGs (see Program),
// never as back-pointers, mirroring how the teacher resolves cross-package
// facts by name via `analysis.Pass.ImportObjectFact` rather than holding a
// live pointer into another package's state.
package cfg

import (
	"fmt"

	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/ir"
)

// Label identifies a vertex within one CFG. Labels are unique within a CFG
// but not across CFGs (spec §3 invariant (iv)); the super-graph
// disambiguates by pairing a Label with a scope name.
type Label int

// VertexKind is the closed set of vertex roles.
type VertexKind uint8

const (
	EntryVertex VertexKind = iota
	RegularVertex
	ExitVertex
)

// Vertex is one node of a CFG. Entry and exit vertices carry no
// instruction; every regular vertex carries exactly one (spec §3
// invariant).
type Vertex struct {
	Label Label
	Kind  VertexKind
	Instr Instr
}

// EdgeKind is the closed set of edge types spec §3 names.
type EdgeKind uint8

const (
	Intraprocedural EdgeKind = iota
	IntraproceduralCallToReturn
	InterproceduralCall
	InterproceduralReturn
	TrueBranch
	FalseBranch
)

// Edge is one control-flow edge. InterproceduralReturn edges additionally
// name the caller scope and the originating call label (spec §3) so that
// returns are realizable-path-exact: a return can only be taken back to the
// call site it paired with, never to an unrelated call site in the same
// caller that happens to target the same callee.
type Edge struct {
	From, To Label
	Kind     EdgeKind
	// ToScope names the CFG the target label is resolved in. It is empty
	// for purely intraprocedural edges (From/To both in this CFG); for
	// InterproceduralCall it is the callee's name and the Builder leaves To
	// at -1 - the executor resolves the callee CFG by name and enters it at
	// that CFG's own entry label, never through this numeric field;
	// for InterproceduralReturn it is the caller's name and To is the
	// caller-scope label the intraprocedural_call_to_return edge targets.
	ToScope string
	// CallerScope and CallLabel are set only on InterproceduralReturn
	// edges: the caller scope name (duplicates ToScope, kept for spec §3
	// naming fidelity) and the originating call vertex's label in that
	// caller scope, so returns are realizable-path-exact (spec §3
	// invariant (iii)).
	CallerScope string
	CallLabel   Label
}

// CFG is one procedure's control flow graph.
type CFG struct {
	Kind      ir.ProcKind
	Name      string
	Interface ir.Interface
	Flattened []ir.FlattenedDecl
	// Callees names the other CFGs this one may call, by name; resolved by
	// lookup through a Program rather than held as a live pointer (spec §9).
	Callees []string

	vertices map[Label]*Vertex
	order    []Label // insertion order, for deterministic iteration
	edges    []Edge
	entry    Label
	exit     Label
}

// New constructs an empty CFG shell (entry/exit added via AddVertex).
func New(kind ir.ProcKind, name string, iface ir.Interface) (*CFG, error) {
	flat, err := ir.Flatten(iface)
	if err != nil {
		return nil, err
	}
	return &CFG{
		Kind:      kind,
		Name:      name,
		Interface: iface,
		Flattened: flat,
		vertices:  map[Label]*Vertex{},
		entry:     -1,
		exit:      -1,
	}, nil
}

// AddVertex adds v to the CFG. Adding a second EntryVertex or ExitVertex is
// an ir_malformed error (spec §3: "exactly one entry and one exit vertex
// exist per CFG").
func (c *CFG) AddVertex(v Vertex) error {
	if _, exists := c.vertices[v.Label]; exists {
		return errs.New(errs.IRMalformed, "duplicate label %d in CFG %q", v.Label, c.Name)
	}
	switch v.Kind {
	case EntryVertex:
		if c.entry != -1 {
			return errs.New(errs.IRMalformed, "CFG %q already has an entry vertex", c.Name)
		}
		c.entry = v.Label
	case ExitVertex:
		if c.exit != -1 {
			return errs.New(errs.IRMalformed, "CFG %q already has an exit vertex", c.Name)
		}
		c.exit = v.Label
	}
	vc := v
	c.vertices[v.Label] = &vc
	c.order = append(c.order, v.Label)
	return nil
}

// AddEdge adds e to the CFG.
func (c *CFG) AddEdge(e Edge) { c.edges = append(c.edges, e) }

// Vertex looks up a vertex by label.
func (c *CFG) Vertex(l Label) (*Vertex, bool) {
	v, ok := c.vertices[l]
	return v, ok
}

// Vertices returns all vertices in insertion (emission) order.
func (c *CFG) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, c.vertices[l])
	}
	return out
}

// Edges returns all edges, in the order they were added.
func (c *CFG) Edges() []Edge { return c.edges }

// Entry returns the CFG's unique entry label.
func (c *CFG) Entry() Label { return c.entry }

// Exit returns the CFG's unique exit label.
func (c *CFG) Exit() Label { return c.exit }

// Out returns the outgoing edges from label l, in insertion order.
func (c *CFG) Out(l Label) []Edge {
	var out []Edge
	for _, e := range c.edges {
		if e.From == l {
			out = append(out, e)
		}
	}
	return out
}

// In returns the incoming edges to label l, in insertion order.
func (c *CFG) In(l Label) []Edge {
	var in []Edge
	for _, e := range c.edges {
		if e.To == l {
			in = append(in, e)
		}
	}
	return in
}

// IntraproceduralIn returns the incoming edges to l whose Kind keeps the
// control flow within this procedure (Intraprocedural, TrueBranch,
// FalseBranch) - the set the Merger counts to find join points (spec §4.8).
func (c *CFG) IntraproceduralIn(l Label) []Edge {
	var in []Edge
	for _, e := range c.In(l) {
		switch e.Kind {
		case Intraprocedural, TrueBranch, FalseBranch:
			in = append(in, e)
		}
	}
	return in
}

// Validate checks the spec §3 CFG well-formedness invariants (i)-(iii) and
// returns the first violation found as an ir_malformed error, or nil.
func (c *CFG) Validate() error {
	if c.entry == -1 || c.exit == -1 {
		return errs.New(errs.IRMalformed, "CFG %q missing entry or exit vertex", c.Name)
	}
	for _, v := range c.Vertices() {
		if v.Kind == EntryVertex || v.Kind == ExitVertex {
			continue
		}
		if len(c.In(v.Label)) == 0 {
			return errs.New(errs.IRMalformed, "vertex %d in %q has no predecessor", v.Label, c.Name)
		}
		if len(c.Out(v.Label)) == 0 {
			return errs.New(errs.IRMalformed, "vertex %d in %q has no successor", v.Label, c.Name)
		}
		if v.Instr.Kind == IfInstrKind {
			out := c.Out(v.Label)
			if len(out) != 2 {
				return errs.New(errs.IRMalformed, "if-vertex %d in %q must have exactly two out-edges, has %d", v.Label, c.Name, len(out))
			}
			var sawTrue, sawFalse bool
			for _, e := range out {
				switch e.Kind {
				case TrueBranch:
					sawTrue = true
				case FalseBranch:
					sawFalse = true
				}
			}
			if !sawTrue || !sawFalse {
				return errs.New(errs.IRMalformed, "if-vertex %d in %q must have true_branch and false_branch out-edges", v.Label, c.Name)
			}
		}
		if v.Instr.Kind == CallInstrKind {
			out := c.Out(v.Label)
			var callEdges, ctrEdges int
			for _, e := range out {
				switch e.Kind {
				case InterproceduralCall:
					callEdges++
				case IntraproceduralCallToReturn:
					ctrEdges++
				}
			}
			if callEdges != 1 || ctrEdges != 1 {
				return errs.New(errs.IRMalformed, "call-vertex %d in %q must have exactly one interprocedural_call and one intraprocedural_call_to_return out-edge", v.Label, c.Name)
			}
		}
	}
	return nil
}

func (c *CFG) String() string {
	return fmt.Sprintf("CFG(%s %s, %d vertices, %d edges)", c.Kind, c.Name, len(c.vertices), len(c.edges))
}
