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
	"fmt"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/ir"
)

// TAC rewrites c into three-address form: every instruction computes at
// most one operation, with nested sub-expressions hoisted into fresh
// temporary locals evaluated immediately beforehand (spec §4.2). Each
// original vertex's label is preserved on the final instruction of its
// expansion so call labels and if-vertices already referenced elsewhere
// (e.g. an InterproceduralReturn's CallLabel) stay valid; the temporaries
// introduced to compute it get fresh labels chained in immediately before.
func TAC(c *cfg.CFG) (*cfg.CFG, error) {
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

	tempN := 0
	freshTemp := func() string {
		tempN++
		return fmt.Sprintf("t$tac$%d", tempN)
	}

	chainHead := map[cfg.Label]cfg.Label{}

	for _, v := range c.Vertices() {
		if v.Kind == cfg.EntryVertex || v.Kind == cfg.ExitVertex {
			if err := out.AddVertex(cfg.Vertex{Label: v.Label, Kind: v.Kind}); err != nil {
				return nil, err
			}
			chainHead[v.Label] = v.Label
			continue
		}

		var temps []cfg.Instr
		var anchor cfg.Instr

		switch v.Instr.Kind {
		case cfg.AssignmentInstrKind:
			atom := flattenExpr(v.Instr.RHS, &temps, freshTemp)
			anchor = cfg.Assignment(v.Instr.LHS, atom)
		case cfg.HavocInstrKind, cfg.CallInstrKind:
			anchor = v.Instr
		case cfg.IfInstrKind:
			atom := flattenExpr(v.Instr.Cond, &temps, freshTemp)
			anchor = cfg.If(atom)
		case cfg.SequenceInstrKind:
			children := make([]cfg.Instr, len(v.Instr.Children))
			for i, child := range v.Instr.Children {
				if child.Kind == cfg.AssignmentInstrKind {
					atom := flattenExpr(child.RHS, &temps, freshTemp)
					children[i] = cfg.Assignment(child.LHS, atom)
				} else {
					children[i] = child
				}
			}
			anchor = cfg.Seq(children...)
		default:
			anchor = v.Instr
		}

		prev := cfg.Label(-1)
		var head cfg.Label
		for i, t := range temps {
			l := fresh()
			if i == 0 {
				head = l
			}
			if err := out.AddVertex(cfg.Vertex{Label: l, Kind: cfg.RegularVertex, Instr: t}); err != nil {
				return nil, err
			}
			if prev != -1 {
				out.AddEdge(cfg.Edge{From: prev, To: l, Kind: cfg.Intraprocedural})
			}
			prev = l
		}
		if err := out.AddVertex(cfg.Vertex{Label: v.Label, Kind: cfg.RegularVertex, Instr: anchor}); err != nil {
			return nil, err
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

// flattenExpr reduces e to an atom (ConstExpr or VarExpr), appending a
// temporary assignment to *temps for every non-atomic sub-expression it
// encounters, innermost first.
func flattenExpr(e ir.Expr, temps *[]cfg.Instr, freshTemp func() string) ir.Expr {
	switch e.Kind {
	case ir.ConstExpr, ir.VarExpr, ir.PhiExpr:
		return e

	case ir.FieldExpr:
		base := flattenExpr(*e.Base, temps, freshTemp)
		name := freshTemp()
		*temps = append(*temps, cfg.Assignment(name, ir.FieldAccess(base, e.Field)))
		return ir.Var(name)

	case ir.UnaryExpr:
		x := flattenExpr(*e.X, temps, freshTemp)
		name := freshTemp()
		*temps = append(*temps, cfg.Assignment(name, ir.Un(e.UnaryOp, x)))
		return ir.Var(name)

	case ir.BinaryExpr:
		l := flattenExpr(*e.L, temps, freshTemp)
		r := flattenExpr(*e.R, temps, freshTemp)
		name := freshTemp()
		*temps = append(*temps, cfg.Assignment(name, ir.Bin(e.BinaryOp, l, r)))
		return ir.Var(name)

	case ir.CastExpr:
		x := flattenExpr(*e.X, temps, freshTemp)
		name := freshTemp()
		*temps = append(*temps, cfg.Assignment(name, ir.CastTo(e.Cast, x)))
		return ir.Var(name)

	case ir.ChangeExpr:
		o := flattenExpr(*e.Old, temps, freshTemp)
		n := flattenExpr(*e.New, temps, freshTemp)
		name := freshTemp()
		*temps = append(*temps, cfg.Assignment(name, ir.Change(o, n)))
		return ir.Var(name)

	default:
		return e
	}
}
