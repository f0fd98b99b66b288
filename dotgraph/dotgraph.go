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

// Package dotgraph renders a cfg.Program as Graphviz dot (spec §6): one
// subgraph per CFG, vertices labelled `<label>: <instruction>`, edges
// styled by EdgeKind. No dot-generation library appears in the retrieved
// pack and the format is small and fixed, so it's assembled with
// text/template over strings.Builder rather than a third-party dependency
// (see DESIGN.md).
package dotgraph

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/ir"
)

type graphData struct {
	ID         string
	Subgraphs  []subgraphData
}

type subgraphData struct {
	ID, Label string
	Nodes     []nodeData
	Edges     []edgeData
}

type nodeData struct {
	ID, Label, Style string
}

type edgeData struct {
	From, To, Attrs string
}

var dotTemplate = template.Must(template.New("dot").Parse(`digraph {{.ID}} {
  node [shape=box, fontname=monospace];
{{- range .Subgraphs}}
  subgraph cluster_{{.ID}} {
    label="{{.Label}}";
{{- range .Nodes}}
    {{.ID}} [label="{{.Label}}"{{.Style}}];
{{- end}}
{{- range .Edges}}
    {{.From}} -> {{.To}} [{{.Attrs}}];
{{- end}}
  }
{{- end}}
}
`))

// Render writes program as a single `digraph` source, one `cluster_<name>`
// subgraph per CFG in program.CFGs() order.
func Render(program *cfg.Program) string {
	data := graphData{ID: dotID(program.Entry)}
	for _, c := range program.CFGs() {
		data.Subgraphs = append(data.Subgraphs, buildSubgraph(c))
	}

	var b strings.Builder
	if err := dotTemplate.Execute(&b, data); err != nil {
		// The template is a package-level constant and data is built
		// entirely from this function; a render failure can only mean a
		// template/data-shape mismatch introduced by a future edit here.
		panic(err)
	}
	return b.String()
}

func buildSubgraph(c *cfg.CFG) subgraphData {
	sg := subgraphData{ID: dotID(c.Name), Label: c.Name}
	for _, v := range c.Vertices() {
		sg.Nodes = append(sg.Nodes, nodeData{
			ID:    vertexID(c.Name, v.Label),
			Label: vertexLabel(v),
			Style: vertexStyle(v),
		})
	}
	for _, e := range c.Edges() {
		sg.Edges = append(sg.Edges, buildEdge(c.Name, e))
	}
	return sg
}

func buildEdge(scope string, e cfg.Edge) edgeData {
	toScope := scope
	if e.Kind == cfg.InterproceduralCall || e.Kind == cfg.InterproceduralReturn {
		toScope = e.ToScope
	}
	return edgeData{
		From:  vertexID(scope, e.From),
		To:    vertexID(toScope, e.To),
		Attrs: edgeStyle(e),
	}
}

func edgeStyle(e cfg.Edge) string {
	switch e.Kind {
	case cfg.TrueBranch:
		return `label="true", color=darkgreen`
	case cfg.FalseBranch:
		return `label="false", color=firebrick`
	case cfg.InterproceduralCall:
		return `label="call", style=dashed, color=blue`
	case cfg.InterproceduralReturn:
		return `label="return", style=dashed, color=blue`
	case cfg.IntraproceduralCallToReturn:
		return `style=dotted`
	default:
		return ""
	}
}

func vertexStyle(v *cfg.Vertex) string {
	switch v.Kind {
	case cfg.EntryVertex:
		return `, shape=ellipse, style=filled, fillcolor=lightgray`
	case cfg.ExitVertex:
		return `, shape=doublecircle, style=filled, fillcolor=lightgray`
	default:
		return ""
	}
}

func vertexLabel(v *cfg.Vertex) string {
	switch v.Kind {
	case cfg.EntryVertex:
		return labelf(v.Label, "entry")
	case cfg.ExitVertex:
		return labelf(v.Label, "exit")
	default:
		return labelf(v.Label, instrString(v.Instr))
	}
}

func labelf(l cfg.Label, body string) string {
	raw := strconv.Itoa(int(l)) + ": " + body
	return strings.ReplaceAll(raw, `"`, `\"`)
}

func instrString(i cfg.Instr) string {
	switch i.Kind {
	case cfg.AssignmentInstrKind:
		return i.LHS + " = " + exprString(i.RHS)
	case cfg.HavocInstrKind:
		return i.LHS + " = havoc()"
	case cfg.IfInstrKind:
		return "if " + exprString(i.Cond)
	case cfg.CallInstrKind:
		return "call " + i.Callee
	case cfg.SequenceInstrKind:
		parts := make([]string, len(i.Children))
		for idx, child := range i.Children {
			parts[idx] = instrString(child)
		}
		return strings.Join(parts, "; ")
	default:
		return "?"
	}
}

func exprString(e ir.Expr) string {
	switch e.Kind {
	case ir.ConstExpr:
		return e.Const.String()
	case ir.VarExpr:
		return e.Name
	case ir.FieldExpr:
		return exprString(*e.Base) + "." + e.Field
	case ir.UnaryExpr:
		return unaryOpString(e.UnaryOp) + exprString(*e.X)
	case ir.BinaryExpr:
		return "(" + exprString(*e.L) + " " + binaryOpString(e.BinaryOp) + " " + exprString(*e.R) + ")"
	case ir.CastExpr:
		if e.Cast == ir.BoolToInt {
			return "int(" + exprString(*e.X) + ")"
		}
		return "bool(" + exprString(*e.X) + ")"
	case ir.ChangeExpr:
		return "change(" + exprString(*e.Old) + " -> " + exprString(*e.New) + ")"
	case ir.PhiExpr:
		return "phi(...)"
	default:
		return "?"
	}
}

func unaryOpString(op ir.UnaryOp) string {
	if op == ir.Not {
		return "!"
	}
	return "-"
}

func binaryOpString(op ir.BinaryOp) string {
	switch op {
	case ir.Add:
		return "+"
	case ir.Sub:
		return "-"
	case ir.Mul:
		return "*"
	case ir.Div:
		return "/"
	case ir.Mod:
		return "%"
	case ir.And:
		return "&&"
	case ir.Or:
		return "||"
	case ir.Eq:
		return "=="
	case ir.Neq:
		return "!="
	case ir.Lt:
		return "<"
	case ir.Lte:
		return "<="
	case ir.Gt:
		return ">"
	case ir.Gte:
		return ">="
	default:
		return "?"
	}
}

func vertexID(scope string, l cfg.Label) string {
	return dotID(scope) + "_" + strconv.Itoa(int(l))
}

// dotID sanitizes name into a bare dot identifier (letters, digits,
// underscore only).
func dotID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
