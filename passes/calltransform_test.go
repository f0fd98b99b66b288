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

package passes_test

import (
	"testing"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/cfg/builder"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/passes"
	"github.com/stretchr/testify/require"
)

func callWithBindingProject() (ir.Project, cfg.Label) {
	callee := ir.Module{
		Kind: ir.FunctionProc,
		Name: "inc",
		Interface: ir.Interface{
			Inputs:  []ir.Decl{{Name: "x", Type: ir.IntegerType, Kind: ir.Input}},
			Outputs: []ir.Decl{{Name: "result", Type: ir.IntegerType, Kind: ir.Output}},
		},
		Body: ir.Sequence(ir.Assignment("result", ir.Bin(ir.Add, ir.Var("x"), ir.Const(ir.NewInt(1))))),
	}
	body := ir.Sequence(
		ir.CallWithBinding("inc",
			[]ir.CallArg{{Formal: "x", Actual: ir.Var("n")}},
			[]ir.CallResult{{Formal: "result", Actual: "n"}},
		),
	)
	caller := ir.Module{
		Kind: ir.ProgramProc,
		Name: "P",
		Interface: ir.Interface{
			Locals: []ir.Decl{{Name: "n", Type: ir.IntegerType, Kind: ir.Local}},
		},
		Body: body,
	}
	return ir.Project{Modules: []ir.Module{caller, callee}, Entry: "P"}, 0
}

func TestCallTransformHoistsArgsAndResults(t *testing.T) {
	t.Parallel()

	project, _ := callWithBindingProject()
	program, err := builder.Build(project)
	require.NoError(t, err)
	p, ok := program.Lookup("P")
	require.True(t, ok)

	var callLabel cfg.Label = -1
	for _, v := range p.Vertices() {
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.CallInstrKind {
			callLabel = v.Label
		}
	}
	require.NotEqual(t, cfg.Label(-1), callLabel)

	out, err := passes.CallTransform(p)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	// the call vertex keeps its original label and now carries no bindings
	v, ok := out.Vertex(callLabel)
	require.True(t, ok)
	require.Equal(t, cfg.CallInstrKind, v.Instr.Kind)
	require.Empty(t, v.Instr.Args)
	require.Empty(t, v.Instr.Results)

	// exactly one predecessor assignment copies n into the formal x
	preds := out.IntraproceduralIn(callLabel)
	require.Len(t, preds, 1)
	argVertex, ok := out.Vertex(preds[0].From)
	require.True(t, ok)
	require.Equal(t, cfg.AssignmentInstrKind, argVertex.Instr.Kind)
	require.Equal(t, "x", argVertex.Instr.LHS)

	// the call's call_to_return target now holds the formal-to-actual
	// result copy (result -> n)
	var ctrTarget cfg.Label = -1
	for _, e := range out.Out(callLabel) {
		if e.Kind == cfg.IntraproceduralCallToReturn {
			ctrTarget = e.To
		}
	}
	require.NotEqual(t, cfg.Label(-1), ctrTarget)
	resultVertex, ok := out.Vertex(ctrTarget)
	require.True(t, ok)
	require.Equal(t, cfg.AssignmentInstrKind, resultVertex.Instr.Kind)
	require.Equal(t, "n", resultVertex.Instr.LHS)
	require.Equal(t, ir.VarExpr, resultVertex.Instr.RHS.Kind)
	require.Equal(t, "result", resultVertex.Instr.RHS.Name)
}
