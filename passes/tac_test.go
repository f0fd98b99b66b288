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

func nestedExprProject() ir.Project {
	// z := (x + y) * (x - y)
	rhs := ir.Bin(ir.Mul,
		ir.Bin(ir.Add, ir.Var("x"), ir.Var("y")),
		ir.Bin(ir.Sub, ir.Var("x"), ir.Var("y")),
	)
	body := ir.Sequence(ir.Assignment("z", rhs))
	mod := ir.Module{
		Kind: ir.ProgramProc,
		Name: "P",
		Interface: ir.Interface{
			Locals: []ir.Decl{
				{Name: "x", Type: ir.IntegerType, Kind: ir.Local},
				{Name: "y", Type: ir.IntegerType, Kind: ir.Local},
				{Name: "z", Type: ir.IntegerType, Kind: ir.Local},
			},
		},
		Body: body,
	}
	return ir.Project{Modules: []ir.Module{mod}, Entry: "P"}
}

func TestTACHoistsNestedSubexpressions(t *testing.T) {
	t.Parallel()

	program, err := builder.Build(nestedExprProject())
	require.NoError(t, err)
	c, ok := program.Lookup("P")
	require.True(t, ok)

	out, err := passes.TAC(c)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	var assigns int
	var finalFound bool
	for _, v := range out.Vertices() {
		if v.Kind != cfg.RegularVertex || v.Instr.Kind != cfg.AssignmentInstrKind {
			continue
		}
		assigns++
		if v.Instr.LHS == "z" {
			finalFound = true
			require.Equal(t, ir.VarExpr, v.Instr.RHS.Kind, "final assignment's rhs must be an atom after TAC")
		} else {
			// every hoisted temporary computes exactly one operation over atoms
			require.Contains(t, []ir.ExprKind{ir.BinaryExpr, ir.UnaryExpr, ir.CastExpr, ir.FieldExpr, ir.ChangeExpr}, v.Instr.RHS.Kind)
		}
	}
	require.True(t, finalFound)
	// x+y, x-y, and the outer multiply each become one temp; z keeps its name.
	require.Equal(t, 4, assigns)
}

func TestTACPreservesCallLabelForReturnWiring(t *testing.T) {
	t.Parallel()

	callee := ir.Module{
		Kind: ir.FunctionProc,
		Name: "inc",
		Interface: ir.Interface{
			Inputs:  []ir.Decl{{Name: "x", Type: ir.IntegerType, Kind: ir.Input}},
			Outputs: []ir.Decl{{Name: "result", Type: ir.IntegerType, Kind: ir.Output}},
		},
		Body: ir.Sequence(ir.Assignment("result", ir.Bin(ir.Add, ir.Var("x"), ir.Const(ir.NewInt(1))))),
	}
	caller := ir.Module{
		Kind: ir.ProgramProc,
		Name: "P",
		Body: ir.Sequence(ir.Call("inc")),
	}
	program, err := builder.Build(ir.Project{Modules: []ir.Module{caller, callee}, Entry: "P"})
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

	out, err := passes.TAC(p)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	v, ok := out.Vertex(callLabel)
	require.True(t, ok)
	require.Equal(t, cfg.CallInstrKind, v.Instr.Kind)
}
