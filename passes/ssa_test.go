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

func TestSSARenamesStraightLineDefinitions(t *testing.T) {
	t.Parallel()

	program, err := builder.Build(straightLineProject())
	require.NoError(t, err)
	c, ok := program.Lookup("P")
	require.True(t, ok)

	out, info, err := passes.SSA(c)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	var names []string
	for _, v := range out.Vertices() {
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.AssignmentInstrKind {
			names = append(names, v.Instr.LHS)
		}
	}
	require.ElementsMatch(t, []string{"x~0", "y~1", "z~2"}, names)
	require.Equal(t, "x", info.ValueVar[0])
	require.True(t, len(info.ValueVar) >= 3)
}

func TestSSAMergesDivergentDefinitionAtJoinPoint(t *testing.T) {
	t.Parallel()

	// z-label's z := y + x reads y, which is defined differently on each
	// branch, so SSA must insert a genuine phi for y at the join while x
	// (defined once before the branch) resolves trivially with no phi.
	body := ir.Sequence(
		ir.Assignment("x", ir.Const(ir.NewInt(1))),
		ir.If(ir.Bin(ir.Gt, ir.Var("x"), ir.Const(ir.NewInt(0))), 1, 2),
		ir.Assignment("y", ir.Const(ir.NewInt(2))).WithLabel(1),
		ir.Goto(3),
		ir.Assignment("y", ir.Const(ir.NewInt(3))).WithLabel(2),
		ir.Assignment("z", ir.Bin(ir.Add, ir.Var("y"), ir.Var("x"))).WithLabel(3),
	)
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
	program, err := builder.Build(ir.Project{Modules: []ir.Module{mod}, Entry: "P"})
	require.NoError(t, err)
	c, ok := program.Lookup("P")
	require.True(t, ok)

	var zLabel cfg.Label = -1
	for _, v := range c.Vertices() {
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.AssignmentInstrKind && v.Instr.LHS == "z" {
			zLabel = v.Label
		}
	}
	require.NotEqual(t, cfg.Label(-1), zLabel)

	out, _, err := passes.SSA(c)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	zVertex, ok := out.Vertex(zLabel)
	require.True(t, ok)
	require.Equal(t, cfg.AssignmentInstrKind, zVertex.Instr.Kind)
	require.Equal(t, ir.BinaryExpr, zVertex.Instr.RHS.Kind)

	// x was written exactly once before the branch, so it reaches z
	// through a single definition and needs no phi; it still carries the
	// suffixed name assigned by that one write, never the bare source name.
	xName := zVertex.Instr.RHS.R.Name
	require.NotEqual(t, "x", xName)

	// y required a genuine phi: its operand is a fresh "y~N" name,
	// materialized by a phi-assignment vertex immediately preceding z.
	yName := zVertex.Instr.RHS.L.Name
	require.NotEqual(t, "y", yName)

	preds := out.IntraproceduralIn(zLabel)
	require.Len(t, preds, 1)
	phiVertex, ok := out.Vertex(preds[0].From)
	require.True(t, ok)
	require.Equal(t, cfg.AssignmentInstrKind, phiVertex.Instr.Kind)
	require.Equal(t, yName, phiVertex.Instr.LHS)
	require.Equal(t, ir.PhiExpr, phiVertex.Instr.RHS.Kind)
	require.Len(t, phiVertex.Instr.RHS.PhiOperands, 2)
}

func TestSSALoopInvariantVariableStaysTrivial(t *testing.T) {
	t.Parallel()

	// i is mutated every iteration (genuine loop-carried phi at the
	// header) but the loop never touches a second variable `bound`, which
	// must resolve trivially with no phi even though the header is a
	// two-predecessor merge point.
	body := ir.Sequence(
		ir.Assignment("bound", ir.Const(ir.NewInt(10))),
		ir.While(
			ir.Bin(ir.Lt, ir.Var("i"), ir.Var("bound")),
			ir.Assignment("i", ir.Bin(ir.Add, ir.Var("i"), ir.Const(ir.NewInt(1)))),
		),
	)
	mod := ir.Module{
		Kind: ir.ProgramProc,
		Name: "Loop",
		Interface: ir.Interface{
			Locals: []ir.Decl{
				{Name: "i", Type: ir.IntegerType, Kind: ir.Local},
				{Name: "bound", Type: ir.IntegerType, Kind: ir.Local},
			},
		},
		Body: body,
	}
	program, err := builder.Build(ir.Project{Modules: []ir.Module{mod}, Entry: "Loop"})
	require.NoError(t, err)
	c, ok := program.Lookup("Loop")
	require.True(t, ok)

	out, _, err := passes.SSA(c)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	var headerCond *ir.Expr
	for _, v := range out.Vertices() {
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.IfInstrKind {
			cond := v.Instr.Cond
			headerCond = &cond
		}
	}
	require.NotNil(t, headerCond)
	require.Equal(t, ir.BinaryExpr, headerCond.Kind)
	// `i` is loop-carried: its header read must not be the bare initial name.
	require.NotEqual(t, "i", headerCond.L.Name)

	var phiVertices int
	for _, v := range out.Vertices() {
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.AssignmentInstrKind && v.Instr.RHS.Kind == ir.PhiExpr {
			phiVertices++
		}
	}
	// only `i` needs a genuine phi at the header; `bound` is invariant
	// across iterations and must be eliminated as trivial.
	require.Equal(t, 1, phiVertices)
}
