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

// straightLineProject builds x:=1; y:=2; z:=y+x with no branches, so the
// whole body should coalesce into a single regular vertex.
func straightLineProject() ir.Project {
	body := ir.Sequence(
		ir.Assignment("x", ir.Const(ir.NewInt(1))),
		ir.Assignment("y", ir.Const(ir.NewInt(2))),
		ir.Assignment("z", ir.Bin(ir.Add, ir.Var("y"), ir.Var("x"))),
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
	return ir.Project{Modules: []ir.Module{mod}, Entry: "P"}
}

func TestBasicBlockCoalescesStraightLine(t *testing.T) {
	t.Parallel()

	program, err := builder.Build(straightLineProject())
	require.NoError(t, err)
	c, ok := program.Lookup("P")
	require.True(t, ok)

	out, err := passes.BasicBlock(c)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	var regular []*cfg.Vertex
	for _, v := range out.Vertices() {
		if v.Kind == cfg.RegularVertex {
			regular = append(regular, v)
		}
	}
	require.Len(t, regular, 1)
	require.Equal(t, cfg.SequenceInstrKind, regular[0].Instr.Kind)
	require.Len(t, regular[0].Instr.Children, 3)
}

func TestBasicBlockPreservesBranches(t *testing.T) {
	t.Parallel()

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

	out, err := passes.BasicBlock(c)
	require.NoError(t, err)
	require.NoError(t, out.Validate())

	var ifVertices int
	for _, v := range out.Vertices() {
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.IfInstrKind {
			ifVertices++
			require.Len(t, out.Out(v.Label), 2)
		}
	}
	require.Equal(t, 1, ifVertices)
	// x:=1 stands alone (its only successor is the if vertex, which never
	// joins a chain) while y:=2/y:=3 each remain single
	// vertices (their sole successor z:=y+x has two predecessors, so it
	// cannot be absorbed into either branch).
	for _, v := range out.Vertices() {
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.SequenceInstrKind {
			t.Fatalf("unexpected coalesced sequence vertex at label %d", v.Label)
		}
	}
}
