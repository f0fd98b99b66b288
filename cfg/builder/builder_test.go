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

package builder_test

import (
	"testing"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/cfg/builder"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/stretchr/testify/require"
)

// s1Project builds the spec §8 S1 scenario:
//   x := 1; if (x > 0) y := 2 else y := 3; z := y + x
func s1Project() ir.Project {
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
	return ir.Project{Modules: []ir.Module{mod}, Entry: "P"}
}

func TestBuildS1Scenario(t *testing.T) {
	t.Parallel()

	program, err := builder.Build(s1Project())
	require.NoError(t, err)

	c, ok := program.Lookup("P")
	require.True(t, ok)
	require.NoError(t, c.Validate())

	var ifVertices, assignVertices int
	for _, v := range c.Vertices() {
		if v.Kind != cfg.RegularVertex {
			continue
		}
		switch v.Instr.Kind {
		case cfg.IfInstrKind:
			ifVertices++
		case cfg.AssignmentInstrKind:
			assignVertices++
		}
	}
	require.Equal(t, 1, ifVertices)
	require.Equal(t, 4, assignVertices)
}

func TestBuildRejectsDuplicateLabel(t *testing.T) {
	t.Parallel()

	body := ir.Sequence(
		ir.Assignment("x", ir.Const(ir.NewInt(1))).WithLabel(1),
		ir.Assignment("y", ir.Const(ir.NewInt(2))).WithLabel(1),
	)
	mod := ir.Module{Kind: ir.ProgramProc, Name: "P", Body: body}
	_, err := builder.Build(ir.Project{Modules: []ir.Module{mod}, Entry: "P"})
	require.Error(t, err)
}

func TestBuildWhileLoop(t *testing.T) {
	t.Parallel()

	body := ir.While(
		ir.Bin(ir.Lt, ir.Var("i"), ir.Const(ir.NewInt(10))),
		ir.Assignment("i", ir.Bin(ir.Add, ir.Var("i"), ir.Const(ir.NewInt(1)))),
	)
	mod := ir.Module{
		Kind: ir.ProgramProc,
		Name: "Loop",
		Interface: ir.Interface{
			Locals: []ir.Decl{{Name: "i", Type: ir.IntegerType, Kind: ir.Local}},
		},
		Body: body,
	}
	program, err := builder.Build(ir.Project{Modules: []ir.Module{mod}, Entry: "Loop"})
	require.NoError(t, err)

	c, ok := program.Lookup("Loop")
	require.True(t, ok)
	require.NoError(t, c.Validate())

	var headerFound bool
	for _, v := range c.Vertices() {
		if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.IfInstrKind {
			out := c.Out(v.Label)
			require.Len(t, out, 2)
			headerFound = true
		}
	}
	require.True(t, headerFound)
}

func TestBuildRejectsCallToUnknownProcedure(t *testing.T) {
	t.Parallel()

	body := ir.Sequence(ir.Call("missing"))
	mod := ir.Module{Kind: ir.ProgramProc, Name: "P", Body: body}
	_, err := builder.Build(ir.Project{Modules: []ir.Module{mod}, Entry: "P"})
	require.Error(t, err)
}

func TestBuildWiresInterproceduralCallAndReturn(t *testing.T) {
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
	require.Contains(t, p.Callees, "inc")

	incCFG, ok := program.Lookup("inc")
	require.True(t, ok)
	var foundReturn bool
	for _, e := range incCFG.Out(incCFG.Exit()) {
		if e.Kind == cfg.InterproceduralReturn {
			foundReturn = true
			require.Equal(t, "P", e.CallerScope)
		}
	}
	require.True(t, foundReturn)
}
