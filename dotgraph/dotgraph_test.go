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

package dotgraph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/dotgraph"
	"github.com/ahorn-lang/ahorn/ir"
)

func smallProgram(t *testing.T) *cfg.Program {
	t.Helper()

	iface := ir.Interface{Locals: []ir.Decl{{Name: "x", Type: ir.Type{Kind: ir.Integer}, Kind: ir.Local}}}
	c, err := cfg.New(ir.ProgramProc, "main", iface)
	require.NoError(t, err)

	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 0, Kind: cfg.EntryVertex}))
	require.NoError(t, c.AddVertex(cfg.Vertex{
		Label: 1,
		Kind:  cfg.RegularVertex,
		Instr: cfg.Assignment("x", ir.Const(ir.NewInt(1))),
	}))
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 2, Kind: cfg.ExitVertex}))
	c.AddEdge(cfg.Edge{From: 0, To: 1, Kind: cfg.Intraprocedural})
	c.AddEdge(cfg.Edge{From: 1, To: 2, Kind: cfg.Intraprocedural})

	program := cfg.NewProgram("main")
	require.NoError(t, program.Add(c))
	return program
}

func TestRenderIncludesEverySubgraph(t *testing.T) {
	t.Parallel()
	program := smallProgram(t)

	out := dotgraph.Render(program)

	require.True(t, strings.HasPrefix(out, "digraph main {"))
	require.Contains(t, out, "subgraph cluster_main {")
	require.Contains(t, out, `1: x = 1`)
	require.Contains(t, out, "main_0 -> main_1")
	require.Contains(t, out, "main_1 -> main_2")
}

func TestRenderEscapesQuotesInLabels(t *testing.T) {
	t.Parallel()
	iface := ir.Interface{}
	c, err := cfg.New(ir.ProgramProc, "q", iface)
	require.NoError(t, err)
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 0, Kind: cfg.EntryVertex}))
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 1, Kind: cfg.ExitVertex}))
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 2, Kind: cfg.RegularVertex, Instr: cfg.Call(`say"hi`)}))

	program := cfg.NewProgram("q")
	require.NoError(t, program.Add(c))

	out := dotgraph.Render(program)
	require.NotContains(t, out, `"0: entry"x`) // sanity: no stray unescaped quote sequence
	require.Contains(t, out, `label="0: entry"`)
	require.Contains(t, out, `label="2: call say\"hi"`)
}

func TestRenderSanitizesNonIdentifierScopeNames(t *testing.T) {
	t.Parallel()
	iface := ir.Interface{}
	c, err := cfg.New(ir.ProgramProc, "my-program.v2", iface)
	require.NoError(t, err)
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 0, Kind: cfg.EntryVertex}))
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 1, Kind: cfg.ExitVertex}))

	program := cfg.NewProgram("my-program.v2")
	require.NoError(t, program.Add(c))

	out := dotgraph.Render(program)
	require.Contains(t, out, "cluster_my_program_v2")
	require.NotContains(t, out, "cluster_my-program.v2")
}
