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

package engines

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/config"
	"github.com/ahorn-lang/ahorn/engine"
	"github.com/ahorn-lang/ahorn/ir"
)

func ifVertexCFG(t *testing.T) *cfg.CFG {
	t.Helper()
	c, err := cfg.New(ir.ProgramProc, "p", ir.Interface{})
	require.NoError(t, err)
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 0, Kind: cfg.EntryVertex}))
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 1, Kind: cfg.RegularVertex, Instr: cfg.If(ir.Var("x"))}))
	require.NoError(t, c.AddVertex(cfg.Vertex{Label: 2, Kind: cfg.ExitVertex}))
	c.AddEdge(cfg.Edge{From: 0, To: 1, Kind: cfg.Intraprocedural})
	c.AddEdge(cfg.Edge{From: 1, To: 2, Kind: cfg.TrueBranch})
	c.AddEdge(cfg.Edge{From: 1, To: 2, Kind: cfg.FalseBranch})
	return c
}

func TestSeedManualRemovesUnreachableLabel(t *testing.T) {
	t.Parallel()
	c := ifVertexCFG(t)
	explorer := engine.NewExplorer(engine.DepthFirst, c, nil)

	_, total := explorer.StatementCoverage()
	require.Equal(t, 1, total)

	opts := config.Options{UnreachableLabels: []string{"1"}}
	require.NoError(t, seedManual(explorer, opts))

	_, total = explorer.StatementCoverage()
	require.Equal(t, 0, total)
}

func TestSeedManualMarksUnreachableBranch(t *testing.T) {
	t.Parallel()
	c := ifVertexCFG(t)
	explorer := engine.NewExplorer(engine.DepthFirst, c, nil)

	opts := config.Options{UnreachableBranches: []string{"1_ff"}}
	require.NoError(t, seedManual(explorer, opts))

	covered, total := explorer.BranchCoverage()
	require.Equal(t, 2, total)
	require.Equal(t, 1, covered)
}

func TestSeedManualRejectsMalformedLabel(t *testing.T) {
	t.Parallel()
	c := ifVertexCFG(t)
	explorer := engine.NewExplorer(engine.DepthFirst, c, nil)

	err := seedManual(explorer, config.Options{UnreachableLabels: []string{"not-a-number"}})
	require.Error(t, err)
}

func TestSeedManualRejectsMalformedBranch(t *testing.T) {
	t.Parallel()
	c := ifVertexCFG(t)
	explorer := engine.NewExplorer(engine.DepthFirst, c, nil)

	err := seedManual(explorer, config.Options{UnreachableBranches: []string{"1_maybe"}})
	require.Error(t, err)
}
