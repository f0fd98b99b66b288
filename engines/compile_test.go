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

	"github.com/ahorn-lang/ahorn/ir"
)

func trivialProject() ir.Project {
	return ir.Project{
		Entry: "main",
		Modules: []ir.Module{
			{
				Kind: ir.ProgramProc,
				Name: "main",
				Interface: ir.Interface{
					Locals: []ir.Decl{{Name: "x", Type: ir.Type{Kind: ir.Integer}, Kind: ir.Local}},
				},
				Body: ir.Assignment("x", ir.Const(ir.NewInt(1))),
			},
		},
	}
}

func TestCompileProducesEntryCFGAndSSAInfo(t *testing.T) {
	t.Parallel()
	program, ssaInfo, err := Compile(trivialProject())
	require.NoError(t, err)

	entry, ok := program.Lookup("main")
	require.True(t, ok)
	require.Equal(t, "main", entry.Name)
	require.Contains(t, ssaInfo, "main")
}

func TestProgramMapCoversEveryCFG(t *testing.T) {
	t.Parallel()
	program, _, err := Compile(trivialProject())
	require.NoError(t, err)

	m := programMap(program)
	require.Len(t, m, 1)
	require.Contains(t, m, "main")
}
