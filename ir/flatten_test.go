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

package ir_test

import (
	"testing"

	"github.com/ahorn-lang/ahorn/ir"
	"github.com/stretchr/testify/require"
)

func TestFlattenPrimitivesPassThrough(t *testing.T) {
	t.Parallel()

	iface := ir.Interface{
		Inputs:  []ir.Decl{{Name: "a", Type: ir.BooleanType, Kind: ir.Input}},
		Outputs: []ir.Decl{{Name: "q", Type: ir.IntegerType, Kind: ir.Output}},
	}
	flat, err := ir.Flatten(iface)
	require.NoError(t, err)
	require.Len(t, flat, 2)
	require.Equal(t, "a", flat[0].Path)
	require.Equal(t, "q", flat[1].Path)
}

func TestFlattenDerivedDotPaths(t *testing.T) {
	t.Parallel()

	fbType := ir.Type{
		Kind: ir.Derived,
		Name: "FB",
		Fields: []ir.Field{
			{Name: "a", Type: ir.BooleanType},
			{Name: "b", Type: ir.IntegerType},
		},
	}
	iface := ir.Interface{
		Locals: []ir.Decl{{Name: "fb", Type: fbType, Kind: ir.Local}},
	}
	flat, err := ir.Flatten(iface)
	require.NoError(t, err)
	require.Len(t, flat, 2)
	require.Equal(t, "fb.a", flat[0].Path)
	require.Equal(t, "fb.b", flat[1].Path)
}

func TestFlattenNestedDerived(t *testing.T) {
	t.Parallel()

	inner := ir.Type{Kind: ir.Derived, Name: "Inner", Fields: []ir.Field{{Name: "x", Type: ir.IntegerType}}}
	outer := ir.Type{Kind: ir.Derived, Name: "Outer", Fields: []ir.Field{{Name: "inner", Type: inner}}}
	iface := ir.Interface{Locals: []ir.Decl{{Name: "P", Type: outer, Kind: ir.Local}}}

	flat, err := ir.Flatten(iface)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	require.Equal(t, "P.inner.x", flat[0].Path)
}

func TestFlattenRejectsCyclicDerivedType(t *testing.T) {
	t.Parallel()

	cyclic := ir.Type{Kind: ir.Derived, Name: "Cyclic"}
	cyclic.Fields = []ir.Field{{Name: "self", Type: cyclic}}
	iface := ir.Interface{Locals: []ir.Decl{{Name: "c", Type: cyclic, Kind: ir.Local}}}

	_, err := ir.Flatten(iface)
	require.Error(t, err)
}
