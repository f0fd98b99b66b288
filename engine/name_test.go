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

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahorn-lang/ahorn/engine"
)

func TestContextualizedNameRoundTrip(t *testing.T) {
	t.Parallel()
	n := engine.ContextualizedName{Flattened: "fb1.x", Version: 3, Cycle: 7}
	require.Equal(t, "fb1.x_3__7", n.String())

	back, err := engine.ParseContextualizedName(n.String())
	require.NoError(t, err)
	require.Equal(t, n, back)
}

func TestContextualizedNameScopeDepth(t *testing.T) {
	t.Parallel()
	require.Equal(t, 0, engine.ContextualizedName{Flattened: "x"}.ScopeDepth())
	require.Equal(t, 2, engine.ContextualizedName{Flattened: "fb1.inner.x"}.ScopeDepth())
}

func TestParseContextualizedNameRejectsMalformed(t *testing.T) {
	t.Parallel()
	cases := []string{
		"no-cycle-separator",
		"missing_version__7",
		"x_abc__7",
		"x_3__abc",
	}
	for _, s := range cases {
		_, err := engine.ParseContextualizedName(s)
		require.Errorf(t, err, "expected error for %q", s)
	}
}

func TestCompareContextualizedNamesOrdersByCycleThenDepthThenNameThenVersion(t *testing.T) {
	t.Parallel()
	earlierCycle := engine.ContextualizedName{Flattened: "z", Version: 9, Cycle: 0}
	laterCycle := engine.ContextualizedName{Flattened: "a", Version: 0, Cycle: 1}
	require.True(t, engine.CompareContextualizedNames(earlierCycle, laterCycle) < 0)

	shallow := engine.ContextualizedName{Flattened: "x", Cycle: 0}
	deep := engine.ContextualizedName{Flattened: "fb1.x", Cycle: 0}
	require.True(t, engine.CompareContextualizedNames(shallow, deep) < 0)

	a := engine.ContextualizedName{Flattened: "a", Cycle: 0}
	b := engine.ContextualizedName{Flattened: "b", Cycle: 0}
	require.True(t, engine.CompareContextualizedNames(a, b) < 0)

	v0 := engine.ContextualizedName{Flattened: "x", Version: 0, Cycle: 0}
	v1 := engine.ContextualizedName{Flattened: "x", Version: 1, Cycle: 0}
	require.True(t, engine.CompareContextualizedNames(v0, v1) < 0)
}
