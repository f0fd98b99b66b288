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

package testcase_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/testcase"
)

func TestFromInitialRoundTripsThroughXML(t *testing.T) {
	t.Parallel()
	initial := map[string]ir.Value{
		"running": ir.NewBool(true),
		"count":   ir.NewInt(42),
	}

	tc, err := testcase.FromInitial(initial)
	require.NoError(t, err)
	require.NoError(t, tc.AddCycleInput(0, map[string]ir.Value{"running": ir.NewBool(false)}))

	data, err := testcase.Marshal(tc)
	require.NoError(t, err)

	back, err := testcase.Unmarshal(data)
	require.NoError(t, err)

	got, err := back.Initial()
	require.NoError(t, err)
	if diff := cmp.Diff(initial, got, cmp.Comparer(func(a, b ir.Value) bool { return a.String() == b.String() })); diff != "" {
		t.Fatalf("Initial() mismatch (-want +got):\n%s", diff)
	}

	cycle0, ok, err := back.InputAt(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "false", cycle0["running"].String())

	_, ok, err = back.InputAt(1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestValuationOfRejectsUnencodableKind(t *testing.T) {
	t.Parallel()
	_, err := testcase.FromInitial(map[string]ir.Value{"s": ir.Nondeterministic()})
	require.Error(t, err)
}

func TestWriteDirThenReadDirRoundTrips(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	one, err := testcase.FromInitial(map[string]ir.Value{"a": ir.NewInt(1)})
	require.NoError(t, err)
	two, err := testcase.FromInitial(map[string]ir.Value{"a": ir.NewInt(2)})
	require.NoError(t, err)

	require.NoError(t, testcase.WriteDir(dir, []testcase.TestCase{one, two}))
	require.FileExists(t, filepath.Join(dir, "tc-0000.xml"))
	require.FileExists(t, filepath.Join(dir, "tc-0001.xml"))

	cases, err := testcase.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	firstVals, err := cases[0].Initial()
	require.NoError(t, err)
	require.Equal(t, "1", firstVals["a"].String())
}

func TestReadDirIgnoresNonXMLFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, testcase.WriteDir(dir, nil))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not xml"), 0o644))

	cases, err := testcase.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, cases)
}
