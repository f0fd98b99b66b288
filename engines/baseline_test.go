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

	"github.com/ahorn-lang/ahorn/config"
	"github.com/ahorn-lang/ahorn/internal/logging"
	"github.com/ahorn-lang/ahorn/internal/smttest"
)

func TestRunBaselineCoversTheStraightLineProgram(t *testing.T) {
	t.Parallel()
	program, ssaInfo, err := Compile(trivialProject())
	require.NoError(t, err)

	opts := config.Options{CycleBound: config.DefaultCycleBound, TimeoutMS: config.DefaultTimeoutMS}
	diag, err := RunBaseline(program, ssaInfo, smttest.New(0), opts, logging.Default())
	require.NoError(t, err)

	stats := diag.Stats()
	require.Equal(t, stats.StatementsTotal, stats.StatementsCovered)
	require.Empty(t, diag.Conflicts())
}

func TestRunBaselinePropagatesSeedError(t *testing.T) {
	t.Parallel()
	program, ssaInfo, err := Compile(trivialProject())
	require.NoError(t, err)

	opts := config.Options{UnreachableLabels: []string{"not-a-number"}}
	_, err = RunBaseline(program, ssaInfo, smttest.New(0), opts, logging.Default())
	require.Error(t, err)
}
