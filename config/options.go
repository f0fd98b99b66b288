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

package config

import "github.com/ahorn-lang/ahorn/internal/logging"

// MergeStrategy selects when the Merger folds queued contexts (spec §4.8).
type MergeStrategy uint8

const (
	// AtAllJoinPoints merges as soon as a merge point's bucket is ready
	// (the default).
	AtAllJoinPoints MergeStrategy = iota
	// OnlyAtCycleEnd defers every merge until the cycle's context queue is
	// otherwise empty.
	OnlyAtCycleEnd
)

// Options holds the §6 global CLI flags, populated by cmd/ahorn via viper
// before an engine is constructed.
type Options struct {
	// CycleBound is `--cycle-bound`; the outer loop terminates after this
	// many cycles regardless of queue contents (spec §5).
	CycleBound uint

	// TimeoutMS is `--time-out` in milliseconds; the engine returns its
	// best result so far once wall-clock time exceeds this (spec §5).
	TimeoutMS uint

	// UnreachableLabels and UnreachableBranches are `--unreachable-labels`
	// and `--unreachable-branches`: a manually supplied seed for the
	// explorer's coverage map, used in place of or alongside the
	// value-set pre-pass's Result (spec §4.3, §4.7).
	UnreachableLabels   []string
	UnreachableBranches []string

	// Verbosity is `--verbose trace|info`.
	Verbosity logging.Level

	// ToDotPath is `--to-dot <path>`; empty disables graph dumping.
	ToDotPath string

	// TestSuitePath is `--test-suite <path>`, required by the `sse`
	// subcommand (spec §6).
	TestSuitePath string

	// GenerateTestSuiteDir is `--generate-test-suite <dir>`: one XML file
	// per derived test case is written here, named tc-<NNNN>.xml in
	// declaration order (spec §6, SPEC_FULL.md §C).
	GenerateTestSuiteDir string

	// Merge selects the Merger's strategy (spec §4.8).
	Merge MergeStrategy
}

// Default returns the spec §6 default Options: a 10-cycle bound, a
// 10-second time-out, info-level logging, at-all-join-points merging.
func Default() Options {
	return Options{
		CycleBound: DefaultCycleBound,
		TimeoutMS:  DefaultTimeoutMS,
		Verbosity:  logging.Info,
		Merge:      AtAllJoinPoints,
	}
}
