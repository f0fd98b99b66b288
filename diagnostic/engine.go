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

// Package diagnostic hosts the diagnostic engine: it accumulates the
// conflicts raised by isolated-context faults (spec §7: arithmetic_error,
// solver_unknown) during a run, together with the run's final Statistics,
// then renders the CLI's human-readable report at exit.
//
// Grounded on the teacher's diagnostic.Engine, which separates "accumulate
// possible problems, then decide what to report" into two phases
// (accumulation/analyzer.go feeds candidate facts in, engine.go decides
// what survives to the final diagnostic list); Ahorn generalizes the same
// two-phase shape to also accumulate run statistics, not only conflicts.
package diagnostic

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ahorn-lang/ahorn/internal/errs"
)

// Statistics is the final per-run summary SPEC_FULL.md §C adds: cycles run,
// contexts forked/merged, branch/statement coverage, summary hit rate, and
// wall-clock spent executing.
type Statistics struct {
	CyclesRun         uint
	ContextsForked    uint
	ContextsMerged    uint
	BranchesCovered   uint
	BranchesTotal     uint
	StatementsCovered uint
	StatementsTotal   uint
	SummaryHits       uint
	SummaryMisses     uint
	Elapsed           time.Duration
	TerminationReason errs.Kind
}

// BranchCoverage returns the fraction of branches covered, or 0 if none
// exist (spec §8 scenario S1: "explorer reports branch coverage 0.5").
func (s Statistics) BranchCoverage() float64 {
	if s.BranchesTotal == 0 {
		return 0
	}
	return float64(s.BranchesCovered) / float64(s.BranchesTotal)
}

func (s Statistics) String() string {
	return fmt.Sprintf(
		"cycles=%d forked=%d merged=%d branch_coverage=%.2f summaries=%d/%d elapsed=%s reason=%s",
		s.CyclesRun, s.ContextsForked, s.ContextsMerged, s.BranchCoverage(),
		s.SummaryHits, s.SummaryHits+s.SummaryMisses, s.Elapsed, s.TerminationReason)
}

// Engine accumulates Conflicts and a running Statistics across one engine
// run, then renders them on demand (spec §7: "errors that indicate a
// property of the program under analysis are isolated to the offending
// context and surfaced as statistics or as a failing test case").
type Engine struct {
	conflicts []Conflict
	stats     Statistics
}

// NewEngine constructs an empty diagnostic Engine.
func NewEngine() *Engine { return &Engine{} }

// Record appends an isolated-context conflict.
func (e *Engine) Record(c Conflict) { e.conflicts = append(e.conflicts, c) }

// Conflicts returns every recorded conflict, sorted by cycle then scope
// then label so the report groups faults by where they occurred.
func (e *Engine) Conflicts() []Conflict {
	out := slices.Clone(e.conflicts)
	slices.SortFunc(out, func(a, b Conflict) int {
		if n := cmp.Compare(a.Cycle, b.Cycle); n != 0 {
			return n
		}
		if n := cmp.Compare(a.Scope, b.Scope); n != 0 {
			return n
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// Stats returns the Engine's running Statistics for in-place mutation by
// the engine package's executor/explorer loop.
func (e *Engine) Stats() *Statistics { return &e.stats }

// Report renders the accumulated conflicts and final statistics as the
// CLI's human-readable exit summary.
func (e *Engine) Report() string {
	var b strings.Builder
	for _, c := range e.Conflicts() {
		fmt.Fprintln(&b, c.String())
	}
	fmt.Fprintln(&b, e.stats.String())
	return b.String()
}
