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
	"time"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/config"
	"github.com/ahorn-lang/ahorn/diagnostic"
	"github.com/ahorn-lang/ahorn/engine"
	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/internal/logging"
)

// run is the single driver loop every top-level engine shares (spec §5): it
// is single-threaded and cooperative, the explorer is the only scheduler,
// and the SMT façade's Check call is the only blocking operation. It pops
// one context, steps it until that context either reaches a merge point,
// hits the cycle bound, or the wall-clock budget expires, then moves to the
// next pending context; when the explorer empties, any contexts the merger
// is holding are folded and pushed back before the loop checks again.
// merger may be nil (baseline, oa: no merging).
func run(seed *engine.Context, step stepper, explorer *engine.Explorer, merger *engine.Merger, diag *diagnostic.Engine, opts config.Options, logger *logging.Logger) {
	stats := diag.Stats()
	start := time.Now()
	explorer.Push(seed)

	reason := errs.CoverageReached

outer:
	for {
		if explorer.IsEmpty() {
			if merger == nil {
				break
			}
			merged, ok, err := merger.Merge()
			if err != nil {
				logger.Warn("merge failed", "error", err)
				reason = errs.IRMalformed
				break
			}
			if !ok {
				break
			}
			stats.ContextsMerged++
			explorer.Push(merged)
			continue
		}

		c, ok := explorer.Pop()
		if !ok {
			continue
		}
		pushedToMerger := false

		for {
			if opts.TimeoutMS > 0 && time.Since(start) > time.Duration(opts.TimeoutMS)*time.Millisecond {
				reason = errs.Timeout
				break outer
			}
			if opts.CycleBound > 0 && uint(c.Cycle) >= opts.CycleBound {
				break
			}
			if merger != nil && merger.ReachedMergePoint(c) {
				merger.Push(c)
				pushedToMerger = true
				break
			}

			cfgBefore := c.Top().CFG
			from := c.State.Vertex

			forked, status, err := step.Step(c)
			if err != nil {
				ae, isErr := err.(*errs.Error)
				if isErr && !ae.Kind.Fatal() {
					diag.Record(diagnostic.Conflict{
						Kind:    ae.Kind,
						Scope:   c.Top().Scope,
						Label:   from,
						Cycle:   c.Cycle,
						Message: ae.Error(),
					})
					break
				}
				logger.Warn("fatal engine error", "error", err)
				reason = errs.IRMalformed
				break outer
			}
			logger.Trace("step", "scope", c.Top().Scope, "label", int(from), "status", status)

			updateBranchCoverage(explorer, cfgBefore, from, c.State.Vertex)
			for _, f := range forked {
				updateBranchCoverage(explorer, cfgBefore, from, f.State.Vertex)
				explorer.Push(f)
				stats.ContextsForked++
			}

			if status == engine.Divergent {
				break
			}
		}

		if merger != nil && !pushedToMerger && merger.Mode() == config.OnlyAtCycleEnd && explorer.IsEmpty() {
			merger.Push(c)
		}
	}

	stats.Elapsed = time.Since(start)
	stats.StatementsCovered, stats.StatementsTotal = explorer.StatementCoverage()
	stats.BranchesCovered, stats.BranchesTotal = explorer.BranchCoverage()
	stats.TerminationReason = reason
}

// updateBranchCoverage records that from's vertex was reached and, if it is
// an if-vertex, which arm (the one leading to to) was taken.
func updateBranchCoverage(explorer *engine.Explorer, cfgObj *cfg.CFG, from, to cfg.Label) {
	v, ok := cfgObj.Vertex(from)
	if !ok || v.Kind != cfg.RegularVertex {
		return
	}
	isIf := v.Instr.Kind == cfg.IfInstrKind
	tookTrue := false
	if isIf {
		for _, e := range cfgObj.Out(from) {
			if e.Kind == cfg.TrueBranch && e.To == to {
				tookTrue = true
			}
		}
	}
	explorer.UpdateCoverage(from, tookTrue, isIf)
}
