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
	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/config"
	"github.com/ahorn-lang/ahorn/diagnostic"
	"github.com/ahorn-lang/ahorn/engine"
	"github.com/ahorn-lang/ahorn/internal/logging"
	"github.com/ahorn-lang/ahorn/passes"
	"github.com/ahorn-lang/ahorn/smt"
	"github.com/ahorn-lang/ahorn/valueset"
)

// RunOA drives spec §4.11's over-approximating engine: no Merger, and -
// where analyzer is non-nil - the Explorer's coverage map is seeded from
// an external value-set pre-pass (spec §4.3) before exploration begins,
// pruning branches the abstract domain already proved unreachable.
//
// True over-approximation would also drop Executor's concrete store and
// run symbolic-only; Executor has no such mode (Evaluate always resolves
// through both the concrete and symbolic stores together), so oa reuses
// the same concrete+symbolic Executor every other engine does. This is a
// known simplification - see DESIGN.md.
func RunOA(program *cfg.Program, ssaInfo map[string]*passes.SSAInfo, ctx smt.Context, analyzer valueset.Analyzer, domain valueset.Domain, opts config.Options, logger *logging.Logger) (*diagnostic.Engine, error) {
	entry, _ := program.Lookup(program.Entry)
	ex := engine.NewExecutor(ctx, programMap(program), ssaInfo, false, int(opts.TimeoutMS))
	explorer := engine.NewExplorer(engine.DepthFirst, entry, nil)
	diag := diagnostic.NewEngine()

	if err := seedManual(explorer, opts); err != nil {
		return nil, err
	}

	if analyzer != nil {
		if result, err := analyzer.Analyze(program, domain); err != nil {
			logger.Warn("value-set pre-pass failed, continuing without it", "error", err)
		} else {
			explorer.SeedUnreachable(result.UnreachableLabels, result.UnreachableBranches)
		}
	}

	run(engine.NewContext(entry), executorStepper{ex}, explorer, nil, diag, opts, logger)
	return diag, nil
}
