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
)

// RunCBMC drives spec §4.11's cbmc-style engine: an Executor in VC mode
// paired with an Explorer and a Merger, with no Summarizer - cbmc-style
// unrolling inlines every call rather than caching per-procedure summaries,
// and defers every merge to the end of the cycle budget rather than
// folding eagerly at each join point, regardless of the configured
// MergeStrategy.
//
// The per-branch SMT.Check calls Executor already performs at fork points
// stand in for cbmc's single end-of-unrolling check: building a genuinely
// deferred one-shot global encoding would mean bypassing Executor's
// incremental Encode/Check entirely, which this package cannot do without
// reaching into the engine package's internals. Recorded in DESIGN.md.
func RunCBMC(program *cfg.Program, ssaInfo map[string]*passes.SSAInfo, ctx smt.Context, opts config.Options, logger *logging.Logger) (*diagnostic.Engine, error) {
	entry, _ := program.Lookup(program.Entry)
	pm := programMap(program)

	ex := engine.NewExecutor(ctx, pm, ssaInfo, true, int(opts.TimeoutMS))
	merger := engine.NewMerger(ctx, pm, config.OnlyAtCycleEnd)
	explorer := engine.NewExplorer(engine.DepthFirst, entry, merger)
	diag := diagnostic.NewEngine()

	if err := seedManual(explorer, opts); err != nil {
		return nil, err
	}

	seed := engine.NewContext(entry)
	seed.State.VC = engine.NewVCTables()
	run(seed, executorStepper{ex}, explorer, merger, diag, opts, logger)
	return diag, nil
}
