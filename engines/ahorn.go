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

// RunAhorn drives spec §4.11's compositional engine: an Executor in VC
// mode paired with an Explorer, a Merger, and a Summarizer. The Executor
// consults the Summarizer itself at every callee entry and exit (spec
// §4.9: a call whose cached summary applies returns immediately with a
// refined state instead of descending; every genuinely-executed call
// caches the realizable paths found at its exit).
func RunAhorn(program *cfg.Program, ssaInfo map[string]*passes.SSAInfo, ctx smt.Context, opts config.Options, logger *logging.Logger) (*diagnostic.Engine, error) {
	entry, _ := program.Lookup(program.Entry)
	pm := programMap(program)

	ex := engine.NewExecutor(ctx, pm, ssaInfo, true, int(opts.TimeoutMS))
	ex.Summarizer = engine.NewSummarizer(ctx)
	merger := engine.NewMerger(ctx, pm, opts.Merge)
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
