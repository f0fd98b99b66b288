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

// RunBaseline drives spec §4.11's baseline engine: an Executor in plain
// (non-VC) mode paired with an Explorer and no Merger. A context forks at
// every feasible branch exactly as Executor.tryFork already does on its
// own - baseline does not collapse this into a single deterministic path,
// since Executor has no flag to suppress forking. What baseline actually
// drops relative to compositional is the Merger/Summarizer machinery: two
// contexts that would otherwise converge at a join point simply keep
// exploring independently until the cycle bound or timeout ends them.
func RunBaseline(program *cfg.Program, ssaInfo map[string]*passes.SSAInfo, ctx smt.Context, opts config.Options, logger *logging.Logger) (*diagnostic.Engine, error) {
	entry, _ := program.Lookup(program.Entry)
	ex := engine.NewExecutor(ctx, programMap(program), ssaInfo, false, int(opts.TimeoutMS))
	explorer := engine.NewExplorer(engine.DepthFirst, entry, nil)
	diag := diagnostic.NewEngine()

	if err := seedManual(explorer, opts); err != nil {
		return nil, err
	}

	run(engine.NewContext(entry), executorStepper{ex}, explorer, nil, diag, opts, logger)
	return diag, nil
}
