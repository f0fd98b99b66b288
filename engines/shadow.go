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
	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/internal/logging"
	"github.com/ahorn-lang/ahorn/internal/orderedmap"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/passes"
	"github.com/ahorn-lang/ahorn/smt"
	"github.com/ahorn-lang/ahorn/testcase"
)

// Seed is one test case's initial variable assignment, keyed by flattened
// (unversioned) name - the shape RunShadow consumes for phase 1's seeding
// and produces for phase 2's derived cases. SeedsFromTestSuite/ToTestCases
// bridge it to testcase.TestCase's XML form (spec §6).
type Seed map[string]ir.Value

// SeedsFromTestSuite reads every test case in dir and returns its initial
// valuation as a Seed - the `--test-suite <dir>` path shadow mode seeds
// phase 1 from (spec §6). Per-cycle Input valuations are not consumed:
// RunShadow's divergence executor drives purely off the condition's
// old/new encodings at each step, it never needs fresh whole-program
// input injected mid-run the way a replaying simulator would.
func SeedsFromTestSuite(dir string) ([]Seed, error) {
	cases, err := testcase.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	seeds := make([]Seed, 0, len(cases))
	for _, tc := range cases {
		initial, err := tc.Initial()
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, Seed(initial))
	}
	return seeds, nil
}

// ToTestCases renders seeds as testcase.TestCase values, for
// `--generate-test-suite` to then hand to testcase.WriteDir.
func ToTestCases(seeds []Seed) ([]testcase.TestCase, error) {
	out := make([]testcase.TestCase, 0, len(seeds))
	for _, seed := range seeds {
		tc, err := testcase.FromInitial(map[string]ir.Value(seed))
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, nil
}

// OutputDiff is one externally observable difference the final simulator
// pass (spec §4.10, §4.11 shadow) found between the old and new versions'
// concrete output valuation for the same derived test case.
//
// *S2 - Kuchta et al. toy.* is the scenario this exists to demonstrate:
// "the final comparison reports the output x differs (old = 1, new = 0)".
type OutputDiff struct {
	Seed     Seed
	Name     string
	Old, New ir.Value
}

// ShadowResult is spec §4.11's shadow engine's combined report: the
// termination diagnostics from both phases, every fresh test case phase 2
// derived while exploring forward from a divergent context, and every
// output difference the final simulator pass found among them.
type ShadowResult struct {
	Phase1, Phase2 *diagnostic.Engine
	Derived        []Seed
	OutputDiffs    []OutputDiff
}

// RunShadow drives spec §4.11's two-phase shadow engine over program, whose
// IR already carries the change annotations (ir.ChangeExpr) the divergence
// executor keys off of (spec §4.10) - there is no separate old-program
// binary, old and new are both encoded from the one IR tree.
//
// Phase 1 runs the divergence executor from each of seeds, stopping each
// context at Divergent or PotentialDivergent (collecting every context
// that status produces) or at the cycle/timeout budget. Phase 2 then runs
// a bounded plain (non-shadow) symbolic execution forward from each
// collected context on the new version, using the SMT model at each
// forked branch to derive a fresh concrete Seed. A final simulator pass
// then replays every derived seed twice, concretely: once with every
// ChangeExpr resolved to its old operand and once to its new operand
// (Executor.ReplayOld), and reports every declared output whose final
// value differs between the two runs (spec §4.11: "a final simulator
// pass compares outputs of the divergent test cases between old and new
// versions to report externally observable differences").
func RunShadow(program *cfg.Program, ssaInfo map[string]*passes.SSAInfo, ctx smt.Context, seeds []Seed, opts config.Options, logger *logging.Logger) ShadowResult {
	entry, _ := program.Lookup(program.Entry)
	pm := programMap(program)

	divergenceEx := engine.NewShadow(engine.NewExecutor(ctx, pm, ssaInfo, false, int(opts.TimeoutMS)))
	phase1 := diagnostic.NewEngine()
	flagged := runPhase1(entry, divergenceEx, seeds, opts, logger, phase1)

	plainEx := engine.NewExecutor(ctx, pm, ssaInfo, false, int(opts.TimeoutMS))
	phase2 := diagnostic.NewEngine()
	derived := runPhase2(entry, plainEx, flagged, opts, logger, phase2)

	diffs := compareOutputs(program, ssaInfo, ctx, derived, opts)

	return ShadowResult{Phase1: phase1, Phase2: phase2, Derived: derived, OutputDiffs: diffs}
}

// compareOutputs is the final simulator pass: for each of seeds, it
// concretely replays program once against the old version and once
// against the new (simulateConcrete), then diffs the two runs' output
// valuations.
func compareOutputs(program *cfg.Program, ssaInfo map[string]*passes.SSAInfo, ctx smt.Context, seeds []Seed, opts config.Options) []OutputDiff {
	var diffs []OutputDiff
	for _, seed := range seeds {
		oldOut := simulateConcrete(program, ssaInfo, ctx, seed, true, opts)
		newOut := simulateConcrete(program, ssaInfo, ctx, seed, false, opts)
		for name, newVal := range newOut {
			if oldVal, ok := oldOut[name]; ok && oldVal.String() == newVal.String() {
				continue
			}
			diffs = append(diffs, OutputDiff{Seed: seed, Name: name, Old: oldOut[name], New: newVal})
		}
	}
	return diffs
}

// simulateConcrete runs a single concrete-only replay of program from its
// entry, seeded with seed, for up to opts.CycleBound cycles, resolving
// every ChangeExpr to its old or new operand per replayOld
// (Executor.ReplayOld), and returns the final concrete value of every
// declared output. Forked siblings a feasible branch would otherwise
// produce are dropped: a simulator follows the one concrete path seed's
// values determine, it does not explore.
func simulateConcrete(program *cfg.Program, ssaInfo map[string]*passes.SSAInfo, ctx smt.Context, seed Seed, replayOld bool, opts config.Options) map[string]ir.Value {
	entry, _ := program.Lookup(program.Entry)
	ex := engine.NewExecutor(ctx, programMap(program), ssaInfo, false, int(opts.TimeoutMS))
	ex.ReplayOld = replayOld

	c := seedContext(entry, seed)
	bound := opts.CycleBound
	if bound == 0 {
		bound = config.DefaultCycleBound
	}
	for step := uint(0); step < bound*64 && uint(c.Cycle) < bound; step++ {
		if _, _, err := ex.Step(c); err != nil {
			break
		}
	}
	return outputValuation(entry, c)
}

// outputValuation reads the current concrete value of every output-kind
// declaration out of c's state.
func outputValuation(entry *cfg.CFG, c *engine.Context) map[string]ir.Value {
	out := map[string]ir.Value{}
	for _, d := range entry.Flattened {
		if d.Kind != ir.Output {
			continue
		}
		v := c.State.MaxVersion(d.Path)
		if v < 0 {
			continue
		}
		name := engine.ContextualizedName{Flattened: d.Path, Version: v, Cycle: c.Cycle}.String()
		if val, ok := c.State.Concrete.Load(name); ok {
			out[d.Path] = val
		}
	}
	return out
}

// runPhase1 steps each seeded context through the divergence executor and
// returns every context that stopped Divergent or PotentialDivergent.
func runPhase1(entry *cfg.CFG, sh *engine.Shadow, seeds []Seed, opts config.Options, logger *logging.Logger, diag *diagnostic.Engine) []*engine.Context {
	var flagged []*engine.Context
	for _, seed := range seeds {
		c := seedContext(entry, seed)
		for step := uint(0); opts.CycleBound == 0 || step < opts.CycleBound*64; step++ {
			forked, status, err := sh.Step(c)
			if err != nil {
				ae, isErr := err.(*errs.Error)
				if isErr && !ae.Kind.Fatal() {
					diag.Record(diagnostic.Conflict{Kind: ae.Kind, Scope: c.Top().Scope, Label: c.State.Vertex, Cycle: c.Cycle, Message: ae.Error()})
					break
				}
				logger.Warn("phase 1 fatal error", "error", err)
				break
			}
			if status == engine.Divergent || status == engine.PotentialDivergent {
				flagged = append(flagged, c)
				flagged = append(flagged, forked...)
				break
			}
			if opts.CycleBound > 0 && uint(c.Cycle) >= opts.CycleBound {
				break
			}
			if len(forked) == 0 {
				continue
			}
			// Not yet diverged: only one branch was actually feasible on
			// both sides (ordinary Expected fork) - keep following the
			// first and drop the rest for phase 1's purposes, since a
			// non-divergent fork carries nothing phase 2 needs.
		}
	}
	return flagged
}

// runPhase2 runs a bounded exploration forward from each flagged context on
// the new version, recording one derived Seed per forked branch (whose SMT
// model Executor.tryFork stored into the fork's State.Concrete) and one per
// context that reaches the cycle bound.
func runPhase2(entry *cfg.CFG, ex *engine.Executor, flagged []*engine.Context, opts config.Options, logger *logging.Logger, diag *diagnostic.Engine) []Seed {
	var derived []Seed
	explorer := engine.NewExplorer(engine.DepthFirst, entry, nil)
	for _, c := range flagged {
		explorer.Push(c)
	}

	for i := 0; i < 4096; i++ {
		c, ok := explorer.Pop()
		if !ok {
			break
		}
		if opts.CycleBound > 0 && uint(c.Cycle) >= opts.CycleBound {
			derived = append(derived, snapshot(c))
			continue
		}
		forked, _, err := ex.Step(c)
		if err != nil {
			ae, isErr := err.(*errs.Error)
			if isErr && !ae.Kind.Fatal() {
				diag.Record(diagnostic.Conflict{Kind: ae.Kind, Scope: c.Top().Scope, Label: c.State.Vertex, Cycle: c.Cycle, Message: ae.Error()})
				continue
			}
			logger.Warn("phase 2 fatal error", "error", err)
			continue
		}
		explorer.Push(c)
		if forked != nil {
			derived = append(derived, snapshot(forked))
			explorer.Push(forked)
		}
	}
	return derived
}

// seedContext builds a fresh Context at entry with seed's values installed
// as the initial (cycle 0, version 1 - NextVersion's first) concrete binding of each named
// variable, under the same ContextualizedName-keyed scheme every other
// store into State.Concrete uses - without this, State.MaxVersion would
// never find a seeded variable's version and any read of it would fail.
func seedContext(entry *cfg.CFG, seed Seed) *engine.Context {
	c := engine.NewContext(entry)
	c.State.Shadow = orderedmap.New[string, engine.ShadowEntry]()
	for name, val := range seed {
		version := c.State.NextVersion(name)
		c.State.Concrete.Store(engine.ContextualizedName{Flattened: name, Version: version, Cycle: c.Cycle}.String(), val)
	}
	return c
}

// snapshot copies c.State.Concrete's current bindings out into a Seed.
func snapshot(c *engine.Context) Seed {
	out := Seed{}
	c.State.Concrete.Range(func(k string, v ir.Value) bool {
		out[k] = v
		return true
	})
	return out
}
