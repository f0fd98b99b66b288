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

package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahorn-lang/ahorn/guard"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/smt"
)

// summaryCycle is the sentinel cycle number a Summary's re-versioned names
// use, distinct from every real cycle number (which starts at 0) so a
// summary-local ContextualizedName can never collide with one minted during
// live execution.
const summaryCycle = -1

// Summary captures one realizable path through a procedure (spec §4.9): an
// entry and exit assumption literal, the intermediate chain between them,
// the expressions assumed at each literal, and the hard constraints
// asserted along the path with flattened names re-versioned to a path-local
// numbering that starts at 0 for each name's first write on this path.
//
// HardConstraints' expressions already reference only genuine free
// (uninterpreted) constants - Encode never emits a node referring to
// another flattened name by reference, it inlines that name's own
// expression tree at encode time (engine/encoder.go) - so no additional
// substitution of internal name references is needed when replaying a
// summary in a different calling context; only its free inputs need
// rebinding (see Applicable).
type Summary struct {
	Entry, Exit     guard.Literal
	Chain           []guard.Literal
	Assumptions     map[guard.Literal]smt.Expr
	HardConstraints map[guard.Literal]map[string]smt.Expr
}

// literalExpr returns lit's canonical boolean symbol: the single shared
// naming scheme every VC-mode/summary encoding uses to refer to an
// assumption literal as an SMT term.
func literalExpr(ctx smt.Context, lit guard.Literal) smt.Expr {
	return ctx.MakeBooleanConstant(fmt.Sprintf("lit~%d", lit))
}

func literalFromName(name string) (guard.Literal, bool) {
	rest, ok := strings.CutPrefix(name, "lit~")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return guard.Literal(n), true
}

// encode renders sum as the conjunction Applicable checks: the entry
// literal holds, each chain step implies the next, and each assumption
// holds conditionally on its literal.
func (sum *Summary) encode(ctx smt.Context) []smt.Expr {
	exprs := []smt.Expr{literalExpr(ctx, sum.Entry)}
	for i := 1; i < len(sum.Chain); i++ {
		exprs = append(exprs, ctx.Implies(literalExpr(ctx, sum.Chain[i-1]), literalExpr(ctx, sum.Chain[i])))
	}
	for lit, assumed := range sum.Assumptions {
		exprs = append(exprs, ctx.Implies(literalExpr(ctx, lit), assumed))
	}
	return exprs
}

// outputs returns, per original flattened name, the hard-constraint
// expression bound at that name's highest path-local version - the binding
// a caller installs into its own state when the summary is reused.
func (sum *Summary) outputs() map[string]smt.Expr {
	out := map[string]smt.Expr{}
	highest := map[string]int{}
	for _, lit := range sum.Chain {
		hc, ok := sum.HardConstraints[lit]
		if !ok {
			continue
		}
		for localName, expr := range hc {
			parsed, err := ParseContextualizedName(localName)
			if err != nil {
				continue
			}
			if v, seen := highest[parsed.Flattened]; !seen || parsed.Version > v {
				highest[parsed.Flattened] = parsed.Version
				out[parsed.Flattened] = expr
			}
		}
	}
	return out
}

// Summarizer maintains, per procedure scope, the list of summaries
// reconstructed from realized paths (spec §4.9).
type Summarizer struct {
	smt       smt.Context
	summaries map[string][]*Summary
}

// NewSummarizer constructs an empty Summarizer.
func NewSummarizer(ctx smt.Context) *Summarizer {
	return &Summarizer{smt: ctx, summaries: map[string][]*Summary{}}
}

// Summaries returns the cached summaries for scope, in the order they were
// recorded.
func (s *Summarizer) Summaries(scope string) []*Summary { return s.summaries[scope] }

// RecordExit reconstructs every realizable path from entry to exit by
// walking vc.Predecessors backwards from exit, and appends one candidate
// Summary per path found (spec §4.9: "on procedure exit the summarizer
// reconstructs all realizable paths ... each path yields one candidate
// summary").
func (s *Summarizer) RecordExit(scope string, vc *VCTables, entry, exit guard.Literal) {
	for _, chain := range walkPathsBackward(vc, entry, exit) {
		s.summaries[scope] = append(s.summaries[scope], buildSummary(s.smt, vc, chain))
	}
}

// walkPathsBackward enumerates every acyclic literal chain from entry to
// exit found by following vc.Predecessors backwards from exit. A visited
// set per branch guards against a cyclic predecessor graph (not expected in
// practice, since literals are minted fresh per vertex-in-cycle, but cheap
// to guard against).
func walkPathsBackward(vc *VCTables, entry, exit guard.Literal) [][]guard.Literal {
	var paths [][]guard.Literal
	var walk func(cur guard.Literal, acc []guard.Literal, visited guard.Set)
	walk = func(cur guard.Literal, acc []guard.Literal, visited guard.Set) {
		if visited.Contains(cur) {
			return
		}
		visited = visited.Copy().Add(cur)
		acc = append([]guard.Literal{cur}, acc...)
		if cur == entry {
			paths = append(paths, acc)
			return
		}
		preds := vc.Predecessors[cur]
		if preds.IsEmpty() {
			return
		}
		for p := range preds {
			walk(p, acc, visited)
		}
	}
	walk(exit, nil, guard.None())
	return paths
}

// buildSummary assembles a Summary from one realized literal chain,
// re-versioning each flattened name's hard constraints to a path-local
// numbering starting at 0.
func buildSummary(ctx smt.Context, vc *VCTables, chain []guard.Literal) *Summary {
	sum := &Summary{
		Entry:           chain[0],
		Exit:            chain[len(chain)-1],
		Chain:           append([]guard.Literal(nil), chain...),
		Assumptions:     map[guard.Literal]smt.Expr{},
		HardConstraints: map[guard.Literal]map[string]smt.Expr{},
	}
	localVersions := map[string]int{}
	for _, lit := range chain {
		if as := vc.Assumptions[lit]; len(as) > 0 {
			sum.Assumptions[lit] = ctx.And(as...)
		}
		hc, ok := vc.HardConstraints[lit]
		if !ok {
			continue
		}
		renamed := map[string]smt.Expr{}
		for globalName, expr := range hc {
			parsed, err := ParseContextualizedName(globalName)
			if err != nil {
				renamed[globalName] = expr
				continue
			}
			v := localVersions[parsed.Flattened]
			localVersions[parsed.Flattened] = v + 1
			local := ContextualizedName{Flattened: parsed.Flattened, Version: v, Cycle: summaryCycle}.String()
			renamed[local] = expr
		}
		sum.HardConstraints[lit] = renamed
	}
	return sum
}

// Applicable tries each cached summary for scope, substituting inputs'
// concrete valuations for their matching free constants, and returns the
// first one whose encoding is satisfiable together with its output bindings
// (spec §4.9). A summary rejected as unsat is pruned along with every other
// summary sharing a literal named in the unsat core; unknown leaves the
// summary cached but does not reuse it this time.
func (s *Summarizer) Applicable(scope string, timeoutMS int, inputs map[string]ir.Value) (*Summary, map[string]smt.Expr, bool) {
	for _, sum := range append([]*Summary(nil), s.summaries[scope]...) {
		exprs := sum.encode(s.smt)
		for name, val := range inputs {
			exprs = substituteValue(s.smt, exprs, name, val)
		}
		result := s.smt.Check(timeoutMS, exprs...)
		switch result.Status {
		case smt.Sat:
			return sum, sum.outputs(), true
		case smt.Unsat:
			s.prune(scope, result.UnsatCore)
		}
	}
	return nil, nil, false
}

// substituteValue rewrites every expr in exprs, replacing the free constant
// named name with val's literal encoding.
func substituteValue(ctx smt.Context, exprs []smt.Expr, name string, val ir.Value) []smt.Expr {
	kind := ir.Integer
	var literal smt.Expr
	if val.Kind == ir.BoolValue {
		kind = ir.Boolean
		literal = ctx.MakeBooleanValue(val.Bool)
	} else {
		literal = ctx.MakeIntegerValue(val.Int)
	}
	from := ctx.MakeConstant(name, kind)
	out := make([]smt.Expr, len(exprs))
	for i, e := range exprs {
		out[i] = ctx.Substitute(e, from, literal)
	}
	return out
}

// prune drops every cached summary for scope whose Chain contains a literal
// named by core's uninterpreted constants.
func (s *Summarizer) prune(scope string, core []smt.Expr) {
	failing := map[guard.Literal]bool{}
	for _, e := range core {
		for _, name := range s.smt.UninterpretedConstants(e) {
			if lit, ok := literalFromName(name); ok {
				failing[lit] = true
			}
		}
	}
	if len(failing) == 0 {
		return
	}
	var kept []*Summary
	for _, sum := range s.summaries[scope] {
		drop := false
		for _, lit := range sum.Chain {
			if failing[lit] {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, sum)
		}
	}
	s.summaries[scope] = kept
}
