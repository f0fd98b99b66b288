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
	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/config"
	"github.com/ahorn-lang/ahorn/guard"
	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/smt"
)

// mergeSite is the static half of a merge point (spec §4.8): one procedure
// scope plus a label reached by more than one intraprocedural edge, or a
// procedure exit.
type mergeSite struct {
	Scope string
	Label cfg.Label
}

// MergePoint is the full runtime key a Merger buckets pending contexts
// under (spec §4.8): scope, call-stack depth, label, and the caller-side
// return label of the current frame.
type MergePoint struct {
	Scope       string
	Depth       int
	Label       cfg.Label
	ReturnLabel cfg.Label
}

// computeMergeSites finds every vertex in program that qualifies as a merge
// site: more than one incoming intraprocedural edge, or the procedure exit.
func computeMergeSites(program map[string]*cfg.CFG) map[mergeSite]bool {
	sites := map[mergeSite]bool{}
	for scope, c := range program {
		sites[mergeSite{Scope: scope, Label: c.Exit()}] = true
		for _, v := range c.Vertices() {
			if v.Kind != cfg.RegularVertex {
				continue
			}
			if len(c.IntraproceduralIn(v.Label)) > 1 {
				sites[mergeSite{Scope: scope, Label: v.Label}] = true
			}
		}
	}
	return sites
}

// Merger owns a set of merge points and the contexts queued under each,
// folding queued contexts pairwise with Merge (spec §4.8). Its strategy
// (config.AtAllJoinPoints vs config.OnlyAtCycleEnd) is consulted by the
// owning engine to decide when to call Merge, not by Merger itself - Merger
// only knows how to fold, not when.
type Merger struct {
	smt     smt.Context
	sites   map[mergeSite]bool
	mode    config.MergeStrategy
	pending map[MergePoint][]*Context
}

// NewMerger constructs a Merger whose merge sites are computed statically
// from program.
func NewMerger(ctx smt.Context, program map[string]*cfg.CFG, mode config.MergeStrategy) *Merger {
	return &Merger{
		smt:     ctx,
		sites:   computeMergeSites(program),
		mode:    mode,
		pending: map[MergePoint][]*Context{},
	}
}

// Mode returns the configured merge strategy.
func (m *Merger) Mode() config.MergeStrategy { return m.mode }

// ReachedMergePoint is a constant-time membership test for whether c's
// current vertex is a merge site.
func (m *Merger) ReachedMergePoint(c *Context) bool {
	top := c.Top()
	return m.sites[mergeSite{Scope: top.Scope, Label: c.State.Vertex}]
}

func keyFor(c *Context) MergePoint {
	top := c.Top()
	return MergePoint{Scope: top.Scope, Depth: c.Depth(), Label: c.State.Vertex, ReturnLabel: top.ReturnLabel}
}

// Push queues c under its merge-point tuple.
func (m *Merger) Push(c *Context) {
	key := keyFor(c)
	m.pending[key] = append(m.pending[key], c)
}

// IsEmpty reports whether no context is queued at any merge point.
func (m *Merger) IsEmpty() bool {
	for _, cs := range m.pending {
		if len(cs) > 0 {
			return false
		}
	}
	return true
}

// Merge pops the deepest non-empty bucket and folds its contexts pairwise,
// returning the single resulting context, or (nil, false) if nothing is
// queued.
func (m *Merger) Merge() (*Context, bool, error) {
	var deepestKey MergePoint
	found := false
	for key, cs := range m.pending {
		if len(cs) == 0 {
			continue
		}
		if !found || key.Depth > deepestKey.Depth {
			deepestKey = key
			found = true
		}
	}
	if !found {
		return nil, false, nil
	}

	contexts := m.pending[deepestKey]
	delete(m.pending, deepestKey)

	merged := contexts[0]
	for _, next := range contexts[1:] {
		var err error
		merged, err = m.mergeTwo(merged, next)
		if err != nil {
			return nil, false, err
		}
	}
	return merged, true, nil
}

// mergeTwo folds c2 into a clone of c1 per spec §4.8's merge rules.
func (m *Merger) mergeTwo(c1, c2 *Context) (*Context, error) {
	if len(c1.Frames) != len(c2.Frames) {
		return nil, errs.New(errs.IRMalformed, "merger: frame stacks differ in depth (%d vs %d)", len(c1.Frames), len(c2.Frames))
	}
	for i := range c1.Frames {
		if c1.Frames[i].Scope != c2.Frames[i].Scope || c1.Frames[i].ReturnLabel != c2.Frames[i].ReturnLabel {
			return nil, errs.New(errs.IRMalformed, "merger: frame %d disagrees on scope/return label between merged contexts", i)
		}
	}

	result, err := c1.Clone()
	if err != nil {
		return nil, err
	}

	pc1 := m.conjunction(c1.State.PathConstraint)
	pc2 := m.conjunction(c2.State.PathConstraint)
	result.State.PathConstraint = []smt.Expr{m.smt.Or(pc1, pc2)}

	names := map[string]bool{}
	for name := range c1.State.versions {
		names[name] = true
	}
	for name := range c2.State.versions {
		names[name] = true
	}

	for name := range names {
		v1, e1, ok1 := latest(c1.State, c1.Cycle, name)
		v2, e2, ok2 := latest(c2.State, c2.Cycle, name)

		var finalExpr smt.Expr
		switch {
		case ok1 && ok2 && e1.String() == e2.String():
			finalExpr = e1
		case ok1 && ok2:
			finalExpr = m.smt.Ite(pc1, e1, e2)
		case ok1:
			finalExpr = e1
		default:
			finalExpr = e2
		}

		version := result.State.NextVersion(name)
		key := ContextualizedName{name, version, result.Cycle}.String()
		result.State.Symbolic.Store(key, finalExpr)

		concreteVal, haveConcrete := ir.Value{}, false
		if v1 >= 0 {
			concreteVal, haveConcrete = c1.State.Concrete.Load(ContextualizedName{name, v1, c1.Cycle}.String())
		}
		if !haveConcrete && v2 >= 0 {
			concreteVal, haveConcrete = c2.State.Concrete.Load(ContextualizedName{name, v2, c2.Cycle}.String())
		}
		if haveConcrete {
			result.State.Concrete.Store(key, concreteVal)
		}
	}

	if c2.State.Shadow != nil {
		if result.State.Shadow == nil {
			result.State.Shadow = c2.State.Shadow.Copy()
		} else {
			c2.State.Shadow.Range(func(k string, v ShadowEntry) bool {
				if _, exists := result.State.Shadow.Load(k); !exists {
					result.State.Shadow.Store(k, v)
				}
				return true
			})
		}
	}

	if c2.State.VC != nil {
		if result.State.VC == nil {
			result.State.VC = c2.State.VC.Copy()
		} else {
			mergeVCTables(result.State.VC, c2.State.VC)
		}
	}

	for i := range result.Frames {
		l1 := m.conjunction(c1.Frames[i].Local)
		l2 := m.conjunction(c2.Frames[i].Local)
		result.Frames[i].Local = []smt.Expr{m.smt.Or(l1, l2)}
	}

	return result, nil
}

// latest returns the highest version number and symbolic expression bound
// to name in s at cycle, or (-1, nil, false) if name was never written in s.
func latest(s *State, cycle int, name string) (int, smt.Expr, bool) {
	v := s.MaxVersion(name)
	if v < 0 {
		return -1, nil, false
	}
	e, ok := s.Symbolic.Load(ContextualizedName{name, v, cycle}.String())
	return v, e, ok
}

// conjunction ANDs together a path constraint slice, defaulting to `true`
// for an empty constraint.
func (m *Merger) conjunction(exprs []smt.Expr) smt.Expr {
	if len(exprs) == 0 {
		return m.smt.MakeBooleanValue(true)
	}
	return m.smt.And(exprs...)
}

// mergeVCTables unions src's bookkeeping into dst in place (spec §4.8:
// "prior versions, shadow stores, VC tables, and unknown-summary tables are
// unioned; preceding assumption literals are deduplicated").
func mergeVCTables(dst, src *VCTables) {
	seen := map[guard.Literal]bool{}
	var deduped []guard.Literal
	for _, l := range append(dst.AssumptionLiterals, src.AssumptionLiterals...) {
		if !seen[l] {
			seen[l] = true
			deduped = append(deduped, l)
		}
	}
	dst.AssumptionLiterals = deduped

	for l, s := range src.Predecessors {
		if existing, ok := dst.Predecessors[l]; ok {
			dst.Predecessors[l] = existing.Union(s)
		} else {
			dst.Predecessors[l] = s.Copy()
		}
	}
	for l, as := range src.Assumptions {
		dst.Assumptions[l] = append(dst.Assumptions[l], as...)
	}
	for l, hc := range src.HardConstraints {
		if dst.HardConstraints[l] == nil {
			dst.HardConstraints[l] = map[string]smt.Expr{}
		}
		for k, e := range hc {
			dst.HardConstraints[l][k] = e
		}
	}
	for l, v := range src.UnknownSummaryLiterals {
		dst.UnknownSummaryLiterals[l] = v
	}
}
