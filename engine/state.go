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
	"bytes"
	"encoding/gob"

	"github.com/klauspost/compress/s2"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/guard"
	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/internal/orderedmap"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/smt"
)

// ShadowEntry is one shadow-store binding (spec §3): the old and new
// symbolic encodings of a change-annotated sub-expression, recorded so the
// divergence executor (engine.Shadow) can evaluate both sides of an `if`
// whose condition depends on it.
type ShadowEntry struct {
	Old, New smt.Expr
}

// VCTables holds the optional VC-generation bookkeeping spec §3 names,
// populated only by engines that run in VC mode (compositional/cbmc-style,
// spec §4.11).
type VCTables struct {
	// AssumptionLiterals is the assumption-literal stack: one named boolean
	// per reachable vertex-in-cycle, in the order they were pushed along
	// the current path.
	AssumptionLiterals []guard.Literal
	// Predecessors maps a literal to the set of literals whose vertex
	// immediately precedes it on some realized path.
	Predecessors map[guard.Literal]guard.Set
	// Assumptions maps a literal to the list of SMT expressions assumed to
	// hold at that literal (e.g. a followed branch condition).
	Assumptions map[guard.Literal][]smt.Expr
	// HardConstraints maps a literal to the definitions (contextualized
	// name -> defining expression) asserted under it, e.g. `lhs = rhs` for
	// an assignment (spec §4.6).
	HardConstraints map[guard.Literal]map[string]smt.Expr
	// UnknownSummaryLiterals ties a callee exit literal to the caller
	// return point's over-approximating summary literal (spec §3, §4.6
	// "exit of function block").
	UnknownSummaryLiterals map[guard.Literal]guard.Literal
}

// NewVCTables constructs an empty VCTables.
func NewVCTables() *VCTables {
	return &VCTables{
		Predecessors:           map[guard.Literal]guard.Set{},
		Assumptions:            map[guard.Literal][]smt.Expr{},
		HardConstraints:        map[guard.Literal]map[string]smt.Expr{},
		UnknownSummaryLiterals: map[guard.Literal]guard.Literal{},
	}
}

// Copy returns an independent copy of v, sharing no mutable map/slice
// backing with v (the smt.Expr leaves themselves are immutable and safe to
// share).
func (v *VCTables) Copy() *VCTables {
	if v == nil {
		return nil
	}
	out := NewVCTables()
	out.AssumptionLiterals = append([]guard.Literal(nil), v.AssumptionLiterals...)
	for l, s := range v.Predecessors {
		out.Predecessors[l] = s.Copy()
	}
	for l, as := range v.Assumptions {
		out.Assumptions[l] = append([]smt.Expr(nil), as...)
	}
	for l, hc := range v.HardConstraints {
		m := make(map[string]smt.Expr, len(hc))
		for k, e := range hc {
			m[k] = e
		}
		out.HardConstraints[l] = m
	}
	for k, val := range v.UnknownSummaryLiterals {
		out.UnknownSummaryLiterals[k] = val
	}
	return out
}

// State is one execution context's mutable store (spec §3): the current
// vertex, concrete and symbolic stores keyed by contextualized name, the
// path constraint, a per-flattened-name highest-version cache, and the
// optional shadow store and VC tables.
type State struct {
	Vertex cfg.Label

	// From is the vertex control last advanced from, within the current
	// frame's CFG, or -1 at a frame's own entry. The Executor needs this to
	// pick the correct operand of a PhiExpr landed on at Vertex (spec §4.2:
	// operand order matches local-predecessor order).
	From cfg.Label

	Concrete *orderedmap.OrderedMap[string, ir.Value]
	Symbolic *orderedmap.OrderedMap[string, smt.Expr]

	PathConstraint []smt.Expr

	// OldPathConstraint is the old-program counterpart of PathConstraint,
	// accumulated only by the divergence executor (engine.Shadow, spec
	// §4.10) as it evaluates a shadow-tagged `if` condition's old encoding
	// alongside its new one. Every other engine leaves it nil.
	OldPathConstraint []smt.Expr

	// versions caches, per flattened name, the highest version minted so
	// far - the open question in spec §9 requires this to agree with
	// whatever can be derived from Concrete/Symbolic's key set. MaxVersion
	// and NextVersion read and bump this cache; nothing recomputes it from
	// the stores.
	versions map[string]int

	Shadow *orderedmap.OrderedMap[string, ShadowEntry]

	VC *VCTables
}

// NewState constructs an empty State with no shadow store and no VC
// tables; callers that need them set State.Shadow/State.VC explicitly.
func NewState(entry cfg.Label) *State {
	return &State{
		Vertex:   entry,
		From:     -1,
		Concrete: orderedmap.New[string, ir.Value](),
		Symbolic: orderedmap.New[string, smt.Expr](),
		versions: map[string]int{},
	}
}

// NextVersion returns the next unused version for flattened, bumping the
// cache (spec §4.6: "bump version of lhs" on assignment/havoc).
func (s *State) NextVersion(flattened string) int {
	v := s.versions[flattened] + 1
	s.versions[flattened] = v
	return v
}

// MaxVersion returns the highest version minted for flattened so far, or
// -1 if none (an unwritten input).
func (s *State) MaxVersion(flattened string) int {
	v, ok := s.versions[flattened]
	if !ok {
		return -1
	}
	return v
}

// gobPayload is the subset of State that survives a deep clone through a
// gob encode/decode round trip: plain data with no interface-typed (hence
// solver-implementation-dependent) fields. Grounded on
// inference.InferredMap's GobEncode/GobDecode (inference/inferred_map.go),
// which snapshots a fact map through an s2-compressed gob stream in the
// same way.
type gobPayload struct {
	Vertex   cfg.Label
	From     cfg.Label
	Concrete []orderedmap.Pair[string, ir.Value]
	Versions map[string]int
}

// Clone returns a deep, independent copy of s for use at a fork point
// (spec §3 Lifecycle: "forked (deep-cloned) at each feasible branch"). The
// concrete store and version cache - plain data with no solver-specific
// representation - round-trip through gob over an s2 stream exactly as the
// teacher's InferredMap does; the symbolic store, path constraint, shadow
// store, and VC tables hold smt.Expr leaves, which are immutable once
// built, so cloning them only needs a fresh container (new maps/slices),
// never a deep copy of the leaves themselves.
func (s *State) Clone() (*State, error) {
	payload := gobPayload{Vertex: s.Vertex, From: s.From, Versions: map[string]int{}}
	s.Concrete.Range(func(k string, v ir.Value) bool {
		payload.Concrete = append(payload.Concrete, orderedmap.Pair[string, ir.Value]{Key: k, Value: v})
		return true
	})
	for k, v := range s.versions {
		payload.Versions[k] = v
	}

	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	if err := gob.NewEncoder(w).Encode(payload); err != nil {
		return nil, errs.Wrap(errs.IRMalformed, err, "state clone: gob encode")
	}
	if err := w.Close(); err != nil {
		return nil, errs.Wrap(errs.IRMalformed, err, "state clone: s2 flush")
	}

	var decoded gobPayload
	if err := gob.NewDecoder(s2.NewReader(&buf)).Decode(&decoded); err != nil {
		return nil, errs.Wrap(errs.IRMalformed, err, "state clone: gob decode")
	}

	out := &State{
		Vertex:   decoded.Vertex,
		From:     decoded.From,
		Concrete: orderedmap.New[string, ir.Value](),
		Symbolic: s.Symbolic.Copy(),
		versions: decoded.Versions,
		VC:       s.VC.Copy(),
	}
	for _, p := range decoded.Concrete {
		out.Concrete.Store(p.Key, p.Value)
	}
	out.PathConstraint = append([]smt.Expr(nil), s.PathConstraint...)
	out.OldPathConstraint = append([]smt.Expr(nil), s.OldPathConstraint...)
	if s.Shadow != nil {
		out.Shadow = s.Shadow.Copy()
	}
	return out, nil
}
