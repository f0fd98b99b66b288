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
	"github.com/ahorn-lang/ahorn/valueset"
)

// Strategy selects the Explorer's pop order (spec §4.7).
type Strategy uint8

const (
	DepthFirst Strategy = iota
	BreadthFirst
)

// branchCoverage tracks whether the true and false arms of one if-vertex
// have each been taken at least once.
type branchCoverage struct {
	True, False bool
}

// Explorer owns the deque of pending contexts and the static coverage map
// (spec §4.7). It is the sole source of truth for cycle-scope termination:
// IsEmpty reports whether the whole run is done, not just this Explorer.
type Explorer struct {
	strategy Strategy
	pending  []*Context

	statements map[cfg.Label]bool
	branches   map[cfg.Label]*branchCoverage

	// merger, when non-nil, is consulted by IsEmpty so the explorer never
	// signals a cycle finished while the Merger still has queued contexts
	// waiting to fold (spec §4.7).
	merger *Merger
}

// NewExplorer constructs an Explorer seeded from program's static CFG.
// Labels and branches known to be unreachable are excluded from the
// coverage map afterwards, through SeedUnreachable (spec §4.3, §4.7).
func NewExplorer(strategy Strategy, program *cfg.CFG, merger *Merger) *Explorer {
	e := &Explorer{
		strategy:   strategy,
		statements: map[cfg.Label]bool{},
		branches:   map[cfg.Label]*branchCoverage{},
		merger:     merger,
	}
	for _, v := range program.Vertices() {
		if v.Kind != cfg.RegularVertex {
			continue
		}
		e.statements[v.Label] = false
		if v.Instr.Kind == cfg.IfInstrKind {
			e.branches[v.Label] = &branchCoverage{}
		}
	}
	return e
}

// SeedUnreachable marks the labels/branches a value-set analysis proved
// unreachable as already covered, so they never count against coverage
// goals (spec §4.7 "Initialisation seeds the coverage map ... with
// unreachable labels removed").
func (e *Explorer) SeedUnreachable(labels []cfg.Label, branches []Branch) {
	for _, l := range labels {
		delete(e.statements, l)
		delete(e.branches, l)
	}
	for _, b := range branches {
		bc, ok := e.branches[b.Label]
		if !ok {
			continue
		}
		if b.True {
			bc.True = true
		} else {
			bc.False = true
		}
	}
}

// Push enqueues c for future exploration.
func (e *Explorer) Push(c *Context) { e.pending = append(e.pending, c) }

// Pop dequeues the next context to explore per the configured Strategy, or
// returns (nil, false) if nothing is pending.
func (e *Explorer) Pop() (*Context, bool) {
	if len(e.pending) == 0 {
		return nil, false
	}
	switch e.strategy {
	case BreadthFirst:
		c := e.pending[0]
		e.pending = e.pending[1:]
		return c, true
	default: // DepthFirst
		last := len(e.pending) - 1
		c := e.pending[last]
		e.pending = e.pending[:last]
		return c, true
	}
}

// IsEmpty reports whether no context is pending here and the merger (if
// any) has no pending merges either - the explorer's authoritative signal
// that a cycle has finished (spec §4.7).
func (e *Explorer) IsEmpty() bool {
	if len(e.pending) != 0 {
		return false
	}
	return e.merger == nil || e.merger.IsEmpty()
}

// Branch identifies one arm of an if-vertex, shared with valueset.Branch's
// shape (spec §4.3/§4.7).
type Branch = valueset.Branch

// UpdateCoverage records that label was reached by c, returning whether the
// statement and/or (for an if-vertex) the taken branch were newly covered.
func (e *Explorer) UpdateCoverage(label cfg.Label, tookTrue bool, isBranch bool) (statementNewlyCovered, branchNewlyCovered bool) {
	if covered, ok := e.statements[label]; ok && !covered {
		e.statements[label] = true
		statementNewlyCovered = true
	}
	if !isBranch {
		return statementNewlyCovered, false
	}
	bc, ok := e.branches[label]
	if !ok {
		return statementNewlyCovered, false
	}
	if tookTrue && !bc.True {
		bc.True = true
		branchNewlyCovered = true
	} else if !tookTrue && !bc.False {
		bc.False = true
		branchNewlyCovered = true
	}
	return statementNewlyCovered, branchNewlyCovered
}

// StatementCoverage returns (covered, total) regular-vertex counts.
func (e *Explorer) StatementCoverage() (covered, total int) {
	for _, c := range e.statements {
		total++
		if c {
			covered++
		}
	}
	return covered, total
}

// BranchCoverage returns (covered, total) branch-arm counts (each if-vertex
// contributes two arms).
func (e *Explorer) BranchCoverage() (covered, total int) {
	for _, bc := range e.branches {
		total += 2
		if bc.True {
			covered++
		}
		if bc.False {
			covered++
		}
	}
	return covered, total
}
