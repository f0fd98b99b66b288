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

// Package guard hosts Ahorn's assumption-literal types: a fresh boolean
// symbol naming the reachability of one vertex in one cycle (spec §3, §4.6
// VC mode), and the sets of literals the VC tables key hard constraints and
// predecessors by.
//
// Adapted from the teacher's guard.Nonce/NonceGenerator/NonceSet, which
// play the identical structural role for a different domain: a stateful
// generator handing out unique tokens each tied to one originating key, and
// a set type supporting the union/intersection/subset operations the VC
// tables need when the Merger dedups preceding assumption literals (spec
// §4.8) and the Summarizer walks predecessor-literal sets backwards from an
// exit literal (spec §4.9).
package guard

import "github.com/ahorn-lang/ahorn/cfg"

// A Literal is a unique token naming one assumption literal. Literals are
// canonically tied to the vertex-in-cycle they were minted for through the
// VertexKeyMap accumulated in their Generator.
type Literal int

// VertexKey identifies one reachable vertex in one cycle within one
// procedure scope: the key an assumption literal is minted against (spec
// §3: "one named boolean per reachable vertex-in-cycle").
type VertexKey struct {
	Scope string
	Label cfg.Label
	Cycle int
}

// A VertexKeyMap maps vertex-in-cycle keys to the literal minted for them.
type VertexKeyMap = map[VertexKey]Literal

// A Generator is a stateful object handing out unique Literals, tracking
// which VertexKey each is tied to.
type Generator struct {
	last   Literal
	keyMap VertexKeyMap
}

// NewGenerator returns a fresh Generator.
func NewGenerator() *Generator {
	return &Generator{last: -1, keyMap: make(VertexKeyMap)}
}

// Next returns the first literal not already handed out, tying it to key as
// its canonical interpretation.
func (g *Generator) Next(key VertexKey) Literal {
	next := g.last + 1
	g.last = next
	g.keyMap[key] = next
	return next
}

// KeyMap returns the underlying VertexKeyMap.
func (g *Generator) KeyMap() VertexKeyMap { return g.keyMap }

// Eq compares two Literals for equality.
func (l Literal) Eq(other Literal) bool { return l == other }

// Set is a set of Literals: the predecessor-literal set and assumption list
// the VC tables key by one literal (spec §3).
type Set map[Literal]bool

// IsEmpty reports whether s has no members.
func (s Set) IsEmpty() bool { return len(s) == 0 }

// Add statefully adds one or more Literals to s.
func (s Set) Add(literals ...Literal) Set {
	for _, l := range literals {
		s[l] = true
	}
	return s
}

// Remove statefully removes one or more Literals from s.
func (s Set) Remove(literals ...Literal) Set {
	for _, l := range literals {
		delete(s, l)
	}
	return s
}

// Contains reports whether s contains l.
func (s Set) Contains(l Literal) bool { return s[l] }

// SubsetOf reports whether s is a subset of other.
func (s Set) SubsetOf(other Set) bool {
	for l := range s {
		if !other.Contains(l) {
			return false
		}
	}
	return true
}

// Union returns a new Set holding every member of s and others, without
// modifying any of them. Used by the Merger to union the predecessor-
// literal sets of two merged contexts' VC tables (spec §4.8).
func (s Set) Union(others ...Set) Set {
	out := make(Set)
	for l := range s {
		out.Add(l)
	}
	for _, other := range others {
		for l := range other {
			out.Add(l)
		}
	}
	return out
}

// Intersection returns a new Set holding only the members common to s and
// every member of others.
func (s Set) Intersection(others ...Set) Set {
	out := s.Union(others...)
checking:
	for l := range out {
		if !s.Contains(l) {
			out.Remove(l)
			continue checking
		}
		for _, other := range others {
			if !other.Contains(l) {
				out.Remove(l)
				continue checking
			}
		}
	}
	return out
}

// Eq reports whether s and other contain the same members.
func (s Set) Eq(other Set) bool { return s.SubsetOf(other) && other.SubsetOf(s) }

// Copy returns an independent copy of s.
func (s Set) Copy() Set { return s.Union(nil) }

// None returns an empty Set.
func None() Set { return make(Set) }
