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

// Package smt declares Ahorn's façade over a first-order SMT solver (spec
// §4.4). The solver itself is an out-of-scope external collaborator (spec
// §1): this package names only the interface the engine package programs
// against. internal/smttest supplies a reference/fake implementation written
// for tests, which cmd/ahorn also uses since no real solver is bound.
package smt

import "github.com/ahorn-lang/ahorn/ir"

// Expr is an opaque handle to one SMT-encoded expression. Concrete
// implementations wrap whatever native term representation the underlying
// solver uses; Ahorn's engine never inspects an Expr's internals directly,
// only passes it back through Context methods.
type Expr interface {
	// String renders the expression for dot-dumps and trace logging.
	String() string
}

// CheckStatus is the closed set of outcomes a Check call can return (spec
// §4.4, §4.6 tryFork policy).
type CheckStatus uint8

const (
	Unsat CheckStatus = iota
	Sat
	Unknown
)

// Model is a satisfying assignment returned alongside a Sat CheckResult: a
// map from uninterpreted constant name to its concrete Value in the model.
type Model map[string]ir.Value

// CheckResult is the outcome of one Check call.
type CheckResult struct {
	Status CheckStatus
	Model  Model // populated only when Status == Sat

	// UnsatCore is the subset of the checked expressions sufficient to
	// derive unsatisfiability, populated only when Status == Unsat. The
	// Summarizer (spec §4.9) uses it to prune a rejected cached summary
	// together with every other cached summary that shares a failing
	// literal.
	UnsatCore []Expr
}

// IsSat reports whether the result is satisfiable and, if so, returns its
// model.
func (r CheckResult) IsSat() (Model, bool) {
	if r.Status == Sat {
		return r.Model, true
	}
	return nil, false
}

// Context is one process-wide SMT context, created once per engine
// instance and living for the engine's lifetime (spec §4.4: "process-wide
// singleton-per-engine"). All methods operate purely on Expr values scoped
// to this Context; an Expr produced by one Context must never be passed to
// another.
type Context interface {
	// MakeBooleanValue and MakeIntegerValue construct literal constant
	// expressions.
	MakeBooleanValue(b bool) Expr
	MakeIntegerValue(i int32) Expr

	// MakeDefaultValue constructs the zero-value literal for kind (spec
	// §4.4, used to initialise declarations with no explicit
	// initialisation constant).
	MakeDefaultValue(kind ir.TypeKind) Expr

	// MakeRandomValue constructs a literal drawn from an RNG seeded with
	// seed, so a given seed always yields the same literal. The executor's
	// havoc (spec §4.6) does not call it: it derives the concrete value it
	// stores as an ir.Value of its own.
	MakeRandomValue(kind ir.TypeKind, seed int64) Expr

	// MakeBooleanConstant and MakeIntegerConstant construct a named
	// uninterpreted constant (an SMT "variable") of the given
	// contextualized name.
	MakeBooleanConstant(name string) Expr
	MakeIntegerConstant(name string) Expr

	// MakeConstant dispatches to MakeBooleanConstant or MakeIntegerConstant
	// by kind, mirroring how the executor encodes a variable access without
	// first checking its declared type itself (spec §4.4).
	MakeConstant(name string, kind ir.TypeKind) Expr

	// Not, And, Or, Implies, Ite and the comparison/arithmetic builders
	// compose previously built expressions; the engine's Encoder is the
	// only caller (spec §4.5).
	Not(x Expr) Expr
	And(xs ...Expr) Expr
	Or(xs ...Expr) Expr
	Implies(a, b Expr) Expr
	Ite(cond, then, els Expr) Expr
	Eq(a, b Expr) Expr
	Add(a, b Expr) Expr
	Sub(a, b Expr) Expr
	Mul(a, b Expr) Expr
	Div(a, b Expr) Expr
	Mod(a, b Expr) Expr
	Lt(a, b Expr) Expr
	Lte(a, b Expr) Expr
	Gt(a, b Expr) Expr
	Gte(a, b Expr) Expr
	Neq(a, b Expr) Expr

	// Check determines the satisfiability of the conjunction of
	// expressions, with a solver-level time-out bounding the call (spec
	// §5: "an in-flight check call cannot be interrupted but carries a
	// solver-level time-out equal to the remaining budget").
	Check(timeoutMS int, exprs ...Expr) CheckResult

	// Substitute replaces every occurrence of from with to inside e,
	// returning a new Expr (spec §4.4 "substitute one expression for
	// another within a third").
	Substitute(e Expr, from, to Expr) Expr

	// UninterpretedConstants enumerates, by name, every uninterpreted
	// constant occurring in e (spec §4.4), used by tryFork to determine
	// whether a negated branch contains a whole-program input.
	UninterpretedConstants(e Expr) []string
}
