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

// Package smttest implements smt.Context by brute-force enumeration over a
// small bounded domain. It is written for tests, and cmd/ahorn also wires
// it as the only smt.Context implementation in this repository. It is not a
// general-purpose solver: Check exhaustively tries every assignment of the
// uninterpreted constants occurring in the given expressions over {false,
// true} for booleans and a small signed range for integers, so it is only
// suitable for the small expressions the test suite constructs.
package smttest

import (
	"fmt"
	"math/rand"

	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/smt"
)

// intDomainBound bounds the brute-force search range for integer
// constants: [-intDomainBound, intDomainBound].
const intDomainBound = 8

type kind uint8

const (
	kBoolLit kind = iota
	kIntLit
	kBoolConst
	kIntConst
	kNot
	kAnd
	kOr
	kImplies
	kIte
	kEq
	kNeq
	kAdd
	kSub
	kMul
	kDiv
	kMod
	kLt
	kLte
	kGt
	kGte
)

// expr is smttest's concrete smt.Expr implementation: a small expression
// tree evaluated directly by eval, with no native solver term underneath.
type expr struct {
	k          kind
	boolLit    bool
	intLit     int32
	name       string
	args       []*expr
}

func (e *expr) String() string {
	switch e.k {
	case kBoolLit:
		return fmt.Sprintf("%t", e.boolLit)
	case kIntLit:
		return fmt.Sprintf("%d", e.intLit)
	case kBoolConst, kIntConst:
		return e.name
	default:
		parts := make([]any, len(e.args))
		for i, a := range e.args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("(%d %v)", e.k, parts)
	}
}

func wrap(e smt.Expr) *expr { return e.(*expr) }

// Context is the smttest reference implementation of smt.Context.
type Context struct {
	rng *rand.Rand
}

// New constructs a Context whose own RNG is seeded with seed. MakeRandomValue
// does not draw from that RNG: its result depends only on its own seed
// argument, so equal arguments always give the same literal.
func New(seed int64) *Context {
	return &Context{rng: rand.New(rand.NewSource(seed))}
}

func (c *Context) MakeBooleanValue(b bool) smt.Expr { return &expr{k: kBoolLit, boolLit: b} }
func (c *Context) MakeIntegerValue(i int32) smt.Expr { return &expr{k: kIntLit, intLit: i} }

func (c *Context) MakeDefaultValue(kind ir.TypeKind) smt.Expr {
	v := ir.DefaultValue(kind)
	if v.Kind == ir.BoolValue {
		return c.MakeBooleanValue(v.Bool)
	}
	return c.MakeIntegerValue(v.Int)
}

func (c *Context) MakeRandomValue(k ir.TypeKind, seed int64) smt.Expr {
	r := rand.New(rand.NewSource(seed))
	if k == ir.Boolean {
		return c.MakeBooleanValue(r.Intn(2) == 1)
	}
	return c.MakeIntegerValue(int32(r.Intn(2*intDomainBound+1) - intDomainBound))
}

func (c *Context) MakeBooleanConstant(name string) smt.Expr { return &expr{k: kBoolConst, name: name} }
func (c *Context) MakeIntegerConstant(name string) smt.Expr { return &expr{k: kIntConst, name: name} }

func (c *Context) MakeConstant(name string, k ir.TypeKind) smt.Expr {
	if k == ir.Boolean {
		return c.MakeBooleanConstant(name)
	}
	return c.MakeIntegerConstant(name)
}

func bin(k kind, a, b smt.Expr) smt.Expr { return &expr{k: k, args: []*expr{wrap(a), wrap(b)}} }

func (c *Context) Not(x smt.Expr) smt.Expr         { return &expr{k: kNot, args: []*expr{wrap(x)}} }
func (c *Context) And(xs ...smt.Expr) smt.Expr      { return variadic(kAnd, xs) }
func (c *Context) Or(xs ...smt.Expr) smt.Expr       { return variadic(kOr, xs) }
func (c *Context) Implies(a, b smt.Expr) smt.Expr   { return bin(kImplies, a, b) }
func (c *Context) Eq(a, b smt.Expr) smt.Expr        { return bin(kEq, a, b) }
func (c *Context) Neq(a, b smt.Expr) smt.Expr       { return bin(kNeq, a, b) }
func (c *Context) Add(a, b smt.Expr) smt.Expr       { return bin(kAdd, a, b) }
func (c *Context) Sub(a, b smt.Expr) smt.Expr       { return bin(kSub, a, b) }
func (c *Context) Mul(a, b smt.Expr) smt.Expr       { return bin(kMul, a, b) }
func (c *Context) Div(a, b smt.Expr) smt.Expr       { return bin(kDiv, a, b) }
func (c *Context) Mod(a, b smt.Expr) smt.Expr       { return bin(kMod, a, b) }
func (c *Context) Lt(a, b smt.Expr) smt.Expr        { return bin(kLt, a, b) }
func (c *Context) Lte(a, b smt.Expr) smt.Expr       { return bin(kLte, a, b) }
func (c *Context) Gt(a, b smt.Expr) smt.Expr        { return bin(kGt, a, b) }
func (c *Context) Gte(a, b smt.Expr) smt.Expr       { return bin(kGte, a, b) }

func (c *Context) Ite(cond, then, els smt.Expr) smt.Expr {
	return &expr{k: kIte, args: []*expr{wrap(cond), wrap(then), wrap(els)}}
}

func variadic(k kind, xs []smt.Expr) smt.Expr {
	args := make([]*expr, len(xs))
	for i, x := range xs {
		args[i] = wrap(x)
	}
	return &expr{k: k, args: args}
}

// assignment is one candidate valuation of every uninterpreted constant
// collected during Check's search.
type assignment struct {
	bools map[string]bool
	ints  map[string]int32
}

func collectConstants(e *expr, bools, ints map[string]bool) {
	switch e.k {
	case kBoolConst:
		bools[e.name] = true
	case kIntConst:
		ints[e.name] = true
	default:
		for _, a := range e.args {
			collectConstants(a, bools, ints)
		}
	}
}

func evalBool(e *expr, a assignment) bool {
	switch e.k {
	case kBoolLit:
		return e.boolLit
	case kBoolConst:
		return a.bools[e.name]
	case kNot:
		return !evalBool(e.args[0], a)
	case kAnd:
		for _, x := range e.args {
			if !evalBool(x, a) {
				return false
			}
		}
		return true
	case kOr:
		for _, x := range e.args {
			if evalBool(x, a) {
				return true
			}
		}
		return false
	case kImplies:
		return !evalBool(e.args[0], a) || evalBool(e.args[1], a)
	case kEq:
		return evalAny(e.args[0], a) == evalAny(e.args[1], a)
	case kNeq:
		return evalAny(e.args[0], a) != evalAny(e.args[1], a)
	case kLt:
		return evalInt(e.args[0], a) < evalInt(e.args[1], a)
	case kLte:
		return evalInt(e.args[0], a) <= evalInt(e.args[1], a)
	case kGt:
		return evalInt(e.args[0], a) > evalInt(e.args[1], a)
	case kGte:
		return evalInt(e.args[0], a) >= evalInt(e.args[1], a)
	case kIte:
		if evalBool(e.args[0], a) {
			return evalBool(e.args[1], a)
		}
		return evalBool(e.args[2], a)
	default:
		panic(fmt.Sprintf("smttest: %d is not a boolean-valued node", e.k))
	}
}

func evalInt(e *expr, a assignment) int32 {
	switch e.k {
	case kIntLit:
		return e.intLit
	case kIntConst:
		return a.ints[e.name]
	case kAdd:
		return evalInt(e.args[0], a) + evalInt(e.args[1], a)
	case kSub:
		return evalInt(e.args[0], a) - evalInt(e.args[1], a)
	case kMul:
		return evalInt(e.args[0], a) * evalInt(e.args[1], a)
	case kDiv:
		return evalInt(e.args[0], a) / evalInt(e.args[1], a)
	case kMod:
		return evalInt(e.args[0], a) % evalInt(e.args[1], a)
	case kIte:
		if evalBool(e.args[0], a) {
			return evalInt(e.args[1], a)
		}
		return evalInt(e.args[2], a)
	default:
		panic(fmt.Sprintf("smttest: %d is not an integer-valued node", e.k))
	}
}

// evalAny evaluates e as whichever of bool/int its node kind demands,
// returned as ir.Value for uniform comparison in Eq/Neq.
func evalAny(e *expr, a assignment) ir.Value {
	switch e.k {
	case kBoolLit, kBoolConst, kNot, kAnd, kOr, kImplies, kEq, kNeq, kLt, kLte, kGt, kGte:
		return ir.NewBool(evalBool(e, a))
	case kIntLit, kIntConst, kAdd, kSub, kMul, kDiv, kMod:
		return ir.NewInt(evalInt(e, a))
	case kIte:
		if evalBool(e.args[0], a) {
			return evalAny(e.args[1], a)
		}
		return evalAny(e.args[2], a)
	default:
		panic(fmt.Sprintf("smttest: unhandled node kind %d", e.k))
	}
}

// Check brute-forces every assignment of the uninterpreted constants
// occurring in exprs, in deterministic enumeration order, returning the
// first one under which every expression evaluates true. Division by a
// concrete zero divisor during evaluation is treated as Unknown rather than
// panicking, mirroring the taxonomy's arithmetic_error being a property of
// the program, not the solver (spec §4.4, §4.6).
func (c *Context) Check(timeoutMS int, exprs ...smt.Expr) (result smt.CheckResult) {
	bools := map[string]bool{}
	ints := map[string]bool{}
	for _, e := range exprs {
		collectConstants(wrap(e), bools, ints)
	}
	boolNames := sortedKeys(bools)
	intNames := sortedKeys(ints)

	defer func() {
		if r := recover(); r != nil {
			result = smt.CheckResult{Status: smt.Unknown}
		}
	}()

	a := assignment{bools: map[string]bool{}, ints: map[string]int32{}}
	if search(exprs, boolNames, intNames, 0, 0, a) {
		model := smt.Model{}
		for _, n := range boolNames {
			model[n] = ir.NewBool(a.bools[n])
		}
		for _, n := range intNames {
			model[n] = ir.NewInt(a.ints[n])
		}
		return smt.CheckResult{Status: smt.Sat, Model: model}
	}
	// smttest has no notion of a minimal unsat core: its brute-force search
	// gives no proof object to shrink, so it reports the whole checked set
	// as the core. A real solver binding would return a minimal subset.
	return smt.CheckResult{Status: smt.Unsat, UnsatCore: append([]smt.Expr(nil), exprs...)}
}

// search is a straightforward backtracking enumeration: boolNames first
// (2 choices each), then intNames ([-intDomainBound, intDomainBound] each).
// It mutates a in place for the call tree's lifetime.
func search(exprs []smt.Expr, boolNames, intNames []string, bi, ii int, a assignment) bool {
	if bi < len(boolNames) {
		for _, v := range []bool{false, true} {
			a.bools[boolNames[bi]] = v
			if search(exprs, boolNames, intNames, bi+1, ii, a) {
				return true
			}
		}
		return false
	}
	if ii < len(intNames) {
		for v := int32(-intDomainBound); v <= intDomainBound; v++ {
			a.ints[intNames[ii]] = v
			if search(exprs, boolNames, intNames, bi, ii+1, a) {
				return true
			}
		}
		return false
	}
	for _, e := range exprs {
		if !evalBool(wrap(e), a) {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// simple insertion sort: these sets are always small (a handful of
	// names per Check call in the test expressions this fake serves).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (c *Context) Substitute(e, from, to smt.Expr) smt.Expr {
	return substitute(wrap(e), wrap(from), wrap(to))
}

func substitute(e, from, to *expr) smt.Expr {
	if structurallyEqual(e, from) {
		return to
	}
	if len(e.args) == 0 {
		return e
	}
	args := make([]*expr, len(e.args))
	for i, a := range e.args {
		args[i] = wrap(substitute(a, from, to))
	}
	return &expr{k: e.k, boolLit: e.boolLit, intLit: e.intLit, name: e.name, args: args}
}

func structurallyEqual(a, b *expr) bool {
	if a.k != b.k || a.boolLit != b.boolLit || a.intLit != b.intLit || a.name != b.name || len(a.args) != len(b.args) {
		return false
	}
	for i := range a.args {
		if !structurallyEqual(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}

func (c *Context) UninterpretedConstants(e smt.Expr) []string {
	bools := map[string]bool{}
	ints := map[string]bool{}
	collectConstants(wrap(e), bools, ints)
	out := append(sortedKeys(bools), sortedKeys(ints)...)
	return out
}

// MustBool extracts a boolean from a constant-folded Sat model entry,
// panicking with an errs.IRMalformed-shaped message on a kind mismatch;
// exported for assertions in engine package tests.
func MustBool(v ir.Value) bool {
	if v.Kind != ir.BoolValue {
		panic(errs.New(errs.IRMalformed, "smttest: expected boolean model entry, got %v", v))
	}
	return v.Bool
}

var _ smt.Context = (*Context)(nil)
