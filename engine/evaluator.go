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
	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/smt"
)

// Resolver supplies the variable bindings an Evaluator or Encoder needs to
// walk an ir.Expr bottom-up. Concrete/Symbolic are keyed by the SSA-local
// variable name carried on ir.Expr's VarExpr/FieldExpr nodes (the executor
// is responsible for contextualizing that name against the current scope
// and cycle before reading the backing State store).
//
// PhiOperand resolves a PhiExpr node to the variable name of whichever
// operand corresponds to the predecessor control actually arrived from:
// the SSA pass (passes.SSA) fixed the positional correspondence between a
// phi's operands and its block's local predecessors, so the Executor - the
// only place that knows which edge was just taken - is the only place that
// can answer this.
type Resolver struct {
	Concrete   func(name string) (ir.Value, bool)
	Symbolic   func(name string) (smt.Expr, bool)
	PhiOperand func(e ir.Expr) string
}

// Evaluate walks e bottom-up, substituting r's concrete valuation for each
// variable access and simplifying to a constant Value (spec §4.5
// Evaluator). old selects the old-version operand of a ChangeExpr in place
// of the default new-version operand, for shadow mode's old-side replay
// (spec §4.10).
func Evaluate(e ir.Expr, r Resolver, old bool) (ir.Value, error) {
	switch e.Kind {
	case ir.ConstExpr:
		return e.Const, nil

	case ir.VarExpr:
		return lookupConcrete(r, e.Name)

	case ir.FieldExpr:
		name, err := flattenedPath(&e)
		if err != nil {
			return ir.Value{}, err
		}
		return lookupConcrete(r, name)

	case ir.UnaryExpr:
		x, err := Evaluate(*e.X, r, old)
		if err != nil {
			return ir.Value{}, err
		}
		switch e.UnaryOp {
		case ir.Not:
			return ir.NewBool(!x.Bool), nil
		case ir.Neg:
			return ir.NewInt(-x.Int), nil
		}

	case ir.BinaryExpr:
		l, err := Evaluate(*e.L, r, old)
		if err != nil {
			return ir.Value{}, err
		}
		rv, err := Evaluate(*e.R, r, old)
		if err != nil {
			return ir.Value{}, err
		}
		return evalBinary(e.BinaryOp, l, rv)

	case ir.CastExpr:
		x, err := Evaluate(*e.X, r, old)
		if err != nil {
			return ir.Value{}, err
		}
		switch e.Cast {
		case ir.BoolToInt:
			if x.Bool {
				return ir.NewInt(1), nil
			}
			return ir.NewInt(0), nil
		case ir.IntToBool:
			return ir.NewBool(x.Int != 0), nil
		}

	case ir.ChangeExpr:
		if old {
			return Evaluate(*e.Old, r, old)
		}
		return Evaluate(*e.New, r, old)

	case ir.PhiExpr:
		name := r.PhiOperand(e)
		return lookupConcrete(r, name)
	}
	return ir.Value{}, errs.New(errs.IRMalformed, "evaluator: unhandled expression kind %d", e.Kind)
}

// flattenedPath computes the dotted flattened-interface name a (possibly
// nested) FieldExpr/VarExpr chain refers to, e.g. `FieldAccess(Var("fb"),
// "a")` is `"fb.a"` (spec §3's flattened-interface naming).
func flattenedPath(e *ir.Expr) (string, error) {
	switch e.Kind {
	case ir.VarExpr:
		return e.Name, nil
	case ir.FieldExpr:
		base, err := flattenedPath(e.Base)
		if err != nil {
			return "", err
		}
		return base + "." + e.Field, nil
	default:
		return "", errs.New(errs.IRMalformed, "evaluator: field access base is not a variable or field expression")
	}
}

func lookupConcrete(r Resolver, name string) (ir.Value, error) {
	v, ok := r.Concrete(name)
	if !ok {
		return ir.Value{}, errs.New(errs.IRMalformed, "evaluator: no concrete binding for %q", name)
	}
	return v, nil
}

// evalBinary applies op to the concrete operands under the spec §4.6
// numeric/boundary semantics: signed 32-bit two's-complement arithmetic,
// concrete division/modulo by zero is an arithmetic_error.
func evalBinary(op ir.BinaryOp, l, r ir.Value) (ir.Value, error) {
	switch op {
	case ir.Add:
		return ir.NewInt(l.Int + r.Int), nil
	case ir.Sub:
		return ir.NewInt(l.Int - r.Int), nil
	case ir.Mul:
		return ir.NewInt(l.Int * r.Int), nil
	case ir.Div:
		if r.Int == 0 {
			return ir.Value{}, errs.New(errs.Arithmetic, "concrete division by zero")
		}
		return ir.NewInt(l.Int / r.Int), nil
	case ir.Mod:
		if r.Int == 0 {
			return ir.Value{}, errs.New(errs.Arithmetic, "concrete modulo by zero")
		}
		return ir.NewInt(l.Int % r.Int), nil
	case ir.And:
		return ir.NewBool(l.Bool && r.Bool), nil
	case ir.Or:
		return ir.NewBool(l.Bool || r.Bool), nil
	case ir.Eq:
		return ir.NewBool(valuesEqual(l, r)), nil
	case ir.Neq:
		return ir.NewBool(!valuesEqual(l, r)), nil
	case ir.Lt:
		return ir.NewBool(l.Int < r.Int), nil
	case ir.Lte:
		return ir.NewBool(l.Int <= r.Int), nil
	case ir.Gt:
		return ir.NewBool(l.Int > r.Int), nil
	case ir.Gte:
		return ir.NewBool(l.Int >= r.Int), nil
	}
	return ir.Value{}, errs.New(errs.IRMalformed, "evaluator: unhandled binary operator %d", op)
}

func valuesEqual(l, r ir.Value) bool {
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case ir.BoolValue:
		return l.Bool == r.Bool
	case ir.IntValue:
		return l.Int == r.Int
	case ir.EnumValue:
		return l.Enum == r.Enum
	default:
		return true
	}
}
