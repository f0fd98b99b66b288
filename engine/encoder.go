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

// ProcessingMode selects which side(s) of a ChangeExpr an Encoder call
// produces (spec §4.5, §4.10): a shadow-mode divergence executor needs both
// the old-version and new-version encodings of the same sub-expression to
// compare them, while every other engine only ever wants the new version.
type ProcessingMode uint8

const (
	// ProcessNew encodes only the new-version operand of any ChangeExpr
	// (the default for every non-shadow engine).
	ProcessNew ProcessingMode = iota
	// ProcessOld encodes only the old-version operand.
	ProcessOld
	// ProcessBoth encodes both operands and hands each (old, new) pair to
	// onShadow (spec §4.10); what is recorded, and under which key, is up
	// to the callback.
	ProcessBoth
)

// Encode walks e bottom-up building an SMT term via ctx, substituting r's
// symbolic valuation for each variable access (spec §4.5 Encoder). mode
// controls ChangeExpr handling; onShadow receives the (old, new) pair
// whenever mode is ProcessBoth and may be nil otherwise.
func Encode(ctx smt.Context, e ir.Expr, r Resolver, mode ProcessingMode, onShadow func(old, new smt.Expr)) (smt.Expr, error) {
	switch e.Kind {
	case ir.ConstExpr:
		return encodeConst(ctx, e.Const), nil

	case ir.VarExpr:
		return lookupSymbolic(r, e.Name)

	case ir.FieldExpr:
		name, err := flattenedPath(&e)
		if err != nil {
			return nil, err
		}
		return lookupSymbolic(r, name)

	case ir.UnaryExpr:
		x, err := Encode(ctx, *e.X, r, mode, onShadow)
		if err != nil {
			return nil, err
		}
		switch e.UnaryOp {
		case ir.Not:
			return ctx.Not(x), nil
		case ir.Neg:
			return ctx.Sub(ctx.MakeIntegerValue(0), x), nil
		}

	case ir.BinaryExpr:
		l, err := Encode(ctx, *e.L, r, mode, onShadow)
		if err != nil {
			return nil, err
		}
		rv, err := Encode(ctx, *e.R, r, mode, onShadow)
		if err != nil {
			return nil, err
		}
		return encodeBinary(ctx, e.BinaryOp, l, rv), nil

	case ir.CastExpr:
		x, err := Encode(ctx, *e.X, r, mode, onShadow)
		if err != nil {
			return nil, err
		}
		switch e.Cast {
		case ir.BoolToInt:
			return ctx.Ite(x, ctx.MakeIntegerValue(1), ctx.MakeIntegerValue(0)), nil
		case ir.IntToBool:
			return ctx.Neq(x, ctx.MakeIntegerValue(0)), nil
		}

	case ir.ChangeExpr:
		return encodeChange(ctx, e, r, mode, onShadow)

	case ir.PhiExpr:
		name := r.PhiOperand(e)
		return lookupSymbolic(r, name)
	}
	return nil, errs.New(errs.IRMalformed, "encoder: unhandled expression kind %d", e.Kind)
}

func encodeChange(ctx smt.Context, e ir.Expr, r Resolver, mode ProcessingMode, onShadow func(old, new smt.Expr)) (smt.Expr, error) {
	switch mode {
	case ProcessOld:
		return Encode(ctx, *e.Old, r, mode, onShadow)
	case ProcessBoth:
		old, err := Encode(ctx, *e.Old, r, ProcessOld, nil)
		if err != nil {
			return nil, err
		}
		newExpr, err := Encode(ctx, *e.New, r, ProcessNew, nil)
		if err != nil {
			return nil, err
		}
		if onShadow != nil {
			onShadow(old, newExpr)
		}
		return newExpr, nil
	default:
		return Encode(ctx, *e.New, r, mode, onShadow)
	}
}

func encodeConst(ctx smt.Context, v ir.Value) smt.Expr {
	switch v.Kind {
	case ir.BoolValue:
		return ctx.MakeBooleanValue(v.Bool)
	case ir.IntValue:
		return ctx.MakeIntegerValue(v.Int)
	default:
		return ctx.MakeIntegerValue(0)
	}
}

func encodeBinary(ctx smt.Context, op ir.BinaryOp, l, r smt.Expr) smt.Expr {
	switch op {
	case ir.Add:
		return ctx.Add(l, r)
	case ir.Sub:
		return ctx.Sub(l, r)
	case ir.Mul:
		return ctx.Mul(l, r)
	case ir.Div:
		return ctx.Div(l, r)
	case ir.Mod:
		return ctx.Mod(l, r)
	case ir.And:
		return ctx.And(l, r)
	case ir.Or:
		return ctx.Or(l, r)
	case ir.Eq:
		return ctx.Eq(l, r)
	case ir.Neq:
		return ctx.Neq(l, r)
	case ir.Lt:
		return ctx.Lt(l, r)
	case ir.Lte:
		return ctx.Lte(l, r)
	case ir.Gt:
		return ctx.Gt(l, r)
	case ir.Gte:
		return ctx.Gte(l, r)
	default:
		return ctx.MakeBooleanValue(false)
	}
}

func lookupSymbolic(r Resolver, name string) (smt.Expr, error) {
	v, ok := r.Symbolic(name)
	if !ok {
		return nil, errs.New(errs.IRMalformed, "encoder: no symbolic binding for %q", name)
	}
	return v, nil
}
