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

package ir

// ExprKind is the closed set of expression variants spec §3 names. Ahorn
// models the deep expression hierarchy as a tagged sum with a small shared
// header (spec §9 "Design notes") rather than as an interface hierarchy
// dispatched by virtual method, so pass and engine code match on Kind
// instead of relying on a visitor pattern.
type ExprKind uint8

const (
	ConstExpr ExprKind = iota
	VarExpr
	FieldExpr
	UnaryExpr
	BinaryExpr
	CastExpr
	ChangeExpr
	PhiExpr
)

// UnaryOp is the closed set of unary operators.
type UnaryOp uint8

const (
	Not UnaryOp = iota
	Neg
)

// BinaryOp is the closed set of binary operators.
type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	And
	Or
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte
)

// CastKind distinguishes the two directions of the boolean<->integer cast
// (spec §4.6: false<->0, true<->1; reverse cast is `x != 0`).
type CastKind uint8

const (
	BoolToInt CastKind = iota
	IntToBool
)

// Expr is a tagged-union expression node. Exactly one of the payload fields
// is meaningful, selected by Kind; see the field comments for which.
type Expr struct {
	Kind ExprKind

	// ConstExpr payload.
	Const Value

	// VarExpr / FieldExpr payload: a flattened-path variable reference, or
	// (for FieldExpr) a base expression plus one field access.
	Name string
	Base *Expr
	Field string

	// UnaryExpr payload.
	UnaryOp UnaryOp
	X       *Expr

	// BinaryExpr payload.
	BinaryOp BinaryOp
	L, R     *Expr

	// CastExpr payload.
	Cast CastKind

	// ChangeExpr payload: an old/new pair used by shadow mode (spec §4.5,
	// §4.10) to mark one sub-expression as differing between program
	// versions.
	Old, New *Expr

	// PhiExpr payload: an SSA phi node. Operands are filled in by the SSA
	// pass (passes.SSA) as readVariableRecursive discovers them; a phi with
	// a single distinct operand is eliminated as trivial before the pass
	// returns (spec §4.2).
	PhiOperands []SSAValue
}

// Var constructs a VarExpr referencing the flattened variable name.
func Var(name string) Expr { return Expr{Kind: VarExpr, Name: name} }

// Const constructs a ConstExpr wrapping v.
func Const(v Value) Expr { return Expr{Kind: ConstExpr, Const: v} }

// FieldAccess constructs a FieldExpr accessing the named field of base.
func FieldAccess(base Expr, field string) Expr {
	return Expr{Kind: FieldExpr, Base: &base, Field: field}
}

// Un constructs a UnaryExpr.
func Un(op UnaryOp, x Expr) Expr { return Expr{Kind: UnaryExpr, UnaryOp: op, X: &x} }

// Bin constructs a BinaryExpr.
func Bin(op BinaryOp, l, r Expr) Expr { return Expr{Kind: BinaryExpr, BinaryOp: op, L: &l, R: &r} }

// CastTo constructs a CastExpr.
func CastTo(kind CastKind, x Expr) Expr { return Expr{Kind: CastExpr, Cast: kind, X: &x} }

// Change constructs a ChangeExpr pairing the old and new sub-expressions.
func Change(old, new Expr) Expr { return Expr{Kind: ChangeExpr, Old: &old, New: &new} }

// SSAValue is an SSA value: an integer index, per spec §3 ("An SSA value is
// an integer index").
type SSAValue int

// Phi constructs an operand-less PhiExpr, to be filled in by the SSA pass.
func Phi() Expr { return Expr{Kind: PhiExpr} }
