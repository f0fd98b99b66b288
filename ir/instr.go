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

// Label identifies a goto target within the front-end IR, prior to CFG
// lowering. The Builder (spec §4.1) assigns dense integer CFG labels in
// emission order independently of these; front-end labels only resolve
// `if`/`goto` jump targets against sibling instructions marked with WithLabel
// within the same enclosing Sequence.
type Label int

// NoLabel is the sentinel meaning "this instruction was not given an
// explicit front-end label", i.e. it cannot be a goto/if-branch target.
const NoLabel Label = -1

// InstrKind is the closed set of instruction variants spec §3 names.
type InstrKind uint8

const (
	AssignmentInstr InstrKind = iota
	CallInstr
	IfInstr
	SequenceInstr
	WhileInstr
	GotoInstr
	HavocInstr
)

// Instr is a tagged-union instruction node (spec §3 Instructions;
// §9 Design notes: modeled as a sum dispatched by match, not by virtual
// method).
type Instr struct {
	Kind InstrKind

	// AssignmentInstr / HavocInstr payload: the flattened-path lhs name.
	LHS string
	// AssignmentInstr payload.
	RHS Expr

	// CallInstr payload: the callee procedure's name, plus the actual
	// arguments and result bindings the call-transformation pass hoists to
	// the call site's predecessor/successor (spec §4.2). Args/Results are
	// nil for calls built with Call, which binds nothing explicitly.
	Callee  string
	Args    []CallArg
	Results []CallResult

	// IfInstr payload: the condition and the two front-end jump targets,
	// each of which must name a sibling instruction's Lbl within the same
	// enclosing Sequence.
	Cond     Expr
	ThenGoto Label
	ElseGoto Label

	// SequenceInstr payload.
	Children []Instr

	// WhileInstr payload.
	Body *Instr

	// GotoInstr payload: the front-end label of the sibling instruction
	// control transfers to unconditionally.
	Target Label

	// Lbl is the front-end label this instruction is defined at, used by
	// sibling If/Goto instructions to resolve jump targets during Builder
	// emission. NoLabel means "unlabelled" (most instructions don't need
	// one - only instructions that are the target of a goto or if-branch do).
	Lbl Label
}

// Assignment constructs an AssignmentInstr.
func Assignment(lhs string, rhs Expr) Instr {
	return Instr{Kind: AssignmentInstr, LHS: lhs, RHS: rhs, Lbl: NoLabel}
}

// CallArg binds one actual expression to a formal input parameter of the
// callee, evaluated in the caller's scope before control transfers.
type CallArg struct {
	Formal string
	Actual Expr
}

// CallResult binds one formal output/result of the callee back to an
// actual flattened-path local in the caller, assigned after control
// returns.
type CallResult struct {
	Formal string
	Actual string
}

// Call constructs a CallInstr with no explicit argument/result binding.
func Call(callee string) Instr { return Instr{Kind: CallInstr, Callee: callee, Lbl: NoLabel} }

// CallWithBinding constructs a CallInstr carrying explicit actual-to-formal
// argument bindings and formal-to-actual result bindings, which the
// call-transformation pass (passes.CallTransform) hoists out to plain
// assignments around the call site.
func CallWithBinding(callee string, args []CallArg, results []CallResult) Instr {
	return Instr{Kind: CallInstr, Callee: callee, Args: args, Results: results, Lbl: NoLabel}
}

// If constructs an IfInstr with both branch targets.
func If(cond Expr, thenGoto, elseGoto Label) Instr {
	return Instr{Kind: IfInstr, Cond: cond, ThenGoto: thenGoto, ElseGoto: elseGoto, Lbl: NoLabel}
}

// Sequence constructs a SequenceInstr concatenating children in order.
func Sequence(children ...Instr) Instr {
	return Instr{Kind: SequenceInstr, Children: children, Lbl: NoLabel}
}

// While constructs a WhileInstr.
func While(cond Expr, body Instr) Instr {
	return Instr{Kind: WhileInstr, Cond: cond, Body: &body, Lbl: NoLabel}
}

// Goto constructs a GotoInstr.
func Goto(target Label) Instr { return Instr{Kind: GotoInstr, Target: target, Lbl: NoLabel} }

// Havoc constructs a HavocInstr.
func Havoc(lhs string) Instr { return Instr{Kind: HavocInstr, LHS: lhs, Lbl: NoLabel} }

// WithLabel returns a copy of i marked with the given front-end label, so
// it can be the target of a sibling If/Goto instruction.
func (i Instr) WithLabel(l Label) Instr {
	i.Lbl = l
	return i
}
