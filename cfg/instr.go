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

package cfg

import "github.com/ahorn-lang/ahorn/ir"

// InstrKind is the closed set of instructions a CFG vertex may carry. This
// is the narrower, post-lowering subset of ir.InstrKind: `while` and
// `goto` are eliminated during Builder emission (spec §4.1) since their
// control flow is expressed as edges instead, and `sequence` survives only
// as the output of the basic-block pass (spec §4.2) coalescing a run of
// single-predecessor/single-successor vertices.
type InstrKind uint8

const (
	AssignmentInstrKind InstrKind = iota
	CallInstrKind
	IfInstrKind
	HavocInstrKind
	SequenceInstrKind
)

// Instr is the payload of a regular Vertex.
type Instr struct {
	Kind InstrKind

	// AssignmentInstrKind / HavocInstrKind payload.
	LHS string
	RHS ir.Expr

	// CallInstrKind payload. Args/Results survive from the front-end ir.Instr
	// unchanged until the call-transformation pass (passes.CallTransform)
	// consumes them and hoists them into plain assignments, after which a
	// call vertex carries only Callee.
	Callee  string
	Args    []ir.CallArg
	Results []ir.CallResult

	// IfInstrKind payload: the branch condition. Targets are expressed by
	// the vertex's TrueBranch/FalseBranch out-edges, not stored here.
	Cond ir.Expr

	// SequenceInstrKind payload: the coalesced run of instructions, in
	// execution order.
	Children []Instr
}

// Assignment constructs an AssignmentInstrKind Instr.
func Assignment(lhs string, rhs ir.Expr) Instr {
	return Instr{Kind: AssignmentInstrKind, LHS: lhs, RHS: rhs}
}

// Call constructs a CallInstrKind Instr with no argument/result binding.
func Call(callee string) Instr { return Instr{Kind: CallInstrKind, Callee: callee} }

// CallWithBinding constructs a CallInstrKind Instr carrying the actual
// argument and result bindings lowered from ir.CallWithBinding.
func CallWithBinding(callee string, args []ir.CallArg, results []ir.CallResult) Instr {
	return Instr{Kind: CallInstrKind, Callee: callee, Args: args, Results: results}
}

// If constructs an IfInstrKind Instr.
func If(cond ir.Expr) Instr { return Instr{Kind: IfInstrKind, Cond: cond} }

// Havoc constructs a HavocInstrKind Instr.
func Havoc(lhs string) Instr { return Instr{Kind: HavocInstrKind, LHS: lhs} }

// Seq constructs a SequenceInstrKind Instr.
func Seq(children ...Instr) Instr { return Instr{Kind: SequenceInstrKind, Children: children} }
