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
	"math/rand/v2"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/guard"
	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/passes"
	"github.com/ahorn-lang/ahorn/smt"
)

// Status is the outcome of one Executor.Step call (spec §4.6, §4.10).
type Status uint8

const (
	// Expected is the ordinary outcome: one instruction executed, no
	// divergence observed (the only status Executor.Step itself returns).
	Expected Status = iota
	// Divergent reports that the old and new sides of a shadow-tagged
	// condition disagreed concretely; the context stops (spec §4.10).
	Divergent
	// PotentialDivergent reports that the old and new sides agreed
	// concretely but the opposite split is feasible on at least one side
	// (spec §4.10).
	PotentialDivergent
)

// Executor dispatches one CFG instruction at a time against a Context,
// implementing spec §4.6's state machine. It is process-wide and
// stateless across Step calls except for the monotonic counter backing
// havoc's seeded random values and the Guards generator, which hands out
// a fresh literal on every mintLiteral call.
type Executor struct {
	SMT       smt.Context
	Program   map[string]*cfg.CFG
	SSA       map[string]*passes.SSAInfo
	Guards    *guard.Generator
	VC        *VCTables
	VCMode    bool
	TimeoutMS int

	// Summarizer, when non-nil, is consulted at every callee entry for a
	// cached summary before descending (spec §4.9), and is fed the
	// realizable paths found at every callee exit. Only the compositional
	// engine sets this (spec §4.11); cbmc-style unrolling and the baseline
	// and over-approximating engines leave it nil and always descend.
	Summarizer *Summarizer

	// ReplayOld selects the old-version operand of a ChangeExpr throughout
	// concrete evaluation, in place of the default new-version operand
	// (spec §4.10). Only the shadow engine's final simulator pass sets
	// this, to replay a derived test case against the old version after
	// having replayed it against the new one; every other engine leaves it
	// false.
	ReplayOld bool

	havocSeed int64
}

// NewExecutor constructs an Executor. ssaInfo supplies, per CFG name, the
// SSAInfo passes.SSA produced when building that CFG - needed to resolve a
// landed-on phi's operands to variable names (spec §4.2).
func NewExecutor(ctx smt.Context, program map[string]*cfg.CFG, ssaInfo map[string]*passes.SSAInfo, vcMode bool, timeoutMS int) *Executor {
	return &Executor{
		SMT:       ctx,
		Program:   program,
		SSA:       ssaInfo,
		Guards:    guard.NewGenerator(),
		VCMode:    vcMode,
		TimeoutMS: timeoutMS,
	}
}

// resolver builds the Evaluate/Encode Resolver for c's current frame at the
// current cycle, reading through the contextualized-name-keyed stores.
func (ex *Executor) resolver(c *Context) Resolver {
	cfgObj := c.Top().CFG
	ssaInfo := ex.SSA[cfgObj.Name]
	return Resolver{
		Concrete: func(name string) (ir.Value, bool) {
			v := c.State.MaxVersion(name)
			if v < 0 {
				return ir.Value{}, false
			}
			return c.State.Concrete.Load(ContextualizedName{name, v, c.Cycle}.String())
		},
		Symbolic: func(name string) (smt.Expr, bool) {
			v := c.State.MaxVersion(name)
			if v < 0 {
				return nil, false
			}
			return c.State.Symbolic.Load(ContextualizedName{name, v, c.Cycle}.String())
		},
		PhiOperand: func(e ir.Expr) string {
			preds := localPreds(cfgObj, c.State.Vertex)
			for i, p := range preds {
				if p == c.State.From {
					if i < len(e.PhiOperands) && ssaInfo != nil {
						return ssaInfo.Name(e.PhiOperands[i])
					}
				}
			}
			if len(e.PhiOperands) > 0 && ssaInfo != nil {
				return ssaInfo.Name(e.PhiOperands[0])
			}
			return ""
		},
	}
}

// write bumps flattened's version and stores its concrete/symbolic binding
// at the new version, returning the contextualized name written.
func (ex *Executor) write(c *Context, flattened string, concrete ir.Value, symbolic smt.Expr) ContextualizedName {
	v := c.State.NextVersion(flattened)
	name := ContextualizedName{flattened, v, c.Cycle}
	c.State.Concrete.Store(name.String(), concrete)
	c.State.Symbolic.Store(name.String(), symbolic)
	return name
}

// Step executes the instruction at c's current vertex, mutating c in
// place, and returns a forked sibling context when tryFork produced one.
func (ex *Executor) Step(c *Context) (*Context, Status, error) {
	top := c.Top()
	v, ok := top.CFG.Vertex(c.State.Vertex)
	if !ok {
		return nil, Expected, errs.New(errs.IRMalformed, "executor: no vertex %d in %q", c.State.Vertex, top.CFG.Name)
	}

	switch v.Kind {
	case cfg.EntryVertex:
		return ex.stepEntry(c, v)
	case cfg.ExitVertex:
		return ex.stepExit(c)
	case cfg.RegularVertex:
		return ex.stepRegular(c, v)
	default:
		return nil, Expected, errs.New(errs.IRMalformed, "executor: unhandled vertex kind %d", v.Kind)
	}
}

func (ex *Executor) stepEntry(c *Context, v *cfg.Vertex) (*Context, Status, error) {
	if ex.VCMode && c.State.VC != nil {
		ex.mintLiteral(c, v.Label, nil)
	}
	if ex.Summarizer != nil && ex.VCMode && c.State.VC != nil && c.Depth() > 1 {
		applied, err := ex.tryApplySummary(c)
		if err != nil {
			return nil, Expected, err
		}
		if applied {
			return nil, Expected, nil
		}
	}
	succs := localSuccs(c.Top().CFG, v.Label)
	if len(succs) != 1 {
		return nil, Expected, errs.New(errs.IRMalformed, "executor: entry vertex %d must have exactly one successor", v.Label)
	}
	ex.advance(c, succs[0])
	return nil, Expected, nil
}

// tryApplySummary consults ex.Summarizer for a cached summary applicable to
// the callee activation c.Top() has just entered. If one applies, its
// outputs are installed into c's state and the call returns immediately
// without descending into the callee body (spec §4.6 "call", §4.9: "the
// call may return immediately with a refined state").
func (ex *Executor) tryApplySummary(c *Context) (bool, error) {
	top := c.Top()
	inputs := ex.summaryInputs(c, top)
	_, outputs, ok := ex.Summarizer.Applicable(top.Scope, ex.TimeoutMS, inputs)
	if !ok {
		return false, nil
	}

	for flattened, expr := range outputs {
		kind := declKind(top.CFG, flattened)
		ex.havocSeed++
		concrete := randomConcreteValue(kind, ex.havocSeed)
		ex.write(c, flattened, concrete, expr)
	}

	// The skipped body never mints its own exit literal, so one stands in
	// for it here, tied to a literal minted at the caller's return point -
	// the unknown, over-approximating link spec §3/§4.6 describes for a
	// summary-satisfied call.
	exitLit := ex.mintLiteral(c, top.CFG.Exit(), nil)
	frame := c.Pop()
	returnLit := ex.mintLiteral(c, frame.ReturnLabel, nil)
	c.State.VC.UnknownSummaryLiterals[exitLit] = returnLit

	ex.advance(c, frame.ReturnLabel)
	return true, nil
}

// summaryInputs collects the concrete valuation of top's input parameters,
// the substitution Summarizer.Applicable needs to check a cached summary
// against this call's actual arguments (spec §4.9).
func (ex *Executor) summaryInputs(c *Context, top *Frame) map[string]ir.Value {
	inputs := map[string]ir.Value{}
	for _, d := range top.CFG.Flattened {
		if d.Kind != ir.Input {
			continue
		}
		v := c.State.MaxVersion(d.Path)
		if v < 0 {
			continue
		}
		if val, ok := c.State.Concrete.Load(ContextualizedName{d.Path, v, c.Cycle}.String()); ok {
			inputs[d.Path] = val
		}
	}
	return inputs
}

func (ex *Executor) stepExit(c *Context) (*Context, Status, error) {
	var exitLit guard.Literal
	if ex.VCMode && c.State.VC != nil {
		exitLit = ex.mintLiteral(c, c.State.Vertex, nil)
	}
	if c.Depth() == 1 {
		c.Cycle++
		ex.advance(c, c.Top().CFG.Entry())
		return nil, Expected, nil
	}
	if ex.Summarizer != nil && ex.VCMode && c.State.VC != nil {
		ex.recordCalleeExit(c, exitLit)
	}
	frame := c.Pop()
	ex.advance(c, frame.ReturnLabel)
	return nil, Expected, nil
}

// recordCalleeExit reconstructs and caches the summaries for the procedure
// activation about to be popped, now that its exit literal (exitLit) has
// been minted (spec §4.9: "on procedure exit the summarizer reconstructs
// all realizable paths ... each path yields one candidate summary").
func (ex *Executor) recordCalleeExit(c *Context, exitLit guard.Literal) {
	top := c.Top()
	entryLit, ok := ex.Guards.KeyMap()[guard.VertexKey{Scope: top.Scope, Label: top.CFG.Entry(), Cycle: c.Cycle}]
	if !ok {
		return
	}
	ex.Summarizer.RecordExit(top.Scope, c.State.VC, entryLit, exitLit)
}

// mintLiteral mints a fresh assumption literal for (c's current scope,
// label, cycle), links it to whatever literal was previously in force as
// its predecessor, records assumption (if non-nil) as the expression
// assumed to hold at it, and pushes it onto the VC tables' assumption-
// literal stack (spec §3, §4.6 VC mode).
func (ex *Executor) mintLiteral(c *Context, label cfg.Label, assumption smt.Expr) guard.Literal {
	prev := ex.currentLiteral(c)
	hadPrev := len(c.State.VC.AssumptionLiterals) > 0

	lit := ex.Guards.Next(guard.VertexKey{Scope: c.Top().Scope, Label: label, Cycle: c.Cycle})
	if hadPrev {
		if c.State.VC.Predecessors[lit] == nil {
			c.State.VC.Predecessors[lit] = guard.None()
		}
		c.State.VC.Predecessors[lit].Add(prev)
	}
	if assumption != nil {
		c.State.VC.Assumptions[lit] = append(c.State.VC.Assumptions[lit], assumption)
	}
	c.State.VC.AssumptionLiterals = append(c.State.VC.AssumptionLiterals, lit)
	return lit
}

func (ex *Executor) stepRegular(c *Context, v *cfg.Vertex) (*Context, Status, error) {
	switch v.Instr.Kind {
	case cfg.AssignmentInstrKind:
		if err := ex.execAssignment(c, v.Instr); err != nil {
			return nil, Expected, err
		}
		return ex.advanceSingle(c, v.Label)
	case cfg.HavocInstrKind:
		if err := ex.execHavoc(c, v.Instr); err != nil {
			return nil, Expected, err
		}
		return ex.advanceSingle(c, v.Label)
	case cfg.IfInstrKind:
		return ex.execIf(c, v)
	case cfg.CallInstrKind:
		return ex.execCall(c, v)
	case cfg.SequenceInstrKind:
		for _, child := range v.Instr.Children {
			var err error
			switch child.Kind {
			case cfg.AssignmentInstrKind:
				err = ex.execAssignment(c, child)
			case cfg.HavocInstrKind:
				err = ex.execHavoc(c, child)
			default:
				err = errs.New(errs.IRMalformed, "executor: sequence child of unsupported kind %d", child.Kind)
			}
			if err != nil {
				return nil, Expected, err
			}
		}
		return ex.advanceSingle(c, v.Label)
	default:
		return nil, Expected, errs.New(errs.IRMalformed, "executor: unhandled instruction kind %d", v.Instr.Kind)
	}
}

func (ex *Executor) advanceSingle(c *Context, from cfg.Label) (*Context, Status, error) {
	succs := localSuccs(c.Top().CFG, from)
	if len(succs) != 1 {
		return nil, Expected, errs.New(errs.IRMalformed, "executor: vertex %d must have exactly one successor", from)
	}
	ex.advance(c, succs[0])
	return nil, Expected, nil
}

func (ex *Executor) advance(c *Context, to cfg.Label) {
	c.State.From = c.State.Vertex
	c.State.Vertex = to
}

func (ex *Executor) execAssignment(c *Context, instr cfg.Instr) error {
	r := ex.resolver(c)
	concrete, err := Evaluate(instr.RHS, r, ex.ReplayOld)
	if err != nil {
		return err
	}
	symbolic, err := Encode(ex.SMT, instr.RHS, r, ProcessNew, func(old, newExpr smt.Expr) {
		ex.recordShadow(c, instr.LHS, old, newExpr)
	})
	if err != nil {
		return err
	}
	name := ex.write(c, instr.LHS, concrete, symbolic)
	if ex.VCMode && c.State.VC != nil && len(c.State.VC.AssumptionLiterals) > 0 {
		lit := ex.currentLiteral(c)
		if c.State.VC.HardConstraints[lit] == nil {
			c.State.VC.HardConstraints[lit] = map[string]smt.Expr{}
		}
		c.State.VC.HardConstraints[lit][name.String()] = symbolic
	}
	return nil
}

func (ex *Executor) recordShadow(c *Context, lhs string, old, newExpr smt.Expr) {
	if c.State.Shadow == nil {
		return
	}
	c.State.Shadow.Store(lhs, ShadowEntry{Old: old, New: newExpr})
}

func (ex *Executor) execHavoc(c *Context, instr cfg.Instr) error {
	cfgObj := c.Top().CFG
	kind := declKind(cfgObj, instr.LHS)
	ex.havocSeed++
	concrete := randomConcreteValue(kind, ex.havocSeed)

	version := c.State.NextVersion(instr.LHS)
	name := ContextualizedName{instr.LHS, version, c.Cycle}
	c.State.Concrete.Store(name.String(), concrete)
	// The uninterpreted constant is named by the contextualized name itself,
	// not the bare SSA name: tryFork's model substitution writes results
	// back into the concrete store keyed by exactly this string.
	c.State.Symbolic.Store(name.String(), ex.SMT.MakeConstant(name.String(), kind))
	return nil
}

// randomConcreteValue deterministically derives the seeded random Value a
// havoc writes to the concrete store (spec §4.6). It is independent of the
// SMT façade's MakeRandomValue, which produces a solver-side literal rather
// than a usable ir.Value.
func randomConcreteValue(kind ir.TypeKind, seed int64) ir.Value {
	src := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	switch kind {
	case ir.Boolean:
		return ir.NewBool(src.IntN(2) == 1)
	default:
		return ir.NewInt(src.Int32())
	}
}

// declKind resolves the declared type kind of a (possibly SSA-suffixed)
// variable name by stripping its suffix and looking it up in the owning
// CFG's flattened interface.
func declKind(c *cfg.CFG, name string) ir.TypeKind {
	base := basePath(name)
	for _, d := range c.Flattened {
		if d.Path == base {
			return d.Type.Kind
		}
	}
	return ir.Integer
}

func (ex *Executor) execIf(c *Context, v *cfg.Vertex) (*Context, Status, error) {
	r := ex.resolver(c)
	concrete, err := Evaluate(v.Instr.Cond, r, ex.ReplayOld)
	if err != nil {
		return nil, Expected, err
	}
	symbolic, err := Encode(ex.SMT, v.Instr.Cond, r, ProcessNew, nil)
	if err != nil {
		return nil, Expected, err
	}

	var trueLabel, falseLabel cfg.Label
	for _, e := range c.Top().CFG.Out(v.Label) {
		switch e.Kind {
		case cfg.TrueBranch:
			trueLabel = e.To
		case cfg.FalseBranch:
			falseLabel = e.To
		}
	}

	followed, other := falseLabel, trueLabel
	negated := symbolic
	if concrete.Bool {
		followed, other = trueLabel, falseLabel
		negated = ex.SMT.Not(symbolic)
	}

	forked, err := ex.tryFork(c, negated, other)
	if err != nil {
		return nil, Expected, err
	}

	followedExpr := followedCondExpr(ex.SMT, concrete.Bool, symbolic)
	c.State.PathConstraint = append(c.State.PathConstraint, followedExpr)

	if ex.VCMode && c.State.VC != nil {
		if forked != nil && forked.State.VC != nil {
			ex.mintLiteral(forked, other, negated)
		}
		ex.mintLiteral(c, followed, followedExpr)
	}

	ex.advance(c, followed)
	return forked, Expected, nil
}

// followedCondExpr returns the expression asserting the branch actually
// taken (symbolic as-is if true was followed, its negation otherwise).
func followedCondExpr(ctx smt.Context, tookTrue bool, cond smt.Expr) smt.Expr {
	if tookTrue {
		return cond
	}
	return ctx.Not(cond)
}

// tryFork implements spec §4.6's tryFork policy: negated is the negation of
// the followed branch's condition. A fork is attempted only when negated
// mentions a whole-program input; the minimal-hard-constraint narrowing
// spec §4.6 describes is left to VC-mode engines (summarizer/merger own
// that bookkeeping) and not reproduced bit-for-bit here.
func (ex *Executor) tryFork(c *Context, negated smt.Expr, otherTarget cfg.Label) (*Context, error) {
	if len(ex.SMT.UninterpretedConstants(negated)) == 0 {
		return nil, nil
	}

	exprs := append([]smt.Expr{negated}, c.State.PathConstraint...)
	result := ex.SMT.Check(ex.TimeoutMS, exprs...)
	switch result.Status {
	case smt.Unsat:
		return nil, nil
	case smt.Unknown:
		return nil, errs.New(errs.SolverUnknown, "tryFork: solver returned unknown")
	}

	model, _ := result.IsSat()
	forked, err := c.Clone()
	if err != nil {
		return nil, err
	}
	for name, val := range model {
		forked.State.Concrete.Store(name, val)
	}
	forked.State.PathConstraint = append(forked.State.PathConstraint, negated)
	ex.advance(forked, otherTarget)
	return forked, nil
}

func (ex *Executor) execCall(c *Context, v *cfg.Vertex) (*Context, Status, error) {
	callee, ok := ex.Program[v.Instr.Callee]
	if !ok {
		return nil, Expected, errs.New(errs.IRMalformed, "executor: unknown callee %q", v.Instr.Callee)
	}

	var returnLabel cfg.Label = -1
	for _, e := range c.Top().CFG.Out(v.Label) {
		if e.Kind == cfg.IntraproceduralCallToReturn {
			returnLabel = e.To
		}
	}
	if returnLabel == -1 {
		return nil, Expected, errs.New(errs.IRMalformed, "executor: call vertex %d missing intraprocedural_call_to_return edge", v.Label)
	}

	scope := v.Instr.Callee
	if c.Top().Scope != "" {
		scope = c.Top().Scope + "." + v.Instr.Callee
	}
	c.Push(callee, scope, returnLabel)
	// The callee-entry assumption literal is minted by stepEntry on the next
	// Step call, linked to the caller's currently-in-force literal through
	// the shared (process-wide, not per-frame) AssumptionLiterals stack
	// (spec §4.6 "call"). Whether this call can skip straight to its return
	// point instead of descending is also decided there, by
	// stepEntry.tryApplySummary, once the callee-entry literal is in force.
	ex.advance(c, callee.Entry())
	return nil, Expected, nil
}

// currentLiteral returns the assumption literal presently in force, or the
// zero Literal if none has been minted yet (non-VC-mode callers never read
// this value).
func (ex *Executor) currentLiteral(c *Context) guard.Literal {
	if c.State.VC == nil || len(c.State.VC.AssumptionLiterals) == 0 {
		return 0
	}
	return c.State.VC.AssumptionLiterals[len(c.State.VC.AssumptionLiterals)-1]
}
