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
	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/smt"
)

// Shadow extends an Executor with the divergence check spec §4.10 assigns to
// every `if` whose condition reaches a change-annotated sub-expression
// (ir.ChangeExpr): it evaluates the old and new encodings of the condition
// separately instead of just the new one. Every other instruction kind
// delegates unchanged to the embedded Executor.
type Shadow struct {
	*Executor
}

// NewShadow wraps ex. execShadowIf re-encodes each `if` condition with
// ProcessBoth itself and does not read State.Shadow; assignments are
// encoded with ProcessNew, so they do not write to State.Shadow either.
func NewShadow(ex *Executor) *Shadow {
	return &Shadow{Executor: ex}
}

// Step dispatches like Executor.Step, except a RegularVertex If instruction
// runs through execShadowIf. forked holds every additional context
// produced: at most one for a condition with no shadow expression
// (mirroring Executor.tryFork), or up to three for a shadow-tagged
// condition classified PotentialDivergent (spec §4.10's four-way split,
// less the one combination c itself continues as).
func (sh *Shadow) Step(c *Context) (forked []*Context, status Status, err error) {
	top := c.Top()
	v, ok := top.CFG.Vertex(c.State.Vertex)
	if !ok {
		return nil, Expected, errs.New(errs.IRMalformed, "shadow: no vertex %d in %q", c.State.Vertex, top.CFG.Name)
	}
	if v.Kind == cfg.RegularVertex && v.Instr.Kind == cfg.IfInstrKind {
		return sh.execShadowIf(c, v)
	}

	single, status, err := sh.Executor.Step(c)
	if err != nil || single == nil {
		return nil, status, err
	}
	return []*Context{single}, status, nil
}

// shadowCombo names one of the four (old, new) truth assignments spec §4.10
// considers for a shadow-tagged condition.
type shadowCombo struct{ old, new bool }

func (sh *Shadow) execShadowIf(c *Context, v *cfg.Vertex) ([]*Context, Status, error) {
	r := sh.resolver(c)

	newConcrete, err := Evaluate(v.Instr.Cond, r, false)
	if err != nil {
		return nil, Expected, err
	}

	var sawShadow bool
	newSymbolic, err := Encode(sh.SMT, v.Instr.Cond, r, ProcessBoth, func(old, newExpr smt.Expr) { sawShadow = true })
	if err != nil {
		return nil, Expected, err
	}
	if !sawShadow {
		single, status, err := sh.Executor.execIf(c, v)
		if err != nil || single == nil {
			return nil, status, err
		}
		return []*Context{single}, status, nil
	}

	oldConcrete, err := Evaluate(v.Instr.Cond, r, true)
	if err != nil {
		return nil, Expected, err
	}
	oldSymbolic, err := Encode(sh.SMT, v.Instr.Cond, r, ProcessOld, nil)
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

	c.State.PathConstraint = append(c.State.PathConstraint, followedCondExpr(sh.SMT, newConcrete.Bool, newSymbolic))
	c.State.OldPathConstraint = append(c.State.OldPathConstraint, followedCondExpr(sh.SMT, oldConcrete.Bool, oldSymbolic))

	followed := falseLabel
	if newConcrete.Bool {
		followed = trueLabel
	}

	if newConcrete.Bool != oldConcrete.Bool {
		sh.advance(c, followed)
		return nil, Divergent, nil
	}

	common := shadowCombo{old: newConcrete.Bool, new: newConcrete.Bool}
	var potential []*Context
	for _, combo := range [...]shadowCombo{{true, true}, {true, false}, {false, true}, {false, false}} {
		if combo == common {
			continue
		}

		oldTerm, newTerm := oldSymbolic, newSymbolic
		if !combo.old {
			oldTerm = sh.SMT.Not(oldSymbolic)
		}
		if !combo.new {
			newTerm = sh.SMT.Not(newSymbolic)
		}

		exprs := append([]smt.Expr{oldTerm, newTerm}, c.State.PathConstraint...)
		exprs = append(exprs, c.State.OldPathConstraint...)
		result := sh.SMT.Check(sh.TimeoutMS, exprs...)
		if result.Status != smt.Sat {
			continue
		}

		fc, err := c.Clone()
		if err != nil {
			return nil, Expected, err
		}
		if model, ok := result.IsSat(); ok {
			for name, val := range model {
				fc.State.Concrete.Store(name, val)
			}
		}
		fc.State.PathConstraint = append(fc.State.PathConstraint, newTerm)
		fc.State.OldPathConstraint = append(fc.State.OldPathConstraint, oldTerm)

		comboFollowed := falseLabel
		if combo.new {
			comboFollowed = trueLabel
		}
		sh.advance(fc, comboFollowed)
		potential = append(potential, fc)
	}

	sh.advance(c, followed)
	if len(potential) == 0 {
		return nil, Expected, nil
	}
	return potential, PotentialDivergent, nil
}
