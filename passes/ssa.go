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

package passes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/ir"
)

// SSAInfo records, for every ir.SSAValue the SSA pass minted, which source
// variable it versions and whether it denotes that variable's value on
// procedure entry (materialized with no suffix) rather than a later
// definition or merge (materialized as "name~id").
type SSAInfo struct {
	ValueVar map[ir.SSAValue]string
	Initial  map[ir.SSAValue]bool
}

// Name returns the materialized variable name for v.
func (s *SSAInfo) Name(v ir.SSAValue) string {
	if s.Initial[v] {
		return s.ValueVar[v]
	}
	return fmt.Sprintf("%s~%d", s.ValueVar[v], v)
}

// SSA renames every variable definition in c to a fresh SSA value using
// Braun et al.'s on-the-fly construction (spec §4.2): writeVariable records
// a definition reaching the end of a block, readVariable resolves a use by
// walking predecessors (inserting an operand-less phi candidate at unsealed
// merge points), and sealBlock finalizes a block's phis once every
// predecessor has been filled. Trivial phis (a single distinct non-self
// operand) are eliminated by aliasing to that operand instead of rewriting
// already-built expressions: every read is materialized into the output
// CFG only after the whole procedure has been processed and all aliases
// are known.
func SSA(c *cfg.CFG) (*cfg.CFG, *SSAInfo, error) {
	b := newSSABuilder(c)
	b.run()

	out, err := cloneShell(c)
	if err != nil {
		return nil, nil, err
	}

	maxLabel := cfg.Label(-1)
	for _, v := range c.Vertices() {
		if v.Label > maxLabel {
			maxLabel = v.Label
		}
	}
	nextLabel := maxLabel + 1
	fresh := func() cfg.Label {
		l := nextLabel
		nextLabel++
		return l
	}

	chainHead := map[cfg.Label]cfg.Label{}

	for _, v := range c.Vertices() {
		var prefix []cfg.Instr
		for _, phiVal := range b.phiPrefix[v.Label] {
			if b.resolve(phiVal) != phiVal {
				continue // eliminated as trivial, never materialized
			}
			raw := b.phiOperands[phiVal]
			ops := make([]ir.SSAValue, len(raw))
			for i, o := range raw {
				ops[i] = b.resolve(o)
			}
			phi := ir.Phi()
			phi.PhiOperands = ops
			prefix = append(prefix, cfg.Assignment(b.finalName(phiVal), phi))
		}

		prev := cfg.Label(-1)
		head := v.Label
		for i, instr := range prefix {
			l := fresh()
			if i == 0 {
				head = l
			}
			if err := out.AddVertex(cfg.Vertex{Label: l, Kind: cfg.RegularVertex, Instr: instr}); err != nil {
				return nil, nil, err
			}
			if prev != -1 {
				out.AddEdge(cfg.Edge{From: prev, To: l, Kind: cfg.Intraprocedural})
			}
			prev = l
		}

		if v.Kind == cfg.RegularVertex {
			if err := out.AddVertex(cfg.Vertex{Label: v.Label, Kind: cfg.RegularVertex, Instr: b.finalize(b.rewritten[v.Label])}); err != nil {
				return nil, nil, err
			}
		} else {
			if err := out.AddVertex(cfg.Vertex{Label: v.Label, Kind: v.Kind}); err != nil {
				return nil, nil, err
			}
		}
		if prev != -1 {
			out.AddEdge(cfg.Edge{From: prev, To: v.Label, Kind: cfg.Intraprocedural})
			chainHead[v.Label] = head
		} else {
			chainHead[v.Label] = v.Label
		}
	}

	for _, e := range c.Edges() {
		e2 := e
		if head, ok := chainHead[e.To]; ok {
			e2.To = head
		}
		out.AddEdge(e2)
	}

	if err := out.Validate(); err != nil {
		return nil, nil, err
	}
	return out, &SSAInfo{ValueVar: b.valueVar, Initial: b.initial}, nil
}

type ssaBuilder struct {
	c *cfg.CFG

	nextValue ir.SSAValue
	valueVar  map[ir.SSAValue]string
	initial   map[ir.SSAValue]bool
	initialOf map[string]ir.SSAValue

	currentDef map[string]map[cfg.Label]ir.SSAValue
	phiVar     map[ir.SSAValue]string
	phiBlock   map[ir.SSAValue]cfg.Label
	phiOperands map[ir.SSAValue][]ir.SSAValue
	phiPrefix   map[cfg.Label][]ir.SSAValue
	alias       map[ir.SSAValue]ir.SSAValue

	incompletePhis map[cfg.Label]map[string]ir.SSAValue
	sealed         map[cfg.Label]bool
	filled         map[cfg.Label]bool
	rewritten      map[cfg.Label]cfg.Instr
}

func newSSABuilder(c *cfg.CFG) *ssaBuilder {
	return &ssaBuilder{
		c:              c,
		valueVar:       map[ir.SSAValue]string{},
		initial:        map[ir.SSAValue]bool{},
		initialOf:      map[string]ir.SSAValue{},
		currentDef:     map[string]map[cfg.Label]ir.SSAValue{},
		phiVar:         map[ir.SSAValue]string{},
		phiBlock:       map[ir.SSAValue]cfg.Label{},
		phiOperands:    map[ir.SSAValue][]ir.SSAValue{},
		phiPrefix:      map[cfg.Label][]ir.SSAValue{},
		alias:          map[ir.SSAValue]ir.SSAValue{},
		incompletePhis: map[cfg.Label]map[string]ir.SSAValue{},
		sealed:         map[cfg.Label]bool{},
		filled:         map[cfg.Label]bool{},
		rewritten:      map[cfg.Label]cfg.Instr{},
	}
}

func (b *ssaBuilder) localPreds(l cfg.Label) []cfg.Label {
	var out []cfg.Label
	for _, e := range b.c.In(l) {
		if e.Kind == cfg.InterproceduralCall || e.Kind == cfg.InterproceduralReturn {
			continue
		}
		out = append(out, e.From)
	}
	return out
}

func (b *ssaBuilder) localSuccs(l cfg.Label) []cfg.Label {
	var out []cfg.Label
	for _, e := range b.c.Out(l) {
		if e.Kind == cfg.InterproceduralCall || e.Kind == cfg.InterproceduralReturn {
			continue
		}
		out = append(out, e.To)
	}
	return out
}

func (b *ssaBuilder) run() {
	entry := b.c.Entry()
	queue := []cfg.Label{entry}
	inQueue := map[cfg.Label]bool{entry: true}
	for len(queue) > 0 {
		block := queue[0]
		queue = queue[1:]
		inQueue[block] = false

		// Seal before filling whenever possible: filling reads variables,
		// and a read inside a block that could already be sealed (all of
		// its predecessors known) must not mistake itself for an unsealed
		// merge point and fabricate a needless phi.
		b.trySeal(block)
		if !b.filled[block] {
			v, _ := b.c.Vertex(block)
			b.rewritten[block] = b.fillBlock(v)
			b.filled[block] = true
		}

		for _, s := range b.localSuccs(block) {
			b.trySeal(s)
			if !b.filled[s] && !inQueue[s] {
				queue = append(queue, s)
				inQueue[s] = true
			}
		}
	}

	// Defensive: fill anything unreachable from entry so every vertex has a
	// rewritten instruction before finalize() walks it.
	for _, v := range b.c.Vertices() {
		if !b.filled[v.Label] {
			b.sealed[v.Label] = true
			b.rewritten[v.Label] = b.fillBlock(v)
			b.filled[v.Label] = true
		}
	}
}

func (b *ssaBuilder) trySeal(block cfg.Label) {
	if b.sealed[block] {
		return
	}
	for _, p := range b.localPreds(block) {
		if !b.filled[p] {
			return
		}
	}
	b.sealBlock(block)
}

func (b *ssaBuilder) sealBlock(block cfg.Label) {
	for v, phiVal := range b.incompletePhis[block] {
		b.addPhiOperands(phiVal, b.localPreds(block))
		resolved := b.tryRemoveTrivialPhi(phiVal)
		if resolved != phiVal {
			b.writeVariable(v, block, resolved)
		}
	}
	b.sealed[block] = true
}

func (b *ssaBuilder) newValue(v string) ir.SSAValue {
	id := b.nextValue
	b.nextValue++
	b.valueVar[id] = v
	return id
}

func (b *ssaBuilder) initialValue(v string) ir.SSAValue {
	if id, ok := b.initialOf[v]; ok {
		return id
	}
	id := b.newValue(v)
	b.initial[id] = true
	b.initialOf[v] = id
	return id
}

func (b *ssaBuilder) writeVariable(v string, block cfg.Label, val ir.SSAValue) {
	if b.currentDef[v] == nil {
		b.currentDef[v] = map[cfg.Label]ir.SSAValue{}
	}
	b.currentDef[v][block] = val
}

func (b *ssaBuilder) newPhi(v string, block cfg.Label) ir.SSAValue {
	val := b.newValue(v)
	b.phiVar[val] = v
	b.phiBlock[val] = block
	b.phiPrefix[block] = append(b.phiPrefix[block], val)
	return val
}

func (b *ssaBuilder) readVariable(v string, block cfg.Label) ir.SSAValue {
	if m, ok := b.currentDef[v]; ok {
		if val, ok := m[block]; ok {
			return val
		}
	}
	return b.readVariableRecursive(v, block)
}

func (b *ssaBuilder) readVariableRecursive(v string, block cfg.Label) ir.SSAValue {
	var val ir.SSAValue
	if !b.sealed[block] {
		val = b.newPhi(v, block)
		if b.incompletePhis[block] == nil {
			b.incompletePhis[block] = map[string]ir.SSAValue{}
		}
		b.incompletePhis[block][v] = val
	} else {
		preds := b.localPreds(block)
		switch len(preds) {
		case 0:
			val = b.initialValue(v)
		case 1:
			val = b.readVariable(v, preds[0])
		default:
			val = b.newPhi(v, block)
			b.writeVariable(v, block, val) // break recursive cycles through loop back-edges
			b.addPhiOperands(val, preds)
			val = b.tryRemoveTrivialPhi(val)
		}
	}
	b.writeVariable(v, block, val)
	return val
}

func (b *ssaBuilder) addPhiOperands(phiVal ir.SSAValue, preds []cfg.Label) {
	v := b.phiVar[phiVal]
	for _, p := range preds {
		b.phiOperands[phiVal] = append(b.phiOperands[phiVal], b.readVariable(v, p))
	}
}

// tryRemoveTrivialPhi collapses phiVal to its single distinct non-self
// operand, if one exists, and returns the value callers should use in its
// place (phiVal itself if it is not trivial).
func (b *ssaBuilder) tryRemoveTrivialPhi(phiVal ir.SSAValue) ir.SSAValue {
	var same ir.SSAValue = -1
	for _, raw := range b.phiOperands[phiVal] {
		op := b.resolve(raw)
		if op == phiVal || op == same {
			continue
		}
		if same != -1 {
			return phiVal // more than one distinct operand: genuinely non-trivial
		}
		same = op
	}
	if same == -1 {
		return phiVal // unreachable phi (no operands resolved yet); keep as-is
	}
	b.alias[phiVal] = same
	return same
}

func (b *ssaBuilder) resolve(v ir.SSAValue) ir.SSAValue {
	for {
		r, ok := b.alias[v]
		if !ok || r == v {
			return v
		}
		v = r
	}
}

func (b *ssaBuilder) finalName(v ir.SSAValue) string {
	v = b.resolve(v)
	if b.initial[v] {
		return b.valueVar[v]
	}
	return fmt.Sprintf("%s~%d", b.valueVar[v], v)
}

func (b *ssaBuilder) placeholder(v ir.SSAValue) string { return fmt.Sprintf("$%d", v) }

func (b *ssaBuilder) fillBlock(v *cfg.Vertex) cfg.Instr {
	if v.Kind != cfg.RegularVertex {
		return cfg.Instr{}
	}
	if v.Instr.Kind == cfg.SequenceInstrKind {
		children := make([]cfg.Instr, len(v.Instr.Children))
		for i, child := range v.Instr.Children {
			children[i] = b.fillStmt(child, v.Label)
		}
		return cfg.Seq(children...)
	}
	return b.fillStmt(v.Instr, v.Label)
}

func (b *ssaBuilder) fillStmt(instr cfg.Instr, block cfg.Label) cfg.Instr {
	switch instr.Kind {
	case cfg.AssignmentInstrKind:
		rhs := b.rewriteReads(instr.RHS, block)
		val := b.newValue(instr.LHS)
		b.writeVariable(instr.LHS, block, val)
		return cfg.Assignment(b.finalName(val), rhs)
	case cfg.HavocInstrKind:
		val := b.newValue(instr.LHS)
		b.writeVariable(instr.LHS, block, val)
		return cfg.Havoc(b.finalName(val))
	case cfg.IfInstrKind:
		return cfg.If(b.rewriteReads(instr.Cond, block))
	default: // CallInstrKind: nothing left to rename post-call-transformation
		return instr
	}
}

func (b *ssaBuilder) rewriteReads(e ir.Expr, block cfg.Label) ir.Expr {
	switch e.Kind {
	case ir.VarExpr:
		val := b.readVariable(e.Name, block)
		return ir.Var(b.placeholder(val))
	case ir.FieldExpr:
		return ir.FieldAccess(b.rewriteReads(*e.Base, block), e.Field)
	case ir.UnaryExpr:
		return ir.Un(e.UnaryOp, b.rewriteReads(*e.X, block))
	case ir.BinaryExpr:
		return ir.Bin(e.BinaryOp, b.rewriteReads(*e.L, block), b.rewriteReads(*e.R, block))
	case ir.CastExpr:
		return ir.CastTo(e.Cast, b.rewriteReads(*e.X, block))
	case ir.ChangeExpr:
		return ir.Change(b.rewriteReads(*e.Old, block), b.rewriteReads(*e.New, block))
	default:
		return e
	}
}

// finalize walks a fillBlock result after every block has been processed
// and every phi's triviality is known, substituting each "$<id>" read
// placeholder for its fully resolved materialized name.
func (b *ssaBuilder) finalize(instr cfg.Instr) cfg.Instr {
	switch instr.Kind {
	case cfg.AssignmentInstrKind:
		return cfg.Assignment(instr.LHS, b.substitute(instr.RHS))
	case cfg.IfInstrKind:
		return cfg.If(b.substitute(instr.Cond))
	case cfg.SequenceInstrKind:
		children := make([]cfg.Instr, len(instr.Children))
		for i, child := range instr.Children {
			children[i] = b.finalize(child)
		}
		return cfg.Seq(children...)
	default:
		return instr
	}
}

func (b *ssaBuilder) substitute(e ir.Expr) ir.Expr {
	switch e.Kind {
	case ir.VarExpr:
		if strings.HasPrefix(e.Name, "$") {
			id, err := strconv.Atoi(e.Name[1:])
			if err != nil {
				return e
			}
			return ir.Var(b.finalName(ir.SSAValue(id)))
		}
		return e
	case ir.FieldExpr:
		return ir.FieldAccess(b.substitute(*e.Base), e.Field)
	case ir.UnaryExpr:
		return ir.Un(e.UnaryOp, b.substitute(*e.X))
	case ir.BinaryExpr:
		return ir.Bin(e.BinaryOp, b.substitute(*e.L), b.substitute(*e.R))
	case ir.CastExpr:
		return ir.CastTo(e.Cast, b.substitute(*e.X))
	case ir.ChangeExpr:
		return ir.Change(b.substitute(*e.Old), b.substitute(*e.New))
	default:
		return e
	}
}
