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

import "github.com/ahorn-lang/ahorn/internal/errs"

// Program is an arena of named CFGs: the program-CFG plus every callee CFG
// it (transitively) reaches, linked by name rather than by pointer (spec
// §9). The call graph may be cyclic only if the source program admits
// recursion, which Ahorn rejects (spec §3); Validate enforces this.
type Program struct {
	Entry string
	cfgs  map[string]*CFG
	order []string
}

// NewProgram constructs an empty Program arena.
func NewProgram(entry string) *Program {
	return &Program{Entry: entry, cfgs: map[string]*CFG{}}
}

// Add registers a CFG under its own name. Re-registering an existing name
// is an ir_malformed error.
func (p *Program) Add(c *CFG) error {
	if _, exists := p.cfgs[c.Name]; exists {
		return errs.New(errs.IRMalformed, "duplicate CFG name %q", c.Name)
	}
	p.cfgs[c.Name] = c
	p.order = append(p.order, c.Name)
	return nil
}

// Lookup resolves a CFG by name.
func (p *Program) Lookup(name string) (*CFG, bool) {
	c, ok := p.cfgs[name]
	return c, ok
}

// CFGs returns every registered CFG, in registration order.
func (p *Program) CFGs() []*CFG {
	out := make([]*CFG, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.cfgs[name])
	}
	return out
}

// Validate checks well-formedness of every CFG (spec §3 invariants (i)-(iii))
// and rejects a cyclic call graph (spec §3: "the resulting call graph may
// be cyclic only if the source program admits recursion, which the engine
// rejects").
func (p *Program) Validate() error {
	for _, c := range p.CFGs() {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return p.checkAcyclic()
}

func (p *Program) checkAcyclic() error {
	const (
		white = iota
		gray
		black
	)
	color := map[string]int{}
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return errs.New(errs.Unsupported, "recursive call graph detected at %q (path: %v); Ahorn rejects recursion", name, append(path, name))
		}
		color[name] = gray
		c, ok := p.Lookup(name)
		if !ok {
			return errs.New(errs.IRMalformed, "call graph references unknown procedure %q", name)
		}
		for _, callee := range c.Callees {
			if err := visit(callee, append(path, name)); err != nil {
				return err
			}
		}
		color[name] = black
		return nil
	}
	return visit(p.Entry, nil)
}
