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

// VarKind distinguishes the three declaration sections of a procedure
// interface (spec §3 Data model).
type VarKind uint8

const (
	Input VarKind = iota
	Output
	Local
)

// Decl is one declared variable of a procedure interface: a name, a data
// type, and an optional initialisation constant.
type Decl struct {
	Name string
	Type Type
	Kind VarKind
	// Init is the optional initialisation constant; nil if none was given,
	// in which case DefaultValue(Type.Kind) applies.
	Init *Value
}

// ProcKind is the closed set of procedure kinds a CFG may represent.
type ProcKind uint8

const (
	ProgramProc ProcKind = iota
	FunctionBlockProc
	FunctionProc
)

func (k ProcKind) String() string {
	switch k {
	case ProgramProc:
		return "program"
	case FunctionBlockProc:
		return "function_block"
	case FunctionProc:
		return "function"
	default:
		return "unknown"
	}
}

// Interface is the ordered input/output/local variable declarations of one
// procedure.
type Interface struct {
	Inputs  []Decl
	Outputs []Decl
	Locals  []Decl
}

// All returns the declarations of all three sections, in Inputs, Outputs,
// Locals order - the canonical order used when computing flattened names.
func (in Interface) All() []Decl {
	out := make([]Decl, 0, len(in.Inputs)+len(in.Outputs)+len(in.Locals))
	out = append(out, in.Inputs...)
	out = append(out, in.Outputs...)
	out = append(out, in.Locals...)
	return out
}

// Lookup finds a declaration by its direct (non-flattened) name.
func (in Interface) Lookup(name string) (Decl, bool) {
	for _, d := range in.All() {
		if d.Name == name {
			return d, true
		}
	}
	return Decl{}, false
}

// Module is one procedure's definition as produced by the (out-of-scope)
// front-end: its kind, name, interface, and body.
type Module struct {
	Kind      ProcKind
	Name      string
	Interface Interface
	Body      Instr
}

// Project is the fully parsed IR the Builder (spec §4.1) consumes: an
// ordered set of modules, one program acting as the entry point and zero or
// more function blocks/functions it (transitively) calls.
type Project struct {
	Modules []Module
	// Entry names the program module that is the analysis entry point.
	Entry string
}

// ModuleByName looks up a module by name, returning false if absent.
func (p Project) ModuleByName(name string) (Module, bool) {
	for _, m := range p.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return Module{}, false
}
