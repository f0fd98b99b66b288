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

import "github.com/ahorn-lang/ahorn/internal/errs"

// FlattenedDecl is one entry of a flattened interface: a dot-separated path
// name (spec §3: e.g. "P.fb.a") and the primitive (non-Derived) type at
// that path.
type FlattenedDecl struct {
	Path string
	Type Type
	Kind VarKind
	Init *Value
}

// Flatten computes the flattened interface of iface: every declared
// variable, plus every variable transitively reachable through a Derived
// local's fields, by fixed-point expansion (spec §3, §4.1). Expansion
// visits each Derived type's fields in declaration order so the resulting
// path order is deterministic.
func Flatten(iface Interface) ([]FlattenedDecl, error) {
	var out []FlattenedDecl
	seen := map[string]bool{}
	for _, d := range iface.All() {
		expanded, err := expand(d.Name, d.Type, d.Kind, d.Init, seen, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func expand(path string, t Type, kind VarKind, init *Value, seen map[string]bool, stack []string) ([]FlattenedDecl, error) {
	if !t.IsComposite() {
		if seen[path] {
			return nil, errs.New(errs.IRMalformed, "duplicate flattened path %q", path)
		}
		seen[path] = true
		return []FlattenedDecl{{Path: path, Type: t, Kind: kind, Init: init}}, nil
	}

	for _, s := range stack {
		if s == t.Name {
			return nil, errs.New(errs.IRMalformed, "cyclic derived type %q reached via %q", t.Name, path)
		}
	}
	stack = append(stack, t.Name)

	var out []FlattenedDecl
	for _, f := range t.Fields {
		fieldPath := path + "." + f.Name
		expanded, err := expand(fieldPath, f.Type, kind, nil, seen, stack)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}
