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

// Package testcase implements spec §6's test-case file format: the XML
// schema a `--test-suite` path feeds to the shadow engine, and the
// `--generate-test-suite` directory the shadow engine derives into. No XML
// library appears anywhere in the retrieved pack; encoding/xml is the
// exact fit for the schema spec §6 names and needs no third-party
// replacement (see DESIGN.md).
package testcase

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ahorn-lang/ahorn/ir"
)

// Valuation is one `variable="..."` XML element whose text body is `true`,
// `false`, or a decimal integer (spec §6).
type Valuation struct {
	Variable string `xml:"variable,attr"`
	Text     string `xml:",chardata"`
}

// Input is one `input cycle="..."` element: a whole-program input
// valuation set for a single cycle (spec §6).
type Input struct {
	Cycle      int         `xml:"cycle,attr"`
	Valuations []Valuation `xml:"valuation"`
}

// TestCase is the root `testcase` element (spec §6): an initial valuation
// applied before cycle 0, plus one Input per cycle thereafter.
type TestCase struct {
	XMLName        xml.Name    `xml:"testcase"`
	Initialization []Valuation `xml:"initialization>valuation"`
	Inputs         []Input     `xml:"input"`
}

// valuationOf encodes val as a Valuation for name, per spec §6's three
// supported literal forms.
func valuationOf(name string, val ir.Value) (Valuation, error) {
	switch val.Kind {
	case ir.BoolValue:
		return Valuation{Variable: name, Text: strconv.FormatBool(val.Bool)}, nil
	case ir.IntValue:
		return Valuation{Variable: name, Text: strconv.FormatInt(int64(val.Int), 10)}, nil
	default:
		return Valuation{}, fmt.Errorf("testcase: %s has unencodable value kind %v", name, val.Kind)
	}
}

func valueOf(v Valuation) (ir.Value, error) {
	if b, err := strconv.ParseBool(v.Text); err == nil {
		return ir.NewBool(b), nil
	}
	if i, err := strconv.ParseInt(v.Text, 10, 32); err == nil {
		return ir.NewInt(int32(i)), nil
	}
	return ir.Value{}, fmt.Errorf("testcase: variable %q has unparsable literal %q", v.Variable, v.Text)
}

// FromInitial builds a TestCase with no per-cycle inputs from an initial
// variable assignment, in a deterministic (sorted) variable order.
func FromInitial(initial map[string]ir.Value) (TestCase, error) {
	tc := TestCase{}
	for _, name := range sortedKeys(initial) {
		v, err := valuationOf(name, initial[name])
		if err != nil {
			return TestCase{}, err
		}
		tc.Initialization = append(tc.Initialization, v)
	}
	return tc, nil
}

// AddCycleInput appends cycle's whole-program input valuation to tc.
func (tc *TestCase) AddCycleInput(cycle int, input map[string]ir.Value) error {
	in := Input{Cycle: cycle}
	for _, name := range sortedKeys(input) {
		v, err := valuationOf(name, input[name])
		if err != nil {
			return err
		}
		in.Valuations = append(in.Valuations, v)
	}
	tc.Inputs = append(tc.Inputs, in)
	return nil
}

// Initial returns tc's initialization valuations decoded back into values.
func (tc TestCase) Initial() (map[string]ir.Value, error) {
	return decode(tc.Initialization)
}

// InputAt returns the decoded whole-program input recorded for cycle, or
// (nil, false) if tc has none.
func (tc TestCase) InputAt(cycle int) (map[string]ir.Value, bool, error) {
	for _, in := range tc.Inputs {
		if in.Cycle == cycle {
			vals, err := decode(in.Valuations)
			return vals, true, err
		}
	}
	return nil, false, nil
}

func decode(vs []Valuation) (map[string]ir.Value, error) {
	out := make(map[string]ir.Value, len(vs))
	for _, v := range vs {
		val, err := valueOf(v)
		if err != nil {
			return nil, err
		}
		out[v.Variable] = val
	}
	return out, nil
}

func sortedKeys(m map[string]ir.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marshal renders tc as indented XML, matching spec §6's schema.
func Marshal(tc TestCase) ([]byte, error) {
	return xml.MarshalIndent(tc, "", "  ")
}

// Unmarshal parses data as a single TestCase.
func Unmarshal(data []byte) (TestCase, error) {
	var tc TestCase
	if err := xml.Unmarshal(data, &tc); err != nil {
		return TestCase{}, err
	}
	return tc, nil
}

// ReadFile loads and parses one test-case XML file, for `--test-suite`'s
// per-file reads (spec §6).
func ReadFile(path string) (TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TestCase{}, err
	}
	return Unmarshal(data)
}

// ReadDir loads every `*.xml` file in dir as a TestCase, in directory
// listing order - the `--test-suite <dir>` path shadow mode seeds phase 1
// from (spec §6).
func ReadDir(dir string) ([]TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []TestCase
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".xml" {
			continue
		}
		tc, err := ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("testcase: reading %s: %w", e.Name(), err)
		}
		out = append(out, tc)
	}
	return out, nil
}

// WriteDir writes each of cases to dir as `tc-<NNNN>.xml` in declaration
// order, creating dir if needed - the `--generate-test-suite <dir>` output
// spec §6 names, numbered the way the teacher's `testdata/integration/*`
// fixtures are (SPEC_FULL.md §C).
func WriteDir(dir string, cases []TestCase) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, tc := range cases {
		data, err := Marshal(tc)
		if err != nil {
			return fmt.Errorf("testcase: marshalling case %d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("tc-%04d.xml", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
