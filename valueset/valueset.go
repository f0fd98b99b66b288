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

// Package valueset declares the interface to Ahorn's optional value-set
// pre-pass (spec §4.3): an external abstract-interpretation library
// (interval, boxes, or zone domain) that runs a top-down interprocedural
// forward analysis over an SSA-form cfg.Program. The library itself is an
// out-of-scope external collaborator (spec §1); only the result shape the
// explorer consumes is named here.
package valueset

import "github.com/ahorn-lang/ahorn/cfg"

// Domain selects which abstract domain the external analyzer runs.
type Domain uint8

const (
	Interval Domain = iota
	Boxes
	Zone
)

// Branch identifies one outgoing edge of an if-vertex, for reporting that a
// specific branch (rather than the whole vertex) is statically unreachable.
type Branch struct {
	Label cfg.Label
	True  bool // true selects the true_branch edge, false the false_branch edge
}

// Result is the only output the engine consumes from the pre-pass (spec
// §4.3): a list of unreachable labels and unreachable branches that seed
// the explorer's initial coverage map (spec §4.7).
type Result struct {
	UnreachableLabels  []cfg.Label
	UnreachableBranches []Branch
}

// Analyzer is the external abstract-interpretation library's entry point.
// A concrete implementation wraps whatever native analysis library is
// configured; Ahorn's CLI `sa` subcommand (spec §6) is the only caller.
type Analyzer interface {
	// Analyze runs a top-down interprocedural forward analysis over
	// program in the given domain, starting from program's entry
	// procedure.
	Analyze(program *cfg.Program, domain Domain) (Result, error)
}
