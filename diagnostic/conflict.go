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

package diagnostic

import (
	"fmt"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/internal/errs"
)

// Conflict is one isolated-context fault recorded during a run (spec §7:
// arithmetic_error and solver_unknown are "isolated to the offending
// context" rather than aborting it). It names exactly where the fault
// occurred so the report can group faults by scope and cycle.
type Conflict struct {
	// Kind is the errs.Kind the offending context's fault carried; only
	// Arithmetic and SolverUnknown are expected here (the remaining kinds
	// are either fatal, per spec §7's Fatal rule, or terminate the whole
	// engine run rather than one context).
	Kind errs.Kind
	// Scope is the procedure name the fault occurred in.
	Scope string
	// Label is the vertex at which the fault occurred.
	Label cfg.Label
	// Cycle is the scan-cycle counter at the time of the fault.
	Cycle int
	// Message is a human-readable detail (e.g. the divisor expression for
	// an arithmetic_error, or the unsatisfiable-core summary for a
	// solver_unknown).
	Message string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s[%d]@cycle %d: %s", c.Kind, c.Scope, c.Label, c.Cycle, c.Message)
}
