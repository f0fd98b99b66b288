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

// Package engine implements Ahorn's symbolic execution core (spec §4.5-
// §4.10): the per-context State, the Context/Frame call stack, the
// Evaluator and Encoder, the Executor's instruction dispatch and tryFork
// policy, the Explorer's work queue and coverage map, the Merger's
// join-point folding, the Summarizer's per-procedure summary cache, and
// the shadow-mode divergence executor.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahorn-lang/ahorn/internal/errs"
)

// ContextualizedName names one SSA value instance during symbolic execution
// (spec §3): `<flattened>_<version>__<cycle>`. The double underscore
// before the cycle suffix keeps the format unambiguous from a flattened
// name that itself may contain single underscores (but never the double
// underscore that only this separator uses).
type ContextualizedName struct {
	Flattened string
	Version   int
	Cycle     int
}

// String renders n in its canonical textual form.
func (n ContextualizedName) String() string {
	return fmt.Sprintf("%s_%d__%d", n.Flattened, n.Version, n.Cycle)
}

// ScopeDepth returns the number of dot-separated scope components in the
// flattened name, used as the second key of the canonical comparator
// (spec §3).
func (n ContextualizedName) ScopeDepth() int {
	return strings.Count(n.Flattened, ".")
}

// ParseContextualizedName parses the canonical textual form back into its
// three components.
func ParseContextualizedName(s string) (ContextualizedName, error) {
	cycleSep := strings.LastIndex(s, "__")
	if cycleSep == -1 {
		return ContextualizedName{}, errs.New(errs.IRMalformed, "malformed contextualized name %q: missing cycle separator", s)
	}
	cycle, err := strconv.Atoi(s[cycleSep+2:])
	if err != nil {
		return ContextualizedName{}, errs.New(errs.IRMalformed, "malformed contextualized name %q: bad cycle: %v", s, err)
	}
	rest := s[:cycleSep]
	versionSep := strings.LastIndex(rest, "_")
	if versionSep == -1 {
		return ContextualizedName{}, errs.New(errs.IRMalformed, "malformed contextualized name %q: missing version separator", s)
	}
	version, err := strconv.Atoi(rest[versionSep+1:])
	if err != nil {
		return ContextualizedName{}, errs.New(errs.IRMalformed, "malformed contextualized name %q: bad version: %v", s, err)
	}
	return ContextualizedName{Flattened: rest[:versionSep], Version: version, Cycle: cycle}, nil
}

// CompareContextualizedNames implements spec §3's canonical comparator
// order: by cycle ascending, then by scope depth ascending, then by
// flattened name, then by version ascending.
func CompareContextualizedNames(a, b ContextualizedName) int {
	if a.Cycle != b.Cycle {
		return a.Cycle - b.Cycle
	}
	if d := a.ScopeDepth() - b.ScopeDepth(); d != 0 {
		return d
	}
	if a.Flattened != b.Flattened {
		if a.Flattened < b.Flattened {
			return -1
		}
		return 1
	}
	return a.Version - b.Version
}
