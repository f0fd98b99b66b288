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
	"strconv"
	"strings"

	"github.com/ahorn-lang/ahorn/cfg"
)

// localPreds returns the labels of l's local predecessors, in the same
// order passes.SSA's ssaBuilder.localPreds would: every incoming edge
// except InterproceduralCall/InterproceduralReturn. A phi's operand order
// was fixed against this same order at SSA-construction time (spec §4.2),
// so resolving a phi during execution must walk predecessors identically.
func localPreds(c *cfg.CFG, l cfg.Label) []cfg.Label {
	var out []cfg.Label
	for _, e := range c.In(l) {
		if e.Kind == cfg.InterproceduralCall || e.Kind == cfg.InterproceduralReturn {
			continue
		}
		out = append(out, e.From)
	}
	return out
}

// localSuccs mirrors localPreds for the outgoing direction.
func localSuccs(c *cfg.CFG, l cfg.Label) []cfg.Label {
	var out []cfg.Label
	for _, e := range c.Out(l) {
		if e.Kind == cfg.InterproceduralCall || e.Kind == cfg.InterproceduralReturn {
			continue
		}
		out = append(out, e.To)
	}
	return out
}

// basePath strips an SSA suffix (`~<id>`) off name, recovering the
// flattened declaration path the SSA pass renamed from. Names with no `~`
// are returned unchanged (already bare, e.g. an initial-value read).
func basePath(name string) string {
	idx := strings.LastIndex(name, "~")
	if idx == -1 {
		return name
	}
	if _, err := strconv.Atoi(name[idx+1:]); err != nil {
		return name
	}
	return name[:idx]
}
