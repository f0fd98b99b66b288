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

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/dotgraph"
	"github.com/ahorn-lang/ahorn/engines"
	"github.com/ahorn-lang/ahorn/internal/logging"
	"github.com/ahorn-lang/ahorn/ir"
	"github.com/ahorn-lang/ahorn/passes"
)

// loadProject reads path as a JSON-encoded ir.Project. Spec §1 excludes the
// source parser/front-end that would lower PLC source text into ir.Project
// from scope, so the CLI's "one input file" (spec §6) is the already-
// lowered IR itself, serialized the one way the standard library reads
// without any third-party help: encoding/json against ir.Project's plain
// exported fields (see DESIGN.md).
func loadProject(path string) (ir.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ir.Project{}, usageErrorf("reading %s: %v", path, err)
	}
	var project ir.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return ir.Project{}, usageErrorf("parsing %s: %v", path, err)
	}
	return project, nil
}

// compile runs the front end over project and, when toDotPath is set,
// writes the resulting CFG out as Graphviz dot (spec §6's `--to-dot`)
// before returning it.
func compile(project ir.Project, toDotPath string) (*cfg.Program, map[string]*passes.SSAInfo, error) {
	program, ssaInfo, err := engines.Compile(project)
	if err != nil {
		return nil, nil, err
	}
	if toDotPath != "" {
		if err := os.WriteFile(toDotPath, []byte(dotgraph.Render(program)), 0o644); err != nil {
			return nil, nil, fmt.Errorf("writing dot graph to %s: %w", toDotPath, err)
		}
	}
	return program, ssaInfo, nil
}

// report writes diag's final statistics/conflicts to stderr through
// logger, matching spec §7's "graceful termination; report statistics".
func report(logger *logging.Logger, label string, diag interface{ Report() string }) {
	logger.Info(label + " finished")
	fmt.Fprint(os.Stderr, diag.Report())
}
