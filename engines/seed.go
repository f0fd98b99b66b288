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

package engines

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/config"
	"github.com/ahorn-lang/ahorn/engine"
	"github.com/ahorn-lang/ahorn/valueset"
)

// seedManual parses opts.UnreachableLabels/UnreachableBranches (spec §6's
// `--unreachable-labels`/`--unreachable-branches` flags: plain decimal
// labels, and `label_tt`/`label_ff` branch names) and seeds explorer's
// coverage map from them - alongside, not instead of, any value-set
// pre-pass result (spec §4.3, §4.7).
func seedManual(explorer *engine.Explorer, opts config.Options) error {
	labels := make([]cfg.Label, 0, len(opts.UnreachableLabels))
	for _, s := range opts.UnreachableLabels {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("engines: invalid --unreachable-labels entry %q: %w", s, err)
		}
		labels = append(labels, cfg.Label(n))
	}

	branches := make([]valueset.Branch, 0, len(opts.UnreachableBranches))
	for _, s := range opts.UnreachableBranches {
		branch, err := parseBranch(s)
		if err != nil {
			return err
		}
		branches = append(branches, branch)
	}

	explorer.SeedUnreachable(labels, branches)
	return nil
}

func parseBranch(s string) (valueset.Branch, error) {
	var suffix string
	var want bool
	switch {
	case strings.HasSuffix(s, "_tt"):
		suffix, want = "_tt", true
	case strings.HasSuffix(s, "_ff"):
		suffix, want = "_ff", false
	default:
		return valueset.Branch{}, fmt.Errorf("engines: invalid --unreachable-branches entry %q (want label_tt or label_ff)", s)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, suffix))
	if err != nil {
		return valueset.Branch{}, fmt.Errorf("engines: invalid --unreachable-branches entry %q: %w", s, err)
	}
	return valueset.Branch{Label: cfg.Label(n), True: want}, nil
}
