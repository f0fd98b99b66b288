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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ahorn-lang/ahorn/config"
	"github.com/ahorn-lang/ahorn/internal/logging"
)

// newRootCmd builds the `ahorn` command tree: the four engine
// subcommands (spec §6) plus the global flags they all share, bound
// through viper so every flag also has an `AHORN_*` environment-variable
// override (SPEC_FULL.md §A.3).
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("ahorn")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "ahorn <input.json>",
		Short: "Symbolic execution engine for cyclic control programs",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("to-dot", "", "write the compiled CFG as Graphviz dot to this path before running")
	flags.Uint("cycle-bound", config.DefaultCycleBound, "terminate after this many cycles regardless of queue contents")
	flags.Uint("time-out", config.DefaultTimeoutMS, "terminate after this many milliseconds of wall-clock time")
	flags.StringSlice("unreachable-labels", nil, "labels to seed as statically unreachable")
	flags.StringSlice("unreachable-branches", nil, "branches (label_tt|label_ff) to seed as statically unreachable")
	flags.String("verbose", "info", "log verbosity: trace|info")

	for _, name := range []string{"to-dot", "cycle-bound", "time-out", "unreachable-labels", "unreachable-branches", "verbose"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newSACmd(v), newCSECmd(v), newSSECmd(v), newCBMCCmd(v))
	return root
}

// optionsFromViper reads the global flags (already bound into v by
// newRootCmd) into a config.Options, applying spec §6's defaults.
func optionsFromViper(v *viper.Viper) config.Options {
	return config.Options{
		CycleBound:          v.GetUint("cycle-bound"),
		TimeoutMS:           v.GetUint("time-out"),
		UnreachableLabels:   v.GetStringSlice("unreachable-labels"),
		UnreachableBranches: v.GetStringSlice("unreachable-branches"),
		Verbosity:           logging.ParseLevel(v.GetString("verbose")),
		ToDotPath:           v.GetString("to-dot"),
		Merge:               config.AtAllJoinPoints,
	}
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}
