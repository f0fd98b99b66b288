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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ahorn-lang/ahorn/engines"
	"github.com/ahorn-lang/ahorn/internal/errs"
	"github.com/ahorn-lang/ahorn/internal/logging"
	"github.com/ahorn-lang/ahorn/internal/smttest"
	"github.com/ahorn-lang/ahorn/testcase"
)

// newSSECmd builds `sse`, spec §4.11's two-phase shadow engine. Unlike the
// other three subcommands it requires `--test-suite` (spec §6) to seed
// phase 1, and may optionally write phase 2's derived cases out through
// `--generate-test-suite` (spec §6's "Persisted state").
func newSSECmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sse <input.json>",
		Short: "Run shadow symbolic execution",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().String("test-suite", "", "directory of test-case XML files seeding phase 1 (required)")
	cmd.Flags().String("generate-test-suite", "", "directory to write phase 2's derived test cases to")
	_ = v.BindPFlag("test-suite", cmd.Flags().Lookup("test-suite"))
	_ = v.BindPFlag("generate-test-suite", cmd.Flags().Lookup("generate-test-suite"))

	cmd.RunE = func(_ *cobra.Command, args []string) error {
		opts := optionsFromViper(v)
		opts.TestSuitePath = v.GetString("test-suite")
		opts.GenerateTestSuiteDir = v.GetString("generate-test-suite")
		if opts.TestSuitePath == "" {
			return usageErrorf("sse requires --test-suite")
		}
		logger := logging.New(os.Stderr, opts.Verbosity)

		return errs.Recover(func() error {
			project, err := loadProject(args[0])
			if err != nil {
				return err
			}
			program, ssaInfo, err := compile(project, opts.ToDotPath)
			if err != nil {
				return err
			}

			seeds, err := engines.SeedsFromTestSuite(opts.TestSuitePath)
			if err != nil {
				return usageErrorf("reading --test-suite %s: %v", opts.TestSuitePath, err)
			}

			ctx := smttest.New(0)
			result := engines.RunShadow(program, ssaInfo, ctx, seeds, opts, logger)

			if opts.GenerateTestSuiteDir != "" {
				cases, err := engines.ToTestCases(result.Derived)
				if err != nil {
					return err
				}
				if err := testcase.WriteDir(opts.GenerateTestSuiteDir, cases); err != nil {
					return err
				}
			}

			logger.Info("sse phase 1 finished")
			os.Stderr.WriteString(result.Phase1.Report())
			logger.Info("sse phase 2 finished")
			os.Stderr.WriteString(result.Phase2.Report())
			return nil
		})
	}
	return cmd
}
