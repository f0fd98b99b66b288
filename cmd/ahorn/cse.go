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
)

// newCSECmd builds `cse`, spec §4.11's compositional (ahorn) engine.
func newCSECmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "cse <input.json>",
		Short: "Run compositional symbolic execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFromViper(v)
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
				ctx := smttest.New(0)
				diag, err := engines.RunAhorn(program, ssaInfo, ctx, opts, logger)
				if err != nil {
					return err
				}
				report(logger, "cse", diag)
				return nil
			})
		},
	}
}
