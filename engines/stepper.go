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

import "github.com/ahorn-lang/ahorn/engine"

// stepper is the shape run drives every engine through. engine.Executor.Step
// returns at most one forked sibling; engine.Shadow.Step can return up to
// three (spec §4.10's four-way split). Rather than widen Executor's own
// public contract to a slice return just to share a driver loop, it is
// adapted to stepper's shape here.
type stepper interface {
	Step(c *engine.Context) ([]*engine.Context, engine.Status, error)
}

// executorStepper adapts *engine.Executor to stepper.
type executorStepper struct {
	*engine.Executor
}

func (s executorStepper) Step(c *engine.Context) ([]*engine.Context, engine.Status, error) {
	forked, status, err := s.Executor.Step(c)
	if err != nil || forked == nil {
		return nil, status, err
	}
	return []*engine.Context{forked}, status, nil
}
