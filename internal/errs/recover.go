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

package errs

import (
	"fmt"
	"runtime/debug"
)

// Result pairs a value with an error, mirroring the sub-engine result
// wrapping idiom used to recover panics without aborting the caller.
type Result[T any] struct {
	Res T
	Err error
}

// WrapRun wraps f so a panic inside it is recovered and converted into an
// IRMalformed error carrying a stack trace, instead of crashing the process.
// It has no caller in this repository: the CLI wraps its engine runs with
// Recover (errs.go) instead.
func WrapRun[T any](name string, f func() (T, error)) (result Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			result.Err = Wrap(IRMalformed, fmt.Errorf("%v", r), "internal panic from %q\n%s", name, string(debug.Stack()))
		}
	}()
	result.Res, result.Err = f()
	if result.Err != nil {
		result.Err = fmt.Errorf("%s: %w", name, result.Err)
	}
	return result
}
