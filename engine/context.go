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
	"github.com/ahorn-lang/ahorn/cfg"
	"github.com/ahorn-lang/ahorn/smt"
)

// Frame is one caller's activation record on a Context's call stack (spec
// §3): a borrowed CFG (never owned - resolved and shared via the Program
// arena, spec §9 cyclic-ownership guidance), the dot-path scope prefix of
// this activation, the label to resume at in the caller on procedure exit,
// and a local path constraint reset whenever the procedure exits.
type Frame struct {
	CFG         *cfg.CFG
	Scope       string
	ReturnLabel cfg.Label
	Local       []smt.Expr
}

// Context is one symbolic execution context: a cycle counter, an owned
// State, and a call stack of Frames (spec §3). Frames[len(Frames)-1] is the
// currently executing activation; Frames is never empty while a Context is
// live (the program's own top-level activation is pushed by NewContext).
type Context struct {
	Cycle  int
	State  *State
	Frames []Frame
}

// NewContext constructs the initial Context for cycle 0 at program's entry
// vertex, with a single frame for the program's own top-level activation.
func NewContext(program *cfg.CFG) *Context {
	return &Context{
		Cycle: 0,
		State: NewState(program.Entry()),
		Frames: []Frame{{
			CFG:         program,
			Scope:       "",
			ReturnLabel: -1,
		}},
	}
}

// Top returns the currently executing Frame.
func (c *Context) Top() *Frame { return &c.Frames[len(c.Frames)-1] }

// Push enters a new callee activation, returning to returnLabel in the
// current (caller) frame once the callee exits (spec §4.6 "call").
func (c *Context) Push(callee *cfg.CFG, scope string, returnLabel cfg.Label) {
	c.Frames = append(c.Frames, Frame{CFG: callee, Scope: scope, ReturnLabel: returnLabel})
}

// Pop removes the current frame and returns it, resuming execution in the
// caller at its ReturnLabel (spec §4.6 "exit of function block"). Popping
// the last frame (the program's own top-level activation) is a caller
// error - the cycle rollover (spec §3 Lifecycle) handles program exit
// without popping it.
func (c *Context) Pop() Frame {
	top := c.Frames[len(c.Frames)-1]
	c.Frames = c.Frames[:len(c.Frames)-1]
	return top
}

// Depth returns the call-stack depth, used by the Merger to identify merge
// points (spec §4.8: merge-point tuples are keyed in part by depth).
func (c *Context) Depth() int { return len(c.Frames) }

// Clone returns a deep, independent copy of c: its State (via State.Clone)
// and its Frame stack (CFG pointers shared/borrowed, Local path constraints
// copied).
func (c *Context) Clone() (*Context, error) {
	state, err := c.State.Clone()
	if err != nil {
		return nil, err
	}
	frames := make([]Frame, len(c.Frames))
	for i, f := range c.Frames {
		frames[i] = Frame{
			CFG:         f.CFG,
			Scope:       f.Scope,
			ReturnLabel: f.ReturnLabel,
			Local:       append([]smt.Expr(nil), f.Local...),
		}
	}
	return &Context{Cycle: c.Cycle, State: state, Frames: frames}, nil
}
