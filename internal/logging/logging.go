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

// Package logging wraps the engine's structured logger. Ahorn's engines are
// otherwise diagnostic-only (they return statistics and conflicts, not log
// lines), but spec §6 has an explicit `--verbose trace|info` CLI flag with
// no home in that design, so this package carries it.
package logging

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Level mirrors the two verbosity settings spec §6 exposes on the CLI.
type Level uint8

const (
	// Info logs cycle boundaries, merge events, and engine termination reasons.
	Info Level = iota
	// Trace additionally logs per-instruction dispatch, fork attempts, and summary hits/misses.
	Trace
)

// ParseLevel parses the `--verbose` flag value; it defaults to Info on any
// unrecognised string so a typo never silences reporting.
func ParseLevel(s string) Level {
	if s == "trace" {
		return Trace
	}
	return Info
}

// Logger is Ahorn's process-wide logging handle, one per engine instance.
type Logger struct {
	inner *charmlog.Logger
}

// New constructs a Logger writing to w at the given Level.
func New(w io.Writer, level Level) *Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: false,
		Prefix:          "ahorn",
	})
	if level == Trace {
		l.SetLevel(charmlog.DebugLevel)
	} else {
		l.SetLevel(charmlog.InfoLevel)
	}
	return &Logger{inner: l}
}

// Default returns a Logger writing to stderr at Info level.
func Default() *Logger {
	return New(os.Stderr, Info)
}

// Trace logs a per-instruction/fork/summary event. Maps to the "trace"
// verbosity named throughout spec §6–§7 (charmbracelet/log has no separate
// trace level, so this is carried at Debug).
func (l *Logger) Trace(msg string, kv ...any) {
	l.inner.Debug(msg, kv...)
}

// Info logs a cycle boundary, merge event, or termination reason.
func (l *Logger) Info(msg string, kv ...any) {
	l.inner.Info(msg, kv...)
}

// Warn logs a recoverable, context-isolated fault (spec §7: arithmetic_error,
// solver_unknown).
func (l *Logger) Warn(msg string, kv ...any) {
	l.inner.Warn(msg, kv...)
}

// With returns a derived Logger with the given key/value pairs attached to
// every subsequent call, mirroring charmbracelet/log's structured-field idiom.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{inner: l.inner.With(kv...)}
}
