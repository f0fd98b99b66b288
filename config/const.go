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

package config

// This file hosts non-user-configurable parameters - these are for development and testing purposes only.

// SummaryStabilityRounds is the number of rounds the summarizer will
// attempt to reconstruct realizable paths for a procedure exit literal,
// absent any newly cached summary, before it stops trying in the current
// cycle (spec §4.9). Setting this too low risks missing a summary that
// would later have become applicable; setting it too high spends cycles
// without precision gains once the summary set has stabilized.
const SummaryStabilityRounds = 5

// DefaultCycleBound is the `--cycle-bound` default (spec §6).
const DefaultCycleBound = 10

// DefaultTimeoutMS is the `--time-out` default, in milliseconds (spec §6).
const DefaultTimeoutMS = 10000
