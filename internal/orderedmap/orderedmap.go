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

// Package orderedmap implements a generic ordered map that supports
// iteration in insertion order. Ahorn's concrete, symbolic and shadow
// stores need deterministic iteration (spec §5: "ordering between
// concurrent contexts is deterministic"), so State keeps each of them in
// one of these instead of a plain Go map; path constraints are slices and
// the VC tables are plain maps.
package orderedmap

// Pair is a key-value pair stored in the ordered map.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// OrderedMap is an ordered map that supports iteration in insertion order.
//
// The design keeps Pairs as the single source of truth for gob
// (de)serialization (engine.State.Clone round-trips a context through gob)
// and rehydrates the unexported lookup index lazily, rather than defining a
// custom GobEncode/GobDecode pair, to avoid breaking encoder/decoder stream
// reuse across repeated clones.
type OrderedMap[K comparable, V any] struct {
	// Pairs is the list of pairs in insertion order. Treat as read-only;
	// use Store/Delete to mutate. Exported so gob can serialize it.
	Pairs []*Pair[K, V]
	// inner maps key to the pointer to its Pair for O(1) lookup. Unexported
	// so gob skips it; rehydrate() rebuilds it after deserialization.
	inner map[K]*Pair[K, V]
}

// New creates a new empty OrderedMap.
func New[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{inner: make(map[K]*Pair[K, V])}
}

// Value returns the value stored for key, or the zero value if absent.
func (m *OrderedMap[K, V]) Value(key K) V {
	m.rehydrate()
	if p := m.inner[key]; p != nil {
		return p.Value
	}
	var v V
	return v
}

// Load returns the value stored for key and whether it was found.
func (m *OrderedMap[K, V]) Load(key K) (V, bool) {
	m.rehydrate()
	if p := m.inner[key]; p != nil {
		return p.Value, true
	}
	var v V
	return v, false
}

// Store stores value for key, overwriting any previous value, and appending
// a new Pair at the end of insertion order if key was not already present.
func (m *OrderedMap[K, V]) Store(key K, value V) {
	m.rehydrate()
	if p := m.inner[key]; p != nil {
		p.Value = value
		return
	}
	p := &Pair[K, V]{Key: key, Value: value}
	m.Pairs = append(m.Pairs, p)
	m.inner[key] = p
}

// Delete removes key from the map, if present.
func (m *OrderedMap[K, V]) Delete(key K) {
	m.rehydrate()
	if _, ok := m.inner[key]; !ok {
		return
	}
	delete(m.inner, key)
	for i, p := range m.Pairs {
		if p.Key == key {
			m.Pairs = append(m.Pairs[:i], m.Pairs[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries in the map.
func (m *OrderedMap[K, V]) Len() int { return len(m.Pairs) }

// Range calls f for every entry in insertion order, stopping early if f
// returns false.
func (m *OrderedMap[K, V]) Range(f func(key K, value V) bool) {
	for _, p := range m.Pairs {
		if !f(p.Key, p.Value) {
			return
		}
	}
}

// Copy returns a shallow copy of m: a new OrderedMap with the same
// key/value pairs in the same order, safe to mutate independently.
func (m *OrderedMap[K, V]) Copy() *OrderedMap[K, V] {
	out := New[K, V]()
	m.Range(func(k K, v V) bool {
		out.Store(k, v)
		return true
	})
	return out
}

// rehydrate rebuilds the unexported lookup index from Pairs if it is stale,
// which happens after the OrderedMap is gob-decoded (since inner is not
// serialized).
func (m *OrderedMap[K, V]) rehydrate() {
	if len(m.Pairs) == len(m.inner) {
		return
	}
	m.inner = make(map[K]*Pair[K, V], len(m.Pairs))
	for _, p := range m.Pairs {
		m.inner[p.Key] = p
	}
}
