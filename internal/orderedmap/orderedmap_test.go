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

package orderedmap_test

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/ahorn-lang/ahorn/internal/orderedmap"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoadStore(t *testing.T) {
	t.Parallel()

	pairs := [][2]int{{1, 2}, {2, 3}, {3, 4}}
	m := orderedmap.New[int, int]()
	for _, p := range pairs {
		k, v := p[0], p[1]
		m.Store(k, v)
		loadedV, ok := m.Load(k)
		require.True(t, ok)
		require.Equal(t, v, loadedV)
		require.Equal(t, v, m.Value(k))
	}

	v, ok := m.Load(-1)
	require.False(t, ok)
	require.Empty(t, v)

	require.Equal(t, len(pairs), m.Len())
}

func TestRangeOrderIsInsertionOrder(t *testing.T) {
	t.Parallel()

	m := orderedmap.New[int, int]()
	for i := 0; i < 100; i++ {
		m.Store(i, i+1)
	}

	var keys []int
	m.Range(func(k, v int) bool {
		keys = append(keys, k)
		return true
	})
	for i, k := range keys {
		require.Equal(t, i, k)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m := orderedmap.New[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	m.Store("c", 3)

	m.Delete("b")
	_, ok := m.Load("b")
	require.False(t, ok)
	require.Equal(t, 2, m.Len())

	var keys []string
	m.Range(func(k string, v int) bool {
		keys = append(keys, k)
		return true
	})
	require.Equal(t, []string{"a", "c"}, keys)
}

func TestCopyIsIndependent(t *testing.T) {
	t.Parallel()

	m := orderedmap.New[string, int]()
	m.Store("a", 1)
	c := m.Copy()
	c.Store("b", 2)

	require.Equal(t, 1, m.Len())
	require.Equal(t, 2, c.Len())
}

func TestGobRoundTrip(t *testing.T) {
	t.Parallel()

	m := orderedmap.New[string, int]()
	m.Store("x", 1)
	m.Store("y", 2)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(m))

	decoded := &orderedmap.OrderedMap[string, int]{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

	v, ok := decoded.Load("x")
	require.True(t, ok)
	require.Equal(t, 1, v)

	// Used post-decode as a regular map; rehydrate must have repaired the
	// unexported lookup index.
	decoded.Store("z", 3)
	require.Equal(t, 3, decoded.Value("z"))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
