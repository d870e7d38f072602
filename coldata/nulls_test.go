// Copyright 2018 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package coldata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullsNilIsAllNonNull(t *testing.T) {
	var n *Nulls
	require.False(t, n.HasNulls())
	require.False(t, n.NullAt(0))
	require.False(t, n.NullAt(63))
}

func TestNullsSetUnset(t *testing.T) {
	n := NewNulls(130)
	require.False(t, n.HasNulls())

	n.SetNull(0)
	n.SetNull(64)
	n.SetNull(129)
	require.True(t, n.HasNulls())
	require.True(t, n.NullAt(0))
	require.True(t, n.NullAt(64))
	require.True(t, n.NullAt(129))
	require.False(t, n.NullAt(1))
	require.False(t, n.NullAt(128))

	n.UnsetNull(64)
	require.False(t, n.NullAt(64))
}

func TestNullsSetNullRangeAcrossWords(t *testing.T) {
	n := NewNulls(200)
	n.SetNullRange(60, 70)
	for i := 60; i < 70; i++ {
		require.True(t, n.NullAt(i), "row %d", i)
	}
	require.False(t, n.NullAt(59))
	require.False(t, n.NullAt(70))
}

func TestNullsUnsetAll(t *testing.T) {
	n := NewNulls(10)
	n.SetNullRange(0, 10)
	require.True(t, n.HasNulls())
	n.UnsetAll()
	require.False(t, n.HasNulls())
	for i := 0; i < 10; i++ {
		require.False(t, n.NullAt(i))
	}
}

func TestNullsSlice(t *testing.T) {
	n := NewNulls(10)
	n.SetNull(3)
	n.SetNull(7)
	s := n.Slice(2, 8)
	require.True(t, s.NullAt(1)) // original row 3
	require.True(t, s.NullAt(5)) // original row 7
	require.False(t, s.NullAt(0))

	var nilN *Nulls
	sNil := nilN.Slice(0, 5)
	require.False(t, sNil.HasNulls())
}
