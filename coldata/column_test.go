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

func TestColumnFixedWidthRoundTrip(t *testing.T) {
	col := NewColumn(Int64, 4, true /* nullable */, nil)
	col.Int64()[0] = 42
	col.Int64()[1] = -7
	col.Nulls().SetNull(2)
	col.Int64()[3] = 0

	require.Equal(t, "42", col.DebugString(0))
	require.Equal(t, "-7", col.DebugString(1))
	require.Equal(t, "NULL", col.DebugString(2))
	require.False(t, col.Nulls().NullAt(0))
	require.True(t, col.Nulls().NullAt(2))
}

func TestColumnStringArena(t *testing.T) {
	arena := NewArena(0)
	col := NewColumn(String, 3, true, arena)
	col.SetString(0, "hello")
	col.SetString(1, "")
	col.Nulls().SetNull(2)

	require.Equal(t, "hello", col.GetString(0))
	require.Equal(t, "", col.GetString(1))
	require.True(t, col.Nulls().NullAt(2))
}

func TestColumnNotNullableHasNoBitmap(t *testing.T) {
	col := NewColumn(Bool, 2, false /* nullable */, nil)
	require.Nil(t, col.Nulls())
}

func TestColumnDateStoresInt32DaysSinceEpoch(t *testing.T) {
	col := NewColumn(Date, 2, false, nil)
	col.Int32()[0] = 19000
	require.Equal(t, "19000", col.DebugString(0))
}
