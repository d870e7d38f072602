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

package colsort

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colmem"
)

func TestTableAppendAndGrow(t *testing.T) {
	schema := singleInt64ColumnSchema()
	alloc := colmem.NewMemoryLimit(1<<20, 1<<20)
	table, err := NewTable(schema, 2, alloc)
	require.NoError(t, err)

	ok, err := table.TryAppend(viewFromInt64s([]int64{1, 2}))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, table.RowCount())

	// Appending more than the initial capacity forces a doubling grow.
	ok, err = table.TryAppend(viewFromInt64s([]int64{3, 4, 5}))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 5, table.RowCount())

	view := table.View()
	got := make([]int64, view.RowCount())
	for i := range got {
		got[i] = view.Column(0).Int64()[view.PhysicalIndex(i)]
	}
	require.Equal(t, []int64{1, 2, 3, 4, 5}, got)
}

func TestTableTryAppendRefusesOverHardQuota(t *testing.T) {
	schema := singleInt64ColumnSchema()
	alloc := colmem.NewMemoryLimit(32, 32) // room for a few rows, but not the 16-row block this append grows to
	table, err := NewTable(schema, 0, alloc)
	require.NoError(t, err)

	ok, err := table.TryAppend(viewFromInt64s([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
	require.NoError(t, err)
	require.False(t, ok, "a hard-quota refusal must be a signal to spill, not an error")
}

func TestTableClearReleasesReservedBudget(t *testing.T) {
	schema := singleInt64ColumnSchema()
	alloc := colmem.NewMemoryLimit(1<<20, 1<<20)
	table, err := NewTable(schema, 0, alloc)
	require.NoError(t, err)
	require.Greater(t, alloc.Used(), int64(0), "the initial block must be charged against the allocator")

	ok, err := table.TryAppend(viewFromInt64s([]int64{1, 2, 3}))
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, alloc.Used(), int64(0))

	table.Clear()
	require.Equal(t, 0, table.RowCount())
	require.Equal(t, int64(0), alloc.Used())
}

func TestTableTryAppendPropagatesNulls(t *testing.T) {
	schema := singleInt64ColumnSchema()
	alloc := colmem.NewMemoryLimit(1<<20, 1<<20)
	table, err := NewTable(schema, 0, alloc)
	require.NoError(t, err)

	view := viewFromInt64s([]int64{1, 0, 3}, 1)
	ok, err := table.TryAppend(view)
	require.NoError(t, err)
	require.True(t, ok)

	out := table.View()
	require.True(t, out.Column(0).Nulls().NullAt(1))
	require.False(t, out.Column(0).Nulls().NullAt(0))
}

func TestCopyElemStringUsesArena(t *testing.T) {
	schema := coldata.MustNewTupleSchema([]coldata.Attribute{
		{Name: "s", Type: coldata.String},
	})
	src := coldata.NewBlock(schema, 1)
	src.MutableColumn(0).SetString(0, "hello")
	src.SetLength(1)

	dst := coldata.NewBlock(schema, 1)
	copyElem(dst.MutableColumn(0), 0, src.MutableColumn(0), 0)
	require.Equal(t, "hello", dst.MutableColumn(0).GetString(0))
}
