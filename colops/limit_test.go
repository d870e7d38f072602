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

package colops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvecdb/engine/colexecop"
)

func TestLimitOffsetAndCount(t *testing.T) {
	view := viewFromInt64s([]int64{1, 2, 3, 4, 5, 6, 7, 8})
	src := &sliceSourceOperation{view: view, batchSize: 2}
	op := Limit(3, 2, src)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	got := drainInt64Column(t, cursor, 0)
	require.Equal(t, []int64{4, 5}, got)
}

func TestLimitNegativeCountIsUnbounded(t *testing.T) {
	view := viewFromInt64s([]int64{1, 2, 3, 4, 5})
	src := &sliceSourceOperation{view: view, batchSize: 2}
	op := Limit(2, -1, src)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	got := drainInt64Column(t, cursor, 0)
	require.Equal(t, []int64{3, 4, 5}, got)
}

func TestLimitOffsetBeyondChildYieldsEmpty(t *testing.T) {
	view := viewFromInt64s([]int64{1, 2, 3})
	src := &sliceSourceOperation{view: view, batchSize: 2}
	op := Limit(10, 5, src)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	got := drainInt64Column(t, cursor, 0)
	require.Empty(t, got)
}

func TestLimitZeroCountIsImmediatelyEOSAndInterruptsChild(t *testing.T) {
	view := viewFromInt64s([]int64{1, 2, 3})
	src := &sliceSourceOperation{view: view, batchSize: 2}
	op := Limit(0, 0, src)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	rv := cursor.Next(context.Background(), 8)
	require.Equal(t, colexecop.KindEOS, rv.Kind)
	_, stopped := cursor.(*limitCursor).child.(*sliceSourceCursor).flag.CheckInterrupt()
	require.True(t, stopped, "child must be interrupted when count is zero")
}

func TestLimitInterruptsChildOnceSatisfied(t *testing.T) {
	view := viewFromInt64s([]int64{1, 2, 3, 4, 5, 6})
	src := &sliceSourceOperation{view: view, batchSize: 1}
	op := Limit(0, 2, src)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	c := cursor.(*limitCursor)
	got := drainInt64Column(t, cursor, 0)
	require.Equal(t, []int64{1, 2}, got)
	_, stopped := c.child.(*sliceSourceCursor).flag.CheckInterrupt()
	require.True(t, stopped, "child must be interrupted once count is satisfied")
}

func TestLimitEOSIsIdempotent(t *testing.T) {
	view := viewFromInt64s([]int64{1, 2})
	src := &sliceSourceOperation{view: view, batchSize: 2}
	op := Limit(0, 5, src)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	ctx := context.Background()
	rv := cursor.Next(ctx, 8)
	require.Equal(t, colexecop.KindRows, rv.Kind)
	rv = cursor.Next(ctx, 8)
	require.Equal(t, colexecop.KindEOS, rv.Kind)
	rv = cursor.Next(ctx, 8)
	require.Equal(t, colexecop.KindEOS, rv.Kind)
}
