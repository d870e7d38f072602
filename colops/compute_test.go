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

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
	"github.com/colvecdb/engine/colexpr"
)

func nameOnlySchema() coldata.TupleSchema {
	return coldata.MustNewTupleSchema([]coldata.Attribute{
		{Name: "name", Type: coldata.String, Nullability: coldata.Nullable},
	})
}

func viewOfNames(names []string, nullPositions ...int) coldata.View {
	schema := nameOnlySchema()
	block := coldata.NewBlock(schema, len(names))
	for i, n := range names {
		block.MutableColumn(0).SetString(i, n)
	}
	for _, p := range nullPositions {
		block.MutableColumn(0).Nulls().SetNull(p)
	}
	block.SetLength(len(names))
	return block.View()
}

func upperTree(t *testing.T) *colexpr.BoundExpressionTree {
	t.Helper()
	ref, err := colexpr.BindAttributeRef(nameOnlySchema(), "name")
	require.NoError(t, err)
	upper, err := colexpr.BindUpper("upper_name", ref)
	require.NoError(t, err)
	return colexpr.NewBoundExpressionTree(upper, coldata.BatchSize)
}

func TestComputeAppendsColumnPreservingOriginal(t *testing.T) {
	view := viewOfNames([]string{"bob", "alice"})
	src := &sliceSourceOperation{view: view, batchSize: 8}
	op := Compute(upperTree(t), src)

	require.Equal(t, 2, op.Schema().NumAttrs())
	require.Equal(t, "name", op.Schema().Attr(0).Name)
	require.Equal(t, "upper_name", op.Schema().Attr(1).Name)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	rv := cursor.Next(context.Background(), 8)
	require.Equal(t, colexecop.KindRows, rv.Kind)
	require.Equal(t, "bob", rv.View.Column(0).GetString(0))
	require.Equal(t, "BOB", rv.View.Column(1).GetString(0))
	require.Equal(t, "alice", rv.View.Column(0).GetString(1))
	require.Equal(t, "ALICE", rv.View.Column(1).GetString(1))
}

func TestComputePropagatesNullFromInput(t *testing.T) {
	view := viewOfNames([]string{"bob", ""}, 1)
	src := &sliceSourceOperation{view: view, batchSize: 8}
	op := Compute(upperTree(t), src)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	rv := cursor.Next(context.Background(), 8)
	require.Equal(t, colexecop.KindRows, rv.Kind)
	require.True(t, rv.View.Column(1).Nulls().NullAt(1))
}

func TestComputeSchemaPanicsOnNameCollision(t *testing.T) {
	ref, err := colexpr.BindAttributeRef(nameOnlySchema(), "name")
	require.NoError(t, err)
	// Reuse the child's own attribute name as the computed column's name
	// to force a collision.
	colliding, err := colexpr.BindUpper("name", ref)
	require.NoError(t, err)
	tree := colexpr.NewBoundExpressionTree(colliding, coldata.BatchSize)

	view := viewOfNames([]string{"bob"})
	src := &sliceSourceOperation{view: view, batchSize: 8}
	op := Compute(tree, src)

	require.Panics(t, func() { op.Schema() })
}

func TestComputeEOSPropagates(t *testing.T) {
	view := viewOfNames([]string{"bob"})
	src := &sliceSourceOperation{view: view, batchSize: 8}
	op := Compute(upperTree(t), src)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	ctx := context.Background()
	rv := cursor.Next(ctx, 8)
	require.Equal(t, colexecop.KindRows, rv.Kind)
	rv = cursor.Next(ctx, 8)
	require.Equal(t, colexecop.KindEOS, rv.Kind)
}
