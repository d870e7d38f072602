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

package colexpr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvecdb/engine/coldata"
)

func testSchema() coldata.TupleSchema {
	return coldata.MustNewTupleSchema([]coldata.Attribute{
		{Name: "first", Type: coldata.String, Nullability: coldata.Nullable},
		{Name: "last", Type: coldata.String, Nullability: coldata.Nullable},
	})
}

func viewOf(schema coldata.TupleSchema, first, last []string, nullFirst int) coldata.View {
	block := coldata.NewBlock(schema, len(first))
	for i, s := range first {
		block.MutableColumn(0).SetString(i, s)
	}
	for i, s := range last {
		block.MutableColumn(1).SetString(i, s)
	}
	if nullFirst >= 0 {
		block.MutableColumn(0).Nulls().SetNull(nullFirst)
	}
	block.SetLength(len(first))
	return block.View()
}

func TestAttributeRefCopiesThrough(t *testing.T) {
	schema := testSchema()
	view := viewOf(schema, []string{"a", "b"}, []string{"x", "y"}, -1)

	ref, err := BindAttributeRef(schema, "first")
	require.NoError(t, err)
	tree := NewBoundExpressionTree(ref, coldata.BatchSize)
	out, err := tree.Evaluate(view)
	require.NoError(t, err)
	require.Equal(t, 2, out.RowCount())
	require.Equal(t, "a", out.Column(0).GetString(0))
	require.Equal(t, "b", out.Column(0).GetString(1))
}

func TestBindAttributeRefMissing(t *testing.T) {
	_, err := BindAttributeRef(testSchema(), "nope")
	require.Error(t, err)
	var be *BindError
	require.ErrorAs(t, err, &be)
	require.Equal(t, MissingAttribute, be.Code)
}

func TestAttributeRefPropagatesNulls(t *testing.T) {
	schema := testSchema()
	view := viewOf(schema, []string{"a", "b"}, []string{"x", "y"}, 0)

	ref, err := BindAttributeRef(schema, "first")
	require.NoError(t, err)
	tree := NewBoundExpressionTree(ref, coldata.BatchSize)
	out, err := tree.Evaluate(view)
	require.NoError(t, err)
	require.True(t, out.Column(0).Nulls().NullAt(0))
	require.False(t, out.Column(0).Nulls().NullAt(1))
}

func TestConcatRequiresStringOperands(t *testing.T) {
	schema := coldata.MustNewTupleSchema([]coldata.Attribute{
		{Name: "n", Type: coldata.Int64},
	})
	ref, err := BindAttributeRef(schema, "n")
	require.NoError(t, err)
	_, err = BindConcat("out", ref, ref)
	require.Error(t, err)
	var be *BindError
	require.ErrorAs(t, err, &be)
	require.Equal(t, IncompatibleTypes, be.Code)
}

func TestConcatEvaluates(t *testing.T) {
	schema := testSchema()
	view := viewOf(schema, []string{"foo", "baz"}, []string{"bar", "qux"}, -1)

	first, err := BindAttributeRef(schema, "first")
	require.NoError(t, err)
	last, err := BindAttributeRef(schema, "last")
	require.NoError(t, err)
	cat, err := BindConcat("full", first, last)
	require.NoError(t, err)

	tree := NewBoundExpressionTree(cat, coldata.BatchSize)
	out, err := tree.Evaluate(view)
	require.NoError(t, err)
	require.Equal(t, "foobar", out.Column(0).GetString(0))
	require.Equal(t, "bazqux", out.Column(0).GetString(1))
}

func TestConcatShortCircuitsOnNullOperand(t *testing.T) {
	schema := testSchema()
	view := viewOf(schema, []string{"foo", "baz"}, []string{"bar", "qux"}, 0)

	first, err := BindAttributeRef(schema, "first")
	require.NoError(t, err)
	last, err := BindAttributeRef(schema, "last")
	require.NoError(t, err)
	cat, err := BindConcat("full", first, last)
	require.NoError(t, err)

	tree := NewBoundExpressionTree(cat, coldata.BatchSize)
	out, err := tree.Evaluate(view)
	require.NoError(t, err)
	require.True(t, out.Column(0).Nulls().NullAt(0))
	require.Equal(t, "bazqux", out.Column(0).GetString(1))
}

func TestUpperRequiresStringOperand(t *testing.T) {
	schema := coldata.MustNewTupleSchema([]coldata.Attribute{
		{Name: "n", Type: coldata.Int64},
	})
	ref, err := BindAttributeRef(schema, "n")
	require.NoError(t, err)
	_, err = BindUpper("out", ref)
	require.Error(t, err)
}

func TestUpperEvaluates(t *testing.T) {
	schema := testSchema()
	view := viewOf(schema, []string{"hello", "World"}, []string{"x", "y"}, -1)

	first, err := BindAttributeRef(schema, "first")
	require.NoError(t, err)
	up, err := BindUpper("upper_first", first)
	require.NoError(t, err)

	tree := NewBoundExpressionTree(up, coldata.BatchSize)
	out, err := tree.Evaluate(view)
	require.NoError(t, err)
	require.Equal(t, "HELLO", out.Column(0).GetString(0))
	require.Equal(t, "WORLD", out.Column(0).GetString(1))
}

func TestBoundExpressionTreeRowCountInvariant(t *testing.T) {
	schema := testSchema()
	view := viewOf(schema, []string{"a", "b", "c"}, []string{"x", "y", "z"}, -1)

	ref, err := BindAttributeRef(schema, "first")
	require.NoError(t, err)
	tree := NewBoundExpressionTree(ref, coldata.BatchSize)
	out, err := tree.Evaluate(view)
	require.NoError(t, err)
	require.Equal(t, view.RowCount(), out.RowCount())
}

func TestBoundExpressionTreeRejectsOversizedView(t *testing.T) {
	schema := testSchema()
	view := viewOf(schema, []string{"a", "b", "c"}, []string{"x", "y", "z"}, -1)

	ref, err := BindAttributeRef(schema, "first")
	require.NoError(t, err)
	tree := NewBoundExpressionTree(ref, 2)
	_, err = tree.Evaluate(view)
	require.Error(t, err)
}

func TestSkipVectorUnionInto(t *testing.T) {
	schema := testSchema()
	view := viewOf(schema, []string{"a", "b", "c", "d"}, []string{"w", "x", "y", "z"}, -1)
	view.Column(0).Nulls().SetNull(1)
	view.Column(0).Nulls().SetNull(3)

	skip := NewSkipVector(4)
	skip.UnionInto(view, 0)
	require.Equal(t, SkipVector{false, true, false, true}, skip)

	skip.Zero()
	require.Equal(t, SkipVector{false, false, false, false}, skip)
}

// TestSkipVectorUnionIntoConsultsSelection reproduces the case where the
// view reorders/subsets physical rows: the null bit lives at the
// physical row, not the logical one, so a selected view must read
// through PhysicalIndex like every other null lookup in the tree.
func TestSkipVectorUnionIntoConsultsSelection(t *testing.T) {
	schema := testSchema()
	block := coldata.NewBlock(schema, 4)
	for i, s := range []string{"a", "b", "c", "d"} {
		block.MutableColumn(0).SetString(i, s)
	}
	block.MutableColumn(0).Nulls().SetNull(3) // physical row 3 ("d") is NULL
	block.SetLength(4)

	// Selection reverses the rows: logical row 0 -> physical row 3.
	view := coldata.NewViewWithSelection(schema, []*coldata.Column{block.MutableColumn(0), block.MutableColumn(1)}, []int{3, 2, 1, 0})

	skip := NewSkipVector(4)
	skip.UnionInto(view, 0)
	require.Equal(t, SkipVector{true, false, false, false}, skip, "logical row 0 maps to the NULL physical row")
}
