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

import "github.com/colvecdb/engine/coldata"

// BoundExpressionTree wraps a root BoundExpression, owning pre-allocated
// skip-vector storage sized to maxRowCount, per spec.md §4.4.
type BoundExpressionTree struct {
	root        BoundExpression
	maxRowCount int
	skip        SkipVector
	arena       *coldata.Arena
}

// NewBoundExpressionTree builds a tree around root with skip-vector
// storage pre-sized to maxRowCount.
func NewBoundExpressionTree(root BoundExpression, maxRowCount int) *BoundExpressionTree {
	return &BoundExpressionTree{
		root:        root,
		maxRowCount: maxRowCount,
		skip:        NewSkipVector(maxRowCount),
		arena:       coldata.NewArena(0),
	}
}

// ResultSchema returns the tree's single-attribute output schema.
func (t *BoundExpressionTree) ResultSchema() coldata.TupleSchema {
	return coldata.MustNewTupleSchema([]coldata.Attribute{t.root.ResultAttribute()})
}

// Evaluate zeroes the skip vector and delegates to the root, returning a
// View over a private one-column output batch. Per spec.md §8 invariant
// 5, the returned view's row count always equals view.RowCount().
func (t *BoundExpressionTree) Evaluate(view coldata.View) (coldata.View, error) {
	n := view.RowCount()
	if n > t.maxRowCount {
		return coldata.View{}, bindErrorf(IncompatibleTypes,
			"input view of %d rows exceeds tree capacity %d", n, t.maxRowCount)
	}
	skip := t.skip[:n]
	skip.Zero()

	attr := t.root.ResultAttribute()
	out := coldata.NewColumn(attr.Type, n, true, t.arena)
	if err := t.root.Evaluate(view, skip, out); err != nil {
		return coldata.View{}, err
	}
	// The returned view's null bitmap reflects the final skip vector,
	// per spec.md §4.4.
	for i := 0; i < n; i++ {
		if skip[i] {
			out.Nulls().SetNull(i)
		}
	}
	return coldata.NewView(t.ResultSchema(), []*coldata.Column{out}, n), nil
}
