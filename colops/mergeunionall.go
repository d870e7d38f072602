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
	"github.com/cockroachdb/errors"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
	"github.com/colvecdb/engine/colsort"
)

// mergeUnionAllOperation is spec.md §4.8's MergeUnionAll(sort_order,
// [sorted_cursors]): combine several already-sorted children into one
// sorted stream, reusing the Sort operator's own k-way merge (colsort's
// btree-ordered frontier) rather than a second implementation.
type mergeUnionAllOperation struct {
	order    colsort.SortOrder
	children []colexecop.Operation
}

// MergeUnionAll builds an Operation merging children — which the caller
// asserts are each already sorted by order — into a single sorted
// stream. All children must share the same schema.
func MergeUnionAll(order colsort.SortOrder, children []colexecop.Operation) (colexecop.Operation, error) {
	if len(children) == 0 {
		return nil, errors.New("colops: MergeUnionAll requires at least one child")
	}
	schema := children[0].Schema()
	for _, c := range children[1:] {
		if c.Schema().NumAttrs() != schema.NumAttrs() {
			return nil, errors.New("colops: MergeUnionAll children must share a schema")
		}
	}
	return &mergeUnionAllOperation{order: order, children: children}, nil
}

func (o *mergeUnionAllOperation) Schema() coldata.TupleSchema { return o.children[0].Schema() }

func (o *mergeUnionAllOperation) CreateCursor() (colexecop.Cursor, error) {
	cursors := make([]colexecop.Cursor, len(o.children))
	for i, child := range o.children {
		c, err := child.CreateCursor()
		if err != nil {
			return nil, err
		}
		cursors[i] = c
	}
	return colsort.NewMergeCursor(o.Schema(), cursors, o.order), nil
}
