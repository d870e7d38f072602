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

// Package colops implements the small per-batch transform operators of
// spec.md §4.5/§4.8 that sit above colexpr's bound expressions: Compute
// (append a derived column), Limit (offset/count row-window), the leaf
// source ScanViewWithSelection, and MergeUnionAll, grounded on the
// teacher's coalescerOp/windowSortingPartitioner batch-shaping style in
// pkg/sql/exec.
package colops

import (
	"context"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
	"github.com/colvecdb/engine/colexpr"
)

// computeOperation appends one expr_tree-computed column onto child's
// row stream, per spec.md §4.5: unlike a projector, Compute cannot drop
// or reorder existing columns, only add one derived from them.
type computeOperation struct {
	child colexecop.Operation
	tree  *colexpr.BoundExpressionTree
}

// Compute builds an Operation appending tree's single computed column to
// child's schema. tree must have been bound against child.Schema().
func Compute(tree *colexpr.BoundExpressionTree, child colexecop.Operation) colexecop.Operation {
	return &computeOperation{child: child, tree: tree}
}

func (o *computeOperation) Schema() coldata.TupleSchema {
	childAttrs := o.child.Schema().Attrs()
	computedAttr := o.tree.ResultSchema().Attr(0)
	attrs := make([]coldata.Attribute, 0, len(childAttrs)+1)
	attrs = append(attrs, childAttrs...)
	attrs = append(attrs, computedAttr)
	schema, err := coldata.NewTupleSchema(attrs)
	if err != nil {
		// Only reachable if the computed name collides with an existing
		// column, which Bind-time naming discipline is expected to avoid;
		// surfacing a schema with the collision preserved would be worse.
		panic(err)
	}
	return schema
}

func (o *computeOperation) CreateCursor() (colexecop.Cursor, error) {
	child, err := o.child.CreateCursor()
	if err != nil {
		return nil, err
	}
	return &computeCursor{child: child, tree: o.tree, schema: o.Schema()}, nil
}

type computeCursor struct {
	child  colexecop.Cursor
	tree   *colexpr.BoundExpressionTree
	schema coldata.TupleSchema
	poison colexecop.PoisonState
	flag   colexecop.InterruptFlag
}

func (c *computeCursor) Schema() coldata.TupleSchema { return c.schema }

func (c *computeCursor) Interrupt() {
	c.flag.Interrupt()
	c.child.Interrupt()
}

func (c *computeCursor) IsWaitingOnBarrierSupported() bool {
	return c.child.IsWaitingOnBarrierSupported()
}

func (c *computeCursor) ApplyToChildren(fn func(colexecop.Cursor)) { fn(c.child) }

func (c *computeCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
	if rv, stop := c.flag.CheckInterrupt(); stop {
		c.poison.MarkFailed(rv.Err)
		return rv
	}
	if c.poison.Poisoned() {
		return colexecop.Failure(c.poison.LastError())
	}
	if c.poison.Done() {
		return colexecop.EOSResult()
	}
	pull := maxRows
	if pull <= 0 || pull > coldata.BatchSize {
		pull = coldata.BatchSize
	}
	rv := c.child.Next(ctx, pull)
	switch rv.Kind {
	case colexecop.KindEOS:
		c.poison.MarkEOS()
		return rv
	case colexecop.KindWaitingOnBarrier:
		return rv
	case colexecop.KindFailure:
		c.poison.MarkFailed(rv.Err)
		return rv
	}

	computed, err := c.tree.Evaluate(rv.View)
	if err != nil {
		c.poison.MarkFailed(err)
		return colexecop.Failure(err)
	}

	n := rv.View.RowCount()
	block := coldata.NewBlock(c.schema, n)
	for i := 0; i < n; i++ {
		copyRow(block, i, rv.View, i)
	}
	computedCol := computed.Column(0)
	dst := block.MutableColumn(c.schema.NumAttrs() - 1)
	for i := 0; i < n; i++ {
		if computedCol.Nulls() != nil && computedCol.Nulls().NullAt(i) {
			if dst.Nulls() != nil {
				dst.Nulls().SetNull(i)
			}
			continue
		}
		copyElem(dst, i, computedCol, i)
	}
	block.SetLength(n)
	return colexecop.Rows(block.View())
}
