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

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
	"github.com/colvecdb/engine/colmem"
)

// scanViewWithSelectionOperation is a leaf source replaying an
// already-materialized View through a fixed row permutation, page by
// page. It exists so a permutation computed once (e.g. by
// colsort.SortPermutation, applied outside of a Sort operator entirely)
// can be handed off as an ordinary Cursor to the rest of a cursor tree.
type scanViewWithSelectionOperation struct {
	view        coldata.View
	permutation []int
	allocator   colmem.BufferAllocator
	batchSize   int
}

// ScanViewWithSelection builds a leaf Operation replaying view's rows in
// permutation order (permutation[i] is a physical row index into view's
// columns), batchSize rows per pull. allocator is charged for the
// read-ahead footprint of one page at a time and released as pages are
// consumed, giving the scan visibility into the same quota its sibling
// operators observe even though it never grows any storage itself.
func ScanViewWithSelection(view coldata.View, permutation []int, allocator colmem.BufferAllocator, batchSize int) colexecop.Operation {
	if batchSize <= 0 {
		batchSize = coldata.BatchSize
	}
	return &scanViewWithSelectionOperation{view: view, permutation: permutation, allocator: allocator, batchSize: batchSize}
}

func (o *scanViewWithSelectionOperation) Schema() coldata.TupleSchema { return o.view.Schema() }

func (o *scanViewWithSelectionOperation) CreateCursor() (colexecop.Cursor, error) {
	return &scanViewWithSelectionCursor{
		schema:      o.view.Schema(),
		columns:     columnsOf(o.view),
		permutation: o.permutation,
		allocator:   o.allocator,
		rowWidth:    colmem.EstimatedRowWidth(o.view.Schema()),
		batchSize:   o.batchSize,
	}, nil
}

func columnsOf(view coldata.View) []*coldata.Column {
	cols := make([]*coldata.Column, view.Schema().NumAttrs())
	for i := range cols {
		cols[i] = view.Column(i)
	}
	return cols
}

type scanViewWithSelectionCursor struct {
	schema      coldata.TupleSchema
	columns     []*coldata.Column
	permutation []int
	allocator   colmem.BufferAllocator
	rowWidth    int64
	batchSize   int
	pos         int
	reserved    int64
	poison      colexecop.PoisonState
	flag        colexecop.InterruptFlag
}

func (c *scanViewWithSelectionCursor) Schema() coldata.TupleSchema { return c.schema }

func (c *scanViewWithSelectionCursor) Interrupt() { c.flag.Interrupt() }

func (c *scanViewWithSelectionCursor) IsWaitingOnBarrierSupported() bool { return false }

func (c *scanViewWithSelectionCursor) ApplyToChildren(func(colexecop.Cursor)) {}

func (c *scanViewWithSelectionCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
	if rv, stop := c.flag.CheckInterrupt(); stop {
		c.poison.MarkFailed(rv.Err)
		return rv
	}
	if c.poison.Done() {
		return colexecop.EOSResult()
	}
	if c.reserved > 0 {
		c.allocator.Release(c.reserved)
		c.reserved = 0
	}
	if c.pos >= len(c.permutation) {
		c.poison.MarkEOS()
		return colexecop.EOSResult()
	}
	pull := c.batchSize
	if maxRows > 0 && maxRows < pull {
		pull = maxRows
	}
	end := c.pos + pull
	if end > len(c.permutation) {
		end = len(c.permutation)
	}
	sel := c.permutation[c.pos:end]
	c.reserved = c.rowWidth * int64(len(sel))
	if err := c.allocator.Allocate(c.reserved); err != nil {
		c.reserved = 0
		c.poison.MarkFailed(err)
		return colexecop.Failure(err)
	}
	c.pos = end
	return colexecop.Rows(coldata.NewViewWithSelection(c.schema, c.columns, sel))
}
