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
	"context"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
)

// mergeCursor stitches the Merger's row-at-a-time output back into
// batches, the same accumulate-until-full-or-child-EOS idiom the
// corpus uses for its coalescing operator (grounded on
// pkg/sql/exec/coalescer.go's Append/AppendWithSel loop), applied here
// to per-row merge output instead of undersized upstream batches.
type mergeCursor struct {
	schema coldata.TupleSchema
	merger *Merger
	poison colexecop.PoisonState
	flag   colexecop.InterruptFlag
}

func newMergeCursor(schema coldata.TupleSchema, merger *Merger) *mergeCursor {
	return &mergeCursor{schema: schema, merger: merger}
}

func (c *mergeCursor) Schema() coldata.TupleSchema { return c.schema }

func (c *mergeCursor) Interrupt() {
	c.flag.Interrupt()
	c.merger.Close()
}

func (c *mergeCursor) IsWaitingOnBarrierSupported() bool { return true }

func (c *mergeCursor) ApplyToChildren(func(colexecop.Cursor)) {}

func (c *mergeCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
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
	if maxRows <= 0 || maxRows > coldata.BatchSize {
		maxRows = coldata.BatchSize
	}
	block := coldata.NewBlock(c.schema, maxRows)
	n := 0
	for n < maxRows {
		view, row, blocked, ok := c.merger.NextRow(ctx)
		if !ok {
			if blocked.Kind == colexecop.KindEOS {
				break
			}
			if blocked.Kind == colexecop.KindFailure {
				c.poison.MarkFailed(blocked.Err)
				if n > 0 {
					break
				}
				return blocked
			}
			// WaitingOnBarrier: surface it now if nothing has been
			// accumulated yet, else serve the partial batch and let the
			// next Next() call re-encounter the barrier.
			if n == 0 {
				return blocked
			}
			break
		}
		for c2 := 0; c2 < c.schema.NumAttrs(); c2++ {
			dst := block.MutableColumn(c2)
			src := view.Column(c2)
			p := view.PhysicalIndex(row)
			if src.Nulls() != nil && src.Nulls().NullAt(p) {
				if dst.Nulls() != nil {
					dst.Nulls().SetNull(n)
				}
				continue
			}
			copyElem(dst, n, src, p)
		}
		n++
	}
	block.SetLength(n)
	if n == 0 {
		c.poison.MarkEOS()
		return colexecop.EOSResult()
	}
	return colexecop.Rows(block.View())
}
