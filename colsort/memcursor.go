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

// memViewCursor replays a single already-materialized View page by page,
// used both when a sort completes entirely in memory (no spilled runs)
// and as the Merger's "extra_sorted_cursor" for the final table, per
// spec.md §4.7 — avoiding a disk round trip for whichever run happens to
// still be resident when the child reaches EOS.
type memViewCursor struct {
	schema coldata.TupleSchema
	view   coldata.View
	pos    int
	poison colexecop.PoisonState
	flag   colexecop.InterruptFlag
}

func newMemViewCursor(view coldata.View) *memViewCursor {
	return &memViewCursor{schema: view.Schema(), view: view}
}

func (c *memViewCursor) Schema() coldata.TupleSchema { return c.schema }

func (c *memViewCursor) Interrupt() { c.flag.Interrupt() }

func (c *memViewCursor) IsWaitingOnBarrierSupported() bool { return false }

func (c *memViewCursor) ApplyToChildren(func(colexecop.Cursor)) {}

func (c *memViewCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
	if rv, stop := c.flag.CheckInterrupt(); stop {
		c.poison.MarkFailed(rv.Err)
		return rv
	}
	if c.poison.Done() {
		return colexecop.EOSResult()
	}
	if c.pos >= c.view.RowCount() {
		c.poison.MarkEOS()
		return colexecop.EOSResult()
	}
	end := c.pos + maxRows
	if maxRows <= 0 || end > c.view.RowCount() {
		end = c.view.RowCount()
	}
	out := c.view.Slice(c.pos, end)
	c.pos = end
	return colexecop.Rows(out)
}
