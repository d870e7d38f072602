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

// limitOperation caps ExtendedSort's output at spec.Limit rows. It is a
// package-local twin of colops.Limit: colops already depends on colsort
// for MergeUnionAll, so colsort cannot import colops back without a
// cycle, and this operator's need (count-only, no offset) is simple
// enough that duplicating it here is cheaper than restructuring package
// boundaries around a single call site.
type limitOperation struct {
	child colexecop.Operation
	count int
}

func (o *limitOperation) Schema() coldata.TupleSchema { return o.child.Schema() }

func (o *limitOperation) CreateCursor() (colexecop.Cursor, error) {
	child, err := o.child.CreateCursor()
	if err != nil {
		return nil, err
	}
	return &limitCursor{child: child, count: o.count}, nil
}

type limitCursor struct {
	child  colexecop.Cursor
	count  int
	poison colexecop.PoisonState
	flag   colexecop.InterruptFlag
}

func (c *limitCursor) Schema() coldata.TupleSchema { return c.child.Schema() }

func (c *limitCursor) Interrupt() {
	c.flag.Interrupt()
	c.child.Interrupt()
}

func (c *limitCursor) IsWaitingOnBarrierSupported() bool {
	return c.child.IsWaitingOnBarrierSupported()
}

func (c *limitCursor) ApplyToChildren(fn func(colexecop.Cursor)) { fn(c.child) }

func (c *limitCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
	if rv, stop := c.flag.CheckInterrupt(); stop {
		c.poison.MarkFailed(rv.Err)
		return rv
	}
	if c.poison.Poisoned() {
		return colexecop.Failure(c.poison.LastError())
	}
	if c.poison.Done() || c.count == 0 {
		c.poison.MarkEOS()
		return colexecop.EOSResult()
	}
	pull := maxRows
	if pull <= 0 || pull > c.count {
		pull = c.count
	}
	rv := c.child.Next(ctx, pull)
	switch rv.Kind {
	case colexecop.KindRows:
		n := rv.View.RowCount()
		if n > c.count {
			rv = colexecop.Rows(rv.View.Slice(0, c.count))
			n = c.count
		}
		c.count -= n
		if c.count == 0 {
			c.child.Interrupt()
		}
	case colexecop.KindEOS:
		c.poison.MarkEOS()
	case colexecop.KindFailure:
		c.poison.MarkFailed(rv.Err)
	}
	return rv
}
