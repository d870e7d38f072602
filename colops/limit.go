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
)

// limitOperation restricts child's row stream to the [offset, offset+count)
// window, per spec.md §4.8. It never buffers more than one child batch.
type limitOperation struct {
	child  colexecop.Operation
	offset int
	count  int
}

// Limit skips the first offset rows of child's stream and yields at most
// count rows after that. A negative count means "unbounded".
func Limit(offset, count int, child colexecop.Operation) colexecop.Operation {
	return &limitOperation{child: child, offset: offset, count: count}
}

func (o *limitOperation) Schema() coldata.TupleSchema { return o.child.Schema() }

func (o *limitOperation) CreateCursor() (colexecop.Cursor, error) {
	child, err := o.child.CreateCursor()
	if err != nil {
		return nil, err
	}
	return &limitCursor{child: child, remaining: o.offset, count: o.count}, nil
}

type limitCursor struct {
	child     colexecop.Cursor
	remaining int // rows still to skip
	count     int // rows still to emit; < 0 means unbounded
	emitted   bool
	poison    colexecop.PoisonState
	flag      colexecop.InterruptFlag
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
	if c.poison.Done() {
		return colexecop.EOSResult()
	}
	if c.count == 0 {
		c.poison.MarkEOS()
		c.child.Interrupt()
		return colexecop.EOSResult()
	}
	for c.remaining > 0 {
		skip := c.remaining
		if maxRows > 0 && skip > maxRows {
			skip = maxRows
		}
		rv := c.child.Next(ctx, skip)
		switch rv.Kind {
		case colexecop.KindEOS:
			c.poison.MarkEOS()
			return rv
		case colexecop.KindWaitingOnBarrier, colexecop.KindFailure:
			if rv.Kind == colexecop.KindFailure {
				c.poison.MarkFailed(rv.Err)
			}
			return rv
		}
		c.remaining -= rv.View.RowCount()
	}
	pull := maxRows
	if c.count > 0 && (pull <= 0 || pull > c.count) {
		pull = c.count
	}
	rv := c.child.Next(ctx, pull)
	if rv.Kind == colexecop.KindRows {
		n := rv.View.RowCount()
		if c.count > 0 {
			if n > c.count {
				rv = colexecop.Rows(rv.View.Slice(0, c.count))
				n = c.count
			}
			c.count -= n
		}
		if c.count == 0 {
			c.child.Interrupt()
		}
	}
	if rv.Kind == colexecop.KindEOS {
		c.poison.MarkEOS()
	}
	if rv.Kind == colexecop.KindFailure {
		c.poison.MarkFailed(rv.Err)
	}
	return rv
}
