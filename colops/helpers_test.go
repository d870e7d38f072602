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

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
)

// sliceSourceOperation feeds a fixed View to a cursor tree in
// batchSize-sized pages, standing in for a real scan in these tests.
type sliceSourceOperation struct {
	view      coldata.View
	batchSize int
}

func (s *sliceSourceOperation) Schema() coldata.TupleSchema { return s.view.Schema() }

func (s *sliceSourceOperation) CreateCursor() (colexecop.Cursor, error) {
	return &sliceSourceCursor{view: s.view, batchSize: s.batchSize}, nil
}

type sliceSourceCursor struct {
	view      coldata.View
	batchSize int
	pos       int
	flag      colexecop.InterruptFlag
	poison    colexecop.PoisonState
}

func (c *sliceSourceCursor) Schema() coldata.TupleSchema             { return c.view.Schema() }
func (c *sliceSourceCursor) Interrupt()                              { c.flag.Interrupt() }
func (c *sliceSourceCursor) IsWaitingOnBarrierSupported() bool       { return false }
func (c *sliceSourceCursor) ApplyToChildren(func(colexecop.Cursor)) {}

func (c *sliceSourceCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
	if rv, stop := c.flag.CheckInterrupt(); stop {
		return rv
	}
	if c.poison.Done() {
		return colexecop.EOSResult()
	}
	if c.pos >= c.view.RowCount() {
		c.poison.MarkEOS()
		return colexecop.EOSResult()
	}
	batch := c.batchSize
	if batch <= 0 || maxRows > 0 && maxRows < batch {
		batch = maxRows
	}
	end := c.pos + batch
	if end > c.view.RowCount() {
		end = c.view.RowCount()
	}
	out := c.view.Slice(c.pos, end)
	c.pos = end
	return colexecop.Rows(out)
}

func int64Schema() coldata.TupleSchema {
	return coldata.MustNewTupleSchema([]coldata.Attribute{
		{Name: "v", Type: coldata.Int64, Nullability: coldata.Nullable},
	})
}

func viewFromInt64s(vals []int64) coldata.View {
	schema := int64Schema()
	block := coldata.NewBlock(schema, len(vals))
	for i, v := range vals {
		block.MutableColumn(0).Int64()[i] = v
	}
	block.SetLength(len(vals))
	return block.View()
}

func drainInt64Column(t *testing.T, c colexecop.Cursor, colPos int) []int64 {
	t.Helper()
	var out []int64
	ctx := context.Background()
	for {
		rv := c.Next(ctx, 4)
		switch rv.Kind {
		case colexecop.KindRows:
			for i := 0; i < rv.View.RowCount(); i++ {
				p := rv.View.PhysicalIndex(i)
				out = append(out, rv.View.Column(colPos).Int64()[p])
			}
		case colexecop.KindEOS:
			return out
		default:
			t.Fatalf("unexpected result kind %v (err=%v)", rv.Kind, rv.Err)
		}
	}
}
