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
	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colmem"
)

// Table is the growable, in-memory materialization the Sort cursor
// drains its child into before spilling, per spec.md §4.6.2 step 1. Its
// growth policy doubles capacity, which is why the caller (Sort) is
// expected to size the backing MemoryLimit's quota at half of
// memory_quota: a doubling append can transiently hold up to 2x its
// resident data.
type Table struct {
	schema    coldata.TupleSchema
	block     *coldata.Block
	allocator colmem.BufferAllocator
	rowWidth  int64
	reserved  int64
}

// NewTable creates an empty Table for schema, backed by allocator. The
// initial block is charged against allocator like any other growth, so a
// small quota takes effect immediately instead of only once the table
// has grown past a pre-allocated floor; capacityHint is shrunk to fit
// whatever allocator.Available() allows, down to a single row.
func NewTable(schema coldata.TupleSchema, capacityHint int, allocator colmem.BufferAllocator) (*Table, error) {
	rowWidth := colmem.EstimatedRowWidth(schema)
	if capacityHint < 1 {
		capacityHint = 1
	}
	if rowWidth > 0 {
		if maxRows := int(allocator.Available() / rowWidth); maxRows < capacityHint {
			capacityHint = maxRows
		}
	}
	if capacityHint < 1 {
		capacityHint = 1
	}
	reserved := rowWidth * int64(capacityHint)
	if err := allocator.Allocate(reserved); err != nil {
		return nil, err
	}
	return &Table{
		schema:    schema,
		block:     coldata.NewBlock(schema, capacityHint),
		allocator: allocator,
		rowWidth:  rowWidth,
		reserved:  reserved,
	}, nil
}

func (t *Table) Schema() coldata.TupleSchema { return t.schema }
func (t *Table) RowCount() int               { return t.block.Length() }
func (t *Table) View() coldata.View          { return t.block.View() }

// TryAppend attempts to append view's rows to the table. It returns
// false (with a nil error) if doing so would exceed the allocator's hard
// quota, signaling the caller to spill and retry on a cleared table, per
// spec.md §4.6.2 step 2. Growth follows a doubling policy.
func (t *Table) TryAppend(view coldata.View) (bool, error) {
	n := view.RowCount()
	if n == 0 {
		return true, nil
	}
	needed := t.block.Length() + n
	if needed > t.block.Capacity() {
		newCap := t.block.Capacity()
		if newCap == 0 {
			newCap = n
		}
		for newCap < needed {
			newCap *= 2
		}
		delta := t.rowWidth * int64(newCap-t.block.Capacity())
		if err := t.allocator.Allocate(delta); err != nil {
			return false, nil
		}
		if err := t.block.Grow(newCap); err != nil {
			t.allocator.Release(delta)
			return false, err
		}
		t.reserved += delta
	}
	appendView(t.block, view)
	return true, nil
}

// Clear resets the table to zero rows, releases arena memory, and
// returns all reserved allocator budget.
func (t *Table) Clear() {
	t.block.SetLength(0)
	t.block.ResetArenas()
	t.allocator.Release(t.reserved)
	t.reserved = 0
}

// appendView copies view's rows onto the end of block, growing its
// logical length. block must already have enough capacity.
func appendView(block *coldata.Block, view coldata.View) {
	base := block.Length()
	n := view.RowCount()
	for c := 0; c < view.Schema().NumAttrs(); c++ {
		dst := block.MutableColumn(c)
		src := view.Column(c)
		for i := 0; i < n; i++ {
			p := view.PhysicalIndex(i)
			if src.Nulls() != nil && src.Nulls().NullAt(p) {
				if dst.Nulls() != nil {
					dst.Nulls().SetNull(base + i)
				}
				continue
			}
			copyElem(dst, base+i, src, p)
		}
	}
	block.SetLength(base + n)
}
