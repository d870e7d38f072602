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

package coldata

import "github.com/cockroachdb/errors"

// BatchSize is the default row capacity operators request from an
// allocator absent an explicit override, matching the teacher's
// coldata.BatchSize constant.
const BatchSize = 1024

// Block is the owned backing storage for a View: one Column per
// Attribute of schema, allocated at a fixed row capacity. Blocks are
// resized only by explicit Grow; they are freed by dropping every
// reference (no explicit Close is needed since Columns are plain Go
// slices).
type Block struct {
	schema   TupleSchema
	columns  []*Column
	capacity int
	length   int
	arena    *Arena
}

// NewBlock allocates a Block for schema with the given row capacity.
func NewBlock(schema TupleSchema, capacity int) *Block {
	arena := NewArena(0)
	columns := make([]*Column, schema.NumAttrs())
	for i := 0; i < schema.NumAttrs(); i++ {
		attr := schema.Attr(i)
		columns[i] = NewColumn(attr.Type, capacity, attr.Nullability == Nullable, arena)
	}
	return &Block{schema: schema, columns: columns, capacity: capacity, arena: arena}
}

func (b *Block) Schema() TupleSchema { return b.schema }
func (b *Block) Capacity() int       { return b.capacity }
func (b *Block) Length() int         { return b.length }
func (b *Block) Arena() *Arena       { return b.arena }

// MutableColumn returns the i'th column for writing.
func (b *Block) MutableColumn(i int) *Column { return b.columns[i] }

// SetLength sets the number of valid rows currently held; must be <=
// Capacity().
func (b *Block) SetLength(n int) {
	if n > b.capacity {
		panic("coldata: SetLength exceeds capacity")
	}
	b.length = n
}

// View returns a non-owning View over the block's current length.
func (b *Block) View() View {
	return NewView(b.schema, b.columns, b.length)
}

// Grow reallocates each column to newCapacity, copying existing data.
// newCapacity must be >= Capacity().
func (b *Block) Grow(newCapacity int) error {
	if newCapacity < b.capacity {
		return errors.Newf("coldata: cannot shrink block from %d to %d", b.capacity, newCapacity)
	}
	grown := NewBlock(b.schema, newCapacity)
	grown.arena = b.arena
	for i, col := range b.columns {
		grown.columns[i].arena = b.arena
		copyColumn(grown.columns[i], col, b.length)
	}
	grown.length = b.length
	*b = *grown
	return nil
}

// ResetArenas discards all variable-length payloads held by the block's
// arena, per spec.md §4.2. Existing []byte descriptors into it become
// invalid; callers must not reference this block's STRING/BINARY values
// afterward without recopying them.
func (b *Block) ResetArenas() {
	b.arena.Reset()
}

func copyColumn(dst, src *Column, n int) {
	switch src.typ {
	case Int32, Date:
		copy(dst.Int32(), src.Int32()[:n])
	case Uint32:
		copy(dst.Uint32(), src.Uint32()[:n])
	case Int64, DateTime:
		copy(dst.Int64(), src.Int64()[:n])
	case Uint64:
		copy(dst.Uint64(), src.Uint64()[:n])
	case Float:
		copy(dst.Float32(), src.Float32()[:n])
	case Double:
		copy(dst.Float64(), src.Float64()[:n])
	case Bool:
		copy(dst.Bool(), src.Bool()[:n])
	case String, Binary:
		copy(dst.Bytes(), src.Bytes()[:n])
	case Decimal:
		copy(dst.Decimal(), src.Decimal()[:n])
	}
	if src.nulls != nil {
		for i := 0; i < n; i++ {
			if src.nulls.NullAt(i) {
				dst.nulls.SetNull(i)
			}
		}
	}
}
