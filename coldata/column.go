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

import (
	"fmt"

	"github.com/cockroachdb/apd"
)

// rawColumn is the type-erased backing storage for a Column, one native
// Go slice per DataType, mirroring the teacher's memColumn.col field.
type rawColumn interface{}

// Column is a contiguous typed vector plus an optional null bitmap, per
// spec.md §3. A Column is owned by exactly one Block; Views borrow it.
type Column struct {
	typ   DataType
	nulls *Nulls // nil iff the owning Attribute is NOT_NULLABLE
	data  rawColumn
	arena *Arena // non-nil only for STRING/BINARY columns
}

// NewColumn allocates a Column of the given type and capacity (in rows).
// nullable controls whether a null bitmap is attached, per spec.md's
// "null_bitmap present iff attribute is NULLABLE" invariant.
func NewColumn(t DataType, capacity int, nullable bool, arena *Arena) *Column {
	c := &Column{typ: t, arena: arena}
	if nullable {
		c.nulls = NewNulls(capacity)
	}
	switch t {
	case Int32:
		c.data = make([]int32, capacity)
	case Uint32:
		c.data = make([]uint32, capacity)
	case Int64:
		c.data = make([]int64, capacity)
	case Uint64:
		c.data = make([]uint64, capacity)
	case Float:
		c.data = make([]float32, capacity)
	case Double:
		c.data = make([]float64, capacity)
	case Bool:
		c.data = make([]bool, capacity)
	case String, Binary:
		c.data = make([][]byte, capacity)
	case Date:
		c.data = make([]int32, capacity) // days since epoch
	case DateTime:
		c.data = make([]int64, capacity) // micros since epoch
	case Decimal:
		c.data = make([]apd.Decimal, capacity)
	default:
		panic(fmt.Sprintf("coldata: unhandled type %s", t))
	}
	return c
}

func (c *Column) Type() DataType { return c.typ }

// Nulls returns the null bitmap, or nil if the column is NOT_NULLABLE.
func (c *Column) Nulls() *Nulls { return c.nulls }

// Arena returns the owning arena for variable-length columns, else nil.
func (c *Column) Arena() *Arena { return c.arena }

func (c *Column) Int32() []int32       { return c.data.([]int32) }
func (c *Column) Uint32() []uint32     { return c.data.([]uint32) }
func (c *Column) Int64() []int64       { return c.data.([]int64) }
func (c *Column) Uint64() []uint64     { return c.data.([]uint64) }
func (c *Column) Float32() []float32   { return c.data.([]float32) }
func (c *Column) Float64() []float64   { return c.data.([]float64) }
func (c *Column) Bool() []bool         { return c.data.([]bool) }
func (c *Column) Bytes() [][]byte      { return c.data.([][]byte) }
func (c *Column) Decimal() []apd.Decimal { return c.data.([]apd.Decimal) }

// SetString writes a string value into row i using the column's arena.
func (c *Column) SetString(i int, s string) {
	c.data.([][]byte)[i] = c.arena.CopyBytes([]byte(s))
}

// GetString reads row i of a STRING column as a string.
func (c *Column) GetString(i int) string {
	return string(c.data.([][]byte)[i])
}

// DebugString renders row i for diagnostics/tests. Grounded on
// coldata.Vec.PrettyValueAt from the teacher; not used on any evaluation
// hot path.
func (c *Column) DebugString(i int) string {
	if c.nulls.NullAt(i) {
		return "NULL"
	}
	switch c.typ {
	case Int32:
		return fmt.Sprint(c.Int32()[i])
	case Uint32:
		return fmt.Sprint(c.Uint32()[i])
	case Int64:
		return fmt.Sprint(c.Int64()[i])
	case Date:
		return fmt.Sprint(c.Int32()[i])
	case Uint64:
		return fmt.Sprint(c.Uint64()[i])
	case Float:
		return fmt.Sprint(c.Float32()[i])
	case Double:
		return fmt.Sprint(c.Float64()[i])
	case Bool:
		return fmt.Sprint(c.Bool()[i])
	case String:
		return c.GetString(i)
	case Binary:
		return fmt.Sprintf("%x", c.Bytes()[i])
	case DateTime:
		return fmt.Sprint(c.Int64()[i])
	case Decimal:
		return c.Decimal()[i].String()
	default:
		return "?"
	}
}
