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

// View is a non-owning, schema-aligned projection over one or more
// Columns sharing a row count, per spec.md §3. Views are cheap to copy
// and slice; the producer guarantees the backing Columns remain valid
// until its next pull (spec.md §4.3).
//
// Selection is an optional selection vector: when non-nil, row i of the
// View refers to physical row Selection[i] of each Column, matching the
// teacher's coldata.Batch.Selection() (see SPEC_FULL.md SUPPLEMENTED
// FEATURES).
type View struct {
	schema    TupleSchema
	columns   []*Column
	rowCount  int
	selection []int
}

// NewView builds a View over columns for the given schema and row count.
// len(columns) must equal schema.NumAttrs().
func NewView(schema TupleSchema, columns []*Column, rowCount int) View {
	return View{schema: schema, columns: columns, rowCount: rowCount}
}

// NewViewWithSelection builds a selected View: logical row i maps to
// physical row sel[i] in each backing Column.
func NewViewWithSelection(schema TupleSchema, columns []*Column, sel []int) View {
	return View{schema: schema, columns: columns, rowCount: len(sel), selection: sel}
}

func (v View) Schema() TupleSchema { return v.schema }

// RowCount returns the number of logical rows visible through this View.
func (v View) RowCount() int { return v.rowCount }

// Selection returns the selection vector, or nil if the View is
// unselected (logical row i == physical row i).
func (v View) Selection() []int { return v.selection }

// Column returns the i'th backing Column, in its physical (unselected)
// indexing; callers must apply Selection() themselves when it is set.
func (v View) Column(i int) *Column { return v.columns[i] }

// PhysicalIndex maps logical row i to a physical row index in the
// backing Columns.
func (v View) PhysicalIndex(i int) int {
	if v.selection != nil {
		return v.selection[i]
	}
	return i
}

// Slice returns the sub-view [start, end) of logical rows. It shares
// backing Columns; no data is copied.
func (v View) Slice(start, end int) View {
	if v.selection != nil {
		return View{schema: v.schema, columns: v.columns, rowCount: end - start, selection: v.selection[start:end]}
	}
	// An unselected slice becomes a selection-free re-based view is not
	// directly expressible without copying columns, so express it as an
	// identity selection over the requested range.
	sel := make([]int, end-start)
	for i := range sel {
		sel[i] = start + i
	}
	return View{schema: v.schema, columns: v.columns, rowCount: len(sel), selection: sel}
}
