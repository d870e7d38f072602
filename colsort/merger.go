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
	"bytes"
	"context"

	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
)

// Merger performs the k-way merge of spec.md §4.7: it holds N already
// sorted input Cursors (spilled runs plus, optionally, one extra
// in-memory sorted cursor for the final table) and produces one
// row-at-a-time merged stream in sort_order. The frontier of "next
// candidate row per input" is kept in a btree.BTree ordered by
// sort_order; google/btree gives the same O(log k) next-least
// extraction a hand-rolled heap would, without hand-rolling one.
//
// The tree is maintained incrementally: NextRow removes exactly the
// input whose candidate it returns and queues that one input for a
// fresh candidate before the following call, rather than rebuilding
// the whole frontier every row.
type Merger struct {
	inputs  []*mergeInput
	order   SortOrder
	tree    *btree.BTree
	pending []*mergeInput
}

type mergeInput struct {
	idx    int
	cursor colexecop.Cursor
	view   coldata.View
	pos    int
	done   bool
}

// mergeItem is the btree.Item wrapping one candidate row: which input
// it came from and its logical row position within that input's
// currently buffered view.
type mergeItem struct {
	input *mergeInput
	row   int
	order SortOrder
}

func (m mergeItem) Less(other btree.Item) bool {
	o := other.(mergeItem)
	for _, key := range m.order {
		colA := m.input.view.Column(key.ColumnPos)
		colB := o.input.view.Column(key.ColumnPos)
		pa := m.input.view.PhysicalIndex(m.row)
		pb := o.input.view.PhysicalIndex(o.row)
		c, err := compareCross(colA, pa, colB, pb)
		if err != nil {
			continue
		}
		if key.Direction == Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
	}
	// Break exact value ties by input index for determinism; this never
	// changes which rows are emitted, only the relative order among
	// value-equal rows drawn from different runs.
	return m.input.idx < o.input.idx
}

// compareCross compares element ia of colA against element ib of colB.
// NULLs sort before all non-NULL values, matching SortPermutation's
// partitionNulls convention.
func compareCross(colA *coldata.Column, ia int, colB *coldata.Column, ib int) (int, error) {
	nullA := colA.Nulls() != nil && colA.Nulls().NullAt(ia)
	nullB := colB.Nulls() != nil && colB.Nulls().NullAt(ib)
	if nullA && nullB {
		return 0, nil
	}
	if nullA {
		return -1, nil
	}
	if nullB {
		return 1, nil
	}
	switch colA.Type() {
	case coldata.Int32, coldata.Date:
		return compareOrdered(colA.Int32()[ia], colB.Int32()[ib]), nil
	case coldata.Uint32:
		return compareOrdered(colA.Uint32()[ia], colB.Uint32()[ib]), nil
	case coldata.Int64, coldata.DateTime:
		return compareOrdered(colA.Int64()[ia], colB.Int64()[ib]), nil
	case coldata.Uint64:
		return compareOrdered(colA.Uint64()[ia], colB.Uint64()[ib]), nil
	case coldata.Float:
		return compareOrdered(colA.Float32()[ia], colB.Float32()[ib]), nil
	case coldata.Double:
		return compareOrdered(colA.Float64()[ia], colB.Float64()[ib]), nil
	case coldata.Bool:
		va, vb := colA.Bool()[ia], colB.Bool()[ib]
		if va == vb {
			return 0, nil
		}
		if !va {
			return -1, nil
		}
		return 1, nil
	case coldata.String, coldata.Binary:
		return bytes.Compare(colA.Bytes()[ia], colB.Bytes()[ib]), nil
	case coldata.Decimal:
		da, db := colA.Decimal()[ia], colB.Decimal()[ib]
		return da.Cmp(&db), nil
	default:
		return 0, errors.Errorf("colsort: unsupported merge comparison type %s", colA.Type())
	}
}

func compareOrdered[T int32 | uint32 | int64 | uint64 | float32 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// NewMerger constructs a Merger over already-sorted cursors, in
// sort_order. Every cursor's Schema() must agree on the columns order
// references; that is the caller's responsibility to arrange (all
// merge inputs of one Sort share its child's schema).
func NewMerger(cursors []colexecop.Cursor, order SortOrder) *Merger {
	inputs := make([]*mergeInput, len(cursors))
	for i, c := range cursors {
		inputs[i] = &mergeInput{idx: i, cursor: c}
	}
	pending := make([]*mergeInput, len(inputs))
	copy(pending, inputs)
	return &Merger{inputs: inputs, order: order, tree: btree.New(16), pending: pending}
}

// Empty reports whether the Merger has no input cursors at all, per
// spec.md's "empty()" query — an empty Merger is immediately EOS.
func (m *Merger) Empty() bool { return len(m.inputs) == 0 }

// fillOne pulls from in's cursor until it has a buffered row (or is
// exhausted), then inserts its candidate into the tree.
func (m *Merger) fillOne(ctx context.Context, in *mergeInput) colexecop.ResultView {
	for !in.done && in.pos >= in.view.RowCount() {
		rv := in.cursor.Next(ctx, coldata.BatchSize)
		switch rv.Kind {
		case colexecop.KindRows:
			in.view = rv.View
			in.pos = 0
		case colexecop.KindEOS:
			in.done = true
		case colexecop.KindWaitingOnBarrier, colexecop.KindFailure:
			return rv
		}
	}
	if !in.done && in.pos < in.view.RowCount() {
		m.tree.ReplaceOrInsert(mergeItem{input: in, row: in.pos, order: m.order})
	}
	return colexecop.ResultView{}
}

// drainPending processes the queue of inputs whose frontier candidate
// needs recomputing, left over from the previous NextRow. On
// WaitingOnBarrier/Failure the unprocessed remainder stays queued for
// the next call.
func (m *Merger) drainPending(ctx context.Context) colexecop.ResultView {
	for len(m.pending) > 0 {
		in := m.pending[0]
		if rv := m.fillOne(ctx, in); rv.Kind == colexecop.KindWaitingOnBarrier || rv.Kind == colexecop.KindFailure {
			return rv
		}
		m.pending = m.pending[1:]
	}
	return colexecop.ResultView{}
}

// NextRow produces the single next row of the merged stream: the source
// view and row it came from. ok is false once every input is
// exhausted; a non-nil ResultView.Err (or a WaitingOnBarrier Kind)
// signals the caller to propagate that result instead.
func (m *Merger) NextRow(ctx context.Context) (view coldata.View, row int, blocked colexecop.ResultView, ok bool) {
	if rv := m.drainPending(ctx); rv.Kind == colexecop.KindWaitingOnBarrier || rv.Kind == colexecop.KindFailure {
		return coldata.View{}, 0, rv, false
	}
	min := m.tree.Min()
	if min == nil {
		return coldata.View{}, 0, colexecop.EOSResult(), false
	}
	item := m.tree.DeleteMin().(mergeItem)
	item.input.pos++
	m.pending = append(m.pending, item.input)
	return item.input.view, item.row, colexecop.ResultView{}, true
}

// Close interrupts and drops every input cursor. Spilled-run cursors
// are RunCursor values; the caller is expected to call Remove on those
// separately once the Merger will not read them again.
func (m *Merger) Close() {
	for _, in := range m.inputs {
		in.cursor.Interrupt()
	}
}
