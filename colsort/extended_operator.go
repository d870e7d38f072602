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
	"fmt"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
	"github.com/colvecdb/engine/colexpr"
	"github.com/colvecdb/engine/colproj"
)

// ExtendedSort builds an Operation implementing
// ExtendedSortSpecification: named keys with per-key case sensitivity
// and an optional row Limit, per spec.md §3/§6. Case-insensitive STRING
// keys are handled by materializing a synthetic upper-cased copy of the
// key column (via colexpr's Upper combinator) and sorting on that
// instead of teaching the comparator dispatch table a locale-aware
// string ordering; the synthetic columns never reach the caller.
func ExtendedSort(spec ExtendedSortSpecification, projector *colproj.SingleSourceProjector, memoryQuota int64, child colexecop.Operation) (colexecop.Operation, error) {
	if err := ValidateNoDuplicateKeys(spec.Keys); err != nil {
		return nil, err
	}

	widened := &widenOperation{child: child, keys: spec.Keys}
	order, err := buildExtendedOrder(widened.Schema(), spec.Keys)
	if err != nil {
		return nil, err
	}

	dropSynthetic, err := buildDropSyntheticProjector(child.Schema(), projector)
	if err != nil {
		return nil, err
	}

	sorted := Sort(order, dropSynthetic, memoryQuota, widened)
	if spec.Limit == nil {
		return sorted, nil
	}
	return &limitOperation{child: sorted, count: *spec.Limit}, nil
}

func syntheticKeyName(name string) string { return fmt.Sprintf("__ci_%s", name) }

// buildExtendedOrder maps each ExtendedKey onto a SortKey against the
// widened schema: case-sensitive keys reference the original column,
// case-insensitive keys reference their synthetic upper-cased column.
func buildExtendedOrder(schema coldata.TupleSchema, keys []ExtendedKey) (SortOrder, error) {
	order := make(SortOrder, len(keys))
	for i, k := range keys {
		name := k.Name
		if !k.CaseSensitive {
			name = syntheticKeyName(k.Name)
		}
		pos, err := schema.MustIndexOf(name)
		if err != nil {
			return nil, err
		}
		order[i] = SortKey{ColumnPos: pos, Direction: k.Direction}
	}
	return order, nil
}

// buildDropSyntheticProjector produces the projector applied to Sort's
// output. With no caller projector it selects the child's original
// columns, hiding every synthetic key column; a caller projector is used
// as-is in its place, binding against the widened schema, so a synthetic
// column appears in the output only if the caller names it.
func buildDropSyntheticProjector(original coldata.TupleSchema, caller *colproj.SingleSourceProjector) (*colproj.SingleSourceProjector, error) {
	if caller != nil {
		return caller, nil
	}
	items := make([]colproj.Item, original.NumAttrs())
	for i := 0; i < original.NumAttrs(); i++ {
		items[i] = colproj.Item{SourceName: original.Attr(i).Name}
	}
	return colproj.NewSingleSourceProjector(items), nil
}

// widenOperation appends one synthetic upper-cased STRING column per
// case-insensitive ExtendedKey onto child's schema.
type widenOperation struct {
	child colexecop.Operation
	keys  []ExtendedKey
}

func (w *widenOperation) Schema() coldata.TupleSchema {
	attrs := append([]coldata.Attribute{}, w.child.Schema().Attrs()...)
	for _, k := range w.keys {
		if k.CaseSensitive {
			continue
		}
		attrs = append(attrs, coldata.Attribute{
			Name: syntheticKeyName(k.Name), Type: coldata.String, Nullability: coldata.Nullable,
		})
	}
	schema, err := coldata.NewTupleSchema(attrs)
	if err != nil {
		panic(err)
	}
	return schema
}

func (w *widenOperation) CreateCursor() (colexecop.Cursor, error) {
	child, err := w.child.CreateCursor()
	if err != nil {
		return nil, err
	}
	trees := make([]*colexpr.BoundExpressionTree, 0, len(w.keys))
	for _, k := range w.keys {
		if k.CaseSensitive {
			continue
		}
		ref, err := colexpr.BindAttributeRef(child.Schema(), k.Name)
		if err != nil {
			return nil, err
		}
		upper, err := colexpr.BindUpper(syntheticKeyName(k.Name), ref)
		if err != nil {
			return nil, err
		}
		trees = append(trees, colexpr.NewBoundExpressionTree(upper, coldata.BatchSize))
	}
	return &widenCursor{child: child, trees: trees, schema: w.Schema()}, nil
}

type widenCursor struct {
	child  colexecop.Cursor
	trees  []*colexpr.BoundExpressionTree
	schema coldata.TupleSchema
	poison colexecop.PoisonState
	flag   colexecop.InterruptFlag
}

func (c *widenCursor) Schema() coldata.TupleSchema { return c.schema }

func (c *widenCursor) Interrupt() {
	c.flag.Interrupt()
	c.child.Interrupt()
}

func (c *widenCursor) IsWaitingOnBarrierSupported() bool {
	return c.child.IsWaitingOnBarrierSupported()
}

func (c *widenCursor) ApplyToChildren(fn func(colexecop.Cursor)) { fn(c.child) }

func (c *widenCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
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
	pull := maxRows
	if pull <= 0 || pull > coldata.BatchSize {
		pull = coldata.BatchSize
	}
	rv := c.child.Next(ctx, pull)
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

	n := rv.View.RowCount()
	block := coldata.NewBlock(c.schema, n)
	origAttrs := rv.View.Schema().NumAttrs()
	for i := 0; i < n; i++ {
		for a := 0; a < origAttrs; a++ {
			dst := block.MutableColumn(a)
			src := rv.View.Column(a)
			p := rv.View.PhysicalIndex(i)
			if src.Nulls() != nil && src.Nulls().NullAt(p) {
				if dst.Nulls() != nil {
					dst.Nulls().SetNull(i)
				}
				continue
			}
			copyElem(dst, i, src, p)
		}
	}
	for t, tree := range c.trees {
		computed, err := tree.Evaluate(rv.View)
		if err != nil {
			c.poison.MarkFailed(err)
			return colexecop.Failure(err)
		}
		dst := block.MutableColumn(origAttrs + t)
		src := computed.Column(0)
		for i := 0; i < n; i++ {
			if src.Nulls() != nil && src.Nulls().NullAt(i) {
				if dst.Nulls() != nil {
					dst.Nulls().SetNull(i)
				}
				continue
			}
			copyElem(dst, i, src, i)
		}
	}
	block.SetLength(n)
	return colexecop.Rows(block.View())
}
