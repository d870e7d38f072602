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
	"sort"

	"github.com/colvecdb/engine/coldata"
)

// SortKey is one bound (source_attribute_position, direction) pair, per
// spec.md §3's SortOrder (bound).
type SortKey struct {
	ColumnPos int
	Direction Direction
}

// SortOrder is an ordered list of SortKeys, evaluated in declared
// precedence.
type SortOrder []SortKey

type rowRange struct{ lo, hi int }

// SortPermutation implements the column-progressive multi-key sort
// algorithm of spec.md §4.6.1: it returns a Permutation p such that
// applying p to view yields a stable, NULL-aware ordering by order.
//
// The algorithm never physically reorders view's columns; it only
// permutes row indices, resolving ties by input order (stability) and
// partitioning NULLs to one end of each working range before sorting
// each key's non-null subrange with a typed comparator.
func SortPermutation(view coldata.View, order SortOrder) (Permutation, error) {
	n := view.RowCount()
	p := NewIdentityPermutation(n)
	if n == 0 || len(order) == 0 {
		return p, nil
	}

	phys := make([]int, n)
	for i := 0; i < n; i++ {
		phys[i] = view.PhysicalIndex(i)
	}

	ranges := []rowRange{{0, n}}
	for ki, key := range order {
		if key.ColumnPos < 0 || key.ColumnPos >= view.Schema().NumAttrs() {
			return nil, errNewf("sort key %d references out-of-range column position %d", ki, key.ColumnPos)
		}
		col := view.Column(key.ColumnPos)
		less, err := newLessFunc(col, key.Direction)
		if err != nil {
			return nil, err
		}
		physLess := func(pi, pj int) bool { return less(phys[pi], phys[pj]) }

		isLast := ki == len(order)-1
		var next []rowRange
		nulls := col.Nulls()

		for _, r := range ranges {
			lo, hi := r.lo, r.hi
			nnLo, nnHi := lo, hi
			if nulls != nil {
				nnLo, nnHi = partitionNulls(p, lo, hi, phys, nulls, key.Direction)
			}

			sub := p[nnLo:nnHi]
			sort.SliceStable(sub, func(a, b int) bool { return physLess(sub[a], sub[b]) })

			if !isLast {
				findEqualRuns(p, nnLo, nnHi, physLess, &next)
				if nulls != nil {
					var nullLo, nullHi int
					if key.Direction == Asc {
						nullLo, nullHi = lo, nnLo
					} else {
						nullLo, nullHi = nnHi, hi
					}
					if nullHi-nullLo > 1 {
						next = append(next, rowRange{nullLo, nullHi})
					}
				}
			}
		}
		ranges = next
		if len(ranges) == 0 {
			break
		}
	}
	return p, nil
}

// partitionNulls stably moves the logical rows in p[lo:hi) whose column
// value is NULL to the front (ASC) or back (DESC) of the range, per
// spec.md §4.6.1 step 3a. It returns the bounds of the remaining
// non-null subrange.
func partitionNulls(p Permutation, lo, hi int, phys []int, nulls *coldata.Nulls, dir Direction) (nnLo, nnHi int) {
	var nullIdx, nonNullIdx []int
	for k := lo; k < hi; k++ {
		if nulls.NullAt(phys[p[k]]) {
			nullIdx = append(nullIdx, p[k])
		} else {
			nonNullIdx = append(nonNullIdx, p[k])
		}
	}
	if dir == Asc {
		copy(p[lo:], nullIdx)
		copy(p[lo+len(nullIdx):], nonNullIdx)
		return lo + len(nullIdx), hi
	}
	copy(p[lo:], nonNullIdx)
	copy(p[lo+len(nonNullIdx):], nullIdx)
	return lo, lo + len(nonNullIdx)
}

// findEqualRuns scans the already-sorted range p[lo:hi) for maximal runs
// of values equal under valueLess (a comparator over permutation
// *values*, i.e. logical row indices), appending each run of length > 1
// to out, per spec.md §4.6.1 step 3c.
func findEqualRuns(p Permutation, lo, hi int, valueLess func(i, j int) bool, out *[]rowRange) {
	runStart := lo
	for k := lo + 1; k <= hi; k++ {
		equal := k < hi && !valueLess(p[k-1], p[k]) && !valueLess(p[k], p[k-1])
		if !equal {
			if k-runStart > 1 {
				*out = append(*out, rowRange{runStart, k})
			}
			runStart = k
		}
	}
}

// ApplyPermutation returns a non-owning View over view reordered by p.
func ApplyPermutation(view coldata.View, p Permutation) coldata.View {
	sel := make([]int, len(p))
	for i, logical := range p {
		sel[i] = view.PhysicalIndex(logical)
	}
	cols := make([]*coldata.Column, view.Schema().NumAttrs())
	for i := range cols {
		cols[i] = view.Column(i)
	}
	return coldata.NewViewWithSelection(view.Schema(), cols, sel)
}
