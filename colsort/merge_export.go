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
	"github.com/colvecdb/engine/colexecop"
)

// NewMergeCursor exposes the batching k-way merge used internally by the
// Sort operator's MERGING state so colops.MergeUnionAll can reuse it
// directly over cursors that are already known sorted, without paying
// for a Table or spill machinery neither one needs.
func NewMergeCursor(schema coldata.TupleSchema, cursors []colexecop.Cursor, order SortOrder) colexecop.Cursor {
	merger := NewMerger(cursors, order)
	return newMergeCursor(schema, merger)
}
