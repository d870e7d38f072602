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

// Package colexpr implements the bound-expression evaluation model of
// spec.md §4.4: a tree of type-resolved nodes, each writing into a
// private output column, driven by a skip-vector protocol.
//
// The typed-function catalog itself (arithmetic, string, regexp, date
// functions) is out of scope per spec.md §1 — it is specified here only
// as the Func interface any typed builtin must satisfy. Concat, which
// spec.md §8 (S6/S7) tests directly, and Upper are the concrete
// functions this package provides.
package colexpr

import (
	"fmt"

	"github.com/colvecdb/engine/coldata"
)

// BindCode is a schema-binding error code in spec.md §4.4's 400-499
// "schema errors" range, distinct from the operational exit codes in
// colexecerror (which cover runtime resource/interrupt failures, not
// binding-time mistakes the caller can fix before constructing a tree).
type BindCode int

const (
	MissingAttribute    BindCode = 400
	IncompatibleTypes   BindCode = 401
	DuplicateOutputName BindCode = 402
)

// BindError is returned when binding a BoundExpression against a schema
// fails, per spec.md §4.4/§7 ("bind errors... surfaced as typed
// exceptions with human-readable context; cursor tree is not
// constructed").
type BindError struct {
	Code    BindCode
	Message string
}

func (e *BindError) Error() string { return e.Message }

func bindErrorf(code BindCode, format string, args ...interface{}) *BindError {
	return &BindError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// SkipVector is a per-row bitmap: bit i set means "this output row is
// already known irrelevant (skipped or null)". On entry the expression
// may read it to avoid work; it MUST set the bit wherever its own
// computation produces NULL, per spec.md §4.4.
type SkipVector []bool

// NewSkipVector allocates a SkipVector of size n, all rows live.
func NewSkipVector(n int) SkipVector { return make(SkipVector, n) }

// Zero clears every bit.
func (s SkipVector) Zero() {
	for i := range s {
		s[i] = false
	}
}

// UnionInto sets bit i of s wherever view's column col is NULL at
// logical row i, implementing the "union of input nulls into the skip
// vector" short-circuit rule for combinators (spec.md §4.4). Null bits
// live at physical row offsets, so this consults view.PhysicalIndex the
// same way every other null read in the tree does (colops.copyRow's
// convention) rather than indexing the Nulls bitmap by logical row.
func (s SkipVector) UnionInto(view coldata.View, col int) {
	null := view.Column(col).Nulls()
	if null == nil {
		return
	}
	n := view.RowCount()
	for i := 0; i < n; i++ {
		if null.NullAt(view.PhysicalIndex(i)) {
			s[i] = true
		}
	}
}

// BoundExpression is a type-resolved node in an expression tree. Its
// result schema, row capacity, and evaluation are fixed once bound.
type BoundExpression interface {
	// ResultAttribute describes this node's single output column.
	ResultAttribute() coldata.Attribute
	// RowCapacity is the largest input View size this node can process
	// without overflowing its private output column.
	RowCapacity() int
	// IsConstant is true for leaves depending on no input attribute;
	// combinators are constant iff all children are (spec.md §4.4).
	IsConstant() bool
	// Evaluate computes this node's output into out (a private column of
	// this node's ResultAttribute().Type, of length >= view.RowCount()),
	// consulting and updating skip per the skip-vector protocol.
	Evaluate(view coldata.View, skip SkipVector, out *coldata.Column) error
}
