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

package colexpr

import "github.com/colvecdb/engine/coldata"

// concat implements the Concat combinator: byte-wise concatenation of
// two STRING children, with nullability equal to the disjunction of
// their nullabilities (spec.md §8 invariant 7 and scenario S6).
type concat struct {
	name        string
	left, right BoundExpression
}

// BindConcat binds Concat(left, right); both children must resolve to
// STRING, or binding fails with IncompatibleTypes.
func BindConcat(name string, left, right BoundExpression) (BoundExpression, error) {
	if left.ResultAttribute().Type != coldata.String || right.ResultAttribute().Type != coldata.String {
		return nil, bindErrorf(IncompatibleTypes,
			"Concat requires STRING operands, got %s and %s",
			left.ResultAttribute().Type, right.ResultAttribute().Type)
	}
	return &concat{name: name, left: left, right: right}, nil
}

// ResultAttribute's nullability is the disjunction of the two operands':
// only if both are NOT_NULLABLE can the concatenation never be NULL,
// per spec.md §8 invariant 7.
func (c *concat) ResultAttribute() coldata.Attribute {
	nullability := coldata.NotNullable
	if c.left.ResultAttribute().Nullability == coldata.Nullable || c.right.ResultAttribute().Nullability == coldata.Nullable {
		nullability = coldata.Nullable
	}
	return coldata.Attribute{Name: c.name, Type: coldata.String, Nullability: nullability}
}

func (c *concat) RowCapacity() int {
	if l, r := c.left.RowCapacity(), c.right.RowCapacity(); l < r {
		return l
	} else {
		return r
	}
}

// IsConstant is true iff both children are constant, per spec.md §4.4.
func (c *concat) IsConstant() bool { return c.left.IsConstant() && c.right.IsConstant() }

func (c *concat) Evaluate(view coldata.View, skip SkipVector, out *coldata.Column) error {
	n := view.RowCount()
	leftCol := coldata.NewColumn(coldata.String, n, true, coldata.NewArena(0))
	rightCol := coldata.NewColumn(coldata.String, n, true, coldata.NewArena(0))

	// Each child evaluates against the same skip vector (short-circuit
	// rule), so a row already known null is skipped in both children.
	if err := c.left.Evaluate(view, skip, leftCol); err != nil {
		return err
	}
	if err := c.right.Evaluate(view, skip, rightCol); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if skip[i] {
			if out.Nulls() != nil {
				out.Nulls().SetNull(i)
			}
			continue
		}
		out.SetString(i, leftCol.GetString(i)+rightCol.GetString(i))
	}
	return nil
}
