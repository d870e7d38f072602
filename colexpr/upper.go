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

import (
	"strings"

	"github.com/colvecdb/engine/coldata"
)

// upper implements a unary case-fold combinator over a single STRING
// child, used internally by colsort's ExtendedSort to materialize a
// case-insensitive sort key without special-casing string comparison
// inside the sort algorithm itself.
type upper struct {
	name  string
	child BoundExpression
}

// BindUpper binds Upper(child); child must resolve to STRING.
func BindUpper(name string, child BoundExpression) (BoundExpression, error) {
	if child.ResultAttribute().Type != coldata.String {
		return nil, bindErrorf(IncompatibleTypes,
			"Upper requires a STRING operand, got %s", child.ResultAttribute().Type)
	}
	return &upper{name: name, child: child}, nil
}

func (u *upper) ResultAttribute() coldata.Attribute {
	return coldata.Attribute{Name: u.name, Type: coldata.String, Nullability: coldata.Nullable}
}

func (u *upper) RowCapacity() int { return u.child.RowCapacity() }

func (u *upper) IsConstant() bool { return u.child.IsConstant() }

func (u *upper) Evaluate(view coldata.View, skip SkipVector, out *coldata.Column) error {
	n := view.RowCount()
	childCol := coldata.NewColumn(coldata.String, n, true, coldata.NewArena(0))
	if err := u.child.Evaluate(view, skip, childCol); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if skip[i] {
			if out.Nulls() != nil {
				out.Nulls().SetNull(i)
			}
			continue
		}
		out.SetString(i, strings.ToUpper(childCol.GetString(i)))
	}
	return nil
}
