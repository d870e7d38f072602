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

// attributeRef reads an existing input column through unchanged, per
// row. It depends on an input attribute so IsConstant() is false.
type attributeRef struct {
	pos  int
	attr coldata.Attribute
}

// BindAttributeRef binds a reference to the named attribute of schema,
// yielding a BoundExpression that simply copies that column's values
// (and nulls) through. Returns a BindError (MissingAttribute) if absent.
func BindAttributeRef(schema coldata.TupleSchema, name string) (BoundExpression, error) {
	pos := schema.IndexOf(name)
	if pos < 0 {
		return nil, bindErrorf(MissingAttribute, "no attribute named %q to bind", name)
	}
	return &attributeRef{pos: pos, attr: schema.Attr(pos)}, nil
}

func (a *attributeRef) ResultAttribute() coldata.Attribute { return a.attr }
func (a *attributeRef) RowCapacity() int                   { return coldata.BatchSize }
func (a *attributeRef) IsConstant() bool                   { return false }

func (a *attributeRef) Evaluate(view coldata.View, skip SkipVector, out *coldata.Column) error {
	src := view.Column(a.pos)
	n := view.RowCount()
	skip.UnionInto(view, a.pos)
	for i := 0; i < n; i++ {
		p := view.PhysicalIndex(i)
		if skip[i] {
			if out.Nulls() != nil {
				out.Nulls().SetNull(i)
			}
			continue
		}
		copyElem(out, i, src, p)
	}
	return nil
}

// constant is a leaf whose value never depends on the input view.
type constant struct {
	attr  coldata.Attribute
	isNull bool
	value  interface{}
}

// BindStringConstant binds a constant STRING value (or NULL if isNull).
func BindStringConstant(name string, value string, isNull bool) BoundExpression {
	return &constant{
		attr:  coldata.Attribute{Name: name, Type: coldata.String, Nullability: coldata.Nullable},
		isNull: isNull,
		value:  value,
	}
}

func (c *constant) ResultAttribute() coldata.Attribute { return c.attr }
func (c *constant) RowCapacity() int                   { return coldata.BatchSize }
func (c *constant) IsConstant() bool                   { return true }

func (c *constant) Evaluate(view coldata.View, skip SkipVector, out *coldata.Column) error {
	n := view.RowCount()
	for i := 0; i < n; i++ {
		if skip[i] {
			continue
		}
		if c.isNull {
			skip[i] = true
			if out.Nulls() != nil {
				out.Nulls().SetNull(i)
			}
			continue
		}
		switch c.attr.Type {
		case coldata.String, coldata.Binary:
			out.SetString(i, c.value.(string))
		}
	}
	return nil
}

// copyElem copies element srcIdx of src into element dstIdx of dst; both
// must share the same DataType.
func copyElem(dst *coldata.Column, dstIdx int, src *coldata.Column, srcIdx int) {
	switch src.Type() {
	case coldata.Int32, coldata.Date:
		dst.Int32()[dstIdx] = src.Int32()[srcIdx]
	case coldata.Uint32:
		dst.Uint32()[dstIdx] = src.Uint32()[srcIdx]
	case coldata.Int64, coldata.DateTime:
		dst.Int64()[dstIdx] = src.Int64()[srcIdx]
	case coldata.Uint64:
		dst.Uint64()[dstIdx] = src.Uint64()[srcIdx]
	case coldata.Float:
		dst.Float32()[dstIdx] = src.Float32()[srcIdx]
	case coldata.Double:
		dst.Float64()[dstIdx] = src.Float64()[srcIdx]
	case coldata.Bool:
		dst.Bool()[dstIdx] = src.Bool()[srcIdx]
	case coldata.String, coldata.Binary:
		dst.SetString(dstIdx, src.GetString(srcIdx))
	case coldata.Decimal:
		dst.Decimal()[dstIdx].Set(&src.Decimal()[srcIdx])
	}
}
