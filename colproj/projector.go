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

// Package colproj implements the rename/reorder/select transforms of
// spec.md §4.5: symbolic projectors that bind against a schema to
// produce a bound projector mapping output position to source
// attribute position.
package colproj

import "github.com/colvecdb/engine/coldata"

// Item is one entry of a SingleSourceProjector: select the named source
// attribute, optionally renaming it in the output.
type Item struct {
	SourceName string
	OutputName string // empty means keep SourceName
}

// SingleSourceProjector is the symbolic (unbound) form: a list of
// selections against a single, not-yet-known source schema.
type SingleSourceProjector struct {
	items []Item
}

// NewSingleSourceProjector builds a symbolic projector from items.
func NewSingleSourceProjector(items []Item) *SingleSourceProjector {
	return &SingleSourceProjector{items: items}
}

// BoundSingleSourceProjector maps output position -> source attribute
// position, with the (possibly renamed) output schema resolved.
type BoundSingleSourceProjector struct {
	positions []int
	schema    coldata.TupleSchema
}

// Bind resolves p against source, producing a BoundSingleSourceProjector.
// Fails if any source attribute name is missing.
func (p *SingleSourceProjector) Bind(source coldata.TupleSchema) (*BoundSingleSourceProjector, error) {
	positions := make([]int, len(p.items))
	attrs := make([]coldata.Attribute, len(p.items))
	for i, item := range p.items {
		pos, err := source.MustIndexOf(item.SourceName)
		if err != nil {
			return nil, err
		}
		positions[i] = pos
		attr := source.Attr(pos)
		if item.OutputName != "" {
			attr.Name = item.OutputName
		}
		attrs[i] = attr
	}
	schema, err := coldata.NewTupleSchema(attrs)
	if err != nil {
		return nil, err
	}
	return &BoundSingleSourceProjector{positions: positions, schema: schema}, nil
}

// Schema returns the projector's bound output schema.
func (b *BoundSingleSourceProjector) Schema() coldata.TupleSchema { return b.schema }

// Positions returns the output-position -> source-position mapping.
func (b *BoundSingleSourceProjector) Positions() []int { return b.positions }

// Apply returns a non-owning View selecting the chosen columns of view,
// per spec.md §4.5.
func (b *BoundSingleSourceProjector) Apply(view coldata.View) coldata.View {
	cols := make([]*coldata.Column, len(b.positions))
	for i, pos := range b.positions {
		cols[i] = view.Column(pos)
	}
	if sel := view.Selection(); sel != nil {
		return coldata.NewViewWithSelection(b.schema, cols, sel)
	}
	return coldata.NewView(b.schema, cols, view.RowCount())
}
