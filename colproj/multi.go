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

package colproj

import "github.com/colvecdb/engine/coldata"

// MultiItem selects the named attribute from the SourceIndex'th of
// several source schemas.
type MultiItem struct {
	SourceIndex int
	SourceName  string
	OutputName  string
}

// MultiSourceProjector is the symbolic form binding against a list of
// schemas (e.g. the two sides of a join), per spec.md §4.5.
type MultiSourceProjector struct {
	items []MultiItem
}

// NewMultiSourceProjector builds a symbolic projector from items.
func NewMultiSourceProjector(items []MultiItem) *MultiSourceProjector {
	return &MultiSourceProjector{items: items}
}

// BoundMultiSourceProjector maps output position -> (source view index,
// source attribute position).
type BoundMultiSourceProjector struct {
	sourceIdx []int
	positions []int
	schema    coldata.TupleSchema
}

// Bind resolves p against sources.
func (p *MultiSourceProjector) Bind(sources []coldata.TupleSchema) (*BoundMultiSourceProjector, error) {
	sourceIdx := make([]int, len(p.items))
	positions := make([]int, len(p.items))
	attrs := make([]coldata.Attribute, len(p.items))
	for i, item := range p.items {
		if item.SourceIndex < 0 || item.SourceIndex >= len(sources) {
			return nil, coldataErrorf("source index %d out of range [0,%d)", item.SourceIndex, len(sources))
		}
		pos, err := sources[item.SourceIndex].MustIndexOf(item.SourceName)
		if err != nil {
			return nil, err
		}
		sourceIdx[i] = item.SourceIndex
		positions[i] = pos
		attr := sources[item.SourceIndex].Attr(pos)
		if item.OutputName != "" {
			attr.Name = item.OutputName
		}
		attrs[i] = attr
	}
	schema, err := coldata.NewTupleSchema(attrs)
	if err != nil {
		return nil, err
	}
	return &BoundMultiSourceProjector{sourceIdx: sourceIdx, positions: positions, schema: schema}, nil
}

func (b *BoundMultiSourceProjector) Schema() coldata.TupleSchema { return b.schema }

// Apply selects columns across multiple source views, all sharing the
// same row count, into one output View.
func (b *BoundMultiSourceProjector) Apply(views []coldata.View) coldata.View {
	cols := make([]*coldata.Column, len(b.positions))
	rowCount := 0
	if len(views) > 0 {
		rowCount = views[0].RowCount()
	}
	for i, pos := range b.positions {
		cols[i] = views[b.sourceIdx[i]].Column(pos)
	}
	return coldata.NewView(b.schema, cols, rowCount)
}
