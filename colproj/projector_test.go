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

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvecdb/engine/coldata"
)

func projectorTestSchema() coldata.TupleSchema {
	return coldata.MustNewTupleSchema([]coldata.Attribute{
		{Name: "id", Type: coldata.Int64},
		{Name: "name", Type: coldata.String, Nullability: coldata.Nullable},
	})
}

func TestProjectorBindSelectAndReorder(t *testing.T) {
	p := NewSingleSourceProjector([]Item{
		{SourceName: "name"},
		{SourceName: "id"},
	})
	bound, err := p.Bind(projectorTestSchema())
	require.NoError(t, err)
	require.Equal(t, []int{1, 0}, bound.Positions())
	require.Equal(t, "name", bound.Schema().Attr(0).Name)
	require.Equal(t, "id", bound.Schema().Attr(1).Name)
}

func TestProjectorBindRenames(t *testing.T) {
	p := NewSingleSourceProjector([]Item{
		{SourceName: "id", OutputName: "customer_id"},
	})
	bound, err := p.Bind(projectorTestSchema())
	require.NoError(t, err)
	require.Equal(t, "customer_id", bound.Schema().Attr(0).Name)
}

func TestProjectorBindMissingAttribute(t *testing.T) {
	p := NewSingleSourceProjector([]Item{{SourceName: "nope"}})
	_, err := p.Bind(projectorTestSchema())
	require.Error(t, err)
}

func TestProjectorApply(t *testing.T) {
	schema := projectorTestSchema()
	block := coldata.NewBlock(schema, 2)
	block.MutableColumn(0).Int64()[0] = 1
	block.MutableColumn(0).Int64()[1] = 2
	block.MutableColumn(1).SetString(0, "a")
	block.MutableColumn(1).SetString(1, "b")
	block.SetLength(2)

	p := NewSingleSourceProjector([]Item{{SourceName: "name"}})
	bound, err := p.Bind(schema)
	require.NoError(t, err)

	out := bound.Apply(block.View())
	require.Equal(t, 1, out.Schema().NumAttrs())
	require.Equal(t, 2, out.RowCount())
	require.Equal(t, "a", out.Column(0).GetString(0))
	require.Equal(t, "b", out.Column(0).GetString(1))
}
