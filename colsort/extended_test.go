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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecop"
)

func nameSchema() coldata.TupleSchema {
	return coldata.MustNewTupleSchema([]coldata.Attribute{
		{Name: "name", Type: coldata.String, Nullability: coldata.Nullable},
	})
}

func viewOfNames(names ...string) coldata.View {
	schema := nameSchema()
	block := coldata.NewBlock(schema, len(names))
	for i, n := range names {
		block.MutableColumn(0).SetString(i, n)
	}
	block.SetLength(len(names))
	return block.View()
}

func TestValidateNoDuplicateKeysRejectsSameCaseSensitivity(t *testing.T) {
	err := ValidateNoDuplicateKeys([]ExtendedKey{
		{Name: "a", CaseSensitive: true},
		{Name: "a", CaseSensitive: true},
	})
	require.Error(t, err)
}

func TestValidateNoDuplicateKeysAllowsMixedCaseSensitivity(t *testing.T) {
	err := ValidateNoDuplicateKeys([]ExtendedKey{
		{Name: "a", CaseSensitive: true},
		{Name: "a", CaseSensitive: false},
	})
	require.NoError(t, err)
}

func TestExtendedSortCaseInsensitive(t *testing.T) {
	view := viewOfNames("bob", "Alice", "charlie")
	src := &sliceSourceOperation{view: view, batchSize: 8}

	spec := ExtendedSortSpecification{
		Keys: []ExtendedKey{{Name: "name", Direction: Asc, CaseSensitive: false}},
	}
	op, err := ExtendedSort(spec, nil, 1<<20, src)
	require.NoError(t, err)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	require.Equal(t, 1, cursor.Schema().NumAttrs(), "synthetic key column must not leak into the output schema")
	require.Equal(t, "name", cursor.Schema().Attr(0).Name)

	got := drainNames(t, cursor)
	require.Equal(t, []string{"Alice", "bob", "charlie"}, got)
}

func TestExtendedSortCaseSensitiveOrdersUppercaseFirst(t *testing.T) {
	view := viewOfNames("bob", "Alice", "charlie")
	src := &sliceSourceOperation{view: view, batchSize: 8}

	spec := ExtendedSortSpecification{
		Keys: []ExtendedKey{{Name: "name", Direction: Asc, CaseSensitive: true}},
	}
	op, err := ExtendedSort(spec, nil, 1<<20, src)
	require.NoError(t, err)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	got := drainNames(t, cursor)
	// Byte-wise ASCII ordering: uppercase letters sort before lowercase.
	require.Equal(t, []string{"Alice", "bob", "charlie"}, got)
}

func TestExtendedSortWithLimit(t *testing.T) {
	view := viewOfNames("bob", "alice", "charlie", "dave")
	src := &sliceSourceOperation{view: view, batchSize: 8}

	limit := 2
	spec := ExtendedSortSpecification{
		Keys:  []ExtendedKey{{Name: "name", Direction: Asc, CaseSensitive: true}},
		Limit: &limit,
	}
	op, err := ExtendedSort(spec, nil, 1<<20, src)
	require.NoError(t, err)

	cursor, err := op.CreateCursor()
	require.NoError(t, err)
	got := drainNames(t, cursor)
	require.Equal(t, []string{"alice", "bob"}, got)
}

func drainNames(t *testing.T, c colexecop.Cursor) []string {
	t.Helper()
	var out []string
	ctx := context.Background()
	for {
		rv := c.Next(ctx, 4)
		switch rv.Kind {
		case colexecop.KindRows:
			for i := 0; i < rv.View.RowCount(); i++ {
				p := rv.View.PhysicalIndex(i)
				out = append(out, rv.View.Column(0).GetString(p))
			}
		case colexecop.KindEOS:
			return out
		default:
			t.Fatalf("unexpected result kind %v (err=%v)", rv.Kind, rv.Err)
		}
	}
}
