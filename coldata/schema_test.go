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

package coldata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTupleSchemaRejectsDuplicateNames(t *testing.T) {
	_, err := NewTupleSchema([]Attribute{
		{Name: "a", Type: Int64},
		{Name: "a", Type: String},
	})
	require.Error(t, err)
}

func TestTupleSchemaIndexOf(t *testing.T) {
	s := MustNewTupleSchema([]Attribute{
		{Name: "id", Type: Int64},
		{Name: "name", Type: String},
	})
	require.Equal(t, 0, s.IndexOf("id"))
	require.Equal(t, 1, s.IndexOf("name"))
	require.Equal(t, -1, s.IndexOf("missing"))

	_, err := s.MustIndexOf("missing")
	require.Error(t, err)
}

func TestTupleSchemaProjectRenames(t *testing.T) {
	s := MustNewTupleSchema([]Attribute{
		{Name: "id", Type: Int64},
		{Name: "name", Type: String},
	})
	projected, err := s.Project([]int{1, 0}, []string{"n", ""})
	require.NoError(t, err)
	require.Equal(t, 2, projected.NumAttrs())
	require.Equal(t, "n", projected.Attr(0).Name)
	require.Equal(t, "id", projected.Attr(1).Name)
}

func TestAttributeEqual(t *testing.T) {
	a := Attribute{Name: "x", Type: Int64, Nullability: Nullable}
	b := Attribute{Name: "x", Type: String, Nullability: NotNullable}
	require.True(t, a.Equal(b), "Equal compares by name only")

	c := Attribute{Name: "y", Type: Int64, Nullability: Nullable}
	require.False(t, a.Equal(c))
}
