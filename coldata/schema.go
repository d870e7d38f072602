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

import "github.com/cockroachdb/errors"

// TupleSchema is an ordered sequence of Attributes with unique names.
type TupleSchema struct {
	attrs   []Attribute
	byName  map[string]int
}

// NewTupleSchema builds a TupleSchema from attrs, validating name
// uniqueness.
func NewTupleSchema(attrs []Attribute) (TupleSchema, error) {
	byName := make(map[string]int, len(attrs))
	for i, a := range attrs {
		if _, ok := byName[a.Name]; ok {
			return TupleSchema{}, errors.Newf("duplicate attribute name %q in tuple schema", a.Name)
		}
		byName[a.Name] = i
	}
	cp := make([]Attribute, len(attrs))
	copy(cp, attrs)
	return TupleSchema{attrs: cp, byName: byName}, nil
}

// MustNewTupleSchema is NewTupleSchema but panics on error; useful for
// schemas built from literals known at compile time.
func MustNewTupleSchema(attrs []Attribute) TupleSchema {
	s, err := NewTupleSchema(attrs)
	if err != nil {
		panic(err)
	}
	return s
}

// NumAttrs returns the attribute count.
func (s TupleSchema) NumAttrs() int {
	return len(s.attrs)
}

// Attr returns the i'th attribute.
func (s TupleSchema) Attr(i int) Attribute {
	return s.attrs[i]
}

// Attrs returns the underlying attribute slice. Callers must not mutate it.
func (s TupleSchema) Attrs() []Attribute {
	return s.attrs
}

// IndexOf returns the position of the named attribute, or -1 if absent.
func (s TupleSchema) IndexOf(name string) int {
	if i, ok := s.byName[name]; ok {
		return i
	}
	return -1
}

// MustIndexOf is IndexOf but returns a bind error instead of -1.
func (s TupleSchema) MustIndexOf(name string) (int, error) {
	i := s.IndexOf(name)
	if i < 0 {
		return -1, errors.Newf("no attribute named %q in schema", name)
	}
	return i, nil
}

// Project returns a new TupleSchema containing only the named positions,
// in the given order, optionally renamed.
func (s TupleSchema) Project(positions []int, renames []string) (TupleSchema, error) {
	out := make([]Attribute, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(s.attrs) {
			return TupleSchema{}, errors.Newf("attribute position %d out of range [0,%d)", p, len(s.attrs))
		}
		a := s.attrs[p]
		if renames != nil && renames[i] != "" {
			a.Name = renames[i]
		}
		out[i] = a
	}
	return NewTupleSchema(out)
}
