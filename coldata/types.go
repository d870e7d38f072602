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

// Package coldata implements the columnar data model: typed attributes,
// tuple schemas, null-bearing columns and the non-owning views over them
// that operators consume and produce.
package coldata

import "fmt"

// DataType is a tag identifying the physical representation of a column.
// The set is closed; adding a new tag requires adding a case to every
// switch keyed on DataType (comparators, column allocation, arena
// descriptors).
type DataType int

const (
	Unknown DataType = iota
	Int32
	Uint32
	Int64
	Uint64
	Float
	Double
	Bool
	String
	Binary
	Date
	DateTime
	// Decimal is a domain-stack extension over spec.md's original closed
	// set (see SPEC_FULL.md DOMAIN STACK): an arbitrary-precision decimal
	// column backed by github.com/cockroachdb/apd.
	Decimal
)

func (t DataType) String() string {
	switch t {
	case Int32:
		return "INT32"
	case Uint32:
		return "UINT32"
	case Int64:
		return "INT64"
	case Uint64:
		return "UINT64"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Bool:
		return "BOOL"
	case String:
		return "STRING"
	case Binary:
		return "BINARY"
	case Date:
		return "DATE"
	case DateTime:
		return "DATETIME"
	case Decimal:
		return "DECIMAL"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Variable reports whether values of this type are stored as
// (pointer, length) descriptors into an Arena rather than inline.
func (t DataType) Variable() bool {
	return t == String || t == Binary
}

// Nullability marks whether an Attribute may hold NULL values.
type Nullability int

const (
	NotNullable Nullability = iota
	Nullable
)

// Attribute describes one column of a TupleSchema.
type Attribute struct {
	Name        string
	Type        DataType
	Nullability Nullability
}

// Equal implements equality by name, per spec.md §3.
func (a Attribute) Equal(other Attribute) bool {
	return a.Name == other.Name
}
