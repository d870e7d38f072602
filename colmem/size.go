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

package colmem

import "github.com/colvecdb/engine/coldata"

// EstimatedRowWidth returns the number of fixed-size bytes one row of
// schema occupies, used for pre-flight memory accounting before a
// variable-length column's actual arena usage is known. Variable-length
// attributes are charged a fixed per-descriptor estimate (the size of a
// Go slice header) plus a fixed average-payload estimate, since their
// true size is only known once written.
func EstimatedRowWidth(schema coldata.TupleSchema) int64 {
	const sliceHeaderBytes = 24
	const avgVariableLenPayload = 16
	const nullBitBytes = 1 // amortized, not exact
	var width int64
	for i := 0; i < schema.NumAttrs(); i++ {
		attr := schema.Attr(i)
		switch attr.Type {
		case coldata.Int32, coldata.Uint32, coldata.Float, coldata.Date:
			width += 4
		case coldata.Int64, coldata.Uint64, coldata.Double, coldata.DateTime:
			width += 8
		case coldata.Bool:
			width += 1
		case coldata.String, coldata.Binary:
			width += sliceHeaderBytes + avgVariableLenPayload
		case coldata.Decimal:
			width += 40 // apd.Decimal is not fixed width; this is a rough estimate
		}
		if attr.Nullability == coldata.Nullable {
			width += nullBitBytes
		}
	}
	return width
}

// EstimatedBlockSize returns the estimated bytes a Block of schema with
// the given row capacity will occupy.
func EstimatedBlockSize(schema coldata.TupleSchema, capacity int) int64 {
	return EstimatedRowWidth(schema) * int64(capacity)
}
