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
	"bytes"

	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/colvecdb/engine/coldata"
)

// decimalT names apd.Decimal locally so decimalLess reads consistently
// alongside the other typed comparator constructors.
type decimalT = apd.Decimal

// lessFunc compares two physical row indices of a fixed column,
// returning true iff the first sorts before the second under a fixed
// direction. It is a monomorphized-per-(DataType,direction) closure,
// built once per key rather than switching on type inside the
// comparison itself — the re-expression of sort_tmpl.go's
// sort_TYPE_DIROp template instantiation via Go generics instead of
// text/template codegen (spec.md §9).
type lessFunc func(i, j int) bool

// newLessFunc builds the typed comparator for col under dir. Errors for
// unsupported types mirror sort_tmpl.go's own errors.Errorf dispatch
// failure sites.
func newLessFunc(col *coldata.Column, dir Direction) (lessFunc, error) {
	switch col.Type() {
	case coldata.Int32, coldata.Date:
		return orderedLess(col.Int32(), dir), nil
	case coldata.Uint32:
		return orderedLess(col.Uint32(), dir), nil
	case coldata.Int64, coldata.DateTime:
		return orderedLess(col.Int64(), dir), nil
	case coldata.Uint64:
		return orderedLess(col.Uint64(), dir), nil
	case coldata.Float:
		return orderedLess(col.Float32(), dir), nil
	case coldata.Double:
		return orderedLess(col.Float64(), dir), nil
	case coldata.Bool:
		return boolLess(col.Bool(), dir), nil
	case coldata.String, coldata.Binary:
		return bytesLess(col.Bytes(), dir), nil
	case coldata.Decimal:
		return decimalLess(col.Decimal(), dir), nil
	default:
		return nil, errors.Errorf("unsupported sort type %s", col.Type())
	}
}

func orderedLess[T constraints.Ordered](vals []T, dir Direction) lessFunc {
	if dir == Asc {
		return func(i, j int) bool { return vals[i] < vals[j] }
	}
	return func(i, j int) bool { return vals[i] > vals[j] }
}

func boolLess(vals []bool, dir Direction) lessFunc {
	// false < true.
	if dir == Asc {
		return func(i, j int) bool { return !vals[i] && vals[j] }
	}
	return func(i, j int) bool { return vals[i] && !vals[j] }
}

func bytesLess(vals [][]byte, dir Direction) lessFunc {
	if dir == Asc {
		return func(i, j int) bool { return bytes.Compare(vals[i], vals[j]) < 0 }
	}
	return func(i, j int) bool { return bytes.Compare(vals[i], vals[j]) > 0 }
}

func decimalLess(vals []decimalT, dir Direction) lessFunc {
	if dir == Asc {
		return func(i, j int) bool { return vals[i].Cmp(&vals[j]) < 0 }
	}
	return func(i, j int) bool { return vals[i].Cmp(&vals[j]) > 0 }
}
