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

import "github.com/colvecdb/engine/coldata"

// copyElem copies element srcIdx of src into element dstIdx of dst; both
// columns must share the same DataType.
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
