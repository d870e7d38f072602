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

import "github.com/colvecdb/engine/colexecerror"

// ExtendedKey is one sort key of an ExtendedSortSpecification: a named
// attribute, direction, and optional case-insensitive comparison for
// STRING columns, per spec.md §3.
type ExtendedKey struct {
	Name          string
	Direction     Direction
	CaseSensitive bool
}

// ExtendedSortSpecification is spec.md §3's ExtendedSortSpecification:
// sort keys with per-key case sensitivity and an optional row limit.
type ExtendedSortSpecification struct {
	Keys  []ExtendedKey
	Limit *int
}

// ValidateNoDuplicateKeys enforces spec.md §4.6.3's bind-time rule:
// duplicate key names are an error only when both occurrences agree on
// case sensitivity against the same column. A row where one key is
// case-sensitive and another is case-insensitive on the same attribute
// is permitted (spec.md §9 Open Question, preserved as-is).
func ValidateNoDuplicateKeys(keys []ExtendedKey) error {
	type seenKey struct {
		name          string
		caseSensitive bool
	}
	seen := make(map[seenKey]bool, len(keys))
	for _, k := range keys {
		sk := seenKey{name: k.Name, caseSensitive: k.CaseSensitive}
		if seen[sk] {
			return colexecerror.Newf(colexecerror.InvalidArgumentValue,
				"duplicate sort key %q with matching case-sensitivity", k.Name)
		}
		seen[sk] = true
	}
	return nil
}
