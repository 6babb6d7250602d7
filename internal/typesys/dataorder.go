// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package typesys

import (
	"slices"

	"github.com/alswang18/connector-x/internal/util"
)

// DataOrder is the layout in which cells are produced and consumed.
type DataOrder uint8

const (
	RowMajor DataOrder = iota
	ColumnMajor
)

func (o DataOrder) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColumnMajor:
		return "column-major"
	default:
		return "unknown"
	}
}

// CommonOrder picks the data order for a transfer: the first order listed by
// the source that the destination also supports, except that RowMajor wins
// whenever both sides accept it.
func CommonOrder(src, dst []DataOrder) (DataOrder, error) {
	if slices.Contains(src, RowMajor) && slices.Contains(dst, RowMajor) {
		return RowMajor, nil
	}
	for _, o := range src {
		if slices.Contains(dst, o) {
			return o, nil
		}
	}
	var want DataOrder
	if len(src) > 0 {
		want = src[0]
	}
	return 0, &util.UnsupportedDataOrderError{Order: want.String()}
}
