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

// Package destinations defines the destination side of a transfer: columnar
// storage allocated up front and split into disjoint per-partition row
// ranges.
package destinations

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// Destination is columnar storage with a one-way lifecycle:
// empty → allocated → partitioned → finalized.
type Destination interface {
	// Kind reports the destination kind.
	Kind() string
	// DataOrders lists the cell orders this destination accepts,
	// preferred first. Never empty.
	DataOrders() []typesys.DataOrder
	// Allocate fixes the row count and schema and reserves storage.
	Allocate(totalRows int, schema typesys.Schema, order typesys.DataOrder) error
	// Partitions splits the storage into writers over contiguous,
	// non-overlapping row ranges covering all rows.
	Partitions(counts []int) ([]PartitionWriter, error)
	// Finalize seals the storage. Valid only once, and only after every
	// partition writer is closed.
	Finalize() error
}

// PartitionWriter owns exclusive write access to a rectangular slice of the
// destination. The Set methods are the unchecked write path: the caller
// asserts the value's physical kind matches the column's logical type, and
// results are undefined when it does not. The checked path lives in the
// package-level CheckedSet functions.
type PartitionWriter interface {
	NRows() int
	NCols() int
	// Schema is shared read-only state, identical across all writers of
	// one destination.
	Schema() typesys.Schema
	SetBool(row, col int, v bool)
	SetInt64(row, col int, v int64)
	SetFloat64(row, col int, v float64)
	SetDecimal(row, col int, v decimal.Decimal)
	SetString(row, col int, v string)
	SetBytes(row, col int, v []byte)
	SetTime(row, col int, v time.Time)
	SetNull(row, col int)
	// Close releases the row range back to the destination.
	Close() error
}

func checkCell(w PartitionWriter, row, col int, kind typesys.PhysicalKind) error {
	if row < 0 || row >= w.NRows() || col < 0 || col >= w.NCols() {
		return util.NewConfigError(fmt.Sprintf("cell (%d, %d) outside partition of %d x %d", row, col, w.NRows(), w.NCols()), nil)
	}
	if t := w.Schema()[col].Type; t.Physical() != kind {
		return &util.TypeMismatchError{Column: col, Expected: t.String(), Found: kind.String()}
	}
	return nil
}

// CheckedSetBool verifies the cell position and the column's physical kind
// before writing.
func CheckedSetBool(w PartitionWriter, row, col int, v bool) error {
	if err := checkCell(w, row, col, typesys.Bool); err != nil {
		return err
	}
	w.SetBool(row, col, v)
	return nil
}

func CheckedSetInt64(w PartitionWriter, row, col int, v int64) error {
	if err := checkCell(w, row, col, typesys.Int64); err != nil {
		return err
	}
	w.SetInt64(row, col, v)
	return nil
}

func CheckedSetFloat64(w PartitionWriter, row, col int, v float64) error {
	if err := checkCell(w, row, col, typesys.Float64); err != nil {
		return err
	}
	w.SetFloat64(row, col, v)
	return nil
}

func CheckedSetDecimal(w PartitionWriter, row, col int, v decimal.Decimal) error {
	if err := checkCell(w, row, col, typesys.Decimal); err != nil {
		return err
	}
	w.SetDecimal(row, col, v)
	return nil
}

func CheckedSetString(w PartitionWriter, row, col int, v string) error {
	if err := checkCell(w, row, col, typesys.String); err != nil {
		return err
	}
	w.SetString(row, col, v)
	return nil
}

func CheckedSetBytes(w PartitionWriter, row, col int, v []byte) error {
	if err := checkCell(w, row, col, typesys.Bytes); err != nil {
		return err
	}
	w.SetBytes(row, col, v)
	return nil
}

func CheckedSetTime(w PartitionWriter, row, col int, v time.Time) error {
	if err := checkCell(w, row, col, typesys.Time); err != nil {
		return err
	}
	w.SetTime(row, col, v)
	return nil
}

// Range is one partition's contiguous half-open row range.
type Range struct {
	Offset int
	Rows   int
}

// SplitRows turns partition counts into row ranges, verifying they sum to
// the allocated total.
func SplitRows(total int, counts []int) ([]Range, error) {
	ranges := make([]Range, len(counts))
	offset := 0
	for i, c := range counts {
		if c < 0 {
			return nil, util.NewConfigError(fmt.Sprintf("negative row count %d for partition %d", c, i), nil)
		}
		ranges[i] = Range{Offset: offset, Rows: c}
		offset += c
	}
	if offset != total {
		return nil, &util.CountsMismatchError{Expected: total, Got: offset}
	}
	return ranges, nil
}
