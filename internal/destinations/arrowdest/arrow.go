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

// Package arrowdest is the Arrow destination: one record batch per
// partition, assembled in partition order at finalize. Arrow builders are
// append-only, so each partition writer owns its own builder set instead of
// a slice of shared storage; concatenating the per-partition batches in
// partition order restores the global row order.
package arrowdest

import (
	"fmt"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/destinations"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

const DestinationKind string = "arrow"

// Type is the Arrow destination's logical type system.
type Type uint8

const (
	Bool Type = iota
	I64
	F64
	Str
	Blob
	DateTime
)

var _ typesys.Logical = Bool

func (t Type) Physical() typesys.PhysicalKind {
	switch t {
	case Bool:
		return typesys.Bool
	case I64:
		return typesys.Int64
	case F64:
		return typesys.Float64
	case Str:
		return typesys.String
	case Blob:
		return typesys.Bytes
	case DateTime:
		return typesys.Time
	default:
		return typesys.Bytes
	}
}

func (t Type) String() string {
	switch t {
	case Bool:
		return "Bool"
	case I64:
		return "I64"
	case F64:
		return "F64"
	case Str:
		return "String"
	case Blob:
		return "Bytes"
	case DateTime:
		return "DateTime"
	default:
		return "Unknown"
	}
}

func arrowType(kind typesys.PhysicalKind) (arrow.DataType, error) {
	switch kind {
	case typesys.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case typesys.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case typesys.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case typesys.String:
		return arrow.BinaryTypes.String, nil
	case typesys.Bytes:
		return arrow.BinaryTypes.Binary, nil
	case typesys.Time:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	default:
		return nil, fmt.Errorf("no arrow representation for %s", kind)
	}
}

// Destination assembles record batches, one per partition.
type Destination struct {
	destinations.Lifecycle
	alloc  memory.Allocator
	schema typesys.Schema
	aschem *arrow.Schema
	nrows  int

	mu      sync.Mutex
	records []arrow.Record
}

var _ destinations.Destination = &Destination{}

func New() *Destination {
	return &Destination{alloc: memory.DefaultAllocator}
}

func (d *Destination) Kind() string { return DestinationKind }

func (d *Destination) DataOrders() []typesys.DataOrder {
	return []typesys.DataOrder{typesys.RowMajor}
}

func (d *Destination) Allocate(totalRows int, schema typesys.Schema, order typesys.DataOrder) error {
	if totalRows < 0 {
		return util.NewConfigError(fmt.Sprintf("negative row count %d", totalRows), nil)
	}
	if order != typesys.RowMajor {
		return &util.UnsupportedDataOrderError{Order: order.String()}
	}
	fields := make([]arrow.Field, schema.NCols())
	for i := range schema {
		dt, err := arrowType(schema.Physical(i))
		if err != nil {
			return &util.UnsupportedSchemaError{Column: i, Logical: schema[i].Type.String(), Reason: err.Error()}
		}
		fields[i] = arrow.Field{Name: schema[i].Name, Type: dt, Nullable: schema[i].Nullable}
	}
	if err := d.ToAllocated(); err != nil {
		return err
	}
	d.schema = schema
	d.aschem = arrow.NewSchema(fields, nil)
	d.nrows = totalRows
	return nil
}

func (d *Destination) Partitions(counts []int) ([]destinations.PartitionWriter, error) {
	ranges, err := destinations.SplitRows(d.nrows, counts)
	if err != nil {
		return nil, err
	}
	if err := d.ToPartitioned(len(ranges)); err != nil {
		return nil, err
	}
	d.records = make([]arrow.Record, len(ranges))
	writers := make([]destinations.PartitionWriter, len(ranges))
	for i, r := range ranges {
		writers[i] = &writer{
			dest:      d,
			partition: i,
			rows:      r.Rows,
			builder:   array.NewRecordBuilder(d.alloc, d.aschem),
		}
	}
	return writers, nil
}

func (d *Destination) Finalize() error {
	if err := d.ToFinalized(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.records) == 0 {
		// Empty transfer: a single zero-row batch keeps the columns.
		b := array.NewRecordBuilder(d.alloc, d.aschem)
		d.records = []arrow.Record{b.NewRecord()}
		b.Release()
	}
	return nil
}

// Records returns the finalized record batches in partition order.
func (d *Destination) Records() ([]arrow.Record, error) {
	if !d.Finalized() {
		return nil, util.NewConfigError("read", util.ErrNotFinalized)
	}
	return d.records, nil
}

// Schema returns the arrow schema chosen at allocation.
func (d *Destination) Schema() *arrow.Schema { return d.aschem }

// writer owns an append-only builder set for its row range. The unchecked
// Set methods append to the addressed column; rows must arrive in order,
// which the row-major data order guarantees.
type writer struct {
	dest      *Destination
	partition int
	rows      int
	builder   *array.RecordBuilder
	closed    bool
}

var _ destinations.PartitionWriter = &writer{}

func (w *writer) NRows() int { return w.rows }

func (w *writer) NCols() int { return w.dest.schema.NCols() }

func (w *writer) Schema() typesys.Schema { return w.dest.schema }

func (w *writer) SetBool(row, col int, v bool) {
	w.builder.Field(col).(*array.BooleanBuilder).Append(v)
}

func (w *writer) SetInt64(row, col int, v int64) {
	w.builder.Field(col).(*array.Int64Builder).Append(v)
}

func (w *writer) SetFloat64(row, col int, v float64) {
	w.builder.Field(col).(*array.Float64Builder).Append(v)
}

func (w *writer) SetDecimal(row, col int, v decimal.Decimal) {
	// Decimals are routed to F64 by every transport into this
	// destination; a decimal write is a transport table bug.
	panic(fmt.Sprintf("arrow destination holds no decimal column (col %d)", col))
}

func (w *writer) SetString(row, col int, v string) {
	w.builder.Field(col).(*array.StringBuilder).Append(v)
}

func (w *writer) SetBytes(row, col int, v []byte) {
	w.builder.Field(col).(*array.BinaryBuilder).Append(v)
}

func (w *writer) SetTime(row, col int, v time.Time) {
	w.builder.Field(col).(*array.TimestampBuilder).Append(arrow.Timestamp(v.UnixMicro()))
}

func (w *writer) SetNull(row, col int) {
	w.builder.Field(col).AppendNull()
}

func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	rec := w.builder.NewRecord()
	w.builder.Release()
	w.dest.mu.Lock()
	w.dest.records[w.partition] = rec
	w.dest.mu.Unlock()
	w.dest.WriterClosed()
	return nil
}
