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

// Package memdest is the in-memory columnar destination: one typed Go
// slice per column plus a validity slice, with partition writers indexing
// disjoint row ranges of the shared storage.
package memdest

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/destinations"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

const DestinationKind string = "memory"

// Type is the memory destination's logical type system. Each logical type
// is its physical kind, named.
type Type uint8

const (
	Bool Type = iota
	I64
	F64
	Dec
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
	case Dec:
		return typesys.Decimal
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
	case Dec:
		return "Decimal"
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

type column struct {
	kind   typesys.PhysicalKind
	valid  []bool
	bools  []bool
	ints   []int64
	floats []float64
	decs   []decimal.Decimal
	strs   []string
	blobs  [][]byte
	times  []time.Time
}

func newColumn(kind typesys.PhysicalKind, nrows int) *column {
	c := &column{kind: kind, valid: make([]bool, nrows)}
	switch kind {
	case typesys.Bool:
		c.bools = make([]bool, nrows)
	case typesys.Int64:
		c.ints = make([]int64, nrows)
	case typesys.Float64:
		c.floats = make([]float64, nrows)
	case typesys.Decimal:
		c.decs = make([]decimal.Decimal, nrows)
	case typesys.String:
		c.strs = make([]string, nrows)
	case typesys.Bytes:
		c.blobs = make([][]byte, nrows)
	case typesys.Time:
		c.times = make([]time.Time, nrows)
	}
	return c
}

// Destination holds all columns in process memory.
type Destination struct {
	destinations.Lifecycle
	schema typesys.Schema
	nrows  int
	cols   []*column
}

var _ destinations.Destination = &Destination{}

func New() *Destination { return &Destination{} }

func (d *Destination) Kind() string { return DestinationKind }

func (d *Destination) DataOrders() []typesys.DataOrder {
	return []typesys.DataOrder{typesys.RowMajor, typesys.ColumnMajor}
}

func (d *Destination) Allocate(totalRows int, schema typesys.Schema, order typesys.DataOrder) error {
	if totalRows < 0 {
		return util.NewConfigError(fmt.Sprintf("negative row count %d", totalRows), nil)
	}
	if order != typesys.RowMajor && order != typesys.ColumnMajor {
		return &util.UnsupportedDataOrderError{Order: order.String()}
	}
	if err := d.ToAllocated(); err != nil {
		return err
	}
	d.schema = schema
	d.nrows = totalRows
	d.cols = make([]*column, schema.NCols())
	for i := range schema {
		d.cols[i] = newColumn(schema.Physical(i), totalRows)
	}
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
	writers := make([]destinations.PartitionWriter, len(ranges))
	for i, r := range ranges {
		writers[i] = &writer{dest: d, rng: r}
	}
	return writers, nil
}

func (d *Destination) Finalize() error { return d.ToFinalized() }

// NRows reports the allocated row count.
func (d *Destination) NRows() int { return d.nrows }

// Schema reports the allocated schema.
func (d *Destination) Schema() typesys.Schema { return d.schema }

func (d *Destination) readColumn(col int, kind typesys.PhysicalKind) (*column, error) {
	if !d.Finalized() {
		return nil, util.NewConfigError("read", util.ErrNotFinalized)
	}
	if col < 0 || col >= len(d.cols) {
		return nil, util.NewConfigError(fmt.Sprintf("column %d out of range", col), nil)
	}
	if d.cols[col].kind != kind {
		return nil, &util.TypeMismatchError{Column: col, Expected: d.schema[col].Type.String(), Found: kind.String()}
	}
	return d.cols[col], nil
}

// Bools returns a finalized bool column and its validity slice.
func (d *Destination) Bools(col int) ([]bool, []bool, error) {
	c, err := d.readColumn(col, typesys.Bool)
	if err != nil {
		return nil, nil, err
	}
	return c.bools, c.valid, nil
}

func (d *Destination) Int64s(col int) ([]int64, []bool, error) {
	c, err := d.readColumn(col, typesys.Int64)
	if err != nil {
		return nil, nil, err
	}
	return c.ints, c.valid, nil
}

func (d *Destination) Float64s(col int) ([]float64, []bool, error) {
	c, err := d.readColumn(col, typesys.Float64)
	if err != nil {
		return nil, nil, err
	}
	return c.floats, c.valid, nil
}

func (d *Destination) Decimals(col int) ([]decimal.Decimal, []bool, error) {
	c, err := d.readColumn(col, typesys.Decimal)
	if err != nil {
		return nil, nil, err
	}
	return c.decs, c.valid, nil
}

func (d *Destination) Strings(col int) ([]string, []bool, error) {
	c, err := d.readColumn(col, typesys.String)
	if err != nil {
		return nil, nil, err
	}
	return c.strs, c.valid, nil
}

func (d *Destination) Blobs(col int) ([][]byte, []bool, error) {
	c, err := d.readColumn(col, typesys.Bytes)
	if err != nil {
		return nil, nil, err
	}
	return c.blobs, c.valid, nil
}

func (d *Destination) Times(col int) ([]time.Time, []bool, error) {
	c, err := d.readColumn(col, typesys.Time)
	if err != nil {
		return nil, nil, err
	}
	return c.times, c.valid, nil
}

// writer indexes the shared column storage through its own row range.
type writer struct {
	dest   *Destination
	rng    destinations.Range
	closed bool
}

var _ destinations.PartitionWriter = &writer{}

func (w *writer) NRows() int { return w.rng.Rows }

func (w *writer) NCols() int { return w.dest.schema.NCols() }

func (w *writer) Schema() typesys.Schema { return w.dest.schema }

func (w *writer) SetBool(row, col int, v bool) {
	c := w.dest.cols[col]
	c.bools[w.rng.Offset+row] = v
	c.valid[w.rng.Offset+row] = true
}

func (w *writer) SetInt64(row, col int, v int64) {
	c := w.dest.cols[col]
	c.ints[w.rng.Offset+row] = v
	c.valid[w.rng.Offset+row] = true
}

func (w *writer) SetFloat64(row, col int, v float64) {
	c := w.dest.cols[col]
	c.floats[w.rng.Offset+row] = v
	c.valid[w.rng.Offset+row] = true
}

func (w *writer) SetDecimal(row, col int, v decimal.Decimal) {
	c := w.dest.cols[col]
	c.decs[w.rng.Offset+row] = v
	c.valid[w.rng.Offset+row] = true
}

func (w *writer) SetString(row, col int, v string) {
	c := w.dest.cols[col]
	c.strs[w.rng.Offset+row] = v
	c.valid[w.rng.Offset+row] = true
}

func (w *writer) SetBytes(row, col int, v []byte) {
	c := w.dest.cols[col]
	c.blobs[w.rng.Offset+row] = v
	c.valid[w.rng.Offset+row] = true
}

func (w *writer) SetTime(row, col int, v time.Time) {
	c := w.dest.cols[col]
	c.times[w.rng.Offset+row] = v
	c.valid[w.rng.Offset+row] = true
}

func (w *writer) SetNull(row, col int) {
	w.dest.cols[col].valid[w.rng.Offset+row] = false
}

func (w *writer) Close() error {
	if !w.closed {
		w.closed = true
		w.dest.WriterClosed()
	}
	return nil
}
