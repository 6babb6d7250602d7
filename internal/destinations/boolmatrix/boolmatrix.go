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

// Package boolmatrix is a destination that can only hold booleans: a
// single row-major matrix with partition writers owning disjoint row
// bands. Useful for homogeneous mask extraction and as the smallest
// complete destination.
package boolmatrix

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/destinations"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

const DestinationKind string = "boolmatrix"

// Type is the single logical type this destination accepts.
type Type uint8

const Bool Type = 0

var _ typesys.Logical = Bool

func (Type) Physical() typesys.PhysicalKind { return typesys.Bool }

func (Type) String() string { return "Bool" }

// Destination is an nrows x ncols boolean matrix in one flat buffer.
type Destination struct {
	destinations.Lifecycle
	schema typesys.Schema
	nrows  int
	ncols  int
	buffer []bool
}

var _ destinations.Destination = &Destination{}

func New() *Destination { return &Destination{} }

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
	for i := range schema {
		if schema.Physical(i) != typesys.Bool {
			return &util.UnsupportedSchemaError{Column: i, Logical: schema[i].Type.String(), Reason: "boolmatrix accepts a Bool-only schema"}
		}
	}
	if err := d.ToAllocated(); err != nil {
		return err
	}
	d.schema = schema
	d.nrows = totalRows
	d.ncols = schema.NCols()
	d.buffer = make([]bool, totalRows*d.ncols)
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
		// Each writer gets the exclusive band of the flat buffer
		// covering its rows.
		writers[i] = &writer{
			dest:   d,
			band:   d.buffer[r.Offset*d.ncols : (r.Offset+r.Rows)*d.ncols],
			nrows:  r.Rows,
			ncols:  d.ncols,
			schema: d.schema,
		}
	}
	return writers, nil
}

func (d *Destination) Finalize() error { return d.ToFinalized() }

func (d *Destination) NRows() int { return d.nrows }

func (d *Destination) NCols() int { return d.ncols }

// Matrix returns the finalized matrix as one row-major buffer.
func (d *Destination) Matrix() ([]bool, error) {
	if !d.Finalized() {
		return nil, util.NewConfigError("read", util.ErrNotFinalized)
	}
	return d.buffer, nil
}

// Row returns one finalized row.
func (d *Destination) Row(row int) ([]bool, error) {
	if !d.Finalized() {
		return nil, util.NewConfigError("read", util.ErrNotFinalized)
	}
	if row < 0 || row >= d.nrows {
		return nil, util.NewConfigError(fmt.Sprintf("row %d out of range", row), nil)
	}
	return d.buffer[row*d.ncols : (row+1)*d.ncols], nil
}

type writer struct {
	dest   *Destination
	band   []bool
	nrows  int
	ncols  int
	schema typesys.Schema
	closed bool
}

var _ destinations.PartitionWriter = &writer{}

func (w *writer) NRows() int { return w.nrows }

func (w *writer) NCols() int { return w.ncols }

func (w *writer) Schema() typesys.Schema { return w.schema }

func (w *writer) SetBool(row, col int, v bool) {
	w.band[row*w.ncols+col] = v
}

func (w *writer) SetInt64(row, col int, v int64) {
	panic("boolmatrix holds no int64 column")
}

func (w *writer) SetFloat64(row, col int, v float64) {
	panic("boolmatrix holds no float64 column")
}

func (w *writer) SetDecimal(row, col int, v decimal.Decimal) {
	panic("boolmatrix holds no decimal column")
}

func (w *writer) SetString(row, col int, v string) {
	panic("boolmatrix holds no string column")
}

func (w *writer) SetBytes(row, col int, v []byte) {
	panic("boolmatrix holds no bytes column")
}

func (w *writer) SetTime(row, col int, v time.Time) {
	panic("boolmatrix holds no time column")
}

func (w *writer) SetNull(row, col int) {
	w.band[row*w.ncols+col] = false
}

func (w *writer) Close() error {
	if !w.closed {
		w.closed = true
		w.dest.WriterClosed()
	}
	return nil
}
