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

package transfer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/destinations/arrowdest"
	"github.com/alswang18/connector-x/internal/destinations/memdest"
	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/sources/mysql"
	"github.com/alswang18/connector-x/internal/sources/sqlite"
	"github.com/alswang18/connector-x/internal/transfer"
	"github.com/alswang18/connector-x/internal/transports"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// fakeSource serves canned partitions through the Source contract.
type fakeSource struct {
	schema     typesys.Schema
	partitions [][][]any
	orders     []typesys.DataOrder
	newReader  func(p int, base *fakeReader) sources.PartitionReader
}

func (s *fakeSource) Kind() string { return "fake" }

func (s *fakeSource) DataOrders() []typesys.DataOrder {
	if s.orders != nil {
		return s.orders
	}
	return []typesys.DataOrder{typesys.RowMajor}
}

func (s *fakeSource) FetchMetadata(ctx context.Context) (typesys.Schema, []int, error) {
	counts := make([]int, len(s.partitions))
	for i, p := range s.partitions {
		counts[i] = len(p)
	}
	return s.schema, counts, nil
}

func (s *fakeSource) Partitions(ctx context.Context) ([]sources.PartitionReader, error) {
	readers := make([]sources.PartitionReader, len(s.partitions))
	for i, p := range s.partitions {
		base := &fakeReader{schema: s.schema, rows: p}
		if s.newReader != nil {
			readers[i] = s.newReader(i, base)
		} else {
			readers[i] = base
		}
	}
	return readers, nil
}

func (s *fakeSource) Close() error { return nil }

type fakeReader struct {
	schema typesys.Schema
	rows   [][]any
	cur    int
}

func (r *fakeReader) NRows() int { return len(r.rows) }

func (r *fakeReader) Next(ctx context.Context) (bool, error) {
	if r.cur >= len(r.rows) {
		return false, nil
	}
	r.cur++
	return true, nil
}

func (r *fakeReader) cell(col int, kind typesys.PhysicalKind) (any, bool, error) {
	if err := typesys.Check(r.schema[col].Type, kind); err != nil {
		return nil, false, err
	}
	v := r.rows[r.cur-1][col]
	if v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

func (r *fakeReader) Bool(col int) (bool, bool, error) {
	v, ok, err := r.cell(col, typesys.Bool)
	if err != nil || !ok {
		return false, ok, err
	}
	return v.(bool), true, nil
}

func (r *fakeReader) Int64(col int) (int64, bool, error) {
	v, ok, err := r.cell(col, typesys.Int64)
	if err != nil || !ok {
		return 0, ok, err
	}
	return v.(int64), true, nil
}

func (r *fakeReader) Float64(col int) (float64, bool, error) {
	v, ok, err := r.cell(col, typesys.Float64)
	if err != nil || !ok {
		return 0, ok, err
	}
	return v.(float64), true, nil
}

func (r *fakeReader) Decimal(col int) (decimal.Decimal, bool, error) {
	v, ok, err := r.cell(col, typesys.Decimal)
	if err != nil || !ok {
		return decimal.Decimal{}, ok, err
	}
	return v.(decimal.Decimal), true, nil
}

func (r *fakeReader) String(col int) (string, bool, error) {
	v, ok, err := r.cell(col, typesys.String)
	if err != nil || !ok {
		return "", ok, err
	}
	return v.(string), true, nil
}

func (r *fakeReader) Bytes(col int) ([]byte, bool, error) {
	v, ok, err := r.cell(col, typesys.Bytes)
	if err != nil || !ok {
		return nil, ok, err
	}
	return v.([]byte), true, nil
}

func (r *fakeReader) Time(col int) (time.Time, bool, error) {
	v, ok, err := r.cell(col, typesys.Time)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	return v.(time.Time), true, nil
}

func (r *fakeReader) Close() error { return nil }

func lookupTable(t *testing.T, src, dst string) transports.Table {
	t.Helper()
	table, err := transports.Lookup(src, dst)
	if err != nil {
		t.Fatalf("lookup %s->%s: %v", src, dst, err)
	}
	return table
}

func TestRoundTripTwoPartitions(t *testing.T) {
	schema := typesys.Schema{
		{Name: "a", Type: sqlite.Bool, Nullable: true},
		{Name: "b", Type: sqlite.Bool, Nullable: true},
	}
	src := &fakeSource{
		schema: schema,
		partitions: [][][]any{
			{{true, true}, {false, false}},
			{{true, false}},
		},
	}
	dst := memdest.New()
	d := transfer.New(src, dst, lookupTable(t, "sqlite", "memory"), []string{"q0", "q1"})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := d.State(); got != transfer.Succeeded {
		t.Fatalf("state: want succeeded, got %s", got)
	}

	wantA := []bool{true, false, true}
	wantB := []bool{true, false, false}
	a, _, err := dst.Bools(0)
	if err != nil {
		t.Fatalf("bools(0): %v", err)
	}
	b, _, err := dst.Bools(1)
	if err != nil {
		t.Fatalf("bools(1): %v", err)
	}
	if diff := cmp.Diff(wantA, a); diff != "" {
		t.Errorf("column a (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantB, b); diff != "" {
		t.Errorf("column b (-want +got):\n%s", diff)
	}
}

func TestEmptyTransfer(t *testing.T) {
	schema := typesys.Schema{{Name: "a", Type: sqlite.Integer, Nullable: true}}
	src := &fakeSource{schema: schema, partitions: [][][]any{{}, {}}}
	dst := memdest.New()
	d := transfer.New(src, dst, lookupTable(t, "sqlite", "memory"), []string{"q0", "q1"})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if dst.NRows() != 0 {
		t.Errorf("want 0 rows, got %d", dst.NRows())
	}
	if got := dst.Schema().NCols(); got != 1 {
		t.Errorf("want 1 column, got %d", got)
	}
	// The destination is finalized: columns are readable.
	if _, _, err := dst.Int64s(0); err != nil {
		t.Errorf("read after empty transfer: %v", err)
	}
}

func TestDateWidening(t *testing.T) {
	schema := typesys.Schema{{Name: "d", Type: mysql.Date, Nullable: true}}
	leap := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{schema: schema, partitions: [][][]any{{{leap}}}}
	dst := arrowdest.New()
	d := transfer.New(src, dst, lookupTable(t, "mysql", "arrow"), []string{"q0"})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	records, err := dst.Records()
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	col := records[0].Column(0).(*array.Timestamp)
	if got := col.Value(0).ToTime(arrow.Microsecond); !got.Equal(leap) {
		t.Errorf("want %v, got %v", leap, got)
	}
}

func TestDecimalOverflow(t *testing.T) {
	schema := typesys.Schema{{Name: "d", Type: mysql.Decimal, Nullable: true}}
	src := &fakeSource{schema: schema, partitions: [][][]any{{{decimal.New(1, 400)}}}}
	dst := arrowdest.New()
	d := transfer.New(src, dst, lookupTable(t, "mysql", "arrow"), []string{"q0"})

	err := d.Run(context.Background())
	var overflow *util.ConversionOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("want ConversionOverflowError, got %v", err)
	}
	if overflow.Partition != 0 || overflow.Row != 0 || overflow.Col != 0 {
		t.Errorf("want partition 0 row 0 col 0, got %+v", overflow)
	}
	if got := d.State(); got != transfer.Failed {
		t.Errorf("state: want failed, got %s", got)
	}
	// Failure atomicity: the destination never finalizes.
	if _, err := dst.Records(); !errors.Is(err, util.ErrNotFinalized) {
		t.Errorf("want ErrNotFinalized, got %v", err)
	}
}

// errReader fails on the first row.
type errReader struct {
	*fakeReader
	err error
}

func (r *errReader) Next(ctx context.Context) (bool, error) { return false, r.err }

func TestWorkerErrorFailsTransfer(t *testing.T) {
	schema := typesys.Schema{{Name: "a", Type: sqlite.Integer, Nullable: true}}
	boom := util.NewQueryError("connection reset", nil)
	src := &fakeSource{
		schema:     schema,
		partitions: [][][]any{{{int64(1)}}, {{int64(2)}}},
		newReader: func(p int, base *fakeReader) sources.PartitionReader {
			if p == 1 {
				return &errReader{fakeReader: base, err: boom}
			}
			return base
		},
	}
	dst := memdest.New()
	d := transfer.New(src, dst, lookupTable(t, "sqlite", "memory"), []string{"q0", "q1"})

	err := d.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("want the worker error, got %v", err)
	}
	if _, _, err := dst.Int64s(0); !errors.Is(err, util.ErrNotFinalized) {
		t.Errorf("want ErrNotFinalized, got %v", err)
	}
}

// panicReader panics when a cell is produced.
type panicReader struct{ *fakeReader }

func (r *panicReader) Int64(col int) (int64, bool, error) { panic("corrupted stream") }

func TestWorkerPanicIsCaptured(t *testing.T) {
	schema := typesys.Schema{{Name: "a", Type: sqlite.Integer, Nullable: true}}
	src := &fakeSource{
		schema:     schema,
		partitions: [][][]any{{{int64(1)}}},
		newReader: func(p int, base *fakeReader) sources.PartitionReader {
			return &panicReader{fakeReader: base}
		},
	}
	dst := memdest.New()
	d := transfer.New(src, dst, lookupTable(t, "sqlite", "memory"), []string{"q0"})

	err := d.Run(context.Background())
	var wp *util.WorkerPanicError
	if !errors.As(err, &wp) {
		t.Fatalf("want WorkerPanicError, got %v", err)
	}
	if wp.Partition != 0 {
		t.Errorf("want partition 0, got %d", wp.Partition)
	}
}

func TestCancellation(t *testing.T) {
	schema := typesys.Schema{{Name: "a", Type: sqlite.Integer, Nullable: true}}
	src := &fakeSource{schema: schema, partitions: [][][]any{{{int64(1)}, {int64(2)}}}}
	dst := memdest.New()
	d := transfer.New(src, dst, lookupTable(t, "sqlite", "memory"), []string{"q0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Run(ctx)
	var cancelled *util.CancelledError
	if !errors.As(err, &cancelled) {
		t.Fatalf("want CancelledError, got %v", err)
	}
}

func TestUnderDelivery(t *testing.T) {
	// The source promises two rows but delivers one.
	schema := typesys.Schema{{Name: "a", Type: sqlite.Integer, Nullable: true}}
	src := &fakeSource{
		schema:     schema,
		partitions: [][][]any{{{int64(1)}, {int64(2)}}},
		newReader: func(p int, base *fakeReader) sources.PartitionReader {
			base.rows = base.rows[:1]
			return base
		},
	}
	dst := memdest.New()
	d := transfer.New(src, dst, lookupTable(t, "sqlite", "memory"), []string{"q0"})
	if err := d.Run(context.Background()); err == nil {
		t.Fatal("want error for under-delivering source")
	}
}

func TestOrderMismatch(t *testing.T) {
	schema := typesys.Schema{{Name: "a", Type: sqlite.Integer, Nullable: true}}
	src := &fakeSource{
		schema:     schema,
		partitions: [][][]any{{{int64(1)}}},
		orders:     []typesys.DataOrder{typesys.ColumnMajor},
	}
	dst := arrowdest.New()
	d := transfer.New(src, dst, lookupTable(t, "sqlite", "arrow"), []string{"q0"})

	err := d.Run(context.Background())
	var unsupported *util.UnsupportedDataOrderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("want UnsupportedDataOrderError, got %v", err)
	}
}

func TestRunIsSingleUse(t *testing.T) {
	schema := typesys.Schema{{Name: "a", Type: sqlite.Integer, Nullable: true}}
	src := &fakeSource{schema: schema, partitions: [][][]any{{}}}
	dst := memdest.New()
	d := transfer.New(src, dst, lookupTable(t, "sqlite", "memory"), []string{"q0"})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := d.Run(context.Background()); err == nil {
		t.Fatal("second run: want error")
	}
}
