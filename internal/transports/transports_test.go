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

package transports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/destinations"
	"github.com/alswang18/connector-x/internal/destinations/arrowdest"
	"github.com/alswang18/connector-x/internal/destinations/memdest"
	"github.com/alswang18/connector-x/internal/sources/mysql"
	"github.com/alswang18/connector-x/internal/sources/postgres"
	"github.com/alswang18/connector-x/internal/transports"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// sliceReader is an in-memory partition reader: rows of cells, nil for
// NULL.
type sliceReader struct {
	schema typesys.Schema
	rows   [][]any
	cur    int
}

func (r *sliceReader) NRows() int { return len(r.rows) }

func (r *sliceReader) Next(ctx context.Context) (bool, error) {
	if r.cur >= len(r.rows) {
		return false, nil
	}
	r.cur++
	return true, nil
}

func (r *sliceReader) cell(col int, kind typesys.PhysicalKind) (any, bool, error) {
	if err := typesys.Check(r.schema[col].Type, kind); err != nil {
		return nil, false, err
	}
	v := r.rows[r.cur-1][col]
	if v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

func (r *sliceReader) Bool(col int) (bool, bool, error) {
	v, ok, err := r.cell(col, typesys.Bool)
	if err != nil || !ok {
		return false, ok, err
	}
	return v.(bool), true, nil
}

func (r *sliceReader) Int64(col int) (int64, bool, error) {
	v, ok, err := r.cell(col, typesys.Int64)
	if err != nil || !ok {
		return 0, ok, err
	}
	return v.(int64), true, nil
}

func (r *sliceReader) Float64(col int) (float64, bool, error) {
	v, ok, err := r.cell(col, typesys.Float64)
	if err != nil || !ok {
		return 0, ok, err
	}
	return v.(float64), true, nil
}

func (r *sliceReader) Decimal(col int) (decimal.Decimal, bool, error) {
	v, ok, err := r.cell(col, typesys.Decimal)
	if err != nil || !ok {
		return decimal.Decimal{}, ok, err
	}
	return v.(decimal.Decimal), true, nil
}

func (r *sliceReader) String(col int) (string, bool, error) {
	v, ok, err := r.cell(col, typesys.String)
	if err != nil || !ok {
		return "", ok, err
	}
	return v.(string), true, nil
}

func (r *sliceReader) Bytes(col int) ([]byte, bool, error) {
	v, ok, err := r.cell(col, typesys.Bytes)
	if err != nil || !ok {
		return nil, ok, err
	}
	return v.([]byte), true, nil
}

func (r *sliceReader) Time(col int) (time.Time, bool, error) {
	v, ok, err := r.cell(col, typesys.Time)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	return v.(time.Time), true, nil
}

func (r *sliceReader) Close() error { return nil }

func memWriter(t *testing.T, schema typesys.Schema, nrows int) (*memdest.Destination, func() error, destinations.PartitionWriter) {
	t.Helper()
	d := memdest.New()
	if err := d.Allocate(nrows, schema, typesys.RowMajor); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	writers, err := d.Partitions([]int{nrows})
	if err != nil {
		t.Fatalf("partitions: %v", err)
	}
	return d, func() error {
		if err := writers[0].Close(); err != nil {
			return err
		}
		return d.Finalize()
	}, writers[0]
}

func TestPlanTotality(t *testing.T) {
	table, err := transports.Lookup(mysql.SourceKind, arrowdest.DestinationKind)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	// postgres.Bool is not in the mysql table.
	_, err = table.Plan(typesys.Schema{{Name: "x", Type: postgres.Bool}})
	var unsupported *util.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("want UnsupportedTypeError, got %v", err)
	}
	if unsupported.Column != 0 {
		t.Errorf("want column 0, got %d", unsupported.Column)
	}
}

func TestPlanResolvesAliases(t *testing.T) {
	table, err := transports.Lookup(mysql.SourceKind, memdest.DestinationKind)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	// Char routes through the VarChar entry (conversion class none).
	plan, err := table.Plan(typesys.Schema{{Name: "c", Type: mysql.Char, Nullable: true}})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := plan.DstSchema[0].Type; got != memdest.Str {
		t.Errorf("want Str destination type, got %s", got)
	}
	if plan.Pipes[0] == nil {
		t.Error("alias resolved to no pipe")
	}
}

func TestDateWidening(t *testing.T) {
	// A mysql DATE becomes midnight UTC in the destination.
	table, err := transports.Lookup(mysql.SourceKind, memdest.DestinationKind)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	schema := typesys.Schema{{Name: "d", Type: mysql.Date, Nullable: true}}
	plan, err := table.Plan(schema)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	leap := time.Date(2024, 2, 29, 0, 0, 0, 0, time.FixedZone("X", 3600))
	r := &sliceReader{schema: schema, rows: [][]any{{leap}}}
	d, finish, w := memWriter(t, plan.DstSchema, 1)

	if _, err := r.Next(context.Background()); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := plan.Pipes[0](r, w, 0, 0); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	times, valid, err := d.Times(0)
	if err != nil {
		t.Fatalf("times: %v", err)
	}
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !valid[0] || !times[0].Equal(want) {
		t.Errorf("want %v, got %v (valid=%v)", want, times[0], valid[0])
	}
}

func TestDecimalOverflow(t *testing.T) {
	table, err := transports.Lookup(mysql.SourceKind, arrowdest.DestinationKind)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	schema := typesys.Schema{{Name: "d", Type: mysql.Decimal, Nullable: true}}
	plan, err := table.Plan(schema)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	huge := decimal.New(1, 400) // 1e400, beyond float64
	r := &sliceReader{schema: schema, rows: [][]any{{huge}}}

	ad := arrowdest.New()
	if err := ad.Allocate(1, plan.DstSchema, typesys.RowMajor); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	writers, err := ad.Partitions([]int{1})
	if err != nil {
		t.Fatalf("partitions: %v", err)
	}

	if _, err := r.Next(context.Background()); err != nil {
		t.Fatalf("next: %v", err)
	}
	err = plan.Pipes[0](r, writers[0], 0, 0)
	var overflow *util.ConversionOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("want ConversionOverflowError, got %v", err)
	}
	if overflow.Row != 0 || overflow.Col != 0 {
		t.Errorf("want row 0 col 0, got row %d col %d", overflow.Row, overflow.Col)
	}
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	tcs := []struct {
		desc  string
		table transports.Table
	}{
		{
			desc: "all with differing physical kinds",
			table: transports.Table{
				Name: "broken-all",
				Entries: map[typesys.Logical]transports.Entry{
					mysql.Decimal: {Dst: arrowdest.F64, Class: transports.All},
				},
			},
		},
		{
			desc: "half without conversion",
			table: transports.Table{
				Name: "broken-half",
				Entries: map[typesys.Logical]transports.Entry{
					mysql.Decimal: {Dst: arrowdest.F64, Class: transports.Half},
				},
			},
		},
		{
			desc: "alias of unknown entry",
			table: transports.Table{
				Name: "broken-alias",
				Entries: map[typesys.Logical]transports.Entry{
					mysql.Char: {Dst: arrowdest.Str, Class: transports.None, AliasOf: mysql.VarChar},
				},
			},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.desc, func(t *testing.T) {
			if err := tc.table.Validate(); err == nil {
				t.Error("want validation error")
			}
		})
	}
}

func TestAllRegisteredTablesValidate(t *testing.T) {
	pairs := []struct{ src, dst string }{
		{"postgres", "arrow"}, {"postgres", "memory"},
		{"mysql", "arrow"}, {"mysql", "memory"},
		{"sqlite", "arrow"}, {"sqlite", "memory"}, {"sqlite", "boolmatrix"},
		{"mssql", "arrow"}, {"mssql", "memory"},
		{"oracle", "arrow"}, {"oracle", "memory"},
		{"clickhouse", "arrow"}, {"clickhouse", "memory"},
		{"trino", "arrow"}, {"trino", "memory"},
	}
	for _, p := range pairs {
		table, err := transports.Lookup(p.src, p.dst)
		if err != nil {
			t.Errorf("%s->%s: %v", p.src, p.dst, err)
			continue
		}
		if err := table.Validate(); err != nil {
			t.Errorf("%s->%s: %v", p.src, p.dst, err)
		}
	}
}
