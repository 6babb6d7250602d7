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

package dbsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// reader is a database/sql partition reader. Next scans the current row
// into per-column holders typed from the schema; the per-kind accessors
// read the holders back.
type reader struct {
	schema typesys.Schema
	nrows  int
	conn   *sql.Conn
	rows   *sql.Rows
	dest   []any
}

func newReader(schema typesys.Schema, nrows int, conn *sql.Conn, rows *sql.Rows) *reader {
	dest := make([]any, schema.NCols())
	for i := range schema {
		switch schema.Physical(i) {
		case typesys.Bool:
			dest[i] = new(sql.NullBool)
		case typesys.Int64:
			dest[i] = new(sql.NullInt64)
		case typesys.Float64:
			dest[i] = new(sql.NullFloat64)
		case typesys.Decimal, typesys.String:
			dest[i] = new(sql.NullString)
		case typesys.Bytes:
			dest[i] = new([]byte)
		case typesys.Time:
			dest[i] = new(sql.NullTime)
		}
	}
	return &reader{schema: schema, nrows: nrows, conn: conn, rows: rows, dest: dest}
}

func (r *reader) NRows() int { return r.nrows }

func (r *reader) Next(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return false, util.NewQueryError("row stream failed", err)
		}
		return false, nil
	}
	if err := r.rows.Scan(r.dest...); err != nil {
		return false, util.NewQueryError("unable to scan row", err)
	}
	return true, nil
}

func (r *reader) check(col int, kind typesys.PhysicalKind) error {
	return typesys.Check(r.schema[col].Type, kind)
}

func (r *reader) Bool(col int) (bool, bool, error) {
	if err := r.check(col, typesys.Bool); err != nil {
		return false, false, err
	}
	h := r.dest[col].(*sql.NullBool)
	return h.Bool, h.Valid, nil
}

func (r *reader) Int64(col int) (int64, bool, error) {
	if err := r.check(col, typesys.Int64); err != nil {
		return 0, false, err
	}
	h := r.dest[col].(*sql.NullInt64)
	return h.Int64, h.Valid, nil
}

func (r *reader) Float64(col int) (float64, bool, error) {
	if err := r.check(col, typesys.Float64); err != nil {
		return 0, false, err
	}
	h := r.dest[col].(*sql.NullFloat64)
	return h.Float64, h.Valid, nil
}

func (r *reader) Decimal(col int) (decimal.Decimal, bool, error) {
	if err := r.check(col, typesys.Decimal); err != nil {
		return decimal.Decimal{}, false, err
	}
	h := r.dest[col].(*sql.NullString)
	if !h.Valid {
		return decimal.Decimal{}, false, nil
	}
	d, err := decimal.NewFromString(h.String)
	if err != nil {
		return decimal.Decimal{}, false, util.NewQueryError(fmt.Sprintf("invalid decimal %q", h.String), err)
	}
	return d, true, nil
}

func (r *reader) String(col int) (string, bool, error) {
	if err := r.check(col, typesys.String); err != nil {
		return "", false, err
	}
	h := r.dest[col].(*sql.NullString)
	return h.String, h.Valid, nil
}

func (r *reader) Bytes(col int) ([]byte, bool, error) {
	if err := r.check(col, typesys.Bytes); err != nil {
		return nil, false, err
	}
	h := r.dest[col].(*[]byte)
	if *h == nil {
		return nil, false, nil
	}
	return *h, true, nil
}

func (r *reader) Time(col int) (time.Time, bool, error) {
	if err := r.check(col, typesys.Time); err != nil {
		return time.Time{}, false, err
	}
	h := r.dest[col].(*sql.NullTime)
	return h.Time, h.Valid, nil
}

func (r *reader) Close() error {
	err := r.rows.Close()
	if cerr := r.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
