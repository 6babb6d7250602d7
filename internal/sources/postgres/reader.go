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

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// holderReader is the scan-holder core shared by the binary, simple and
// cursor protocol readers.
type holderReader struct {
	schema typesys.Schema
	nrows  int
	dest   []any
}

func newHolderReader(schema typesys.Schema, nrows int) holderReader {
	dest := make([]any, schema.NCols())
	for i := range schema {
		switch schema[i].Type.(Type) {
		case Bool:
			dest[i] = new(pgtype.Bool)
		case Int2, Int4, Int8:
			dest[i] = new(pgtype.Int8)
		case Float4, Float8:
			dest[i] = new(pgtype.Float8)
		case Numeric:
			dest[i] = new(pgtype.Numeric)
		case Text, VarChar, BpChar:
			dest[i] = new(pgtype.Text)
		case Time:
			dest[i] = new(pgtype.Time)
		case Bytea:
			dest[i] = new([]byte)
		case Date:
			dest[i] = new(pgtype.Date)
		case Timestamp:
			dest[i] = new(pgtype.Timestamp)
		case TimestampTz:
			dest[i] = new(pgtype.Timestamptz)
		}
	}
	return holderReader{schema: schema, nrows: nrows, dest: dest}
}

func (r *holderReader) NRows() int { return r.nrows }

func (r *holderReader) check(col int, kind typesys.PhysicalKind) error {
	return typesys.Check(r.schema[col].Type, kind)
}

func (r *holderReader) Bool(col int) (bool, bool, error) {
	if err := r.check(col, typesys.Bool); err != nil {
		return false, false, err
	}
	h := r.dest[col].(*pgtype.Bool)
	return h.Bool, h.Valid, nil
}

func (r *holderReader) Int64(col int) (int64, bool, error) {
	if err := r.check(col, typesys.Int64); err != nil {
		return 0, false, err
	}
	h := r.dest[col].(*pgtype.Int8)
	return h.Int64, h.Valid, nil
}

func (r *holderReader) Float64(col int) (float64, bool, error) {
	if err := r.check(col, typesys.Float64); err != nil {
		return 0, false, err
	}
	h := r.dest[col].(*pgtype.Float8)
	return h.Float64, h.Valid, nil
}

func (r *holderReader) Decimal(col int) (decimal.Decimal, bool, error) {
	if err := r.check(col, typesys.Decimal); err != nil {
		return decimal.Decimal{}, false, err
	}
	h := r.dest[col].(*pgtype.Numeric)
	if !h.Valid {
		return decimal.Decimal{}, false, nil
	}
	if h.NaN || h.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, false, util.NewQueryError("non-finite numeric value", nil)
	}
	return decimal.NewFromBigInt(h.Int, h.Exp), true, nil
}

func (r *holderReader) String(col int) (string, bool, error) {
	if err := r.check(col, typesys.String); err != nil {
		return "", false, err
	}
	if h, ok := r.dest[col].(*pgtype.Time); ok {
		if !h.Valid {
			return "", false, nil
		}
		return formatTimeOfDay(h.Microseconds), true, nil
	}
	h := r.dest[col].(*pgtype.Text)
	return h.String, h.Valid, nil
}

func (r *holderReader) Bytes(col int) ([]byte, bool, error) {
	if err := r.check(col, typesys.Bytes); err != nil {
		return nil, false, err
	}
	h := r.dest[col].(*[]byte)
	if *h == nil {
		return nil, false, nil
	}
	return *h, true, nil
}

func (r *holderReader) Time(col int) (time.Time, bool, error) {
	if err := r.check(col, typesys.Time); err != nil {
		return time.Time{}, false, err
	}
	switch h := r.dest[col].(type) {
	case *pgtype.Date:
		return h.Time, h.Valid, nil
	case *pgtype.Timestamp:
		return h.Time, h.Valid, nil
	case *pgtype.Timestamptz:
		return h.Time, h.Valid, nil
	default:
		return time.Time{}, false, fmt.Errorf("column %d holds no temporal value", col)
	}
}

// formatTimeOfDay renders microseconds since midnight as
// HH:MM:SS[.ffffff].
func formatTimeOfDay(micros int64) string {
	const usPerSecond = 1_000_000
	secs, us := micros/usPerSecond, micros%usPerSecond
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if us == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, s, us)
}

// rowsReader serves the binary and simple protocols: one streaming result
// set on a dedicated connection.
type rowsReader struct {
	holderReader
	conn *pgxpool.Conn
	rows pgx.Rows
}

func newRowsReader(ctx context.Context, schema typesys.Schema, nrows int, conn *pgxpool.Conn, query, protocol string) (*rowsReader, error) {
	var rows pgx.Rows
	var err error
	if protocol == ProtocolSimple {
		rows, err = conn.Query(ctx, query, pgx.QueryExecModeSimpleProtocol)
	} else {
		rows, err = conn.Query(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	return &rowsReader{holderReader: newHolderReader(schema, nrows), conn: conn, rows: rows}, nil
}

func (r *rowsReader) Next(ctx context.Context) (bool, error) {
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

func (r *rowsReader) Close() error {
	r.rows.Close()
	r.conn.Release()
	return nil
}

// cursorReader serves the cursor protocol: a server-side cursor drained in
// fixed-size FETCH batches inside one transaction.
type cursorReader struct {
	holderReader
	conn      *pgxpool.Conn
	tx        pgx.Tx
	name      string
	rows      pgx.Rows
	exhausted bool
}

func newCursorReader(ctx context.Context, schema typesys.Schema, nrows int, conn *pgxpool.Conn, query string, partition int) (*cursorReader, error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("cx_part_%d", partition)
	if _, err := tx.Exec(ctx, fmt.Sprintf("DECLARE %s NO SCROLL CURSOR FOR %s", name, query)); err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	return &cursorReader{holderReader: newHolderReader(schema, nrows), conn: conn, tx: tx, name: name}, nil
}

func (r *cursorReader) Next(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.rows != nil {
		if r.rows.Next() {
			return r.scan()
		}
		if err := r.rows.Err(); err != nil {
			return false, util.NewQueryError("cursor batch failed", err)
		}
		r.rows = nil
	}
	if r.exhausted {
		return false, nil
	}
	rows, err := r.tx.Query(ctx, fmt.Sprintf("FETCH %d FROM %s", cursorFetchSize, r.name))
	if err != nil {
		return false, util.NewQueryError("cursor fetch failed", err)
	}
	r.rows = rows
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, util.NewQueryError("cursor batch failed", err)
		}
		r.rows = nil
		r.exhausted = true
		return false, nil
	}
	return r.scan()
}

func (r *cursorReader) scan() (bool, error) {
	if err := r.rows.Scan(r.dest...); err != nil {
		return false, util.NewQueryError("unable to scan row", err)
	}
	return true, nil
}

func (r *cursorReader) Close() error {
	if r.rows != nil {
		r.rows.Close()
	}
	err := r.tx.Rollback(context.Background())
	r.conn.Release()
	if err != nil && err != pgx.ErrTxClosed {
		return err
	}
	return nil
}
