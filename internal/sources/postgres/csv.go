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
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// csvReader serves the csv protocol: COPY TO STDOUT in CSV format, parsed
// off a pipe while the copy streams. Empty fields are read back as NULL;
// the CSV layer cannot tell an empty string from a NULL once quoting is
// stripped.
type csvReader struct {
	schema typesys.Schema
	nrows  int
	conn   *pgxpool.Conn
	pr     *io.PipeReader
	csv    *csv.Reader
	record []string
}

func newCSVReader(ctx context.Context, schema typesys.Schema, nrows int, conn *pgxpool.Conn, query string) (*csvReader, error) {
	pr, pw := io.Pipe()
	go func() {
		_, err := conn.Conn().PgConn().CopyTo(ctx, pw, fmt.Sprintf("COPY (%s) TO STDOUT (FORMAT CSV)", query))
		pw.CloseWithError(err)
	}()

	c := csv.NewReader(pr)
	c.FieldsPerRecord = schema.NCols()
	c.ReuseRecord = true
	return &csvReader{schema: schema, nrows: nrows, conn: conn, pr: pr, csv: c}, nil
}

func (r *csvReader) NRows() int { return r.nrows }

func (r *csvReader) Next(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rec, err := r.csv.Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, util.NewQueryError("copy stream failed", err)
	}
	r.record = rec
	return true, nil
}

func (r *csvReader) field(col int, kind typesys.PhysicalKind) (string, bool, error) {
	if err := typesys.Check(r.schema[col].Type, kind); err != nil {
		return "", false, err
	}
	s := r.record[col]
	if s == "" {
		return "", false, nil
	}
	return s, true, nil
}

func (r *csvReader) Bool(col int) (bool, bool, error) {
	s, ok, err := r.field(col, typesys.Bool)
	if err != nil || !ok {
		return false, ok, err
	}
	switch s {
	case "t", "true":
		return true, true, nil
	case "f", "false":
		return false, true, nil
	default:
		return false, false, util.NewQueryError(fmt.Sprintf("invalid bool %q", s), nil)
	}
}

func (r *csvReader) Int64(col int) (int64, bool, error) {
	s, ok, err := r.field(col, typesys.Int64)
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, util.NewQueryError(fmt.Sprintf("invalid integer %q", s), err)
	}
	return v, true, nil
}

func (r *csvReader) Float64(col int) (float64, bool, error) {
	s, ok, err := r.field(col, typesys.Float64)
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, util.NewQueryError(fmt.Sprintf("invalid float %q", s), err)
	}
	return v, true, nil
}

func (r *csvReader) Decimal(col int) (decimal.Decimal, bool, error) {
	s, ok, err := r.field(col, typesys.Decimal)
	if err != nil || !ok {
		return decimal.Decimal{}, ok, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, util.NewQueryError(fmt.Sprintf("invalid decimal %q", s), err)
	}
	return d, true, nil
}

func (r *csvReader) String(col int) (string, bool, error) {
	s, ok, err := r.field(col, typesys.String)
	if err != nil || !ok {
		return "", ok, err
	}
	// The field aliases the csv reader's record buffer.
	return strings.Clone(s), true, nil
}

func (r *csvReader) Bytes(col int) ([]byte, bool, error) {
	s, ok, err := r.field(col, typesys.Bytes)
	if err != nil || !ok {
		return nil, ok, err
	}
	if !strings.HasPrefix(s, `\x`) {
		return nil, false, util.NewQueryError(fmt.Sprintf("invalid bytea %q", s), nil)
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, false, util.NewQueryError(fmt.Sprintf("invalid bytea %q", s), err)
	}
	return b, true, nil
}

var csvTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (r *csvReader) Time(col int) (time.Time, bool, error) {
	s, ok, err := r.field(col, typesys.Time)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	for _, layout := range csvTimeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v, true, nil
		}
	}
	return time.Time{}, false, util.NewQueryError(fmt.Sprintf("invalid timestamp %q", s), nil)
}

func (r *csvReader) Close() error {
	r.pr.CloseWithError(io.ErrClosedPipe)
	r.conn.Release()
	return nil
}
