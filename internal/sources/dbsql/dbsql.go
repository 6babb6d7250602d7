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

// Package dbsql is the shared database/sql backbone for sources whose
// driver speaks the standard interface. A backend plugs in a Dialect that
// maps driver column metadata to its logical type system and shapes the
// auxiliary probe queries.
package dbsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// Dialect adapts probing and type mapping to one backend.
type Dialect interface {
	// Kind reports the source kind the dialect serves.
	Kind() string
	// Limit1 wraps a query so it returns at most one row.
	Limit1(query string) string
	// CountWrap wraps a query into an exact row count query. An empty
	// return means the backend cannot count cheaply and metadata fetch
	// fails with an unknown row count.
	CountWrap(query string) string
	// Column maps one driver column descriptor to a schema column.
	Column(ct *sql.ColumnType) (typesys.Column, error)
}

// Source is a database/sql-backed source. One *sql.DB is shared for
// probing; each partition reader runs on its own dedicated connection.
type Source struct {
	dialect Dialect
	db      *sql.DB
	cfg     sources.Config

	schema typesys.Schema
	counts []int
	probed bool
}

var _ sources.Source = &Source{}

// Open opens the driver and verifies connectivity.
func Open(ctx context.Context, dialect Dialect, driverName, dsn string, cfg sources.Config) (*Source, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, util.NewConnectionError(fmt.Sprintf("unable to open %s connection", dialect.Kind()), err)
	}
	if err := sources.Ping(ctx, db.PingContext); err != nil {
		db.Close()
		return nil, util.NewConnectionError(fmt.Sprintf("unable to connect to %s successfully", dialect.Kind()), err)
	}
	return NewWithDB(dialect, db, cfg), nil
}

// NewWithDB wraps an already-open handle. Used by tests and by backends
// that configure the pool themselves.
func NewWithDB(dialect Dialect, db *sql.DB, cfg sources.Config) *Source {
	return &Source{dialect: dialect, db: db, cfg: cfg}
}

func (s *Source) Kind() string { return s.dialect.Kind() }

func (s *Source) DataOrders() []typesys.DataOrder {
	return []typesys.DataOrder{typesys.RowMajor}
}

// FetchMetadata probes the schema with a LIMIT-1 query on the origin query
// and counts each partition with a COUNT(*) wrap.
func (s *Source) FetchMetadata(ctx context.Context) (typesys.Schema, []int, error) {
	if s.probed {
		return s.schema, s.counts, nil
	}
	probe := s.cfg.ProbeQuery()
	if probe == "" {
		return nil, nil, util.NewConfigError("no queries to probe", nil)
	}
	schema, err := s.probeSchema(ctx, probe)
	if err != nil {
		return nil, nil, err
	}

	counts := make([]int, len(s.cfg.Queries))
	for i, q := range s.cfg.Queries {
		wrapped := s.dialect.CountWrap(q)
		if wrapped == "" {
			return nil, nil, &util.UnknownRowCountError{Query: q}
		}
		var n int
		if err := s.db.QueryRowContext(ctx, wrapped).Scan(&n); err != nil {
			return nil, nil, util.NewQueryError(fmt.Sprintf("unable to count rows for partition %d", i), err)
		}
		counts[i] = n
	}

	s.schema, s.counts, s.probed = schema, counts, true
	return schema, counts, nil
}

func (s *Source) probeSchema(ctx context.Context, query string) (typesys.Schema, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Limit1(query))
	if err != nil {
		return nil, &util.SchemaInferenceError{Query: query, Cause: err}
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, &util.SchemaInferenceError{Query: query, Cause: err}
	}
	schema := make(typesys.Schema, 0, len(colTypes))
	for _, ct := range colTypes {
		col, err := s.dialect.Column(ct)
		if err != nil {
			return nil, &util.SchemaInferenceError{Query: query, Cause: err}
		}
		schema = append(schema, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &util.SchemaInferenceError{Query: query, Cause: err}
	}
	return schema, nil
}

// Partitions opens one dedicated connection and cursor per partition query.
func (s *Source) Partitions(ctx context.Context) ([]sources.PartitionReader, error) {
	if !s.probed {
		if _, _, err := s.FetchMetadata(ctx); err != nil {
			return nil, err
		}
	}
	readers := make([]sources.PartitionReader, 0, len(s.cfg.Queries))
	for i, q := range s.cfg.Queries {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			closeReaders(readers)
			return nil, util.NewConnectionError(fmt.Sprintf("unable to acquire connection for partition %d", i), err)
		}
		rows, err := conn.QueryContext(ctx, q)
		if err != nil {
			conn.Close()
			closeReaders(readers)
			return nil, util.NewQueryError(fmt.Sprintf("unable to start partition %d", i), err)
		}
		readers = append(readers, newReader(s.schema, s.counts[i], conn, rows))
	}
	return readers, nil
}

func (s *Source) Close() error { return s.db.Close() }

func closeReaders(readers []sources.PartitionReader) {
	for _, r := range readers {
		r.Close()
	}
}
