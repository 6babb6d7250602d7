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

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

const SourceKind string = "postgres"

// Wire protocol variants. TLS is not part of this axis: it rides the URI's
// sslmode parameter, so every protocol works with and without TLS.
const (
	ProtocolBinary = "binary"
	ProtocolSimple = "simple"
	ProtocolCursor = "cursor"
	ProtocolCSV    = "csv"
)

const cursorFetchSize = 2048

func init() {
	if !sources.Register(SourceKind, newSource, "postgres", "postgresql") {
		panic(fmt.Sprintf("source kind %q already registered", SourceKind))
	}
}

func newSource(ctx context.Context, tracer trace.Tracer, cfg sources.Config) (sources.Source, error) {
	//nolint:all // Reassigned ctx
	ctx, span := sources.InitConnectionSpan(ctx, tracer, SourceKind, cfg.Name)
	defer span.End()

	switch cfg.Protocol {
	case "", ProtocolBinary, ProtocolSimple, ProtocolCursor, ProtocolCSV:
	default:
		return nil, util.NewConfigError(fmt.Sprintf("unsupported postgres protocol %q, must be one of: binary, simple, cursor, csv", cfg.Protocol), nil)
	}

	pool, err := pgxpool.New(ctx, cfg.URI)
	if err != nil {
		return nil, util.NewConnectionError("unable to create postgres connection pool", err)
	}
	if err := sources.Ping(ctx, pool.Ping); err != nil {
		pool.Close()
		return nil, util.NewConnectionError("unable to connect to postgres successfully", err)
	}
	return &Source{cfg: cfg, pool: pool}, nil
}

// Source streams partition queries over dedicated pooled connections.
type Source struct {
	cfg  sources.Config
	pool *pgxpool.Pool

	schema typesys.Schema
	counts []int
	probed bool
}

var _ sources.Source = &Source{}

func (s *Source) Kind() string { return SourceKind }

func (s *Source) DataOrders() []typesys.DataOrder {
	return []typesys.DataOrder{typesys.RowMajor}
}

func (s *Source) FetchMetadata(ctx context.Context) (typesys.Schema, []int, error) {
	if s.probed {
		return s.schema, s.counts, nil
	}
	probe := s.cfg.ProbeQuery()
	if probe == "" {
		return nil, nil, util.NewConfigError("no queries to probe", nil)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT * FROM (%s) AS cx_probe LIMIT 1", probe))
	if err != nil {
		return nil, nil, &util.SchemaInferenceError{Query: probe, Cause: err}
	}
	fds := rows.FieldDescriptions()
	schema := make(typesys.Schema, 0, len(fds))
	for _, fd := range fds {
		t, err := typeFromOID(fd.DataTypeOID)
		if err != nil {
			rows.Close()
			return nil, nil, &util.SchemaInferenceError{Query: probe, Cause: err}
		}
		// Result-set columns carry no nullability in the row
		// description; assume nullable.
		schema = append(schema, typesys.Column{Name: fd.Name, Type: t, Nullable: true})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, &util.SchemaInferenceError{Query: probe, Cause: err}
	}

	counts := make([]int, len(s.cfg.Queries))
	for i, q := range s.cfg.Queries {
		var n int
		if err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS cx_count", q)).Scan(&n); err != nil {
			return nil, nil, util.NewQueryError(fmt.Sprintf("unable to count rows for partition %d", i), err)
		}
		counts[i] = n
	}

	s.schema, s.counts, s.probed = schema, counts, true
	return schema, counts, nil
}

func (s *Source) Partitions(ctx context.Context) ([]sources.PartitionReader, error) {
	if !s.probed {
		if _, _, err := s.FetchMetadata(ctx); err != nil {
			return nil, err
		}
	}
	readers := make([]sources.PartitionReader, 0, len(s.cfg.Queries))
	for i, q := range s.cfg.Queries {
		conn, err := s.pool.Acquire(ctx)
		if err != nil {
			closeReaders(readers)
			return nil, util.NewConnectionError(fmt.Sprintf("unable to acquire connection for partition %d", i), err)
		}
		var r sources.PartitionReader
		switch s.cfg.Protocol {
		case ProtocolCursor:
			r, err = newCursorReader(ctx, s.schema, s.counts[i], conn, q, i)
		case ProtocolCSV:
			r, err = newCSVReader(ctx, s.schema, s.counts[i], conn, q)
		default:
			r, err = newRowsReader(ctx, s.schema, s.counts[i], conn, q, s.cfg.Protocol)
		}
		if err != nil {
			conn.Release()
			closeReaders(readers)
			return nil, util.NewQueryError(fmt.Sprintf("unable to start partition %d", i), err)
		}
		readers = append(readers, r)
	}
	return readers, nil
}

func (s *Source) Close() error {
	s.pool.Close()
	return nil
}

func closeReaders(readers []sources.PartitionReader) {
	for _, r := range readers {
		r.Close()
	}
}
