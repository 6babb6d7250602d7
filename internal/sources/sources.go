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

// Package sources defines the source side of a transfer: a backend that can
// probe the result schema of a set of partition queries and stream their
// rows through independent partition readers.
package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// Config carries everything a source factory needs to open a backend.
type Config struct {
	// Name identifies the source in logs and spans. Defaults to the kind.
	Name string
	// URI is the connection URI, scheme included.
	URI string
	// Protocol selects a wire protocol variant where the backend offers
	// more than one. Empty means the backend default.
	Protocol string
	// Origin is the query the partition queries were derived from. Used
	// for schema probing; falls back to the first partition query.
	Origin string
	// Queries are the partition queries, one per partition reader.
	Queries []string
}

// NPartitions is the number of partition readers the source will produce.
func (c Config) NPartitions() int { return len(c.Queries) }

// ProbeQuery is the query used for schema inference.
func (c Config) ProbeQuery() string {
	if c.Origin != "" {
		return c.Origin
	}
	if len(c.Queries) > 0 {
		return c.Queries[0]
	}
	return ""
}

// Source is a connected backend, ready to be partitioned.
type Source interface {
	// Kind reports the registered source kind.
	Kind() string
	// DataOrders lists the cell orders this source can produce, preferred
	// first.
	DataOrders() []typesys.DataOrder
	// FetchMetadata probes the backend for the result schema and the exact
	// per-partition row counts. It may issue auxiliary queries.
	FetchMetadata(ctx context.Context) (typesys.Schema, []int, error)
	// Partitions returns one independent reader per partition query.
	// Consuming one reader never blocks another.
	Partitions(ctx context.Context) ([]PartitionReader, error)
	// Close releases the backend connection.
	Close() error
}

// PartitionReader streams the cells of one partition. Cells are produced in
// row-major order: Next advances to the next row, then the per-kind
// accessors read the row's cells in schema column order. Each accessor
// returns the value, a validity flag (false means SQL NULL), and an error
// when the cell's physical kind does not match the accessor or the read
// fails.
type PartitionReader interface {
	NRows() int
	Next(ctx context.Context) (bool, error)
	Bool(col int) (bool, bool, error)
	Int64(col int) (int64, bool, error)
	Float64(col int) (float64, bool, error)
	Decimal(col int) (decimal.Decimal, bool, error)
	String(col int) (string, bool, error)
	Bytes(col int) ([]byte, bool, error)
	Time(col int) (time.Time, bool, error)
	Close() error
}

// SourceFactory opens a Source for a parsed Config.
type SourceFactory func(ctx context.Context, tracer trace.Tracer, cfg Config) (Source, error)

var registry = make(map[string]SourceFactory)

var schemeKinds = make(map[string]string)

// Register associates a source kind and its URI schemes with a factory.
// Called from init() in each source package. Returns false if the kind was
// already registered.
func Register(kind string, factory SourceFactory, schemes ...string) bool {
	if _, exists := registry[kind]; exists {
		return false
	}
	registry[kind] = factory
	for _, s := range schemes {
		schemeKinds[s] = kind
	}
	return true
}

// FromURI routes a connection URI to the registered source kind and opens
// it.
func FromURI(ctx context.Context, tracer trace.Tracer, cfg Config) (Source, error) {
	u, err := url.Parse(cfg.URI)
	if err != nil {
		return nil, util.NewConfigError(fmt.Sprintf("invalid connection URI %q", cfg.URI), err)
	}
	kind, ok := schemeKinds[u.Scheme]
	if !ok {
		return nil, util.NewConfigError(fmt.Sprintf("no source registered for URI scheme %q", u.Scheme), nil)
	}
	factory := registry[kind]
	if cfg.Name == "" {
		cfg.Name = kind
	}
	return factory(ctx, tracer, cfg)
}

// InitConnectionSpan adds a span for database connection.
func InitConnectionSpan(ctx context.Context, tracer trace.Tracer, sourceKind, sourceName string) (context.Context, trace.Span) {
	return tracer.Start(
		ctx,
		"connector-x/source/connect",
		trace.WithAttributes(attribute.String("source_kind", sourceKind)),
		trace.WithAttributes(attribute.String("source_name", sourceName)),
	)
}

// Ping verifies connectivity with exponential backoff. Backends with cold
// serverless tiers routinely refuse the first attempt.
func Ping(ctx context.Context, ping func(context.Context) error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, ping(ctx)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(4))
	return err
}
