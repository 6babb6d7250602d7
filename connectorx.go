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

// Package connectorx loads relational query results into columnar
// destinations in parallel: one worker per partition query, per-cell type
// conversion through a transport table resolved once per transfer.
package connectorx

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"go.opentelemetry.io/otel"

	"github.com/alswang18/connector-x/internal/destinations"
	"github.com/alswang18/connector-x/internal/destinations/arrowdest"
	"github.com/alswang18/connector-x/internal/destinations/memdest"
	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/transfer"
	"github.com/alswang18/connector-x/internal/transports"
)

const tracerName = "github.com/alswang18/connector-x"

// Options parameterize one transfer.
type Options struct {
	// URI is the source connection URI; its scheme selects the backend.
	URI string
	// OriginQuery is the query the partition queries were derived from.
	// Optional; used for schema probing.
	OriginQuery string
	// PartitionQueries are run in parallel, one partition each. Each must
	// select the same columns as the origin query, and together they must
	// cover its rows exactly once.
	PartitionQueries []string
	// Protocol selects a backend wire protocol variant, when the backend
	// offers more than one. Empty means the backend default.
	Protocol string
}

// Transfer runs the partition queries and returns the result as Arrow
// record batches, one per partition, in partition order.
func Transfer(ctx context.Context, opts Options) ([]arrow.Record, error) {
	dest := arrowdest.New()
	if err := run(ctx, opts, dest); err != nil {
		return nil, err
	}
	return dest.Records()
}

// TransferMemory runs the partition queries into the in-memory column
// destination, for callers who want plain Go slices instead of Arrow
// buffers.
func TransferMemory(ctx context.Context, opts Options) (*memdest.Destination, error) {
	dest := memdest.New()
	if err := run(ctx, opts, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

func run(ctx context.Context, opts Options, dest destinations.Destination) error {
	tracer := otel.Tracer(tracerName)
	src, err := sources.FromURI(ctx, tracer, sources.Config{
		URI:      opts.URI,
		Protocol: opts.Protocol,
		Origin:   opts.OriginQuery,
		Queries:  opts.PartitionQueries,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	table, err := transports.Lookup(src.Kind(), dest.Kind())
	if err != nil {
		return err
	}
	d := transfer.New(src, dest, table, opts.PartitionQueries, transfer.WithTracer(tracer))
	return d.Run(ctx)
}
