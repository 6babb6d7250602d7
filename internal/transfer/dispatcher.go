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

// Package transfer orchestrates one end-to-end transfer: probe, allocate,
// partition, dispatch parallel workers, join, finalize.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/alswang18/connector-x/internal/destinations"
	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/transports"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// State is the dispatcher's position in its one-way state machine.
type State uint8

const (
	Idle State = iota
	Probed
	Allocated
	Partitioned
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Probed:
		return "probed"
	case Allocated:
		return "allocated"
	case Partitioned:
		return "partitioned"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Dispatcher runs one transfer. It is single-use: Run may be called once.
type Dispatcher struct {
	src     sources.Source
	dst     destinations.Destination
	table   transports.Table
	queries []string
	tracer  trace.Tracer
	state   State
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTracer attaches a tracer; the default is a no-op.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = tracer }
}

// New pairs a connected source with a fresh destination through a
// transport table.
func New(src sources.Source, dst destinations.Destination, table transports.Table, queries []string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		src:     src,
		dst:     dst,
		table:   table,
		queries: queries,
		tracer:  noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State reports the dispatcher's current state.
func (d *Dispatcher) State() State { return d.state }

// Run executes the transfer. On success the destination is finalized and
// its contents can be read back; on any failure the destination is left
// unfinalized and no partial result is surfaced.
func (d *Dispatcher) Run(ctx context.Context) (err error) {
	if d.state != Idle {
		return util.NewConfigError(fmt.Sprintf("dispatcher already ran (state %s)", d.state), nil)
	}
	defer func() {
		if err != nil {
			d.state = Failed
		}
	}()

	ctx, span := d.tracer.Start(ctx, "connector-x/transfer",
		trace.WithAttributes(
			attribute.String("source_kind", d.src.Kind()),
			attribute.String("destination_kind", d.dst.Kind()),
			attribute.Int("partitions", len(d.queries)),
		))
	defer span.End()

	logger := util.LoggerOrDiscard(ctx)

	// Probe.
	schema, counts, err := d.src.FetchMetadata(ctx)
	if err != nil {
		return err
	}
	plan, err := d.table.Plan(schema)
	if err != nil {
		return err
	}
	order, err := typesys.CommonOrder(d.src.DataOrders(), d.dst.DataOrders())
	if err != nil {
		return err
	}
	d.state = Probed

	total := 0
	for _, c := range counts {
		total += c
	}
	logger.DebugContext(ctx, "transfer probed",
		"columns", schema.NCols(), "rows", total, "partitions", len(counts), "order", order.String())

	// Allocate, exactly once.
	if err := d.dst.Allocate(total, plan.DstSchema, order); err != nil {
		return err
	}
	d.state = Allocated

	// Empty transfer: nothing to partition, no workers.
	if total == 0 {
		if err := d.dst.Finalize(); err != nil {
			return err
		}
		d.state = Succeeded
		return nil
	}

	// Partition both sides.
	if len(counts) != len(d.queries) {
		return util.NewConfigError(fmt.Sprintf("source reported %d partitions for %d queries", len(counts), len(d.queries)), nil)
	}
	readers, err := d.src.Partitions(ctx)
	if err != nil {
		return err
	}
	writers, err := d.dst.Partitions(counts)
	if err != nil {
		closeAllReaders(readers)
		return err
	}
	if len(readers) != len(writers) || len(readers) != len(d.queries) {
		closeAllReaders(readers)
		return util.NewConfigError(fmt.Sprintf("partition mismatch: %d readers, %d writers, %d queries", len(readers), len(writers), len(d.queries)), nil)
	}
	d.state = Partitioned

	// Dispatch one worker per partition. The errgroup cancels the shared
	// context on the first failure, so the remaining workers stop at
	// their next cell boundary.
	d.state = Running
	g, gctx := errgroup.WithContext(ctx)
	secondary := make([]error, len(readers))
	for k := range readers {
		g.Go(func() error {
			err := d.runWorker(gctx, k, readers[k], writers[k], plan.Pipes)
			secondary[k] = err
			return err
		})
	}
	first := g.Wait()
	if first != nil {
		for k, e := range secondary {
			if e != nil && !errors.Is(e, first) {
				logger.WarnContext(ctx, "secondary worker error", "partition", k, "error", e.Error())
			}
		}
		return first
	}

	// Finalize.
	if err := d.dst.Finalize(); err != nil {
		return err
	}
	d.state = Succeeded
	return nil
}

func (d *Dispatcher) runWorker(ctx context.Context, partition int, r sources.PartitionReader, w destinations.PartitionWriter, pipes []transports.Pipe) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &util.WorkerPanicError{Partition: partition, Payload: p}
		}
		r.Close()
		w.Close()
	}()

	ctx, span := d.tracer.Start(ctx, "connector-x/transfer/partition",
		trace.WithAttributes(attribute.Int("partition", partition)))
	defer span.End()

	nrows, ncols := w.NRows(), w.NCols()
	for row := 0; row < nrows; row++ {
		// Cancellation is cooperative and checked at cell boundaries.
		if cerr := ctx.Err(); cerr != nil {
			return &util.CancelledError{Partition: partition, Cause: cerr}
		}
		ok, nerr := r.Next(ctx)
		if nerr != nil {
			if ctx.Err() != nil {
				return &util.CancelledError{Partition: partition, Cause: ctx.Err()}
			}
			return annotate(nerr, partition)
		}
		if !ok {
			return util.NewQueryError(fmt.Sprintf("partition %d produced %d rows, expected %d", partition, row, nrows), nil)
		}
		for col := 0; col < ncols; col++ {
			if cerr := ctx.Err(); cerr != nil {
				return &util.CancelledError{Partition: partition, Cause: cerr}
			}
			if perr := pipes[col](r, w, row, col); perr != nil {
				return annotate(perr, partition)
			}
		}
	}
	// The reader must be drained exactly: one more row is an
	// under-partitioned query.
	if ok, nerr := r.Next(ctx); nerr == nil && ok {
		return util.NewQueryError(fmt.Sprintf("partition %d produced more than the expected %d rows", partition, nrows), nil)
	}
	return nil
}

// annotate stamps the partition index onto errors that carry one.
func annotate(err error, partition int) error {
	var overflow *util.ConversionOverflowError
	if errors.As(err, &overflow) && overflow.Partition < 0 {
		overflow.Partition = partition
	}
	return err
}

func closeAllReaders(readers []sources.PartitionReader) {
	for _, r := range readers {
		r.Close()
	}
}
