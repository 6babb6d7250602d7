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

// Package transports maps one source type system onto one destination type
// system. A table declares, per source logical type, the destination
// logical type and the conversion; planning a table against a concrete
// schema resolves every column to a cell pipe exactly once per transfer, so
// workers never branch on type per cell.
package transports

import (
	"fmt"

	"github.com/alswang18/connector-x/internal/destinations"
	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// Class is the declared relationship between the source and destination
// physical types of one entry.
type Class uint8

const (
	// All is an identity move: both sides share the physical kind.
	All Class = iota
	// Half is a lossless, non-identity conversion with its own function.
	Half
	// None reuses another entry's conversion.
	None
)

func (c Class) String() string {
	switch c {
	case All:
		return "all"
	case Half:
		return "half"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// Pipe moves one cell from a reader to a writer, converting on the way.
type Pipe func(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error

// Entry is one row of a transport table.
type Entry struct {
	Dst     typesys.Logical
	Class   Class
	AliasOf typesys.Logical // None entries only
	Pipe    Pipe            // Half entries only; All derives identity
}

// Table is a complete transport: source kind, destination kind, and the
// routing entries.
type Table struct {
	Name    string
	Entries map[typesys.Logical]Entry
}

// Validate checks the table's internal consistency. Violations are
// programming errors in the table declaration.
func (t Table) Validate() error {
	for src, e := range t.Entries {
		switch e.Class {
		case All:
			if src.Physical() != e.Dst.Physical() {
				return fmt.Errorf("%s: %s => %s declared all but physical kinds differ (%s vs %s)",
					t.Name, src, e.Dst, src.Physical(), e.Dst.Physical())
			}
		case Half:
			if e.Pipe == nil {
				return fmt.Errorf("%s: %s => %s declared half without a conversion", t.Name, src, e.Dst)
			}
		case None:
			target, ok := t.Entries[e.AliasOf]
			if !ok {
				return fmt.Errorf("%s: %s aliases unknown entry %s", t.Name, src, e.AliasOf)
			}
			if target.Class == None {
				return fmt.Errorf("%s: %s aliases %s which is itself an alias", t.Name, src, e.AliasOf)
			}
			if src.Physical() != e.AliasOf.Physical() {
				return fmt.Errorf("%s: %s aliases %s but physical kinds differ", t.Name, src, e.AliasOf)
			}
		}
	}
	return nil
}

// Plan is a table resolved against one schema.
type Plan struct {
	Pipes     []Pipe
	DstSchema typesys.Schema
}

// Plan resolves every schema column through the table. A column whose
// logical type has no entry fails with UnsupportedType; nothing is resolved
// per cell afterwards.
func (t Table) Plan(schema typesys.Schema) (*Plan, error) {
	pipes := make([]Pipe, schema.NCols())
	dst := make(typesys.Schema, schema.NCols())
	for i := range schema {
		src := schema[i].Type
		entry, ok := t.Entries[src]
		if !ok {
			return nil, &util.UnsupportedTypeError{Column: i, Logical: src.String()}
		}
		if entry.Class == None {
			target, ok := t.Entries[entry.AliasOf]
			if !ok || target.Class == None {
				return nil, fmt.Errorf("transport %s: broken alias for %s", t.Name, src)
			}
			entry = Entry{Dst: entry.Dst, Class: target.Class, Pipe: target.Pipe}
		}
		pipe := entry.Pipe
		if entry.Class == All {
			pipe = identityPipe(src.Physical())
		}
		pipes[i] = pipe
		dst[i] = typesys.Column{Name: schema[i].Name, Type: entry.Dst, Nullable: schema[i].Nullable}
	}
	return &Plan{Pipes: pipes, DstSchema: dst}, nil
}

var registry = make(map[string]Table)

func key(srcKind, dstKind string) string { return srcKind + "->" + dstKind }

// Register installs a transport table for a (source kind, destination
// kind) pair. Called from init(); a broken table is a programming error.
func Register(srcKind, dstKind string, t Table) {
	k := key(srcKind, dstKind)
	if _, exists := registry[k]; exists {
		panic(fmt.Sprintf("transport %q already registered", k))
	}
	if err := t.Validate(); err != nil {
		panic(err)
	}
	registry[k] = t
}

// Lookup selects the transport for a transfer. This happens once per
// transfer, never per cell. Protocol variants of one backend share the
// backend's table.
func Lookup(srcKind, dstKind string) (Table, error) {
	t, ok := registry[key(srcKind, dstKind)]
	if !ok {
		return Table{}, util.NewConfigError(fmt.Sprintf("no transport from %s to %s", srcKind, dstKind), nil)
	}
	return t, nil
}
