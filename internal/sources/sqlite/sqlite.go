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

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/sources/dbsql"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

const SourceKind string = "sqlite"

func init() {
	if !sources.Register(SourceKind, newSource, "sqlite") {
		panic(fmt.Sprintf("source kind %q already registered", SourceKind))
	}
}

func newSource(ctx context.Context, tracer trace.Tracer, cfg sources.Config) (sources.Source, error) {
	//nolint:all // Reassigned ctx
	ctx, span := sources.InitConnectionSpan(ctx, tracer, SourceKind, cfg.Name)
	defer span.End()

	path, err := pathFromURI(cfg.URI)
	if err != nil {
		return nil, err
	}
	if cfg.Protocol != "" {
		return nil, util.NewConfigError(fmt.Sprintf("sqlite has no protocol variants, got %q", cfg.Protocol), nil)
	}
	return dbsql.Open(ctx, dialect{}, "sqlite", path, cfg)
}

// pathFromURI accepts sqlite://relative/path and sqlite:///absolute/path.
func pathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", util.NewConfigError(fmt.Sprintf("invalid sqlite URI %q", uri), err)
	}
	path := u.Opaque
	if path == "" {
		path = u.Host + u.Path
	}
	if path == "" {
		return "", util.NewConfigError(fmt.Sprintf("sqlite URI %q names no database file", uri), nil)
	}
	return path, nil
}

type dialect struct{}

func (dialect) Kind() string { return SourceKind }

func (dialect) Limit1(query string) string {
	return fmt.Sprintf("SELECT * FROM (%s) LIMIT 1", query)
}

func (dialect) CountWrap(query string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM (%s)", query)
}

// Type is the SQLite logical type system, derived from declared column
// types. SQLite stores dates and times as text, so the temporal logical
// types carry the string representation.
type Type uint8

const (
	Integer Type = iota
	Real
	Text
	Blob
	Bool
	Date
	Time
	Datetime
)

var _ typesys.Logical = Integer

func (t Type) Physical() typesys.PhysicalKind {
	switch t {
	case Integer:
		return typesys.Int64
	case Real:
		return typesys.Float64
	case Text, Date, Time, Datetime:
		return typesys.String
	case Bool:
		return typesys.Bool
	case Blob:
		return typesys.Bytes
	default:
		return typesys.Bytes
	}
}

func (t Type) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Text:
		return "TEXT"
	case Blob:
		return "BLOB"
	case Bool:
		return "BOOLEAN"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Datetime:
		return "DATETIME"
	default:
		return "UNKNOWN"
	}
}

// Column sniffs the declared type with SQLite's affinity rules.
func (dialect) Column(ct *sql.ColumnType) (typesys.Column, error) {
	decl := strings.ToUpper(ct.DatabaseTypeName())

	var t Type
	switch {
	case strings.Contains(decl, "BOOL"):
		t = Bool
	case decl == "DATETIME" || decl == "TIMESTAMP":
		t = Datetime
	case decl == "DATE":
		t = Date
	case decl == "TIME":
		t = Time
	case strings.Contains(decl, "INT"):
		t = Integer
	case strings.Contains(decl, "CHAR"), strings.Contains(decl, "CLOB"), strings.Contains(decl, "TEXT"):
		t = Text
	case strings.Contains(decl, "REAL"), strings.Contains(decl, "FLOA"), strings.Contains(decl, "DOUB"),
		strings.Contains(decl, "NUMERIC"), strings.Contains(decl, "DECIMAL"):
		t = Real
	case decl == "" || strings.Contains(decl, "BLOB"):
		t = Blob
	default:
		// Unrecognized declarations fall into SQLite's numeric affinity.
		t = Real
	}

	nullable, ok := ct.Nullable()
	if !ok {
		nullable = true
	}
	return typesys.Column{Name: ct.Name(), Type: t, Nullable: nullable}, nil
}
