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

package trino

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/trinodb/trino-go-client/trino"
	"go.opentelemetry.io/otel/trace"

	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/sources/dbsql"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

const SourceKind string = "trino"

func init() {
	if !sources.Register(SourceKind, newSource, "trino") {
		panic(fmt.Sprintf("source kind %q already registered", SourceKind))
	}
}

func newSource(ctx context.Context, tracer trace.Tracer, cfg sources.Config) (sources.Source, error) {
	//nolint:all // Reassigned ctx
	ctx, span := sources.InitConnectionSpan(ctx, tracer, SourceKind, cfg.Name)
	defer span.End()

	if cfg.Protocol != "" {
		return nil, util.NewConfigError(fmt.Sprintf("trino has no protocol variants, got %q", cfg.Protocol), nil)
	}
	dsn, err := dsnFromURI(cfg.URI)
	if err != nil {
		return nil, err
	}
	return dbsql.Open(ctx, dialect{}, "trino", dsn, cfg)
}

// dsnFromURI maps trino://user@host:port/catalog/schema to the http DSN the
// driver expects.
func dsnFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", util.NewConfigError(fmt.Sprintf("invalid trino URI %q", uri), err)
	}
	user := "connectorx"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	dsn := fmt.Sprintf("http://%s@%s", user, u.Host)

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	q := url.Values{}
	if len(parts) > 0 && parts[0] != "" {
		q.Set("catalog", parts[0])
	}
	if len(parts) > 1 {
		q.Set("schema", parts[1])
	}
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn, nil
}

type dialect struct{}

func (dialect) Kind() string { return SourceKind }

func (dialect) Limit1(query string) string {
	return fmt.Sprintf("SELECT * FROM (%s) AS cx_probe LIMIT 1", query)
}

func (dialect) CountWrap(query string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS cx_count", query)
}

// Type is the Trino logical type system.
type Type uint8

const (
	Boolean Type = iota
	TinyInt
	SmallInt
	Integer
	BigInt
	Real
	Double
	Decimal
	VarChar
	Char
	VarBinary
	Date
	Time
	Timestamp
)

var _ typesys.Logical = Boolean

func (t Type) Physical() typesys.PhysicalKind {
	switch t {
	case Boolean:
		return typesys.Bool
	case TinyInt, SmallInt, Integer, BigInt:
		return typesys.Int64
	case Real, Double:
		return typesys.Float64
	case Decimal:
		return typesys.Decimal
	case VarChar, Char, Time:
		return typesys.String
	case VarBinary:
		return typesys.Bytes
	case Date, Timestamp:
		return typesys.Time
	default:
		return typesys.Bytes
	}
}

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case TinyInt:
		return "TINYINT"
	case SmallInt:
		return "SMALLINT"
	case Integer:
		return "INTEGER"
	case BigInt:
		return "BIGINT"
	case Real:
		return "REAL"
	case Double:
		return "DOUBLE"
	case Decimal:
		return "DECIMAL"
	case VarChar:
		return "VARCHAR"
	case Char:
		return "CHAR"
	case VarBinary:
		return "VARBINARY"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

func (dialect) Column(ct *sql.ColumnType) (typesys.Column, error) {
	name := strings.ToUpper(ct.DatabaseTypeName())

	var t Type
	switch {
	case name == "BOOLEAN":
		t = Boolean
	case name == "TINYINT":
		t = TinyInt
	case name == "SMALLINT":
		t = SmallInt
	case name == "INTEGER":
		t = Integer
	case name == "BIGINT":
		t = BigInt
	case name == "REAL":
		t = Real
	case name == "DOUBLE":
		t = Double
	case strings.HasPrefix(name, "DECIMAL"):
		t = Decimal
	case strings.HasPrefix(name, "VARCHAR"):
		t = VarChar
	case strings.HasPrefix(name, "CHAR"):
		t = Char
	case name == "VARBINARY":
		t = VarBinary
	case name == "DATE":
		t = Date
	case strings.HasPrefix(name, "TIME "), name == "TIME":
		t = Time
	case strings.HasPrefix(name, "TIMESTAMP"):
		t = Timestamp
	default:
		return typesys.Column{}, fmt.Errorf("unsupported trino column type %q for column %q", ct.DatabaseTypeName(), ct.Name())
	}

	nullable, _ := ct.Nullable()
	return typesys.Column{Name: ct.Name(), Type: t, Nullable: nullable}, nil
}
