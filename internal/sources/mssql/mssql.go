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

package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	"go.opentelemetry.io/otel/trace"

	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/sources/dbsql"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

const SourceKind string = "mssql"

func init() {
	if !sources.Register(SourceKind, newSource, "mssql", "sqlserver") {
		panic(fmt.Sprintf("source kind %q already registered", SourceKind))
	}
}

func newSource(ctx context.Context, tracer trace.Tracer, cfg sources.Config) (sources.Source, error) {
	//nolint:all // Reassigned ctx
	ctx, span := sources.InitConnectionSpan(ctx, tracer, SourceKind, cfg.Name)
	defer span.End()

	if cfg.Protocol != "" {
		return nil, util.NewConfigError(fmt.Sprintf("mssql has no protocol variants, got %q", cfg.Protocol), nil)
	}
	// go-mssqldb accepts the URL form directly; it only knows the
	// sqlserver scheme.
	dsn := strings.Replace(cfg.URI, "mssql://", "sqlserver://", 1)
	return dbsql.Open(ctx, dialect{}, "sqlserver", dsn, cfg)
}

type dialect struct{}

func (dialect) Kind() string { return SourceKind }

func (dialect) Limit1(query string) string {
	return fmt.Sprintf("SELECT TOP 1 * FROM (%s) AS cx_probe", query)
}

func (dialect) CountWrap(query string) string {
	return fmt.Sprintf("SELECT COUNT_BIG(*) FROM (%s) AS cx_count", query)
}

// Type is the SQL Server logical type system.
type Type uint8

const (
	Bit Type = iota
	TinyInt
	SmallInt
	Int
	BigInt
	Real
	Float
	Decimal
	Money
	Char
	VarChar
	NChar
	NVarChar
	Date
	Time
	Datetime
	Datetime2
	DatetimeOffset
	Binary
	UniqueIdentifier
)

var _ typesys.Logical = Bit

func (t Type) Physical() typesys.PhysicalKind {
	switch t {
	case Bit:
		return typesys.Bool
	case TinyInt, SmallInt, Int, BigInt:
		return typesys.Int64
	case Real, Float:
		return typesys.Float64
	case Decimal, Money:
		return typesys.Decimal
	case Char, VarChar, NChar, NVarChar:
		return typesys.String
	case Date, Time, Datetime, Datetime2, DatetimeOffset:
		return typesys.Time
	case Binary, UniqueIdentifier:
		return typesys.Bytes
	default:
		return typesys.Bytes
	}
}

func (t Type) String() string {
	switch t {
	case Bit:
		return "BIT"
	case TinyInt:
		return "TINYINT"
	case SmallInt:
		return "SMALLINT"
	case Int:
		return "INT"
	case BigInt:
		return "BIGINT"
	case Real:
		return "REAL"
	case Float:
		return "FLOAT"
	case Decimal:
		return "DECIMAL"
	case Money:
		return "MONEY"
	case Char:
		return "CHAR"
	case VarChar:
		return "VARCHAR"
	case NChar:
		return "NCHAR"
	case NVarChar:
		return "NVARCHAR"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Datetime:
		return "DATETIME"
	case Datetime2:
		return "DATETIME2"
	case DatetimeOffset:
		return "DATETIMEOFFSET"
	case Binary:
		return "BINARY"
	case UniqueIdentifier:
		return "UNIQUEIDENTIFIER"
	default:
		return "UNKNOWN"
	}
}

func (dialect) Column(ct *sql.ColumnType) (typesys.Column, error) {
	var t Type
	switch strings.ToUpper(ct.DatabaseTypeName()) {
	case "BIT":
		t = Bit
	case "TINYINT":
		t = TinyInt
	case "SMALLINT":
		t = SmallInt
	case "INT":
		t = Int
	case "BIGINT":
		t = BigInt
	case "REAL":
		t = Real
	case "FLOAT":
		t = Float
	case "DECIMAL", "NUMERIC":
		t = Decimal
	case "MONEY", "SMALLMONEY":
		t = Money
	case "CHAR":
		t = Char
	case "VARCHAR", "TEXT":
		t = VarChar
	case "NCHAR":
		t = NChar
	case "NVARCHAR", "NTEXT":
		t = NVarChar
	case "DATE":
		t = Date
	case "TIME":
		t = Time
	case "DATETIME", "SMALLDATETIME":
		t = Datetime
	case "DATETIME2":
		t = Datetime2
	case "DATETIMEOFFSET":
		t = DatetimeOffset
	case "BINARY", "VARBINARY", "IMAGE":
		t = Binary
	case "UNIQUEIDENTIFIER":
		t = UniqueIdentifier
	default:
		return typesys.Column{}, fmt.Errorf("unsupported mssql column type %q for column %q", ct.DatabaseTypeName(), ct.Name())
	}

	nullable, _ := ct.Nullable()
	return typesys.Column{Name: ct.Name(), Type: t, Nullable: nullable}, nil
}
