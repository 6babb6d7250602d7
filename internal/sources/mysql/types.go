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

package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/alswang18/connector-x/internal/typesys"
)

// Type is the MySQL logical type system.
type Type uint8

const (
	Tiny Type = iota
	Short
	Long
	LongLong
	Float
	Double
	Decimal
	Date
	Time
	Datetime
	Timestamp
	Year
	Char
	VarChar
	Text
	Blob
)

var _ typesys.Logical = Tiny

func (t Type) Physical() typesys.PhysicalKind {
	switch t {
	case Tiny, Short, Long, LongLong, Year:
		return typesys.Int64
	case Float, Double:
		return typesys.Float64
	case Decimal:
		return typesys.Decimal
	case Date, Datetime, Timestamp:
		return typesys.Time
	case Time, Char, VarChar, Text:
		return typesys.String
	case Blob:
		return typesys.Bytes
	default:
		return typesys.Bytes
	}
}

func (t Type) String() string {
	switch t {
	case Tiny:
		return "TINYINT"
	case Short:
		return "SMALLINT"
	case Long:
		return "INT"
	case LongLong:
		return "BIGINT"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Decimal:
		return "DECIMAL"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Datetime:
		return "DATETIME"
	case Timestamp:
		return "TIMESTAMP"
	case Year:
		return "YEAR"
	case Char:
		return "CHAR"
	case VarChar:
		return "VARCHAR"
	case Text:
		return "TEXT"
	case Blob:
		return "BLOB"
	default:
		return "UNKNOWN"
	}
}

func (dialect) Column(ct *sql.ColumnType) (typesys.Column, error) {
	name := strings.ToUpper(ct.DatabaseTypeName())
	// The driver reports unsigned columns with an UNSIGNED prefix; widths
	// up to 64 bits share the Int64 representation.
	name = strings.TrimPrefix(name, "UNSIGNED ")

	var t Type
	switch name {
	case "TINYINT":
		t = Tiny
	case "SMALLINT":
		t = Short
	case "MEDIUMINT", "INT":
		t = Long
	case "BIGINT":
		t = LongLong
	case "FLOAT":
		t = Float
	case "DOUBLE":
		t = Double
	case "DECIMAL":
		t = Decimal
	case "DATE":
		t = Date
	case "TIME":
		t = Time
	case "DATETIME":
		t = Datetime
	case "TIMESTAMP":
		t = Timestamp
	case "YEAR":
		t = Year
	case "CHAR":
		t = Char
	case "VARCHAR":
		t = VarChar
	case "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT":
		t = Text
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BINARY", "VARBINARY":
		t = Blob
	default:
		return typesys.Column{}, fmt.Errorf("unsupported mysql column type %q for column %q", ct.DatabaseTypeName(), ct.Name())
	}

	nullable, _ := ct.Nullable()
	return typesys.Column{Name: ct.Name(), Type: t, Nullable: nullable}, nil
}
