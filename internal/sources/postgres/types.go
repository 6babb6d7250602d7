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
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/alswang18/connector-x/internal/typesys"
)

// Type is the PostgreSQL logical type system.
type Type uint8

const (
	Bool Type = iota
	Int2
	Int4
	Int8
	Float4
	Float8
	Numeric
	Text
	VarChar
	BpChar
	Bytea
	Date
	Time
	Timestamp
	TimestampTz
)

var _ typesys.Logical = Bool

func (t Type) Physical() typesys.PhysicalKind {
	switch t {
	case Bool:
		return typesys.Bool
	case Int2, Int4, Int8:
		return typesys.Int64
	case Float4, Float8:
		return typesys.Float64
	case Numeric:
		return typesys.Decimal
	case Text, VarChar, BpChar, Time:
		return typesys.String
	case Bytea:
		return typesys.Bytes
	case Date, Timestamp, TimestampTz:
		return typesys.Time
	default:
		return typesys.Bytes
	}
}

func (t Type) String() string {
	switch t {
	case Bool:
		return "BOOL"
	case Int2:
		return "INT2"
	case Int4:
		return "INT4"
	case Int8:
		return "INT8"
	case Float4:
		return "FLOAT4"
	case Float8:
		return "FLOAT8"
	case Numeric:
		return "NUMERIC"
	case Text:
		return "TEXT"
	case VarChar:
		return "VARCHAR"
	case BpChar:
		return "BPCHAR"
	case Bytea:
		return "BYTEA"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	case TimestampTz:
		return "TIMESTAMPTZ"
	default:
		return "UNKNOWN"
	}
}

func typeFromOID(oid uint32) (Type, error) {
	switch oid {
	case pgtype.BoolOID:
		return Bool, nil
	case pgtype.Int2OID:
		return Int2, nil
	case pgtype.Int4OID:
		return Int4, nil
	case pgtype.Int8OID:
		return Int8, nil
	case pgtype.Float4OID:
		return Float4, nil
	case pgtype.Float8OID:
		return Float8, nil
	case pgtype.NumericOID:
		return Numeric, nil
	case pgtype.TextOID, pgtype.NameOID:
		return Text, nil
	case pgtype.VarcharOID:
		return VarChar, nil
	case pgtype.BPCharOID:
		return BpChar, nil
	case pgtype.ByteaOID:
		return Bytea, nil
	case pgtype.DateOID:
		return Date, nil
	case pgtype.TimeOID:
		return Time, nil
	case pgtype.TimestampOID:
		return Timestamp, nil
	case pgtype.TimestamptzOID:
		return TimestampTz, nil
	default:
		return 0, fmt.Errorf("unsupported postgres type OID %d", oid)
	}
}
