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

package transports

import (
	"github.com/alswang18/connector-x/internal/destinations/arrowdest"
	"github.com/alswang18/connector-x/internal/destinations/memdest"
	"github.com/alswang18/connector-x/internal/sources/postgres"
	"github.com/alswang18/connector-x/internal/typesys"
)

// All four postgres protocols (binary, simple, cursor, csv) route through
// these tables; TLS rides the connection URI and never touches routing.

func init() {
	Register(postgres.SourceKind, arrowdest.DestinationKind, Table{
		Name: "postgres->arrow",
		Entries: map[typesys.Logical]Entry{
			postgres.Bool:        {Dst: arrowdest.Bool, Class: All},
			postgres.Int8:        {Dst: arrowdest.I64, Class: All},
			postgres.Int2:        {Dst: arrowdest.I64, Class: None, AliasOf: postgres.Int8},
			postgres.Int4:        {Dst: arrowdest.I64, Class: None, AliasOf: postgres.Int8},
			postgres.Float8:      {Dst: arrowdest.F64, Class: All},
			postgres.Float4:      {Dst: arrowdest.F64, Class: None, AliasOf: postgres.Float8},
			postgres.Numeric:     {Dst: arrowdest.F64, Class: Half, Pipe: decimalToFloat64},
			postgres.Text:        {Dst: arrowdest.Str, Class: All},
			postgres.VarChar:     {Dst: arrowdest.Str, Class: None, AliasOf: postgres.Text},
			postgres.BpChar:      {Dst: arrowdest.Str, Class: None, AliasOf: postgres.Text},
			postgres.Bytea:       {Dst: arrowdest.Blob, Class: All},
			postgres.Date:        {Dst: arrowdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			postgres.Timestamp:   {Dst: arrowdest.DateTime, Class: Half, Pipe: naiveToUTC},
			postgres.TimestampTz: {Dst: arrowdest.DateTime, Class: All},
			postgres.Time:        {Dst: arrowdest.Str, Class: Half, Pipe: timeOfDayToString},
		},
	})

	Register(postgres.SourceKind, memdest.DestinationKind, Table{
		Name: "postgres->memory",
		Entries: map[typesys.Logical]Entry{
			postgres.Bool:        {Dst: memdest.Bool, Class: All},
			postgres.Int8:        {Dst: memdest.I64, Class: All},
			postgres.Int2:        {Dst: memdest.I64, Class: None, AliasOf: postgres.Int8},
			postgres.Int4:        {Dst: memdest.I64, Class: None, AliasOf: postgres.Int8},
			postgres.Float8:      {Dst: memdest.F64, Class: All},
			postgres.Float4:      {Dst: memdest.F64, Class: None, AliasOf: postgres.Float8},
			postgres.Numeric:     {Dst: memdest.Dec, Class: All},
			postgres.Text:        {Dst: memdest.Str, Class: All},
			postgres.VarChar:     {Dst: memdest.Str, Class: None, AliasOf: postgres.Text},
			postgres.BpChar:      {Dst: memdest.Str, Class: None, AliasOf: postgres.Text},
			postgres.Bytea:       {Dst: memdest.Blob, Class: All},
			postgres.Date:        {Dst: memdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			postgres.Timestamp:   {Dst: memdest.DateTime, Class: Half, Pipe: naiveToUTC},
			postgres.TimestampTz: {Dst: memdest.DateTime, Class: All},
			postgres.Time:        {Dst: memdest.Str, Class: Half, Pipe: timeOfDayToString},
		},
	})
}
