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
	"github.com/alswang18/connector-x/internal/sources/trino"
	"github.com/alswang18/connector-x/internal/typesys"
)

func init() {
	Register(trino.SourceKind, arrowdest.DestinationKind, Table{
		Name: "trino->arrow",
		Entries: map[typesys.Logical]Entry{
			trino.Boolean:   {Dst: arrowdest.Bool, Class: All},
			trino.BigInt:    {Dst: arrowdest.I64, Class: All},
			trino.TinyInt:   {Dst: arrowdest.I64, Class: None, AliasOf: trino.BigInt},
			trino.SmallInt:  {Dst: arrowdest.I64, Class: None, AliasOf: trino.BigInt},
			trino.Integer:   {Dst: arrowdest.I64, Class: None, AliasOf: trino.BigInt},
			trino.Double:    {Dst: arrowdest.F64, Class: All},
			trino.Real:      {Dst: arrowdest.F64, Class: None, AliasOf: trino.Double},
			trino.Decimal:   {Dst: arrowdest.F64, Class: Half, Pipe: decimalToFloat64},
			trino.VarChar:   {Dst: arrowdest.Str, Class: All},
			trino.Char:      {Dst: arrowdest.Str, Class: None, AliasOf: trino.VarChar},
			trino.VarBinary: {Dst: arrowdest.Blob, Class: All},
			trino.Date:      {Dst: arrowdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			trino.Timestamp: {Dst: arrowdest.DateTime, Class: Half, Pipe: naiveToUTC},
			trino.Time:      {Dst: arrowdest.Str, Class: Half, Pipe: timeOfDayToString},
		},
	})

	Register(trino.SourceKind, memdest.DestinationKind, Table{
		Name: "trino->memory",
		Entries: map[typesys.Logical]Entry{
			trino.Boolean:   {Dst: memdest.Bool, Class: All},
			trino.BigInt:    {Dst: memdest.I64, Class: All},
			trino.TinyInt:   {Dst: memdest.I64, Class: None, AliasOf: trino.BigInt},
			trino.SmallInt:  {Dst: memdest.I64, Class: None, AliasOf: trino.BigInt},
			trino.Integer:   {Dst: memdest.I64, Class: None, AliasOf: trino.BigInt},
			trino.Double:    {Dst: memdest.F64, Class: All},
			trino.Real:      {Dst: memdest.F64, Class: None, AliasOf: trino.Double},
			trino.Decimal:   {Dst: memdest.Dec, Class: All},
			trino.VarChar:   {Dst: memdest.Str, Class: All},
			trino.Char:      {Dst: memdest.Str, Class: None, AliasOf: trino.VarChar},
			trino.VarBinary: {Dst: memdest.Blob, Class: All},
			trino.Date:      {Dst: memdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			trino.Timestamp: {Dst: memdest.DateTime, Class: Half, Pipe: naiveToUTC},
			trino.Time:      {Dst: memdest.Str, Class: Half, Pipe: timeOfDayToString},
		},
	})
}
