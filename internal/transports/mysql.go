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
	"github.com/alswang18/connector-x/internal/sources/mysql"
	"github.com/alswang18/connector-x/internal/typesys"
)

// Both mysql protocols, text and binary, route through these tables.

func init() {
	Register(mysql.SourceKind, arrowdest.DestinationKind, Table{
		Name: "mysql->arrow",
		Entries: map[typesys.Logical]Entry{
			mysql.Double:    {Dst: arrowdest.F64, Class: All},
			mysql.Float:     {Dst: arrowdest.F64, Class: None, AliasOf: mysql.Double},
			mysql.Long:      {Dst: arrowdest.I64, Class: All},
			mysql.Tiny:      {Dst: arrowdest.I64, Class: None, AliasOf: mysql.Long},
			mysql.Short:     {Dst: arrowdest.I64, Class: None, AliasOf: mysql.Long},
			mysql.LongLong:  {Dst: arrowdest.I64, Class: None, AliasOf: mysql.Long},
			mysql.Year:      {Dst: arrowdest.I64, Class: None, AliasOf: mysql.Long},
			mysql.Decimal:   {Dst: arrowdest.F64, Class: Half, Pipe: decimalToFloat64},
			mysql.Date:      {Dst: arrowdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			mysql.Datetime:  {Dst: arrowdest.DateTime, Class: Half, Pipe: naiveToUTC},
			mysql.Timestamp: {Dst: arrowdest.DateTime, Class: All},
			mysql.Time:      {Dst: arrowdest.Str, Class: Half, Pipe: timeOfDayToString},
			mysql.VarChar:   {Dst: arrowdest.Str, Class: All},
			mysql.Char:      {Dst: arrowdest.Str, Class: None, AliasOf: mysql.VarChar},
			mysql.Text:      {Dst: arrowdest.Str, Class: None, AliasOf: mysql.VarChar},
			mysql.Blob:      {Dst: arrowdest.Blob, Class: All},
		},
	})

	Register(mysql.SourceKind, memdest.DestinationKind, Table{
		Name: "mysql->memory",
		Entries: map[typesys.Logical]Entry{
			mysql.Double:    {Dst: memdest.F64, Class: All},
			mysql.Float:     {Dst: memdest.F64, Class: None, AliasOf: mysql.Double},
			mysql.Long:      {Dst: memdest.I64, Class: All},
			mysql.Tiny:      {Dst: memdest.I64, Class: None, AliasOf: mysql.Long},
			mysql.Short:     {Dst: memdest.I64, Class: None, AliasOf: mysql.Long},
			mysql.LongLong:  {Dst: memdest.I64, Class: None, AliasOf: mysql.Long},
			mysql.Year:      {Dst: memdest.I64, Class: None, AliasOf: mysql.Long},
			mysql.Decimal:   {Dst: memdest.Dec, Class: All},
			mysql.Date:      {Dst: memdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			mysql.Datetime:  {Dst: memdest.DateTime, Class: Half, Pipe: naiveToUTC},
			mysql.Timestamp: {Dst: memdest.DateTime, Class: All},
			mysql.Time:      {Dst: memdest.Str, Class: Half, Pipe: timeOfDayToString},
			mysql.VarChar:   {Dst: memdest.Str, Class: All},
			mysql.Char:      {Dst: memdest.Str, Class: None, AliasOf: mysql.VarChar},
			mysql.Text:      {Dst: memdest.Str, Class: None, AliasOf: mysql.VarChar},
			mysql.Blob:      {Dst: memdest.Blob, Class: All},
		},
	})
}
