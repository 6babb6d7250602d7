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
	"github.com/alswang18/connector-x/internal/sources/mssql"
	"github.com/alswang18/connector-x/internal/typesys"
)

func init() {
	Register(mssql.SourceKind, arrowdest.DestinationKind, Table{
		Name: "mssql->arrow",
		Entries: map[typesys.Logical]Entry{
			mssql.Bit:              {Dst: arrowdest.Bool, Class: All},
			mssql.BigInt:           {Dst: arrowdest.I64, Class: All},
			mssql.TinyInt:          {Dst: arrowdest.I64, Class: None, AliasOf: mssql.BigInt},
			mssql.SmallInt:         {Dst: arrowdest.I64, Class: None, AliasOf: mssql.BigInt},
			mssql.Int:              {Dst: arrowdest.I64, Class: None, AliasOf: mssql.BigInt},
			mssql.Float:            {Dst: arrowdest.F64, Class: All},
			mssql.Real:             {Dst: arrowdest.F64, Class: None, AliasOf: mssql.Float},
			mssql.Decimal:          {Dst: arrowdest.F64, Class: Half, Pipe: decimalToFloat64},
			mssql.Money:            {Dst: arrowdest.F64, Class: None, AliasOf: mssql.Decimal},
			mssql.VarChar:          {Dst: arrowdest.Str, Class: All},
			mssql.Char:             {Dst: arrowdest.Str, Class: None, AliasOf: mssql.VarChar},
			mssql.NChar:            {Dst: arrowdest.Str, Class: None, AliasOf: mssql.VarChar},
			mssql.NVarChar:         {Dst: arrowdest.Str, Class: None, AliasOf: mssql.VarChar},
			mssql.Date:             {Dst: arrowdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			mssql.Time:             {Dst: arrowdest.DateTime, Class: Half, Pipe: naiveToUTC},
			mssql.Datetime:         {Dst: arrowdest.DateTime, Class: Half, Pipe: naiveToUTC},
			mssql.Datetime2:        {Dst: arrowdest.DateTime, Class: Half, Pipe: naiveToUTC},
			mssql.DatetimeOffset:   {Dst: arrowdest.DateTime, Class: All},
			mssql.Binary:           {Dst: arrowdest.Blob, Class: All},
			mssql.UniqueIdentifier: {Dst: arrowdest.Blob, Class: None, AliasOf: mssql.Binary},
		},
	})

	Register(mssql.SourceKind, memdest.DestinationKind, Table{
		Name: "mssql->memory",
		Entries: map[typesys.Logical]Entry{
			mssql.Bit:              {Dst: memdest.Bool, Class: All},
			mssql.BigInt:           {Dst: memdest.I64, Class: All},
			mssql.TinyInt:          {Dst: memdest.I64, Class: None, AliasOf: mssql.BigInt},
			mssql.SmallInt:         {Dst: memdest.I64, Class: None, AliasOf: mssql.BigInt},
			mssql.Int:              {Dst: memdest.I64, Class: None, AliasOf: mssql.BigInt},
			mssql.Float:            {Dst: memdest.F64, Class: All},
			mssql.Real:             {Dst: memdest.F64, Class: None, AliasOf: mssql.Float},
			mssql.Decimal:          {Dst: memdest.Dec, Class: All},
			mssql.Money:            {Dst: memdest.Dec, Class: None, AliasOf: mssql.Decimal},
			mssql.VarChar:          {Dst: memdest.Str, Class: All},
			mssql.Char:             {Dst: memdest.Str, Class: None, AliasOf: mssql.VarChar},
			mssql.NChar:            {Dst: memdest.Str, Class: None, AliasOf: mssql.VarChar},
			mssql.NVarChar:         {Dst: memdest.Str, Class: None, AliasOf: mssql.VarChar},
			mssql.Date:             {Dst: memdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			mssql.Time:             {Dst: memdest.DateTime, Class: Half, Pipe: naiveToUTC},
			mssql.Datetime:         {Dst: memdest.DateTime, Class: Half, Pipe: naiveToUTC},
			mssql.Datetime2:        {Dst: memdest.DateTime, Class: Half, Pipe: naiveToUTC},
			mssql.DatetimeOffset:   {Dst: memdest.DateTime, Class: All},
			mssql.Binary:           {Dst: memdest.Blob, Class: All},
			mssql.UniqueIdentifier: {Dst: memdest.Blob, Class: None, AliasOf: mssql.Binary},
		},
	})
}
