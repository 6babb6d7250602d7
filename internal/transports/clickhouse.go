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
	"github.com/alswang18/connector-x/internal/sources/clickhouse"
	"github.com/alswang18/connector-x/internal/typesys"
)

func init() {
	Register(clickhouse.SourceKind, arrowdest.DestinationKind, Table{
		Name: "clickhouse->arrow",
		Entries: map[typesys.Logical]Entry{
			clickhouse.Bool:        {Dst: arrowdest.Bool, Class: All},
			clickhouse.Int64:       {Dst: arrowdest.I64, Class: All},
			clickhouse.Int8:        {Dst: arrowdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.Int16:       {Dst: arrowdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.Int32:       {Dst: arrowdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.UInt8:       {Dst: arrowdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.UInt16:      {Dst: arrowdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.UInt32:      {Dst: arrowdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.UInt64:      {Dst: arrowdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.Float64:     {Dst: arrowdest.F64, Class: All},
			clickhouse.Float32:     {Dst: arrowdest.F64, Class: None, AliasOf: clickhouse.Float64},
			clickhouse.Decimal:     {Dst: arrowdest.F64, Class: Half, Pipe: decimalToFloat64},
			clickhouse.String:      {Dst: arrowdest.Str, Class: All},
			clickhouse.FixedString: {Dst: arrowdest.Str, Class: None, AliasOf: clickhouse.String},
			clickhouse.Date:        {Dst: arrowdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			clickhouse.DateTime:    {Dst: arrowdest.DateTime, Class: All},
		},
	})

	Register(clickhouse.SourceKind, memdest.DestinationKind, Table{
		Name: "clickhouse->memory",
		Entries: map[typesys.Logical]Entry{
			clickhouse.Bool:        {Dst: memdest.Bool, Class: All},
			clickhouse.Int64:       {Dst: memdest.I64, Class: All},
			clickhouse.Int8:        {Dst: memdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.Int16:       {Dst: memdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.Int32:       {Dst: memdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.UInt8:       {Dst: memdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.UInt16:      {Dst: memdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.UInt32:      {Dst: memdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.UInt64:      {Dst: memdest.I64, Class: None, AliasOf: clickhouse.Int64},
			clickhouse.Float64:     {Dst: memdest.F64, Class: All},
			clickhouse.Float32:     {Dst: memdest.F64, Class: None, AliasOf: clickhouse.Float64},
			clickhouse.Decimal:     {Dst: memdest.Dec, Class: All},
			clickhouse.String:      {Dst: memdest.Str, Class: All},
			clickhouse.FixedString: {Dst: memdest.Str, Class: None, AliasOf: clickhouse.String},
			clickhouse.Date:        {Dst: memdest.DateTime, Class: Half, Pipe: dateToUTCMidnight},
			clickhouse.DateTime:    {Dst: memdest.DateTime, Class: All},
		},
	})
}
