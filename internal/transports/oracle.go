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
	"github.com/alswang18/connector-x/internal/sources/oracle"
	"github.com/alswang18/connector-x/internal/typesys"
)

func init() {
	Register(oracle.SourceKind, arrowdest.DestinationKind, Table{
		Name: "oracle->arrow",
		Entries: map[typesys.Logical]Entry{
			oracle.Number:       {Dst: arrowdest.F64, Class: Half, Pipe: decimalToFloat64},
			oracle.BinaryDouble: {Dst: arrowdest.F64, Class: All},
			oracle.BinaryFloat:  {Dst: arrowdest.F64, Class: None, AliasOf: oracle.BinaryDouble},
			oracle.VarChar2:     {Dst: arrowdest.Str, Class: All},
			oracle.Char:         {Dst: arrowdest.Str, Class: None, AliasOf: oracle.VarChar2},
			oracle.NChar:        {Dst: arrowdest.Str, Class: None, AliasOf: oracle.VarChar2},
			oracle.NVarChar2:    {Dst: arrowdest.Str, Class: None, AliasOf: oracle.VarChar2},
			oracle.Clob:         {Dst: arrowdest.Str, Class: None, AliasOf: oracle.VarChar2},
			oracle.Date:         {Dst: arrowdest.DateTime, Class: Half, Pipe: naiveToUTC},
			oracle.Timestamp:    {Dst: arrowdest.DateTime, Class: Half, Pipe: naiveToUTC},
			oracle.TimestampTZ:  {Dst: arrowdest.DateTime, Class: All},
			oracle.Raw:          {Dst: arrowdest.Blob, Class: All},
			oracle.Blob:         {Dst: arrowdest.Blob, Class: None, AliasOf: oracle.Raw},
		},
	})

	Register(oracle.SourceKind, memdest.DestinationKind, Table{
		Name: "oracle->memory",
		Entries: map[typesys.Logical]Entry{
			oracle.Number:       {Dst: memdest.Dec, Class: All},
			oracle.BinaryDouble: {Dst: memdest.F64, Class: All},
			oracle.BinaryFloat:  {Dst: memdest.F64, Class: None, AliasOf: oracle.BinaryDouble},
			oracle.VarChar2:     {Dst: memdest.Str, Class: All},
			oracle.Char:         {Dst: memdest.Str, Class: None, AliasOf: oracle.VarChar2},
			oracle.NChar:        {Dst: memdest.Str, Class: None, AliasOf: oracle.VarChar2},
			oracle.NVarChar2:    {Dst: memdest.Str, Class: None, AliasOf: oracle.VarChar2},
			oracle.Clob:         {Dst: memdest.Str, Class: None, AliasOf: oracle.VarChar2},
			oracle.Date:         {Dst: memdest.DateTime, Class: Half, Pipe: naiveToUTC},
			oracle.Timestamp:    {Dst: memdest.DateTime, Class: Half, Pipe: naiveToUTC},
			oracle.TimestampTZ:  {Dst: memdest.DateTime, Class: All},
			oracle.Raw:          {Dst: memdest.Blob, Class: All},
			oracle.Blob:         {Dst: memdest.Blob, Class: None, AliasOf: oracle.Raw},
		},
	})
}
