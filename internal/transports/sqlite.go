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
	"github.com/alswang18/connector-x/internal/destinations/boolmatrix"
	"github.com/alswang18/connector-x/internal/destinations/memdest"
	"github.com/alswang18/connector-x/internal/sources/sqlite"
	"github.com/alswang18/connector-x/internal/typesys"
)

// SQLite stores dates and times as text, so the temporal routes parse.

func init() {
	Register(sqlite.SourceKind, arrowdest.DestinationKind, Table{
		Name: "sqlite->arrow",
		Entries: map[typesys.Logical]Entry{
			sqlite.Bool:     {Dst: arrowdest.Bool, Class: All},
			sqlite.Integer:  {Dst: arrowdest.I64, Class: All},
			sqlite.Real:     {Dst: arrowdest.F64, Class: All},
			sqlite.Text:     {Dst: arrowdest.Str, Class: All},
			sqlite.Blob:     {Dst: arrowdest.Blob, Class: All},
			sqlite.Date:     {Dst: arrowdest.DateTime, Class: Half, Pipe: textToUTCDateTime},
			sqlite.Datetime: {Dst: arrowdest.DateTime, Class: Half, Pipe: textToUTCDateTime},
			sqlite.Time:     {Dst: arrowdest.Str, Class: Half, Pipe: timeOfDayToString},
		},
	})

	Register(sqlite.SourceKind, memdest.DestinationKind, Table{
		Name: "sqlite->memory",
		Entries: map[typesys.Logical]Entry{
			sqlite.Bool:     {Dst: memdest.Bool, Class: All},
			sqlite.Integer:  {Dst: memdest.I64, Class: All},
			sqlite.Real:     {Dst: memdest.F64, Class: All},
			sqlite.Text:     {Dst: memdest.Str, Class: All},
			sqlite.Blob:     {Dst: memdest.Blob, Class: All},
			sqlite.Date:     {Dst: memdest.DateTime, Class: Half, Pipe: textToUTCDateTime},
			sqlite.Datetime: {Dst: memdest.DateTime, Class: Half, Pipe: textToUTCDateTime},
			sqlite.Time:     {Dst: memdest.Str, Class: Half, Pipe: timeOfDayToString},
		},
	})

	Register(sqlite.SourceKind, boolmatrix.DestinationKind, Table{
		Name: "sqlite->boolmatrix",
		Entries: map[typesys.Logical]Entry{
			sqlite.Bool: {Dst: boolmatrix.Bool, Class: All},
		},
	})
}
