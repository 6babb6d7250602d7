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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alswang18/connector-x/internal/destinations"
	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// identityPipe is the all-class move for one physical kind.
func identityPipe(kind typesys.PhysicalKind) Pipe {
	switch kind {
	case typesys.Bool:
		return func(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
			v, ok, err := r.Bool(col)
			if err != nil {
				return err
			}
			if !ok {
				w.SetNull(row, col)
				return nil
			}
			w.SetBool(row, col, v)
			return nil
		}
	case typesys.Int64:
		return func(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
			v, ok, err := r.Int64(col)
			if err != nil {
				return err
			}
			if !ok {
				w.SetNull(row, col)
				return nil
			}
			w.SetInt64(row, col, v)
			return nil
		}
	case typesys.Float64:
		return func(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
			v, ok, err := r.Float64(col)
			if err != nil {
				return err
			}
			if !ok {
				w.SetNull(row, col)
				return nil
			}
			w.SetFloat64(row, col, v)
			return nil
		}
	case typesys.Decimal:
		return func(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
			v, ok, err := r.Decimal(col)
			if err != nil {
				return err
			}
			if !ok {
				w.SetNull(row, col)
				return nil
			}
			w.SetDecimal(row, col, v)
			return nil
		}
	case typesys.String:
		return func(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
			v, ok, err := r.String(col)
			if err != nil {
				return err
			}
			if !ok {
				w.SetNull(row, col)
				return nil
			}
			w.SetString(row, col, v)
			return nil
		}
	case typesys.Bytes:
		return func(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
			v, ok, err := r.Bytes(col)
			if err != nil {
				return err
			}
			if !ok {
				w.SetNull(row, col)
				return nil
			}
			w.SetBytes(row, col, v)
			return nil
		}
	case typesys.Time:
		return func(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
			v, ok, err := r.Time(col)
			if err != nil {
				return err
			}
			if !ok {
				w.SetNull(row, col)
				return nil
			}
			w.SetTime(row, col, v)
			return nil
		}
	default:
		panic("identityPipe: unknown physical kind")
	}
}

// dateToUTCMidnight widens a calendar date to a timestamp at 00:00:00 UTC.
func dateToUTCMidnight(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
	v, ok, err := r.Time(col)
	if err != nil {
		return err
	}
	if !ok {
		w.SetNull(row, col)
		return nil
	}
	y, m, d := v.Date()
	w.SetTime(row, col, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return nil
}

// naiveToUTC reinterprets a zoneless wall-clock timestamp as UTC.
func naiveToUTC(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
	v, ok, err := r.Time(col)
	if err != nil {
		return err
	}
	if !ok {
		w.SetNull(row, col)
		return nil
	}
	y, m, d := v.Date()
	hh, mm, ss := v.Clock()
	w.SetTime(row, col, time.Date(y, m, d, hh, mm, ss, v.Nanosecond(), time.UTC))
	return nil
}

// timeOfDayToString canonicalizes a time-of-day string to
// HH:MM:SS[.ffffff], trimming trailing fractional zeros.
func timeOfDayToString(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
	v, ok, err := r.String(col)
	if err != nil {
		return err
	}
	if !ok {
		w.SetNull(row, col)
		return nil
	}
	w.SetString(row, col, canonicalTimeOfDay(v))
	return nil
}

func canonicalTimeOfDay(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := strings.TrimRight(s[i+1:], "0")
		if frac == "" {
			return s[:i]
		}
		return s[:i+1] + frac
	}
	return s
}

var textDateTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02",
}

// textToUTCDateTime parses a stored date or datetime string and
// reinterprets it as UTC. Backends without a native temporal type (SQLite)
// store these as text.
func textToUTCDateTime(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
	v, ok, err := r.String(col)
	if err != nil {
		return err
	}
	if !ok {
		w.SetNull(row, col)
		return nil
	}
	for _, layout := range textDateTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			w.SetTime(row, col, t.UTC())
			return nil
		}
	}
	return util.NewQueryError(fmt.Sprintf("invalid datetime text %q", v), nil)
}

// decimalToFloat64 widens a decimal to float64, rounding to nearest-even.
// Values outside the finite float64 range overflow instead of saturating.
func decimalToFloat64(r sources.PartitionReader, w destinations.PartitionWriter, row, col int) error {
	v, ok, err := r.Decimal(col)
	if err != nil {
		return err
	}
	if !ok {
		w.SetNull(row, col)
		return nil
	}
	f := v.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return &util.ConversionOverflowError{Partition: -1, Row: row, Col: col, Value: v.String()}
	}
	w.SetFloat64(row, col, f)
	return nil
}
