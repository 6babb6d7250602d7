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

// Package typesys defines the logical/physical type contract shared by
// sources, destinations and transports. A type system is a closed
// enumeration of logical types; each logical type is represented by exactly
// one physical kind.
package typesys

import (
	"github.com/alswang18/connector-x/internal/util"
)

// PhysicalKind enumerates the concrete value shapes a cell can take. Each
// kind corresponds to exactly one Go type:
//
//	Bool    bool
//	Int64   int64
//	Float64 float64
//	Decimal decimal.Decimal
//	String  string
//	Bytes   []byte
//	Time    time.Time
type PhysicalKind uint8

const (
	Bool PhysicalKind = iota
	Int64
	Float64
	Decimal
	String
	Bytes
	Time
)

func (k PhysicalKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Decimal:
		return "decimal"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Logical is a named type within one backend's type system. Physical is the
// association function: total, pure, one kind per logical type.
type Logical interface {
	Physical() PhysicalKind
	String() string
}

// Check succeeds exactly when claimed is the unique physical representation
// of l.
func Check(l Logical, claimed PhysicalKind) error {
	if l.Physical() == claimed {
		return nil
	}
	return &util.TypeMismatchError{Column: -1, Expected: l.String(), Found: claimed.String()}
}

// Column describes one output column: its name, its logical type, and
// whether the backend reported it as nullable.
type Column struct {
	Name     string
	Type     Logical
	Nullable bool
}

// Schema is an ordered sequence of columns, fixed at allocation time.
type Schema []Column

func (s Schema) NCols() int { return len(s) }

// Physical returns the physical kind of the column's logical type.
func (s Schema) Physical(col int) PhysicalKind { return s[col].Type.Physical() }
