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

package typesys_test

import (
	"errors"
	"testing"

	"github.com/alswang18/connector-x/internal/typesys"
	"github.com/alswang18/connector-x/internal/util"
)

// testLogical is a minimal one-off type system for contract tests.
type testLogical struct {
	name string
	kind typesys.PhysicalKind
}

func (l testLogical) Physical() typesys.PhysicalKind { return l.kind }

func (l testLogical) String() string { return l.name }

func TestCheck(t *testing.T) {
	tcs := []struct {
		desc    string
		logical testLogical
		claimed typesys.PhysicalKind
		wantErr bool
	}{
		{
			desc:    "matching representation",
			logical: testLogical{"I64", typesys.Int64},
			claimed: typesys.Int64,
		},
		{
			desc:    "mismatched representation",
			logical: testLogical{"I64", typesys.Int64},
			claimed: typesys.Float64,
			wantErr: true,
		},
		{
			desc:    "bool matches bool",
			logical: testLogical{"Bool", typesys.Bool},
			claimed: typesys.Bool,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.desc, func(t *testing.T) {
			err := typesys.Check(tc.logical, tc.claimed)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var mismatch *util.TypeMismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("want TypeMismatchError, got %v", err)
			}
			if mismatch.Expected != tc.logical.name {
				t.Errorf("expected logical %q, got %q", tc.logical.name, mismatch.Expected)
			}
			if mismatch.Found != tc.claimed.String() {
				t.Errorf("found physical %q, got %q", tc.claimed, mismatch.Found)
			}
		})
	}
}

func TestCommonOrder(t *testing.T) {
	tcs := []struct {
		desc    string
		src     []typesys.DataOrder
		dst     []typesys.DataOrder
		want    typesys.DataOrder
		wantErr bool
	}{
		{
			desc: "row major preferred when both accept it",
			src:  []typesys.DataOrder{typesys.ColumnMajor, typesys.RowMajor},
			dst:  []typesys.DataOrder{typesys.RowMajor, typesys.ColumnMajor},
			want: typesys.RowMajor,
		},
		{
			desc: "first common order otherwise",
			src:  []typesys.DataOrder{typesys.ColumnMajor},
			dst:  []typesys.DataOrder{typesys.RowMajor, typesys.ColumnMajor},
			want: typesys.ColumnMajor,
		},
		{
			desc:    "no common order",
			src:     []typesys.DataOrder{typesys.ColumnMajor},
			dst:     []typesys.DataOrder{typesys.RowMajor},
			wantErr: true,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := typesys.CommonOrder(tc.src, tc.dst)
			if tc.wantErr {
				var unsupported *util.UnsupportedDataOrderError
				if !errors.As(err, &unsupported) {
					t.Fatalf("want UnsupportedDataOrderError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSchemaPhysical(t *testing.T) {
	schema := typesys.Schema{
		{Name: "flag", Type: testLogical{"Bool", typesys.Bool}},
		{Name: "n", Type: testLogical{"I64", typesys.Int64}, Nullable: true},
	}
	if got := schema.NCols(); got != 2 {
		t.Fatalf("NCols: want 2, got %d", got)
	}
	if got := schema.Physical(0); got != typesys.Bool {
		t.Errorf("col 0: want bool, got %s", got)
	}
	if got := schema.Physical(1); got != typesys.Int64 {
		t.Errorf("col 1: want int64, got %s", got)
	}
}
