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

package util_test

import (
	"errors"
	"testing"

	"github.com/alswang18/connector-x/internal/util"
)

func TestErrorCategories(t *testing.T) {
	tcs := []struct {
		desc string
		err  util.EngineError
		want util.ErrorCategory
	}{
		{
			desc: "config",
			err:  util.NewConfigError("bad partition counts", nil),
			want: util.CategoryConfig,
		},
		{
			desc: "connection",
			err:  util.NewConnectionError("refused", errors.New("dial tcp")),
			want: util.CategoryConnection,
		},
		{
			desc: "query",
			err:  util.NewQueryError("syntax", nil),
			want: util.CategoryQuery,
		},
		{
			desc: "type mismatch",
			err:  &util.TypeMismatchError{Column: 2, Expected: "DECIMAL", Found: "float64"},
			want: util.CategoryType,
		},
		{
			desc: "unsupported type",
			err:  &util.UnsupportedTypeError{Column: 0, Logical: "JSONB"},
			want: util.CategoryType,
		},
		{
			desc: "unsupported data order",
			err:  &util.UnsupportedDataOrderError{Order: "column-major"},
			want: util.CategoryConfig,
		},
		{
			desc: "counts mismatch",
			err:  &util.CountsMismatchError{Expected: 10, Got: 8},
			want: util.CategoryConfig,
		},
		{
			desc: "conversion overflow",
			err:  &util.ConversionOverflowError{Partition: 0, Row: 0, Col: 0, Value: "1e400"},
			want: util.CategoryConversion,
		},
		{
			desc: "cancelled",
			err:  &util.CancelledError{Partition: 1, Cause: errors.New("context canceled")},
			want: util.CategoryRuntime,
		},
		{
			desc: "worker panic",
			err:  &util.WorkerPanicError{Partition: 3, Payload: "boom"},
			want: util.CategoryRuntime,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.desc, func(t *testing.T) {
			if got := tc.err.Category(); got != tc.want {
				t.Errorf("category: want %s, got %s", tc.want, got)
			}
			if tc.err.Error() == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := util.NewConnectionError("unable to connect", cause)
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
}

func TestLifecycleSentinels(t *testing.T) {
	err := util.NewConfigError("finalize", util.ErrAlreadyFinalized)
	if !errors.Is(err, util.ErrAlreadyFinalized) {
		t.Error("sentinel not reachable through wrapped ConfigError")
	}
	if errors.Is(err, util.ErrNotFinalized) {
		t.Error("matched the wrong sentinel")
	}
}
