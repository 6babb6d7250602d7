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

package sources_test

import (
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/alswang18/connector-x/internal/sources"
	_ "github.com/alswang18/connector-x/internal/sources/mysql"
	_ "github.com/alswang18/connector-x/internal/sources/postgres"
	_ "github.com/alswang18/connector-x/internal/sources/sqlite"
)

func TestFromURIUnknownScheme(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("")
	_, err := sources.FromURI(context.Background(), tracer, sources.Config{
		URI:     "bigquery://project/dataset",
		Queries: []string{"SELECT 1"},
	})
	if err == nil || !strings.Contains(err.Error(), "no source registered") {
		t.Fatalf("want unknown-scheme error, got %v", err)
	}
}

func TestProbeQuery(t *testing.T) {
	tcs := []struct {
		desc string
		cfg  sources.Config
		want string
	}{
		{
			desc: "origin preferred",
			cfg:  sources.Config{Origin: "SELECT * FROM t", Queries: []string{"SELECT * FROM t WHERE id < 5"}},
			want: "SELECT * FROM t",
		},
		{
			desc: "first partition query otherwise",
			cfg:  sources.Config{Queries: []string{"SELECT * FROM t WHERE id < 5", "SELECT * FROM t WHERE id >= 5"}},
			want: "SELECT * FROM t WHERE id < 5",
		},
		{
			desc: "empty config",
			cfg:  sources.Config{},
			want: "",
		},
	}
	for _, tc := range tcs {
		t.Run(tc.desc, func(t *testing.T) {
			if got := tc.cfg.ProbeQuery(); got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	if sources.Register("mysql", nil) {
		t.Error("re-registering an existing kind must fail")
	}
}
