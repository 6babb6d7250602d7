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

import "testing"

func TestCanonicalTimeOfDay(t *testing.T) {
	tcs := []struct {
		in   string
		want string
	}{
		{"12:34:56", "12:34:56"},
		{"12:34:56.000000", "12:34:56"},
		{"12:34:56.120000", "12:34:56.12"},
		{"838:59:59", "838:59:59"},
		{"00:00:00.000001", "00:00:00.000001"},
	}
	for _, tc := range tcs {
		if got := canonicalTimeOfDay(tc.in); got != tc.want {
			t.Errorf("canonicalTimeOfDay(%q): want %q, got %q", tc.in, tc.want, got)
		}
	}
}
