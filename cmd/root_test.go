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

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func invoke(t *testing.T, args []string) (*Command, string, error) {
	t.Helper()
	c := NewCommand()
	buf := new(bytes.Buffer)
	c.SetOut(buf)
	c.SetErr(buf)
	c.SetArgs(args)
	err := c.ExecuteContext(context.Background())
	return c, buf.String(), err
}

func TestMissingURIFails(t *testing.T) {
	_, _, err := invoke(t, []string{"--partition-query", "SELECT 1"})
	if err == nil || !strings.Contains(err.Error(), "invalid transfer config") {
		t.Fatalf("want config validation error, got %v", err)
	}
}

func TestMissingPartitionQueriesFails(t *testing.T) {
	_, _, err := invoke(t, []string{"--uri", "sqlite://test.db"})
	if err == nil || !strings.Contains(err.Error(), "invalid transfer config") {
		t.Fatalf("want config validation error, got %v", err)
	}
}

func TestInvalidDestinationFails(t *testing.T) {
	_, _, err := invoke(t, []string{
		"--uri", "sqlite://test.db",
		"--partition-query", "SELECT 1",
		"--destination", "parquet",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid transfer config") {
		t.Fatalf("want config validation error, got %v", err)
	}
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transfer.yaml")
	content := `
uri: sqlite://from-file.db
query: SELECT id FROM t
partitionQueries:
  - SELECT id FROM t WHERE id < 5
  - SELECT id FROM t WHERE id >= 5
destination: memory
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c := NewCommand()
	if err := c.Flags().Parse([]string{"--config", path, "--uri", "sqlite://from-flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	c.configFile = path
	if err := c.loadConfig(); err != nil {
		t.Fatalf("load config: %v", err)
	}

	if c.cfg.URI != "sqlite://from-flag.db" {
		t.Errorf("uri: flag must override file, got %q", c.cfg.URI)
	}
	want := []string{"SELECT id FROM t WHERE id < 5", "SELECT id FROM t WHERE id >= 5"}
	if diff := cmp.Diff(want, c.cfg.PartitionQueries); diff != "" {
		t.Errorf("partition queries (-want +got):\n%s", diff)
	}
	if c.cfg.Destination != "memory" {
		t.Errorf("destination: want memory, got %q", c.cfg.Destination)
	}
	if c.cfg.Query != "SELECT id FROM t" {
		t.Errorf("query: want file value, got %q", c.cfg.Query)
	}
}
