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

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/go-cmp/cmp"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	connectorx "github.com/alswang18/connector-x"
)

const (
	dbName = "test"
	dbUser = "tester"
	dbPass = "secret"
)

func startMySQL(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mysql:8.0.36",
		tcmysql.WithDatabase(dbName),
		tcmysql.WithUsername(dbUser),
		tcmysql.WithPassword(dbPass),
	)
	if err != nil {
		t.Skipf("unable to start mysql container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port())
}

func seed(t *testing.T, addr string) {
	t.Helper()
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", dbUser, dbPass, addr, dbName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE measurements (
			id BIGINT NOT NULL,
			label VARCHAR(32),
			value DOUBLE,
			amount DECIMAL(10, 2),
			taken DATE
		)`,
		`INSERT INTO measurements VALUES
			(1, 'a', 1.25, 10.50, '2024-02-29'),
			(2, 'b', 2.50, 20.25, '2024-03-01'),
			(3, NULL, 3.75, NULL, '2024-03-02'),
			(4, 'd', 5.00, 40.00, '2024-03-03')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}
}

func TestTransferMemoryFromMySQL(t *testing.T) {
	addr := startMySQL(t)
	seed(t, addr)

	uri := fmt.Sprintf("mysql://%s:%s@%s/%s", dbUser, dbPass, addr, dbName)
	for _, protocol := range []string{"binary", "text"} {
		t.Run(protocol, func(t *testing.T) {
			dest, err := connectorx.TransferMemory(context.Background(), connectorx.Options{
				URI:         uri,
				OriginQuery: "SELECT id, label, value, amount, taken FROM measurements ORDER BY id",
				PartitionQueries: []string{
					"SELECT id, label, value, amount, taken FROM measurements WHERE id <= 2 ORDER BY id",
					"SELECT id, label, value, amount, taken FROM measurements WHERE id > 2 ORDER BY id",
				},
				Protocol: protocol,
			})
			if err != nil {
				t.Fatalf("transfer: %v", err)
			}

			ids, _, err := dest.Int64s(0)
			if err != nil {
				t.Fatalf("ids: %v", err)
			}
			if diff := cmp.Diff([]int64{1, 2, 3, 4}, ids); diff != "" {
				t.Errorf("ids (-want +got):\n%s", diff)
			}

			labels, valid, err := dest.Strings(1)
			if err != nil {
				t.Fatalf("labels: %v", err)
			}
			if diff := cmp.Diff([]string{"a", "b", "", "d"}, labels); diff != "" {
				t.Errorf("labels (-want +got):\n%s", diff)
			}
			if valid[2] {
				t.Error("row 3 label: want NULL")
			}

			amounts, valid, err := dest.Decimals(3)
			if err != nil {
				t.Fatalf("amounts: %v", err)
			}
			if !valid[0] || amounts[0].String() != "10.5" {
				t.Errorf("row 1 amount: want 10.5, got %s (valid=%v)", amounts[0], valid[0])
			}

			taken, _, err := dest.Times(4)
			if err != nil {
				t.Fatalf("taken: %v", err)
			}
			want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
			if !taken[0].Equal(want) {
				t.Errorf("row 1 taken: want %v, got %v", want, taken[0])
			}
		})
	}
}
