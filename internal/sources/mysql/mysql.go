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
	"fmt"
	"net/url"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel/trace"

	"github.com/alswang18/connector-x/internal/sources"
	"github.com/alswang18/connector-x/internal/sources/dbsql"
	"github.com/alswang18/connector-x/internal/util"
)

const SourceKind string = "mysql"

// Wire protocol variants. Binary runs each partition query as a prepared
// statement; text interpolates and sends plain query packets.
const (
	ProtocolBinary = "binary"
	ProtocolText   = "text"
)

func init() {
	if !sources.Register(SourceKind, newSource, "mysql") {
		panic(fmt.Sprintf("source kind %q already registered", SourceKind))
	}
}

func newSource(ctx context.Context, tracer trace.Tracer, cfg sources.Config) (sources.Source, error) {
	//nolint:all // Reassigned ctx
	ctx, span := sources.InitConnectionSpan(ctx, tracer, SourceKind, cfg.Name)
	defer span.End()

	dsn, err := dsnFromURI(cfg.URI, cfg.Protocol)
	if err != nil {
		return nil, err
	}
	return dbsql.Open(ctx, dialect{}, "mysql", dsn, cfg)
}

func dsnFromURI(uri, protocol string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", util.NewConfigError(fmt.Sprintf("invalid mysql URI %q", uri), err)
	}
	mcfg := mysqldrv.NewConfig()
	mcfg.Net = "tcp"
	mcfg.Addr = u.Host
	mcfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		mcfg.User = u.User.Username()
		mcfg.Passwd, _ = u.User.Password()
	}
	// Dates and timestamps come back as time.Time instead of raw bytes.
	mcfg.ParseTime = true

	switch protocol {
	case "", ProtocolBinary:
	case ProtocolText:
		mcfg.InterpolateParams = true
	default:
		return "", util.NewConfigError(fmt.Sprintf("unsupported mysql protocol %q, must be one of: binary, text", protocol), nil)
	}
	return mcfg.FormatDSN(), nil
}

type dialect struct{}

func (dialect) Kind() string { return SourceKind }

func (dialect) Limit1(query string) string {
	return fmt.Sprintf("SELECT * FROM (%s) AS cx_probe LIMIT 1", query)
}

func (dialect) CountWrap(query string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS cx_count", query)
}
