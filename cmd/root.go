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
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/go-playground/validator/v10"
	yaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	connectorx "github.com/alswang18/connector-x"
	"github.com/alswang18/connector-x/internal/log"
	"github.com/alswang18/connector-x/internal/util"
)

// TransferConfig is the CLI's view of one transfer. Values come from the
// optional YAML config file, overridden by flags.
type TransferConfig struct {
	URI              string   `yaml:"uri" validate:"required"`
	Query            string   `yaml:"query"`
	PartitionQueries []string `yaml:"partitionQueries" validate:"required,min=1"`
	Protocol         string   `yaml:"protocol"`
	Destination      string   `yaml:"destination" validate:"oneof=arrow memory"`
	Output           string   `yaml:"output"`
}

// Command is the connectorx root command.
type Command struct {
	*cobra.Command

	cfg           TransferConfig
	configFile    string
	logLevel      string
	loggingFormat string
}

// NewCommand returns the root command, wired to stdout/stderr.
func NewCommand() *Command {
	c := &Command{
		cfg: TransferConfig{Destination: "arrow"},
	}
	c.Command = &cobra.Command{
		Use:   "connectorx",
		Short: "Load query results from a relational database into columnar form, in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context())
		},
		SilenceUsage: true,
	}

	flags := c.Flags()
	flags.StringVar(&c.cfg.URI, "uri", "", "connection URI of the source database")
	flags.StringVar(&c.cfg.Query, "query", "", "origin query the partition queries were derived from")
	flags.StringArrayVar(&c.cfg.PartitionQueries, "partition-query", nil, "partition query; repeat once per partition")
	flags.StringVar(&c.cfg.Protocol, "protocol", "", "wire protocol variant, where the backend offers one")
	flags.StringVar(&c.cfg.Destination, "destination", "arrow", "destination kind (arrow, memory)")
	flags.StringVar(&c.cfg.Output, "output", "", "write the result as an Arrow IPC file (arrow destination only)")
	flags.StringVar(&c.configFile, "config", "", "YAML transfer config; flags override its values")
	flags.StringVar(&c.logLevel, "log-level", "info", "logging level (debug, info, warn, error)")
	flags.StringVar(&c.loggingFormat, "logging-format", "standard", "logging format (standard, json)")

	return c
}

// Execute runs the root command.
func Execute() error {
	cmd := NewCommand()
	return cmd.ExecuteContext(context.Background())
}

func (c *Command) loadConfig() error {
	if c.configFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.configFile)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}
	fileCfg := TransferConfig{Destination: "arrow"}
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("unable to parse config file %q: %w", c.configFile, err)
	}
	// Flags win over file values.
	flags := c.Flags()
	if !flags.Changed("uri") {
		c.cfg.URI = fileCfg.URI
	}
	if !flags.Changed("query") {
		c.cfg.Query = fileCfg.Query
	}
	if !flags.Changed("partition-query") {
		c.cfg.PartitionQueries = fileCfg.PartitionQueries
	}
	if !flags.Changed("protocol") {
		c.cfg.Protocol = fileCfg.Protocol
	}
	if !flags.Changed("destination") {
		c.cfg.Destination = fileCfg.Destination
	}
	if !flags.Changed("output") {
		c.cfg.Output = fileCfg.Output
	}
	return nil
}

func (c *Command) run(ctx context.Context) error {
	logger, err := log.NewLogger(c.loggingFormat, c.logLevel, c.OutOrStdout(), c.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx = util.WithLogger(ctx, logger)

	if err := c.loadConfig(); err != nil {
		return err
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c.cfg); err != nil {
		return fmt.Errorf("invalid transfer config: %w", err)
	}

	opts := connectorx.Options{
		URI:              c.cfg.URI,
		OriginQuery:      c.cfg.Query,
		PartitionQueries: c.cfg.PartitionQueries,
		Protocol:         c.cfg.Protocol,
	}

	switch c.cfg.Destination {
	case "memory":
		dest, err := connectorx.TransferMemory(ctx, opts)
		if err != nil {
			logger.ErrorContext(ctx, "transfer failed", "error", err.Error())
			return err
		}
		logger.InfoContext(ctx, "transfer complete",
			"rows", dest.NRows(), "columns", dest.Schema().NCols())
		return nil
	default:
		records, err := connectorx.Transfer(ctx, opts)
		if err != nil {
			logger.ErrorContext(ctx, "transfer failed", "error", err.Error())
			return err
		}
		rows := int64(0)
		for _, rec := range records {
			rows += rec.NumRows()
		}
		logger.InfoContext(ctx, "transfer complete",
			"rows", rows, "batches", len(records))
		if c.cfg.Output != "" {
			if err := writeIPC(c.cfg.Output, records); err != nil {
				return err
			}
			logger.InfoContext(ctx, "result written", "path", c.cfg.Output)
		}
		return nil
	}
}

func writeIPC(path string, records []arrow.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	if len(records) == 0 {
		return nil
	}
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(records[0].Schema()))
	if err != nil {
		return fmt.Errorf("unable to open IPC writer: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			w.Close()
			return fmt.Errorf("unable to write record batch: %w", err)
		}
	}
	return w.Close()
}
