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

package util

import (
	"context"
	"errors"
	"io"

	"github.com/alswang18/connector-x/internal/log"
)

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger adds a Logger to the context.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext retrieves the Logger from the context.
func LoggerFromContext(ctx context.Context) (log.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return logger, nil
	}
	return nil, errors.New("unable to retrieve logger from context")
}

// LoggerOrDiscard returns the context logger, or a logger that drops
// everything when the context carries none.
func LoggerOrDiscard(ctx context.Context) log.Logger {
	if logger, err := LoggerFromContext(ctx); err == nil {
		return logger
	}
	logger, _ := log.NewStdLogger(io.Discard, io.Discard, log.Error)
	return logger
}
