// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog logger shared by the binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Options say where logs go besides stdout.
type Options struct {
	Level       string
	Dir         string // optional log file directory
	Name        string // log file name without extension
	GraylogAddr string // optional GELF UDP address
}

// Level parses trace|debug|info|warn|error, defaulting to info.
func Level(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup sets the global level and returns a logger writing to stdout and the
// optional sinks. closeLogs flushes and closes them.
func Setup(opts Options) (logger zerolog.Logger, closeLogs func() error, err error) {
	zerolog.SetGlobalLevel(Level(opts.Level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{
		// write console format with colors to console
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
	}
	var closers []io.Closer

	if opts.Dir != "" {
		if err = os.MkdirAll(opts.Dir, 0o755); err != nil {
			return
		}
		name := opts.Name
		if name == "" {
			name = "tankarena"
		}
		var file *os.File
		file, err = os.OpenFile(filepath.Join(opts.Dir, name+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		// write console format without colors to file
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		closers = append(closers, file)
	}

	if opts.GraylogAddr != "" {
		var graylog *gelf.Writer
		graylog, err = gelf.NewWriter(opts.GraylogAddr)
		if err != nil {
			err = fmt.Errorf("connecting to graylog: %w", err)
			return
		}
		writers = append(writers, graylog)
		closers = append(closers, graylog)
	}

	logger = New(writers...)
	closeLogs = func() error {
		var first error
		for _, c := range closers {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	logger.Info().Str("loglevel", zerolog.GlobalLevel().String()).Msg("logging set up")
	return
}

// New is a timestamped logger writing to all writers.
func New(writers ...io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}
