package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/sallandpioneers/team-auth/internal/config"
)

// setupLogger creates a logger writing to stdout and, if logFilePath is
// set, to that file as well. A log file that cannot be opened is reported
// on stderr and skipped.
func setupLogger(logFilePath string, verbose bool, format string) (zerolog.Logger, func(), error) {
	return setupLoggerTo(os.Stdout, logFilePath, verbose, format)
}

func setupLoggerTo(stdout io.Writer, logFilePath string, verbose bool, format string) (zerolog.Logger, func(), error) {
	var out io.Writer = stdout
	switch format {
	case "", config.LogFormatConsole:
		out = zerolog.ConsoleWriter{Out: stdout, NoColor: true, TimeFormat: time.RFC3339}
	case config.LogFormatJSON:
	default:
		return zerolog.Nop(), func() {}, fmt.Errorf("unsupported log format: %s", format)
	}

	cleanup := func() {}
	if logFilePath != "" {
		f, err := openLogFile(logFilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to open log file %s: %v\n", logFilePath, err)
		} else {
			// The file always gets JSON lines
			out = zerolog.MultiLevelWriter(out, f)
			cleanup = func() { f.Close() }
		}
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if verbose {
		logger = logger.With().Caller().Logger()
	}
	return logger, cleanup, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
