package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FileName is the log file written under the logs directory.
const FileName = "client.log"

// New creates a logger that writes human-readable lines to stderr and, when
// logsDir is non-empty, JSON lines to logsDir/client.log. The returned
// closer releases the file.
func New(logsDir string) (zerolog.Logger, io.Closer, error) {
	console := consoleWriter(os.Stderr)
	if logsDir == "" {
		return NewConsole(os.Stderr), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create logs dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logsDir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	w := zerolog.MultiLevelWriter(console, f)
	return zerolog.New(w).With().Timestamp().Logger(), f, nil
}

// NewConsole creates a logger writing human-readable lines to w only. It is
// used before the logs directory exists.
func NewConsole(w io.Writer) zerolog.Logger {
	return zerolog.New(consoleWriter(w)).With().Timestamp().Logger()
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stderr}
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// report ok=false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
