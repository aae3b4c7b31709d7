package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, closer, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	log.Info().Str("k", "v").Msg("hello")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"hello"`) {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewConsole(t *testing.T) {
	var buf strings.Builder
	log := NewConsole(&buf)
	log.Error().Str("token", "--world").Msg("failure during startup")
	out := buf.String()
	if !strings.Contains(out, "failure during startup") || !strings.Contains(out, "token=--world") {
		t.Errorf("console output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no color codes off a terminal")
	}
}
