package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		" WARN ": zerolog.WarnLevel,
		"error":  zerolog.ErrorLevel,
		"":       zerolog.InfoLevel,
		"bogus":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")
	l.Info().Msg("hidden")
	l.Warn().Str("seat", "A").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(out, `"seat":"A"`) || !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
}
