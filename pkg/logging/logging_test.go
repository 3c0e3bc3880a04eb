package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", DefaultLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" INFO ", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"off", zerolog.Disabled, false},
		{"loud", DefaultLevel, true},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewFiltersByLevelWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, zerolog.WarnLevel), "store")
	log.Debug().Msg("hidden")
	log.Warn().Str("file", "data.json").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug event should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=store") {
		t.Fatalf("expected warn event with component, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("non-terminal output must not be colored: %q", out)
	}
}

func TestToReportsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := To(&buf, "loud")
	if log.GetLevel() != DefaultLevel {
		t.Fatalf("level = %v, want %v", log.GetLevel(), DefaultLevel)
	}
	if !strings.Contains(buf.String(), "using default log level") {
		t.Fatalf("expected the unknown level reported, got %q", buf.String())
	}
}
