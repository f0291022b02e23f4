package app

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want slog.Level
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "uppercase", in: "INFO", want: slog.LevelInfo},
		{name: "padded", in: "  warn  ", want: slog.LevelWarn},
		{name: "warning alias", in: "warning", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "garbage falls back", in: "loud", want: slog.LevelInfo},
		{name: "empty falls back", in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := parseLogLevel(tc.in); got != tc.want {
				t.Fatalf("parseLogLevel(%q)=%v want=%v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewLoggerFormatSwitch(t *testing.T) {
	cases := []struct {
		name       string
		format     string
		wantPretty bool
	}{
		{name: "json", format: "json", wantPretty: false},
		{name: "pretty", format: "pretty", wantPretty: true},
		{name: "pretty uppercase", format: "PRETTY", wantPretty: true},
		{name: "garbage falls back to json", format: "xml", wantPretty: false},
		{name: "empty falls back to json", format: "", wantPretty: false},
	}

	for _, tc := range cases {
		log := NewLogger("info", tc.format)
		_, pretty := log.Handler().(*prettyHandler)
		if pretty != tc.wantPretty {
			t.Fatalf("format %q: pretty=%v want=%v", tc.format, pretty, tc.wantPretty)
		}
	}
}
