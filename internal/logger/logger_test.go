package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{"DEBUG", true, true},
		{"info", false, true},
		{"WARN", false, true},
		{"ERROR", false, false},
		{"bogus", false, true},
	}

	for _, c := range cases {
		var buf bytes.Buffer
		l := New(&buf, c.level, "text")
		l.Debug("debug-line")
		l.Warn("warn-line")

		if got := strings.Contains(buf.String(), "debug-line"); got != c.wantDebug {
			t.Errorf("level %q: debug logged = %v, want %v", c.level, got, c.wantDebug)
		}
		if got := strings.Contains(buf.String(), "warn-line"); got != c.wantWarn {
			t.Errorf("level %q: warn logged = %v, want %v", c.level, got, c.wantWarn)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "INFO", "json")
	l.Info("hello", "url", "https://example.com")

	out := buf.String()
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"url":"https://example.com"`) {
		t.Errorf("expected JSON log line, got %q", out)
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	defer SetLogger(orig)

	var buf bytes.Buffer
	SetLogger(New(&buf, "DEBUG", "text"))
	Debug("resolved", "jwks_uri", "https://example.com/jwks")

	if !strings.Contains(buf.String(), "jwks_uri=https://example.com/jwks") {
		t.Errorf("expected helper to write through replaced logger, got %q", buf.String())
	}
}
