package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactingHandler_MasksSensitiveKeys(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		wantMask bool
	}{
		{key: "x-api-key", value: "k3y", wantMask: true},
		{key: "X-Api-Key", value: "k3y", wantMask: true},
		{key: "token", value: "abc", wantMask: true},
		{key: "entreprise_token", value: "abc", wantMask: true},
		{key: "api_key_hash", value: "whatever", wantMask: true},
		{key: "authorization", value: "Bearer abc", wantMask: true},
		{key: "website", value: "example.com", wantMask: false},
		{key: "siret", value: "73282932000074", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, slog.LevelDebug)
			logger.Info("message", tt.key, tt.value)

			out := buf.String()
			if tt.wantMask {
				if strings.Contains(out, tt.value) || !strings.Contains(out, MaskValue) {
					t.Fatalf("expected %s masked, got %s", tt.key, out)
				}
				return
			}
			if !strings.Contains(out, tt.value) {
				t.Fatalf("expected %s kept, got %s", tt.key, out)
			}
		})
	}
}

func TestRedactingHandler_MasksSensitiveValues(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Info("config loaded", "value", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA")
	if strings.Contains(buf.String(), "argon2id") {
		t.Fatalf("expected argon2 hash masked, got %s", buf.String())
	}
}

func TestRedactingHandler_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, slog.LevelInfo).With("token", "abc").WithGroup("request")

	logger.Info("call", slog.Group("headers", slog.String("x-api-key", "k3y"), slog.String("accept", "text/html")))

	out := buf.String()
	if strings.Contains(out, `"abc"`) || strings.Contains(out, "k3y") {
		t.Fatalf("expected secrets masked, got %s", out)
	}
	if !strings.Contains(out, "text/html") {
		t.Fatalf("expected plain header kept, got %s", out)
	}
}

func TestRedactingHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
