package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"todolist/core/config"
)

func TestBuildHandlerKVFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.Logging.Format = "kv"
	cfg.Logging.Level = "info"

	log := slog.New(buildHandler(buf, cfg)).With("component", "tg")
	log.Info("polling mode", slog.String("event", "mode"), slog.Int("timeout_seconds", 60))

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	for _, want := range []string{"level=INFO", "component=tg", "event=mode", "timeout_seconds=60"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestBuildHandlerJSONDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &config.Config{}

	log := slog.New(buildHandler(buf, cfg)).With("component", "db")
	log.Error("db connect failed", slog.String("event", "db.connect"), slog.String("err", "boom"))

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	for _, want := range []string{`"level":"ERROR"`, `"component":"db"`, `"event":"db.connect"`, `"err":"boom"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestBuildHandlerLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.Logging.Level = "warn"

	log := slog.New(buildHandler(buf, cfg))
	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line should be filtered out: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line should pass: %s", out)
	}
}

func TestDebugProfilePrefersKV(t *testing.T) {
	cfg := &config.Config{}
	cfg.Logging.Profile = "debug"
	if selectFormat(cfg) != "kv" {
		t.Fatal("debug profile should default to kv format")
	}
	cfg.Logging.Format = "json"
	if selectFormat(cfg) != "json" {
		t.Fatal("explicit format should win over profile")
	}
}
