package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-sitecore/internal/logging"
	"github.com/goliatone/go-sitecore/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := logging.ModuleLogger(provider, "sitecore.shortcode")
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"correlation_id": "req-1234",
	})
	logger = logger.WithContext(ctx)

	logger.Warn("shortcode.service.render_failed",
		"kind", "UnknownTag",
		"error", errors.New("tag \"nope\" is not registered"),
		"duration", 3*time.Millisecond,
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z WARN shortcode.service.render_failed correlation_id=req-1234 duration=3ms error="tag \"nope\" is not registered" kind=UnknownTag logger=sitecore.shortcode module=sitecore.shortcode`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("sitecore.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLogger_UnpairedArguments(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return time.Unix(0, 0) },
	})

	provider.GetLogger("x").Info("msg", 42, "value", "dangling")

	got := strings.TrimSpace(buf.String())
	if !strings.Contains(got, "field_0=value") || !strings.Contains(got, "field_1=dangling") {
		t.Fatalf("expected positional fields, got %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"":        console.LevelInfo,
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
		"fatal":   console.LevelFatal,
	}
	for input, want := range cases {
		got, err := console.ParseLevel(input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) unexpected error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := console.ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
