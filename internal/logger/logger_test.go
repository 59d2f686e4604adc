package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Writer:      &buf,
		Environment: "production",
		Level:       slog.LevelInfo,
	})

	log.Info("session opened", "locale", "pt-BR")

	out := buf.String()
	assert.Contains(t, out, `"msg":"session opened"`)
	assert.Contains(t, out, `"locale":"pt-BR"`)
	assert.Contains(t, out, `"level":"INFO"`)
}

func TestNewDefaultsToPrettyOutsideProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Writer:      &buf,
		Environment: "development",
		Level:       slog.LevelInfo,
	})

	log.Info("directory cached", "books", 42)

	out := buf.String()
	assert.Contains(t, out, "directory cached")
	assert.Contains(t, out, "books=42")
	assert.Contains(t, out, "INF")
	assert.NotContains(t, out, `"msg"`)
}

func TestNewExplicitFormatWins(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Writer:      &buf,
		Format:      "json",
		Environment: "development",
		Level:       slog.LevelInfo,
	})

	log.Info("test")

	assert.Contains(t, buf.String(), `"msg":"test"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	ctx := context.Background()
	assert.False(t, handler.Enabled(ctx, slog.LevelDebug))
	assert.True(t, handler.Enabled(ctx, slog.LevelInfo))
	assert.True(t, handler.Enabled(ctx, slog.LevelError))
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	log := slog.New(handler.WithAttrs([]slog.Attr{slog.String("matricula", "20231234")}))
	log.Info("loan submitted", "isbn", "9788535911664")

	out := buf.String()
	assert.Contains(t, out, "matricula=20231234")
	assert.Contains(t, out, "isbn=9788535911664")
}

func TestPrettyHandlerLevelIndicators(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

			log := slog.New(handler)
			log.Log(context.Background(), tt.level, "message")

			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})

	log.WithError(errors.New("service unreachable")).Error("sweep failed")

	out := buf.String()
	assert.Contains(t, out, `"error":"service unreachable"`)
	assert.Contains(t, out, `"msg":"sweep failed"`)
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})

	log.WithField("loanId", 7).Info("return recorded")

	assert.Contains(t, buf.String(), `"loanId":7`)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	require.NotNil(t, log)
	require.NotNil(t, log.Logger)

	// Must not panic and must not write anywhere.
	log.Info("dropped")
}
