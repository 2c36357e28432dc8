package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamverse/internal/config"
	"github.com/vmunix/streamverse/internal/embed"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestEmbedConfig_DefaultTemplates(t *testing.T) {
	got := embedConfig(config.EmbedConfig{ProviderURL: "https://embed.example"})
	assert.Equal(t, "https://embed.example", got.ProviderURL)
	assert.Equal(t, []string{embed.DefaultMovieURL}, got.MovieTemplates)
	assert.Equal(t, []string{embed.DefaultTVURL}, got.TVTemplates)

	custom := embedConfig(config.EmbedConfig{
		MovieTemplates: []string{"https://a/{id}"},
		TVTemplates:    []string{"https://b/{id}"},
	})
	assert.Equal(t, []string{"https://a/{id}"}, custom.MovieTemplates)
	assert.Equal(t, []string{"https://b/{id}"}, custom.TVTemplates)
}

func TestLogRequests_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := logRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}), logger)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/api/v1/status")
}

func TestLogRequests_FlushReachesUnderlyingWriter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	var flushErr error
	h := logRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		flushErr = http.NewResponseController(w).Flush()
	}), logger)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events/stream", nil))

	require.NoError(t, flushErr)
	assert.True(t, rec.Flushed)
}
