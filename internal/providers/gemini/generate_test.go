package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashtranslate/internal/domain"
	"flashtranslate/internal/ports"
)

func apiKeyFrom(r *http.Request) string {
	if key := r.Header.Get("x-goog-api-key"); key != "" {
		return key
	}
	return r.URL.Query().Get("key")
}

func candidate(text string) string {
	payload, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
	return string(payload)
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	var sawModel, sawSchema, sawThinkingOff atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-key", apiKeyFrom(r))
		sawModel.Store(strings.Contains(r.URL.Path, "gemini-flash-lite-latest") && strings.HasSuffix(r.URL.Path, ":generateContent"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if cfg, ok := body["generationConfig"].(map[string]any); ok {
			_, ok := cfg["responseSchema"]
			sawSchema.Store(ok)
			if thinking, ok := cfg["thinkingConfig"].(map[string]any); ok {
				budget, ok := thinking["thinkingBudget"].(float64)
				sawThinkingOff.Store(ok && budget == 0)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidate(`{"detectedLanguage":"fr","translatedText":"Hello world"}`)))
	}))
	defer server.Close()

	p := NewProvider(Config{}, server.Client(), zerolog.Nop())
	got, err := p.Translate(context.Background(),
		domain.TranslationRequest{SourceText: "Bonjour le monde", TargetLanguage: "English"},
		ports.Credentials{APIKey: "user-key", BaseURL: server.URL})
	require.NoError(t, err)
	require.Equal(t, "fr", got.DetectedLanguage)
	require.NotEmpty(t, got.TranslatedText)
	require.True(t, sawModel.Load(), "expected generateContent on the translation model")
	require.True(t, sawSchema.Load(), "expected a structured output schema")
	require.True(t, sawThinkingOff.Load(), "expected thinkingBudget 0")
}

func TestTranslateUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	p := NewProvider(Config{}, server.Client(), zerolog.Nop())
	_, err := p.Translate(context.Background(),
		domain.TranslationRequest{SourceText: "hola", TargetLanguage: "English"},
		ports.Credentials{APIKey: "bad", BaseURL: server.URL})

	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream), "got %v", err)
	require.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	require.Contains(t, upstream.Error(), "API key not valid")
}

func TestTranslateMalformedReply(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidate(`{"detectedLanguage":"es"}`)))
	}))
	defer server.Close()

	p := NewProvider(Config{}, server.Client(), zerolog.Nop())
	_, err := p.Translate(context.Background(),
		domain.TranslationRequest{SourceText: "hola", TargetLanguage: "English"},
		ports.Credentials{APIKey: "k", BaseURL: server.URL})
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if apiKeyFrom(r) != "good" || !strings.Contains(r.URL.Path, "gemini-2.5-flash") {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`))
			return
		}
		_, _ = w.Write([]byte(candidate("pong")))
	}))
	defer server.Close()

	p := NewProvider(Config{}, server.Client(), zerolog.Nop())
	require.True(t, p.Validate(context.Background(), ports.Credentials{APIKey: "good", BaseURL: server.URL}))
	require.False(t, p.Validate(context.Background(), ports.Credentials{APIKey: "bad", BaseURL: server.URL}))
}
