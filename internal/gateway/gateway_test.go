package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"flashtranslate/internal/domain"
	"flashtranslate/internal/ports"
)

type fakeAdapter struct {
	name domain.Provider

	mu        sync.Mutex
	calls     []ports.Credentials
	result    domain.TranslationResult
	err       error
	valid     bool
	sawCancel bool
	block     bool
}

func (f *fakeAdapter) Name() domain.Provider { return f.name }

func (f *fakeAdapter) Translate(ctx context.Context, _ domain.TranslationRequest, creds ports.Credentials) (domain.TranslationResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, creds)
	block := f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return domain.TranslationResult{}, ctx.Err()
	}
	return f.result, f.err
}

func (f *fakeAdapter) Validate(_ context.Context, creds ports.Credentials) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, creds)
	return f.valid
}

func (f *fakeAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAdapter) lastCall() ports.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newGateway(sys SystemDefaults) (*Gateway, *fakeAdapter, *fakeAdapter, *fakeAdapter) {
	g := &fakeAdapter{name: domain.ProviderGemini, result: domain.TranslationResult{DetectedLanguage: "fr", TranslatedText: "Hello world"}, valid: true}
	o := &fakeAdapter{name: domain.ProviderOpenAI, valid: true}
	c := &fakeAdapter{name: domain.ProviderClaude, result: domain.TranslationResult{DetectedLanguage: "es", TranslatedText: "Hello"}, valid: true}
	gw := New(Adapters{Gemini: g, OpenAI: o, Claude: c}, Config{System: sys}, zerolog.Nop())
	return gw, g, o, c
}

var request = domain.TranslationRequest{SourceText: "Bonjour le monde", TargetLanguage: "English"}

func TestResolveCredential(t *testing.T) {
	t.Parallel()

	sys := SystemDefaults{APIKey: "managed"}
	require.Equal(t, "user", ResolveCredential(domain.ProviderClaude, " user ", sys))
	require.Equal(t, "managed", ResolveCredential(domain.ProviderClaude, "", sys))
	require.Equal(t, "", ResolveCredential(domain.ProviderClaude, "", SystemDefaults{}))
	require.Equal(t, "", ResolveCredential(domain.ProviderOpenAI, "", sys))
	require.Equal(t, "", ResolveCredential(domain.ProviderGemini, "  ", sys))
}

func TestResolveEndpoint(t *testing.T) {
	t.Parallel()

	sys := SystemDefaults{APIKey: "managed", BaseURL: "https://relay.example.com/v1/"}

	require.Equal(t, "https://proxy.local/v1", ResolveEndpoint(domain.ProviderOpenAI, "k", " https://proxy.local/v1/ ", sys))
	require.Equal(t, "https://proxy.local", ResolveEndpoint(domain.ProviderClaude, "", "https://proxy.local//", sys))
	require.Equal(t, "https://relay.example.com/v1", ResolveEndpoint(domain.ProviderClaude, "", "", sys))
	require.Equal(t, "https://api.anthropic.com/v1", ResolveEndpoint(domain.ProviderClaude, "user", "", sys))
	require.Equal(t, "https://api.anthropic.com/v1", ResolveEndpoint(domain.ProviderClaude, "", "", SystemDefaults{APIKey: "managed"}))
	require.Equal(t, "https://generativelanguage.googleapis.com", ResolveEndpoint(domain.ProviderGemini, "", "", sys))
	require.Equal(t, "https://api.openai.com/v1", ResolveEndpoint(domain.ProviderOpenAI, "", "", sys))
}

func TestTranslateRoutesToConfiguredProvider(t *testing.T) {
	t.Parallel()

	gw, gemini, openai, claude := newGateway(SystemDefaults{})
	got, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: domain.ProviderGemini, APIKey: "g-key"}, request)
	require.NoError(t, err)
	require.Equal(t, "fr", got.DetectedLanguage)
	require.NotEmpty(t, got.TranslatedText)

	require.Equal(t, 1, gemini.callCount())
	require.Equal(t, ports.Credentials{APIKey: "g-key", BaseURL: "https://generativelanguage.googleapis.com"}, gemini.lastCall())
	require.Zero(t, openai.callCount())
	require.Zero(t, claude.callCount())
}

func TestTranslateOpenAIWithoutKeyFailsBeforeAdapter(t *testing.T) {
	t.Parallel()

	gw, _, openai, _ := newGateway(SystemDefaults{APIKey: "managed"})
	_, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: domain.ProviderOpenAI}, request)

	require.ErrorIs(t, err, domain.ErrMissingCredential)
	var credErr *domain.CredentialError
	require.True(t, errors.As(err, &credErr))
	require.Equal(t, domain.ProviderOpenAI, credErr.Provider)
	require.Zero(t, openai.callCount())
}

func TestTranslateClaudeFallsBackToSystemCredential(t *testing.T) {
	t.Parallel()

	gw, _, _, claude := newGateway(SystemDefaults{APIKey: "managed", BaseURL: "https://relay.example.com/v1"})
	_, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: domain.ProviderClaude}, request)
	require.NoError(t, err)
	require.Equal(t, ports.Credentials{APIKey: "managed", BaseURL: "https://relay.example.com/v1"}, claude.lastCall())
}

func TestTranslateClaudeWithoutAnyCredential(t *testing.T) {
	t.Parallel()

	gw, _, _, claude := newGateway(SystemDefaults{})
	_, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: domain.ProviderClaude}, request)
	require.ErrorIs(t, err, domain.ErrMissingCredential)
	require.Zero(t, claude.callCount())
}

func TestTranslateEmptyInputMakesNoCall(t *testing.T) {
	t.Parallel()

	gw, gemini, _, _ := newGateway(SystemDefaults{})
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: domain.ProviderGemini, APIKey: "k"}, domain.TranslationRequest{SourceText: text, TargetLanguage: "English"})
		require.ErrorIs(t, err, domain.ErrEmptyInput)
	}
	require.Zero(t, gemini.callCount())
}

func TestTranslateUnsupportedProvider(t *testing.T) {
	t.Parallel()

	gw, _, _, _ := newGateway(SystemDefaults{})
	_, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: "bard", APIKey: "k"}, request)
	require.ErrorIs(t, err, domain.ErrUnsupportedProvider)
	require.False(t, gw.ValidateCredential(context.Background(), domain.ProviderConfig{Provider: "bard", APIKey: "k"}))
}

func TestMisregisteredAdapterIsRejected(t *testing.T) {
	t.Parallel()

	claude := &fakeAdapter{name: domain.ProviderClaude, valid: true}
	gw := New(Adapters{Gemini: claude}, Config{}, zerolog.Nop())

	_, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: domain.ProviderGemini, APIKey: "k"}, request)
	require.ErrorIs(t, err, domain.ErrUnsupportedProvider)
	require.False(t, gw.ValidateCredential(context.Background(), domain.ProviderConfig{Provider: domain.ProviderGemini, APIKey: "k"}))
	require.Zero(t, claude.callCount())
}

func TestTranslatePassesAdapterErrorsThrough(t *testing.T) {
	t.Parallel()

	gw, gemini, _, _ := newGateway(SystemDefaults{})
	gemini.err = &domain.UpstreamError{Provider: domain.ProviderGemini, StatusCode: 400, Message: "API key not valid"}

	_, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: domain.ProviderGemini, APIKey: "k"}, request)
	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Equal(t, "API key not valid", upstream.Error())
}

func TestTranslateAppliesTimeout(t *testing.T) {
	t.Parallel()

	g := &fakeAdapter{name: domain.ProviderGemini, block: true}
	gw := New(Adapters{Gemini: g}, Config{TranslateTimeout: 20 * time.Millisecond}, zerolog.Nop())

	_, err := gw.Translate(context.Background(), domain.ProviderConfig{Provider: domain.ProviderGemini, APIKey: "k"}, request)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestValidateCredential(t *testing.T) {
	t.Parallel()

	gw, gemini, openai, claude := newGateway(SystemDefaults{APIKey: "managed"})

	require.False(t, gw.ValidateCredential(context.Background(), domain.ProviderConfig{Provider: domain.ProviderOpenAI}))
	require.Zero(t, openai.callCount())

	require.True(t, gw.ValidateCredential(context.Background(), domain.ProviderConfig{Provider: domain.ProviderClaude}))
	require.Equal(t, "managed", claude.lastCall().APIKey)

	gemini.valid = false
	require.False(t, gw.ValidateCredential(context.Background(), domain.ProviderConfig{Provider: domain.ProviderGemini, APIKey: "revoked"}))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	gw, _, _, _ := newGateway(SystemDefaults{APIKey: "managed", BaseURL: "https://relay.example.com/v1"})

	view := gw.Describe(domain.ProviderConfig{Provider: domain.ProviderClaude})
	require.True(t, view.UsingSystemKey)
	require.Equal(t, "https://relay.example.com/v1", view.ResolvedBaseURL)
	require.Equal(t, "https://api.anthropic.com/v1", view.DefaultBaseURL)

	view = gw.Describe(domain.ProviderConfig{Provider: domain.ProviderOpenAI, BaseURL: "https://proxy.local/v1/"})
	require.False(t, view.UsingSystemKey)
	require.Equal(t, "https://proxy.local/v1", view.ResolvedBaseURL)
}
