// Package gateway routes translate and validate calls to the adapter for the
// configured provider after resolving its credential and endpoint.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"flashtranslate/internal/domain"
	"flashtranslate/internal/ports"
)

// Adapters holds one adapter per provider.
type Adapters struct {
	Gemini ports.TranslationProvider
	OpenAI ports.TranslationProvider
	Claude ports.TranslationProvider
}

type Config struct {
	System           SystemDefaults
	TranslateTimeout time.Duration
	ValidateTimeout  time.Duration
}

// Gateway implements ports.TranslationGateway.
type Gateway struct {
	adapters Adapters
	cfg      Config
	logger   zerolog.Logger
}

func New(adapters Adapters, cfg Config, logger zerolog.Logger) *Gateway {
	if cfg.TranslateTimeout <= 0 {
		cfg.TranslateTimeout = 60 * time.Second
	}
	if cfg.ValidateTimeout <= 0 {
		cfg.ValidateTimeout = 15 * time.Second
	}
	return &Gateway{adapters: adapters, cfg: cfg, logger: logger.With().Str("component", "gateway").Logger()}
}

func (g *Gateway) adapter(p domain.Provider) (ports.TranslationProvider, error) {
	var a ports.TranslationProvider
	switch p {
	case domain.ProviderGemini:
		a = g.adapters.Gemini
	case domain.ProviderOpenAI:
		a = g.adapters.OpenAI
	case domain.ProviderClaude:
		a = g.adapters.Claude
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, p)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %q has no adapter", domain.ErrUnsupportedProvider, p)
	}
	if a.Name() != p {
		return nil, fmt.Errorf("%w: %q adapter registered for %q", domain.ErrUnsupportedProvider, a.Name(), p)
	}
	return a, nil
}

func (g *Gateway) credentials(cfg domain.ProviderConfig) ports.Credentials {
	return ports.Credentials{
		APIKey:  ResolveCredential(cfg.Provider, cfg.APIKey, g.cfg.System),
		BaseURL: ResolveEndpoint(cfg.Provider, cfg.APIKey, cfg.BaseURL, g.cfg.System),
	}
}

// Translate validates input before anything else so an empty request never
// reaches the network.
func (g *Gateway) Translate(ctx context.Context, cfg domain.ProviderConfig, req domain.TranslationRequest) (domain.TranslationResult, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return domain.TranslationResult{}, domain.ErrEmptyInput
	}

	a, err := g.adapter(cfg.Provider)
	if err != nil {
		return domain.TranslationResult{}, err
	}

	creds := g.credentials(cfg)
	if creds.APIKey == "" {
		return domain.TranslationResult{}, &domain.CredentialError{Provider: cfg.Provider}
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.TranslateTimeout)
	defer cancel()

	start := time.Now()
	result, err := a.Translate(ctx, req, creds)
	g.logger.Info().
		Str("provider", string(cfg.Provider)).
		Str("endpoint", creds.BaseURL).
		Int("chars", len([]rune(req.SourceText))).
		Dur("elapsed", time.Since(start)).
		Bool("ok", err == nil).
		Msg("translate")
	return result, err
}

// ValidateCredential never fails: a missing credential, an unknown provider
// and every adapter failure are all false.
func (g *Gateway) ValidateCredential(ctx context.Context, cfg domain.ProviderConfig) bool {
	a, err := g.adapter(cfg.Provider)
	if err != nil {
		return false
	}
	creds := g.credentials(cfg)
	if creds.APIKey == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.ValidateTimeout)
	defer cancel()

	ok := a.Validate(ctx, creds)
	g.logger.Debug().Str("provider", string(cfg.Provider)).Bool("valid", ok).Msg("validate credential")
	return ok
}

// Describe renders the settings view, including the endpoint that would be
// called right now.
func (g *Gateway) Describe(cfg domain.ProviderConfig) domain.ConfigView {
	return domain.ConfigView{
		Provider:        cfg.Provider,
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		ResolvedBaseURL: ResolveEndpoint(cfg.Provider, cfg.APIKey, cfg.BaseURL, g.cfg.System),
		DefaultBaseURL:  cfg.Provider.DefaultBaseURL(),
		UsingSystemKey:  strings.TrimSpace(cfg.APIKey) == "" && ResolveCredential(cfg.Provider, "", g.cfg.System) != "",
	}
}
