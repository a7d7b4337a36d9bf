package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"flashtranslate/internal/domain"
	"flashtranslate/internal/ports"
	"flashtranslate/internal/providers/llm"
)

// Config controls the generateContent calls.
type Config struct {
	Model           string
	ValidationModel string
}

// Provider implements ports.TranslationProvider on top of the Gen AI SDK
// against the Gemini Developer API.
type Provider struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

func NewProvider(cfg Config, client *http.Client, logger zerolog.Logger) *Provider {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gemini-flash-lite-latest"
	}
	if strings.TrimSpace(cfg.ValidationModel) == "" {
		cfg.ValidationModel = "gemini-2.5-flash"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{cfg: cfg, client: client, logger: logger.With().Str("provider", string(domain.ProviderGemini)).Logger()}
}

func (p *Provider) Name() domain.Provider {
	return domain.ProviderGemini
}

var resultSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"detectedLanguage": {Type: genai.TypeString, Description: "ISO 639-1 code of the source language"},
		"translatedText":   {Type: genai.TypeString},
	},
	Required: []string{"detectedLanguage", "translatedText"},
}

func (p *Provider) Translate(ctx context.Context, req domain.TranslationRequest, creds ports.Credentials) (domain.TranslationResult, error) {
	start := time.Now()

	client, err := p.newClient(ctx, creds)
	if err != nil {
		return domain.TranslationResult{}, err
	}

	resp, err := client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(llm.UserPrompt(req)), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: llm.SystemInstruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    resultSchema,
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		err = mapError(err)
		p.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("translate failed")
		return domain.TranslationResult{}, err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return domain.TranslationResult{}, fmt.Errorf("%w: empty candidate", domain.ErrMalformedResponse)
	}
	result, err := llm.ParseResult(text, req.SourceText)
	if err != nil {
		p.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("translate reply rejected")
		return domain.TranslationResult{}, err
	}
	p.logger.Debug().Dur("elapsed", time.Since(start)).Str("detected", result.DetectedLanguage).Msg("translated")
	return result, nil
}

// Validate runs a tiny plain-text generation. The nonce keeps any
// intermediate cache from answering for a revoked key.
func (p *Provider) Validate(ctx context.Context, creds ports.Credentials) bool {
	client, err := p.newClient(ctx, creds)
	if err != nil {
		return false
	}
	_, err = client.Models.GenerateContent(ctx, p.cfg.ValidationModel, genai.Text("ping "+uuid.NewString()), &genai.GenerateContentConfig{
		ResponseMIMEType: "text/plain",
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		p.logger.Debug().Err(mapError(err)).Msg("credential rejected")
		return false
	}
	return true
}

func (p *Provider) newClient(ctx context.Context, creds ports.Credentials) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      creds.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  p.client,
		HTTPOptions: genai.HTTPOptions{BaseURL: strings.TrimRight(creds.BaseURL, "/") + "/"},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{Provider: domain.ProviderGemini, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &domain.UpstreamError{Provider: domain.ProviderGemini, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return llm.TransportError(domain.ProviderGemini, err)
}
