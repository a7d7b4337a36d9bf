package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"flashtranslate/internal/domain"
	"flashtranslate/internal/ports"
	"flashtranslate/internal/providers/llm"
)

// Config controls the chat completions call.
type Config struct {
	Model string
}

// Provider implements ports.TranslationProvider for the OpenAI chat
// completions API and compatible endpoints.
type Provider struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

func NewProvider(cfg Config, client *http.Client, logger zerolog.Logger) *Provider {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{cfg: cfg, client: client, logger: logger.With().Str("provider", string(domain.ProviderOpenAI)).Logger()}
}

func (p *Provider) Name() domain.Provider {
	return domain.ProviderOpenAI
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *Provider) Translate(ctx context.Context, req domain.TranslationRequest, creds ports.Credentials) (domain.TranslationResult, error) {
	start := time.Now()

	httpReq, err := llm.NewJSONRequest(ctx, http.MethodPost, llm.JoinURL(creds.BaseURL, "chat/completions"), chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: llm.SystemInstruction + llm.JSONKeysHint},
			{Role: "user", Content: llm.UserPrompt(req)},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return domain.TranslationResult{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)

	body, err := llm.Do(p.client, httpReq, domain.ProviderOpenAI)
	if err != nil {
		p.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("translate failed")
		return domain.TranslationResult{}, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.TranslationResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 {
		return domain.TranslationResult{}, fmt.Errorf("%w: no choices", domain.ErrMalformedResponse)
	}

	result, err := llm.ParseResult(resp.Choices[0].Message.Content, req.SourceText)
	if err != nil {
		p.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("translate reply rejected")
		return domain.TranslationResult{}, err
	}
	p.logger.Debug().Dur("elapsed", time.Since(start)).Str("detected", result.DetectedLanguage).Msg("translated")
	return result, nil
}

// Validate lists models, the cheapest authenticated call the API offers.
func (p *Provider) Validate(ctx context.Context, creds ports.Credentials) bool {
	httpReq, err := llm.NewJSONRequest(ctx, http.MethodGet, llm.JoinURL(creds.BaseURL, "models"), nil)
	if err != nil {
		return false
	}
	httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)

	if _, err := llm.Do(p.client, httpReq, domain.ProviderOpenAI); err != nil {
		p.logger.Debug().Err(err).Msg("credential rejected")
		return false
	}
	return true
}
