package claude

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

const apiVersion = "2023-06-01"

// Config controls the messages call.
type Config struct {
	Model     string
	MaxTokens int
}

// Provider implements ports.TranslationProvider for the Anthropic messages
// API.
type Provider struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

func NewProvider(cfg Config, client *http.Client, logger zerolog.Logger) *Provider {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "claude-3-5-haiku-20241022"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{cfg: cfg, client: client, logger: logger.With().Str("provider", string(domain.ProviderClaude)).Logger()}
}

func (p *Provider) Name() domain.Provider {
	return domain.ProviderClaude
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *Provider) Translate(ctx context.Context, req domain.TranslationRequest, creds ports.Credentials) (domain.TranslationResult, error) {
	start := time.Now()

	httpReq, err := p.newRequest(ctx, creds, messagesRequest{
		Model:     p.cfg.Model,
		MaxTokens: p.cfg.MaxTokens,
		System:    llm.SystemInstruction + llm.StrictJSONHint,
		Messages:  []message{{Role: "user", Content: llm.UserPrompt(req)}},
	})
	if err != nil {
		return domain.TranslationResult{}, err
	}

	body, err := llm.Do(p.client, httpReq, domain.ProviderClaude)
	if err != nil {
		p.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("translate failed")
		return domain.TranslationResult{}, err
	}

	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.TranslationResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return domain.TranslationResult{}, fmt.Errorf("%w: no text content", domain.ErrMalformedResponse)
	}

	result, err := llm.ParseResult(text.String(), req.SourceText)
	if err != nil {
		p.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("translate reply rejected")
		return domain.TranslationResult{}, err
	}
	p.logger.Debug().Dur("elapsed", time.Since(start)).Str("detected", result.DetectedLanguage).Msg("translated")
	return result, nil
}

// Validate sends a one-token message.
func (p *Provider) Validate(ctx context.Context, creds ports.Credentials) bool {
	httpReq, err := p.newRequest(ctx, creds, messagesRequest{
		Model:     p.cfg.Model,
		MaxTokens: 1,
		Messages:  []message{{Role: "user", Content: "ping"}},
	})
	if err != nil {
		return false
	}
	if _, err := llm.Do(p.client, httpReq, domain.ProviderClaude); err != nil {
		p.logger.Debug().Err(err).Msg("credential rejected")
		return false
	}
	return true
}

func (p *Provider) newRequest(ctx context.Context, creds ports.Credentials, payload messagesRequest) (*http.Request, error) {
	req, err := llm.NewJSONRequest(ctx, http.MethodPost, llm.JoinURL(creds.BaseURL, "messages"), payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", creds.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	return req, nil
}
