package domain

import (
	"fmt"
	"strings"
)

// Provider identifies one of the supported translation backends.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// DefaultProvider is used on first run, before anything has been saved.
const DefaultProvider = ProviderClaude

// Providers lists every supported provider in display order.
func Providers() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI, ProviderClaude}
}

// ParseProvider accepts a provider name in any case, surrounded by whitespace.
func ParseProvider(raw string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, raw)
	}
	return p, nil
}

func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderClaude:
		return true
	default:
		return false
	}
}

// Label is the human-readable vendor name.
func (p Provider) Label() string {
	switch p {
	case ProviderGemini:
		return "Gemini"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderClaude:
		return "Claude"
	default:
		return string(p)
	}
}

// ModelLabel names the model family shown in the status badge.
func (p Provider) ModelLabel() string {
	switch p {
	case ProviderOpenAI:
		return "GPT-4o Mini"
	case ProviderClaude:
		return "Claude 3.5 Haiku"
	default:
		return "Gemini 2.5 Flash Lite"
	}
}

// DefaultBaseURL is the vendor's published API endpoint.
func (p Provider) DefaultBaseURL() string {
	switch p {
	case ProviderGemini:
		return "https://generativelanguage.googleapis.com"
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	case ProviderClaude:
		return "https://api.anthropic.com/v1"
	default:
		return ""
	}
}

// ProviderConfig is the user's saved provider selection. It is replaced as a
// whole on every save.
type ProviderConfig struct {
	Provider Provider `json:"provider"`
	APIKey   string   `json:"apiKey"`
	BaseURL  string   `json:"baseUrl,omitempty"`
}

// DefaultProviderConfig is the first-run configuration: the managed provider
// with no user credential.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{Provider: DefaultProvider}
}

// Normalize trims the credential and endpoint and checks the provider.
func (c ProviderConfig) Normalize() (ProviderConfig, error) {
	provider, err := ParseProvider(string(c.Provider))
	if err != nil {
		return ProviderConfig{}, err
	}
	return ProviderConfig{
		Provider: provider,
		APIKey:   strings.TrimSpace(c.APIKey),
		BaseURL:  strings.TrimSpace(c.BaseURL),
	}, nil
}

// ConfigView is what the settings form renders.
type ConfigView struct {
	Provider        Provider `json:"provider"`
	APIKey          string   `json:"apiKey"`
	BaseURL         string   `json:"baseUrl,omitempty"`
	ResolvedBaseURL string   `json:"resolvedBaseUrl"`
	DefaultBaseURL  string   `json:"defaultBaseUrl"`
	UsingSystemKey  bool     `json:"usingSystemKey"`
}

// TranslationRequest is created per user action.
type TranslationRequest struct {
	SourceText     string
	TargetLanguage string // display name, for example "English"
}

// TranslationResult is the provider-independent outcome of a translation.
type TranslationResult struct {
	DetectedLanguage string `json:"detectedLanguage"`
	TranslatedText   string `json:"translatedText"`
}

// ValidationStatus drives the credential status indicator.
type ValidationStatus string

const (
	ValidationUnknown  ValidationStatus = "unknown"
	ValidationChecking ValidationStatus = "checking"
	ValidationValid    ValidationStatus = "valid"
	ValidationInvalid  ValidationStatus = "invalid"
)

// UIState is the single record the controller owns; everything else reads
// snapshots of it.
type UIState struct {
	SourceText       string           `json:"sourceText"`
	TargetText       string           `json:"targetText"`
	DetectedLanguage string           `json:"detectedLanguage,omitempty"`
	TargetLanguage   Language         `json:"targetLanguage"`
	Translating      bool             `json:"translating"`
	Error            string           `json:"error,omitempty"`
	Validation       ValidationStatus `json:"validation"`
	Provider         Provider         `json:"provider"`
}

// CanTranslate reports whether the translate trigger should be enabled.
func (s UIState) CanTranslate() bool {
	return !s.Translating && strings.TrimSpace(s.SourceText) != ""
}

// StateReason explains why a state snapshot was published.
type StateReason string

const (
	StateReasonLoaded              StateReason = "loaded"
	StateReasonSourceEdited        StateReason = "source_edited"
	StateReasonTargetChanged       StateReason = "target_changed"
	StateReasonTranslating         StateReason = "translating"
	StateReasonTranslated          StateReason = "translated"
	StateReasonTranslationFailed   StateReason = "translation_failed"
	StateReasonTranslationCanceled StateReason = "translation_canceled"
	StateReasonConfigSaved         StateReason = "config_saved"
	StateReasonErrorDismissed      StateReason = "error_dismissed"
	StateReasonTranslationCopied   StateReason = "translation_copied"
)

// ErrorCode identifies where a user-facing error came from.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeTranslation ErrorCode = "translation"
	ErrorCodeConfig      ErrorCode = "config"
	ErrorCodeClipboard   ErrorCode = "clipboard"
)
