package ports

import (
	"context"

	"flashtranslate/internal/domain"
)

// Credentials are what an adapter authenticates with after fallback
// resolution: a non-empty key and a base URL without trailing slashes.
type Credentials struct {
	APIKey  string
	BaseURL string
}

// TranslationProvider is one vendor adapter.
type TranslationProvider interface {
	Name() domain.Provider
	Translate(ctx context.Context, req domain.TranslationRequest, creds Credentials) (domain.TranslationResult, error)
	// Validate reports whether creds authenticate. Every failure is false.
	Validate(ctx context.Context, creds Credentials) bool
}

// TranslationGateway routes requests to the adapter of the configured provider.
type TranslationGateway interface {
	Translate(ctx context.Context, cfg domain.ProviderConfig, req domain.TranslationRequest) (domain.TranslationResult, error)
	ValidateCredential(ctx context.Context, cfg domain.ProviderConfig) bool
	Describe(cfg domain.ProviderConfig) domain.ConfigView
}

// ConfigStore persists the provider configuration.
type ConfigStore interface {
	Load() (domain.ProviderConfig, error)
	Save(cfg domain.ProviderConfig) error
	Path() string
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// EventSink emits controller state to the UI.
type EventSink interface {
	StateChanged(state domain.UIState, reason domain.StateReason)
	ValidationChanged(status domain.ValidationStatus)
	Error(code domain.ErrorCode, message string)
}
