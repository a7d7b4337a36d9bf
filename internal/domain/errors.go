package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput          = errors.New("text is empty")
	ErrMissingCredential   = errors.New("api key is missing")
	ErrMalformedResponse   = errors.New("malformed translation response")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrTimeout             = errors.New("request timed out")
	ErrTranslationInFlight = errors.New("a translation is already in progress")
	ErrNothingToCopy       = errors.New("there is no translation to copy")
)

// CredentialError is returned when no usable credential resolves for a
// provider. It matches ErrMissingCredential.
type CredentialError struct {
	Provider Provider
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s API key is missing. Please configure it in settings.", e.Provider.Label())
}

func (e *CredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// UpstreamError reports a non-success response from a vendor API.
type UpstreamError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API request failed (status %d)", e.Provider.Label(), e.StatusCode)
	}
	return fmt.Sprintf("%s API request failed", e.Provider.Label())
}

const genericErrorMessage = "An unexpected error occurred"

// UserMessage turns any translate-path error into the text shown in the
// error toast.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Error()
	}
	var credential *CredentialError
	if errors.As(err, &credential) {
		return credential.Error()
	}
	switch {
	case errors.Is(err, ErrTimeout):
		return "The translation service did not respond in time. Please try again."
	case errors.Is(err, ErrMalformedResponse):
		return "The translation service returned an unexpected response. Please try again."
	case errors.Is(err, context.Canceled):
		return "The translation was canceled."
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return genericErrorMessage
}
