package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCredentialErrorMatchesSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("translate: %w", &CredentialError{Provider: ProviderOpenAI})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential match")
	}
	if got := err.Error(); got != "translate: OpenAI API key is missing. Please configure it in settings." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestUpstreamErrorMessage(t *testing.T) {
	t.Parallel()

	withMessage := &UpstreamError{Provider: ProviderClaude, StatusCode: 401, Message: "invalid x-api-key"}
	if withMessage.Error() != "invalid x-api-key" {
		t.Fatalf("expected vendor message, got %q", withMessage.Error())
	}

	withStatus := &UpstreamError{Provider: ProviderOpenAI, StatusCode: 502}
	if withStatus.Error() != "OpenAI API request failed (status 502)" {
		t.Fatalf("unexpected status message: %q", withStatus.Error())
	}

	bare := &UpstreamError{Provider: ProviderGemini}
	if bare.Error() != "Gemini API request failed" {
		t.Fatalf("unexpected bare message: %q", bare.Error())
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "upstream", err: fmt.Errorf("wrap: %w", &UpstreamError{Provider: ProviderOpenAI, Message: "quota exceeded"}), want: "quota exceeded"},
		{name: "credential", err: &CredentialError{Provider: ProviderGemini}, want: "Gemini API key is missing. Please configure it in settings."},
		{name: "timeout", err: fmt.Errorf("claude: %w", ErrTimeout), want: "The translation service did not respond in time. Please try again."},
		{name: "malformed", err: fmt.Errorf("%w: bad json", ErrMalformedResponse), want: "The translation service returned an unexpected response. Please try again."},
		{name: "canceled", err: fmt.Errorf("OpenAI request: %w", context.Canceled), want: "The translation was canceled."},
		{name: "plain", err: errors.New("boom"), want: "boom"},
		{name: "blank", err: errors.New("  "), want: genericErrorMessage},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := UserMessage(tc.err); got != tc.want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}
}
