package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"flashtranslate/internal/domain"
)

const maxResponseBytes = 4 << 20

// NewJSONRequest builds a request with a JSON body.
func NewJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Do sends req and returns the body of a 2xx response. Any other status
// becomes a *domain.UpstreamError carrying the vendor's message when it sent
// one.
func Do(client *http.Client, req *http.Request, provider domain.Provider) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, TransportError(provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, TransportError(provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    ExtractErrorMessage(body),
		}
	}
	return body, nil
}

// TransportError maps deadline and network timeouts to domain.ErrTimeout.
// Cancellation is returned unchanged.
func TransportError(provider domain.Provider, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w", provider.Label(), domain.ErrTimeout)
	}
	return fmt.Errorf("%s request: %w", provider.Label(), err)
}

// ExtractErrorMessage reads the vendor error envelope. All three vendors use
// {"error": {"message": "..."}}; a bare string is accepted as well.
func ExtractErrorMessage(body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if len(envelope.Error) > 0 {
		var detail struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &detail); err == nil && strings.TrimSpace(detail.Message) != "" {
			return strings.TrimSpace(detail.Message)
		}
		var text string
		if err := json.Unmarshal(envelope.Error, &text); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return strings.TrimSpace(envelope.Message)
}

// JoinURL appends path to a base URL that has no trailing slash.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
