package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const maxLoggedBody = 1024

const redacted = "[REDACTED]"

// Headers that carry vendor credentials. They are never logged.
var sensitiveHeaders = map[string]struct{}{
	"authorization":  {},
	"x-api-key":      {},
	"x-goog-api-key": {},
}

type Option func(*loggingTransport)

// WithBodies logs up to 1KB of each request and response body at trace level.
func WithBodies(enabled bool) Option {
	return func(t *loggingTransport) {
		t.logBody = enabled
	}
}

type loggingTransport struct {
	next    http.RoundTripper
	logger  zerolog.Logger
	logBody bool
}

// NewLoggingTransport wraps next with debug logging of every vendor call.
// Credential headers and the "key" query parameter are redacted.
func NewLoggingTransport(next http.RoundTripper, logger zerolog.Logger, opts ...Option) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	t := &loggingTransport{next: next, logger: logger}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	event := t.logger.Debug().
		Str("method", req.Method).
		Str("url", RedactURL(req.URL.String())).
		Interface("headers", RedactHeaders(req.Header))
	if t.logBody && req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			snippet, _ := io.ReadAll(io.LimitReader(body, maxLoggedBody))
			body.Close()
			event = event.Bytes("body", snippet)
		}
	}
	event.Msg("vendor request")

	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		t.logger.Debug().Err(err).
			Str("method", req.Method).
			Str("url", RedactURL(req.URL.String())).
			Dur("elapsed", elapsed).
			Msg("vendor request failed")
		return nil, err
	}

	respEvent := t.logger.Debug().
		Str("method", req.Method).
		Str("url", RedactURL(req.URL.String())).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed)
	if t.logBody && resp.Body != nil {
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(data))
		if readErr == nil {
			if len(data) > maxLoggedBody {
				data = data[:maxLoggedBody]
			}
			respEvent = respEvent.Bytes("body", data)
		}
	}
	respEvent.Msg("vendor response")

	return resp, nil
}

// RedactHeaders flattens headers for logging with credential values masked.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if _, secret := sensitiveHeaders[strings.ToLower(name)]; secret {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// RedactURL masks the Gemini "key" query parameter.
func RedactURL(raw string) string {
	idx := strings.Index(raw, "?")
	if idx < 0 {
		return raw
	}
	parts := strings.Split(raw[idx+1:], "&")
	for i, part := range parts {
		if strings.HasPrefix(part, "key=") {
			parts[i] = "key=" + redacted
		}
	}
	return raw[:idx+1] + strings.Join(parts, "&")
}
