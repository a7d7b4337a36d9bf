// Package httpclient builds the single *http.Client every vendor adapter
// shares.
package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Timeout   time.Duration
	ProxyURL  string
	LogBodies bool
}

// New returns a client with an explicit timeout. An explicit proxy wins over
// HTTP_PROXY/HTTPS_PROXY from the environment.
func New(opts Options, logger zerolog.Logger) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxy := strings.TrimSpace(opts.ProxyURL); proxy != "" {
		parsed, err := url.Parse(proxy)
		if err != nil || parsed.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q", proxy)
		}
		transport.Proxy = http.ProxyURL(parsed)
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: NewLoggingTransport(transport, logger.With().Str("component", "http").Logger(), WithBodies(opts.LogBodies)),
		Timeout:   opts.Timeout,
	}, nil
}
