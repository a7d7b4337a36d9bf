package gateway

import (
	"strings"

	"flashtranslate/internal/domain"
)

// SystemDefaults is the managed credential supplied by the deployment. It is
// only ever read from the environment.
type SystemDefaults struct {
	APIKey  string
	BaseURL string
}

// ResolveCredential applies the per-vendor fallback: only Claude falls back
// to the managed key when the user left theirs empty. Gemini and OpenAI are
// bring-your-own. An empty result means no usable credential.
func ResolveCredential(provider domain.Provider, userKey string, sys SystemDefaults) string {
	if key := strings.TrimSpace(userKey); key != "" {
		return key
	}
	if provider == domain.ProviderClaude {
		return strings.TrimSpace(sys.APIKey)
	}
	return ""
}

// ResolveEndpoint picks the base URL. A user override always wins. Without
// one, Claude running on the managed key uses the managed endpoint if set.
// Otherwise the vendor default applies.
func ResolveEndpoint(provider domain.Provider, userKey, override string, sys SystemDefaults) string {
	if o := trimEndpoint(override); o != "" {
		return o
	}
	if provider == domain.ProviderClaude && strings.TrimSpace(userKey) == "" {
		if s := trimEndpoint(sys.BaseURL); s != "" {
			return s
		}
	}
	return provider.DefaultBaseURL()
}

func trimEndpoint(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
