// Package store persists the user's provider configuration as a single JSON
// document, the desktop counterpart of one browser local-storage key.
//
// File format:
//
//	{"provider": "claude", "apiKey": "", "baseUrl": "https://..."}
//
// baseUrl is optional. The file is written with 0600 permissions since it
// may hold an API key.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flashtranslate/internal/domain"
)

// FileStore implements ports.ConfigStore on top of one JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

type persistedConfig struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl,omitempty"`
}

// Load reads the stored configuration. A missing file yields the first-run
// default. Missing fields are tolerated; an unknown provider falls back to
// the default provider. A file that is not JSON returns the default together
// with an error so the caller can warn and carry on.
func (s *FileStore) Load() (domain.ProviderConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultProviderConfig(), nil
		}
		return domain.DefaultProviderConfig(), fmt.Errorf("read provider config %q: %w", s.path, err)
	}

	var raw persistedConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.DefaultProviderConfig(), fmt.Errorf("parse provider config %q: %w", s.path, err)
	}

	provider, err := domain.ParseProvider(raw.Provider)
	if err != nil {
		provider = domain.DefaultProvider
	}
	return domain.ProviderConfig{
		Provider: provider,
		APIKey:   strings.TrimSpace(raw.APIKey),
		BaseURL:  strings.TrimSpace(raw.BaseURL),
	}, nil
}

// Save replaces the stored configuration atomically.
func (s *FileStore) Save(cfg domain.ProviderConfig) error {
	cfg, err := cfg.Normalize()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(persistedConfig{
		Provider: string(cfg.Provider),
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal provider config: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".provider-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace provider config: %w", err)
	}
	return nil
}
