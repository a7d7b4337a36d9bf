package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.SystemAPIKey != "" || cfg.SystemBaseURL != "" {
		t.Fatalf("system credential must not have a built-in default: %+v", cfg)
	}
	if cfg.GeminiModel != "gemini-flash-lite-latest" || cfg.GeminiValidationModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected gemini models: %q %q", cfg.GeminiModel, cfg.GeminiValidationModel)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" || cfg.ClaudeModel != "claude-3-5-haiku-20241022" {
		t.Fatalf("unexpected models: %q %q", cfg.OpenAIModel, cfg.ClaudeModel)
	}
	if cfg.ClaudeMaxTokens != 1024 {
		t.Fatalf("unexpected claude max tokens: %d", cfg.ClaudeMaxTokens)
	}
	if cfg.MinCheckingDuration != 600*time.Millisecond {
		t.Fatalf("unexpected min checking duration: %s", cfg.MinCheckingDuration)
	}
	if cfg.TranslateTimeout != time.Minute || cfg.ValidateTimeout != 15*time.Second {
		t.Fatalf("unexpected timeouts: %s %s", cfg.TranslateTimeout, cfg.ValidateTimeout)
	}
	if !strings.HasSuffix(cfg.StorePath, filepath.Join("flashtranslate", "flash_translate_api_config.json")) {
		t.Fatalf("unexpected store path: %q", cfg.StorePath)
	}
	if cfg.HTTPHost != "127.0.0.1" || cfg.HTTPPort != 8787 {
		t.Fatalf("unexpected http bind: %s:%d", cfg.HTTPHost, cfg.HTTPPort)
	}
}

func TestLoadRespectsOverrides(t *testing.T) {
	home := t.TempDir()
	store := filepath.Join(home, "provider.json")

	t.Setenv("HOME", home)
	t.Setenv("FLASHTRANSLATE_SYSTEM_API_KEY", "  managed-key ")
	t.Setenv("FLASHTRANSLATE_SYSTEM_BASE_URL", "https://relay.example.com/v1/")
	t.Setenv("FLASHTRANSLATE_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("FLASHTRANSLATE_CLAUDE_MAX_TOKENS", "256")
	t.Setenv("FLASHTRANSLATE_TRANSLATE_TIMEOUT", "5s")
	t.Setenv("FLASHTRANSLATE_MIN_CHECKING_DURATION", "0s")
	t.Setenv("FLASHTRANSLATE_CONFIG_FILE", store)
	t.Setenv("FLASHTRANSLATE_HTTP_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.SystemAPIKey != "managed-key" || cfg.SystemBaseURL != "https://relay.example.com/v1/" {
		t.Fatalf("unexpected system credential: %q %q", cfg.SystemAPIKey, cfg.SystemBaseURL)
	}
	if cfg.OpenAIModel != "gpt-4.1-mini" || cfg.ClaudeMaxTokens != 256 {
		t.Fatalf("unexpected model overrides: %+v", cfg)
	}
	if cfg.TranslateTimeout != 5*time.Second || cfg.MinCheckingDuration != 0 {
		t.Fatalf("unexpected timeouts: %s %s", cfg.TranslateTimeout, cfg.MinCheckingDuration)
	}
	if cfg.StorePath != store || cfg.HTTPPort != 9000 {
		t.Fatalf("unexpected store/port: %q %d", cfg.StorePath, cfg.HTTPPort)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLASHTRANSLATE_HTTP_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatalf("expected port validation error")
	}
}

func TestLoadRejectsUnparsableDuration(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLASHTRANSLATE_VALIDATE_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FLASHTRANSLATE_CLAUDE_MODEL=claude-from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Setenv("HOME", dir)
	t.Setenv("FLASHTRANSLATE_CLAUDE_MODEL", "")
	os.Unsetenv("FLASHTRANSLATE_CLAUDE_MODEL")

	loaded, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("load env file failed: %v", err)
	}
	if loaded != path {
		t.Fatalf("expected loaded path %q, got %q", path, loaded)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ClaudeModel != "claude-from-dotenv" {
		t.Fatalf("expected dotenv value, got %q", cfg.ClaudeModel)
	}
}

func TestLoadEnvFileMissingIsNotAnError(t *testing.T) {
	t.Parallel()

	loaded, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if loaded != "" {
		t.Fatalf("expected nothing loaded, got %q", loaded)
	}
}
