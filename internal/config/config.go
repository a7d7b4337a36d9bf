package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable read by Load. Unprefixed names are
// accepted as a fallback, for example LOG_LEVEL.
const EnvPrefix = "FLASHTRANSLATE"

const storeFileName = "flash_translate_api_config.json"

// Config stores runtime configuration. The user's provider choice is not
// here: it lives in the persisted store at StorePath.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// The managed credential used when the user supplies none. Environment
	// only; there is deliberately no default.
	SystemAPIKey  string `envconfig:"SYSTEM_API_KEY"`
	SystemBaseURL string `envconfig:"SYSTEM_BASE_URL"`

	GeminiModel           string `envconfig:"GEMINI_MODEL" default:"gemini-flash-lite-latest"`
	GeminiValidationModel string `envconfig:"GEMINI_VALIDATION_MODEL" default:"gemini-2.5-flash"`
	OpenAIModel           string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	ClaudeModel           string `envconfig:"CLAUDE_MODEL" default:"claude-3-5-haiku-20241022"`
	ClaudeMaxTokens       int    `envconfig:"CLAUDE_MAX_TOKENS" default:"1024"`

	TranslateTimeout    time.Duration `envconfig:"TRANSLATE_TIMEOUT" default:"60s"`
	ValidateTimeout     time.Duration `envconfig:"VALIDATE_TIMEOUT" default:"15s"`
	MinCheckingDuration time.Duration `envconfig:"MIN_CHECKING_DURATION" default:"600ms"`
	HTTPClientTimeout   time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"90s"`
	HTTPProxy           string        `envconfig:"HTTP_PROXY_URL"`
	LogHTTPBodies       bool          `envconfig:"LOG_HTTP_BODIES" default:"false"`

	StorePath string `envconfig:"CONFIG_FILE"`

	HTTPHost            string        `envconfig:"HTTP_HOST" default:"127.0.0.1"`
	HTTPPort            int           `envconfig:"HTTP_PORT" default:"8787"`
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"90s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load resolves configuration from the environment and defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, err
	}

	cfg.SystemAPIKey = strings.TrimSpace(cfg.SystemAPIKey)
	cfg.SystemBaseURL = strings.TrimSpace(cfg.SystemBaseURL)
	cfg.StorePath = strings.TrimSpace(cfg.StorePath)

	if cfg.StorePath == "" {
		path, err := defaultStorePath()
		if err != nil {
			return Config{}, err
		}
		cfg.StorePath = path
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TranslateTimeout <= 0 {
		return fmt.Errorf("TRANSLATE_TIMEOUT must be > 0")
	}
	if c.ValidateTimeout <= 0 {
		return fmt.Errorf("VALIDATE_TIMEOUT must be > 0")
	}
	if c.MinCheckingDuration < 0 {
		return fmt.Errorf("MIN_CHECKING_DURATION must be >= 0")
	}
	if c.HTTPClientTimeout <= 0 {
		return fmt.Errorf("HTTP_CLIENT_TIMEOUT must be > 0")
	}
	if c.ClaudeMaxTokens < 1 {
		return fmt.Errorf("CLAUDE_MAX_TOKENS must be >= 1")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if strings.TrimSpace(c.GeminiModel) == "" || strings.TrimSpace(c.GeminiValidationModel) == "" {
		return fmt.Errorf("GEMINI_MODEL and GEMINI_VALIDATION_MODEL are required")
	}
	if strings.TrimSpace(c.OpenAIModel) == "" {
		return fmt.Errorf("OPENAI_MODEL is required")
	}
	if strings.TrimSpace(c.ClaudeModel) == "" {
		return fmt.Errorf("CLAUDE_MODEL is required")
	}
	return nil
}

// LoadEnvFile loads a .env file without overriding variables that are
// already set. A missing file is not an error; the returned path is empty
// when nothing was loaded.
func LoadEnvFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat env file %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("load env file %q: %w", path, err)
	}
	return path, nil
}

func defaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", errors.New("could not determine config directory")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flashtranslate", storeFileName), nil
}
