package bootstrap

import (
	"github.com/rs/zerolog"

	"flashtranslate/internal/config"
	"flashtranslate/internal/gateway"
	"flashtranslate/internal/httpclient"
	"flashtranslate/internal/logging"
	"flashtranslate/internal/ports"
	"flashtranslate/internal/providers/claude"
	"flashtranslate/internal/providers/gemini"
	"flashtranslate/internal/providers/openai"
	"flashtranslate/internal/store"
	"flashtranslate/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.TranslationController
	Store      *store.FileStore
	Config     config.Config
	Logger     zerolog.Logger

	// StoreWarning is set when the persisted provider config could not be
	// read and the default was used instead.
	StoreWarning error
}

// Build loads configuration from the environment and wires all backend
// dependencies for the current runtime.
func Build(eventSink ports.EventSink, clipboard ports.Clipboard) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return Services{}, err
	}
	return BuildWithConfig(cfg, logger, eventSink, clipboard)
}

// BuildWithConfig is Build for callers that already resolved cfg.
func BuildWithConfig(cfg config.Config, logger zerolog.Logger, eventSink ports.EventSink, clipboard ports.Clipboard) (Services, error) {
	gw, err := NewGateway(cfg, logger)
	if err != nil {
		return Services{}, err
	}

	fileStore := store.NewFileStore(cfg.StorePath)
	initial, storeErr := fileStore.Load()
	if storeErr != nil {
		logger.Warn().Err(storeErr).Str("path", fileStore.Path()).Msg("stored provider config unreadable, using defaults")
	}
	if cfg.SystemAPIKey != "" {
		logger.Info().Msg("managed Claude credential configured")
	}

	controller := usecase.NewTranslationController(
		gw,
		fileStore,
		clipboard,
		eventSink,
		initial,
		usecase.Config{MinChecking: cfg.MinCheckingDuration},
		logger,
	)

	return Services{
		Controller:   controller,
		Store:        fileStore,
		Config:       cfg,
		Logger:       logger,
		StoreWarning: storeErr,
	}, nil
}

// NewGateway builds the shared HTTP client, the three adapters and the
// gateway in front of them.
func NewGateway(cfg config.Config, logger zerolog.Logger) (*gateway.Gateway, error) {
	client, err := httpclient.New(httpclient.Options{
		Timeout:   cfg.HTTPClientTimeout,
		ProxyURL:  cfg.HTTPProxy,
		LogBodies: cfg.LogHTTPBodies,
	}, logger)
	if err != nil {
		return nil, err
	}

	return gateway.New(
		gateway.Adapters{
			Gemini: gemini.NewProvider(gemini.Config{
				Model:           cfg.GeminiModel,
				ValidationModel: cfg.GeminiValidationModel,
			}, client, logger),
			OpenAI: openai.NewProvider(openai.Config{Model: cfg.OpenAIModel}, client, logger),
			Claude: claude.NewProvider(claude.Config{
				Model:     cfg.ClaudeModel,
				MaxTokens: cfg.ClaudeMaxTokens,
			}, client, logger),
		},
		gateway.Config{
			System: gateway.SystemDefaults{
				APIKey:  cfg.SystemAPIKey,
				BaseURL: cfg.SystemBaseURL,
			},
			TranslateTimeout: cfg.TranslateTimeout,
			ValidateTimeout:  cfg.ValidateTimeout,
		},
		logger,
	), nil
}
