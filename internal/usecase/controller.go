package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"flashtranslate/internal/domain"
	"flashtranslate/internal/ports"
)

// Config controls controller timing.
type Config struct {
	// MinChecking is the shortest time the "checking" status stays visible.
	MinChecking time.Duration
}

// TranslationController owns the UI state and sequences translation and
// credential validation. Events are emitted while the state lock is held, so
// sinks must not call back into the controller.
type TranslationController struct {
	gateway ports.TranslationGateway
	store   ports.ConfigStore
	events  ports.EventSink
	copier  translationCopier
	cfg     Config
	logger  zerolog.Logger

	rootCtx    context.Context
	rootCancel context.CancelFunc
	checks     sync.WaitGroup

	// saveMu orders saves so the stored and the current config agree.
	saveMu sync.Mutex

	mu         sync.Mutex
	state      domain.UIState
	config     domain.ProviderConfig
	generation uint64
	current    *validationCheck
	closed     bool
}

func NewTranslationController(
	gateway ports.TranslationGateway,
	store ports.ConfigStore,
	clipboard ports.Clipboard,
	events ports.EventSink,
	initial domain.ProviderConfig,
	cfg Config,
	logger zerolog.Logger,
) *TranslationController {
	if cfg.MinChecking < 0 {
		cfg.MinChecking = 0
	}
	if normalized, err := initial.Normalize(); err == nil {
		initial = normalized
	} else {
		initial = domain.DefaultProviderConfig()
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	return &TranslationController{
		gateway:    gateway,
		store:      store,
		events:     events,
		copier:     newTranslationCopier(clipboard, events),
		cfg:        cfg,
		logger:     logger.With().Str("component", "controller").Logger(),
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
		config:     initial,
		state: domain.UIState{
			TargetLanguage: domain.DefaultTargetLanguage(),
			Validation:     domain.ValidationUnknown,
			Provider:       initial.Provider,
		},
	}
}

// State returns a snapshot of the UI state.
func (c *TranslationController) State() domain.UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *TranslationController) Config() domain.ProviderConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// ConfigView is the settings form model for the current configuration.
func (c *TranslationController) ConfigView() domain.ConfigView {
	return c.gateway.Describe(c.Config())
}

func (c *TranslationController) SetSourceText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SourceText = text
	c.events.StateChanged(c.state, domain.StateReasonSourceEdited)
}

func (c *TranslationController) SetTargetLanguage(code string) error {
	lang, err := domain.ParseLanguage(code)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.TargetLanguage = lang
	c.events.StateChanged(c.state, domain.StateReasonTargetChanged)
	return nil
}

// Translate runs one translation of the current source text. An empty source
// or a translation already in flight is rejected without touching state. A
// canceled caller leaves no error behind; any other failure ends up as the
// error message in state.
func (c *TranslationController) Translate(ctx context.Context) (domain.TranslationResult, error) {
	c.mu.Lock()
	if c.state.Translating {
		c.mu.Unlock()
		return domain.TranslationResult{}, domain.ErrTranslationInFlight
	}
	if strings.TrimSpace(c.state.SourceText) == "" {
		c.mu.Unlock()
		return domain.TranslationResult{}, domain.ErrEmptyInput
	}

	c.state.Translating = true
	c.state.Error = ""
	cfg := c.config
	req := domain.TranslationRequest{
		SourceText:     c.state.SourceText,
		TargetLanguage: c.state.TargetLanguage.Name,
	}
	c.events.StateChanged(c.state, domain.StateReasonTranslating)
	c.mu.Unlock()

	requestID := uuid.NewString()
	start := time.Now()
	result, err := c.gateway.Translate(ctx, cfg, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Translating = false

	if errors.Is(err, context.Canceled) {
		c.logger.Info().Str("request_id", requestID).Str("provider", string(cfg.Provider)).Msg("translation canceled")
		c.events.StateChanged(c.state, domain.StateReasonTranslationCanceled)
		return domain.TranslationResult{}, err
	}
	if err != nil {
		msg := domain.UserMessage(err)
		c.state.Error = msg
		c.logger.Warn().Err(err).Str("request_id", requestID).Str("provider", string(cfg.Provider)).Dur("elapsed", time.Since(start)).Msg("translation failed")
		c.events.StateChanged(c.state, domain.StateReasonTranslationFailed)
		c.events.Error(domain.ErrorCodeTranslation, msg)
		return domain.TranslationResult{}, err
	}

	c.state.TargetText = result.TranslatedText
	c.state.DetectedLanguage = result.DetectedLanguage
	c.logger.Info().Str("request_id", requestID).Str("provider", string(cfg.Provider)).Str("detected", result.DetectedLanguage).Dur("elapsed", time.Since(start)).Msg("translation completed")
	c.events.StateChanged(c.state, domain.StateReasonTranslated)
	return result, nil
}

// SaveConfig persists cfg, makes it current, clears any error and starts a
// fresh validation. If persisting fails nothing changes.
func (c *TranslationController) SaveConfig(cfg domain.ProviderConfig) error {
	cfg, err := cfg.Normalize()
	if err != nil {
		return err
	}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if err := c.store.Save(cfg); err != nil {
		c.events.Error(domain.ErrorCodeConfig, "Could not save settings. Please try again.")
		return fmt.Errorf("save provider config: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.config = cfg
	c.state.Provider = cfg.Provider
	c.state.Error = ""
	c.startValidationLocked()
	c.events.StateChanged(c.state, domain.StateReasonConfigSaved)
	return nil
}

// RefreshValidation checks the current configuration again, typically once
// at startup.
func (c *TranslationController) RefreshValidation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startValidationLocked()
}

func (c *TranslationController) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Error == "" {
		return
	}
	c.state.Error = ""
	c.events.StateChanged(c.state, domain.StateReasonErrorDismissed)
}

// CopyTranslation puts the current translated text on the clipboard.
func (c *TranslationController) CopyTranslation(ctx context.Context) error {
	c.mu.Lock()
	text := c.state.TargetText
	c.mu.Unlock()

	if err := c.copier.Copy(ctx, text); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.events.StateChanged(c.state, domain.StateReasonTranslationCopied)
	return nil
}

// Close cancels any validation in flight and waits for it to finish. Its
// outcome is discarded.
func (c *TranslationController) Close() {
	c.mu.Lock()
	c.closed = true
	if c.current != nil {
		c.current.stop()
	}
	c.mu.Unlock()

	c.rootCancel()
	c.checks.Wait()
}

// startValidationLocked supersedes any running check. The caller holds c.mu.
func (c *TranslationController) startValidationLocked() {
	if c.closed {
		return
	}
	if c.current != nil {
		c.current.stop()
	}

	c.generation++
	ctx, cancel := context.WithCancel(c.rootCtx)
	check := newValidationCheck(c.generation, cancel)
	c.current = check

	c.state.Validation = domain.ValidationChecking
	c.events.ValidationChanged(domain.ValidationChecking)

	cfg := c.config
	c.checks.Add(1)
	go c.runValidation(ctx, check, cfg)
}

func (c *TranslationController) runValidation(ctx context.Context, check *validationCheck, cfg domain.ProviderConfig) {
	defer c.checks.Done()
	defer check.stop()

	minimum := time.NewTimer(c.cfg.MinChecking)
	defer minimum.Stop()

	ok := c.gateway.ValidateCredential(ctx, cfg)

	select {
	case <-minimum.C:
	case <-ctx.Done():
	}

	status := domain.ValidationInvalid
	if ok {
		status = domain.ValidationValid
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != check || c.generation != check.generation || ctx.Err() != nil {
		c.logger.Debug().Uint64("generation", check.generation).Msg("discarding superseded validation")
		return
	}
	c.current = nil
	c.state.Validation = status
	c.events.ValidationChanged(status)
}

func (c *TranslationController) waitValidations() {
	c.checks.Wait()
}
