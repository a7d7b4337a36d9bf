package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"flashtranslate/internal/bootstrap"
	"flashtranslate/internal/config"
	"flashtranslate/internal/domain"
	"flashtranslate/internal/usecase"
)

// App is the Wails application root. Its exported methods are bound to the
// frontend; it is also the controller's event sink.
type App struct {
	ctx context.Context

	controller *usecase.TranslationController
	cfg        config.Config
	storePath  string
	logger     zerolog.Logger
	bootErr    error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a, &wailsClipboard{})
	if err != nil {
		a.bootErr = err
		a.Error(domain.ErrorCodeStartup, err.Error())
		return
	}
	a.attach(services)
}

func (a *App) attach(services bootstrap.Services) {
	a.cfg = services.Config
	a.controller = services.Controller
	a.storePath = services.Store.Path()
	a.logger = services.Logger.With().Str("component", "desktop").Logger()
	a.logger.Info().Str("config_file", a.storePath).Str("provider", string(a.controller.Config().Provider)).Msg("desktop app ready")

	if services.StoreWarning != nil {
		a.Error(domain.ErrorCodeConfig, "Saved settings could not be read. Defaults were restored.")
	}
	a.StateChanged(a.controller.State(), domain.StateReasonLoaded)
	a.controller.RefreshValidation()
}

func (a *App) shutdown(_ context.Context) {
	if a.controller != nil {
		a.controller.Close()
		a.logger.Info().Msg("desktop app stopped")
	}
}

// GetState returns the current UI state.
func (a *App) GetState() domain.StateView {
	if a.controller == nil {
		state := domain.UIState{TargetLanguage: domain.DefaultTargetLanguage(), Validation: domain.ValidationUnknown}
		if a.bootErr != nil {
			state.Error = a.bootErr.Error()
		}
		return domain.NewStateView(state)
	}
	return domain.NewStateView(a.controller.State())
}

// GetLanguages lists the target language choices.
func (a *App) GetLanguages() []domain.Language {
	return domain.SupportedLanguages()
}

// GetConfig returns the settings form model.
func (a *App) GetConfig() (domain.ConfigView, error) {
	if err := a.requireReady(); err != nil {
		return domain.ConfigView{}, err
	}
	return a.controller.ConfigView(), nil
}

// SaveConfig persists new provider settings and revalidates the credential.
func (a *App) SaveConfig(cfg domain.ProviderConfig) (domain.ConfigView, error) {
	if err := a.requireReady(); err != nil {
		return domain.ConfigView{}, err
	}
	if err := a.controller.SaveConfig(cfg); err != nil {
		return domain.ConfigView{}, err
	}
	return a.controller.ConfigView(), nil
}

func (a *App) SetSourceText(text string) (domain.StateView, error) {
	if err := a.requireReady(); err != nil {
		return domain.StateView{}, err
	}
	a.controller.SetSourceText(text)
	return domain.NewStateView(a.controller.State()), nil
}

func (a *App) SetTargetLanguage(code string) (domain.StateView, error) {
	if err := a.requireReady(); err != nil {
		return domain.StateView{}, err
	}
	if err := a.controller.SetTargetLanguage(code); err != nil {
		return domain.StateView{}, err
	}
	return domain.NewStateView(a.controller.State()), nil
}

// Translate translates the current source text. Failures are also reported
// through the state and error events.
func (a *App) Translate() (domain.TranslationResult, error) {
	if err := a.requireReady(); err != nil {
		return domain.TranslationResult{}, err
	}
	return a.controller.Translate(a.context())
}

func (a *App) DismissError() {
	if a.controller != nil {
		a.controller.DismissError()
	}
}

// CopyTranslation copies the translated text to the system clipboard.
func (a *App) CopyTranslation() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.CopyTranslation(a.context())
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	if a.controller == nil {
		return map[string]string{}
	}

	provider := a.controller.Config().Provider
	return map[string]string{
		"version":     version,
		"provider":    provider.Label(),
		"model":       provider.ModelLabel(),
		"configFile":  a.storePath,
		"environment": a.cfg.Environment,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// StateChanged pushes a state snapshot to the frontend.
func (a *App) StateChanged(state domain.UIState, reason domain.StateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, domain.EventState, domain.StateEvent{
		Reason:  reason,
		Message: reason.Message(),
		State:   domain.NewStateView(state),
	})
}

// ValidationChanged pushes the credential status indicator.
func (a *App) ValidationChanged(status domain.ValidationStatus) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, domain.EventValidation, domain.ValidationEvent{Status: status})
}

// Error emits backend errors to the UI.
func (a *App) Error(code domain.ErrorCode, message string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, domain.EventError, domain.ErrorEvent{Code: code, Message: errorMessage(code, message)})
}

func errorMessage(code domain.ErrorCode, detail string) string {
	if detail != "" {
		return detail
	}
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeClipboard:
		return "Clipboard write failed"
	case domain.ErrorCodeConfig:
		return "Settings could not be saved"
	case domain.ErrorCodeTranslation:
		return "Translation failed"
	default:
		return "Unknown error"
	}
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
