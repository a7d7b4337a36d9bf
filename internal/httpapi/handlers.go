package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"flashtranslate/internal/domain"
)

type sourceRequest struct {
	Text string `json:"text"`
}

type targetRequest struct {
	Code string `json:"code"`
}

type configRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl"`
}

type providerOption struct {
	ID             domain.Provider `json:"id"`
	Label          string          `json:"label"`
	ModelLabel     string          `json:"modelLabel"`
	DefaultBaseURL string          `json:"defaultBaseUrl"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "flashtranslate",
		"time":    time.Now().UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return success(c, map[string]any{
		"items":   domain.SupportedLanguages(),
		"default": domain.DefaultTargetLanguage().Code,
	})
}

func (s *Server) handleState(c echo.Context) error {
	return success(c, domain.NewStateView(s.controller.State()))
}

func (s *Server) handleSetSource(c echo.Context) error {
	var req sourceRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"text": "must be a string"})
	}
	s.controller.SetSourceText(req.Text)
	return success(c, domain.NewStateView(s.controller.State()))
}

func (s *Server) handleSetTarget(c echo.Context) error {
	var req targetRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"code": "must be a string"})
	}
	if err := s.controller.SetTargetLanguage(req.Code); err != nil {
		return failValidation(c, map[string]string{"code": "unsupported language"})
	}
	return success(c, domain.NewStateView(s.controller.State()))
}

func (s *Server) handleDismissError(c echo.Context) error {
	s.controller.DismissError()
	return success(c, domain.NewStateView(s.controller.State()))
}

func (s *Server) handleTranslate(c echo.Context) error {
	result, err := s.controller.Translate(c.Request().Context())
	switch {
	case err == nil:
		return success(c, map[string]any{
			"result": result,
			"state":  domain.NewStateView(s.controller.State()),
		})
	case errors.Is(err, domain.ErrEmptyInput):
		return fail(c, http.StatusBadRequest, "Enter some text to translate.", nil)
	case errors.Is(err, domain.ErrTranslationInFlight):
		return fail(c, http.StatusConflict, "A translation is already in progress.", nil)
	case errors.Is(err, domain.ErrMissingCredential):
		return fail(c, http.StatusPreconditionFailed, domain.UserMessage(err), nil)
	default:
		return serverError(c, http.StatusBadGateway, domain.UserMessage(err))
	}
}

func (s *Server) handleConfig(c echo.Context) error {
	options := make([]providerOption, 0, len(domain.Providers()))
	for _, p := range domain.Providers() {
		options = append(options, providerOption{
			ID:             p,
			Label:          p.Label(),
			ModelLabel:     p.ModelLabel(),
			DefaultBaseURL: p.DefaultBaseURL(),
		})
	}
	return success(c, map[string]any{
		"config":    s.controller.ConfigView(),
		"providers": options,
	})
}

func (s *Server) handleSaveConfig(c echo.Context) error {
	var req configRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}

	err := s.controller.SaveConfig(domain.ProviderConfig{
		Provider: domain.Provider(req.Provider),
		APIKey:   req.APIKey,
		BaseURL:  req.BaseURL,
	})
	switch {
	case err == nil:
		return success(c, map[string]any{"config": s.controller.ConfigView()})
	case errors.Is(err, domain.ErrUnsupportedProvider):
		return failValidation(c, map[string]string{"provider": "unsupported provider"})
	default:
		s.logger.Error().Err(err).Msg("save config failed")
		return serverError(c, http.StatusInternalServerError, "Could not save settings.")
	}
}
