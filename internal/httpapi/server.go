// Package httpapi serves the translator to a plain browser: the embedded
// frontend, a JSON API under /api/v1 and a websocket event stream.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"flashtranslate/internal/domain"
)

// Controller is the part of the translation controller the API drives.
type Controller interface {
	State() domain.UIState
	ConfigView() domain.ConfigView
	SetSourceText(text string)
	SetTargetLanguage(code string) error
	Translate(ctx context.Context) (domain.TranslationResult, error)
	SaveConfig(cfg domain.ProviderConfig) error
	DismissError()
}

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// IndexHTML is served at "/". Nothing is mounted there when empty.
	IndexHTML []byte
}

type Server struct {
	controller Controller
	hub        *Hub
	logger     zerolog.Logger
	opts       Options
}

func NewServer(controller Controller, hub *Hub, logger zerolog.Logger, opts Options) *Server {
	if strings.TrimSpace(opts.Host) == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.Port <= 0 {
		opts.Port = 8787
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 90 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{controller: controller, hub: hub, logger: logger, opts: opts}
}

// Handler builds the routed echo instance.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	if len(s.opts.IndexHTML) > 0 {
		e.GET("/", func(c echo.Context) error {
			return c.Blob(http.StatusOK, "text/html; charset=utf-8", s.opts.IndexHTML)
		})
	}

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/languages", s.handleLanguages)
	api.GET("/state", s.handleState)
	api.PUT("/state/source", s.handleSetSource)
	api.PUT("/state/target", s.handleSetTarget)
	api.DELETE("/state/error", s.handleDismissError)
	api.POST("/translate", s.handleTranslate)
	api.GET("/config", s.handleConfig)
	api.PUT("/config", s.handleSaveConfig)
	if s.hub != nil {
		api.GET("/events", s.hub.serveWS)
	}
	return e
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.controller == nil {
		return fmt.Errorf("server is not initialized")
	}

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		if s.hub != nil {
			s.hub.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("flashtranslate web server started")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("flashtranslate web server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if text, ok := he.Message.(string); ok && strings.TrimSpace(text) != "" {
			message = text
		} else if text := http.StatusText(status); text != "" {
			message = text
		}
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		if status >= 500 {
			_ = serverError(c, status, "Internal server error")
			return
		}
		_ = fail(c, status, message, nil)
		return
	}
	_ = c.String(status, message)
}
