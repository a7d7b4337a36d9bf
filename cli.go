package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"flashtranslate/internal/bootstrap"
	"flashtranslate/internal/config"
	"flashtranslate/internal/domain"
	"flashtranslate/internal/httpapi"
	"flashtranslate/internal/logging"
	"flashtranslate/internal/store"
)

var envFile string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flashtranslate",
		Short: "Translate text with Gemini, OpenAI or Claude",
		Long: `flashtranslate: a translation front-end for Gemini, OpenAI and Claude.

Without a subcommand the desktop window opens.

Commands:
  serve       Serve the web UI and JSON API on a local port
  translate   Translate text from arguments or stdin
  validate    Check the configured API key
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.LoadEnvFile(envFile)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", ".env", "Env file to load before reading configuration")

	root.AddCommand(
		newServeCmd(),
		newTranslateCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)

	return root
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "flashtranslate version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and JSON API",
		Long: `Serve the browser UI at / and the JSON API under /api/v1.

State changes are pushed to websocket clients on /api/v1/events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if host != "" {
				cfg.HTTPHost = host
			}
			if port > 0 {
				cfg.HTTPPort = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides HTTP_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides HTTP_PORT)")

	return cmd
}

func runServe(parent context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}

	hub := httpapi.NewHub(logger)
	services, err := bootstrap.BuildWithConfig(cfg, logger, hub, nil)
	if err != nil {
		return err
	}
	defer services.Controller.Close()

	logger = services.Logger.With().Str("component", "serve").Logger()

	index, err := indexHTML()
	if err != nil {
		logger.Warn().Err(err).Msg("embedded web UI unavailable, serving API only")
	}

	ctx, cancel := signalContext(parent)
	defer cancel()

	services.Controller.RefreshValidation()

	server := httpapi.NewServer(services.Controller, hub, logger, httpapi.Options{
		Host:            cfg.HTTPHost,
		Port:            cfg.HTTPPort,
		ReadTimeout:     cfg.HTTPReadTimeout,
		WriteTimeout:    cfg.HTTPWriteTimeout,
		ShutdownTimeout: cfg.HTTPShutdownTimeout,
		IndexHTML:       index,
	})
	return server.Start(ctx)
}

// ---------------------------------------------------------------------------
// translate / validate
// ---------------------------------------------------------------------------

type providerFlags struct {
	provider string
	apiKey   string
	baseURL  string
}

func (f *providerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "Provider: gemini, openai, claude (default: saved setting)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key (default: saved setting)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Custom API base URL")

	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"gemini\tGoogle Gemini",
			"openai\tOpenAI",
			"claude\tAnthropic Claude",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}

// apply layers the flags over the saved config. Switching provider drops the
// saved key and endpoint since they belong to another vendor.
func (f providerFlags) apply(saved domain.ProviderConfig) (domain.ProviderConfig, error) {
	cfg := saved
	if strings.TrimSpace(f.provider) != "" {
		provider, err := domain.ParseProvider(f.provider)
		if err != nil {
			return domain.ProviderConfig{}, err
		}
		if provider != saved.Provider {
			cfg = domain.ProviderConfig{Provider: provider}
		}
	}
	if strings.TrimSpace(f.apiKey) != "" {
		cfg.APIKey = f.apiKey
	}
	if strings.TrimSpace(f.baseURL) != "" {
		cfg.BaseURL = f.baseURL
	}
	return cfg.Normalize()
}

func newTranslateCmd() *cobra.Command {
	var (
		flags   providerFlags
		to      string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text",
		Long: `Translate text given as arguments, or read from stdin when no
arguments are given.

Examples:
  flashtranslate translate --to de "Good morning"
  echo "Bonjour" | flashtranslate translate --provider openai --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSourceText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			lang, err := domain.ParseLanguage(to)
			if err != nil {
				return err
			}

			services, err := loadCLIServices()
			if err != nil {
				return err
			}
			providerCfg, err := flags.apply(services.saved)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			result, err := services.gateway.Translate(ctx, providerCfg, domain.TranslationRequest{
				SourceText:     text,
				TargetLanguage: lang.Name,
			})
			if err != nil {
				return errors.New(domain.UserMessage(err))
			}
			return writeResult(cmd.OutOrStdout(), result, jsonOut)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&to, "to", domain.DefaultTargetLanguage().Code, "Target language code")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var flags providerFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the API key is accepted",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := loadCLIServices()
			if err != nil {
				return err
			}
			providerCfg, err := flags.apply(services.saved)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			view := services.gateway.Describe(providerCfg)
			if !services.gateway.ValidateCredential(ctx, providerCfg) {
				return fmt.Errorf("%s credential rejected (%s)", providerCfg.Provider.Label(), view.ResolvedBaseURL)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s credential valid (%s)\n", providerCfg.Provider.Label(), view.ResolvedBaseURL)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

type cliServices struct {
	gateway interface {
		Translate(ctx context.Context, cfg domain.ProviderConfig, req domain.TranslationRequest) (domain.TranslationResult, error)
		ValidateCredential(ctx context.Context, cfg domain.ProviderConfig) bool
		Describe(cfg domain.ProviderConfig) domain.ConfigView
	}
	saved domain.ProviderConfig
}

func loadCLIServices() (cliServices, error) {
	cfg, err := config.Load()
	if err != nil {
		return cliServices{}, err
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return cliServices{}, err
	}
	gw, err := bootstrap.NewGateway(cfg, logger)
	if err != nil {
		return cliServices{}, err
	}

	saved, err := store.NewFileStore(cfg.StorePath).Load()
	if err != nil {
		logger.Warn().Err(err).Msg("stored provider config unreadable, using defaults")
	}
	return cliServices{gateway: gw, saved: saved}, nil
}

func readSourceText(args []string, stdin io.Reader) (string, error) {
	text := strings.Join(args, " ")
	if len(args) == 0 && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyInput
	}
	return strings.TrimRight(text, "\r\n"), nil
}

func writeResult(w io.Writer, result domain.TranslationResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if _, err := fmt.Fprintf(w, "[%s]\n", domain.DetectedLanguageLabel(result.DetectedLanguage)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, result.TranslatedText)
	return err
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
