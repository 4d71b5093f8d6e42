package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/flemzord/botapi/internal/config"
	"github.com/flemzord/botapi/internal/security"
	"github.com/flemzord/botapi/internal/tracing"
	"github.com/flemzord/botapi/pkg/telegram"
)

// runtime bundles what a command needs to talk to Telegram.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	bot      *telegram.Bot
	registry *prometheus.Registry
	metrics  *telegram.Metrics
	shutdown tracing.ShutdownFunc
}

// loadConfig reads the configuration named by --config, the first file
// found in the standard locations, or the environment alone.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotenv(envFile); err != nil {
		return nil, err
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = resolveConfigPath()
	}

	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRuntime loads the configuration and builds the logger, metrics,
// tracer provider and bot. The caller must call close.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telegram.NewMetrics(registry)

	tp, shutdown, err := tracing.Setup(cmd.Context(), tracing.Config{
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return nil, err
	}

	bot, err := telegram.New(cfg.Bot.Token,
		telegram.WithAPIURL(cfg.Bot.APIURL),
		telegram.WithHTTPClient(&http.Client{Timeout: cfg.Bot.RequestTimeout}),
		telegram.WithLogger(logger),
		telegram.WithMetrics(metrics),
		telegram.WithTracerProvider(tp),
	)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		bot:      bot,
		registry: registry,
		metrics:  metrics,
		shutdown: shutdown,
	}, nil
}

func (rt *runtime) close() {
	_ = rt.bot.Close()
	if err := rt.shutdown(context.Background()); err != nil {
		rt.logger.Warn("tracing shutdown failed", "error", err)
	}
}

// newLogger builds the configured handler wrapped so the bot token and
// webhook secret never reach the output.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch cfg.Log.Format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}

	redactor := security.NewRedactor(cfg.Bot.Token, cfg.Webhook.SecretToken)
	return slog.New(security.NewRedactingHandler(h, redactor)), nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describeError adds a hint to well-known Bot API failures.
func describeError(err error) error {
	var apiErr *telegram.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w (check TELEGRAM_BOT_TOKEN)", err)
	case apiErr.RetryAfter() > 0:
		return fmt.Errorf("%w (retry after %ds)", err, apiErr.RetryAfter())
	case apiErr.MigrateToChatID() != 0:
		return fmt.Errorf("%w (chat moved to %d)", err, apiErr.MigrateToChatID())
	case strings.Contains(apiErr.Description, "webhook is active"):
		return fmt.Errorf("%w (run 'botapi webhook delete' first)", err)
	}
	return err
}

// openOutput opens path for writing, "-" meaning stdout.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
