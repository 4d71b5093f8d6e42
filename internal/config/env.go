package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// envConfig lists the variables that override the configuration. Empty
// or zero values leave the file value untouched.
type envConfig struct {
	Token          string        `env:"TELEGRAM_BOT_TOKEN"`
	APIURL         string        `env:"TELEGRAM_API_URL"`
	RequestTimeout time.Duration `env:"BOTAPI_REQUEST_TIMEOUT"`
	PollTimeout    int           `env:"BOTAPI_POLL_TIMEOUT"`
	AllowedUpdates []string      `env:"BOTAPI_ALLOWED_UPDATES" envSeparator:","`
	WebhookURL     string        `env:"TELEGRAM_WEBHOOK_URL"`
	WebhookSecret  string        `env:"TELEGRAM_WEBHOOK_SECRET"`
	Listen         string        `env:"BOTAPI_LISTEN"`
	OffsetDB       string        `env:"BOTAPI_OFFSET_DB"`
	LogLevel       string        `env:"BOTAPI_LOG_LEVEL"`
	LogFormat      string        `env:"BOTAPI_LOG_FORMAT"`
	OTLPEndpoint   string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func applyEnv(cfg *Config) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("config: reading environment: %w", err)
	}

	setString(&cfg.Bot.Token, e.Token)
	setString(&cfg.Bot.APIURL, e.APIURL)
	if e.RequestTimeout > 0 {
		cfg.Bot.RequestTimeout = e.RequestTimeout
	}
	if e.PollTimeout > 0 {
		cfg.Polling.Timeout = e.PollTimeout
	}
	if len(e.AllowedUpdates) > 0 && e.AllowedUpdates[0] != "" {
		cfg.Polling.AllowedUpdates = e.AllowedUpdates
	}
	setString(&cfg.Webhook.URL, e.WebhookURL)
	setString(&cfg.Webhook.SecretToken, e.WebhookSecret)
	setString(&cfg.Webhook.Listen, e.Listen)
	setString(&cfg.Storage.OffsetDB, e.OffsetDB)
	setString(&cfg.Log.Level, strings.ToLower(e.LogLevel))
	setString(&cfg.Log.Format, strings.ToLower(e.LogFormat))
	if e.OTLPEndpoint != "" {
		endpoint, insecure, err := otlpHostPort(e.OTLPEndpoint)
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = endpoint
		if insecure {
			cfg.Tracing.Insecure = true
		}
	}
	return nil
}

// otlpHostPort reduces an OTLP endpoint URL to host:port. An http scheme
// means the exporter must not use TLS.
func otlpHostPort(raw string) (string, bool, error) {
	if !strings.Contains(raw, "://") {
		host, _, _ := strings.Cut(raw, "/")
		return host, false, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("config: OTEL_EXPORTER_OTLP_ENDPOINT: invalid URL %q", raw)
	}
	return u.Host, u.Scheme == "http", nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// LoadDotenv loads the .env files that exist into the process
// environment. Missing files are skipped and set variables are kept.
func LoadDotenv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: loading %s: %w", f, err)
		}
	}
	return nil
}
