package config

import (
	"strings"
	"testing"
	"time"
)

const validToken = "123456:ABC-def_ghi"

func validConfig() *Config {
	cfg := Default()
	cfg.Bot.Token = validToken
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	if err := Validate(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DefaultNeedsToken(t *testing.T) {
	t.Parallel()

	err := Validate(Default())
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	if !strings.Contains(err.Error(), "bot.token: is required") {
		t.Errorf("error should name bot.token: %v", err)
	}
}

func TestValidate_Fields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad token", func(c *Config) { c.Bot.Token = "not-a-token" }, "bot.token: must be <bot_id>:<secret>"},
		{"unsupported version", func(c *Config) { c.Version = "99" }, `version: unsupported value "99"`},
		{"missing version", func(c *Config) { c.Version = "" }, "version: is required"},
		{"bad api url", func(c *Config) { c.Bot.APIURL = "nope" }, "bot.api_url: must be a valid URL"},
		{"zero request timeout", func(c *Config) { c.Bot.RequestTimeout = 0 }, "bot.request_timeout"},
		{"request timeout within poll", func(c *Config) { c.Bot.RequestTimeout = 10 * time.Second }, "bot.request_timeout: must be longer than polling.timeout (30s)"},
		{"request timeout equals poll", func(c *Config) { c.Polling.Timeout = 50; c.Bot.RequestTimeout = 50 * time.Second }, "must be longer than polling.timeout (50s)"},
		{"poll timeout too long", func(c *Config) { c.Polling.Timeout = 90 }, "polling.timeout: must be at most 50"},
		{"poll limit", func(c *Config) { c.Polling.Limit = 500 }, "polling.limit"},
		{"http webhook", func(c *Config) { c.Webhook.URL = "http://example.com/hook" }, `webhook.url: must start with "https://"`},
		{"secret charset", func(c *Config) { c.Webhook.SecretToken = "a b" }, "webhook.secret_token"},
		{"relative path", func(c *Config) { c.Webhook.Path = "hook" }, "webhook.path"},
		{"listen", func(c *Config) { c.Webhook.Listen = "8080" }, "webhook.listen: must be host:port"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level: must be one of"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"tracing endpoint", func(c *Config) { c.Tracing.Endpoint = "http://collector" }, "tracing.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Bot.Token = ""
	cfg.Bot.RequestTimeout = -time.Second
	cfg.Log.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if n := strings.Count(err.Error(), "config: "); n != 3 {
		t.Errorf("got %d errors, want 3: %v", n, err)
	}
}

func TestValidate_OptionalFieldsAccepted(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Webhook.URL = "https://bot.example.com/telegram/webhook"
	cfg.Webhook.SecretToken = "s3cret_token-1"
	cfg.Webhook.MaxConnections = 40
	cfg.Webhook.Listen = "127.0.0.1:9000"
	cfg.Polling.Limit = 100
	cfg.Tracing.Endpoint = "localhost:4318"

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ShortRequestTimeoutWithoutPolling(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Polling.Timeout = 0
	cfg.Bot.RequestTimeout = 5 * time.Second

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
