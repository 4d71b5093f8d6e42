// Package config handles YAML configuration loading, environment variable
// expansion and overrides, and validation for botapi.
package config

import (
	"time"

	"github.com/flemzord/botapi/pkg/telegram"
)

// Default values applied before the file and the environment are read.
const (
	DefaultPollTimeout    = 30
	DefaultRequestTimeout = 60 * time.Second
	DefaultListen         = ":8080"
	DefaultWebhookPath    = "/telegram/webhook"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultServiceName    = "botapi"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version" validate:"required,eq=1"`

	Bot     BotConfig     `yaml:"bot"`
	Polling PollingConfig `yaml:"polling"`
	Webhook WebhookConfig `yaml:"webhook"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Tracing TracingConfig `yaml:"tracing"`
}

// BotConfig identifies the bot and the Bot API server it talks to.
type BotConfig struct {
	// Token is the BotFather token, usually given as ${TELEGRAM_BOT_TOKEN}.
	Token string `yaml:"token" validate:"required,token"`

	// APIURL points at the Bot API server.
	APIURL string `yaml:"api_url" validate:"required,url"`

	// RequestTimeout bounds a single HTTP request, long polls included.
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
}

// PollingConfig controls getUpdates long polling.
type PollingConfig struct {
	// Timeout is the long-polling timeout in seconds.
	Timeout int `yaml:"timeout" validate:"min=0,max=50"`

	// Limit caps updates per call. Zero lets Telegram choose (100).
	Limit int `yaml:"limit,omitempty" validate:"omitempty,min=1,max=100"`

	AllowedUpdates []string `yaml:"allowed_updates,omitempty"`
}

// WebhookConfig controls the webhook registration and the local listener.
type WebhookConfig struct {
	// URL is the public HTTPS address registered with setWebhook.
	URL string `yaml:"url,omitempty" validate:"omitempty,url,startswith=https://"`

	// SecretToken is sent by Telegram in X-Telegram-Bot-Api-Secret-Token.
	SecretToken string `yaml:"secret_token,omitempty" validate:"omitempty,max=256,webhooksecret"`

	MaxConnections int `yaml:"max_connections,omitempty" validate:"omitempty,min=1,max=100"`

	// Listen is the local address of the webhook server.
	Listen string `yaml:"listen" validate:"required,hostname_port"`

	// Path is the route receiving updates.
	Path string `yaml:"path" validate:"required,startswith=/"`
}

// StorageConfig selects where the polling offset is persisted.
type StorageConfig struct {
	// OffsetDB is the SQLite file for polling offsets. Empty keeps the
	// offset in memory.
	OffsetDB string `yaml:"offset_db,omitempty"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// TracingConfig enables OTLP/HTTP span export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint,omitempty" validate:"omitempty,hostname_port"`
	Insecure    bool   `yaml:"insecure,omitempty"`
	ServiceName string `yaml:"service_name,omitempty"`
}

// Default returns a configuration holding every default value and no token.
func Default() *Config {
	return &Config{
		Version: "1",
		Bot: BotConfig{
			APIURL:         telegram.DefaultAPIURL,
			RequestTimeout: DefaultRequestTimeout,
		},
		Polling: PollingConfig{
			Timeout: DefaultPollTimeout,
		},
		Webhook: WebhookConfig{
			Listen: DefaultListen,
			Path:   DefaultWebhookPath,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Tracing: TracingConfig{
			ServiceName: DefaultServiceName,
		},
	}
}
