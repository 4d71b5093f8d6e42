package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every override so the host environment cannot leak
// into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_API_URL", "BOTAPI_REQUEST_TIMEOUT",
		"BOTAPI_POLL_TIMEOUT", "BOTAPI_ALLOWED_UPDATES", "TELEGRAM_WEBHOOK_URL",
		"TELEGRAM_WEBHOOK_SECRET", "BOTAPI_LISTEN", "BOTAPI_OFFSET_DB",
		"BOTAPI_LOG_LEVEL", "BOTAPI_LOG_FORMAT", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_BOT_TOKEN", validToken)

	path := writeFile(t, "botapi.yaml", `
version: "1"
bot:
  token: ${TEST_BOT_TOKEN}
  request_timeout: 15s
polling:
  timeout: ${TEST_POLL_TIMEOUT:-10}
  allowed_updates: [message, callback_query]
webhook:
  url: https://bot.example.com/telegram/webhook
storage:
  offset_db: /var/lib/botapi/offsets.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Bot.Token != validToken {
		t.Errorf("Bot.Token = %q, want %q", cfg.Bot.Token, validToken)
	}
	if cfg.Bot.RequestTimeout != 15*time.Second {
		t.Errorf("Bot.RequestTimeout = %v, want 15s", cfg.Bot.RequestTimeout)
	}
	if cfg.Polling.Timeout != 10 {
		t.Errorf("Polling.Timeout = %d, want 10", cfg.Polling.Timeout)
	}
	if !reflect.DeepEqual(cfg.Polling.AllowedUpdates, []string{"message", "callback_query"}) {
		t.Errorf("Polling.AllowedUpdates = %v", cfg.Polling.AllowedUpdates)
	}
	if cfg.Storage.OffsetDB != "/var/lib/botapi/offsets.db" {
		t.Errorf("Storage.OffsetDB = %q", cfg.Storage.OffsetDB)
	}

	// Defaults survive for keys the file does not set.
	if cfg.Bot.APIURL != "https://api.telegram.org" {
		t.Errorf("Bot.APIURL = %q, want default", cfg.Bot.APIURL)
	}
	if cfg.Webhook.Listen != DefaultListen || cfg.Webhook.Path != DefaultWebhookPath {
		t.Errorf("Webhook = %+v, want default listen and path", cfg.Webhook)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "botapi.yaml", "version: \"1\"\nbot:\n  token: ${BOTAPI_TEST_UNSET_VAR}\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unresolved variable")
	}
	if !strings.Contains(err.Error(), "BOTAPI_TEST_UNSET_VAR") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "botapi.yaml", "bot: [unclosed\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("Load() error = %v, want parsing error", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "999:override")
	t.Setenv("BOTAPI_LOG_LEVEL", "DEBUG")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")

	path := writeFile(t, "botapi.yaml", "version: \"1\"\nbot:\n  token: \"111:fromfile\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Bot.Token != "999:override" {
		t.Errorf("Bot.Token = %q, want env override", cfg.Bot.Token)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Tracing.Endpoint != "collector:4318" {
		t.Errorf("Tracing.Endpoint = %q, want collector:4318", cfg.Tracing.Endpoint)
	}
	if !cfg.Tracing.Insecure {
		t.Error("Tracing.Insecure = false, want true for an http endpoint")
	}
}

func TestLoad_OTLPEndpointForms(t *testing.T) {
	tests := []struct {
		value    string
		endpoint string
		insecure bool
	}{
		{"http://collector:4318/", "collector:4318", true},
		{"https://collector:4318/v1/traces", "collector:4318", false},
		{"collector:4318", "collector:4318", false},
		{"collector:4318/v1/traces", "collector:4318", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", tt.value)

			path := writeFile(t, "botapi.yaml", "version: \"1\"\nbot:\n  token: \""+validToken+"\"\n")
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.Tracing.Endpoint != tt.endpoint {
				t.Errorf("Tracing.Endpoint = %q, want %q", cfg.Tracing.Endpoint, tt.endpoint)
			}
			if cfg.Tracing.Insecure != tt.insecure {
				t.Errorf("Tracing.Insecure = %v, want %v", cfg.Tracing.Insecure, tt.insecure)
			}
			if err := Validate(cfg); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", validToken)
	// godotenv never overrides a variable that is set, even to "".
	os.Unsetenv("BOTAPI_POLL_TIMEOUT")
	os.Unsetenv("BOTAPI_ALLOWED_UPDATES")

	dotenv := writeFile(t, ".env", "BOTAPI_POLL_TIMEOUT=25\nBOTAPI_ALLOWED_UPDATES=message,poll\n")

	cfg, err := LoadEnv(dotenv, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnv() error: %v", err)
	}
	if cfg.Bot.Token != validToken {
		t.Errorf("Bot.Token = %q", cfg.Bot.Token)
	}
	if cfg.Polling.Timeout != 25 {
		t.Errorf("Polling.Timeout = %d, want 25 from .env", cfg.Polling.Timeout)
	}
	if !reflect.DeepEqual(cfg.Polling.AllowedUpdates, []string{"message", "poll"}) {
		t.Errorf("Polling.AllowedUpdates = %v", cfg.Polling.AllowedUpdates)
	}
	if cfg.Webhook.Path != DefaultWebhookPath {
		t.Errorf("Webhook.Path = %q, want default", cfg.Webhook.Path)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.Bot.Token = validToken
	cfg.Webhook.SecretToken = "abc"

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "request_timeout: 1m0s") {
		t.Errorf("duration not rendered as text:\n%s", data)
	}

	path := writeFile(t, "botapi.yaml", string(data))
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(back, cfg) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", back, cfg)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("BOTAPI_TEST_SET", "value")
	t.Setenv("BOTAPI_TEST_EMPTY", "")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{name: "set", in: "a: ${BOTAPI_TEST_SET}", want: "a: value"},
		{name: "default unused", in: "a: ${BOTAPI_TEST_SET:-other}", want: "a: value"},
		{name: "default when unset", in: "a: ${BOTAPI_TEST_UNSET:-fallback}", want: "a: fallback"},
		{name: "default when empty", in: "a: ${BOTAPI_TEST_EMPTY:-fallback}", want: "a: fallback"},
		{name: "empty without default", in: "a: '${BOTAPI_TEST_EMPTY}'", want: "a: ''"},
		{name: "escaped brace", in: `a: ${BOTAPI_TEST_UNSET:-{x\}}`, want: "a: {x}"},
		{
			name:    "each missing variable named once",
			in:      "a: ${BOTAPI_TEST_UNSET}\nb: ${BOTAPI_TEST_UNSET}\nc: ${BOTAPI_TEST_OTHER}",
			wantErr: "unresolved variables: BOTAPI_TEST_UNSET, BOTAPI_TEST_OTHER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnv([]byte(tt.in))
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Errorf("expandEnv() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnv() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expandEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}
