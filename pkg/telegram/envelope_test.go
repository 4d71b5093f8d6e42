package telegram

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeEnvelopeSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"object", `{"ok":true,"result":{"id":1,"is_bot":true}}`, `{"id":1,"is_bot":true}`},
		{"array", `{"ok":true,"result":[]}`, `[]`},
		{"bool", `{"ok":true,"result":true}`, `true`},
		{"absent result", `{"ok":true}`, `null`},
		{"explicit null", `{"ok":true,"result":null}`, `null`},
		{"extra fields ignored", `{"ok":true,"result":1,"description":"x","future":{}}`, `1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeEnvelope([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeEnvelope() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("result = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeEnvelopeAPIError(t *testing.T) {
	t.Parallel()

	body := `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 7","parameters":{"retry_after":7}}`
	_, err := DecodeEnvelope([]byte(body))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *APIError", err, err)
	}
	if apiErr.Code != 429 {
		t.Errorf("Code = %d, want 429", apiErr.Code)
	}
	if apiErr.Description != "Too Many Requests: retry after 7" {
		t.Errorf("Description = %q, want verbatim description", apiErr.Description)
	}
	if apiErr.RetryAfter() != 7 {
		t.Errorf("RetryAfter() = %d, want 7", apiErr.RetryAfter())
	}
	if !IsAPIError(err, 429) {
		t.Error("IsAPIError(err, 429) = false, want true")
	}
}

func TestDecodeEnvelopeMigrated(t *testing.T) {
	t.Parallel()

	body := `{"ok":false,"error_code":400,"description":"Bad Request: group chat was upgraded to a supergroup chat","parameters":{"migrate_to_chat_id":-1001234567890}}`
	_, err := DecodeEnvelope([]byte(body))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if got := apiErr.MigrateToChatID(); got != -1001234567890 {
		t.Errorf("MigrateToChatID() = %d, want -1001234567890", got)
	}
	if apiErr.RetryAfter() != 0 {
		t.Errorf("RetryAfter() = %d, want 0", apiErr.RetryAfter())
	}
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"empty", ``, "empty body"},
		{"whitespace", "  \n", "empty body"},
		{"invalid json", `{"ok":tru`, "invalid JSON"},
		{"html", `<html>502 Bad Gateway</html>`, "invalid JSON"},
		{"array", `[1,2]`, "not a JSON object"},
		{"missing ok", `{"result":{}}`, `missing "ok"`},
		{"ok not bool", `{"ok":"true","result":{}}`, `"ok" has wrong type`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeEnvelope([]byte(tt.body))
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("error = %T %v, want *DecodeError", err, err)
			}
			if !strings.Contains(decErr.Error(), tt.reason) {
				t.Errorf("error = %q, want it to mention %q", decErr.Error(), tt.reason)
			}
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	t.Parallel()

	err := &APIError{Method: "sendMessage", Code: 400, Description: "Bad Request: chat not found"}
	want := "telegram: sendMessage: 400 Bad Request: chat not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
