package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
)

// APIResponse is the generic wrapper returned by the Telegram Bot API.
type APIResponse[T any] struct {
	OK          bool                `json:"ok"`
	Result      T                   `json:"result,omitempty"`
	Description string              `json:"description,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

// Envelope is an APIResponse whose result has not been mapped yet.
type Envelope = APIResponse[json.RawMessage]

// ResponseParameters contains information about why a request was unsuccessful.
type ResponseParameters struct {
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
	RetryAfter      int   `json:"retry_after,omitempty"`
}

// envelope mirrors APIResponse with a pointer for ok so a missing field is
// distinguishable from ok=false.
type envelope struct {
	OK          *bool               `json:"ok"`
	Result      json.RawMessage     `json:"result"`
	Description string              `json:"description"`
	ErrorCode   int                 `json:"error_code"`
	Parameters  *ResponseParameters `json:"parameters"`
}

var jsonNull = json.RawMessage("null")

// DecodeEnvelope parses a raw Bot API response body. On ok=true it returns
// the result bytes exactly as received (JSON null when the result is absent).
// On ok=false it returns an *APIError carrying error_code and description
// verbatim. A body that is not a JSON object with a boolean "ok" field
// yields a *DecodeError.
func DecodeEnvelope(body []byte) (json.RawMessage, error) {
	return decodeEnvelope("", 0, body)
}

func decodeEnvelope(method string, status int, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Method: method, StatusCode: status, Reason: "empty body"}
	}
	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, &DecodeError{Method: method, StatusCode: status, Reason: "invalid JSON"}
		}
		return nil, &DecodeError{Method: method, StatusCode: status, Reason: "envelope is not a JSON object"}
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &DecodeError{Method: method, StatusCode: status, Reason: "field \"" + typeErr.Field + "\" has wrong type", Err: err}
		}
		return nil, &DecodeError{Method: method, StatusCode: status, Reason: "invalid JSON", Err: err}
	}

	if env.OK == nil {
		return nil, &DecodeError{Method: method, StatusCode: status, Reason: "missing \"ok\" field"}
	}

	if !*env.OK {
		return nil, &APIError{
			Method:      method,
			Code:        env.ErrorCode,
			Description: env.Description,
			Parameters:  env.Parameters,
		}
	}

	if len(env.Result) == 0 {
		return jsonNull, nil
	}
	return env.Result, nil
}
